package main

import (
	"bufio"
	"io"
	"log/slog"
)

// readLines sends every line of r to the returned channel and closes it at
// EOF. Lines are applied by the frame loop, never by this goroutine.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string, 16)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			lines <- sc.Text()
		}
		if err := sc.Err(); err != nil {
			slog.Warn("console input closed", "error", err)
		}
	}()
	return lines
}

// drain returns the lines already queued without blocking.
func drain(lines <-chan string) []string {
	var out []string
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return out
			}
			out = append(out, line)
		default:
			return out
		}
	}
}
