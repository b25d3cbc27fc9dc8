package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrCompile is matched by every *CompileError.
	ErrCompile = errors.New("expr: compile failed")

	// ErrEvaluation is matched by every *EvaluationError.
	ErrEvaluation = errors.New("expr: evaluation failed")
)

// CompileError reports malformed expression text. Pos is a byte offset into
// Source.
type CompileError struct {
	Source string
	Pos    int
	Msg    string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("expr: compile %q: %s at offset %d", e.Source, e.Msg, e.Pos)
}

func (e *CompileError) Is(target error) bool {
	return target == ErrCompile
}

// EvaluationError reports a call that could not produce a finite number.
type EvaluationError struct {
	Source string
	Args   []float64
	Value  float64
	Msg    string
}

func (e *EvaluationError) Error() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = strconv.FormatFloat(a, 'g', -1, 64)
	}
	msg := e.Msg
	if msg == "" {
		msg = "non-finite result " + strconv.FormatFloat(e.Value, 'g', -1, 64)
	}
	return fmt.Sprintf("expr: evaluate %q(%s): %s", e.Source, strings.Join(args, ", "), msg)
}

func (e *EvaluationError) Is(target error) bool {
	return target == ErrEvaluation
}
