package surface

import (
	"strings"

	"surface-engine/expr"
)

// maxCachedFuncs bounds the cache; typing formulas into the REPL would
// otherwise grow it without limit.
const maxCachedFuncs = 64

// funcCache keeps compiled formulas keyed by parameter list and source text.
// Entries are never changed, only added or dropped wholesale.
type funcCache struct {
	funcs map[string]*expr.Func
}

func newFuncCache() *funcCache {
	return &funcCache{funcs: make(map[string]*expr.Func)}
}

func (c *funcCache) compile(source string, params ...string) (*expr.Func, error) {
	key := strings.Join(params, ",") + "\x00" + source
	if f, ok := c.funcs[key]; ok {
		return f, nil
	}
	f, err := expr.Compile(source, params...)
	if err != nil {
		return nil, err
	}
	if len(c.funcs) >= maxCachedFuncs {
		clear(c.funcs)
	}
	c.funcs[key] = f
	return f, nil
}

func (c *funcCache) len() int {
	return len(c.funcs)
}
