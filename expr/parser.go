package expr

import "fmt"

type node interface {
	position() int
}

type numberNode struct {
	at    int
	value float64
}

type identNode struct {
	at   int
	name string
}

type unaryNode struct {
	at int
	op string
	x  node
}

type binaryNode struct {
	at   int
	op   string
	x, y node
}

type condNode struct {
	at              int
	cond, then, els node
}

type callNode struct {
	at   int
	name string
	args []node
}

func (n *numberNode) position() int { return n.at }
func (n *identNode) position() int  { return n.at }
func (n *unaryNode) position() int  { return n.at }
func (n *binaryNode) position() int { return n.at }
func (n *condNode) position() int   { return n.at }
func (n *callNode) position() int   { return n.at }

// Binding strength of the left-associative binary operators. Power and the
// unary operators are handled by dedicated parse levels.
var binaryPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, "<=": 4, ">": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
}

type parser struct {
	src  string
	toks []token
	i    int
}

func parse(src string) (node, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	if p.peek().kind == tokEOF {
		return nil, p.errorf(p.peek(), "empty expression")
	}
	n, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %s", t)
	}
	return n, nil
}

func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) advance() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.peek()
	if t.kind != kind {
		return t, p.errorf(t, "expected %s, found %s", what, t)
	}
	return p.advance(), nil
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return &CompileError{Source: p.src, Pos: t.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parseTernary() (node, error) {
	cond, err := p.parseBinary(1)
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokQuestion {
		return cond, nil
	}
	q := p.advance()
	then, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon, `":"`); err != nil {
		return nil, err
	}
	els, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &condNode{at: q.pos, cond: cond, then: then, els: els}, nil
}

func (p *parser) parseBinary(minPrec int) (node, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		prec, ok := binaryPrec[t.text]
		if t.kind != tokOp || !ok || prec < minPrec {
			return x, nil
		}
		p.advance()
		y, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		x = &binaryNode{at: t.pos, op: t.text, x: x, y: y}
	}
}

func (p *parser) parseUnary() (node, error) {
	t := p.peek()
	if t.kind == tokOp && (t.text == "-" || t.text == "+" || t.text == "!") {
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{at: t.pos, op: t.text, x: x}, nil
	}
	return p.parsePower()
}

// parsePower binds tighter than a unary minus on its left, so -x^2 is
// -(x^2), while the exponent may itself carry a sign: 2^-1.
func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t.kind != tokOp || (t.text != "^" && t.text != "**") {
		return base, nil
	}
	p.advance()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &binaryNode{at: t.pos, op: "^", x: base, y: exp}, nil
}

func (p *parser) parsePrimary() (node, error) {
	t := p.advance()
	switch t.kind {
	case tokNumber:
		return &numberNode{at: t.pos, value: t.num}, nil
	case tokIdent:
		if p.peek().kind != tokLParen {
			return &identNode{at: t.pos, name: t.text}, nil
		}
		p.advance()
		return p.parseCall(t)
	case tokLParen:
		n, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, `")"`); err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, p.errorf(t, "unexpected %s", t)
}

func (p *parser) parseCall(name token) (node, error) {
	call := &callNode{at: name.pos, name: name.text}
	if p.peek().kind == tokRParen {
		p.advance()
		return call, nil
	}
	for {
		arg, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		call.args = append(call.args, arg)
		if p.peek().kind != tokComma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(tokRParen, `")"`); err != nil {
		return nil, err
	}
	return call, nil
}
