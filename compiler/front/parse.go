package front

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/exprlang/exprc/compiler/ast"
)

type (
	State struct {
		b []byte

		name string
	}

	UnexpectedError struct {
		Pos   int
		Token Token
		Want  []Token
	}
)

// binary precedence levels go from ast.OpOr up to this one
const maxBinPrec = 10

func New() *State {
	return &State{}
}

func (s *State) AddFile(ctx context.Context, name string, text []byte) {
	s.name = name
	s.b = append(s.b, text...)
}

// Parse consumes the input as exactly one expression.
func (s *State) Parse(ctx context.Context) (x ast.Node, err error) {
	var i int

	x, i, err = s.parseExpr(ctx, 0)
	if err != nil {
		return nil, errors.Wrap(err, "at pos 0x%x", i)
	}

	tk, tst, _, err := s.next(ctx, i)
	if err != nil {
		return nil, errors.Wrap(err, "at pos 0x%x", tst)
	}
	if tk != nil {
		return nil, UnexpectedError{Pos: tst, Token: tk}
	}

	tlog.SpanFromContext(ctx).Printw("parsed expression", "name", s.name, "size", len(s.b))

	return x, nil
}

func (s *State) parseExpr(ctx context.Context, st int) (x ast.Node, i int, err error) {
	return s.parseTernary(ctx, st)
}

func (s *State) parseTernary(ctx context.Context, st int) (x ast.Node, i int, err error) {
	st = skipSpaces(s.b, st) // so that node Pos points at the first token

	x, i, err = s.parseBinExpr(ctx, st, 1)
	if err != nil {
		return nil, i, err
	}

	tk, tst, e, err := s.next(ctx, i)
	if err != nil {
		return nil, tst, err
	}
	if tk != Punct("?") {
		return x, tst, nil
	}

	var then, els ast.Node

	then, i, err = s.parseExpr(ctx, e)
	if err != nil {
		return nil, i, errors.Wrap(err, "then branch")
	}

	tk, tst, i, err = s.next(ctx, i)
	if err != nil {
		return nil, tst, err
	}
	if tk != Punct(":") {
		return nil, tst, NewUnexpected(tst, tk, Punct(":"))
	}

	// else branch reenters this level, which makes `?:` right-associative
	els, i, err = s.parseTernary(ctx, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "else branch")
	}

	return ast.Ternary{
		Base: ast.Base{Pos: st, End: i},
		Cond: x,
		Then: then,
		Else: els,
	}, i, nil
}

func (s *State) parseBinExpr(ctx context.Context, st, prec int) (x ast.Node, i int, err error) {
	if prec > maxBinPrec {
		return s.parseUnary(ctx, st)
	}

	st = skipSpaces(s.b, st)

	x, i, err = s.parseBinExpr(ctx, st, prec+1)
	if err != nil {
		return nil, i, err
	}

	for {
		var tk Token
		var tst, e int

		tk, tst, e, err = s.next(ctx, i)
		if err != nil {
			return nil, tst, err
		}

		op := binOp(tk)
		if op == ast.OpNone || op.Prec() != prec {
			i = tst
			break
		}

		var r ast.Node

		r, i, err = s.parseBinExpr(ctx, e, prec+1)
		if err != nil {
			return nil, i, errors.Wrap(err, "%v right operand", op)
		}

		x = ast.BinOp{
			Base:  ast.Base{Pos: st, End: i},
			Op:    op,
			Left:  x,
			Right: r,
		}
	}

	return x, i, nil
}

func (s *State) parseUnary(ctx context.Context, st int) (x ast.Node, i int, err error) {
	tk, tst, e, err := s.next(ctx, st)
	if err != nil {
		return nil, tst, err
	}

	var op ast.Op

	switch tk {
	case Punct("-"):
		op = ast.OpNeg
	case Punct("+"):
		op = ast.OpPlus
	case Punct("!"):
		op = ast.OpNot
	case Punct("~"):
		op = ast.OpBitNot
	default:
		return s.parsePrimary(ctx, st)
	}

	x, i, err = s.parseUnary(ctx, e)
	if err != nil {
		return nil, i, errors.Wrap(err, "%v operand", op)
	}

	return ast.Unary{
		Base: ast.Base{Pos: tst, End: i},
		Op:   op,
		Expr: x,
	}, i, nil
}

func (s *State) parsePrimary(ctx context.Context, st int) (x ast.Node, i int, err error) {
	tk, tst, i, err := s.next(ctx, st)
	if err != nil {
		return nil, tst, err
	}

	switch tk := tk.(type) {
	case Number:
		v, err := strconv.ParseInt(string(tk), 10, 64)
		if err != nil {
			return nil, tst, errors.Wrap(err, "parse int")
		}

		return ast.Lit{
			Base:  ast.Base{Pos: tst, End: i},
			Value: v,
		}, i, nil
	case Punct:
		if tk != "(" {
			break
		}

		x, i, err = s.parseExpr(ctx, i)
		if err != nil {
			return nil, i, err
		}

		var c Token
		var cst int

		c, cst, i, err = s.next(ctx, i)
		if err != nil {
			return nil, cst, err
		}
		if c != Punct(")") {
			return nil, cst, NewUnexpected(cst, c, Punct(")"))
		}

		return x, i, nil
	}

	return nil, tst, NewUnexpected(tst, tk, Number{}, Punct("("))
}

func binOp(tk Token) ast.Op {
	p, ok := tk.(Punct)
	if !ok {
		return ast.OpNone
	}

	switch p {
	case "||":
		return ast.OpOr
	case "&&":
		return ast.OpAnd
	case "|":
		return ast.OpBitOr
	case "^":
		return ast.OpBitXor
	case "&":
		return ast.OpBitAnd
	case "==":
		return ast.OpEq
	case "!=":
		return ast.OpNE
	case "<":
		return ast.OpLT
	case "<=":
		return ast.OpLE
	case ">":
		return ast.OpGT
	case ">=":
		return ast.OpGE
	case "<<":
		return ast.OpShl
	case ">>":
		return ast.OpShr
	case "+":
		return ast.OpAdd
	case "-":
		return ast.OpSub
	case "*":
		return ast.OpMul
	case "/":
		return ast.OpDiv
	case "%":
		return ast.OpRem
	}

	return ast.OpNone
}

func NewUnexpected(pos int, got Token, want ...Token) error {
	return UnexpectedError{
		Pos:   pos,
		Token: got,
		Want:  want,
	}
}

func (e UnexpectedError) Error() string {
	if len(e.Want) == 0 {
		return fmt.Sprintf("trailing input at offset %d: %s", e.Pos, tokenName(e.Token))
	}

	l := make([]string, len(e.Want))

	for i := range e.Want {
		l[i] = tokenName(e.Want[i])
	}

	return fmt.Sprintf("unexpected %s at offset %d, want %s", tokenName(e.Token), e.Pos, strings.Join(l, " or "))
}

func tokenName(tk Token) string {
	switch tk := tk.(type) {
	case nil:
		return "end of input"
	case Number:
		return "number"
	case Punct:
		return fmt.Sprintf("%q", string(tk))
	default:
		return fmt.Sprintf("%T", tk)
	}
}
