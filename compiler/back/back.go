package back

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/exprlang/exprc/compiler/asm"
	"github.com/exprlang/exprc/compiler/ast"
)

type (
	Compiler struct{}

	state struct {
		asm.Gen

		label asm.Label
	}
)

func New() *Compiler {
	return &Compiler{}
}

// Compile walks the expression tree and appends assembly text to b.
// Code emitted for every node leaves exactly one value on the stack
// and consumes the values its operands pushed,
// so the epilogue pops the result of the whole expression.
func (c *Compiler) Compile(ctx context.Context, g asm.Gen, b []byte, x ast.Node) ([]byte, error) {
	s := &state{Gen: g}

	b = s.Prologue(b, "main")
	b = s.expr(b, x)
	b = s.Epilogue(b)

	tlog.SpanFromContext(ctx).Printw("generated code", "size", len(b), "labels", s.label)

	return b, nil
}

func (s *state) expr(b []byte, x ast.Node) []byte {
	switch x := x.(type) {
	case ast.Lit:
		b = s.PushImm(b, x.Value)
	case ast.Unary:
		b = s.expr(b, x.Expr)

		switch x.Op {
		case ast.OpPlus:
			// value is already on the stack
		case ast.OpNeg:
			b = s.Neg(b)
		case ast.OpNot:
			b = s.LogicalNot(b)
		case ast.OpBitNot:
			b = s.BitNot(b)
		default:
			panic(x.Op)
		}
	case ast.BinOp:
		switch x.Op {
		case ast.OpAnd:
			return s.logicalAnd(b, x)
		case ast.OpOr:
			return s.logicalOr(b, x)
		}

		b = s.expr(b, x.Left)
		b = s.expr(b, x.Right)
		b = s.BinOp(b, x.Op)
	case ast.Ternary:
		b = s.ternary(b, x)
	default:
		panic(x)
	}

	return b
}

// logicalAnd skips the right operand if the left one is already zero.
// Either way the result is coerced to 0 or 1.
func (s *state) logicalAnd(b []byte, x ast.BinOp) []byte {
	lfalse := s.next()
	lend := s.next()

	b = s.expr(b, x.Left)
	b = s.JmpZero(b, lfalse)

	b = s.expr(b, x.Right)
	b = s.JmpZero(b, lfalse)

	b = s.MovImm(b, "rax", 1)
	b = s.Jmp(b, lend)
	b = s.Label(b, lfalse)
	b = s.MovImm(b, "rax", 0)
	b = s.Label(b, lend)

	return s.Push(b, "rax")
}

func (s *state) logicalOr(b []byte, x ast.BinOp) []byte {
	ltrue := s.next()
	lend := s.next()

	b = s.expr(b, x.Left)
	b = s.JmpNonzero(b, ltrue)

	b = s.expr(b, x.Right)
	b = s.JmpNonzero(b, ltrue)

	b = s.MovImm(b, "rax", 0)
	b = s.Jmp(b, lend)
	b = s.Label(b, ltrue)
	b = s.MovImm(b, "rax", 1)
	b = s.Label(b, lend)

	return s.Push(b, "rax")
}

// ternary evaluates the condition and exactly one branch at runtime,
// whichever branch runs leaves the result on the stack.
func (s *state) ternary(b []byte, x ast.Ternary) []byte {
	lelse := s.next()
	lend := s.next()

	b = s.expr(b, x.Cond)
	b = s.JmpZero(b, lelse)

	b = s.expr(b, x.Then)
	b = s.Jmp(b, lend)

	b = s.Label(b, lelse)
	b = s.expr(b, x.Else)
	b = s.Label(b, lend)

	return b
}

// next returns a label not used before in this compilation.
func (s *state) next() asm.Label {
	s.label++

	return s.label
}
