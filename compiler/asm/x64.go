package asm

import (
	"github.com/nikandfor/hacked/hfmt"

	"github.com/exprlang/exprc/compiler/ast"
)

type (
	// Label is a branch target, rendered as .L<n>.
	Label int

	// Gen appends x86-64 instructions in AT&T syntax.
	// The zero value targets linux, Mac switches to mach-o symbol naming.
	Gen struct {
		Mac bool
	}
)

func (g Gen) Symbol(name string) string {
	if g.Mac {
		return "_" + name
	}

	return name
}

func (g Gen) Prologue(b []byte, name string) []byte {
	b = append(b, "  .text\n"...)
	b = hfmt.Appendf(b, ".global %s\n", g.Symbol(name))
	b = hfmt.Appendf(b, "%s:\n", g.Symbol(name))
	b = g.Push(b, "rbp")
	b = append(b, "  movq %rsp, %rbp\n"...)

	return b
}

// Epilogue pops the remaining stack value into the return register.
func (g Gen) Epilogue(b []byte) []byte {
	b = g.Pop(b, "rax")
	b = append(b, "  leave\n  ret\n"...)

	return b
}

func (g Gen) Push(b []byte, reg string) []byte {
	return hfmt.Appendf(b, "  pushq %%%s\n", reg)
}

func (g Gen) Pop(b []byte, reg string) []byte {
	return hfmt.Appendf(b, "  popq %%%s\n", reg)
}

func (g Gen) MovImm(b []byte, reg string, v int64) []byte {
	return hfmt.Appendf(b, "  movq $%d, %%%s\n", v, reg)
}

func (g Gen) PushImm(b []byte, v int64) []byte {
	b = g.MovImm(b, "rax", v)

	return g.Push(b, "rax")
}

func (g Gen) Neg(b []byte) []byte {
	b = g.Pop(b, "rax")
	b = append(b, "  negq %rax\n"...)

	return g.Push(b, "rax")
}

func (g Gen) BitNot(b []byte) []byte {
	b = g.Pop(b, "rax")
	b = append(b, "  notq %rax\n"...)

	return g.Push(b, "rax")
}

func (g Gen) LogicalNot(b []byte) []byte {
	b = g.Pop(b, "rax")
	b = append(b, "  cmpq $0, %rax\n  sete %al\n  movzbq %al, %rax\n"...)

	return g.Push(b, "rax")
}

// BinOp pops the right operand into rcx and the left into rax,
// applies op and pushes the result.
// Division and remainder follow the idiv semantics,
// quotients truncate toward zero.
func (g Gen) BinOp(b []byte, op ast.Op) []byte {
	b = g.Pop(b, "rcx")
	b = g.Pop(b, "rax")

	switch op {
	case ast.OpAdd:
		b = append(b, "  addq %rcx, %rax\n"...)
	case ast.OpSub:
		b = append(b, "  subq %rcx, %rax\n"...)
	case ast.OpMul:
		b = append(b, "  imulq %rcx, %rax\n"...)
	case ast.OpDiv:
		b = append(b, "  cqto\n  idivq %rcx\n"...)
	case ast.OpRem:
		// idiv leaves the remainder in rdx
		b = append(b, "  cqto\n  idivq %rcx\n"...)

		return g.Push(b, "rdx")
	case ast.OpBitAnd:
		b = append(b, "  andq %rcx, %rax\n"...)
	case ast.OpBitOr:
		b = append(b, "  orq %rcx, %rax\n"...)
	case ast.OpBitXor:
		b = append(b, "  xorq %rcx, %rax\n"...)
	case ast.OpShl:
		b = append(b, "  salq %cl, %rax\n"...)
	case ast.OpShr:
		b = append(b, "  sarq %cl, %rax\n"...)
	case ast.OpEq, ast.OpNE, ast.OpLT, ast.OpLE, ast.OpGT, ast.OpGE:
		b = append(b, "  cmpq %rcx, %rax\n"...)
		b = hfmt.Appendf(b, "  %s %%al\n", setCond(op))
		b = append(b, "  movzbq %al, %rax\n"...)
	default:
		panic(op)
	}

	return g.Push(b, "rax")
}

func setCond(op ast.Op) string {
	switch op {
	case ast.OpEq:
		return "sete"
	case ast.OpNE:
		return "setne"
	case ast.OpLT:
		return "setl"
	case ast.OpLE:
		return "setle"
	case ast.OpGT:
		return "setg"
	case ast.OpGE:
		return "setge"
	}

	panic(op)
}

func (g Gen) Label(b []byte, l Label) []byte {
	return hfmt.Appendf(b, ".L%d:\n", l)
}

func (g Gen) Jmp(b []byte, l Label) []byte {
	return hfmt.Appendf(b, "  jmp .L%d\n", l)
}

// JmpZero pops the top of the stack and branches if it is zero.
func (g Gen) JmpZero(b []byte, l Label) []byte {
	b = g.Pop(b, "rax")
	b = append(b, "  cmpq $0, %rax\n"...)

	return hfmt.Appendf(b, "  je .L%d\n", l)
}

// JmpNonzero pops the top of the stack and branches if it is not zero.
func (g Gen) JmpNonzero(b []byte, l Label) []byte {
	b = g.Pop(b, "rax")
	b = append(b, "  cmpq $0, %rax\n"...)

	return hfmt.Appendf(b, "  jne .L%d\n", l)
}
