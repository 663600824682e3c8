package ast

import "fmt"

type (
	Node interface {
	}

	Base struct {
		Pos int
		End int
	}

	Lit struct {
		Base `tlog:",embed"`

		Value int64
	}

	Unary struct {
		Base `tlog:",embed"`

		Op   Op
		Expr Node
	}

	BinOp struct {
		Base `tlog:",embed"`

		Op    Op
		Left  Node
		Right Node
	}

	Ternary struct {
		Base `tlog:",embed"`

		Cond Node
		Then Node
		Else Node
	}

	Op int
)

const (
	OpNone Op = iota

	OpOr  // ||
	OpAnd // &&

	OpBitOr  // |
	OpBitXor // ^
	OpBitAnd // &

	OpEq // ==
	OpNE // !=

	OpLT // <
	OpLE // <=
	OpGT // >
	OpGE // >=

	OpShl // <<
	OpShr // >>

	OpAdd // +
	OpSub // -

	OpMul // *
	OpDiv // /
	OpRem // %

	OpNeg    // unary -
	OpPlus   // unary +
	OpNot    // !
	OpBitNot // ~
)

// Prec is the operator precedence rank, higher binds tighter.
// All binary operators are left-associative, the ternary is right-associative
// and handled separately by the parser.
func (op Op) Prec() int {
	switch op {
	case OpOr:
		return 1
	case OpAnd:
		return 2
	case OpBitOr:
		return 3
	case OpBitXor:
		return 4
	case OpBitAnd:
		return 5
	case OpEq, OpNE:
		return 6
	case OpLT, OpLE, OpGT, OpGE:
		return 7
	case OpShl, OpShr:
		return 8
	case OpAdd, OpSub:
		return 9
	case OpMul, OpDiv, OpRem:
		return 10
	case OpNeg, OpPlus, OpNot, OpBitNot:
		return 11
	}

	return 0
}

func (op Op) String() string {
	switch op {
	case OpOr:
		return "||"
	case OpAnd:
		return "&&"
	case OpBitOr:
		return "|"
	case OpBitXor:
		return "^"
	case OpBitAnd:
		return "&"
	case OpEq:
		return "=="
	case OpNE:
		return "!="
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpGT:
		return ">"
	case OpGE:
		return ">="
	case OpShl:
		return "<<"
	case OpShr:
		return ">>"
	case OpAdd, OpPlus:
		return "+"
	case OpSub, OpNeg:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpRem:
		return "%"
	case OpNot:
		return "!"
	case OpBitNot:
		return "~"
	}

	return fmt.Sprintf("Op(%d)", int(op))
}
