package back

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exprlang/exprc/compiler/asm"
	"github.com/exprlang/exprc/compiler/front"
)

func compile(t *testing.T, g asm.Gen, src string) string {
	t.Helper()

	p := front.New()
	p.AddFile(context.Background(), t.Name(), []byte(src))

	x, err := p.Parse(context.Background())
	require.NoError(t, err, "%q", src)

	obj, err := New().Compile(context.Background(), g, nil, x)
	require.NoError(t, err, "%q", src)

	return string(obj)
}

func TestLiteral(t *testing.T) {
	obj := compile(t, asm.Gen{}, "42")

	assert.True(t, strings.HasPrefix(obj, "  .text\n.global main\nmain:\n  pushq %rbp\n  movq %rsp, %rbp\n"), "%s", obj)
	assert.True(t, strings.HasSuffix(obj, "  popq %rax\n  leave\n  ret\n"), "%s", obj)
	assert.Contains(t, obj, "  movq $42, %rax\n  pushq %rax\n")
}

func TestBinOp(t *testing.T) {
	obj := compile(t, asm.Gen{}, "20%3")
	assert.Contains(t, obj, "  popq %rcx\n  popq %rax\n  cqto\n  idivq %rcx\n  pushq %rdx\n")

	obj = compile(t, asm.Gen{}, "20/3")
	assert.Contains(t, obj, "  cqto\n  idivq %rcx\n  pushq %rax\n")

	obj = compile(t, asm.Gen{}, "1<=2")
	assert.Contains(t, obj, "  cmpq %rcx, %rax\n  setle %al\n  movzbq %al, %rax\n")

	obj = compile(t, asm.Gen{}, "1<<4")
	assert.Contains(t, obj, "  salq %cl, %rax\n")
}

func TestUnary(t *testing.T) {
	obj := compile(t, asm.Gen{}, "-5")
	assert.Contains(t, obj, "  negq %rax\n")

	obj = compile(t, asm.Gen{}, "!5")
	assert.Contains(t, obj, "  cmpq $0, %rax\n  sete %al\n  movzbq %al, %rax\n")

	obj = compile(t, asm.Gen{}, "~5")
	assert.Contains(t, obj, "  notq %rax\n")

	// unary plus adds no code of its own
	assert.Equal(t, compile(t, asm.Gen{}, "5"), compile(t, asm.Gen{}, "+5"))
}

func TestShortCircuit(t *testing.T) {
	obj := compile(t, asm.Gen{}, "0&&1")

	// the left operand is checked before the right one is even pushed
	assert.Less(t, strings.Index(obj, "  je .L1\n"), strings.Index(obj, "  movq $1, %rax\n"), "%s", obj)
	assert.Contains(t, obj, ".L1:\n  movq $0, %rax\n.L2:\n  pushq %rax\n")

	obj = compile(t, asm.Gen{}, "1||0")

	assert.Contains(t, obj, "  jne .L1\n")
	assert.Contains(t, obj, ".L1:\n  movq $1, %rax\n.L2:\n  pushq %rax\n")
}

func TestTernary(t *testing.T) {
	obj := compile(t, asm.Gen{}, "2?10:3")

	assert.Contains(t, obj, "  je .L1\n")
	assert.Contains(t, obj, "  jmp .L2\n.L1:\n  movq $3, %rax\n  pushq %rax\n.L2:\n")
}

var labelDef = regexp.MustCompile(`(?m)^\.L(\d+):`)

func TestLabelsUnique(t *testing.T) {
	obj := compile(t, asm.Gen{}, "1&&2 ? (0||3 ? 4 : 5) : 6&&7")

	defs := labelDef.FindAllString(obj, -1)
	require.NotEmpty(t, defs)

	seen := map[string]struct{}{}

	for _, d := range defs {
		_, ok := seen[d]
		assert.False(t, ok, "duplicate label %v", d)

		seen[d] = struct{}{}
	}
}

func TestStackBalance(t *testing.T) {
	// every push is popped back except the result,
	// which the epilogue takes while leave restores rbp
	for _, src := range []string{"1", "1+2*3", "-(1+2)", "10%3+~4", "0&&1", "1||2==3"} {
		obj := compile(t, asm.Gen{}, src)

		assert.Equal(t, strings.Count(obj, "pushq"), strings.Count(obj, "popq")+1, "%q:\n%s", src, obj)
	}
}

func TestDeterminism(t *testing.T) {
	a := compile(t, asm.Gen{}, "1&&2?3+4*5:6%7")
	b := compile(t, asm.Gen{}, "1&&2?3+4*5:6%7")

	assert.Equal(t, a, b)
}

func TestMacSymbols(t *testing.T) {
	obj := compile(t, asm.Gen{Mac: true}, "1")

	assert.Contains(t, obj, ".global _main\n_main:\n")
	assert.NotContains(t, obj, "\nmain:")
}
