package compiler

import (
	"context"
	"os"
	"runtime"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/exprlang/exprc/compiler/asm"
	"github.com/exprlang/exprc/compiler/back"
	"github.com/exprlang/exprc/compiler/front"
)

func CompileFile(ctx context.Context, name string) (obj []byte, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, text)
}

// Compile translates one expression into assembly for the host os.
func Compile(ctx context.Context, name string, text []byte) (obj []byte, err error) {
	return CompileArch(ctx, asm.Gen{Mac: runtime.GOOS == "darwin"}, name, text)
}

func CompileArch(ctx context.Context, g asm.Gen, name string, text []byte) (obj []byte, err error) {
	st := front.New()

	st.AddFile(ctx, name, text)

	x, err := st.Parse(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "parse text")
	}

	obj, err = back.New().Compile(ctx, g, nil, x)
	if err != nil {
		return nil, errors.Wrap(err, "compile")
	}

	return obj, nil
}
