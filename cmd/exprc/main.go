package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/exprlang/exprc/compiler"
	"github.com/exprlang/exprc/compiler/front"
)

func main() {
	compileCmd := &cli.Command{
		Name:        "compile",
		Description: "compile an expression into assembly",
		Action:      compileAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("output,o", "", "write assembly to the file instead of stdout"),
		},
	}

	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "dump the expression tree",
		Action:      parseAct,
		Args:        cli.Args{},
	}

	tokensCmd := &cli.Command{
		Name:        "tokens",
		Description: "dump the token stream",
		Action:      tokensAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "exprc",
		Description: "exprc compiles an expression into assembly evaluating it; the built program exits with the expression value",
		Action:      compileAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("output,o", "", "write assembly to the file instead of stdout"),
			cli.NewFlag("v", "", "debug topics (comma separated)"),
		},
		Commands: []*cli.Command{
			compileCmd,
			parseCmd,
			tokensCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func compileAct(c *cli.Command) (err error) {
	ctx := setup(c)

	exprs, err := inputs(c)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout

	if fn := c.String("output"); fn != "" {
		f, err := os.Create(fn)
		if err != nil {
			return errors.Wrap(err, "create output")
		}

		defer func() {
			e := f.Close()
			if err == nil {
				err = errors.Wrap(e, "close output")
			}
		}()

		w = f
	}

	for _, src := range exprs {
		obj, err := compiler.Compile(ctx, "stdin", []byte(src))
		if err != nil {
			diagnose(os.Stderr, src, err)

			return errors.Wrap(err, "compile")
		}

		_, err = w.Write(obj)
		if err != nil {
			return errors.Wrap(err, "write assembly")
		}
	}

	return nil
}

func parseAct(c *cli.Command) (err error) {
	ctx := setup(c)

	exprs, err := inputs(c)
	if err != nil {
		return err
	}

	for _, src := range exprs {
		p := front.New()
		p.AddFile(ctx, "stdin", []byte(src))

		x, err := p.Parse(ctx)
		if err != nil {
			diagnose(os.Stderr, src, err)

			return errors.Wrap(err, "parse")
		}

		fmt.Printf("ast: %+v\n", x)
	}

	return nil
}

func tokensAct(c *cli.Command) (err error) {
	ctx := setup(c)

	exprs, err := inputs(c)
	if err != nil {
		return err
	}

	for _, src := range exprs {
		p := front.New()
		p.AddFile(ctx, "stdin", []byte(src))

		list, err := p.Tokens(ctx)
		if err != nil {
			diagnose(os.Stderr, src, err)

			return errors.Wrap(err, "tokenize")
		}

		for _, tk := range list {
			fmt.Printf("%q\n", tk)
		}
	}

	return nil
}

func setup(c *cli.Command) context.Context {
	tlog.SetVerbosity(c.String("v"))

	return tlog.ContextWithSpan(context.Background(), tlog.Root())
}

// inputs are the args if given, one line of stdin otherwise.
func inputs(c *cli.Command) ([]string, error) {
	if len(c.Args) != 0 {
		return c.Args, nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "read stdin")
	}

	return []string{strings.TrimRight(line, "\r\n")}, nil
}

// diagnose renders the source with a caret under the offending byte.
func diagnose(w io.Writer, src string, err error) {
	pos := -1

	var lex front.LexError
	var unex front.UnexpectedError

	switch {
	case errors.As(err, &lex):
		pos = lex.Pos
	case errors.As(err, &unex):
		pos = unex.Pos
	}

	if pos < 0 {
		return
	}
	if pos > len(src) {
		pos = len(src)
	}

	fmt.Fprintf(w, "%s\n", src)
	color.New(color.FgRed, color.Bold).Fprintf(w, "%*s^ %v\n", pos, "", err)
}
