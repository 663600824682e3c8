package front

import (
	"context"
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"
)

type (
	Token interface{}

	Punct  string
	Number []byte

	LexError struct {
		Pos  int
		Char byte
	}
)

// Tokens scans the whole input. It is the same sequence Parse consumes.
func (s *State) Tokens(ctx context.Context) (list []Token, err error) {
	for i := 0; ; {
		tk, tst, e, err := s.next(ctx, i)
		if err != nil {
			return nil, errors.Wrap(err, "at pos 0x%x", tst)
		}
		if tk == nil {
			break
		}

		list = append(list, tk)
		i = e
	}

	return list, nil
}

// next scans one token starting at or after st.
// tst is where the token actually starts, i is where the next one may.
// End of input is a nil token, not an error.
func (s *State) next(ctx context.Context, st int) (tk Token, tst, i int, err error) {
	if tr := tlog.SpanFromContext(ctx); tr.If("next_token") {
		defer func(st int) {
			tr.Printw("next token", "st", st, "tk", tk, "tst", tst, "i", i, "from", loc.Callers(1, 3))
		}(st)
	}

	st = skipSpaces(s.b, st)
	tst = st
	i = st

	if i == len(s.b) {
		return nil, tst, i, nil
	}

	c := s.b[i]

	switch c {
	case '+', '-', '*', '/', '%', '^', '~', '?', ':', '(', ')':
		return Punct(s.b[i : i+1]), tst, i + 1, nil
	case '=', '!':
		if i+1 < len(s.b) && s.b[i+1] == '=' {
			return Punct(s.b[i : i+2]), tst, i + 2, nil
		}

		return Punct(s.b[i : i+1]), tst, i + 1, nil
	case '<', '>':
		if i+1 < len(s.b) && (s.b[i+1] == '=' || s.b[i+1] == c) {
			return Punct(s.b[i : i+2]), tst, i + 2, nil
		}

		return Punct(s.b[i : i+1]), tst, i + 1, nil
	case '&', '|':
		if i+1 < len(s.b) && s.b[i+1] == c {
			return Punct(s.b[i : i+2]), tst, i + 2, nil
		}

		return Punct(s.b[i : i+1]), tst, i + 1, nil
	}

	if c >= '0' && c <= '9' {
		e := skipNum(s.b, i)

		return Number(s.b[i:e]), tst, e, nil
	}

	return nil, tst, i, LexError{Pos: i, Char: c}
}

func skipNum(b []byte, i int) int {
	for i < len(b) && (b[i] >= '0' && b[i] <= '9') {
		i++
	}

	return i
}

func skipSpaces(b []byte, i int) int {
	for i < len(b) {
		switch b[i] {
		case ' ', '\t', '\r', '\n':
			i++
			continue
		}

		break
	}

	return i
}

func (e LexError) Error() string {
	return fmt.Sprintf("unrecognized character %q at offset %d", e.Char, e.Pos)
}
