package front

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/errors"
)

func tokenize(t *testing.T, src string) []Token {
	t.Helper()

	s := New()
	s.AddFile(context.Background(), t.Name(), []byte(src))

	list, err := s.Tokens(context.Background())
	require.NoError(t, err, "%q", src)

	return list
}

func TestTokens(t *testing.T) {
	list := tokenize(t, "12 + 34<=5<<1 != 6&&7")

	assert.Equal(t, []Token{
		Number("12"), Punct("+"), Number("34"), Punct("<="), Number("5"),
		Punct("<<"), Number("1"), Punct("!="), Number("6"), Punct("&&"), Number("7"),
	}, list)
}

func TestTokensGreedy(t *testing.T) {
	for _, tc := range []struct {
		src  string
		list []Token
	}{
		{"<<=", []Token{Punct("<<"), Punct("=")}},
		{">>=", []Token{Punct(">>"), Punct("=")}},
		{"===", []Token{Punct("=="), Punct("=")}},
		{"&&&", []Token{Punct("&&"), Punct("&")}},
		{"|||", []Token{Punct("||"), Punct("|")}},
		{"!!", []Token{Punct("!"), Punct("!")}},
		{"<>", []Token{Punct("<"), Punct(">")}},
	} {
		assert.Equal(t, tc.list, tokenize(t, tc.src), "%q", tc.src)
	}
}

func TestTokenOffsets(t *testing.T) {
	s := New()
	s.AddFile(context.Background(), t.Name(), []byte("  10  %2\n"))

	ctx := context.Background()

	type span struct {
		tk       Token
		tst, end int
	}

	var got []span

	for i := 0; ; {
		tk, tst, e, err := s.next(ctx, i)
		require.NoError(t, err)

		if tk == nil {
			break
		}

		got = append(got, span{tk: tk, tst: tst, end: e})
		i = e
	}

	assert.Equal(t, []span{
		{Number("10"), 2, 4},
		{Punct("%"), 6, 7},
		{Number("2"), 7, 8},
	}, got)

	// tokens cover the input in order, gaps are whitespace only
	for j := 1; j < len(got); j++ {
		assert.GreaterOrEqual(t, got[j].tst, got[j-1].end)
	}
}

func TestLexError(t *testing.T) {
	s := New()
	s.AddFile(context.Background(), t.Name(), []byte("1 + @"))

	_, err := s.Tokens(context.Background())
	require.Error(t, err)

	var lex LexError
	require.True(t, errors.As(err, &lex), "%v", err)

	assert.Equal(t, 4, lex.Pos)
	assert.Equal(t, byte('@'), lex.Char)
}
