package lexer

import (
	"testing"

	"github.com/funvibe/loxvm/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, source string) []token.Token {
	t.Helper()
	l := New(source)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks
}

func TestScansPunctuationAndOperators(t *testing.T) {
	toks := scanAll(t, "(){};,.+-*/ == != <= >= < > =")
	types := make([]token.Type, 0, len(toks))
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []token.Type{
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.SEMICOLON, token.COMMA, token.DOT, token.PLUS, token.MINUS,
		token.STAR, token.SLASH, token.EQUAL_EQUAL, token.BANG_EQUAL,
		token.LESS_EQUAL, token.GREATER_EQUAL, token.LESS, token.GREATER,
		token.EQUAL, token.EOF,
	}, types)
}

func TestScansKeywordsAndIdentifiers(t *testing.T) {
	toks := scanAll(t, "var myVar fun if else")
	require.Len(t, toks, 6)
	assert.Equal(t, token.VAR, toks[0].Type)
	assert.Equal(t, token.IDENTIFIER, toks[1].Type)
	assert.Equal(t, "myVar", toks[1].Lexeme)
	assert.Equal(t, token.FUN, toks[2].Type)
	assert.Equal(t, token.IF, toks[3].Type)
	assert.Equal(t, token.ELSE, toks[4].Type)
}

func TestScansNumbers(t *testing.T) {
	toks := scanAll(t, "123 45.67")
	require.Len(t, toks, 3)
	assert.Equal(t, "123", toks[0].Lexeme)
	assert.Equal(t, "45.67", toks[1].Lexeme)
}

func TestScansStringsIncludingQuotesInLexeme(t *testing.T) {
	toks := scanAll(t, `"hello world"`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING, toks[0].Type)
	assert.Equal(t, `"hello world"`, toks[0].Lexeme)
}

func TestUnterminatedStringIsErrorToken(t *testing.T) {
	toks := scanAll(t, `"unterminated`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.ERROR, toks[0].Type)
	assert.Equal(t, "Unterminated string.", toks[0].Lexeme)
}

func TestUnexpectedCharacterIsErrorToken(t *testing.T) {
	toks := scanAll(t, "@")
	require.Len(t, toks, 2)
	assert.Equal(t, token.ERROR, toks[0].Type)
}

func TestSkipsCommentsAndWhitespace(t *testing.T) {
	toks := scanAll(t, "// a comment\n  var x;")
	require.Len(t, toks, 4)
	assert.Equal(t, token.VAR, toks[0].Type)
}

func TestTracksLineNumbersAcrossNewlines(t *testing.T) {
	toks := scanAll(t, "var a;\nvar b;\n")
	require.Len(t, toks, 7)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[3].Line)
}
