package driver

import (
	"io"

	"github.com/nihei9/lilt/spec"
	mldriver "github.com/nihei9/maleeni/driver"
)

type vToken struct {
	terminal int
	tok      *mldriver.Token
}

func (t *vToken) Text() string {
	if t.tok.EOF {
		return "<eof>"
	}
	return string(t.tok.Lexeme)
}

func (t *vToken) EOF() bool {
	return t.tok.EOF
}

func (t *vToken) Invalid() bool {
	return t.tok.Invalid
}

func (t *vToken) Position() (int, int) {
	return t.tok.Row, t.tok.Col
}

// readTokens drains the lexer and maps every lexical kind to its terminal
// symbol. Tokens of skipped kinds never reach the parser. The terminal of an
// invalid token stays 0, so the prediction table reports it the same way as
// any other unexpected token. The last element always carries the EOF symbol.
func readTokens(g *spec.CompiledGrammar, src io.Reader) ([]*vToken, error) {
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(g.LexicalSpecification.Maleeni.Spec), src)
	if err != nil {
		return nil, err
	}

	skip := g.LexicalSpecification.Maleeni.Skip
	kind2Term := g.LexicalSpecification.Maleeni.KindToTerminal

	var toks []*vToken
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			toks = append(toks, &vToken{
				terminal: g.PredictionTable.EOFSymbol,
				tok:      tok,
			})
			return toks, nil
		}
		if !tok.Invalid && skip[tok.KindID] > 0 {
			continue
		}
		toks = append(toks, &vToken{
			terminal: kind2Term[tok.KindID],
			tok:      tok,
		})
	}
}
