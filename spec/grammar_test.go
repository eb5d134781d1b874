package spec

import (
	"strings"
	"testing"

	verr "github.com/nihei9/lilt/error"
)

func TestParse(t *testing.T) {
	t.Run("productions, alternatives, and elements", func(t *testing.T) {
		src := `
// Comments and blank lines vanish.
#name expr;

E -> T E'
E' -> + T E' | ε
F -> ( E ) | id
`
		root, err := Parse(strings.NewReader(src))
		if err != nil {
			t.Fatal(err)
		}
		if root.Name != "expr" {
			t.Errorf("unexpected name; want: expr, got: %v", root.Name)
		}
		if len(root.Productions) != 3 {
			t.Fatalf("unexpected number of productions; want: 3, got: %v", len(root.Productions))
		}
		if root.Productions[0].LHS != "E" {
			t.Errorf("the order of the productions must follow the source; got: %v", root.Productions[0].LHS)
		}

		ePrime := root.Productions[1]
		if len(ePrime.RHS) != 2 {
			t.Fatalf("unexpected number of alternatives; want: 2, got: %v", len(ePrime.RHS))
		}
		if len(ePrime.RHS[0].Elements) != 3 {
			t.Errorf("unexpected number of elements; want: 3, got: %v", len(ePrime.RHS[0].Elements))
		}
		if len(ePrime.RHS[1].Elements) != 0 {
			t.Errorf("an ε alternative must have no elements; got: %v", ePrime.RHS[1].Elements)
		}

		f := root.Productions[2]
		if f.RHS[0].Elements[0].ID != "(" || f.RHS[1].Elements[0].ID != "id" {
			t.Errorf("unexpected elements; got: %v, %v", f.RHS[0].Elements, f.RHS[1].Elements)
		}
	})

	t.Run("every epsilon spelling makes an empty alternative", func(t *testing.T) {
		for _, alias := range []string{"ε", "#", "eps", "epsilon", "EPSILON", "lambda", "Λ"} {
			root, err := Parse(strings.NewReader("A -> a | " + alias))
			if err != nil {
				t.Fatalf("alias %v: %v", alias, err)
			}
			alts := root.Productions[0].RHS
			if len(alts) != 2 || len(alts[1].Elements) != 0 {
				t.Errorf("alias %v must make an empty alternative; got: %v", alias, alts)
			}
		}
	})

	t.Run("an epsilon inside a longer alternative vanishes", func(t *testing.T) {
		root, err := Parse(strings.NewReader(`A -> a ε b`))
		if err != nil {
			t.Fatal(err)
		}
		elems := root.Productions[0].RHS[0].Elements
		if len(elems) != 2 || elems[0].ID != "a" || elems[1].ID != "b" {
			t.Errorf("unexpected elements; want: [a b], got: %v", elems)
		}
	})

	t.Run("lines sharing a left-hand side merge into one production", func(t *testing.T) {
		src := `
A -> a
B -> b
A -> c | d
`
		root, err := Parse(strings.NewReader(src))
		if err != nil {
			t.Fatal(err)
		}
		if len(root.Productions) != 2 {
			t.Fatalf("unexpected number of productions; want: 2, got: %v", len(root.Productions))
		}
		if len(root.Productions[0].RHS) != 3 {
			t.Errorf("unexpected number of alternatives; want: 3, got: %v", len(root.Productions[0].RHS))
		}
	})

	t.Run("the #term directive collects terminals", func(t *testing.T) {
		src := `
#term a b;
A -> a b
`
		root, err := Parse(strings.NewReader(src))
		if err != nil {
			t.Fatal(err)
		}
		if len(root.Terminals) != 2 || root.Terminals[0] != "a" || root.Terminals[1] != "b" {
			t.Errorf("unexpected terminals; want: [a b], got: %v", root.Terminals)
		}
	})

	t.Run("a grammar is named 'grammar' by default", func(t *testing.T) {
		root, err := Parse(strings.NewReader(`A -> a`))
		if err != nil {
			t.Fatal(err)
		}
		if root.Name != defaultGrammarName {
			t.Errorf("unexpected name; want: %v, got: %v", defaultGrammarName, root.Name)
		}
	})
}

func TestParseSyntaxError(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		cause   error
	}{
		{
			caption: "a grammar must contain at least one production",
			src:     "// nothing here\n",
			cause:   synErrNoProduction,
		},
		{
			caption: "a production line must contain an arrow",
			src:     "A a b\n",
			cause:   synErrNoArrow,
		},
		{
			caption: "a production must have a left-hand side",
			src:     "-> a\n",
			cause:   synErrNoProductionName,
		},
		{
			caption: "a left-hand side must be a single symbol",
			src:     "A B -> a\n",
			cause:   synErrSpacesInLHS,
		},
		{
			caption: "a directive must end with a semicolon",
			src:     "#name expr\nA -> a\n",
			cause:   synErrNoSemicolon,
		},
		{
			caption: "a directive must have a name",
			src:     "#;\nA -> a\n",
			cause:   synErrNoDirectiveName,
		},
		{
			caption: "an unknown directive is an error",
			src:     "#foo bar;\nA -> a\n",
			cause:   synErrInvalidDirective,
		},
		{
			caption: "the name directive takes just one parameter",
			src:     "#name;\nA -> a\n",
			cause:   synErrDirNoParameter,
		},
		{
			caption: "the name directive cannot appear twice",
			src:     "#name a;\n#name b;\nA -> a\n",
			cause:   synErrDuplicateName,
		},
		{
			caption: "the term directive takes at least one parameter",
			src:     "#term;\nA -> a\n",
			cause:   synErrDirNoParameter,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("Parse succeeded for an invalid source")
			}
			specErr, ok := err.(*verr.SpecError)
			if !ok {
				t.Fatalf("unexpected error type; want: *verr.SpecError, got: %T (%v)", err, err)
			}
			if specErr.Cause != tt.cause {
				t.Errorf("unexpected cause; want: %v, got: %v", tt.cause, specErr.Cause)
			}
		})
	}
}
