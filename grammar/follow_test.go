package grammar

import (
	"testing"

	"github.com/nihei9/lilt/grammar/symbol"
)

type follow struct {
	nonTerm string
	symbols []string
	eof     bool
}

func TestGenFollow(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		follow  []follow
	}{
		{
			caption: "the start symbol only",
			src: `
S -> a
`,
			follow: []follow{
				{nonTerm: "S", symbols: []string{}, eof: true},
			},
		},
		{
			caption: "a non-terminal followed by a terminal",
			src: `
S -> A b
A -> a
`,
			follow: []follow{
				{nonTerm: "S", symbols: []string{}, eof: true},
				{nonTerm: "A", symbols: []string{"b"}},
			},
		},
		{
			caption: "the suffix after a non-terminal can vanish",
			src: `
S -> A B
A -> a
B -> b | ε
`,
			follow: []follow{
				{nonTerm: "S", symbols: []string{}, eof: true},
				{nonTerm: "A", symbols: []string{"b"}, eof: true},
				{nonTerm: "B", symbols: []string{}, eof: true},
			},
		},
		{
			caption: "the left-to-right derivation of the expression grammar",
			src: `
E -> T E'
E' -> + T E' | ε
T -> F T'
T' -> * F T' | ε
F -> ( E ) | id
`,
			follow: []follow{
				{nonTerm: "E", symbols: []string{")"}, eof: true},
				{nonTerm: "E'", symbols: []string{")"}, eof: true},
				{nonTerm: "T", symbols: []string{"+", ")"}, eof: true},
				{nonTerm: "T'", symbols: []string{"+", ")"}, eof: true},
				{nonTerm: "F", symbols: []string{"+", "*", ")"}, eof: true},
			},
		},
		{
			caption: "a non-terminal appearing in its own right-hand side",
			src: `
S -> a S b | ε
`,
			follow: []follow{
				{nonTerm: "S", symbols: []string{"b"}, eof: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram := genGrammar(t, tt.src)
			fst, err := genFirstSet(gram.productionSet)
			if err != nil {
				t.Fatal(err)
			}
			flw, err := genFollowSet(gram.productionSet, fst)
			if err != nil {
				t.Fatal(err)
			}

			for _, ttFollow := range tt.follow {
				ntSym, ok := gram.symbolTable.Reader().ToSymbol(ttFollow.nonTerm)
				if !ok {
					t.Fatalf("a symbol was not found; symbol: %v", ttFollow.nonTerm)
				}

				actualFollow, err := flw.find(ntSym)
				if err != nil {
					t.Fatalf("failed to get a FOLLOW set; non-terminal: %v (%v), error: %v", ttFollow.nonTerm, ntSym, err)
				}

				expectedFollow := genExpectedFollowEntry(t, ttFollow.symbols, ttFollow.eof, gram.symbolTable.Reader())

				testFollow(t, actualFollow, expectedFollow)
			}
		})
	}
}

// TestGenFollowStable runs one more full pass of the merge rules over solved
// FOLLOW sets and checks that nothing is added: the solver stopped at a fixed
// point.
func TestGenFollowStable(t *testing.T) {
	src := `
E -> T E'
E' -> + T E' | ε
T -> F T'
T' -> * F T' | ε
F -> ( E ) | id
`
	gram := genGrammar(t, src)
	prods := gram.productionSet
	fst, err := genFirstSet(prods)
	if err != nil {
		t.Fatal(err)
	}
	flw, err := genFollowSet(prods, fst)
	if err != nil {
		t.Fatal(err)
	}

	for sym := range flw.set {
		if !sym.IsStart() {
			continue
		}
		e, err := flw.find(sym)
		if err != nil {
			t.Fatal(err)
		}
		if e.addEOF() {
			t.Fatal("FOLLOW of the start symbol must already contain the end marker")
		}
	}

	for _, prod := range prods.getAllProductions() {
		for i, sym := range prod.rhs {
			if !sym.IsNonTerminal() {
				continue
			}
			e, err := flw.find(sym)
			if err != nil {
				t.Fatal(err)
			}
			f, err := fst.find(prod, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if e.merge(f, nil) {
				t.Fatalf("FOLLOW is not a fixed point; symbol: %v gained FIRST symbols after solving", sym)
			}
			if f.empty {
				lhsFlw, err := flw.find(prod.lhs)
				if err != nil {
					t.Fatal(err)
				}
				if e.merge(nil, lhsFlw) {
					t.Fatalf("FOLLOW is not a fixed point; symbol: %v gained FOLLOW symbols after solving", sym)
				}
			}
		}
	}
}

func genExpectedFollowEntry(t *testing.T, symbols []string, eof bool, symTab *symbol.SymbolTableReader) *followEntry {
	t.Helper()

	entry := newFollowEntry()
	if eof {
		entry.addEOF()
	}
	for _, sym := range symbols {
		symSym, ok := symTab.ToSymbol(sym)
		if !ok {
			t.Fatalf("a symbol was not found; symbol: %v", sym)
		}
		entry.add(symSym)
	}

	return entry
}

func testFollow(t *testing.T, actual, expected *followEntry) {
	if actual.eof != expected.eof {
		t.Errorf("eof is mismatched\nwant: %v\ngot: %v", expected.eof, actual.eof)
	}

	if len(actual.symbols) != len(expected.symbols) {
		t.Fatalf("invalid FOLLOW set\nwant: %+v\ngot: %+v", expected.symbols, actual.symbols)
	}

	for eSym := range expected.symbols {
		if _, ok := actual.symbols[eSym]; !ok {
			t.Fatalf("invalid FOLLOW set\nwant: %+v\ngot: %+v", expected.symbols, actual.symbols)
		}
	}
}
