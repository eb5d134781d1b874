package grammar

import (
	"strings"
	"testing"

	"github.com/nihei9/lilt/grammar/symbol"
	"github.com/nihei9/lilt/spec"
)

type first struct {
	lhs     string
	num     int
	dot     int
	symbols []string
	empty   bool
}

func TestGenFirst(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		first   []first
	}{
		{
			caption: "productions contain only non-empty alternatives",
			src: `
E -> E + T | T
T -> T * F | F
F -> ( E ) | id
`,
			first: []first{
				{lhs: "E", num: 0, dot: 0, symbols: []string{"(", "id"}},
				{lhs: "E", num: 0, dot: 1, symbols: []string{"+"}},
				{lhs: "E", num: 0, dot: 2, symbols: []string{"(", "id"}},
				{lhs: "E", num: 1, dot: 0, symbols: []string{"(", "id"}},
				{lhs: "T", num: 0, dot: 0, symbols: []string{"(", "id"}},
				{lhs: "T", num: 0, dot: 1, symbols: []string{"*"}},
				{lhs: "T", num: 0, dot: 2, symbols: []string{"(", "id"}},
				{lhs: "T", num: 1, dot: 0, symbols: []string{"(", "id"}},
				{lhs: "F", num: 0, dot: 0, symbols: []string{"("}},
				{lhs: "F", num: 0, dot: 1, symbols: []string{"(", "id"}},
				{lhs: "F", num: 0, dot: 2, symbols: []string{")"}},
				{lhs: "F", num: 1, dot: 0, symbols: []string{"id"}},
			},
		},
		{
			caption: "the empty start production",
			src: `
S -> ε
`,
			first: []first{
				{lhs: "S", num: 0, dot: 0, symbols: []string{}, empty: true},
			},
		},
		{
			caption: "a vanishing non-terminal in the middle of an alternative",
			src: `
S -> A b
A -> ε
`,
			first: []first{
				{lhs: "S", num: 0, dot: 0, symbols: []string{"b"}},
				{lhs: "A", num: 0, dot: 0, symbols: []string{}, empty: true},
			},
		},
		{
			caption: "a production contains a non-empty alternative and the empty alternative",
			src: `
S -> A
A -> b | ε
`,
			first: []first{
				{lhs: "S", num: 0, dot: 0, symbols: []string{"b"}, empty: true},
				{lhs: "A", num: 0, dot: 0, symbols: []string{"b"}},
				{lhs: "A", num: 1, dot: 0, symbols: []string{}, empty: true},
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
			first: []first{
				{lhs: "E", num: 0, dot: 0, symbols: []string{"(", "id"}},
				{lhs: "E'", num: 0, dot: 0, symbols: []string{"+"}},
				{lhs: "E'", num: 1, dot: 0, symbols: []string{}, empty: true},
				{lhs: "T", num: 0, dot: 0, symbols: []string{"(", "id"}},
				{lhs: "T'", num: 0, dot: 0, symbols: []string{"*"}},
				{lhs: "T'", num: 1, dot: 0, symbols: []string{}, empty: true},
				{lhs: "F", num: 0, dot: 0, symbols: []string{"("}},
				{lhs: "F", num: 1, dot: 0, symbols: []string{"id"}},
			},
		},
		{
			caption: "mutually recursive vanishing non-terminals",
			src: `
S -> A B c
A -> B | a
B -> A | ε
`,
			first: []first{
				{lhs: "S", num: 0, dot: 0, symbols: []string{"a", "c"}},
				{lhs: "A", num: 0, dot: 0, symbols: []string{"a"}, empty: true},
				{lhs: "B", num: 0, dot: 0, symbols: []string{"a"}, empty: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			fst, gram := genActualFirst(t, tt.src)

			for _, ttFirst := range tt.first {
				lhsSym, ok := gram.symbolTable.Reader().ToSymbol(ttFirst.lhs)
				if !ok {
					t.Fatalf("a symbol was not found; symbol: %v", ttFirst.lhs)
				}

				prods, ok := gram.productionSet.findByLHS(lhsSym)
				if !ok {
					t.Fatalf("a production was not found; LHS: %v (%v)", ttFirst.lhs, lhsSym)
				}

				actualFirst, err := fst.find(prods[ttFirst.num], ttFirst.dot)
				if err != nil {
					t.Fatalf("failed to get a FIRST set; LHS: %v (%v), num: %v, dot: %v, error: %v", ttFirst.lhs, lhsSym, ttFirst.num, ttFirst.dot, err)
				}

				expectedFirst := genExpectedFirstEntry(t, ttFirst.symbols, ttFirst.empty, gram.symbolTable.Reader())

				testFirst(t, actualFirst, expectedFirst)
			}
		})
	}
}

// TestGenFirstMonotone replays the fixed-point loop pass by pass: every
// FIRST set may only grow, a pass that adds nothing leaves all sets
// unchanged, and the stable state matches genFirstSet's result.
func TestGenFirstMonotone(t *testing.T) {
	// The chain C → B → A → S needs several passes to propagate c.
	src := `
S -> A b
A -> B
B -> C
C -> c | ε
`
	gram := genGrammar(t, src)
	prods := gram.productionSet

	type snapshot struct {
		size  int
		empty bool
	}
	snap := func(fst *firstSet) map[symbol.Symbol]snapshot {
		ss := map[symbol.Symbol]snapshot{}
		for sym, e := range fst.set {
			ss[sym] = snapshot{size: len(e.symbols), empty: e.empty}
		}
		return ss
	}

	fst := newFirstSet(prods)
	prev := snap(fst)
	passes := 0
	for {
		more := false
		for _, prod := range prods.getAllProductions() {
			e := fst.findBySymbol(prod.lhs)
			changed, err := genProdFirstEntry(fst, e, prod)
			if err != nil {
				t.Fatal(err)
			}
			if changed {
				more = true
			}
		}

		cur := snap(fst)
		for sym, p := range prev {
			c := cur[sym]
			if c.size < p.size || (p.empty && !c.empty) {
				t.Fatalf("a FIRST set shrank between passes; symbol: %v, before: %+v, after: %+v", sym, p, c)
			}
		}
		if !more {
			for sym, p := range prev {
				if cur[sym] != p {
					t.Fatalf("a pass that adds nothing must leave every set unchanged; symbol: %v, before: %+v, after: %+v", sym, p, cur[sym])
				}
			}
			break
		}
		prev = cur

		passes++
		if passes > prods.count()*10 {
			t.Fatal("the fixed point did not stabilize")
		}
	}

	want, err := genFirstSet(prods)
	if err != nil {
		t.Fatal(err)
	}
	for sym, e := range want.set {
		testFirst(t, fst.findBySymbol(sym), e)
	}
}

func genGrammar(t *testing.T, src string) *Grammar {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	b := GrammarBuilder{
		AST: ast,
	}
	gram, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return gram
}

func genActualFirst(t *testing.T, src string) (*firstSet, *Grammar) {
	gram := genGrammar(t, src)
	fst, err := genFirstSet(gram.productionSet)
	if err != nil {
		t.Fatal(err)
	}
	if fst == nil {
		t.Fatal("genFirstSet returned nil without any error")
	}

	return fst, gram
}

func genExpectedFirstEntry(t *testing.T, symbols []string, empty bool, symTab *symbol.SymbolTableReader) *firstEntry {
	t.Helper()

	entry := newFirstEntry()
	if empty {
		entry.addEmpty()
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

func testFirst(t *testing.T, actual, expected *firstEntry) {
	if actual.empty != expected.empty {
		t.Errorf("empty is mismatched\nwant: %v\ngot: %v", expected.empty, actual.empty)
	}

	if len(actual.symbols) != len(expected.symbols) {
		t.Fatalf("invalid FIRST set\nwant: %+v\ngot: %+v", expected.symbols, actual.symbols)
	}

	for eSym := range expected.symbols {
		if _, ok := actual.symbols[eSym]; !ok {
			t.Fatalf("invalid FIRST set\nwant: %+v\ngot: %+v", expected.symbols, actual.symbols)
		}
	}
}
