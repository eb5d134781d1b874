package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nihei9/lilt/grammar/symbol"
)

// PredictionTable maps a (non-terminal, look-ahead terminal) pair to at most
// one production. The EOF symbol occupies a regular terminal column. A zero
// cell means "syntax error for this pair". The table is built once and
// read-only afterward.
type PredictionTable struct {
	entries      []productionNum
	termCount    int
	nonTermCount int
}

func (t *PredictionTable) lookup(nonTerm symbol.SymbolNum, term symbol.SymbolNum) productionNum {
	return t.entries[nonTerm.Int()*t.termCount+term.Int()]
}

func (t *PredictionTable) write(nonTerm symbol.SymbolNum, term symbol.SymbolNum, prod productionNum) {
	t.entries[nonTerm.Int()*t.termCount+term.Int()] = prod
}

// Conflict is a prediction-table cell two distinct productions compete for.
// Productions holds both contenders rendered in `A → α` form.
type Conflict struct {
	NonTerminal string
	LookAhead   string
	Productions [2]string
}

type ConflictError struct {
	Conflicts []*Conflict
}

func (e *ConflictError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "the grammar is not LL(1); %v conflicts:", len(e.Conflicts))
	for _, c := range e.Conflicts {
		fmt.Fprintf(&b, "\n  conflict at (%v, %v): %v and %v", c.NonTerminal, c.LookAhead, c.Productions[0], c.Productions[1])
	}
	return b.String()
}

type ll1Conflict struct {
	nonTerm   symbol.Symbol
	lookAhead symbol.Symbol
	prod1     *production
	prod2     *production
}

type ll1TableBuilder struct {
	prods  *productionSet
	first  *firstSet
	follow *followSet
	symTab *symbol.SymbolTableReader

	num2Prod  []*production
	conflicts []*ll1Conflict
}

// build populates the prediction table. For a production A → α, FIRST(α)
// selects the columns; when α can vanish, FOLLOW(A) selects further columns.
// Revisiting a cell with the production it already holds is a no-op; a
// different production is a conflict. Conflicts do not stop the walk: every
// cell is examined so the report names all of them, and a non-empty conflict
// list fails the build. The partially filled table comes back even on failure
// because a report wants the surviving entries next to the conflicts.
func (b *ll1TableBuilder) build() (*PredictionTable, error) {
	tab := &PredictionTable{
		entries:      make([]productionNum, b.symTab.NonTerminalNum().Int()*b.symTab.TerminalNum().Int()),
		termCount:    b.symTab.TerminalNum().Int(),
		nonTermCount: b.symTab.NonTerminalNum().Int(),
	}

	b.num2Prod = make([]*production, b.prods.count()+1)
	for _, prod := range b.prods.getAllProductions() {
		b.num2Prod[prod.num] = prod
	}

	for _, ntsym := range b.symTab.NonTerminalSymbols() {
		prods, ok := b.prods.findByLHS(ntsym)
		if !ok {
			continue
		}
		for _, prod := range prods {
			fst, err := b.first.find(prod, 0)
			if err != nil {
				return nil, err
			}
			for _, t := range sortSymbols(fst.symbols) {
				b.writeEntry(tab, ntsym, t, prod)
			}
			if fst.empty {
				flw, err := b.follow.find(ntsym)
				if err != nil {
					return nil, err
				}
				for _, t := range sortSymbols(flw.symbols) {
					b.writeEntry(tab, ntsym, t, prod)
				}
				if flw.eof {
					b.writeEntry(tab, ntsym, symbol.SymbolEOF, prod)
				}
			}
		}
	}

	if len(b.conflicts) > 0 {
		return tab, b.conflictError()
	}

	return tab, nil
}

func (b *ll1TableBuilder) writeEntry(tab *PredictionTable, nonTerm symbol.Symbol, lookAhead symbol.Symbol, prod *production) {
	existing := tab.lookup(nonTerm.Num(), lookAhead.Num())
	if existing == prod.num {
		return
	}
	if existing != productionNumNil {
		b.conflicts = append(b.conflicts, &ll1Conflict{
			nonTerm:   nonTerm,
			lookAhead: lookAhead,
			prod1:     b.num2Prod[existing],
			prod2:     prod,
		})
		return
	}
	tab.write(nonTerm.Num(), lookAhead.Num(), prod.num)
}

func (b *ll1TableBuilder) conflictError() *ConflictError {
	conflicts := make([]*Conflict, len(b.conflicts))
	for i, c := range b.conflicts {
		nonTerm, _ := b.symTab.ToText(c.nonTerm)
		lookAhead, _ := b.symTab.ToText(c.lookAhead)
		conflicts[i] = &Conflict{
			NonTerminal: nonTerm,
			LookAhead:   lookAhead,
			Productions: [2]string{
				b.renderProduction(c.prod1),
				b.renderProduction(c.prod2),
			},
		}
	}
	return &ConflictError{
		Conflicts: conflicts,
	}
}

func (b *ll1TableBuilder) renderProduction(prod *production) string {
	lhs, _ := b.symTab.ToText(prod.lhs)
	if prod.isEmpty() {
		return fmt.Sprintf("%v → ε", lhs)
	}
	var rhs strings.Builder
	for _, sym := range prod.rhs {
		text, _ := b.symTab.ToText(sym)
		fmt.Fprintf(&rhs, " %v", text)
	}
	return fmt.Sprintf("%v →%v", lhs, rhs.String())
}

func sortSymbols(syms map[symbol.Symbol]struct{}) []symbol.Symbol {
	sorted := make([]symbol.Symbol, 0, len(syms))
	for sym := range syms {
		sorted = append(sorted, sym)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Num() < sorted[j].Num()
	})
	return sorted
}
