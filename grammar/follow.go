package grammar

import (
	"fmt"

	"github.com/nihei9/lilt/grammar/symbol"
)

type followEntry struct {
	symbols map[symbol.Symbol]struct{}
	eof     bool
}

func newFollowEntry() *followEntry {
	return &followEntry{
		symbols: map[symbol.Symbol]struct{}{},
		eof:     false,
	}
}

func (e *followEntry) add(sym symbol.Symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *followEntry) addEOF() bool {
	if !e.eof {
		e.eof = true
		return true
	}
	return false
}

func (e *followEntry) merge(fst *firstEntry, flw *followEntry) bool {
	changed := false

	if fst != nil {
		for sym := range fst.symbols {
			added := e.add(sym)
			if added {
				changed = true
			}
		}
	}

	if flw != nil {
		for sym := range flw.symbols {
			added := e.add(sym)
			if added {
				changed = true
			}
		}
		if flw.eof {
			added := e.addEOF()
			if added {
				changed = true
			}
		}
	}

	return changed
}

type followSet struct {
	set map[symbol.Symbol]*followEntry
}

func newFollowSet(prods *productionSet) *followSet {
	flw := &followSet{
		set: map[symbol.Symbol]*followEntry{},
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := flw.set[prod.lhs]; ok {
			continue
		}
		flw.set[prod.lhs] = newFollowEntry()
	}
	return flw
}

func (flw *followSet) find(sym symbol.Symbol) (*followEntry, error) {
	e, ok := flw.set[sym]
	if !ok {
		return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %s", sym)
	}
	return e, nil
}

// genFollowSet computes FOLLOW of every non-terminal using the completed FIRST
// sets. Like genFirstSet it is a whole-grammar fixed point; FOLLOW of the
// start symbol is seeded with the end marker. For a production A → …Bβ,
// FIRST(β)\{ε} flows into FOLLOW(B), and FOLLOW(A) flows into FOLLOW(B) when β
// can vanish entirely. B may equal A; the rule needs no special case for that.
func genFollowSet(prods *productionSet, first *firstSet) (*followSet, error) {
	flw := newFollowSet(prods)

	ntsyms := map[symbol.Symbol]struct{}{}
	for _, prod := range prods.getAllProductions() {
		ntsyms[prod.lhs] = struct{}{}
	}

	for {
		more := false
		for ntsym := range ntsyms {
			e, err := flw.find(ntsym)
			if err != nil {
				return nil, err
			}
			if ntsym.IsStart() {
				changed := e.addEOF()
				if changed {
					more = true
				}
			}
			for _, prod := range prods.getAllProductions() {
				for i, sym := range prod.rhs {
					if sym != ntsym {
						continue
					}
					fst, err := first.find(prod, i+1)
					if err != nil {
						return nil, err
					}
					changed := e.merge(fst, nil)
					if changed {
						more = true
					}
					if fst.empty {
						prodFlw, err := flw.find(prod.lhs)
						if err != nil {
							return nil, err
						}
						changed := e.merge(nil, prodFlw)
						if changed {
							more = true
						}
					}
				}
			}
		}
		if !more {
			break
		}
	}

	return flw, nil
}
