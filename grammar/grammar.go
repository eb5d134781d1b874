package grammar

import (
	"fmt"
	"io"
	"strings"

	verr "github.com/nihei9/lilt/error"
	"github.com/nihei9/lilt/grammar/symbol"
	"github.com/nihei9/lilt/spec"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"
)

const (
	lexKindWhiteSpace  = mlspec.LexKindName("white_space")
	patternWhiteSpace  = mlspec.LexPattern(`[\u{0009}\u{000A}\u{000D}\u{0020}]+`)
	terminalKindPrefix = "t_"
)

type Grammar struct {
	name          string
	lexSpec       *mlspec.LexSpec
	skipLexKinds  []mlspec.LexKindName
	lexKinds      map[mlspec.LexKindName]symbol.Symbol
	productionSet *productionSet
	startSymbol   symbol.Symbol
	symbolTable   *symbol.SymbolTable
}

func (g *Grammar) Name() string {
	return g.name
}

type GrammarBuilder struct {
	AST *spec.RootNode

	errs verr.SpecErrors
}

// Build classifies the AST's symbols, interns them, and assembles the
// production set and the lexical specification. The left-hand side of the
// first production is the start symbol. A symbol is a non-terminal when it
// appears as some left-hand side and a terminal otherwise; the #term
// directive only makes the latter classification explicit, so a directive
// symbol that also derives something is an error.
func (b *GrammarBuilder) Build() (*Grammar, error) {
	if len(b.AST.Productions) == 0 {
		return nil, semErrNoProduction
	}

	b.checkTerminalDirective(b.AST)
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	symTabAndLexSpec, err := b.genSymbolTableAndLexSpec(b.AST)
	if err != nil {
		return nil, err
	}

	prods, err := b.genProductionSet(b.AST, symTabAndLexSpec.symTab.Reader())
	if err != nil {
		return nil, err
	}
	if prods == nil && len(b.errs) > 0 {
		return nil, b.errs
	}

	startText := b.AST.Productions[0].LHS
	startSym, _ := symTabAndLexSpec.symTab.Reader().ToSymbol(startText)

	symTabAndLexSpec.lexSpec.Name = b.AST.Name

	return &Grammar{
		name:          b.AST.Name,
		lexSpec:       symTabAndLexSpec.lexSpec,
		skipLexKinds:  symTabAndLexSpec.skip,
		lexKinds:      symTabAndLexSpec.lexKinds,
		productionSet: prods,
		startSymbol:   startSym,
		symbolTable:   symTabAndLexSpec.symTab,
	}, nil
}

func (b *GrammarBuilder) checkTerminalDirective(root *spec.RootNode) {
	lhsNames := map[string]struct{}{}
	for _, prod := range root.Productions {
		lhsNames[prod.LHS] = struct{}{}
	}

	declared := map[string]struct{}{}
	for _, t := range root.Terminals {
		if _, ok := declared[t]; ok {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateTerminal,
				Detail: t,
				Row:    root.TerminalsPos.Row,
			})
			continue
		}
		declared[t] = struct{}{}

		if _, ok := lhsNames[t]; ok {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrTermAsLHS,
				Detail: t,
				Row:    root.TerminalsPos.Row,
			})
		}
	}
}

type symbolTableAndLexSpec struct {
	symTab   *symbol.SymbolTable
	lexSpec  *mlspec.LexSpec
	lexKinds map[mlspec.LexKindName]symbol.Symbol
	skip     []mlspec.LexKindName
}

// genSymbolTableAndLexSpec registers every symbol the grammar mentions and
// derives a maleeni lexical specification from the terminals. Each terminal
// becomes one lexical entry whose pattern matches the terminal's text
// literally; kind names are generated from the symbol numbers because
// terminal texts like `+` are not valid kind names. A white-space kind is
// always present and marked as skipped.
func (b *GrammarBuilder) genSymbolTableAndLexSpec(root *spec.RootNode) (*symbolTableAndLexSpec, error) {
	symTab := symbol.NewSymbolTable()
	w := symTab.Writer()

	lhsNames := map[string]struct{}{}
	for _, prod := range root.Productions {
		lhsNames[prod.LHS] = struct{}{}
	}

	_, err := w.RegisterStartSymbol(root.Productions[0].LHS)
	if err != nil {
		return nil, err
	}
	for _, prod := range root.Productions[1:] {
		_, err := w.RegisterNonTerminalSymbol(prod.LHS)
		if err != nil {
			return nil, err
		}
	}

	// Directive terminals first, in declared order, then the terminals the
	// right-hand sides mention, in appearance order.
	for _, t := range root.Terminals {
		_, err := w.RegisterTerminalSymbol(t)
		if err != nil {
			return nil, err
		}
	}
	for _, prod := range root.Productions {
		for _, alt := range prod.RHS {
			for _, elem := range alt.Elements {
				if _, ok := lhsNames[elem.ID]; ok {
					continue
				}
				_, err := w.RegisterTerminalSymbol(elem.ID)
				if err != nil {
					return nil, err
				}
			}
		}
	}

	r := symTab.Reader()
	entries := []*mlspec.LexEntry{
		{
			Kind:    lexKindWhiteSpace,
			Pattern: patternWhiteSpace,
		},
	}
	lexKinds := map[mlspec.LexKindName]symbol.Symbol{}
	for _, sym := range r.TerminalSymbols() {
		if sym.IsEOF() {
			continue
		}
		text, _ := r.ToText(sym)
		kind := mlspec.LexKindName(fmt.Sprintf("%v%v", terminalKindPrefix, sym.Num().Int()))
		entries = append(entries, &mlspec.LexEntry{
			Kind:    kind,
			Pattern: mlspec.LexPattern(mlspec.EscapePattern(text)),
		})
		lexKinds[kind] = sym
	}

	return &symbolTableAndLexSpec{
		symTab: symTab,
		lexSpec: &mlspec.LexSpec{
			Entries: entries,
		},
		lexKinds: lexKinds,
		skip: []mlspec.LexKindName{
			lexKindWhiteSpace,
		},
	}, nil
}

func (b *GrammarBuilder) genProductionSet(root *spec.RootNode, symTab *symbol.SymbolTableReader) (*productionSet, error) {
	prods := newProductionSet()
	for _, prodNode := range root.Productions {
		lhsSym, ok := symTab.ToSymbol(prodNode.LHS)
		if !ok {
			return nil, fmt.Errorf("a symbol '%v' is undefined", prodNode.LHS)
		}
		for _, alt := range prodNode.RHS {
			rhsSyms := make([]symbol.Symbol, 0, len(alt.Elements))
			for _, elem := range alt.Elements {
				sym, ok := symTab.ToSymbol(elem.ID)
				if !ok {
					return nil, fmt.Errorf("a symbol '%v' is undefined", elem.ID)
				}
				rhsSyms = append(rhsSyms, sym)
			}

			prod, err := newProduction(lhsSym, rhsSyms)
			if err != nil {
				return nil, err
			}
			if _, exist := prods.findByID(prod.id); exist {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrDuplicateProduction,
					Detail: renderAlternative(prodNode.LHS, alt),
					Row:    alt.Pos.Row,
				})
				continue
			}
			prods.append(prod)
		}
	}
	if len(b.errs) > 0 {
		return nil, nil
	}
	return prods, nil
}

func renderAlternative(lhs string, alt *spec.AlternativeNode) string {
	if len(alt.Elements) == 0 {
		return fmt.Sprintf("%v → ε", lhs)
	}
	var rhs strings.Builder
	for _, elem := range alt.Elements {
		fmt.Fprintf(&rhs, " %v", elem.ID)
	}
	return fmt.Sprintf("%v →%v", lhs, rhs.String())
}

type compileConfig struct {
	isReportingEnabled bool
}

type CompileOption func(config *compileConfig)

func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.isReportingEnabled = true
	}
}

// Compile computes FIRST and FOLLOW, builds the prediction table, and packs
// everything the predictive parser needs into a portable form. When the
// grammar is not LL(1), Compile returns a *ConflictError; the report, when
// requested, still comes back so a caller can print what made the grammar
// ambiguous.
func Compile(gram *Grammar, opts ...CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	config := &compileConfig{}
	for _, opt := range opts {
		opt(config)
	}

	lexSpec, err, cErrs := mlcompiler.Compile(gram.lexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr)
			}
			return nil, nil, fmt.Errorf(b.String())
		}
		return nil, nil, err
	}

	symTab := gram.symbolTable.Reader()

	kind2Term := make([]int, len(lexSpec.KindNames))
	term2Kind := make([]int, symTab.TerminalNum().Int())
	skip := make([]int, len(lexSpec.KindNames))
	for i, k := range lexSpec.KindNames {
		if k == mlspec.LexKindNameNil {
			kind2Term[mlspec.LexKindIDNil] = symbol.SymbolNil.Num().Int()
			term2Kind[symbol.SymbolNil.Num()] = mlspec.LexKindIDNil.Int()
			continue
		}

		skipKind := false
		for _, sk := range gram.skipLexKinds {
			if k == sk {
				skipKind = true
				break
			}
		}
		if skipKind {
			skip[i] = 1
			continue
		}

		sym, ok := gram.lexKinds[k]
		if !ok {
			return nil, nil, fmt.Errorf("a lexical kind '%v' does not correspond to a terminal symbol", k)
		}
		kind2Term[i] = sym.Num().Int()
		term2Kind[sym.Num()] = i
	}

	terms, err := symTab.TerminalTexts()
	if err != nil {
		return nil, nil, err
	}

	nonTerms, err := symTab.NonTerminalTexts()
	if err != nil {
		return nil, nil, err
	}

	fst, err := genFirstSet(gram.productionSet)
	if err != nil {
		return nil, nil, err
	}

	flw, err := genFollowSet(gram.productionSet, fst)
	if err != nil {
		return nil, nil, err
	}

	builder := &ll1TableBuilder{
		prods:  gram.productionSet,
		first:  fst,
		follow: flw,
		symTab: symTab,
	}
	tab, buildErr := builder.build()
	if buildErr != nil {
		if _, conflicted := buildErr.(*ConflictError); !conflicted {
			return nil, nil, buildErr
		}
	}

	var report *spec.Report
	if config.isReportingEnabled {
		report, err = genReport(gram, symTab, fst, flw, tab, builder)
		if err != nil {
			return nil, nil, err
		}
	}

	if buildErr != nil {
		return nil, report, buildErr
	}

	entries := make([]int, len(tab.entries))
	for i, e := range tab.entries {
		entries[i] = e.Int()
	}

	lhsSyms := make([]int, gram.productionSet.count()+1)
	alts := make([][]int, gram.productionSet.count()+1)
	for _, p := range gram.productionSet.getAllProductions() {
		lhsSyms[p.num] = p.lhs.Num().Int()
		alts[p.num] = encodeRHS(p.rhs)
	}

	return &spec.CompiledGrammar{
		Name: gram.name,
		LexicalSpecification: &spec.LexicalSpecification{
			Lexer: "maleeni",
			Maleeni: &spec.Maleeni{
				Spec:           lexSpec,
				KindToTerminal: kind2Term,
				TerminalToKind: term2Kind,
				Skip:           skip,
			},
		},
		PredictionTable: &spec.PredictionTable{
			Entries:          entries,
			TerminalCount:    tab.termCount,
			NonTerminalCount: tab.nonTermCount,
			Terminals:        terms,
			NonTerminals:     nonTerms,
			StartSymbol:      gram.startSymbol.Num().Int(),
			EOFSymbol:        symbol.SymbolEOF.Num().Int(),
			LHSSymbols:       lhsSyms,
			Alternatives:     alts,
		},
	}, report, nil
}

// encodeRHS flattens a right-hand side into the portable convention: a
// terminal is its positive symbol number and a non-terminal its negated one.
func encodeRHS(rhs []symbol.Symbol) []int {
	encoded := make([]int, len(rhs))
	for i, sym := range rhs {
		if sym.IsTerminal() {
			encoded[i] = sym.Num().Int()
		} else {
			encoded[i] = sym.Num().Int() * -1
		}
	}
	return encoded
}

func genReport(gram *Grammar, symTab *symbol.SymbolTableReader, fst *firstSet, flw *followSet, tab *PredictionTable, builder *ll1TableBuilder) (*spec.Report, error) {
	var terms []*spec.Terminal
	for _, sym := range symTab.TerminalSymbols() {
		text, _ := symTab.ToText(sym)
		terms = append(terms, &spec.Terminal{
			Number: sym.Num().Int(),
			Name:   text,
		})
	}

	var nonTerms []*spec.NonTerminal
	for _, sym := range symTab.NonTerminalSymbols() {
		text, _ := symTab.ToText(sym)
		nonTerms = append(nonTerms, &spec.NonTerminal{
			Number: sym.Num().Int(),
			Name:   text,
		})
	}

	prods := make([]*spec.Production, gram.productionSet.count())
	for _, p := range gram.productionSet.getAllProductions() {
		prods[p.num.Int()-1] = &spec.Production{
			Number: p.num.Int(),
			LHS:    p.lhs.Num().Int(),
			RHS:    encodeRHS(p.rhs),
		}
	}

	var firstSets []*spec.FirstSet
	var followSets []*spec.FollowSet
	for _, sym := range symTab.NonTerminalSymbols() {
		fe := fst.findBySymbol(sym)
		if fe == nil {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		firstTerms := make([]int, 0, len(fe.symbols))
		for _, t := range sortSymbols(fe.symbols) {
			firstTerms = append(firstTerms, t.Num().Int())
		}
		firstSets = append(firstSets, &spec.FirstSet{
			Symbol:    sym.Num().Int(),
			Terminals: firstTerms,
			Empty:     fe.empty,
		})

		we, err := flw.find(sym)
		if err != nil {
			return nil, err
		}
		followTerms := make([]int, 0, len(we.symbols))
		for _, t := range sortSymbols(we.symbols) {
			followTerms = append(followTerms, t.Num().Int())
		}
		followSets = append(followSets, &spec.FollowSet{
			Symbol:    sym.Num().Int(),
			Terminals: followTerms,
			EOF:       we.eof,
		})
	}

	entries := make([]int, len(tab.entries))
	for i, e := range tab.entries {
		entries[i] = e.Int()
	}

	var conflicts []*spec.Conflict
	for _, c := range builder.conflicts {
		conflicts = append(conflicts, &spec.Conflict{
			NonTerminal: c.nonTerm.Num().Int(),
			LookAhead:   c.lookAhead.Num().Int(),
			Production1: c.prod1.num.Int(),
			Production2: c.prod2.num.Int(),
		})
	}

	return &spec.Report{
		Terminals:        terms,
		NonTerminals:     nonTerms,
		Productions:      prods,
		First:            firstSets,
		Follow:           followSets,
		Entries:          entries,
		TerminalCount:    tab.termCount,
		NonTerminalCount: tab.nonTermCount,
		EOFSymbol:        symbol.SymbolEOF.Num().Int(),
		Conflicts:        conflicts,
	}, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}
