package driver

import (
	"fmt"
	"io"
	"strings"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/nihei9/lilt/spec"
)

const (
	ActionMatch  = "match"
	ActionApply  = "apply"
	ActionAccept = "accept"
	ActionError  = "error"
)

// Step is one row of a parse trace: the stack and the remaining input before
// the action, and the action the parser took. Stack[0] is the top of the
// stack and Input[0] the next token; both always end with the end marker.
type Step struct {
	Stack  []string
	Input  []string
	Action string
}

// applySafetyFactor scales the bound on production applications. A run that
// accepts its input applies each production at most once per stack symbol it
// eventually consumes, so any terminating run stays far below the bound.
const applySafetyFactor = 4

type ParserOption func(p *Parser) error

type Parser struct {
	gram       *spec.CompiledGrammar
	toks       []*vToken
	cursor     int
	stack      *arraystack.Stack
	steps      []*Step
	applyLimit int
}

// NewParser tokenizes src entirely up front. Holding the whole token sequence
// lets every trace step carry a snapshot of the remaining input.
func NewParser(gram *spec.CompiledGrammar, src io.Reader, opts ...ParserOption) (*Parser, error) {
	toks, err := readTokens(gram, src)
	if err != nil {
		return nil, err
	}

	prodCount := len(gram.PredictionTable.Alternatives) - 1
	p := &Parser{
		gram:       gram,
		toks:       toks,
		stack:      arraystack.New(),
		applyLimit: applySafetyFactor * (prodCount + 1) * (len(toks) + 1),
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse runs the predictive parse to completion. It returns nil when the
// input is accepted and a *MismatchError, *NoEntryError, or
// *NonterminationError when it is not. The trace remains available either
// way.
//
// The stack holds symbols in the portable convention: a terminal as its
// positive number and a non-terminal as its negated one. Parsing starts from
// the end marker with the start symbol on top and ends when the two last
// symbols, the start symbol's derivation and the end marker, have both gone.
func (p *Parser) Parse() error {
	tab := p.gram.PredictionTable
	p.stack.Push(tab.EOFSymbol)
	p.stack.Push(tab.StartSymbol * -1)

	applyCount := 0
	for {
		top, ok := p.stack.Peek()
		if !ok {
			return fmt.Errorf("the parse stack is empty")
		}
		sym := top.(int)
		tok := p.toks[p.cursor]

		switch {
		case sym == tab.EOFSymbol:
			if tok.terminal != tab.EOFSymbol {
				p.record(fmt.Sprintf("%v: want: <eof>, got: %v", ActionError, tok.Text()))
				return &MismatchError{
					Expected: "<eof>",
					Found:    p.describeToken(tok),
					Row:      rowOf(tok),
					Col:      colOf(tok),
				}
			}
			p.record(ActionAccept)
			p.stack.Pop()
			return nil
		case sym > 0:
			if sym != tok.terminal {
				p.record(fmt.Sprintf("%v: want: %v, got: %v", ActionError, tab.Terminals[sym], tok.Text()))
				return &MismatchError{
					Expected: tab.Terminals[sym],
					Found:    p.describeToken(tok),
					Row:      rowOf(tok),
					Col:      colOf(tok),
				}
			}
			p.record(fmt.Sprintf("%v %v", ActionMatch, tab.Terminals[sym]))
			p.stack.Pop()
			p.cursor++
		default:
			nonTerm := sym * -1
			prodNum := tab.Entries[nonTerm*tab.TerminalCount+tok.terminal]
			if prodNum == 0 {
				p.record(fmt.Sprintf("%v: no production for (%v, %v)", ActionError, tab.NonTerminals[nonTerm], tok.Text()))
				return &NoEntryError{
					NonTerminal: tab.NonTerminals[nonTerm],
					Found:       p.describeToken(tok),
					Expected:    p.searchLookahead(nonTerm),
					Row:         rowOf(tok),
					Col:         colOf(tok),
				}
			}

			applyCount++
			if applyCount > p.applyLimit {
				p.record(fmt.Sprintf("%v: too many applications", ActionError))
				return &NonterminationError{
					ApplySteps: applyCount - 1,
				}
			}

			p.record(fmt.Sprintf("%v %v", ActionApply, p.renderProduction(prodNum)))
			p.stack.Pop()
			alt := tab.Alternatives[prodNum]
			for i := len(alt) - 1; i >= 0; i-- {
				p.stack.Push(alt[i])
			}
		}
	}
}

// Trace returns the steps the parser has taken so far. After Parse it covers
// the whole run, the failing step included.
func (p *Parser) Trace() []*Step {
	return p.steps
}

func (p *Parser) record(action string) {
	vals := p.stack.Values()
	stack := make([]string, len(vals))
	for i, v := range vals {
		stack[i] = p.renderSymbol(v.(int))
	}
	input := make([]string, len(p.toks)-p.cursor)
	for i, tok := range p.toks[p.cursor:] {
		input[i] = tok.Text()
	}
	p.steps = append(p.steps, &Step{
		Stack:  stack,
		Input:  input,
		Action: action,
	})
}

func (p *Parser) renderSymbol(sym int) string {
	if sym > 0 {
		return p.gram.PredictionTable.Terminals[sym]
	}
	return p.gram.PredictionTable.NonTerminals[sym*-1]
}

func (p *Parser) renderProduction(prodNum int) string {
	tab := p.gram.PredictionTable
	lhs := tab.NonTerminals[tab.LHSSymbols[prodNum]]
	alt := tab.Alternatives[prodNum]
	if len(alt) == 0 {
		return fmt.Sprintf("%v → ε", lhs)
	}
	var rhs strings.Builder
	for _, sym := range alt {
		fmt.Fprintf(&rhs, " %v", p.renderSymbol(sym))
	}
	return fmt.Sprintf("%v →%v", lhs, rhs.String())
}

func (p *Parser) describeToken(tok *vToken) string {
	if tok.EOF() {
		return "<eof>"
	}
	if tok.Invalid() {
		return fmt.Sprintf("an invalid token '%v'", tok.Text())
	}
	return fmt.Sprintf("'%v'", tok.Text())
}

// searchLookahead collects the terminals the prediction table accepts for a
// non-terminal, for error messages.
func (p *Parser) searchLookahead(nonTerm int) []string {
	tab := p.gram.PredictionTable
	terms := []string{}
	base := nonTerm * tab.TerminalCount
	for term := 0; term < tab.TerminalCount; term++ {
		if tab.Entries[base+term] == 0 {
			continue
		}
		terms = append(terms, tab.Terminals[term])
	}
	return terms
}

func rowOf(tok *vToken) int {
	row, _ := tok.Position()
	return row
}

func colOf(tok *vToken) int {
	_, col := tok.Position()
	return col
}
