package spec

import (
	"bufio"
	"io"
	"strings"

	verr "github.com/nihei9/lilt/error"
)

type Position struct {
	Row int
}

func newPosition(row int) Position {
	return Position{
		Row: row,
	}
}

type RootNode struct {
	Name string
	// Terminals lists the symbols an explicit #term directive classifies as
	// terminals. Symbols that never appear on a left-hand side are terminals
	// anyway; the directive only exists to let a grammar author state the
	// classification and have contradictions rejected.
	Terminals    []string
	TerminalsPos Position
	Productions  []*ProductionNode
}

type ProductionNode struct {
	LHS string
	RHS []*AlternativeNode
	Pos Position
}

type AlternativeNode struct {
	// Elements is empty for the ε alternative.
	Elements []*ElementNode
	Pos      Position
}

type ElementNode struct {
	ID  string
	Pos Position
}

const (
	productionArrow       = "->"
	alternativeSeparator  = "|"
	commentPrefix         = "//"
	directivePrefix       = "#"
	directiveTerminator   = ";"
	defaultGrammarName    = "grammar"
	directiveNameName     = "name"
	directiveNameTerminal = "term"
)

// epsilonAliases are the spellings the loader accepts for the empty string.
var epsilonAliases = map[string]struct{}{
	"ε":       {},
	"#":       {},
	"eps":     {},
	"epsilon": {},
	"EPSILON": {},
	"lambda":  {},
	"Λ":       {},
}

func isEpsilon(token string) bool {
	_, ok := epsilonAliases[token]
	return ok
}

// Parse reads a line-oriented grammar description and returns its AST.
//
// Each production occupies one line: `A -> X y | z`. Alternatives are
// separated by `|`, symbols by spaces, and an alternative consisting solely of
// an epsilon spelling (or nothing at all) is the empty alternative. Lines
// beginning with `//` are comments. `#name foo;` names the grammar and
// `#term a b;` explicitly classifies symbols as terminals.
func Parse(src io.Reader) (*RootNode, error) {
	p := &parser{
		root: &RootNode{
			Name: defaultGrammarName,
		},
		prods: map[string]*ProductionNode{},
	}
	return p.parse(src)
}

type parser struct {
	root  *RootNode
	prods map[string]*ProductionNode
	named bool
}

func (p *parser) parse(src io.Reader) (*RootNode, error) {
	s := bufio.NewScanner(src)
	row := 0
	for s.Scan() {
		row++
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		if strings.HasPrefix(line, directivePrefix) && !strings.Contains(line, productionArrow) {
			err := p.parseDirective(line, row)
			if err != nil {
				return nil, err
			}
			continue
		}
		err := p.parseProduction(line, row)
		if err != nil {
			return nil, err
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(p.root.Productions) == 0 {
		return nil, &verr.SpecError{
			Cause: synErrNoProduction,
		}
	}
	return p.root, nil
}

func (p *parser) parseDirective(line string, row int) error {
	if !strings.HasSuffix(line, directiveTerminator) {
		return &verr.SpecError{
			Cause:  synErrNoSemicolon,
			Detail: line,
			Row:    row,
		}
	}
	body := strings.TrimSuffix(strings.TrimPrefix(line, directivePrefix), directiveTerminator)
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return &verr.SpecError{
			Cause: synErrNoDirectiveName,
			Row:   row,
		}
	}
	switch fields[0] {
	case directiveNameName:
		if len(fields) != 2 {
			return &verr.SpecError{
				Cause:  synErrDirNoParameter,
				Detail: directiveNameName,
				Row:    row,
			}
		}
		if p.named {
			return &verr.SpecError{
				Cause: synErrDuplicateName,
				Row:   row,
			}
		}
		p.root.Name = fields[1]
		p.named = true
	case directiveNameTerminal:
		if len(fields) < 2 {
			return &verr.SpecError{
				Cause:  synErrDirNoParameter,
				Detail: directiveNameTerminal,
				Row:    row,
			}
		}
		p.root.Terminals = append(p.root.Terminals, fields[1:]...)
		p.root.TerminalsPos = newPosition(row)
	default:
		return &verr.SpecError{
			Cause:  synErrInvalidDirective,
			Detail: fields[0],
			Row:    row,
		}
	}
	return nil
}

func (p *parser) parseProduction(line string, row int) error {
	lhsPart, rhsPart, found := strings.Cut(line, productionArrow)
	if !found {
		return &verr.SpecError{
			Cause:  synErrNoArrow,
			Detail: line,
			Row:    row,
		}
	}
	lhs := strings.TrimSpace(lhsPart)
	if lhs == "" {
		return &verr.SpecError{
			Cause: synErrNoProductionName,
			Row:   row,
		}
	}
	if len(strings.Fields(lhs)) > 1 {
		return &verr.SpecError{
			Cause:  synErrSpacesInLHS,
			Detail: lhs,
			Row:    row,
		}
	}

	prod, ok := p.prods[lhs]
	if !ok {
		prod = &ProductionNode{
			LHS: lhs,
			Pos: newPosition(row),
		}
		p.prods[lhs] = prod
		p.root.Productions = append(p.root.Productions, prod)
	}

	for _, alt := range strings.Split(rhsPart, alternativeSeparator) {
		var elems []*ElementNode
		for _, tok := range strings.Fields(alt) {
			// ε vanishes inside a longer alternative; `X ε y` means `X y`.
			if isEpsilon(tok) {
				continue
			}
			elems = append(elems, &ElementNode{
				ID:  tok,
				Pos: newPosition(row),
			})
		}
		prod.RHS = append(prod.RHS, &AlternativeNode{
			Elements: elems,
			Pos:      newPosition(row),
		})
	}

	return nil
}
