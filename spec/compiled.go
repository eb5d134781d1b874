package spec

import mlspec "github.com/nihei9/maleeni/spec"

type CompiledGrammar struct {
	Name                 string                `json:"name"`
	LexicalSpecification *LexicalSpecification `json:"lexical_specification"`
	PredictionTable      *PredictionTable      `json:"prediction_table"`
}

type LexicalSpecification struct {
	Lexer   string   `json:"lexer"`
	Maleeni *Maleeni `json:"maleeni"`
}

type Maleeni struct {
	Spec           *mlspec.CompiledLexSpec `json:"spec"`
	KindToTerminal []int                   `json:"kind_to_terminal"`
	TerminalToKind []int                   `json:"terminal_to_kind"`
	Skip           []int                   `json:"skip"`
}

// PredictionTable is the portable form of an LL(1) grammar: the prediction
// table itself plus everything the predictive parser needs to expand a
// production and to render symbols for humans.
//
// Entries is a dense non-terminal × terminal matrix flattened in row-major
// order; a cell holds a production number, and 0 means "syntax error for this
// pair". The EOF symbol occupies a regular terminal column. In Alternatives,
// a terminal appears as its positive symbol number and a non-terminal as its
// negated one; the empty alternative is an empty slice.
type PredictionTable struct {
	Entries          []int    `json:"entries"`
	TerminalCount    int      `json:"terminal_count"`
	NonTerminalCount int      `json:"non_terminal_count"`
	Terminals        []string `json:"terminals"`
	NonTerminals     []string `json:"non_terminals"`
	StartSymbol      int      `json:"start_symbol"`
	EOFSymbol        int      `json:"eof_symbol"`
	LHSSymbols       []int    `json:"lhs_symbols"`
	Alternatives     [][]int  `json:"alternatives"`
}
