package spec

type Terminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type NonTerminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type Production struct {
	Number int   `json:"number"`
	LHS    int   `json:"lhs"`
	RHS    []int `json:"rhs"`
}

// FirstSet describes FIRST of a non-terminal. Empty reports whether ε is a
// member.
type FirstSet struct {
	Symbol    int   `json:"symbol"`
	Terminals []int `json:"terminals"`
	Empty     bool  `json:"empty"`
}

// FollowSet describes FOLLOW of a non-terminal. EOF reports whether the end
// marker is a member.
type FollowSet struct {
	Symbol    int   `json:"symbol"`
	Terminals []int `json:"terminals"`
	EOF       bool  `json:"eof"`
}

// Conflict is a multiply-defined prediction-table cell. The grammar is not
// LL(1) when a report carries at least one conflict.
type Conflict struct {
	NonTerminal int `json:"non_terminal"`
	LookAhead   int `json:"look_ahead"`
	Production1 int `json:"production_1"`
	Production2 int `json:"production_2"`
}

type Report struct {
	Terminals        []*Terminal    `json:"terminals"`
	NonTerminals     []*NonTerminal `json:"non_terminals"`
	Productions      []*Production  `json:"productions"`
	First            []*FirstSet    `json:"first"`
	Follow           []*FollowSet   `json:"follow"`
	Entries          []int          `json:"entries"`
	TerminalCount    int            `json:"terminal_count"`
	NonTerminalCount int            `json:"non_terminal_count"`
	EOFSymbol        int            `json:"eof_symbol"`
	Conflicts        []*Conflict    `json:"conflicts"`
}
