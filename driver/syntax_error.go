package driver

import (
	"fmt"
	"strings"
)

// MismatchError is the rejection raised when the terminal on top of the stack
// is not the next token.
type MismatchError struct {
	Expected string
	Found    string
	Row      int
	Col      int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%v:%v: unexpected token; want: %v, got: %v", e.Row, e.Col, e.Expected, e.Found)
}

// NoEntryError is the rejection raised when the prediction table has no
// production for the non-terminal on top of the stack and the next token.
// Expected lists the terminals that would have been acceptable.
type NoEntryError struct {
	NonTerminal string
	Found       string
	Expected    []string
	Row         int
	Col         int
}

func (e *NoEntryError) Error() string {
	return fmt.Sprintf("%v:%v: unexpected token; %v cannot derive a string starting with %v; want: %v", e.Row, e.Col, e.NonTerminal, e.Found, strings.Join(e.Expected, ", "))
}

// NonterminationError is raised when the parser applies productions without
// consuming input for longer than any terminating run could. A certified
// table never triggers it; the guard exists for tables built elsewhere.
type NonterminationError struct {
	ApplySteps int
}

func (e *NonterminationError) Error() string {
	return fmt.Sprintf("the parser exceeded %v production applications; the prediction table seems to loop on ε-productions", e.ApplySteps)
}
