package spec

import "fmt"

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

var (
	synErrNoProduction     = newSyntaxError("a grammar must have at least one production")
	synErrNoArrow          = newSyntaxError("a production must contain '->'")
	synErrNoProductionName = newSyntaxError("a production name is missing")
	synErrSpacesInLHS      = newSyntaxError("the left-hand side of a production must be a single symbol")
	synErrNoSemicolon      = newSyntaxError("the semicolon is missing at the last of a directive")
	synErrNoDirectiveName  = newSyntaxError("a directive needs a name")
	synErrInvalidDirective = newSyntaxError("invalid directive name")
	synErrDirNoParameter   = newSyntaxError("a directive needs at least one parameter")
	synErrDuplicateName    = newSyntaxError("duplicate name directive")
)
