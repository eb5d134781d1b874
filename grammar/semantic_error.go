package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoProduction        = newSemanticError("a grammar needs at least one production")
	semErrDuplicateProduction = newSemanticError("duplicate production")
	semErrTermAsLHS           = newSemanticError("a symbol classified as a terminal cannot appear as the left-hand side of a production")
	semErrDuplicateTerminal   = newSemanticError("duplicate terminal")
)
