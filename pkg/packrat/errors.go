package packrat

import (
	"errors"
	"fmt"
)

// ErrGrammarConsistency is matched by every GrammarConsistencyError.
var ErrGrammarConsistency = errors.New("grammar did not consume the whole input")

// GrammarConsistencyError reports that a grammar's top rule failed, or
// succeeded without consuming the whole input. A well-formed grammar accepts
// every input, so this indicates a grammar bug rather than bad text.
type GrammarConsistencyError struct {
	Rule     string
	Consumed int
	Length   int
}

func (e *GrammarConsistencyError) Error() string {
	return fmt.Sprintf("grammar %s consumed %d of %d units", e.Rule, e.Consumed, e.Length)
}

func (e *GrammarConsistencyError) Unwrap() error {
	return ErrGrammarConsistency
}
