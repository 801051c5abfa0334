package rulefile

import (
	"fmt"
	"strings"

	"github.com/cognicore/axiom/pkg/axiom/internalerr"
)

// ValidationError reports input that is structurally well-formed but
// logically unusable. It is always produced before any inference runs.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate checks the extracted input against the pre-inference contract:
// at least one query, every fact name a single uppercase letter, and no
// fact asserted together with its negation.
func Validate(in Input) error {
	if len(in.Queries) == 0 {
		return &ValidationError{
			Reason: "no queries specified; use ?<FACTS> to specify queries",
			Err:    internalerr.ErrNoQueries,
		}
	}

	seen := make(map[string]struct{})
	for fact := range in.InitialFacts {
		seen[fact] = struct{}{}
	}
	for _, rule := range in.Rules {
		for _, fact := range rule.AllFacts() {
			seen[fact] = struct{}{}
		}
	}
	for _, q := range in.Queries {
		seen[q] = struct{}{}
	}

	for fact := range seen {
		name := strings.TrimPrefix(fact, "!")
		if len(name) != 1 || name[0] < 'A' || name[0] > 'Z' {
			return &ValidationError{
				Reason: fmt.Sprintf("invalid fact name %q: facts must be single uppercase letters (A-Z)", fact),
				Err:    internalerr.ErrInvalidInput,
			}
		}
	}

	for fact := range in.InitialFacts {
		if _, ok := in.InitialFacts["!"+fact]; ok {
			return &ValidationError{
				Reason: fmt.Sprintf("contradiction: %s is both asserted and negated in the initial facts", fact),
				Err:    internalerr.ErrContradiction,
			}
		}
	}

	return nil
}
