// Package wireformat is the data boundary of the bridge: it encodes typed
// requests into globals the environment can evaluate, and decodes the
// module's result payload into the success-or-errors union.
package wireformat

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode"
)

// ErrBadGlobalName reports a global name that is not a plain identifier.
var ErrBadGlobalName = errors.New("global name is not a valid identifier")

// GlobalAssignment renders an assignment statement that binds v, encoded as
// JSON, to the named global when evaluated inside the environment.
//
// The value side is produced by encoding/json exclusively. Its escaping of
// quotes, control characters, and the U+2028/U+2029 line separators keeps
// the output inert: request content can never terminate the statement or
// smuggle code into the environment. Callers must not concatenate request
// content into script text any other way.
func GlobalAssignment(name string, v any) (string, error) {
	if !validIdentifier(name) {
		return "", fmt.Errorf("%w: %q", ErrBadGlobalName, name)
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding global %s: %w", name, err)
	}
	return fmt.Sprintf("%s = %s", name, payload), nil
}

func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
