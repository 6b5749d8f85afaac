package wireformat

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Decode failure modes. Each marks a payload that is outside the module
// contract; the deliver capability maps them to contract violations.
var (
	ErrResultNotObject    = errors.New("result payload is not a JSON object")
	ErrResultBothBranches = errors.New("result carries both data and errors")
	ErrResultNoBranch     = errors.New("result carries neither data nor errors")
	ErrResultEmptyErrors  = errors.New("result carries an empty errors list")
)

// Result is the decoded outcome of one module invocation: exactly one of
// Data (success payload) or Errors (non-empty, ordered as reported) is set.
type Result[E any] struct {
	Data   string
	Errors []E
}

// Ok reports whether the result is the success branch.
func (r Result[E]) Ok() bool {
	return len(r.Errors) == 0
}

type resultEnvelope struct {
	Data   *string         `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

// DecodeResult parses a raw result payload into the union. The decode is
// strict: a payload that is not a JSON object, sets both branches, sets
// neither, or carries an empty errors list is rejected, so a module that
// stops honoring the contract is caught here rather than producing a
// plausible-looking empty outcome.
func DecodeResult[E any](payload []byte) (Result[E], error) {
	var envelope resultEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "" {
			return Result[E]{}, fmt.Errorf("%w: got %s", ErrResultNotObject, typeErr.Value)
		}
		return Result[E]{}, fmt.Errorf("decoding result payload: %w", err)
	}

	hasErrors := len(envelope.Errors) > 0 && string(envelope.Errors) != "null"
	switch {
	case envelope.Data != nil && hasErrors:
		return Result[E]{}, ErrResultBothBranches
	case envelope.Data != nil:
		return Result[E]{Data: *envelope.Data}, nil
	case !hasErrors:
		return Result[E]{}, ErrResultNoBranch
	}

	var errs []E
	if err := json.Unmarshal(envelope.Errors, &errs); err != nil {
		return Result[E]{}, fmt.Errorf("decoding result errors: %w", err)
	}
	if len(errs) == 0 {
		return Result[E]{}, ErrResultEmptyErrors
	}
	return Result[E]{Errors: errs}, nil
}
