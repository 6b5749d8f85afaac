package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCompositionError_Code(t *testing.T) {
	withCode := CompositionError{
		Message:    strPtr("field type mismatch"),
		Extensions: &ErrorExtensions{Code: "FIELD_TYPE_MISMATCH"},
	}
	assert.Equal(t, "FIELD_TYPE_MISMATCH", withCode.Code())

	withoutExtensions := CompositionError{Message: strPtr("wat")}
	assert.Equal(t, UnknownErrorCode, withoutExtensions.Code())

	emptyCode := CompositionError{Extensions: &ErrorExtensions{}}
	assert.Equal(t, UnknownErrorCode, emptyCode.Code())
}

func TestCompositionError_Error(t *testing.T) {
	err := CompositionError{
		Message:    strPtr("Field \"User.id\" has mismatched types"),
		Extensions: &ErrorExtensions{Code: "FIELD_TYPE_MISMATCH"},
	}
	assert.Equal(t, "FIELD_TYPE_MISMATCH: Field \"User.id\" has mismatched types", err.Error())

	messageless := CompositionError{Extensions: &ErrorExtensions{Code: "UNKNOWN_TYPE"}}
	assert.Equal(t, "UNKNOWN_TYPE", messageless.Error())

	bare := CompositionError{}
	assert.Equal(t, UnknownErrorCode, bare.Error())
}

func TestCompositionErrors_Error(t *testing.T) {
	errs := CompositionErrors{
		{Message: strPtr("first"), Extensions: &ErrorExtensions{Code: "A"}},
		{Message: strPtr("second")},
	}

	assert.Equal(t, "A: first\nUNKNOWN: second", errs.Error())

	// The list type satisfies error so callers can return it directly.
	var asError error = errs
	require.Error(t, asError)
}

func TestPlanningError_Error(t *testing.T) {
	err := PlanningError{
		Message:    strPtr("Unknown operation named \"q\"."),
		Extensions: &ErrorExtensions{Code: "GRAPHQL_VALIDATION_FAILED"},
	}
	assert.Equal(t, "GRAPHQL_VALIDATION_FAILED: Unknown operation named \"q\".", err.Error())
	assert.Equal(t, err.Error(), err.String())
}

func TestPlanningErrors_Error(t *testing.T) {
	errs := PlanningErrors{{Message: strPtr("syntax error")}}

	assert.Equal(t, "UNKNOWN: syntax error", errs.Error())

	var asError error = errs
	require.Error(t, asError)
}

func TestCompositionError_DecodePartialShapes(t *testing.T) {
	// The module may omit either field independently and attach extension
	// fields beyond code; decoding tolerates all of these.
	cases := map[string]struct {
		payload string
		code    string
		message *string
	}{
		"full": {
			payload: `{"message":"boom","extensions":{"code":"X"}}`,
			code:    "X",
			message: strPtr("boom"),
		},
		"message only": {
			payload: `{"message":"boom"}`,
			code:    UnknownErrorCode,
			message: strPtr("boom"),
		},
		"extensions only": {
			payload: `{"extensions":{"code":"X"}}`,
			code:    "X",
			message: nil,
		},
		"extra extension fields": {
			payload: `{"message":"boom","extensions":{"code":"X","locations":[]}}`,
			code:    "X",
			message: strPtr("boom"),
		},
		"empty": {
			payload: `{}`,
			code:    UnknownErrorCode,
			message: nil,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var decoded CompositionError
			require.NoError(t, json.Unmarshal([]byte(tc.payload), &decoded))
			assert.Equal(t, tc.code, decoded.Code())
			if tc.message == nil {
				assert.Nil(t, decoded.Message)
			} else {
				require.NotNil(t, decoded.Message)
				assert.Equal(t, *tc.message, *decoded.Message)
			}
		})
	}
}
