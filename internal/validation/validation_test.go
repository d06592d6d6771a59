package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Nickname string `json:"nickname" validate:"omitempty,notblank"`
}

func TestStructUsesJSONNames(t *testing.T) {
	v := New()
	err := v.Struct(signup{Email: "nope", Password: "123"})

	var fe *FieldsError
	require.True(t, errors.As(err, &fe), "expected *FieldsError, got %T", err)
	assert.Contains(t, fe.Fields, "email")
	assert.Contains(t, fe.Fields, "password")
	assert.Equal(t, "password must be at least 6 characters in length", fe.Fields["password"])
}

func TestStructValid(t *testing.T) {
	assert.NoError(t, New().Struct(signup{Email: "a@b.co", Password: "123456"}))
}

func TestNotBlank(t *testing.T) {
	err := New().Struct(signup{Email: "a@b.co", Password: "123456", Nickname: "   "})
	var fe *FieldsError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "this field cannot be blank", fe.Fields["nickname"])
}

func TestFieldsErrorMessageIsSorted(t *testing.T) {
	err := &FieldsError{Fields: map[string]string{"b": "bad", "a": "worse"}}
	assert.Equal(t, "invalid input: a: worse; b: bad", err.Error())
}
