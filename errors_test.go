package seedgen_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fastnate-go/seedgen"
)

func TestModelError(t *testing.T) {
	err := seedgen.NewModelError("Person", "missing identifier")
	assert.Equal(t, "seedgen: model error on Person: missing identifier", err.Error())
	assert.True(t, errors.Is(err, seedgen.ErrModel))
	assert.True(t, seedgen.IsModelError(err))
	assert.True(t, seedgen.IsModelError(fmt.Errorf("wrap: %w", err)))
}

func TestReferenceError(t *testing.T) {
	err := seedgen.NewReferenceError("Person", "country")
	assert.True(t, errors.Is(err, seedgen.ErrReference))
	assert.True(t, seedgen.IsReferenceError(err))
}

func TestDialectError(t *testing.T) {
	err := seedgen.NewDialectError("mysql", "sequences")
	assert.True(t, errors.Is(err, seedgen.ErrDialect))
	assert.Contains(t, err.Error(), "mysql")
}

func TestIoErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := seedgen.NewIoError("write", cause)
	assert.True(t, errors.Is(err, seedgen.ErrIO))
	assert.ErrorIs(t, err, cause)
}

func TestAggregateError(t *testing.T) {
	assert.Nil(t, seedgen.NewAggregateError(nil, nil))

	single := seedgen.NewAggregateError(errors.New("a"))
	assert.Equal(t, "a", single.Error())

	multi := seedgen.NewAggregateError(errors.New("a"), nil, errors.New("b"))
	assert.Contains(t, multi.Error(), "2 errors")
	assert.Contains(t, multi.Error(), "[1] a")
	assert.Contains(t, multi.Error(), "[2] b")
}
