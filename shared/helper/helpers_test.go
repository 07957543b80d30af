package helper_test

import (
	"errors"
	"testing"

	"github.com/on-the-ground/memo_ive_go/shared/helper"
	"github.com/stretchr/testify/assert"
)

func TestGetTypedValueOf(t *testing.T) {
	v, err := helper.GetTypedValueOf[int](func() (any, error) { return 3, nil })
	assert.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = helper.GetTypedValueOf[int](func() (any, error) { return "3", nil })
	assert.ErrorIs(t, err, helper.ErrUnexpectedType)

	errBoom := errors.New("boom")
	_, err = helper.GetTypedValueOf[int](func() (any, error) { return nil, errBoom })
	assert.ErrorIs(t, err, errBoom)
}

func TestGetTypedValueOf_Nil(t *testing.T) {
	e, err := helper.GetTypedValueOf[error](func() (any, error) { return nil, nil })
	assert.NoError(t, err)
	assert.Nil(t, e)

	p, err := helper.GetTypedValueOf[*int](func() (any, error) { return nil, nil })
	assert.NoError(t, err)
	assert.Nil(t, p)

	m, err := helper.GetTypedValueOf[map[string]int](func() (any, error) { return nil, nil })
	assert.NoError(t, err)
	assert.Nil(t, m)
}

func TestGetTypedValueOf_NilForValueType(t *testing.T) {
	_, err := helper.GetTypedValueOf[int](func() (any, error) { return nil, nil })
	assert.ErrorIs(t, err, helper.ErrUnexpectedType)

	_, err = helper.GetTypedValueOf[struct{ A int }](func() (any, error) { return nil, nil })
	assert.ErrorIs(t, err, helper.ErrUnexpectedType)

	assert.Panics(t, func() { helper.Arg[string]([]any{nil}, 0) })
}

func TestMustGetTypedValue_Panics(t *testing.T) {
	assert.Panics(t, func() {
		helper.MustGetTypedValue[string](func() (any, error) { return 1, nil })
	})
}

func TestArg(t *testing.T) {
	args := []any{1, "two", nil}
	assert.Equal(t, 1, helper.Arg[int](args, 0))
	assert.Equal(t, "two", helper.Arg[string](args, 1))
	assert.Nil(t, helper.Arg[any](args, 2))
	assert.Panics(t, func() { helper.Arg[int](args, 3) })
	assert.Panics(t, func() { helper.Arg[int](args, 1) })
}
