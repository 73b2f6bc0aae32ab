package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"docmapper/errors"
)

const (
	errTestNotFound errors.Code = "TestNotFound"
	errTestConflict errors.Code = "TestConflict"
)

func TestIs(t *testing.T) {
	notFound := errors.New(errTestNotFound, "thing not found")
	conflict := errors.Newf(errTestConflict, "conflict on %q", "thing")
	uncoded := errors.Errorf("plain error")

	tests := []struct {
		err    error
		target errors.Code
		exp    bool
	}{
		{err: notFound, target: errTestNotFound, exp: true},
		{err: notFound, target: errTestConflict, exp: false},
		{err: conflict, target: errTestConflict, exp: true},
		{err: errors.Wrap(notFound, "while loading"), target: errTestNotFound, exp: true},
		{err: errors.WithMessage(conflict, "context"), target: errTestConflict, exp: true},
		{err: uncoded, target: errTestNotFound, exp: false},
	}

	for i, test := range tests {
		t.Run(fmt.Sprintf("test-%d", i), func(t *testing.T) {
			assert.Equal(t, test.exp, errors.Is(test.err, test.target))
		})
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, errTestNotFound, errors.CodeOf(errors.New(errTestNotFound, "x")))
	assert.Equal(t, errTestNotFound, errors.CodeOf(errors.Wrap(errors.New(errTestNotFound, "x"), "y")))
	assert.Equal(t, errors.Uncoded, errors.CodeOf(errors.Errorf("plain")))
}

func TestMessageSurvivesWrapping(t *testing.T) {
	err := errors.Wrap(errors.New(errTestConflict, "base"), "outer")
	assert.EqualError(t, err, "outer: base")
	assert.Equal(t, "base", errors.Cause(err).Error())
}
