package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodePerKind(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		code int
	}{
		{KindUserInput, 2},
		{KindLocking, 3},
		{KindGui, 4},
		{KindStorage, 5},
		{KindInternal, 1},
	}
	for _, c := range cases {
		err := &CoreError{Kind: c.kind, Message: "boom"}
		assert.Equal(t, c.code, err.ExitCode())
	}
}

func TestNewUserErrorFormats(t *testing.T) {
	err := NewUserError("bad %s", "input")
	assert.Equal(t, KindUserInput, err.Kind)
	assert.Equal(t, "bad input", err.Error())
}

func TestWrapFatalUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapFatal(KindStorage, "writing entry", cause)

	assert.Equal(t, "writing entry: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
}
