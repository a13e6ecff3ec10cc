package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithCodeAndGetCode(t *testing.T) {
	err := WithCode(CodeNotFound, "record not found")
	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.Equal(t, "record not found", err.Error())
	assert.NotEmpty(t, err.Stack)
}

func TestGetCodeWalksWrapChain(t *testing.T) {
	inner := WithCode(CodeInvalid, "bad input")
	outer := Wrap(inner, "while saving")

	// 包装层本身没标码，取链上第一个非零码
	assert.Equal(t, CodeInvalid, GetCode(outer))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, CodeUnknown, GetCode(nil))
}

func TestWrapPreservesSentinelIdentity(t *testing.T) {
	sentinel := WithCode(CodeUnauthorized, "no access")
	wrapped := Wrap(sentinel, "login")

	require.True(t, stderrors.Is(wrapped, sentinel))
	assert.Equal(t, "login", wrapped.Error())
	assert.Same(t, sentinel, Cause(wrapped))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Nil(t, Wrapf(nil, "nothing %d", 1))
}

func TestErrorfFormats(t *testing.T) {
	err := Errorf("user %d missing", 7)
	assert.Equal(t, "user 7 missing", err.Error())
	assert.Equal(t, CodeUnknown, GetCode(err))
}
