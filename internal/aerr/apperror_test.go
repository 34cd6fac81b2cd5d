package aerr

//
// apperror_test.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"errors"
	"testing"

	"gitlab.com/kabes/go-spahost/internal/assert"
)

func TestAppErrorWrap(t *testing.T) {
	err := errors.New("error1")

	aerr1 := Wrap(err)
	assert.True(t, errors.Is(aerr1, err))
	assert.Equal(t, errors.Unwrap(aerr1), err)
	assert.True(t, aerr1.location != "")
	assert.Equal(t, aerr1.Error(), "error1")

	aerr2 := Wrapf(err, "wrapped %d", 1)
	assert.True(t, errors.Is(aerr2, err))
	assert.Equal(t, aerr2.Error(), "wrapped 1")
}

func TestAppErrorUserMsg(t *testing.T) {
	err := errors.New("error1")

	aerr1 := Wrap(err)
	assert.Equal(t, GetUserMessage(aerr1), "")
	assert.Equal(t, GetUserMessageOr(aerr1, "--"), "--")

	aerr1.WithUserMsg("user message")
	assert.Equal(t, GetUserMessage(aerr1), "user message")
	assert.Equal(t, GetUserMessageOr(aerr1, "--"), "user message")

	// innermost user message wins
	outer := Wrap(aerr1).WithUserMsg("outer message")
	assert.Equal(t, GetUserMessage(outer), "user message")
}

func TestAppErrorTags(t *testing.T) {
	aerr1 := New("error1").WithTag("k1")
	assert.True(t, HasTag(aerr1, "k1"))
	assert.True(t, !HasTag(aerr1, "k2"))

	aerr1.WithTag("k2")
	assert.True(t, HasTag(aerr1, "k1"))
	assert.True(t, HasTag(aerr1, "k2"))

	// tags visible through wrapping
	wrapped := Wrapf(aerr1, "outer")
	assert.True(t, HasTag(wrapped, "k1"))
}

func TestAppErrorMeta(t *testing.T) {
	aerr1 := New("error1").WithMeta("k1", 1, "k2", "v2")
	assert.Equal(t, len(aerr1.meta), 2)
	assert.Equal(t, aerr1.meta["k1"], 1)
	assert.Equal(t, aerr1.meta["k2"], "v2")

	// non-string key is converted to string
	aerr1.WithMeta(22, "v22")
	assert.Equal(t, aerr1.meta["22"], "v22")
}

func TestApplyFor(t *testing.T) {
	cause := errors.New("cause")

	aerr1 := ApplyFor(ErrDatabase, cause)
	assert.True(t, errors.Is(aerr1, cause))
	assert.True(t, HasTag(aerr1, InternalError))
	assert.Equal(t, GetUserMessage(aerr1), "database error")
	// sentinel itself is untouched
	assert.True(t, ErrDatabase.err == nil)
}

func TestClone(t *testing.T) {
	aerr1 := ErrValidation.Clone().WithUserMsg("name is required")
	assert.Equal(t, GetUserMessage(aerr1), "name is required")
	assert.Equal(t, GetUserMessage(ErrValidation), "")
	assert.True(t, HasTag(aerr1, ValidationError))
}
