package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hearthvale/companion-api/internal/errors"
)

func TestErrorFormatting(t *testing.T) {
	err := errors.NotFound("relationship not found")
	assert.Equal(t, "NOT_FOUND: relationship not found", err.Error())

	wrapped := errors.Wrap(fmt.Errorf("dial tcp: refused"), "failed to load relationship")
	assert.Equal(t, errors.CodeInternal, wrapped.Code)
	assert.Contains(t, wrapped.Error(), "dial tcp: refused")
}

func TestWrapPreservesCode(t *testing.T) {
	inner := errors.NotFoundf("quest %s not found", "quest_1")
	outer := errors.Wrap(inner, "failed to complete quest")

	assert.Equal(t, errors.CodeNotFound, outer.Code)
	assert.True(t, errors.IsNotFound(outer))
	assert.True(t, stderrors.Is(outer, inner))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, "nothing"))
}

func TestCodeCheckers(t *testing.T) {
	assert.True(t, errors.IsFailedPrecondition(errors.FailedPrecondition("quest is not in progress")))
	assert.True(t, errors.IsInvalidArgument(errors.InvalidArgument("bad reward spec")))
	assert.False(t, errors.IsNotFound(errors.Internal("boom")))
	assert.False(t, errors.IsNotFound(nil))
}

func TestGetCodeForeignError(t *testing.T) {
	assert.Equal(t, errors.CodeInternal, errors.GetCode(fmt.Errorf("plain")))
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
}

func TestWithMeta(t *testing.T) {
	err := errors.NotFound("relationship not found").
		WithMeta("user_id", "user_1").
		WithMeta("npc_id", "npc_luna")

	meta := errors.GetMeta(err)
	assert.Equal(t, "user_1", meta["user_id"])
	assert.Equal(t, "npc_luna", meta["npc_id"])
}

func TestValidationBuilder(t *testing.T) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("UserID", "", vb)
	errors.ValidateRange("BondLevel", 12, 0, 10, vb)

	err := vb.Build()
	assert.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	clean := errors.NewValidationBuilder()
	errors.ValidateRequired("UserID", "user_1", clean)
	assert.NoError(t, clean.Build())
}
