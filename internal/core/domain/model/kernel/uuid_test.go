package kernel_test

import (
	"testing"

	"bagpub/internal/core/domain/model/kernel"
	"bagpub/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	t.Run("should create a valid random UUID", func(t *testing.T) {
		id := kernel.NewUUID()

		require.NoError(t, id.Validate())
		assert.False(t, id.IsZero())
		assert.NotEqual(t, uuid.Nil.String(), id.String())
	})

	t.Run("should create unique UUIDs", func(t *testing.T) {
		assert.False(t, kernel.NewUUID().IsEqual(kernel.NewUUID()))
	})
}

func TestUUIDFromString(t *testing.T) {
	const canonical = "550e8400-e29b-41d4-a716-446655440000"

	tests := []struct {
		name  string
		input string
	}{
		{name: "canonical", input: canonical},
		{name: "braced", input: "{550e8400-e29b-41d4-a716-446655440000}"},
		{name: "urn", input: "urn:uuid:550e8400-e29b-41d4-a716-446655440000"},
		{name: "no hyphens", input: "550e8400e29b41d4a716446655440000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := kernel.UUIDFromString(tt.input)

			require.NoError(t, err)
			assert.Equal(t, canonical, id.String())
		})
	}

	t.Run("should reject garbage", func(t *testing.T) {
		_, err := kernel.UUIDFromString("not-a-uuid")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject the nil UUID", func(t *testing.T) {
		_, err := kernel.UUIDFromString(uuid.Nil.String())

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUID_ZeroValue(t *testing.T) {
	var id kernel.UUID

	assert.True(t, id.IsZero())
	require.ErrorIs(t, id.Validate(), errs.ErrValueIsRequired)
}

func TestUUID_PointerConversions(t *testing.T) {
	t.Run("nil and zero become nil", func(t *testing.T) {
		assert.Nil(t, kernel.UUIDPtrFromGoogle(nil))
		zero := uuid.Nil
		assert.Nil(t, kernel.UUIDPtrFromGoogle(&zero))
		assert.Nil(t, kernel.GooglePtr(nil))
	})

	t.Run("round trip keeps value", func(t *testing.T) {
		id := kernel.NewUUID()

		back := kernel.UUIDPtrFromGoogle(kernel.GooglePtr(&id))

		require.NotNil(t, back)
		assert.True(t, id.IsEqual(*back))
	})
}
