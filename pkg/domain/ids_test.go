package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "accountdesk/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseManagerID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseManagerID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseManagerID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseManagerID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, ManagerID(validUUID), id)
	})
}

func TestParseID_Boundaries(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE clients;--", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errManager := ParseManagerID(tt.input)
			_, errClient := ParseClientID(tt.input)
			if tt.wantErr {
				require.Error(t, errManager)
				require.Error(t, errClient)
				assert.True(t, dErrors.HasCode(errClient, dErrors.CodeInvalidInput))
				return
			}
			require.NoError(t, errManager)
			require.NoError(t, errClient)
		})
	}
}

func TestNewIDs(t *testing.T) {
	assert.False(t, NewManagerID().IsNil())
	assert.False(t, NewClientID().IsNil())
	assert.True(t, ClientID{}.IsNil())
	assert.NotEqual(t, NewClientID(), NewClientID())
}

func TestIDs_MarshalText(t *testing.T) {
	id := NewClientID()
	out, err := json.Marshal(map[string]ClientID{"id": id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+id.String()+`"}`, string(out))
}
