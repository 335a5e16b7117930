package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowListPolicy(t *testing.T) {
	adminID := uuid.New()

	tests := []struct {
		name   string
		policy AllowListPolicy
		id     Identity
		want   bool
	}{
		{"by user id", NewAllowListPolicy(adminID.String(), ""), Identity{UserID: adminID}, true},
		{"by email case-insensitive", NewAllowListPolicy("", "Admin@Campus.edu"), Identity{UserID: uuid.New(), Email: "admin@campus.EDU"}, true},
		{"other user", NewAllowListPolicy(adminID.String(), "admin@campus.edu"), Identity{UserID: uuid.New(), Email: "student@campus.edu"}, false},
		{"nothing configured", NewAllowListPolicy("", ""), Identity{UserID: adminID, Email: ""}, false},
		{"empty email never matches", NewAllowListPolicy("", ""), Identity{UserID: uuid.New()}, false},
		{"invalid configured id ignored", NewAllowListPolicy("not-a-uuid", ""), Identity{UserID: adminID}, false},
		{"anonymous", NewAllowListPolicy("", "admin@campus.edu"), Identity{Email: "admin@campus.edu"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.IsAdmin(tt.id))
		})
	}
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	m := NewTokenManager("test-secret-test-secret-test-secret", time.Hour)
	id := Identity{UserID: uuid.New(), Email: "student@campus.edu"}

	token, err := m.Issue(id)
	require.NoError(t, err)

	parsed, err := m.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestTokenManager_RejectsForeignSecretAndExpired(t *testing.T) {
	id := Identity{UserID: uuid.New()}

	other := NewTokenManager("other-secret-other-secret-other", time.Hour)
	token, err := other.Issue(id)
	require.NoError(t, err)

	m := NewTokenManager("test-secret-test-secret-test-secret", time.Hour)
	_, err = m.ParseAccess(token)
	assert.Error(t, err)

	expired := NewTokenManager("test-secret-test-secret-test-secret", -time.Minute)
	token, err = expired.Issue(id)
	require.NoError(t, err)
	_, err = m.ParseAccess(token)
	assert.Error(t, err)
}
