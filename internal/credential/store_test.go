package credential_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logs-dashboard/internal/credential"
)

func signed(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential.json")

	store := credential.NewStore(path)
	assert.True(t, store.Current().Empty())

	c := credential.Credential{Token: "abc", Username: "alice", UserID: "7"}
	require.NoError(t, store.Save(c))
	assert.Equal(t, "abc", store.Token())

	reopened := credential.NewStore(path)
	assert.Equal(t, c, reopened.Current())

	require.NoError(t, reopened.Clear())
	assert.True(t, reopened.Current().Empty())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, reopened.Clear(), "clearing twice is fine")
}

func TestStoreIgnoresCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store := credential.NewStore(path)
	assert.True(t, store.Current().Empty())
}

func TestInMemoryStore(t *testing.T) {
	store := credential.NewStore("")
	require.NoError(t, store.Save(credential.Credential{Token: "t"}))
	assert.Equal(t, "t", store.Token())
	require.NoError(t, store.Clear())
	assert.Empty(t, store.Token())
}

func TestTokenExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		token    string
		expected bool
	}{
		{name: "Empty Token", token: "", expected: true},
		{name: "Not A JWT", token: "opaque-token", expected: true},
		{name: "Expired", token: signed(t, jwtlib.MapClaims{"exp": now.Add(-time.Minute).Unix()}), expected: true},
		{name: "Valid", token: signed(t, jwtlib.MapClaims{"exp": now.Add(time.Hour).Unix()}), expected: false},
		{name: "No Expiry Claim", token: signed(t, jwtlib.MapClaims{"sub": "alice"}), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, credential.TokenExpired(tt.token, now))
		})
	}

	store := credential.NewStore("")
	assert.True(t, store.IsTokenExpired(now))
}
