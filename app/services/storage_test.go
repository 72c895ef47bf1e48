package services

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSignedURL(t *testing.T, raw string) (expires, signature string) {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query().Get("expires"), u.Query().Get("signature")
}

func TestSignedURLRoundTrip(t *testing.T) {
	ls := NewLocalStorage(t.TempDir(), "test-secret")

	raw := ls.URL("documents/abc/file.pdf", time.Minute)
	assert.Contains(t, raw, "/files/documents/abc/file.pdf?")

	expires, signature := parseSignedURL(t, raw)
	assert.True(t, ls.Verify("documents/abc/file.pdf", expires, signature))
}

func TestSignedURLTamperedPath(t *testing.T) {
	ls := NewLocalStorage(t.TempDir(), "test-secret")

	expires, signature := parseSignedURL(t, ls.URL("documents/abc/file.pdf", time.Minute))
	assert.False(t, ls.Verify("documents/xyz/other.pdf", expires, signature))
}

func TestSignedURLExpired(t *testing.T) {
	ls := NewLocalStorage(t.TempDir(), "test-secret")

	expires, signature := parseSignedURL(t, ls.URL("documents/abc/file.pdf", -time.Minute))
	assert.False(t, ls.Verify("documents/abc/file.pdf", expires, signature))
}

func TestSignedURLWrongSecret(t *testing.T) {
	ls := NewLocalStorage(t.TempDir(), "test-secret")
	other := NewLocalStorage(t.TempDir(), "another-secret")

	expires, signature := parseSignedURL(t, ls.URL("documents/abc/file.pdf", time.Minute))
	assert.False(t, other.Verify("documents/abc/file.pdf", expires, signature))
}

func TestVerifyRejectsGarbageExpiry(t *testing.T) {
	ls := NewLocalStorage(t.TempDir(), "test-secret")
	assert.False(t, ls.Verify("documents/abc/file.pdf", "not-a-number", "sig"))
}
