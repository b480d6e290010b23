package jwtauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_IssueAndVerify(t *testing.T) {
	tk, err := New(Config{Secret: "s3cret"})
	require.NoError(t, err)

	tok, exp, err := tk.Issue("u1", "ana@petlar.dev")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultTTL), exp, 5*time.Second)

	c, err := tk.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, "ana@petlar.dev", c.Email)
}

func TestTokens_RejectsOtherSecretAndExpired(t *testing.T) {
	a, err := New(Config{Secret: "a"})
	require.NoError(t, err)
	b, err := New(Config{Secret: "b"})
	require.NoError(t, err)

	tok, _, err := a.Issue("u1", "")
	require.NoError(t, err)

	_, err = b.Verify(context.Background(), tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	a.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, err = a.Verify(context.Background(), tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_Config(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	tk, err := New(Config{Secret: "x"})
	require.NoError(t, err)
	_, err = tk.Verify(context.Background(), " ")
	assert.ErrorIs(t, err, ErrTokenEmpty)

	_, _, err = tk.Issue("", "")
	assert.Error(t, err)
}
