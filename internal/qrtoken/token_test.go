package qrtoken

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-redemption-secret"

func newTestAuthority(t *testing.T) *Authority {
	t.Helper()
	return NewAuthority(testSecret, 0, 0)
}

// generateAt produces an encoded token whose timestamp is offset from
// the authority's current clock, for exercising freshness boundaries.
func generateAt(t *testing.T, a *Authority, offset time.Duration) string {
	t.Helper()

	saved := a.now
	a.now = func() time.Time { return saved().Add(offset) }
	encoded, err := a.Generate("d1", "ABC123", "u1", "r1")
	a.now = saved
	require.NoError(t, err)
	return encoded
}

func TestGenerateVerifyRoundTrip(t *testing.T) {
	a := newTestAuthority(t)

	encoded, err := a.Generate("d1", "ABC123", "u1", "r1")
	require.NoError(t, err)

	token, err := a.Verify(encoded)
	require.NoError(t, err)
	assert.Equal(t, "d1", token.RedemptionID)
	assert.Equal(t, "ABC123", token.RedemptionCode)
	assert.Equal(t, "u1", token.UserID)
	assert.Equal(t, "r1", token.RewardID)
	assert.Equal(t, Version, token.Version)

	// Verification does not consume the token; the same bytes verify
	// again. Single-use is the redemption record's job.
	again, err := a.Verify(encoded)
	require.NoError(t, err)
	assert.Equal(t, token, again)
}

func TestGenerateRejectsEmptyFields(t *testing.T) {
	a := newTestAuthority(t)
	_, err := a.Generate("", "ABC123", "u1", "r1")
	require.Error(t, err)
	_, err = a.Generate("d1", "ABC123", "u1", "")
	require.Error(t, err)
}

func TestVerifyMalformed(t *testing.T) {
	a := newTestAuthority(t)

	for _, input := range []string{
		"",
		"not base64 at all!!",
		base64.RawURLEncoding.EncodeToString([]byte("not json")),
	} {
		_, err := a.Verify(input)
		assert.ErrorIs(t, err, ErrMalformedFormat, "input %q", input)
	}
}

func TestVerifyMissingFields(t *testing.T) {
	a := newTestAuthority(t)

	token := Token{
		RedemptionID:   "d1",
		RedemptionCode: "ABC123",
		UserID:         "u1",
		RewardID:       "r1",
		Timestamp:      time.Now().UnixMilli(),
		Signature:      "deadbeef",
		Version:        Version,
	}

	mutations := []func(*Token){
		func(t *Token) { t.RedemptionID = "" },
		func(t *Token) { t.RedemptionCode = "" },
		func(t *Token) { t.UserID = "" },
		func(t *Token) { t.RewardID = "" },
		func(t *Token) { t.Timestamp = 0 },
		func(t *Token) { t.Signature = "" },
		func(t *Token) { t.Version = "" },
	}
	for i, mutate := range mutations {
		broken := token
		mutate(&broken)
		_, err := a.Verify(encodeToken(t, &broken))
		assert.ErrorIs(t, err, ErrMissingFields, "mutation %d", i)
	}
}

func TestVerifyUnsupportedVersion(t *testing.T) {
	a := newTestAuthority(t)

	encoded, err := a.Generate("d1", "ABC123", "u1", "r1")
	require.NoError(t, err)
	token := decodeToken(t, encoded)
	token.Version = "2.0"

	_, err = a.Verify(encodeToken(t, token))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestVerifyExpiryBoundary(t *testing.T) {
	a := newTestAuthority(t)

	_, err := a.Verify(generateAt(t, a, -301*time.Second))
	assert.ErrorIs(t, err, ErrExpired)

	_, err = a.Verify(generateAt(t, a, -299*time.Second))
	assert.NoError(t, err)
}

func TestVerifyClockSkew(t *testing.T) {
	a := newTestAuthority(t)

	_, err := a.Verify(generateAt(t, a, 10*time.Second))
	assert.ErrorIs(t, err, ErrClockSkew)
}

func TestVerifyTamperedSignature(t *testing.T) {
	a := newTestAuthority(t)

	encoded, err := a.Generate("d1", "ABC123", "u1", "r1")
	require.NoError(t, err)
	token := decodeToken(t, encoded)

	flipped := []byte(token.Signature)
	if flipped[0] == 'a' {
		flipped[0] = 'b'
	} else {
		flipped[0] = 'a'
	}
	token.Signature = string(flipped)

	_, err = a.Verify(encodeToken(t, token))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyTamperedFields(t *testing.T) {
	a := newTestAuthority(t)

	encoded, err := a.Generate("d1", "ABC123", "u1", "r1")
	require.NoError(t, err)

	mutations := []func(*Token){
		func(t *Token) { t.RedemptionID = "d2" },
		func(t *Token) { t.RedemptionCode = "ABC124" },
		func(t *Token) { t.UserID = "u2" },
		func(t *Token) { t.RewardID = "r2" },
		func(t *Token) { t.Timestamp-- },
	}
	for i, mutate := range mutations {
		token := decodeToken(t, encoded)
		mutate(token)
		_, err := a.Verify(encodeToken(t, token))
		assert.ErrorIs(t, err, ErrInvalidSignature, "mutation %d", i)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	a := newTestAuthority(t)
	other := NewAuthority("some-other-secret", 0, 0)

	encoded, err := a.Generate("d1", "ABC123", "u1", "r1")
	require.NoError(t, err)

	_, err = other.Verify(encoded)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestNeedsRefresh(t *testing.T) {
	a := newTestAuthority(t)

	assert.False(t, a.NeedsRefresh(generateAt(t, a, -239*time.Second)))
	assert.True(t, a.NeedsRefresh(generateAt(t, a, -241*time.Second)))
	assert.True(t, a.NeedsRefresh("garbage"))
}

func encodeToken(t *testing.T, token *Token) string {
	t.Helper()
	raw, err := json.Marshal(token)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeToken(t *testing.T, encoded string) *Token {
	t.Helper()
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	require.NoError(t, err)
	var token Token
	require.NoError(t, json.Unmarshal(raw, &token))
	return &token
}
