package qrtoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Version is the only token format currently accepted.
const Version = "1.0"

// Default timing windows. A token older than the validity window is
// rejected; one older than the refresh threshold should be regenerated
// by the client before it expires.
const (
	DefaultValidityWindow   = 5 * time.Minute
	DefaultRefreshThreshold = 4 * time.Minute
)

// Verification failure kinds. Each is surfaced distinctly so handlers
// can give the holder the right guidance (regenerate vs tampered).
var (
	ErrMalformedFormat    = errors.New("qrtoken: token not parseable")
	ErrMissingFields      = errors.New("qrtoken: token missing required fields")
	ErrUnsupportedVersion = errors.New("qrtoken: unsupported token version")
	ErrExpired            = errors.New("qrtoken: token expired")
	ErrClockSkew          = errors.New("qrtoken: token timestamp in the future")
	ErrInvalidSignature   = errors.New("qrtoken: signature mismatch")
)

// Token binds a redemption claim to a user and reward at a point in
// time. It is never persisted; validity is a function of its own fields,
// the shared secret, and the clock.
type Token struct {
	RedemptionID   string `json:"redemptionId"`
	RedemptionCode string `json:"redemptionCode"`
	UserID         string `json:"userId"`
	RewardID       string `json:"rewardId"`
	Timestamp      int64  `json:"timestamp"`
	Signature      string `json:"signature"`
	Version        string `json:"version"`
}

// Age returns how long ago the token was generated. Negative means the
// timestamp claims a future moment.
func (t *Token) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(t.Timestamp))
}

// Authority generates and verifies redemption tokens. It holds no
// mutable state and is safe for unbounded concurrent use.
type Authority struct {
	secret   []byte
	validity time.Duration
	refresh  time.Duration
	now      func() time.Time
}

// NewAuthority builds an Authority around the shared secret.
// Non-positive windows fall back to the defaults.
func NewAuthority(secret string, validity, refresh time.Duration) *Authority {
	if validity <= 0 {
		validity = DefaultValidityWindow
	}
	if refresh <= 0 {
		refresh = DefaultRefreshThreshold
	}
	return &Authority{
		secret:   []byte(secret),
		validity: validity,
		refresh:  refresh,
		now:      time.Now,
	}
}

// Generate signs a fresh token for the given redemption and returns its
// encoded form, suitable for rendering as a QR payload.
func (a *Authority) Generate(redemptionID, redemptionCode, userID, rewardID string) (string, error) {
	if redemptionID == "" || redemptionCode == "" || userID == "" || rewardID == "" {
		return "", errors.New("qrtoken: all token fields are required")
	}

	token := Token{
		RedemptionID:   redemptionID,
		RedemptionCode: redemptionCode,
		UserID:         userID,
		RewardID:       rewardID,
		Timestamp:      a.now().UnixMilli(),
		Version:        Version,
	}
	token.Signature = a.sign(&token)

	raw, err := json.Marshal(token)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Verify checks an encoded token and returns its parsed fields as
// trusted data. Checks run in a fixed order; the first failure wins and
// is reported as one of the Err* kinds above. The signature is always
// recomputed from the carried fields, never trusted as transmitted.
func (a *Authority) Verify(encoded string) (*Token, error) {
	token, err := decode(encoded)
	if err != nil {
		return nil, ErrMalformedFormat
	}

	if token.RedemptionID == "" || token.RedemptionCode == "" ||
		token.UserID == "" || token.RewardID == "" ||
		token.Timestamp == 0 || token.Signature == "" || token.Version == "" {
		return nil, ErrMissingFields
	}

	if token.Version != Version {
		return nil, ErrUnsupportedVersion
	}

	age := token.Age(a.now())
	if age > a.validity {
		return nil, ErrExpired
	}
	if age < 0 {
		return nil, ErrClockSkew
	}

	expected := a.sign(token)
	if !hmac.Equal([]byte(expected), []byte(token.Signature)) {
		return nil, ErrInvalidSignature
	}

	return token, nil
}

// NeedsRefresh reports whether the client should regenerate its token.
// Unparseable input counts as stale. This is a UX probe only; Verify is
// the security gate.
func (a *Authority) NeedsRefresh(encoded string) bool {
	token, err := decode(encoded)
	if err != nil {
		return true
	}
	return token.Age(a.now()) > a.refresh
}

func (a *Authority) sign(t *Token) string {
	canonical := strings.Join([]string{
		t.RedemptionID,
		t.RedemptionCode,
		t.UserID,
		t.RewardID,
		strconv.FormatInt(t.Timestamp, 10),
		t.Version,
	}, "|")

	mac := hmac.New(sha256.New, a.secret)
	_, _ = mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

func decode(encoded string) (*Token, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	var token Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, err
	}
	return &token, nil
}
