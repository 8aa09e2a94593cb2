package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrEmptySecret = errors.New("auth secret must not be empty")

// Reason tells why a token was rejected. Callers log it; users only ever
// see the generic unauthorized message.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonMissing
	ReasonMalformed
	ReasonBadSignature
	ReasonExpired
	ReasonNoSubject
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "ok"
	case ReasonMissing:
		return "missing"
	case ReasonMalformed:
		return "malformed"
	case ReasonBadSignature:
		return "bad_signature"
	case ReasonExpired:
		return "expired"
	case ReasonNoSubject:
		return "no_subject"
	default:
		return "unknown"
	}
}

type Claims struct {
	Subject   string `json:"sub"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

type Result struct {
	Claims Claims
	Reason Reason
}

func (r Result) Valid() bool {
	return r.Reason == ReasonNone
}

// Signer issues and decodes tokens of the form
// base64url(claims).base64url(hmac-sha256(claims)).
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret string, ttl time.Duration) (*Signer, error) {
	return NewSignerWithClock(secret, ttl, time.Now)
}

func NewSignerWithClock(secret string, ttl time.Duration, now func() time.Time) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: now}, nil
}

func (s *Signer) Issue(username string) (string, error) {
	return s.IssueWithTTL(username, s.ttl)
}

func (s *Signer) IssueWithTTL(username string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", errors.New("username is required")
	}

	now := s.now()
	payload, err := json.Marshal(Claims{
		Subject:   username,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode claims: %w", err)
	}

	body := base64.RawURLEncoding.EncodeToString(payload)
	return body + "." + s.sign(body), nil
}

func (s *Signer) Decode(token string) Result {
	token = strings.TrimSpace(token)
	if token == "" {
		return Result{Reason: ReasonMissing}
	}

	body, sig, ok := strings.Cut(token, ".")
	if !ok || body == "" || sig == "" || strings.Contains(sig, ".") {
		return Result{Reason: ReasonMalformed}
	}

	if !hmac.Equal([]byte(sig), []byte(s.sign(body))) {
		return Result{Reason: ReasonBadSignature}
	}

	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return Result{Reason: ReasonMalformed}
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Result{Reason: ReasonMalformed}
	}

	if !s.now().Before(time.Unix(claims.ExpiresAt, 0)) {
		return Result{Claims: claims, Reason: ReasonExpired}
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Result{Claims: claims, Reason: ReasonNoSubject}
	}

	return Result{Claims: claims}
}

func (s *Signer) sign(body string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
