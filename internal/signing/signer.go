package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"time"
)

// clockSkew is the tolerance for payloads whose timestamp is slightly in
// the future relative to this server's clock.
const clockSkew = 5 * time.Minute

var (
	// ErrNoSecret means no signing secret is configured. Minting fails
	// closed; verification treats every payload as untrusted.
	ErrNoSecret = errors.New("signing secret not configured")

	// ErrMissingSignature means the payload carried no signature.
	ErrMissingSignature = errors.New("payload is not signed")

	// ErrBadSignature means the signature did not verify.
	ErrBadSignature = errors.New("signature mismatch")

	// ErrExpired means the payload is outside its validity window.
	ErrExpired = errors.New("signed link has expired")
)

// Signer signs and verifies one-tap link payloads with HMAC-SHA256.
type Signer struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// New creates a signer. An empty secret disables signing: Sign returns
// ErrNoSecret and Verify rejects everything.
func New(secret string, maxAge time.Duration) *Signer {
	var key []byte
	if secret != "" {
		key = []byte(secret)
	}
	return &Signer{secret: key, maxAge: maxAge, now: time.Now}
}

// Enabled returns true if a signing secret is configured.
func (s *Signer) Enabled() bool {
	return len(s.secret) > 0
}

// Sign computes the base64url HMAC-SHA256 signature over the payload's
// canonical string.
func (s *Signer) Sign(p Payload) (string, error) {
	if !s.Enabled() {
		return "", ErrNoSecret
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(p.Canonical()))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Verify checks the signature against the payload and enforces the
// validity window. A nil error means the payload may be treated as
// pre-confirmed input; every other outcome must degrade to the
// interactive form.
func (s *Signer) Verify(p Payload, sig string) error {
	if !s.Enabled() {
		return ErrNoSecret
	}
	if sig == "" {
		return ErrMissingSignature
	}

	provided, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return ErrBadSignature
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(p.Canonical()))
	if !hmac.Equal(provided, mac.Sum(nil)) {
		return ErrBadSignature
	}

	now := s.now()
	if s.maxAge > 0 && now.Sub(p.IssuedAt) > s.maxAge {
		return ErrExpired
	}
	if p.IssuedAt.Sub(now) > clockSkew {
		return ErrExpired
	}

	return nil
}
