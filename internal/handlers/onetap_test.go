package handlers

import (
	"testing"
	"time"

	"github.com/lucifer-kj/review-app-sub002/internal/config"
	"github.com/lucifer-kj/review-app-sub002/internal/signing"
)

func testHandler(secret string, allowUnsigned bool) *OneTapHandler {
	cfg := &config.Config{AllowUnsignedLinks: allowUnsigned}
	signer := signing.New(secret, 7*24*time.Hour)
	return &OneTapHandler{cfg: cfg, signer: signer}
}

func TestTrustPayload_SignedAndValid(t *testing.T) {
	h := testHandler("test-secret", false)

	payload := signing.Payload{
		Name:       "Alice",
		Rating:     5,
		TrackingID: "track-1",
		IssuedAt:   time.Now(),
	}
	sig, err := h.signer.Sign(payload)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	trusted, result := h.trustPayload(payload, sig)
	if !trusted {
		t.Error("expected valid signature to be trusted")
	}
	if result != "verified" {
		t.Errorf("result = %q, want %q", result, "verified")
	}
}

func TestTrustPayload_TamperedRating(t *testing.T) {
	h := testHandler("test-secret", false)

	payload := signing.Payload{
		Name:       "Alice",
		Rating:     2,
		TrackingID: "track-1",
		IssuedAt:   time.Now(),
	}
	sig, err := h.signer.Sign(payload)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	// Bump the rating after signing
	payload.Rating = 5

	trusted, result := h.trustPayload(payload, sig)
	if trusted {
		t.Error("expected tampered payload to be rejected")
	}
	if result != "rejected" {
		t.Errorf("result = %q, want %q", result, "rejected")
	}
}

func TestTrustPayload_UnsignedIsNeverTrusted(t *testing.T) {
	// Without a signing secret every payload is advisory prefill, even
	// when unsigned links were minted on purpose. A forged URL with an
	// old timestamp must not reach auto-submission.
	for _, allowUnsigned := range []bool{false, true} {
		h := testHandler("", allowUnsigned)

		payload := signing.Payload{
			Name:       "Mallory",
			Rating:     5,
			TrackingID: "forged-tracking-id",
			IssuedAt:   time.Now().Add(-365 * 24 * time.Hour),
		}

		trusted, result := h.trustPayload(payload, "")
		if trusted {
			t.Errorf("allowUnsigned=%v: expected unsigned payload to stay advisory", allowUnsigned)
		}
		if result != "advisory" {
			t.Errorf("allowUnsigned=%v: result = %q, want %q", allowUnsigned, result, "advisory")
		}
	}
}

func TestTrustPayload_SecretSetRejectsUnsigned(t *testing.T) {
	h := testHandler("test-secret", true)

	payload := signing.Payload{Rating: 5, IssuedAt: time.Now()}
	trusted, result := h.trustPayload(payload, "")
	if trusted {
		t.Error("expected unsigned payload to be rejected when a secret is configured")
	}
	if result != "rejected" {
		t.Errorf("result = %q, want %q", result, "rejected")
	}
}

func TestTrustPayload_ExpiredSignature(t *testing.T) {
	h := testHandler("test-secret", false)

	payload := signing.Payload{
		Name:       "Alice",
		Rating:     5,
		TrackingID: "track-1",
		IssuedAt:   time.Now().Add(-30 * 24 * time.Hour),
	}
	sig, err := h.signer.Sign(payload)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	trusted, _ := h.trustPayload(payload, sig)
	if trusted {
		t.Error("expected expired payload to be rejected")
	}
}
