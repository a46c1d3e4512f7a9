package email

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lucifer-kj/review-app-sub002/internal/config"
	"github.com/lucifer-kj/review-app-sub002/internal/signing"
	"github.com/lucifer-kj/review-app-sub002/internal/throttle"
)

type fakeStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (f *fakeStorage) Get(key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[key], nil
}

func (f *fakeStorage) Set(key string, val []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.data == nil {
		f.data = map[string][]byte{}
	}
	f.data[key] = val
	return nil
}

func testNotifier(cfg *config.Config, limit int) *Notifier {
	signer := signing.New(cfg.ReviewLinkSecret, cfg.ReviewLinkMaxAge)
	limiter := throttle.New(&fakeStorage{}, limit, time.Hour, "review-requests")
	return NewNotifier(cfg, signer, limiter)
}

func TestBuildOneTapLinks_Signed(t *testing.T) {
	cfg := &config.Config{
		BaseURL:          "https://reviews.example.com",
		ReviewLinkSecret: "test-secret",
		ReviewLinkMaxAge: 7 * 24 * time.Hour,
	}
	n := testNotifier(cfg, 10)

	issued := time.Now().Truncate(time.Second)
	customer := Customer{Name: "Jane", Phone: "5551234567", CountryCode: "+1"}

	links, err := n.BuildOneTapLinks(testTenant(), customer, "track-1", issued)
	if err != nil {
		t.Fatalf("BuildOneTapLinks() error = %v", err)
	}

	verifier := signing.New("test-secret", 7*24*time.Hour)

	for i, link := range links {
		if !strings.HasPrefix(link, "https://reviews.example.com/r/acme-cafe?") {
			t.Errorf("link %d has wrong prefix: %s", i+1, link)
		}

		u, err := url.Parse(link)
		if err != nil {
			t.Fatalf("link %d unparseable: %v", i+1, err)
		}
		q := u.Query()

		if got := q.Get(signing.ParamRating); got != strconv.Itoa(i+1) {
			t.Errorf("link %d rating = %q, want %d", i+1, got, i+1)
		}
		if q.Get(signing.ParamTrackingID) != "track-1" {
			t.Errorf("link %d trackingId = %q", i+1, q.Get(signing.ParamTrackingID))
		}

		payload, err := signing.ParsePayload(q.Get)
		if err != nil {
			t.Fatalf("link %d payload parse error = %v", i+1, err)
		}
		if err := verifier.Verify(payload, q.Get(signing.ParamSignature)); err != nil {
			t.Errorf("link %d signature does not verify: %v", i+1, err)
		}
	}
}

func TestBuildOneTapLinks_NoSecretFailsClosed(t *testing.T) {
	cfg := &config.Config{
		BaseURL: "https://reviews.example.com",
	}
	n := testNotifier(cfg, 10)

	_, err := n.BuildOneTapLinks(testTenant(), Customer{}, "track-1", time.Now())
	if !errors.Is(err, ErrSigningDisabled) {
		t.Errorf("BuildOneTapLinks() error = %v, want ErrSigningDisabled", err)
	}
}

func TestBuildOneTapLinks_AdvisoryModeOmitsSignature(t *testing.T) {
	cfg := &config.Config{
		BaseURL:            "https://reviews.example.com",
		AllowUnsignedLinks: true,
	}
	n := testNotifier(cfg, 10)

	links, err := n.BuildOneTapLinks(testTenant(), Customer{Name: "Jane"}, "track-1", time.Now())
	if err != nil {
		t.Fatalf("BuildOneTapLinks() error = %v", err)
	}

	for i, link := range links {
		u, err := url.Parse(link)
		if err != nil {
			t.Fatalf("link %d unparseable: %v", i+1, err)
		}
		if u.Query().Has(signing.ParamSignature) {
			t.Errorf("link %d carries a signature in advisory mode", i+1)
		}
	}
}

func TestSendReviewRequest_Throttled(t *testing.T) {
	cfg := &config.Config{
		BaseURL:          "https://reviews.example.com",
		ReviewLinkSecret: "test-secret",
	}
	n := testNotifier(cfg, 2)

	customer := Customer{Name: "Jane", Email: "jane@example.com"}

	for i := 0; i < 2; i++ {
		if _, err := n.SendReviewRequest(testTenant(), customer); err != nil {
			t.Fatalf("SendReviewRequest() call %d error = %v", i+1, err)
		}
	}

	if _, err := n.SendReviewRequest(testTenant(), customer); !errors.Is(err, ErrThrottled) {
		t.Errorf("SendReviewRequest() over limit error = %v, want ErrThrottled", err)
	}
}

func TestSendReviewRequest_ReturnsTrackingID(t *testing.T) {
	cfg := &config.Config{
		BaseURL:          "https://reviews.example.com",
		ReviewLinkSecret: "test-secret",
	}
	n := testNotifier(cfg, 10)

	first, err := n.SendReviewRequest(testTenant(), Customer{Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("SendReviewRequest() error = %v", err)
	}
	if first == "" {
		t.Fatal("SendReviewRequest() returned empty tracking id")
	}

	second, err := n.SendReviewRequest(testTenant(), Customer{Email: "sam@example.com"})
	if err != nil {
		t.Fatalf("SendReviewRequest() error = %v", err)
	}
	if first == second {
		t.Error("SendReviewRequest() reused a tracking id")
	}
}
