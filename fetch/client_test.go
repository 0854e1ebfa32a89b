package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/inkleaf/pageturn/errs"
)

// fastClient returns a client with millisecond backoff so retry tests
// stay quick.
func fastClient(token string, signer Signer) *Client {
	return NewClient(token, signer, 5*time.Second, 3, time.Millisecond, 4*time.Millisecond)
}

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		w.Write([]byte("document bytes"))
	}))
	defer srv.Close()

	c := fastClient("secret", nil)
	data, err := c.Fetch(context.Background(), srv.URL+"/doc.epub")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != "document bytes" {
		t.Errorf("data = %q", data)
	}
}

func TestFetchRetriesTransient(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := fastClient("", nil)
	data, err := c.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != "ok" {
		t.Errorf("data = %q", data)
	}
	if calls != 3 {
		t.Errorf("server saw %d requests, want 3", calls)
	}
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := fastClient("", nil)
	_, err := c.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Fetch succeeded on 403")
	}
	if calls != 1 {
		t.Errorf("server saw %d requests, want 1 (no retry on 4xx)", calls)
	}

	if errs.KindOf(err) != errs.KindNetwork {
		t.Errorf("KindOf = %v, want KindNetwork", errs.KindOf(err))
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error %v does not wrap HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", httpErr.StatusCode)
	}
	if httpErr.RequestID == "" {
		t.Error("HTTPError missing request ID")
	}
}

func TestFetchExhaustsRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := fastClient("", nil)
	_, err := c.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Fetch succeeded while server kept returning 429")
	}
	if calls != 3 {
		t.Errorf("server saw %d requests, want 3", calls)
	}
}

func TestFetchContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := fastClient("", nil)
	_, err := c.Fetch(ctx, srv.URL)
	if err == nil {
		t.Fatal("Fetch succeeded with canceled context")
	}
	if errs.KindOf(err) != errs.KindNetwork {
		t.Errorf("KindOf = %v, want KindNetwork", errs.KindOf(err))
	}
}

type stubSigner struct {
	url  string
	err  error
	seen string
}

func (s *stubSigner) SignedURL(ctx context.Context, storagePath string) (string, error) {
	s.seen = storagePath
	return s.url, s.err
}

func TestResolveStoragePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("signed content"))
	}))
	defer srv.Close()

	signer := &stubSigner{url: srv.URL + "/signed"}
	c := fastClient("", signer)

	data, err := c.Fetch(context.Background(), "tenant-1/docs/book.epub")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != "signed content" {
		t.Errorf("data = %q", data)
	}
	if signer.seen != "tenant-1/docs/book.epub" {
		t.Errorf("signer saw %q", signer.seen)
	}
}

func TestResolveAbsolutePassthrough(t *testing.T) {
	c := fastClient("", &stubSigner{url: "http://unused"})
	got, err := c.Resolve(context.Background(), "https://cdn.example.com/a.docx")
	if err != nil {
		t.Fatal(err)
	}
	if got != "https://cdn.example.com/a.docx" {
		t.Errorf("Resolve = %q", got)
	}
}

func TestResolveNoSigner(t *testing.T) {
	c := fastClient("", nil)
	_, err := c.Resolve(context.Background(), "tenant-1/docs/book.epub")
	if err == nil {
		t.Fatal("Resolve succeeded without a signer")
	}
	if errs.KindOf(err) != errs.KindNetwork {
		t.Errorf("KindOf = %v, want KindNetwork", errs.KindOf(err))
	}
}

func TestSignerFailure(t *testing.T) {
	signer := &stubSigner{err: errors.New("signing endpoint down")}
	c := fastClient("", signer)

	_, err := c.Fetch(context.Background(), "docs/a.pptx")
	if err == nil {
		t.Fatal("Fetch succeeded with failing signer")
	}
	if errs.KindOf(err) != errs.KindNetwork {
		t.Errorf("KindOf = %v, want KindNetwork", errs.KindOf(err))
	}
}

func TestHTTPSigner(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("path"); got != "docs/b.xlsx" {
			t.Errorf("path = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"url":"https://cdn.example.com/signed/b.xlsx?sig=abc"}`))
	}))
	defer srv.Close()

	s := NewHTTPSigner(srv.URL, "tok", time.Second)
	got, err := s.SignedURL(context.Background(), "docs/b.xlsx")
	if err != nil {
		t.Fatalf("SignedURL failed: %v", err)
	}
	if got != "https://cdn.example.com/signed/b.xlsx?sig=abc" {
		t.Errorf("SignedURL = %q", got)
	}
}

func TestHTTPSignerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewHTTPSigner(srv.URL, "", time.Second)
	if _, err := s.SignedURL(context.Background(), "x"); err == nil {
		t.Fatal("SignedURL succeeded on 401")
	}
}

func TestIsAbsoluteURL(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"https://example.com/a.epub", true},
		{"http://localhost:8080/a", true},
		{"ftp://example.com/a", false},
		{"tenant/docs/a.epub", false},
		{"/var/data/a.epub", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isAbsoluteURL(tt.ref); got != tt.want {
			t.Errorf("isAbsoluteURL(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}
