package storage

import (
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(t.TempDir(), "http://localhost:8080", []byte("test-signing-key"), time.Hour)
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	return s
}

func TestPutAndOpenRoundTrip(t *testing.T) {
	s := newTestStore(t)

	key, err := s.Put(strings.NewReader("fake png bytes"), "image/png")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !strings.HasPrefix(key, "screenshots/") || !strings.HasSuffix(key, ".png") {
		t.Errorf("unexpected key %q", key)
	}

	f, err := s.Open(key)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("reading object: %v", err)
	}
	if string(data) != "fake png bytes" {
		t.Errorf("round trip mismatch: %q", data)
	}
}

func TestDisplayURLSignsAndVerifies(t *testing.T) {
	s := newTestStore(t)

	key, err := s.Put(strings.NewReader("x"), "image/jpeg")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	signed, err := s.DisplayURL(key)
	if err != nil {
		t.Fatalf("DisplayURL failed: %v", err)
	}
	u, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("parsing signed URL %q: %v", signed, err)
	}
	if u.Path != "/files/"+key {
		t.Errorf("path = %q, want /files/%s", u.Path, key)
	}

	exp := u.Query().Get("exp")
	sig := u.Query().Get("sig")
	if !s.VerifyURL(key, exp, sig) {
		t.Error("freshly signed URL does not verify")
	}
	if s.VerifyURL(key, exp, sig+"00") {
		t.Error("tampered signature verified")
	}
	if s.VerifyURL("screenshots/other.png", exp, sig) {
		t.Error("signature verified for a different key")
	}
	if s.VerifyURL(key, "0", sig) {
		t.Error("expired URL verified")
	}
}

func TestDisplayURLMissingObject(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.DisplayURL("screenshots/nope.png"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("got %v, want ErrObjectNotFound", err)
	}
}

func TestDisplayURLReused(t *testing.T) {
	s := newTestStore(t)

	key, err := s.Put(strings.NewReader("x"), "image/png")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	first, err := s.DisplayURL(key)
	if err != nil {
		t.Fatalf("DisplayURL failed: %v", err)
	}
	second, err := s.DisplayURL(key)
	if err != nil {
		t.Fatalf("DisplayURL failed: %v", err)
	}
	if first != second {
		t.Errorf("back-to-back URLs differ:\n%s\n%s", first, second)
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)

	key, err := s.Put(strings.NewReader("x"), "image/png")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Remove(key); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := s.Open(key); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("removed object still opens: %v", err)
	}
	// Removing again is not an error.
	if err := s.Remove(key); err != nil {
		t.Errorf("second Remove failed: %v", err)
	}
}

func TestObjectKeyTraversalRejected(t *testing.T) {
	s := newTestStore(t)

	for _, key := range []string{
		"../etc/passwd",
		"screenshots/../../secret",
		"screenshots/..",
		"/etc/passwd",
	} {
		if _, err := s.Open(key); err == nil {
			t.Errorf("key %q accepted", key)
		}
		if _, err := s.DisplayURL(key); err == nil {
			t.Errorf("key %q signed", key)
		}
	}
}
