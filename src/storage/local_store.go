package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var extByContentType = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// LocalStore keeps screenshot objects on the local filesystem under a
// base directory and issues HMAC-signed, expiring display URLs served
// by the /files route. Signed URLs are reused through a short-lived
// cache so a month fetch does not re-sign the same key repeatedly.
type LocalStore struct {
	dir        string
	baseURL    string
	signingKey []byte
	urlTTL     time.Duration
	urlCache   *cache.Cache
}

// NewLocalStore creates the store rooted at dir. baseURL is the public
// origin the /files route is reachable on.
func NewLocalStore(dir, baseURL string, signingKey []byte, urlTTL time.Duration) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, "screenshots"), 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	// Cached URLs must expire before their signature does.
	return &LocalStore{
		dir:        dir,
		baseURL:    strings.TrimRight(baseURL, "/"),
		signingKey: signingKey,
		urlTTL:     urlTTL,
		urlCache:   cache.New(urlTTL/2, urlTTL),
	}, nil
}

// Put stores the object under a fresh uuid key and returns the key.
func (s *LocalStore) Put(r io.Reader, contentType string) (string, error) {
	ext, ok := extByContentType[strings.ToLower(contentType)]
	if !ok {
		ext = ".bin"
	}
	key := "screenshots/" + uuid.New().String() + ext

	path, err := s.objectPath(key)
	if err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing object: %w", err)
	}
	return key, nil
}

// DisplayURL resolves a key into a signed URL valid for the configured
// TTL. It fails when the key does not point at a stored object.
func (s *LocalStore) DisplayURL(key string) (string, error) {
	if cached, found := s.urlCache.Get(key); found {
		return cached.(string), nil
	}

	path, err := s.objectPath(key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return "", err
	}

	exp := time.Now().Add(s.urlTTL).Unix()
	url := fmt.Sprintf("%s/files/%s?exp=%d&sig=%s", s.baseURL, key, exp, s.sign(key, exp))
	s.urlCache.Set(key, url, cache.DefaultExpiration)
	return url, nil
}

// Remove deletes the stored object. A missing object is not an error.
func (s *LocalStore) Remove(key string) error {
	path, err := s.objectPath(key)
	if err != nil {
		return err
	}
	s.urlCache.Delete(key)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Open returns the object bytes for serving.
func (s *LocalStore) Open(key string) (io.ReadSeekCloser, error) {
	path, err := s.objectPath(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, err
	}
	return f, nil
}

// VerifyURL checks the exp/sig query values produced by DisplayURL.
func (s *LocalStore) VerifyURL(key, expStr, sig string) bool {
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil || time.Now().Unix() > exp {
		return false
	}
	return hmac.Equal([]byte(s.sign(key, exp)), []byte(sig))
}

func (s *LocalStore) sign(key string, exp int64) string {
	mac := hmac.New(sha256.New, s.signingKey)
	fmt.Fprintf(mac, "%s:%d", key, exp)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *LocalStore) objectPath(key string) (string, error) {
	clean := filepath.ToSlash(filepath.Clean("/" + key))
	if strings.Contains(key, "..") || clean != "/"+key {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.dir, filepath.FromSlash(key)), nil
}
