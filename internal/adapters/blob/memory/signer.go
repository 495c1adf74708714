// Package memory implements an in-memory attachment signer for tests and
// local development.
package memory

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/SscSPs/sismog_console/internal/apperrors"
	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
)

// Signer hands out URLs under baseURL for the keys it was told about.
type Signer struct {
	mu      sync.RWMutex
	baseURL string
	keys    map[string]struct{}
	now     func() time.Time
}

var _ portsrepo.AttachmentSigner = (*Signer)(nil)

// New returns a Signer producing URLs under baseURL.
func New(baseURL string) *Signer {
	return &Signer{baseURL: baseURL, keys: make(map[string]struct{}), now: time.Now}
}

// Put registers key as an existing object.
func (s *Signer) Put(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = struct{}{}
}

func (s *Signer) SignedURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	s.mu.RLock()
	_, ok := s.keys[key]
	s.mu.RUnlock()
	if !ok {
		return "", apperrors.NewAppError(http.StatusNotFound, fmt.Sprintf("Object not found: %s", key), apperrors.ErrNotFound)
	}
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(s.now().Add(expiry).Unix(), 10))
	return s.baseURL + "/" + url.PathEscape(key) + "?" + q.Encode(), nil
}
