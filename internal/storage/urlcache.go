// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package storage

import (
	"context"
	"sync"
	"time"

	"github.com/gozcan/ilkapp/internal/logger"
	"github.com/gozcan/ilkapp/models"
)

// refreshSkew is subtracted from an entry's expiry when deciding whether
// to reuse it, so a URL is never handed out right at the edge of the
// window the storage service will honour.
const refreshSkew = 30 * time.Second

type cachedURL struct {
	url       string
	expiresAt time.Time
}

// URLCache memoizes signed retrieval URLs per attachment id until near
// expiry. It is safe for concurrent use and intended to be shared
// process-wide across screens showing the same attachments; replacement is
// idempotent, last resolver wins.
type URLCache struct {
	store  ObjectStore
	ttl    time.Duration
	logger *logger.Logger

	now func() time.Time

	mu      sync.Mutex
	entries map[int64]cachedURL
}

// NewURLCache builds a cache over store. ttl must match the validity window
// the store issues, so cached URLs expire no later than the URLs
// themselves.
func NewURLCache(store ObjectStore, ttl time.Duration, logger *logger.Logger) *URLCache {
	return &URLCache{
		store:   store,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
		entries: make(map[int64]cachedURL),
	}
}

// Resolve returns a retrieval URL for att. A cached entry is reused as long
// as it is comfortably inside its validity window; otherwise the store is
// asked for a fresh URL and the entry is replaced.
func (c *URLCache) Resolve(ctx context.Context, att models.MediaAttachment) (string, error) {
	c.mu.Lock()
	if entry, ok := c.entries[att.ID]; ok && c.now().Before(entry.expiresAt.Add(-refreshSkew)) {
		c.mu.Unlock()
		return entry.url, nil
	}
	c.mu.Unlock()

	signed, err := c.store.Sign(ctx, att.StoragePath, c.ttl)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.entries[att.ID] = cachedURL{url: signed.URL, expiresAt: signed.ExpiresAt}
	c.mu.Unlock()

	return signed.URL, nil
}

// ResolveAll resolves every attachment concurrently and joins the results,
// instead of awaiting one sign call per row. The first error wins; partial
// results are still cached for later single resolutions.
func (c *URLCache) ResolveAll(ctx context.Context, atts []models.MediaAttachment) (map[int64]string, error) {
	urls := make(map[int64]string, len(atts))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for _, att := range atts {
		wg.Add(1)
		go func(att models.MediaAttachment) {
			defer wg.Done()

			url, err := c.Resolve(ctx, att)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			urls[att.ID] = url
		}(att)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return urls, nil
}

// Evict drops the cached URL for an attachment. Called when the attachment
// is deleted; expiry handles everything else.
func (c *URLCache) Evict(attachmentID int64) {
	c.mu.Lock()
	delete(c.entries, attachmentID)
	c.mu.Unlock()
}
