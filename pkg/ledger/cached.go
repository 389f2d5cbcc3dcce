/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/bluele/gcache"
	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-vcx-go/pkg/doc/did"
)

var logger = log.New("aries-vcx/ledger")

const defaultCacheSize = 100

// CachedReader caches immutable ledger reads. Registry deltas change with every
// revocation and are always read through.
type CachedReader struct {
	reader Reader
	cache  gcache.Cache
}

// NewCachedReader wraps r in an LRU cache of size entries that expire after ttl. A zero ttl
// keeps entries until evicted.
func NewCachedReader(r Reader, size int, ttl time.Duration) *CachedReader {
	if size <= 0 {
		size = defaultCacheSize
	}

	b := gcache.New(size).LRU()
	if ttl > 0 {
		b = b.Expiration(ttl)
	}

	return &CachedReader{reader: r, cache: b.Build()}
}

// GetSchema implements Reader.
func (c *CachedReader) GetSchema(ctx context.Context, schemaID string) (string, error) {
	return cachedString(c, "schema:"+schemaID, func() (string, error) {
		return c.reader.GetSchema(ctx, schemaID)
	})
}

// GetCredDef implements Reader.
func (c *CachedReader) GetCredDef(ctx context.Context, credDefID string) (string, error) {
	return cachedString(c, "creddef:"+credDefID, func() (string, error) {
		return c.reader.GetCredDef(ctx, credDefID)
	})
}

// GetRevRegDef implements Reader.
func (c *CachedReader) GetRevRegDef(ctx context.Context, revRegID string) (string, error) {
	return cachedString(c, "revregdef:"+revRegID, func() (string, error) {
		return c.reader.GetRevRegDef(ctx, revRegID)
	})
}

// GetRevRegDelta implements Reader without caching.
func (c *CachedReader) GetRevRegDelta(ctx context.Context, revRegID string, from, to *uint64) (string, uint64, error) {
	return c.reader.GetRevRegDelta(ctx, revRegID, from, to)
}

// GetService implements Reader.
func (c *CachedReader) GetService(ctx context.Context, pubDID string) (*did.AriesService, error) {
	key := "service:" + pubDID

	if v, err := c.cache.Get(key); err == nil {
		svc := *v.(*did.AriesService) //nolint:forcetypeassert

		return &svc, nil
	}

	svc, err := c.reader.GetService(ctx, pubDID)
	if err != nil {
		return nil, err
	}

	cp := *svc
	c.set(key, &cp)

	return svc, nil
}

// Purge drops every cached entry.
func (c *CachedReader) Purge() {
	c.cache.Purge()
}

func cachedString(c *CachedReader, key string, load func() (string, error)) (string, error) {
	v, err := c.cache.Get(key)
	if err == nil {
		return v.(string), nil //nolint:forcetypeassert
	}

	if !errors.Is(err, gcache.KeyNotFoundError) {
		logger.Warnf("ledger cache get %s: %v", key, err)
	}

	s, err := load()
	if err != nil {
		return "", err
	}

	c.set(key, s)

	return s, nil
}

func (c *CachedReader) set(key string, v interface{}) {
	if err := c.cache.Set(key, v); err != nil {
		logger.Warnf("ledger cache set %s: %v", key, err)
	}
}
