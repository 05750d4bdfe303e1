// Package imagecache keeps decoded avatar images in memory so repeated
// renders of the same data URL skip the base64 decode.
package imagecache

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	DefaultCapacity = 50
	DefaultTTL      = 24 * time.Hour
)

// Blob is one decoded image.
type Blob struct {
	ContentType string
	Data        []byte
	StoredAt    time.Time
}

type Options struct {
	Capacity int
	TTL      time.Duration
	Now      func() time.Time
}

// Cache is bounded by Capacity. Expired entries are dropped first, then the
// oldest ones.
type Cache struct {
	mu       sync.Mutex
	entries  *orderedmap.OrderedMap[string, Blob]
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

func New(opts Options) *Cache {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Cache{
		entries:  orderedmap.New[string, Blob](),
		capacity: opts.Capacity,
		ttl:      opts.TTL,
		now:      opts.Now,
	}
}

// ContentKey derives a cache key from the image payload.
func ContentKey(dataURL string) string {
	sum := sha256.Sum256([]byte(dataURL))
	return hex.EncodeToString(sum[:12])
}

func (c *Cache) Get(key string) (Blob, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	blob, ok := c.entries.Get(key)
	if !ok {
		return Blob{}, false
	}
	if c.expired(blob) {
		c.entries.Delete(key)
		return Blob{}, false
	}
	return blob, true
}

// Set decodes dataURL under key. A live entry already under key is returned
// as is.
func (c *Cache) Set(key, dataURL string) (Blob, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if blob, ok := c.entries.Get(key); ok && !c.expired(blob) {
		return blob, nil
	}
	return c.storeLocked(key, dataURL)
}

// ForceUpdate replaces whatever is stored under key.
func (c *Cache) ForceUpdate(key, dataURL string) (Blob, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Delete(key)
	return c.storeLocked(key, dataURL)
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = orderedmap.New[string, Blob]()
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

func (c *Cache) storeLocked(key, dataURL string) (Blob, error) {
	blob, err := DecodeDataURL(dataURL)
	if err != nil {
		return Blob{}, err
	}
	blob.StoredAt = c.now()
	c.entries.Delete(key)
	c.entries.Set(key, blob)
	c.evictLocked()
	return blob, nil
}

func (c *Cache) evictLocked() {
	var stale []string
	for pair := c.entries.Oldest(); pair != nil; pair = pair.Next() {
		if c.expired(pair.Value) {
			stale = append(stale, pair.Key)
		}
	}
	for _, key := range stale {
		c.entries.Delete(key)
	}
	for c.entries.Len() > c.capacity {
		c.entries.Delete(c.entries.Oldest().Key)
	}
}

func (c *Cache) expired(b Blob) bool {
	return c.now().Sub(b.StoredAt) > c.ttl
}

// DecodeDataURL parses a base64 "data:<type>;base64,<payload>" URL.
func DecodeDataURL(dataURL string) (Blob, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return Blob{}, pkgerrors.New(pkgerrors.CodeValidation, "not a data url")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Blob{}, pkgerrors.New(pkgerrors.CodeValidation, "data url has no payload")
	}
	contentType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return Blob{}, pkgerrors.New(pkgerrors.CodeValidation, "data url must be base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Blob{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid base64 payload")
	}
	return Blob{ContentType: contentType, Data: data}, nil
}
