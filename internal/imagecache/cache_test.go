package imagecache

import (
	"encoding/base64"
	"testing"
	"time"

	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func (c *clock) advance(d time.Duration) { c.now = c.now.Add(d) }

func dataURL(payload string) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(payload))
}

func TestSetAndGet(t *testing.T) {
	clk := &clock{now: time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)}
	c := New(Options{Capacity: 2, TTL: time.Hour, Now: clk.Now})

	blob, err := c.Set("a", dataURL("alpha"))
	require.NoError(t, err)
	assert.Equal(t, "image/png", blob.ContentType)
	assert.Equal(t, []byte("alpha"), blob.Data)

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, blob, got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestSetKeepsLiveEntryForceUpdateReplaces(t *testing.T) {
	c := New(Options{})

	_, err := c.Set("avatar", dataURL("old"))
	require.NoError(t, err)
	blob, err := c.Set("avatar", dataURL("new"))
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), blob.Data)

	blob, err = c.ForceUpdate("avatar", dataURL("new"))
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), blob.Data)
	assert.Equal(t, 1, c.Len())
}

func TestExpiredEntriesAreDropped(t *testing.T) {
	clk := &clock{now: time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)}
	c := New(Options{Capacity: 5, TTL: time.Hour, Now: clk.Now})

	_, err := c.Set("a", dataURL("alpha"))
	require.NoError(t, err)
	clk.advance(2 * time.Hour)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())

	blob, err := c.Set("a", dataURL("beta"))
	require.NoError(t, err)
	assert.Equal(t, []byte("beta"), blob.Data)
}

func TestEvictionPrefersExpiredThenOldest(t *testing.T) {
	clk := &clock{now: time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)}
	c := New(Options{Capacity: 2, TTL: time.Hour, Now: clk.Now})

	_, _ = c.Set("stale", dataURL("s"))
	clk.advance(90 * time.Minute)
	_, _ = c.Set("b", dataURL("b"))
	_, _ = c.Set("c", dataURL("c"))

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("b")
	assert.True(t, ok)

	_, _ = c.Set("d", dataURL("d"))
	assert.Equal(t, 2, c.Len())
	_, ok = c.Get("b")
	assert.False(t, ok, "oldest live entry evicted once capacity is exceeded")
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestClear(t *testing.T) {
	c := New(Options{})
	_, _ = c.Set("a", dataURL("a"))
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestDecodeDataURLRejectsMalformed(t *testing.T) {
	for _, in := range []string{"https://cdn/x.png", "data:image/png;base64", "data:image/png,abc", "data:image/png;base64,@@@"} {
		_, err := DecodeDataURL(in)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), in)
	}
	c := New(Options{})
	_, err := c.Set("bad", "nope")
	assert.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestContentKeyIsStable(t *testing.T) {
	assert.Equal(t, ContentKey(dataURL("x")), ContentKey(dataURL("x")))
	assert.NotEqual(t, ContentKey(dataURL("x")), ContentKey(dataURL("y")))
	assert.Len(t, ContentKey("x"), 24)
}
