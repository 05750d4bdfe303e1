package redis

import "strings"

// Keyspace prefixes every key the storefront writes.
type Keyspace string

const DefaultKeyspace Keyspace = "sf"

// Key joins the non-empty parts under the keyspace, e.g. sf:guest:g-1:akvaproffi_cart.
func (k Keyspace) Key(parts ...string) string {
	var b strings.Builder
	b.WriteString(string(k))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			b.WriteByte(':')
			b.WriteString(part)
		}
	}
	return b.String()
}

func (c *Client) keyspace() Keyspace {
	if c == nil || c.keys == "" {
		return DefaultKeyspace
	}
	return c.keys
}

// IdempotencyKey names a checkout replay record.
func (c *Client) IdempotencyKey(scope, id string) string {
	return c.keyspace().Key("idempotency", scope, id)
}

// RateLimitKey names a fixed-window counter.
func (c *Client) RateLimitKey(scope string) string {
	return c.keyspace().Key("rate_limit", scope)
}

// AccessSessionKey names the session bound to an access token id.
func (c *Client) AccessSessionKey(accessID string) string {
	return c.keyspace().Key("session", "access", accessID)
}

// GuestKey names the collection a guest device keeps server side.
func (c *Client) GuestKey(guestID, name string) string {
	return c.keyspace().Key("guest", guestID, name)
}
