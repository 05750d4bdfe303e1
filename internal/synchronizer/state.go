package synchronizer

import "github.com/akvaproffi/storefront/internal/collection"

// State is the synchronizer lifecycle.
type State int

const (
	Uninitialized State = iota
	GuestActive
	Syncing
	AccountActive
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case GuestActive:
		return "guest_active"
	case Syncing:
		return "syncing"
	case AccountActive:
		return "account_active"
	}
	return "unknown"
}

// ScopeKind says who owns the collection.
type ScopeKind string

const (
	ScopeGuest   ScopeKind = "guest"
	ScopeAccount ScopeKind = "account"
)

// OwnerScope is threaded through every transition instead of being read from
// ambient auth state.
type OwnerScope struct {
	Kind   ScopeKind `json:"kind"`
	UserID string    `json:"user_id,omitempty"`
}

func GuestScope() OwnerScope { return OwnerScope{Kind: ScopeGuest} }

func AccountScope(userID string) OwnerScope {
	return OwnerScope{Kind: ScopeAccount, UserID: userID}
}

func (o OwnerScope) IsAccount() bool { return o.Kind == ScopeAccount }

// EntryView is one entry plus whether the backend has confirmed it.
type EntryView[E collection.Entry] struct {
	Entry     E    `json:"entry"`
	Confirmed bool `json:"confirmed"`
}

// View is a point-in-time copy of the synchronizer.
type View[E collection.Entry] struct {
	State      State                    `json:"-"`
	Scope      OwnerScope               `json:"scope"`
	Collection collection.Collection[E] `json:"-"`
	Entries    []EntryView[E]           `json:"entries"`
}

// AuthEventKind distinguishes login from logout notifications.
type AuthEventKind int

const (
	LoginEvent AuthEventKind = iota + 1
	LogoutEvent
)

// AuthEvent is what the authentication layer publishes on state changes.
type AuthEvent struct {
	Kind   AuthEventKind
	UserID string
}
