package localstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GuestIDKey holds the device's guest id in a Backend.
const GuestIDKey = "akvaproffi_guest_id"

// GuestID returns the guest id stored in backend, creating one on first use.
func GuestID(ctx context.Context, backend Backend) (string, error) {
	raw, err := backend.Read(ctx, GuestIDKey)
	switch {
	case err == nil:
		if id := strings.TrimSpace(string(raw)); id != "" {
			return id, nil
		}
	case !errors.Is(err, ErrNotFound):
		return "", fmt.Errorf("read guest id: %w", err)
	}

	id := uuid.NewString()
	if err := backend.Write(ctx, GuestIDKey, []byte(id)); err != nil {
		return "", fmt.Errorf("write guest id: %w", err)
	}
	return id, nil
}
