package models

import "github.com/google/uuid"

// ensureID assigns a client-side id when the row has none. Postgres would
// default it anyway; sqlite test schemas rely on this.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
