package repo

import (
	"context"
	"testing"

	"github.com/akvaproffi/storefront/pkg/db/dbtest"
)

type ctxKey struct{}

func TestBaseDB_BindsContext(t *testing.T) {
	db := dbtest.Open(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), ctxKey{}, "value")
	withCtx := base.DB(ctx)
	if withCtx == nil || withCtx.Statement == nil {
		t.Fatalf("expected statement created after WithContext")
	}
	if withCtx.Statement.Context != ctx {
		t.Fatalf("expected context to flow through, got %v", withCtx.Statement.Context)
	}

	//nolint:staticcheck // nil context path is part of the contract
	if raw := base.DB(nil); raw != db {
		t.Fatalf("expected nil context to return raw connection")
	}
}

func TestBaseBind(t *testing.T) {
	db := dbtest.Open(t)
	base := NewBase(db)

	tx := db.Begin()
	defer tx.Rollback()

	bound := base.Bind(tx)
	if bound.db != tx {
		t.Fatalf("expected bound base to use the transaction")
	}
	if base.db != db {
		t.Fatalf("original base must keep its connection")
	}
	if base.Bind(nil).db != db {
		t.Fatalf("binding nil should keep the connection")
	}
}
