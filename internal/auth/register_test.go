package auth

import (
	"context"
	"testing"

	"github.com/akvaproffi/storefront/internal/users"
	"github.com/akvaproffi/storefront/pkg/db/dbtest"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/akvaproffi/storefront/pkg/security"
)

func TestRegisterValidation(t *testing.T) {
	repo := users.NewRepository(dbtest.Open(t))
	svc, err := NewRegisterService(RegisterServiceParams{UserRepo: repo, PasswordConfig: testPassword})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}

	cases := map[string]RegisterRequest{
		"missing name":   {Email: "a@example.com", Password: "secret1"},
		"missing email":  {Name: "A", Password: "secret1"},
		"short password": {Name: "A", Email: "a@example.com", Password: "12345"},
		"bad email":      {Name: "A", Email: "not-an-email", Password: "secret1"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), req); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRegisterStoresHashAndRejectsDuplicate(t *testing.T) {
	repo := users.NewRepository(dbtest.Open(t))
	svc, err := NewRegisterService(RegisterServiceParams{UserRepo: repo, PasswordConfig: testPassword})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterRequest{Name: "Boris", Email: "Boris@Example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.Email != "boris@example.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}

	stored, err := repo.FindByEmail(ctx, "boris@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.PasswordHash == "secret1" {
		t.Fatalf("password stored in plain text")
	}
	ok, err := security.VerifyPassword("secret1", stored.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}

	_, err = svc.Register(ctx, RegisterRequest{Name: "Other", Email: "boris@example.com", Password: "secret2"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}
