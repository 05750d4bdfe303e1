package paymentmethods

import (
	"context"
	"testing"

	"github.com/akvaproffi/storefront/pkg/db"
	"github.com/akvaproffi/storefront/pkg/db/dbtest"
	"github.com/akvaproffi/storefront/pkg/db/models"
	"github.com/akvaproffi/storefront/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryDefaultHandlingInTransaction(t *testing.T) {
	conn := dbtest.Open(t)
	client := db.Wrap(conn)
	svc, err := NewService(ServiceParams{Repo: NewRepository(conn), TransactionRunner: client})
	require.NoError(t, err)

	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.Create(ctx, userID, CreateInput{Type: "cash"})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.Create(ctx, userID, CreateInput{
		Type:       "card",
		CardNumber: "4000000000000002",
		CardHolder: "ANNA",
		CardExpiry: "12/2029",
		IsDefault:  true,
	})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "default method lists first")
	assert.False(t, list[1].IsDefault)
	require.NotNil(t, list[0].CardNumber)
	assert.Equal(t, "**** **** **** 0002", *list[0].CardNumber)
}

func TestRepositoryDeleteIsScopedToOwner(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	owner := uuid.New()

	method := &models.PaymentMethod{UserID: owner, Type: enums.PaymentMethodTypeOnline}
	require.NoError(t, repo.Create(ctx, method))

	deleted, err := repo.Delete(ctx, uuid.New(), method.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	count, err := repo.CountByUser(ctx, owner)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	deleted, err = repo.Delete(ctx, owner, method.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}
