package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bizsuite/taxkit/internal/orgcontext"
	taxdomain "github.com/bizsuite/taxkit/internal/tax/domain"
	taxrepository "github.com/bizsuite/taxkit/internal/tax/repository"
)

func newManagementFixture(t *testing.T) (taxdomain.Service, context.Context, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&taxdomain.TaxDefinition{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParams{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  taxrepository.NewRepository(db),
		Cache: NewCatalogCache(),
	})

	orgID := node.Generate()
	return svc, orgcontext.WithOrgID(context.Background(), orgID), node
}

func TestManagement_CreateAndList(t *testing.T) {
	svc, ctx, _ := newManagementFixture(t)

	created, err := svc.Create(ctx, taxdomain.CreateRequest{
		Code: "IVA",
		Name: "IVA",
		Rate: 19,
	})
	require.NoError(t, err)
	assert.Equal(t, "IVA", created.Code)
	assert.True(t, created.IsActive)
	assert.False(t, created.IsDefault)

	items, err := svc.List(ctx, taxdomain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
}

func TestManagement_CreateValidation(t *testing.T) {
	svc, ctx, _ := newManagementFixture(t)

	_, err := svc.Create(ctx, taxdomain.CreateRequest{Name: "No code", Rate: 10})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidTaxCode)

	_, err = svc.Create(ctx, taxdomain.CreateRequest{Code: "X", Name: "Over", Rate: 120})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidTaxRate)

	_, err = svc.Create(ctx, taxdomain.CreateRequest{Code: "X", Name: "Negative", Rate: -1})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidTaxRate)
}

func TestManagement_MissingOrganization(t *testing.T) {
	svc, _, _ := newManagementFixture(t)

	_, err := svc.Create(context.Background(), taxdomain.CreateRequest{Code: "X", Name: "X", Rate: 1})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidOrganization)
}

func TestManagement_UpdateAndDisable(t *testing.T) {
	svc, ctx, _ := newManagementFixture(t)

	created, err := svc.Create(ctx, taxdomain.CreateRequest{Code: "VAT", Name: "VAT", Rate: 20})
	require.NoError(t, err)

	name := "VAT Standard"
	rate := 21.0
	updated, err := svc.Update(ctx, taxdomain.UpdateRequest{ID: created.ID, Name: &name, Rate: &rate})
	require.NoError(t, err)
	assert.Equal(t, "VAT Standard", updated.Name)
	assert.Equal(t, 21.0, updated.Rate)

	disabled, err := svc.Disable(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, disabled.IsActive)

	// Disabled definitions stay listed; filtering is the caller's choice.
	items, err := svc.List(ctx, taxdomain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, items, 1)

	active := true
	items, err = svc.List(ctx, taxdomain.ListRequest{IsActive: &active})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestManagement_SetDefaultClearsPrevious(t *testing.T) {
	svc, ctx, _ := newManagementFixture(t)

	first, err := svc.Create(ctx, taxdomain.CreateRequest{Code: "A", Name: "A", Rate: 10, IsDefault: true})
	require.NoError(t, err)
	second, err := svc.Create(ctx, taxdomain.CreateRequest{Code: "B", Name: "B", Rate: 5})
	require.NoError(t, err)

	promoted, err := svc.SetDefault(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsDefault)

	items, err := svc.List(ctx, taxdomain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		switch item.ID {
		case first.ID:
			assert.False(t, item.IsDefault, "previous default must be cleared")
		case second.ID:
			assert.True(t, item.IsDefault)
		}
	}
}

func TestManagement_UpdateUnknownID(t *testing.T) {
	svc, ctx, node := newManagementFixture(t)

	name := "x"
	_, err := svc.Update(ctx, taxdomain.UpdateRequest{ID: node.Generate().String(), Name: &name})
	assert.ErrorIs(t, err, taxdomain.ErrNotFound)

	_, err = svc.Update(ctx, taxdomain.UpdateRequest{ID: "not-a-snowflake", Name: &name})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidID)
}
