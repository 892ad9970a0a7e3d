package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/staffboard/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyStore_Resolve(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	keys := NewAPIKeyStore(db)

	require.NoError(t, keys.AddAPIKey(ctx, "secret", "u1", "dashboard"))

	userID, err := keys.ResolveUser(ctx, "secret")
	require.NoError(t, err)
	require.Equal(t, "u1", userID)

	_, err = keys.ResolveUser(ctx, "wrong")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
