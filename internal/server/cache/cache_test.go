package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dverbovy/tabstock/internal/server/models"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	c, err := NewItemCache(context.Background(), "")
	require.NoError(t, err)
	ctx := context.Background()

	assert.False(t, c.Enabled())

	_, err = c.GetBySKU(ctx, "W-100")
	assert.ErrorIs(t, err, ErrMiss)

	assert.NoError(t, c.Put(ctx, &models.Item{ID: "i1", SKU: "W-100"}))
	assert.NoError(t, c.Invalidate(ctx, "W-100"))
	assert.NoError(t, c.Close())
}
