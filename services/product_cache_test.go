package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winteradda/storefront/models"
)

func TestCachedProductService_ListServedFromCache(t *testing.T) {
	ctx := context.Background()
	inner, repo, _ := newTestProductService()
	svc := NewCachedProductService(inner, time.Minute)
	defer svc.Close()

	input := validInput()
	input.Image = strPtr("https://cdn.example/a.jpg")
	_, err := svc.Create(ctx, input, nil)
	require.NoError(t, err)

	first, err := svc.List(ctx, models.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, first, 1)

	// A write that bypasses the service is not seen until the cache expires.
	require.NoError(t, repo.Create(ctx, &models.Product{Name: "Direct", Category: "misc", Image: "x"}))
	cached, err := svc.List(ctx, models.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	fresh, err := svc.List(ctx, models.ProductFilter{Category: "misc"})
	require.NoError(t, err)
	assert.Len(t, fresh, 1)
}

func TestCachedProductService_WritesInvalidate(t *testing.T) {
	ctx := context.Background()
	inner, _, _ := newTestProductService()
	svc := NewCachedProductService(inner, time.Minute)
	defer svc.Close()

	listLen := func() int {
		products, err := svc.List(ctx, models.ProductFilter{})
		require.NoError(t, err)
		return len(products)
	}

	assert.Equal(t, 0, listLen())

	input := validInput()
	input.Image = strPtr("https://cdn.example/a.jpg")
	created, err := svc.Create(ctx, input, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, listLen())

	_, err = svc.Update(ctx, created.ID, &models.ProductInput{Name: strPtr("Renamed")}, nil)
	require.NoError(t, err)
	products, err := svc.List(ctx, models.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", products[0].Name)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Equal(t, 0, listLen())
}
