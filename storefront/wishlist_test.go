package storefront

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWishlist() (*Wishlist, *Cart, *notices) {
	storage := NewMemoryStorage()
	n := &notices{}
	cart := NewCart(storage, n)
	return NewWishlist(storage, cart, n), cart, n
}

func TestWishlist_AddDuplicateNameRejected(t *testing.T) {
	ctx := context.Background()
	w, _, n := newWishlist()

	require.NoError(t, w.Add(ctx, "Wool Scarf", 799, "scarf.jpg"))
	assert.Equal(t, "Added to Wishlist!", n.last())

	err := w.Add(ctx, "Wool Scarf", 999, "other.jpg")
	assert.ErrorIs(t, err, ErrAlreadyInWishlist)
	assert.Equal(t, "This item is already in your wishlist!", n.last())

	items, err := w.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, []WishlistItem{{Name: "Wool Scarf", Price: 799, Image: "scarf.jpg"}}, items)
}

func TestWishlist_RemoveCallsHook(t *testing.T) {
	ctx := context.Background()
	w, _, _ := newWishlist()
	require.NoError(t, w.Add(ctx, "A", 1, ""))
	require.NoError(t, w.Add(ctx, "B", 2, ""))

	var rendered []WishlistItem
	calls := 0
	w.OnChange(func(items []WishlistItem) {
		calls++
		rendered = items
	})

	require.NoError(t, w.Remove(ctx, "A"))

	assert.Equal(t, 1, calls)
	require.Len(t, rendered, 1)
	assert.Equal(t, "B", rendered[0].Name)
}

func TestWishlist_RemoveDropsAllMatches(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, WishlistKey,
		`[{"name":"A","price":1,"image":""},{"name":"B","price":2,"image":""},{"name":"A","price":3,"image":""}]`))
	w := NewWishlist(storage, NewCart(storage, nil), nil)

	require.NoError(t, w.Remove(ctx, "A"))

	items, err := w.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "B", items[0].Name)
}

func TestWishlist_MoveToCart(t *testing.T) {
	ctx := context.Background()
	w, cart, _ := newWishlist()
	require.NoError(t, w.Add(ctx, "Beanie", 299, "beanie.jpg"))

	moved, err := w.MoveToCart(ctx, "Beanie")
	require.NoError(t, err)
	assert.True(t, moved)

	saved, err := w.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, saved)

	items, err := cart.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Beanie", items[0].Name)
	assert.Equal(t, "", items[0].Color)
	assert.Equal(t, "", items[0].Size)
	assert.Equal(t, 1, items[0].Qty)
}

func TestWishlist_MoveToCartMergesColorlessLine(t *testing.T) {
	ctx := context.Background()
	w, cart, _ := newWishlist()
	_, err := cart.Add(ctx, "Beanie", 299, "beanie.jpg", "", "")
	require.NoError(t, err)
	require.NoError(t, w.Add(ctx, "Beanie", 299, "beanie.jpg"))

	_, err = w.MoveToCart(ctx, "Beanie")
	require.NoError(t, err)

	items, err := cart.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Qty)
}

func TestWishlist_MoveToCartMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	w, cart, _ := newWishlist()

	moved, err := w.MoveToCart(ctx, "Ghost")
	require.NoError(t, err)
	assert.False(t, moved)

	items, err := cart.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}
