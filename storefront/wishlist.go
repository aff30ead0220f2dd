package storefront

import (
	"context"
	"errors"
)

// ErrAlreadyInWishlist is returned by Wishlist.Add for a name that is already saved.
var ErrAlreadyInWishlist = errors.New("already in wishlist")

// WishlistItem is a saved product. Names are unique within a wishlist.
type WishlistItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// Wishlist is the saved-for-later collection stored under WishlistKey.
type Wishlist struct {
	storage Storage
	cart    *Cart
	notify  Notifier
	render  func(items []WishlistItem)
}

func NewWishlist(storage Storage, cart *Cart, notify Notifier) *Wishlist {
	if notify == nil {
		notify = silentNotifier{}
	}
	return &Wishlist{storage: storage, cart: cart, notify: notify}
}

// OnChange registers the hook Remove calls with the remaining items, so an
// open wishlist page can redraw itself.
func (w *Wishlist) OnChange(render func(items []WishlistItem)) {
	w.render = render
}

func (w *Wishlist) Items(ctx context.Context) ([]WishlistItem, error) {
	return loadList[WishlistItem](ctx, w.storage, WishlistKey)
}

// Add saves a product unless one with the same name is already there.
func (w *Wishlist) Add(ctx context.Context, name string, price float64, image string) error {
	items, err := w.Items(ctx)
	if err != nil {
		return err
	}

	for _, it := range items {
		if it.Name == name {
			w.notify.Notify("This item is already in your wishlist!")
			return ErrAlreadyInWishlist
		}
	}

	items = append(items, WishlistItem{Name: name, Price: price, Image: image})
	if err := saveList(ctx, w.storage, WishlistKey, items); err != nil {
		return err
	}

	w.notify.Notify("Added to Wishlist!")
	return nil
}

// Remove drops every entry with the given name.
func (w *Wishlist) Remove(ctx context.Context, name string) error {
	items, err := w.Items(ctx)
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, it := range items {
		if it.Name != name {
			kept = append(kept, it)
		}
	}
	if err := saveList(ctx, w.storage, WishlistKey, kept); err != nil {
		return err
	}

	if w.render != nil {
		w.render(kept)
	}
	return nil
}

// MoveToCart adds the named entry to the cart with no color or size, then
// removes it from the wishlist. It reports false when the name is not saved.
func (w *Wishlist) MoveToCart(ctx context.Context, name string) (bool, error) {
	items, err := w.Items(ctx)
	if err != nil {
		return false, err
	}

	for _, it := range items {
		if it.Name != name {
			continue
		}
		if _, err := w.cart.Add(ctx, it.Name, it.Price, it.Image, "", ""); err != nil {
			return false, err
		}
		return true, w.Remove(ctx, name)
	}
	return false, nil
}
