package storefront

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmptyCartMessage is shown instead of rows when the cart has no items.
const EmptyCartMessage = "Your cart is empty."

// LineItem is one cart entry. Name, Color and Size together identify it;
// ID is a stable handle for removal.
type LineItem struct {
	ID    string  `json:"id"`
	Image string  `json:"image"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Color string  `json:"color"`
	Size  string  `json:"size"`
	Qty   int     `json:"qty"`
}

// LineTotal is Price × Qty.
func (it LineItem) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Qty)))
}

func (it LineItem) matches(name, color, size string) bool {
	return it.Name == name && it.Color == color && it.Size == size
}

// CartRow is a rendered line of the cart page.
type CartRow struct {
	Item      LineItem        `json:"item"`
	Color     Swatch          `json:"color"`
	Size      string          `json:"size"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// CartView is the whole cart page: rows in storage order and the running total.
type CartView struct {
	Rows    []CartRow       `json:"rows"`
	Total   decimal.Decimal `json:"total"`
	Empty   bool            `json:"empty"`
	Message string          `json:"message,omitempty"`
}

// Cart is the line-item collection stored under CartKey.
type Cart struct {
	storage Storage
	notify  Notifier
}

// NewCart builds a Cart. A nil notifier drops confirmations.
func NewCart(storage Storage, notify Notifier) *Cart {
	if notify == nil {
		notify = silentNotifier{}
	}
	return &Cart{storage: storage, notify: notify}
}

// Items returns the stored line items. A missing or unreadable document is an
// empty cart. Items stored before IDs existed get one, and the cart is saved.
func (c *Cart) Items(ctx context.Context) ([]LineItem, error) {
	items, err := loadList[LineItem](ctx, c.storage, CartKey)
	if err != nil {
		return nil, err
	}

	assigned := false
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
			assigned = true
		}
	}
	if assigned {
		if err := saveList(ctx, c.storage, CartKey, items); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// Add puts one unit of (name, color, size) in the cart: an existing line with
// the same triple gets qty+1, otherwise a new line with qty 1 is appended.
// Values are stored as given.
func (c *Cart) Add(ctx context.Context, name string, price float64, image, color, size string) (LineItem, error) {
	items, err := c.Items(ctx)
	if err != nil {
		return LineItem{}, err
	}

	idx := -1
	for i := range items {
		if items[i].matches(name, color, size) {
			idx = i
			break
		}
	}

	if idx >= 0 {
		items[idx].Qty++
	} else {
		items = append(items, LineItem{
			ID:    uuid.NewString(),
			Image: image,
			Name:  name,
			Price: price,
			Color: color,
			Size:  size,
			Qty:   1,
		})
		idx = len(items) - 1
	}

	if err := saveList(ctx, c.storage, CartKey, items); err != nil {
		return LineItem{}, err
	}

	c.notify.Notify(name + " added to cart")
	return items[idx], nil
}

// Remove deletes the line with the given ID and returns the refreshed view.
// An unknown ID changes nothing.
func (c *Cart) Remove(ctx context.Context, id string) (CartView, error) {
	items, err := c.Items(ctx)
	if err != nil {
		return CartView{}, err
	}

	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	if len(kept) != len(items) {
		if err := saveList(ctx, c.storage, CartKey, kept); err != nil {
			return CartView{}, err
		}
	}

	return Render(kept), nil
}

// Clear drops the whole cart.
func (c *Cart) Clear(ctx context.Context) error {
	return c.storage.Remove(ctx, CartKey)
}

// View renders the stored cart.
func (c *Cart) View(ctx context.Context) (CartView, error) {
	items, err := c.Items(ctx)
	if err != nil {
		return CartView{}, err
	}
	return Render(items), nil
}

// Render projects line items into a CartView without touching storage.
func Render(items []LineItem) CartView {
	if len(items) == 0 {
		return CartView{Rows: []CartRow{}, Total: decimal.Zero, Empty: true, Message: EmptyCartMessage}
	}

	view := CartView{Rows: make([]CartRow, 0, len(items)), Total: decimal.Zero}
	for _, it := range items {
		lineTotal := it.LineTotal()
		view.Total = view.Total.Add(lineTotal)

		size := it.Size
		if size == "" {
			size = MissingLabel
		}
		view.Rows = append(view.Rows, CartRow{
			Item:      it,
			Color:     ResolveColor(it.Color),
			Size:      size,
			LineTotal: lineTotal,
		})
	}
	return view
}

// loadList reads a JSON array document. Missing or malformed documents read
// as an empty list; only storage failures are errors.
func loadList[T any](ctx context.Context, storage Storage, key string) ([]T, error) {
	raw, ok, err := storage.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, nil
	}
	return items, nil
}

func saveList[T any](ctx context.Context, storage Storage, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return storage.Set(ctx, key, string(data))
}
