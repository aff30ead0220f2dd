package storefront

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrEmptyCart is returned by Checkout.Proceed when there is nothing to buy.
var ErrEmptyCart = errors.New("cart is empty")

// Shipping is free from FreeShippingThreshold up; below it a flat ShippingFee applies.
var (
	FreeShippingThreshold = decimal.NewFromInt(5000)
	ShippingFee           = decimal.NewFromInt(199)
)

const (
	emptyCheckoutAlert = "Your cart is empty. Add items before checking out."
	orderPlacedMessage = "Order placed successfully!\nThank you for shopping with Winter Adda!"
)

// SummaryLine is "<name> x <qty>" with its line total.
type SummaryLine struct {
	Name  string          `json:"name"`
	Qty   int             `json:"qty"`
	Total decimal.Decimal `json:"total"`
}

// Summary is the order summary shown on the checkout page.
type Summary struct {
	Lines    []SummaryLine   `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
	Empty    bool            `json:"empty"`
	Message  string          `json:"message,omitempty"`
}

// Summarize derives the checkout figures from line items. An empty cart
// yields zeros and the empty-cart message.
func Summarize(items []LineItem) Summary {
	if len(items) == 0 {
		return Summary{
			Lines:    []SummaryLine{},
			Subtotal: decimal.Zero,
			Shipping: decimal.Zero,
			Total:    decimal.Zero,
			Empty:    true,
			Message:  EmptyCartMessage,
		}
	}

	s := Summary{Lines: make([]SummaryLine, 0, len(items)), Subtotal: decimal.Zero}
	for _, it := range items {
		lineTotal := it.LineTotal()
		s.Subtotal = s.Subtotal.Add(lineTotal)
		s.Lines = append(s.Lines, SummaryLine{Name: it.Name, Qty: it.Qty, Total: lineTotal})
	}

	s.Shipping = ShippingFee
	if s.Subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		s.Shipping = decimal.Zero
	}
	s.Total = s.Subtotal.Add(s.Shipping)
	return s
}

// Checkout drives the checkout flow over a Cart. Orders are not sent
// anywhere; placing one only clears the cart.
type Checkout struct {
	cart   *Cart
	notify Notifier
	nav    Navigator
}

func NewCheckout(cart *Cart, notify Notifier, nav Navigator) *Checkout {
	if notify == nil {
		notify = silentNotifier{}
	}
	if nav == nil {
		nav = stayNavigator{}
	}
	return &Checkout{cart: cart, notify: notify, nav: nav}
}

// Summary reads the cart and summarizes it.
func (c *Checkout) Summary(ctx context.Context) (Summary, error) {
	items, err := c.cart.Items(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(items), nil
}

// Proceed moves to the checkout view, or alerts and stays put when the cart is empty.
func (c *Checkout) Proceed(ctx context.Context) error {
	items, err := c.cart.Items(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		c.notify.Notify(emptyCheckoutAlert)
		return ErrEmptyCart
	}

	c.nav.Navigate(ViewCheckout)
	return nil
}

// PlaceOrder confirms, clears the cart and returns home. It does not look at
// the cart's contents.
func (c *Checkout) PlaceOrder(ctx context.Context) error {
	c.notify.Notify(orderPlacedMessage)
	if err := c.cart.Clear(ctx); err != nil {
		return err
	}
	c.nav.Navigate(ViewHome)
	return nil
}
