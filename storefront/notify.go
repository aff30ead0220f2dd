package storefront

// Notifier shows a short message to the shopper (an alert or a toast).
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Navigator moves the shopper to another view.
type Navigator interface {
	Navigate(view string)
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func(view string)

func (f NavigatorFunc) Navigate(view string) { f(view) }

// Views the checkout flow navigates to.
const (
	ViewHome     = "index.html"
	ViewCheckout = "checkout.html"
)

type silentNotifier struct{}

func (silentNotifier) Notify(string) {}

type stayNavigator struct{}

func (stayNavigator) Navigate(string) {}
