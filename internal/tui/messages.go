package tui

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

// RefreshDataMsg requests data refresh
type RefreshDataMsg struct{}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// OpenNewProductFormMsg tells the products screen to open the new product form
type OpenNewProductFormMsg struct{}

// UseCustomerMsg attaches a customer to the invoice being built
type UseCustomerMsg struct {
	Ref string
}

// UseProductMsg opens the add-item form on the invoice screen with the product filled in
type UseProductMsg struct {
	Ref string
}

// firstRunCheckMsg reports whether the database has any products
type firstRunCheckMsg struct {
	hasProducts bool
}
