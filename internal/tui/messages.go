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

// OpenNewContactFormMsg tells the contacts screen to open the new contact form
type OpenNewContactFormMsg struct{}

// firstRunCheckMsg reports whether the book has any contacts
type firstRunCheckMsg struct {
	hasContacts bool
}
