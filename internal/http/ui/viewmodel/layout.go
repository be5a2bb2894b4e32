// Package viewmodel holds the typed data shared by the console layout and list pages.
package viewmodel

// User represents the signed-in operator exposed to templates.
type User struct {
	Name      string
	Email     string
	Role      string
	RoleLabel string
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	// IsElevated shows the admin and settings navigation entries.
	IsElevated bool
	User       *User
}
