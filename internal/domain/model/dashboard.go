//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// DashboardStats aggregates platform-wide counters.
type DashboardStats struct {
	Organizations struct {
		Total        int `json:"total"`
		Active       int `json:"active"`
		Suspended    int `json:"suspended"`
		Banned       int `json:"banned"`
		NewThisMonth int `json:"new_this_month"`
	} `json:"organizations"`
	Users struct {
		Total        int `json:"total"`
		NewThisMonth int `json:"new_this_month"`
	} `json:"users"`
	Appointments struct {
		Total     int `json:"total"`
		ThisMonth int `json:"this_month"`
	} `json:"appointments"`
}
