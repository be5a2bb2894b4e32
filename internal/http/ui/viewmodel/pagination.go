package viewmodel

// Pagination is the pager rendered under the organization, user and audit log
// lists. PrevURL and NextURL keep the list's search and status filters.
type Pagination struct {
	Page       int
	TotalPages int
	TotalCount int
	StartIndex int
	EndIndex   int
	HasPrev    bool
	HasNext    bool
	PrevURL    string
	NextURL    string
}
