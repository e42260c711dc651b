package dto

// ListFilter contains query parameters for the lead listing endpoint.
type ListFilter struct {
	Page    int
	PerPage int
}
