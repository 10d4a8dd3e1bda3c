package domain

// Capital is one country/capital pair. IDs are store-generated and opaque
// to callers; listing order is ascending id.
type Capital struct {
	ID      int64  `json:"id"`
	Country string `json:"country"`
	Capital string `json:"capital"`
}
