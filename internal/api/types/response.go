// internal/api/types/response.go
package types

// ListResponse defines the envelope for paginated API responses.
// Count is the total number of matching rows, ignoring the page window.
type ListResponse[T any] struct {
	Data  []T   `json:"data"`
	Count int64 `json:"count"`
}
