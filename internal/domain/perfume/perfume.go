// Package perfume defines the static perfume catalogue record used by the
// content-similarity recommender.
package perfume

// Perfume is one row of the perfume dataset.
type Perfume struct {
	Name  string `json:"Name"`
	Brand string `json:"Brand"`
	Notes string `json:"Notes"`
}
