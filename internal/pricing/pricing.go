// Package pricing computes bundle prices for photo queue entries.
package pricing

import "github.com/humed/photoqueue/internal/models"

// Calculate returns the total price for photoCount photos.
// Bundles are filled largest-first: as many 4-photo bundles as fit,
// then 2-photo bundles for the remainder. photoCount must already be
// validated as even and at least 2; Calculate does not check it.
func Calculate(photoCount int, p models.Pricing) int64 {
	bundle4 := photoCount / 4
	remaining := photoCount - bundle4*4
	bundle2 := remaining / 2
	return int64(bundle4)*p.Bundle4 + int64(bundle2)*p.Bundle2
}
