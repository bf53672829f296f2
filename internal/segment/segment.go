// Package segment provides the segmentation collaborators used by the
// analysis pipeline: precomputed masks on disk and external plugins.
package segment

import (
	"fmt"
	"image"

	"github.com/jmylchreest/seasonal/internal/sampler"
)

// FromNamed converts masks keyed by region name into sampler masks.
// Unknown region names are rejected with sampler.ErrInvalidRegion.
func FromNamed(named map[string]*image.Gray) (sampler.Masks, error) {
	masks := make(sampler.Masks, len(named))
	for name, gray := range named {
		region, err := sampler.ParseRegion(name)
		if err != nil {
			return nil, err
		}
		if gray == nil {
			return nil, fmt.Errorf("region %s: nil mask", name)
		}
		masks[region] = sampler.NewMask(gray)
	}
	return masks, nil
}
