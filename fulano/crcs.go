package fulano

import (
	"fmt"

	"github.com/partite-ai/fulano/fom"
)

const crcGroups = 6

// Crcs partitions the input into 6 equal groups and computes one contrast
// recovery coefficient per group. The groups are modeled as z-slabs of a
// voxel image whose background activity is the overall mean, so a uniform
// input recovers zero contrast in every group.
func Crcs(values []float64) ([]int64, error) {
	if len(values) == 0 || len(values)%crcGroups != 0 {
		return nil, fmt.Errorf("crcs: input length %d is not divisible by %d", len(values), crcGroups)
	}
	fov, err := fom.NewFOV([3]float64{1, 1, crcGroups}, [3]int{1, len(values) / crcGroups, crcGroups})
	if err != nil {
		return nil, fmt.Errorf("crcs: %w", err)
	}
	img, err := fom.NewImage(fov, values)
	if err != nil {
		return nil, fmt.Errorf("crcs: %w", err)
	}
	return img.CRCs(crcGroups)
}
