package internal

// DefaultLocalBroadcastRadius is measured in chunks.
const DefaultLocalBroadcastRadius = 16

type RegionKey struct {
	X int16
	Z int16
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// IsWithinRadius uses Chebyshev distance. Cells exactly radius away are
// inside the neighborhood.
func (k RegionKey) IsWithinRadius(center RegionKey, radius int32) bool {
	dx := abs32(int32(k.X) - int32(center.X))
	dz := abs32(int32(k.Z) - int32(center.Z))
	return dx <= radius && dz <= radius
}
