package geo

// Geofence is a circular proximity boundary around a target coordinate.
type Geofence struct {
	ThresholdMeters float64
}

// NewGeofence returns a geofence with the given radius, or the default
// 500 m radius when threshold is not positive.
func NewGeofence(threshold float64) Geofence {
	if threshold <= 0 {
		threshold = DefaultThresholdMeters
	}
	return Geofence{ThresholdMeters: threshold}
}

// Contains reports whether a measured distance is inside the fence.
// The boundary itself counts as inside.
func (g Geofence) Contains(distanceMeters float64) bool {
	return distanceMeters <= g.ThresholdMeters
}

// Check measures the distance between the submitted position and the
// target and reports whether it falls inside the fence.
func (g Geofence) Check(submitted, target Coordinate) (float64, bool) {
	d := Distance(submitted, target)
	return d, g.Contains(d)
}
