package domain

// BoundingBox is an inclusive latitude/longitude rectangle.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// OdishaBounds covers the Odisha coast.
var OdishaBounds = BoundingBox{MinLat: 17.78, MaxLat: 22.57, MinLon: 81.37, MaxLon: 87.53}

// Contains reports whether a point lies inside the box. NaN never does.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Empty reports whether the box covers no area.
func (b BoundingBox) Empty() bool {
	return !(b.MinLat < b.MaxLat && b.MinLon < b.MaxLon)
}
