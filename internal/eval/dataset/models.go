package dataset

// GeoRecord is one ground-truth row of a geolocation dataset: a photo on
// disk plus where and when it was taken. Latitude and longitude of exactly
// (0, 0) mean the location is unknown.
type GeoRecord struct {
	ID        string `json:"id" parquet:"id"`
	ImagePath string `json:"image_path" parquet:"image_path"`
	ImageURL  string `json:"image_url,omitempty" parquet:"image_url,optional"` // source to download when the image is absent

	// Ground truth for comparison
	Address   string  `json:"address" parquet:"address"`
	Latitude  float64 `json:"latitude" parquet:"latitude"`
	Longitude float64 `json:"longitude" parquet:"longitude"`
	Date      string  `json:"date" parquet:"date"` // YYYY-MM-DD or empty
	Time      string  `json:"time" parquet:"time"` // HH:mm or empty

	// Coarser labels for reporting
	City    string `json:"city" parquet:"city"`
	Country string `json:"country" parquet:"country"`
}

// HasCoordinates reports whether the record carries a usable ground-truth
// location.
func (r *GeoRecord) HasCoordinates() bool {
	return r.Latitude != 0 || r.Longitude != 0
}
