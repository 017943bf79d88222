package metrics

import (
	"math"
	"regexp"
	"strings"

	"github.com/photopin/photopin/internal/eval/dataset"
	"github.com/photopin/photopin/internal/extract"
)

// Distance labels bucket how far a prediction landed from the ground truth.
const (
	LabelExact   = "exact"    // within 100 m
	LabelClose   = "close"    // within 1 km
	LabelCity    = "city"     // within 25 km
	LabelRegion  = "region"   // within 100 km
	LabelNoMatch = "no_match" // beyond 100 km
)

const earthRadiusKm = 6371.0

// AddressMatch describes how closely a predicted address matched the
// ground truth.
type AddressMatch struct {
	Expected string
	Actual   string
	Score    float64
	Method   string // "exact", "substring", "fuzzy_high", "fuzzy_medium", "no_match", or a missing-value marker
}

// Comparison holds the evaluation of one extraction against its
// ground-truth record.
type Comparison struct {
	ID string

	TruthHasLocation bool
	FoundCoordinates bool
	DistanceKm       float64 // valid only when both location flags are set
	DistanceLabel    string

	Address AddressMatch

	HasDate   bool // ground truth carries a date
	DateMatch bool
	HasTime   bool
	TimeMatch bool
}

// Compare evaluates a model record against its ground truth. Distance is
// computed only when the dataset has coordinates and the model reported
// some.
func Compare(got extract.Record, want dataset.GeoRecord) Comparison {
	c := Comparison{
		ID:               want.ID,
		TruthHasLocation: want.HasCoordinates(),
		FoundCoordinates: got.FoundCoordinates,
		Address:          compareAddress(want.Address, got.Address),
	}

	if c.TruthHasLocation && c.FoundCoordinates {
		c.DistanceKm = haversineKm(want.Latitude, want.Longitude, got.Latitude, got.Longitude)
		c.DistanceLabel = distanceLabel(c.DistanceKm)
	}

	if want.Date != "" {
		c.HasDate = true
		c.DateMatch = got.Date == want.Date
	}
	if want.Time != "" {
		c.HasTime = true
		c.TimeMatch = got.Time == want.Time
	}

	return c
}

func distanceLabel(km float64) string {
	switch {
	case km <= 0.1:
		return LabelExact
	case km <= 1:
		return LabelClose
	case km <= 25:
		return LabelCity
	case km <= 100:
		return LabelRegion
	default:
		return LabelNoMatch
	}
}

// haversineKm returns the great-circle distance between two points in
// kilometers.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// compareAddress performs address comparison with fuzzy matching
func compareAddress(expected, actual string) AddressMatch {
	match := AddressMatch{
		Expected: expected,
		Actual:   actual,
	}

	expNorm := normalizeForComparison(expected)
	actNorm := normalizeForComparison(actual)

	// Handle missing values
	if expected == "" && actual == "" {
		match.Score = 0.5
		match.Method = "both_missing"
		return match
	}
	if expected == "" {
		match.Method = "expected_missing"
		return match
	}
	if actual == "" {
		match.Method = "actual_missing"
		return match
	}

	// Exact match
	if expNorm == actNorm {
		match.Score = 1.0
		match.Method = "exact"
		return match
	}

	// Fuzzy match - check for substring containment
	if strings.Contains(actNorm, expNorm) || strings.Contains(expNorm, actNorm) {
		match.Score = 0.8
		match.Method = "substring"
		return match
	}

	// Levenshtein-based similarity
	similarity := calculateSimilarity(expNorm, actNorm)
	match.Score = similarity
	switch {
	case similarity > 0.9:
		match.Method = "fuzzy_high"
	case similarity > 0.7:
		match.Method = "fuzzy_medium"
	default:
		match.Method = "no_match"
	}

	return match
}

// normalizeForComparison normalizes text for comparison
func normalizeForComparison(text string) string {
	text = strings.ToLower(text)

	// Remove punctuation
	re := regexp.MustCompile(`[^\w\s]`)
	text = re.ReplaceAllString(text, "")

	// Remove extra whitespace
	return strings.Join(strings.Fields(text), " ")
}

// calculateSimilarity calculates similarity ratio (0.0 to 1.0) using Levenshtein distance
func calculateSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	if len(s1) == 0 || len(s2) == 0 {
		return 0.0
	}

	distance := levenshteinDistance(s1, s2)
	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}

	return 1.0 - (float64(distance) / float64(maxLen))
}

// levenshteinDistance calculates the Levenshtein distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}
