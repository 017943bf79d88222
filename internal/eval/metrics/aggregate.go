package metrics

import "sort"

// Summary aggregates per-record comparisons into dataset-level measures.
type Summary struct {
	Total        int
	WithLocation int // records whose ground truth carries coordinates
	FoundCount   int // located truths where the model reported coordinates
	FoundRate    float64

	// Distance statistics over records where both sides had coordinates.
	// Accuracy denominators include not-found predictions as misses.
	MeanDistanceKm   float64
	MedianDistanceKm float64
	AccuracyAt1Km    float64
	AccuracyAt25Km   float64
	AccuracyAt100Km  float64
	DistanceLabels   map[string]int

	MeanAddressScore float64

	DateTotal   int
	DateMatches int
	TimeTotal   int
	TimeMatches int
}

// Aggregate folds comparisons into a Summary.
func Aggregate(comparisons []Comparison) Summary {
	s := Summary{
		Total:          len(comparisons),
		DistanceLabels: make(map[string]int),
	}

	var distances []float64
	addressTotal := 0
	addressSum := 0.0

	for _, c := range comparisons {
		if c.TruthHasLocation {
			s.WithLocation++
			if c.FoundCoordinates {
				s.FoundCount++
				distances = append(distances, c.DistanceKm)
				s.DistanceLabels[c.DistanceLabel]++
			}
		}

		switch c.Address.Method {
		case "expected_missing", "both_missing":
		default:
			addressTotal++
			addressSum += c.Address.Score
		}

		if c.HasDate {
			s.DateTotal++
			if c.DateMatch {
				s.DateMatches++
			}
		}
		if c.HasTime {
			s.TimeTotal++
			if c.TimeMatch {
				s.TimeMatches++
			}
		}
	}

	if s.WithLocation > 0 {
		s.FoundRate = float64(s.FoundCount) / float64(s.WithLocation)

		within1, within25, within100 := 0, 0, 0
		for _, d := range distances {
			if d <= 1 {
				within1++
			}
			if d <= 25 {
				within25++
			}
			if d <= 100 {
				within100++
			}
		}
		n := float64(s.WithLocation)
		s.AccuracyAt1Km = float64(within1) / n
		s.AccuracyAt25Km = float64(within25) / n
		s.AccuracyAt100Km = float64(within100) / n
	}

	if len(distances) > 0 {
		sum := 0.0
		for _, d := range distances {
			sum += d
		}
		s.MeanDistanceKm = sum / float64(len(distances))

		sort.Float64s(distances)
		s.MedianDistanceKm = median(distances)
	}

	if addressTotal > 0 {
		s.MeanAddressScore = addressSum / float64(addressTotal)
	}

	return s
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
