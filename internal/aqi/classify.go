// Package aqi classifies Air Quality Index values into display buckets,
// severity levels, and health advice.
package aqi

// ColorBucket is a display color category for an AQI value.
type ColorBucket string

const (
	BucketGood     ColorBucket = "GOOD"
	BucketModerate ColorBucket = "MODERATE"
	BucketPoor     ColorBucket = "POOR"
	BucketVeryPoor ColorBucket = "VERY_POOR"
	BucketSevere   ColorBucket = "SEVERE"
	BucketMaroon   ColorBucket = "MAROON"
)

// bucketColors maps each bucket to its display hex color.
var bucketColors = map[ColorBucket]string{
	BucketGood:     "#00e400",
	BucketModerate: "#ffff00",
	BucketPoor:     "#ff7e00",
	BucketVeryPoor: "#ff0000",
	BucketSevere:   "#99004c",
	BucketMaroon:   "#7e0023",
}

// Hex returns the display hex color for the bucket.
func (b ColorBucket) Hex() string {
	return bucketColors[b]
}

// clamp treats non-positive AQI values as 0 so that every input lands in the
// lowest bucket rather than falling through the threshold chain.
func clamp(aqi int) int {
	if aqi < 0 {
		return 0
	}
	return aqi
}

// Bucket returns the six-way color bucket for an AQI value.
func Bucket(aqi int) ColorBucket {
	switch n := clamp(aqi); {
	case n <= 50:
		return BucketGood
	case n <= 100:
		return BucketModerate
	case n <= 200:
		return BucketPoor
	case n <= 300:
		return BucketVeryPoor
	case n <= 400:
		return BucketSevere
	default:
		return BucketMaroon
	}
}

// Level returns the localized five-way severity label for an AQI value.
func Level(aqi int, loc Locale) string {
	t := translations(loc)
	switch n := clamp(aqi); {
	case n <= 50:
		return t.levelGood
	case n <= 100:
		return t.levelModerate
	case n <= 200:
		return t.levelPoor
	case n <= 300:
		return t.levelVeryPoor
	default:
		return t.levelSevere
	}
}

// HealthAdvice returns the localized advisory sentence for an AQI value.
// Note the six advice buckets use different thresholds than the five level
// buckets (150 splits the moderate-to-poor range).
func HealthAdvice(aqi int, loc Locale) string {
	t := translations(loc)
	switch n := clamp(aqi); {
	case n <= 50:
		return t.adviceGood
	case n <= 100:
		return t.adviceModerate
	case n <= 150:
		return t.adviceUnhealthySens
	case n <= 200:
		return t.adviceUnhealthy
	case n <= 300:
		return t.adviceVeryUnhealthy
	default:
		return t.adviceHazardous
	}
}
