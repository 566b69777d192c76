// Package share builds plain-text share messages for a resolved reading.
package share

import (
	"fmt"

	"github.com/aqiwatch/aqiwatch/internal/airquality"
	"github.com/aqiwatch/aqiwatch/internal/aqi"
)

// hashtags appended to every share message.
const hashtags = "#AQIIndia #AirQuality"

// Message formats a reading as the text handed to the platform share sheet
// or clipboard.
func Message(reading *airquality.Reading, loc aqi.Locale) string {
	aqiText := "-"
	if reading.AQI != airquality.AQIUnknown {
		aqiText = fmt.Sprintf("%d", reading.AQI)
	}

	return fmt.Sprintf("Air Quality Index: %s (%s) in %s.\n%s\n%s",
		aqiText,
		aqi.Level(reading.AQI, loc),
		reading.CityName,
		aqi.HealthAdvice(reading.AQI, loc),
		hashtags,
	)
}
