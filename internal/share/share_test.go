package share_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aqiwatch/aqiwatch/internal/airquality"
	"github.com/aqiwatch/aqiwatch/internal/aqi"
	"github.com/aqiwatch/aqiwatch/internal/share"
)

func TestMessage(t *testing.T) {
	reading := &airquality.Reading{AQI: 87, CityName: "Pune"}

	msg := share.Message(reading, aqi.LocaleEnglish)

	assert.Equal(t,
		"Air Quality Index: 87 (Moderate) in Pune.\n"+
			"Sensitive people should limit outdoor activities\n"+
			"#AQIIndia #AirQuality",
		msg)
}

func TestMessage_UnknownAQI(t *testing.T) {
	reading := &airquality.Reading{AQI: airquality.AQIUnknown, CityName: "Nowhere"}

	msg := share.Message(reading, aqi.LocaleEnglish)

	assert.Contains(t, msg, "Air Quality Index: - (")
	assert.Contains(t, msg, "in Nowhere.")
}
