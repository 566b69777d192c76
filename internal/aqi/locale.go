package aqi

// Locale selects the language for level labels and health advice.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleHindi   Locale = "hi"
)

// table holds every localized string for one locale. All six advice buckets
// are localized; none are hard-coded.
type table struct {
	levelGood     string
	levelModerate string
	levelPoor     string
	levelVeryPoor string
	levelSevere   string

	adviceGood          string
	adviceModerate      string
	adviceUnhealthySens string
	adviceUnhealthy     string
	adviceVeryUnhealthy string
	adviceHazardous     string
}

var tables = map[Locale]table{
	LocaleEnglish: {
		levelGood:     "Good",
		levelModerate: "Moderate",
		levelPoor:     "Poor",
		levelVeryPoor: "Very Poor",
		levelSevere:   "Severe",

		adviceGood:          "Air quality is good. Enjoy outdoor activities!",
		adviceModerate:      "Sensitive people should limit outdoor activities",
		adviceUnhealthySens: "Everyone should reduce prolonged outdoor exertion",
		adviceUnhealthy:     "Avoid outdoor activities, especially for sensitive groups",
		adviceVeryUnhealthy: "Health alert: Avoid all outdoor activities",
		adviceHazardous:     "Emergency conditions: Remain indoors with air purifiers",
	},
	LocaleHindi: {
		levelGood:     "अच्छा",
		levelModerate: "मध्यम",
		levelPoor:     "खराब",
		levelVeryPoor: "बहुत खराब",
		levelSevere:   "गंभीर",

		adviceGood:          "वायु गुणवत्ता अच्छी है। बाहरी गतिविधियों का आनंद लें!",
		adviceModerate:      "संवेदनशील लोगों को बाहरी गतिविधियाँ सीमित करनी चाहिए",
		adviceUnhealthySens: "सभी को लंबे समय तक बाहरी परिश्रम कम करना चाहिए",
		adviceUnhealthy:     "बाहरी गतिविधियों से बचें, विशेषकर संवेदनशील समूह",
		adviceVeryUnhealthy: "स्वास्थ्य चेतावनी: सभी बाहरी गतिविधियों से बचें",
		adviceHazardous:     "आपातकालीन स्थिति: एयर प्यूरीफायर के साथ घर के अंदर रहें",
	},
}

// translations returns the string table for a locale, falling back to English
// for unknown locales.
func translations(loc Locale) table {
	if t, ok := tables[loc]; ok {
		return t
	}
	return tables[LocaleEnglish]
}
