package weather

import (
	"strings"

	"github.com/i474232898/weather-tags-relay/internal/common"
)

const (
	TagVeryHot = "very hot"
	TagHot     = "hot"
	TagWarm    = "warm"
	TagCool    = "cool"
	TagCold    = "cold"

	TagCloudy = "cloudy"
	TagRainy  = "rainy"
	TagSunny  = "sunny"
	TagSnowy  = "snowy"
	TagHumid  = "humid"
)

// conditionTags is checked in order; every matching rule adds its tag.
var conditionTags = []struct {
	tag      string
	keywords []string
}{
	{TagCloudy, []string{"cloud"}},
	{TagRainy, []string{"rain", "drizzle"}},
	{TagSunny, []string{"clear"}},
	{TagSnowy, []string{"snow"}},
	{TagHumid, []string{"humid"}},
}

// TemperatureBucket maps degrees Celsius to a coarse label. Thresholds are
// inclusive on the lower bound.
func TemperatureBucket(tempC float64) string {
	switch {
	case tempC >= 35:
		return TagVeryHot
	case tempC >= 28:
		return TagHot
	case tempC >= 18:
		return TagWarm
	case tempC >= 10:
		return TagCool
	default:
		return TagCold
	}
}

// ExtractTags returns the temperature bucket, the lower-cased description and
// then any condition tags whose keywords appear in the description.
func ExtractTags(tempC float64, description string) []string {
	desc := strings.ToLower(description)

	tags := make([]string, 0, 2+len(conditionTags))
	tags = append(tags, TemperatureBucket(tempC), desc)

	for _, c := range conditionTags {
		if common.HasAny(desc, c.keywords...) {
			tags = append(tags, c.tag)
		}
	}
	return tags
}
