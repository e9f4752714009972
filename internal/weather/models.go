package weather

import "fmt"

// Query identifies a single current-weather lookup.
type Query struct {
	City string
	// Escape percent-encodes City before it is placed in the provider query,
	// so it ends up encoded twice on the wire. The /weather endpoint has always
	// done this and /weather-tags never has.
	Escape bool
}

func (q Query) String() string {
	return fmt.Sprintf("city=%q escape=%t", q.City, q.Escape)
}

// ProviderResponse is the subset of the provider document we read. Fields are
// pointers so a missing value can be told apart from a zero value.
type ProviderResponse struct {
	Name    *string             `json:"name"`
	Main    *ProviderMain       `json:"main"`
	Weather []ProviderCondition `json:"weather"`
}

type ProviderMain struct {
	Temp *float64 `json:"temp"`
}

type ProviderCondition struct {
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}

// CityName returns the name echoed by the provider, or nil if absent.
func (r ProviderResponse) CityName() *string {
	return r.Name
}

// Temperature returns main.temp.
func (r ProviderResponse) Temperature() (float64, error) {
	if r.Main == nil || r.Main.Temp == nil {
		return 0, malformed("main.temp")
	}
	return *r.Main.Temp, nil
}

// Description returns weather[0].description.
func (r ProviderResponse) Description() (string, error) {
	if len(r.Weather) == 0 || r.Weather[0].Description == nil {
		return "", malformed("weather[0].description")
	}
	return *r.Weather[0].Description, nil
}

// Icon returns weather[0].icon.
func (r ProviderResponse) Icon() (string, error) {
	if len(r.Weather) == 0 || r.Weather[0].Icon == nil {
		return "", malformed("weather[0].icon")
	}
	return *r.Weather[0].Icon, nil
}

// WeatherResult is the normalized body of GET /weather.
type WeatherResult struct {
	City        *string `json:"city"` // null when the provider omits name
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

// TagResult is the body of GET /weather-tags.
type TagResult struct {
	City string   `json:"city"`
	Tags []string `json:"tags"`
}
