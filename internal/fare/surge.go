package fare

import "strings"

// surgeRule maps weather condition keywords to a fare multiplier.
// Rules are evaluated in order; the first rule with a matching keyword wins.
type surgeRule struct {
	keywords   []string
	multiplier float64
}

// surgeRules is the ordered rule table. Severe conditions are checked first so
// that mixed condition text ("thunderstorm with light rain") resolves to the
// highest applicable tier. Matching is a case-insensitive substring test, which
// tolerates arbitrary provider phrasing.
var surgeRules = []surgeRule{
	{keywords: []string{"thunder", "storm", "blizzard"}, multiplier: 1.5},
	{keywords: []string{"rain", "sleet", "pellets"}, multiplier: 1.25},
	{keywords: []string{"snow"}, multiplier: 1.3},
	{keywords: []string{"cloud", "overcast", "mist", "fog"}, multiplier: 1.1},
}

// SurgeMultiplier returns the weather-driven fare multiplier for a condition
// string. Unrecognized or empty conditions yield 1.0 (no surge).
func SurgeMultiplier(condition string) float64 {
	c := strings.ToLower(condition)
	for _, rule := range surgeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(c, kw) {
				return rule.multiplier
			}
		}
	}
	return 1.0
}
