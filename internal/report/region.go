package report

// regionMap groups report country codes into coarse regions.
var regionMap = map[string]string{
	"JP": "Asia", "CN": "Asia", "KR": "Asia", "TW": "Asia", "HK": "Asia",
	"US": "North America", "CA": "North America", "MX": "North America",
	"GB": "Europe", "DE": "Europe", "FR": "Europe", "IT": "Europe", "ES": "Europe",
	"BR": "South America", "AR": "South America",
	"AU": "Oceania", "NZ": "Oceania",
}

// RegionFor maps a country code to its region. Unlisted codes map to "Other".
func RegionFor(country string) string {
	if r, ok := regionMap[country]; ok {
		return r
	}
	return "Other"
}
