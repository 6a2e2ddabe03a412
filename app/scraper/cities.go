package scraper

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// City is a supported Argentine search location.
type City struct {
	Name     string
	Province string
	Lat      float64
	Lng      float64
}

// Coordinates tighten the Maps search to the city proper.
var argentineCities = map[string]City{
	"Buenos Aires":            {"Buenos Aires", "CABA", -34.6037, -58.3816},
	"CABA":                    {"CABA", "CABA", -34.6037, -58.3816},
	"Cordoba":                 {"Cordoba", "Córdoba", -31.4201, -64.1888},
	"Rosario":                 {"Rosario", "Santa Fe", -32.9442, -60.6505},
	"Mendoza":                 {"Mendoza", "Mendoza", -32.8895, -68.8458},
	"San Miguel de Tucuman":   {"San Miguel de Tucuman", "Tucumán", -26.8083, -65.2176},
	"La Plata":                {"La Plata", "Buenos Aires", -34.9205, -57.9536},
	"Mar del Plata":           {"Mar del Plata", "Buenos Aires", -38.0023, -57.5575},
	"Salta":                   {"Salta", "Salta", -24.7821, -65.4232},
	"Santa Fe":                {"Santa Fe", "Santa Fe", -31.6333, -60.7000},
	"San Juan":                {"San Juan", "San Juan", -31.5375, -68.5364},
	"Neuquen":                 {"Neuquen", "Neuquén", -38.9516, -68.0591},
	"Bahia Blanca":            {"Bahia Blanca", "Buenos Aires", -38.7196, -62.2724},
	"Resistencia":             {"Resistencia", "Chaco", -27.4606, -58.9839},
	"Posadas":                 {"Posadas", "Misiones", -27.3671, -55.8961},
	"San Salvador de Jujuy":   {"San Salvador de Jujuy", "Jujuy", -24.1858, -65.2995},
	"Parana":                  {"Parana", "Entre Ríos", -31.7413, -60.5115},
	"Formosa":                 {"Formosa", "Formosa", -26.1775, -58.1781},
	"San Luis":                {"San Luis", "San Luis", -33.3017, -66.3378},
	"Santiago del Estero":     {"Santiago del Estero", "Santiago del Estero", -27.7951, -64.2615},
	"Catamarca":               {"Catamarca", "Catamarca", -28.4696, -65.7852},
	"La Rioja":                {"La Rioja", "La Rioja", -29.4131, -66.8558},
	"Rio Gallegos":            {"Rio Gallegos", "Santa Cruz", -51.6230, -69.2168},
	"Ushuaia":                 {"Ushuaia", "Tierra del Fuego", -54.8019, -68.3030},
	"Rawson":                  {"Rawson", "Chubut", -43.3002, -65.1023},
	"Viedma":                  {"Viedma", "Río Negro", -40.8135, -62.9967},
	"Santa Rosa":              {"Santa Rosa", "La Pampa", -36.6167, -64.2833},
}

// RealEstateKeywords are the default discovery search terms.
var RealEstateKeywords = []string{
	"inmobiliaria",
	"bienes raices",
	"real estate",
	"propiedades",
	"agencia inmobiliaria",
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldCityName strips accents and lowercases, so "Córdoba" and "cordoba"
// resolve to the same entry.
func foldCityName(name string) string {
	folded, _, err := transform.String(foldTransformer, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// LookupCity resolves a user-supplied city name, accent- and
// case-insensitively.
func LookupCity(name string) (City, bool) {
	want := foldCityName(name)
	for key, city := range argentineCities {
		if foldCityName(key) == want {
			return city, true
		}
	}
	return City{}, false
}

// AvailableCities lists the supported city names, sorted.
func AvailableCities() []string {
	names := make([]string, 0, len(argentineCities))
	for name := range argentineCities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
