package pricing

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/jojuma-project/backend/internal/models"
)

// Center is a map center point.
type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CenterMap maps a city name to its map center. It is data: new cities are new entries.
type CenterMap map[string]Center

// DefaultCenters returns the built-in city centers.
func DefaultCenters() CenterMap {
	return CenterMap{
		"Hermosillo": {Lat: 29.06933, Lon: -110.9706},
		"Merida":     {Lat: 20.94868, Lon: -89.64977},
		"Puebla":     {Lat: 19.0257, Lon: -98.20509},
		"Torreon":    {Lat: 25.54993, Lon: -103.4232},
		"Tijuana":    {Lat: 32.51887, Lon: -117.0121},
	}
}

// LoadCenters reads a JSON object of city -> {lat, lon} and layers it over the defaults.
func LoadCenters(path string) (CenterMap, error) {
	centers := DefaultCenters()
	if path == "" {
		return centers, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map centers: %w", err)
	}
	var extra CenterMap
	if err := json.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("failed to parse map centers %s: %w", path, err)
	}
	for city, c := range extra {
		centers[city] = c
	}
	return centers, nil
}

// Lookup returns the center for city or a *ConfigurationError.
func (m CenterMap) Lookup(city string) (Center, error) {
	c, ok := m[city]
	if !ok {
		return Center{}, &ConfigurationError{City: city}
	}
	return c, nil
}

// Cities returns the configured city names sorted.
func (m CenterMap) Cities() []string {
	out := make([]string, 0, len(m))
	for city := range m {
		out = append(out, city)
	}
	sort.Strings(out)
	return out
}

// GeoPoint is one station marker.
type GeoPoint struct {
	PlaceID int64   `json:"place_id"`
	CreID   string  `json:"cre_id"`
	Marca   string  `json:"marca"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Price   float64 `json:"price"`
	Text    string  `json:"text"`
}

// FilterForMap returns markers for product among stations competing against allowed.
func FilterForMap(work []models.PriceRow, product models.Product, allowed KeySet[int64]) []GeoPoint {
	points := make([]GeoPoint, 0)
	for _, row := range work {
		if row.Product != product || !allowed.Has(row.CompiteA) {
			continue
		}
		points = append(points, GeoPoint{
			PlaceID: row.PlaceID,
			CreID:   row.CreID,
			Marca:   row.Marca,
			Lat:     row.Y,
			Lon:     row.X,
			Price:   row.Prices,
			Text:    MarkerLabel(row),
		})
	}
	return points
}

// MarkerLabel formats "{marca} {cre_id}, Precio: {prices}".
func MarkerLabel(row models.PriceRow) string {
	return row.Marca + " " + row.CreID + ", Precio: " + formatPrice(row.Prices)
}

// formatPrice prints whole numbers with a trailing ".0" so labels read 21.0, not 21.
func formatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
