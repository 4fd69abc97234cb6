package geocode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Candidate is one address suggestion. Raw holds the service's record
// untouched; the typed fields are decoded from it for display.
type Candidate struct {
	PlaceID     int64             `json:"place_id"`
	DisplayName string            `json:"display_name"`
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	Class       string            `json:"class"`
	Type        string            `json:"type"`
	Importance  float64           `json:"importance"`
	Address     map[string]string `json:"address"`

	Raw json.RawMessage `json:"-"`
}

// MarshalJSON writes the original record so candidates pass through unchanged.
func (c Candidate) MarshalJSON() ([]byte, error) {
	if len(c.Raw) > 0 {
		return c.Raw, nil
	}
	type plain Candidate
	return json.Marshal(plain(c))
}

// Coordinates parses Lat and Lon.
func (c Candidate) Coordinates() (lat, lon float64, ok bool) {
	lat, errLat := strconv.ParseFloat(c.Lat, 64)
	lon, errLon := strconv.ParseFloat(c.Lon, 64)
	if errLat != nil || errLon != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// Street returns "house_number road", or the first segment of DisplayName
// when the service sent no address details.
func (c Candidate) Street() string {
	road := c.Address["road"]
	if road != "" {
		return strings.TrimSpace(c.Address["house_number"] + " " + road)
	}
	first, _, _ := strings.Cut(c.DisplayName, ",")
	return strings.TrimSpace(first)
}

// City returns the most specific locality in the address details.
func (c Candidate) City() string {
	for _, key := range []string{"city", "town", "village", "hamlet", "suburb", "county"} {
		if v := c.Address[key]; v != "" {
			return v
		}
	}
	return ""
}

// State returns the state name from the address details.
func (c Candidate) State() string {
	return c.Address["state"]
}

// Postcode returns the ZIP code from the address details.
func (c Candidate) Postcode() string {
	return c.Address["postcode"]
}

// Label is the short form shown in suggestion lists.
func (c Candidate) Label() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Street(), c.City(), strings.TrimSpace(c.State() + " " + c.Postcode())} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return c.DisplayName
	}
	return strings.Join(parts, ", ")
}

// ParseCandidates decodes a search response body. Any valid JSON that is not
// an array gives an empty result. Elements that are not objects are skipped.
func ParseCandidates(body []byte) ([]Candidate, error) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("search response is not JSON")
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []Candidate{}, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	candidates := make([]Candidate, 0, len(raws))
	for _, raw := range raws {
		var c Candidate
		if err := json.Unmarshal(raw, &c); err != nil {
			continue
		}
		c.Raw = append(json.RawMessage(nil), raw...)
		candidates = append(candidates, c)
	}
	return candidates, nil
}
