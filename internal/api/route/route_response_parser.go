package route

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

var (
	ErrNoJSONFound      = errors.New("no valid JSON found in model response")
	ErrMalformedPayload = errors.New("model response has an unexpected JSON shape")
)

const excerptRunes = 100

// NoJSONError carries the start of the raw model output for diagnostics.
type NoJSONError struct {
	Excerpt string
}

func (e *NoJSONError) Error() string {
	return fmt.Sprintf("%s: %q", ErrNoJSONFound.Error(), e.Excerpt)
}

func (e *NoJSONError) Unwrap() error { return ErrNoJSONFound }

// ExtractJSON recovers a JSON value embedded in model prose.
// It first tries the span from the first '[' to the last ']', then the span from the
// first '{' to the last '}', and returns the first that parses. This is a heuristic, not a
// tokenizer: stray brackets outside the payload can defeat it. An object returned because
// the array span was broken is not re-scanned, so an array nested in it is not hoisted.
func ExtractJSON(raw string) (json.RawMessage, error) {
	if frag, ok := bracketSpan(raw, '[', ']'); ok {
		return frag, nil
	}
	if frag, ok := bracketSpan(raw, '{', '}'); ok {
		return frag, nil
	}
	return nil, &NoJSONError{Excerpt: excerpt(raw, excerptRunes)}
}

func bracketSpan(raw string, open, close byte) (json.RawMessage, bool) {
	start := strings.IndexByte(raw, open)
	end := strings.LastIndexByte(raw, close)
	if start < 0 || end < start {
		return nil, false
	}
	frag := []byte(raw[start : end+1])
	if !json.Valid(frag) {
		return nil, false
	}
	return json.RawMessage(frag), true
}

func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// ParseCategoryIDs returns the ids when value is an array of integers, otherwise an empty slice.
func ParseCategoryIDs(value json.RawMessage) []int {
	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err != nil {
		return []int{}
	}
	ids := make([]int, 0, len(items))
	for _, item := range items {
		id, err := strconv.Atoi(string(bytes.TrimSpace(item)))
		if err != nil {
			return []int{}
		}
		ids = append(ids, id)
	}
	return ids
}

// ProposedPlace is one itinerary stop as asserted by the model, before reconciliation.
type ProposedPlace struct {
	Title            string           `json:"title"`
	Address          string           `json:"address"`
	Coordinates      *proposedPoint   `json:"coordinates"`
	Category         ProposedCategory `json:"category"`
	Description      string           `json:"description"`
	VisitDuration    looseNumber      `json:"visit_duration"`
	DistanceFromUser looseNumber      `json:"distance_from_user"`
	Reasoning        string           `json:"reasoning"`
}

type proposedPoint struct {
	Latitude  looseNumber `json:"latitude"`
	Longitude looseNumber `json:"longitude"`
}

// Point returns the proposed coordinates, or nil when either axis is missing.
func (p ProposedPlace) Point() *types.Coordinates {
	if p.Coordinates == nil || !p.Coordinates.Latitude.Set || !p.Coordinates.Longitude.Set {
		return nil
	}
	return &types.Coordinates{Latitude: p.Coordinates.Latitude.Value, Longitude: p.Coordinates.Longitude.Value}
}

// ProposedCategory accepts either "name" or {"id": n, "name": "..."}.
type ProposedCategory struct {
	ID   int
	Name string
}

func (c *ProposedCategory) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		return nil
	case trimmed[0] == '"':
		return json.Unmarshal(trimmed, &c.Name)
	case trimmed[0] == '{':
		var obj struct {
			ID   looseNumber `json:"id"`
			Name string      `json:"name"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		c.Name = obj.Name
		if obj.ID.Set {
			c.ID = int(obj.ID.Value)
		}
		return nil
	default:
		return nil
	}
}

// looseNumber reads a JSON number or a numeric string. Anything else leaves it unset.
type looseNumber struct {
	Value float64
	Set   bool
}

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*n = looseNumber{}
		return nil
	}
	*n = looseNumber{Value: v, Set: true}
	return nil
}

// ParseRoutePlaces decodes the itinerary array. Anything other than an array of
// objects each carrying a title is ErrMalformedPayload.
func ParseRoutePlaces(value json.RawMessage) ([]ProposedPlace, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array of places", ErrMalformedPayload)
	}

	places := make([]ProposedPlace, 0, len(items))
	for i, item := range items {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, fmt.Errorf("%w: place %d is not an object", ErrMalformedPayload, i)
		}
		var p ProposedPlace
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, fmt.Errorf("%w: place %d: %v", ErrMalformedPayload, i, err)
		}
		p.Title = strings.TrimSpace(p.Title)
		if p.Title == "" {
			return nil, fmt.Errorf("%w: place %d has no title", ErrMalformedPayload, i)
		}
		places = append(places, p)
	}
	return places, nil
}
