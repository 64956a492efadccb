// Package geocoder talks to the Yandex geocoding and suggest APIs.
package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-tourist-routes/config"
	"github.com/FACorreiaa/go-tourist-routes/internal/api/upstream"
	"github.com/FACorreiaa/go-tourist-routes/internal/types"
)

const (
	serviceName       = "geocoder"
	defaultGeocodeURL = "https://geocode-maps.yandex.ru/1.x/"
	defaultSuggestURL = "https://suggest-maps.yandex.ru/v1/suggest"
	defaultTimeout    = 10 * time.Second
)

var ErrNotConfigured = errors.New("geocoder api key not configured")

// Geocoder resolves a free-text query to a point.
// A nil result with a nil error means the service answered but found nothing usable.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*Result, error)
}

var _ Geocoder = (*Client)(nil)

type Result struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
}

type Client struct {
	http          *http.Client
	baseURL       string
	suggestURL    string
	apiKey        string
	suggestAPIKey string
	cityPrefix    string
	logger        *slog.Logger
}

func NewClient(cfg config.GeocoderConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		http:          &http.Client{Timeout: timeout},
		baseURL:       cfg.BaseURL,
		suggestURL:    cfg.SuggestURL,
		apiKey:        cfg.APIKey,
		suggestAPIKey: cfg.SuggestAPIKey,
		cityPrefix:    cfg.CityPrefix,
		logger:        logger,
	}
	if c.baseURL == "" {
		c.baseURL = defaultGeocodeURL
	}
	if c.suggestURL == "" {
		c.suggestURL = defaultSuggestURL
	}
	if c.suggestAPIKey == "" {
		c.suggestAPIKey = cfg.APIKey
	}
	return c
}

type geocodeResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []struct {
				GeoObject struct {
					MetaDataProperty struct {
						GeocoderMetaData struct {
							Text string `json:"text"`
						} `json:"GeocoderMetaData"`
					} `json:"metaDataProperty"`
					Point *struct {
						Pos string `json:"pos"`
					} `json:"Point"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

// Geocode looks up query and returns the first match.
// Transport failures and non-2xx statuses are errors; every other anomaly yields (nil, nil).
func (c *Client) Geocode(ctx context.Context, query string) (*Result, error) {
	ctx, span := otel.Tracer("GeocoderClient").Start(ctx, "Geocode", trace.WithAttributes(
		attribute.String("geocoder.query", query),
	))
	defer span.End()

	if c.apiKey == "" {
		span.SetStatus(codes.Error, "not configured")
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("geocode", query)
	params.Set("format", "json")
	params.Set("results", "1")

	body, err := c.get(ctx, c.baseURL, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "geocoder request failed")
		return nil, err
	}

	var payload geocodeResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.WarnContext(ctx, "Geocoder returned undecodable body", slog.String("query", query), slog.Any("error", err))
		span.SetStatus(codes.Ok, "undecodable body")
		return nil, nil
	}

	members := payload.Response.GeoObjectCollection.FeatureMember
	if len(members) == 0 || members[0].GeoObject.Point == nil {
		c.logger.DebugContext(ctx, "Geocoder found no point", slog.String("query", query))
		span.SetStatus(codes.Ok, "no result")
		return nil, nil
	}

	lat, lon, ok := parsePos(members[0].GeoObject.Point.Pos)
	if !ok {
		c.logger.WarnContext(ctx, "Geocoder returned unparsable position",
			slog.String("query", query),
			slog.String("pos", members[0].GeoObject.Point.Pos))
		span.SetStatus(codes.Ok, "unparsable position")
		return nil, nil
	}

	span.SetStatus(codes.Ok, "geocoded")
	return &Result{
		Latitude:         lat,
		Longitude:        lon,
		FormattedAddress: members[0].GeoObject.MetaDataProperty.GeocoderMetaData.Text,
	}, nil
}

// GeocodeAddress geocodes a street address within the configured city.
func (c *Client) GeocodeAddress(ctx context.Context, address string) (*Result, error) {
	return c.Geocode(ctx, c.cityPrefix+address)
}

// parsePos reads the wire format "longitude latitude".
func parsePos(pos string) (lat, lon float64, ok bool) {
	fields := strings.Fields(pos)
	if len(fields) != 2 {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, false
	}
	lat, err = strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

type suggestResponse struct {
	Results []struct {
		Title struct {
			Text string `json:"text"`
		} `json:"title"`
		Subtitle struct {
			Text string `json:"text"`
		} `json:"subtitle"`
		Address struct {
			FormattedAddress string `json:"formatted_address"`
		} `json:"address"`
		URI string `json:"uri"`
	} `json:"results"`
}

// Suggest returns up to limit address completions for a partial query.
func (c *Client) Suggest(ctx context.Context, text string, limit int) ([]types.Suggestion, error) {
	ctx, span := otel.Tracer("GeocoderClient").Start(ctx, "Suggest", trace.WithAttributes(
		attribute.String("suggest.text", text),
	))
	defer span.End()

	if c.suggestAPIKey == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("apikey", c.suggestAPIKey)
	params.Set("text", text)
	params.Set("lang", "ru_RU")
	params.Set("types", "geo")
	params.Set("print_address", "1")
	params.Set("results", strconv.Itoa(limit))

	body, err := c.get(ctx, c.suggestURL, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "suggest request failed")
		return nil, err
	}

	var payload suggestResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to decode suggest response: %w", err)
	}

	suggestions := make([]types.Suggestion, 0, len(payload.Results))
	for _, item := range payload.Results {
		suggestions = append(suggestions, types.Suggestion{
			Title:    item.Title.Text,
			Subtitle: item.Subtitle.Text,
			Address:  item.Address.FormattedAddress,
			URI:      item.URI,
		})
	}
	span.SetStatus(codes.Ok, "suggestions received")
	return suggestions, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocoder request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, upstream.ClassifyTransportError(serviceName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, upstream.ClassifyTransportError(serviceName, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstream.NewStatusError(serviceName, resp.StatusCode, body)
	}
	return body, nil
}
