package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/limo-transfers/service-quote/internal/domain/quote"
)

const (
	DefaultGoogleBaseURL = "https://maps.googleapis.com"
	matrixPath           = "/maps/api/distancematrix/json"
	maxResponseBytes     = 1 << 20
	statusOK             = "OK"
)

type matrixValue struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

type matrixElement struct {
	Status            string       `json:"status"`
	Distance          *matrixValue `json:"distance"`
	Duration          *matrixValue `json:"duration"`
	DurationInTraffic *matrixValue `json:"duration_in_traffic"`
}

type matrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []matrixElement `json:"elements"`
	} `json:"rows"`
}

// GoogleMatrixProvider implements quote.DistanceProvider with the Google
// Distance Matrix API. One call per lookup, no retries: the caller owns the
// timeout and the fallback.
type GoogleMatrixProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
}

// NewGoogleMatrixProvider creates a provider. An empty baseURL means the public endpoint.
func NewGoogleMatrixProvider(apiKey, baseURL string, client *http.Client) (*GoogleMatrixProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google maps api key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultGoogleBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &GoogleMatrixProvider{
		session: client,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// GetDistance returns driving distance and duration between origin and destination.
// Failures are *quote.ProviderError values tagged with the reason.
func (g *GoogleMatrixProvider) GetDistance(ctx context.Context, origin, destination string) (quote.DistanceResult, error) {
	req, err := g.newRequest(ctx, origin, destination)
	if err != nil {
		return quote.DistanceResult{}, quote.NewProviderError(quote.ReasonUnknown, err)
	}

	resp, err := g.session.Do(req)
	if err != nil {
		return quote.DistanceResult{}, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return quote.DistanceResult{}, quote.NewProviderError(quote.ReasonBadStatus,
			fmt.Errorf("http status %d: %s", resp.StatusCode, strings.TrimSpace(string(b))))
	}

	var mr matrixResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&mr); err != nil {
		if ctx.Err() != nil {
			return quote.DistanceResult{}, quote.NewProviderError(quote.ReasonTimeout, ctx.Err())
		}
		return quote.DistanceResult{}, quote.NewProviderError(quote.ReasonMalformedPayload,
			fmt.Errorf("decode matrix response: %w", err))
	}

	return parseMatrix(mr)
}

func (g *GoogleMatrixProvider) newRequest(ctx context.Context, origin, destination string) (*http.Request, error) {
	q := url.Values{}
	q.Set("origins", origin)
	q.Set("destinations", destination)
	q.Set("units", "metric")
	q.Set("departure_time", "now")
	q.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+matrixPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func parseMatrix(mr matrixResponse) (quote.DistanceResult, error) {
	if mr.Status != statusOK {
		return quote.DistanceResult{}, quote.NewProviderError(quote.ReasonBadStatus,
			fmt.Errorf("matrix status %s: %s", mr.Status, mr.ErrorMessage))
	}
	if len(mr.Rows) == 0 || len(mr.Rows[0].Elements) == 0 {
		return quote.DistanceResult{}, quote.NewProviderError(quote.ReasonMalformedPayload,
			errors.New("matrix response has no elements"))
	}

	el := mr.Rows[0].Elements[0]
	if el.Status != statusOK {
		return quote.DistanceResult{}, quote.NewProviderError(quote.ReasonElementStatus,
			fmt.Errorf("element status %s", el.Status))
	}
	if el.Distance == nil || el.Distance.Value < 0 {
		return quote.DistanceResult{}, quote.NewProviderError(quote.ReasonMalformedPayload,
			errors.New("element has no distance value"))
	}

	result := quote.DistanceResult{
		DistanceKm: el.Distance.Value / 1000,
		Source:     quote.SourceGoogle,
	}

	// Traffic-aware duration wins over the static estimate.
	duration := el.DurationInTraffic
	if duration == nil {
		duration = el.Duration
	}
	if duration != nil {
		minutes := quote.Minutes(duration.Value)
		result.DurationMin = &minutes
	}

	return result, nil
}

// classifyTransportError tags a client.Do failure. url.Error is unwrapped so
// the request URL, which carries the API key, never reaches the logs.
func classifyTransportError(ctx context.Context, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return quote.NewProviderError(quote.ReasonTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return quote.NewProviderError(quote.ReasonTimeout, err)
	}
	return quote.NewProviderError(quote.ReasonNetwork, err)
}
