package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"transitcrm/internal/domain"
	"transitcrm/internal/domain/models"
)

const (
	defaultTimeout = 15 * time.Second
	apiKeyHeader   = "x-api-key"
	maxErrorBody   = 4 << 10

	customersPath    = "/customers/"
	cardsPath        = "/cards/"
	tripsPath        = "/trips/"
	casesPath        = "/cases/"
	tapHistoryPath   = "/tap-history/"
	fareDisputesPath = "/fare-disputes/"
)

// Client talks to the CRM REST API with a static API key.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

var _ API = (*Client)(nil)

// New builds a client; a non-positive timeout falls back to 15s.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

type requestIDKey struct{}

// WithRequestID tags outgoing API calls made with ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the id set by WithRequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (c *Client) do(ctx context.Context, resource, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", resource, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := RequestIDFrom(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.ClassifyUpstream(resource, &domain.UpstreamError{
			Status: resp.StatusCode,
			Method: method,
			Path:   path,
			Body:   string(raw),
		})
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s response: %w", resource, err)
	}
	return nil
}

func itemPath(collection, id string) string {
	return collection + url.PathEscape(id)
}

func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.do(ctx, "account", http.MethodPost, "/auth/signup", req, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.do(ctx, "account", http.MethodPost, "/auth/login", req, &out)
	return out, err
}

// Customers

func (c *Client) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var out []models.Customer
	if err := c.do(ctx, "customer", http.MethodGet, customersPath, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Normalize()
	}
	return out, nil
}

func (c *Client) GetCustomer(ctx context.Context, id string) (models.Customer, error) {
	var out models.Customer
	err := c.do(ctx, "customer", http.MethodGet, itemPath(customersPath, id), nil, &out)
	out.Normalize()
	return out, err
}

func (c *Client) CreateCustomer(ctx context.Context, in models.Customer) (models.Customer, error) {
	var out models.Customer
	err := c.do(ctx, "customer", http.MethodPost, customersPath, in, &out)
	return out, err
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, in models.Customer) (models.Customer, error) {
	var out models.Customer
	err := c.do(ctx, "customer", http.MethodPut, itemPath(customersPath, id), in, &out)
	return out, err
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.do(ctx, "customer", http.MethodDelete, itemPath(customersPath, id), nil, nil)
}

// Cards

func (c *Client) ListCards(ctx context.Context) ([]models.Card, error) {
	var out []models.Card
	if err := c.do(ctx, "card", http.MethodGet, cardsPath, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Normalize()
	}
	return out, nil
}

func (c *Client) GetCard(ctx context.Context, id string) (models.Card, error) {
	var out models.Card
	err := c.do(ctx, "card", http.MethodGet, itemPath(cardsPath, id), nil, &out)
	out.Normalize()
	return out, err
}

func (c *Client) CreateCard(ctx context.Context, in models.Card) (models.Card, error) {
	var out models.Card
	err := c.do(ctx, "card", http.MethodPost, cardsPath, in, &out)
	return out, err
}

func (c *Client) UpdateCard(ctx context.Context, id string, in models.Card) (models.Card, error) {
	var out models.Card
	err := c.do(ctx, "card", http.MethodPut, itemPath(cardsPath, id), in, &out)
	return out, err
}

func (c *Client) DeleteCard(ctx context.Context, id string) error {
	return c.do(ctx, "card", http.MethodDelete, itemPath(cardsPath, id), nil, nil)
}

// Trips

func (c *Client) ListTrips(ctx context.Context) ([]models.Trip, error) {
	var out []models.Trip
	if err := c.do(ctx, "trip", http.MethodGet, tripsPath, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Normalize()
	}
	return out, nil
}

func (c *Client) GetTrip(ctx context.Context, id string) (models.Trip, error) {
	var out models.Trip
	err := c.do(ctx, "trip", http.MethodGet, itemPath(tripsPath, id), nil, &out)
	out.Normalize()
	return out, err
}

func (c *Client) CreateTrip(ctx context.Context, in models.Trip) (models.Trip, error) {
	var out models.Trip
	err := c.do(ctx, "trip", http.MethodPost, tripsPath, in, &out)
	return out, err
}

func (c *Client) UpdateTrip(ctx context.Context, id string, in models.Trip) (models.Trip, error) {
	var out models.Trip
	err := c.do(ctx, "trip", http.MethodPut, itemPath(tripsPath, id), in, &out)
	return out, err
}

func (c *Client) DeleteTrip(ctx context.Context, id string) error {
	return c.do(ctx, "trip", http.MethodDelete, itemPath(tripsPath, id), nil, nil)
}

// Cases

func (c *Client) ListCases(ctx context.Context) ([]models.Case, error) {
	var out []models.Case
	if err := c.do(ctx, "case", http.MethodGet, casesPath, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Normalize()
	}
	return out, nil
}

func (c *Client) GetCase(ctx context.Context, id string) (models.Case, error) {
	var out models.Case
	err := c.do(ctx, "case", http.MethodGet, itemPath(casesPath, id), nil, &out)
	out.Normalize()
	return out, err
}

func (c *Client) CreateCase(ctx context.Context, in models.Case) (models.Case, error) {
	var out models.Case
	err := c.do(ctx, "case", http.MethodPost, casesPath, in, &out)
	return out, err
}

func (c *Client) UpdateCase(ctx context.Context, id string, in models.Case) (models.Case, error) {
	var out models.Case
	err := c.do(ctx, "case", http.MethodPut, itemPath(casesPath, id), in, &out)
	return out, err
}

func (c *Client) DeleteCase(ctx context.Context, id string) error {
	return c.do(ctx, "case", http.MethodDelete, itemPath(casesPath, id), nil, nil)
}

// Tap history

func (c *Client) ListTapHistory(ctx context.Context) ([]models.TapHistory, error) {
	return c.listTaps(ctx, tapHistoryPath)
}

func (c *Client) ListTapHistoryByCustomer(ctx context.Context, customerID string) ([]models.TapHistory, error) {
	q := url.Values{"customer_id": {customerID}}
	return c.listTaps(ctx, tapHistoryPath+"?"+q.Encode())
}

func (c *Client) listTaps(ctx context.Context, path string) ([]models.TapHistory, error) {
	var out []models.TapHistory
	if err := c.do(ctx, "tap history", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Normalize()
	}
	return out, nil
}

func (c *Client) UpdateTapHistory(ctx context.Context, id string, in models.TapHistory) (models.TapHistory, error) {
	var out models.TapHistory
	err := c.do(ctx, "tap history", http.MethodPut, itemPath(tapHistoryPath, id), in, &out)
	return out, err
}

// Fare disputes

func (c *Client) ListFareDisputes(ctx context.Context) ([]models.FareDispute, error) {
	var out []models.FareDispute
	if err := c.do(ctx, "fare dispute", http.MethodGet, fareDisputesPath, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Normalize()
	}
	return out, nil
}

func (c *Client) CreateFareDispute(ctx context.Context, in models.FareDispute) (models.FareDispute, error) {
	var out models.FareDispute
	err := c.do(ctx, "fare dispute", http.MethodPost, fareDisputesPath, in, &out)
	return out, err
}

func (c *Client) UpdateFareDispute(ctx context.Context, id int, in models.FareDispute) (models.FareDispute, error) {
	var out models.FareDispute
	err := c.do(ctx, "fare dispute", http.MethodPut, fareDisputesPath+strconv.Itoa(id), in, &out)
	return out, err
}

func (c *Client) DeleteFareDispute(ctx context.Context, id int) error {
	return c.do(ctx, "fare dispute", http.MethodDelete, fareDisputesPath+strconv.Itoa(id), nil, nil)
}
