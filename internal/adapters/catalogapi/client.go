// Package catalogapi is the web tier's HTTP client for the CRUD API.
package catalogapi

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

	"travel_catalog/internal/adapters/observability"
	"travel_catalog/internal/domain"
)

const service = "catalog-api"

// ErrUnavailable wraps transport failures and unexpected statuses.
var ErrUnavailable = errors.New("catalogapi: unavailable")

// RejectedError is a 400 answered by the API, usually a validation problem.
type RejectedError struct {
	Code   string
	Detail string
	Fields []domain.FieldError
}

func (e *RejectedError) Error() string {
	return "rejected: " + strings.Join(e.Reasons(), "; ")
}

// Reasons lists the field messages, or the detail when there are none.
func (e *RejectedError) Reasons() []string {
	if len(e.Fields) == 0 {
		if e.Detail == "" {
			return nil
		}
		return []string{e.Detail}
	}
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, f.Message)
	}
	return out
}

type Client struct {
	base string
	hc   *http.Client
}

var _ domain.CatalogAPI = (*Client)(nil)

// New builds a client for base (e.g. http://localhost:8081/api).
func New(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
	}
}

/********** destinations **********/

func (c *Client) ListDestinations(ctx context.Context, f domain.DestinationFilter) ([]domain.Destination, error) {
	q := url.Values{}
	setStr(q, "country", f.Country)
	setStr(q, "category", f.Category)
	return list[domain.Destination](ctx, c, "destinations", q)
}

func (c *Client) GetDestination(ctx context.Context, id int64) (domain.Destination, error) {
	return get[domain.Destination](ctx, c, "destinations", id)
}

func (c *Client) CreateDestination(ctx context.Context, d domain.Destination) (domain.Destination, error) {
	return create(ctx, c, "destinations", d)
}

func (c *Client) UpdateDestination(ctx context.Context, id int64, d domain.Destination) (domain.Destination, error) {
	return update(ctx, c, "destinations", id, d)
}

func (c *Client) DeleteDestination(ctx context.Context, id int64) error {
	return c.remove(ctx, "destinations", id)
}

/********** hotels **********/

func (c *Client) ListHotels(ctx context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	q := url.Values{}
	setID(q, "destinationId", f.DestinationID)
	if f.MinStars != nil {
		q.Set("minStars", strconv.Itoa(*f.MinStars))
	}
	if f.MinRating != nil {
		q.Set("minRating", strconv.FormatFloat(*f.MinRating, 'f', -1, 64))
	}
	return list[domain.Hotel](ctx, c, "hotels", q)
}

func (c *Client) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	return get[domain.Hotel](ctx, c, "hotels", id)
}

func (c *Client) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	return create(ctx, c, "hotels", h)
}

func (c *Client) UpdateHotel(ctx context.Context, id int64, h domain.Hotel) (domain.Hotel, error) {
	return update(ctx, c, "hotels", id, h)
}

func (c *Client) DeleteHotel(ctx context.Context, id int64) error {
	return c.remove(ctx, "hotels", id)
}

/********** activities **********/

func (c *Client) ListActivities(ctx context.Context, f domain.ActivityFilter) ([]domain.Activity, error) {
	q := url.Values{}
	setID(q, "destinationId", f.DestinationID)
	setStr(q, "type", f.Type)
	return list[domain.Activity](ctx, c, "activities", q)
}

func (c *Client) GetActivity(ctx context.Context, id int64) (domain.Activity, error) {
	return get[domain.Activity](ctx, c, "activities", id)
}

func (c *Client) CreateActivity(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return create(ctx, c, "activities", a)
}

func (c *Client) UpdateActivity(ctx context.Context, id int64, a domain.Activity) (domain.Activity, error) {
	return update(ctx, c, "activities", id, a)
}

func (c *Client) DeleteActivity(ctx context.Context, id int64) error {
	return c.remove(ctx, "activities", id)
}

/********** users **********/

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	return list[domain.User](ctx, c, "users", nil)
}

func (c *Client) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return get[domain.User](ctx, c, "users", id)
}

func (c *Client) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	return create(ctx, c, "users", u)
}

func (c *Client) UpdateUser(ctx context.Context, id int64, u domain.User) (domain.User, error) {
	return update(ctx, c, "users", id, u)
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.remove(ctx, "users", id)
}

// ---- Internals ----

func setStr(q url.Values, k string, v *string) {
	if v != nil && *v != "" {
		q.Set(k, *v)
	}
}

func setID(q url.Values, k string, v *int64) {
	if v != nil {
		q.Set(k, strconv.FormatInt(*v, 10))
	}
}

func list[T any](ctx context.Context, c *Client, res string, q url.Values) ([]T, error) {
	path := "/" + res
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	out := []T{}
	if err := c.do(ctx, http.MethodGet, path, res+".list", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func get[T any](ctx context.Context, c *Client, res string, id int64) (T, error) {
	var out T
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/%s/%d", res, id), res+".get", nil, &out)
	return out, err
}

func create[T any](ctx context.Context, c *Client, res string, in T) (T, error) {
	var out T
	err := c.do(ctx, http.MethodPost, "/"+res, res+".create", in, &out)
	return out, err
}

func update[T any](ctx context.Context, c *Client, res string, id int64, in T) (T, error) {
	var out T
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/%s/%d", res, id), res+".update", in, &out)
	return out, err
}

func (c *Client) remove(ctx context.Context, res string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/%s/%d", res, id), res+".delete", nil, nil)
}

type problem struct {
	Code   string              `json:"code"`
	Detail string              `json:"detail"`
	Errors []domain.FieldError `json:"errors"`
}

// do sends one request (no retries) and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, method, path, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "travel-web/1.0")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(service, endpoint, 0, time.Since(start))
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNoContent:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode %s %s: %v", ErrUnavailable, method, path, err)
		}
		return nil
	}

	// read a small error body for diagnostics
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var p problem
	_ = json.Unmarshal(b, &p)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		reason := p.Detail
		if reason == "" {
			reason = "conflict"
		}
		return &domain.ConflictError{Reason: reason}
	case http.StatusBadRequest:
		detail := p.Detail
		if detail == "" {
			detail = strings.TrimSpace(string(b))
		}
		return &RejectedError{Code: p.Code, Detail: detail, Fields: p.Errors}
	default:
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrUnavailable, method, path, resp.StatusCode, strings.TrimSpace(string(b)))
	}
}
