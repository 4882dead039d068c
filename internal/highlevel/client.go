package highlevel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/contentflowhq/lead-pipeline/pkg/logging"
)

const defaultTimeout = 20 * time.Second

var tracer = otel.Tracer("leadpipeline.internal.highlevel")

// APIError is a non-2xx response from the HighLevel API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("highlevel: status %d: %s", e.StatusCode, e.Message)
}

// IsConflict reports whether err is a duplicate-create style failure. The
// API answers 409, or 400 with an "already exists" message, when two callers
// race to create the same field; both shapes are benign for reconciliation.
func IsConflict(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode == http.StatusConflict {
		return true
	}
	return apiErr.StatusCode == http.StatusBadRequest &&
		strings.Contains(strings.ToLower(apiErr.Message), "exist")
}

// Client is a REST client for the HighLevel (LeadConnector) API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	locationID string
	logger     *logging.Logger
}

// Config holds client configuration.
type Config struct {
	BaseURL    string
	Token      string
	LocationID string
}

// NewClient creates a new HighLevel API client.
func NewClient(cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		token:      strings.TrimSpace(cfg.Token),
		locationID: strings.TrimSpace(cfg.LocationID),
		logger:     logger,
	}
}

// LocationID exposes the configured CRM location.
func (c *Client) LocationID() string {
	return c.locationID
}

// Configured reports whether real credentials are present. Placeholder values
// left over from an unconfigured deployment count as absent.
func (c *Client) Configured() bool {
	return !looksPlaceholder(c.token) && !looksPlaceholder(c.locationID)
}

func looksPlaceholder(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "changeme" || s == "todo" {
		return true
	}
	return strings.HasPrefix(s, "your-") ||
		strings.Contains(s, "placeholder") ||
		strings.Contains(s, "xxxx")
}

// ListCustomFields fetches the full custom-field catalog for the location.
func (c *Client) ListCustomFields(ctx context.Context) ([]CustomField, error) {
	ctx, span := tracer.Start(ctx, "highlevel.customfields.list", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var out listCustomFieldsResponse
	path := fmt.Sprintf("/locations/%s/customFields", c.locationID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("highlevel.fields", len(out.CustomFields)))
	return out.CustomFields, nil
}

// CreateCustomField creates one custom field on the location.
func (c *Client) CreateCustomField(ctx context.Context, req CreateCustomFieldRequest) (CustomField, error) {
	ctx, span := tracer.Start(ctx, "highlevel.customfields.create", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var out createCustomFieldResponse
	path := fmt.Sprintf("/locations/%s/customFields", c.locationID)
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return CustomField{}, err
	}
	return out.CustomField, nil
}

// UpsertContact creates or updates the remote contact keyed by email.
func (c *Client) UpsertContact(ctx context.Context, req UpsertContactRequest) (*UpsertContactResult, error) {
	ctx, span := tracer.Start(ctx, "highlevel.contacts.upsert", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if req.LocationID == "" {
		req.LocationID = c.locationID
	}
	var out upsertContactResponse
	if err := c.do(ctx, http.MethodPost, "/contacts/upsert", req, &out); err != nil {
		return nil, err
	}
	if out.Contact.ID == "" {
		return nil, fmt.Errorf("highlevel: upsert returned empty contact id")
	}
	span.SetAttributes(attribute.Bool("highlevel.contact.new", out.New))
	return &UpsertContactResult{ContactID: out.Contact.ID, New: out.New}, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if looksPlaceholder(c.token) {
		return fmt.Errorf("highlevel: missing api token")
	}
	if looksPlaceholder(c.locationID) {
		return fmt.Errorf("highlevel: missing location id")
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("highlevel: marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("highlevel: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Version", apiVersion)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("highlevel: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("highlevel: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("highlevel: unmarshal response: %w", err)
		}
	}
	return nil
}
