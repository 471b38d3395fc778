package gateway

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
)

const (
	defaultBaseURL  = "https://api.chapa.co/v1"
	defaultCurrency = "ETB"
	defaultTimeout  = 15 * time.Second

	StatusSuccess = "success"
)

// ErrMalformedResponse is returned when the gateway answers with a body that
// does not carry the fields the caller needs.
var ErrMalformedResponse = errors.New("malformed gateway response")

// Client talks to the Chapa transaction API. It keeps no state between calls
// and is safe for concurrent use.
type Client struct {
	baseURL     string
	secretKey   string
	currency    string
	callbackURL string
	returnURL   string
	title       string
	txRef       func(bookingID string) string
	client      *http.Client
}

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithCurrency(currency string) Option {
	return func(c *Client) { c.currency = currency }
}

func WithCallbackURL(u string) Option {
	return func(c *Client) { c.callbackURL = u }
}

func WithReturnURL(u string) Option {
	return func(c *Client) { c.returnURL = u }
}

// WithTimeout bounds every outbound request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTxRefGenerator overrides how transaction references are minted.
func WithTxRefGenerator(fn func(bookingID string) string) Option {
	return func(c *Client) { c.txRef = fn }
}

// WithTitle sets the customization title shown on the checkout page.
func WithTitle(title string) Option {
	return func(c *Client) { c.title = title }
}

func NewClient(secretKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:   defaultBaseURL,
		secretKey: secretKey,
		currency:  defaultCurrency,
		title:     "Lodgr booking",
		txRef:     func(bookingID string) string { return bookingID },
		client:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// InitiateRequest identifies the booking being paid for and the payer.
type InitiateRequest struct {
	BookingID string
	Amount    float64
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

type initializeBody struct {
	Amount        string            `json:"amount"`
	Currency      string            `json:"currency"`
	Email         string            `json:"email,omitempty"`
	FirstName     string            `json:"first_name,omitempty"`
	LastName      string            `json:"last_name,omitempty"`
	PhoneNumber   string            `json:"phone_number,omitempty"`
	TxRef         string            `json:"tx_ref"`
	CallbackURL   string            `json:"callback_url,omitempty"`
	ReturnURL     string            `json:"return_url,omitempty"`
	Customization map[string]string `json:"customization,omitempty"`
}

// envelope is the shape shared by all Chapa responses.
type envelope struct {
	Status  *string         `json:"status"`
	Message json.RawMessage `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitiateResult is the decoded answer to a transaction initialize call.
type InitiateResult struct {
	Status  string
	Message string
	Data    InitiateData
	// Raw is the response body exactly as received.
	Raw json.RawMessage
}

type InitiateData struct {
	TxRef       string `json:"tx_ref"`
	CheckoutURL string `json:"checkout_url"`
}

func (r *InitiateResult) Succeeded() bool {
	return r != nil && r.Status == StatusSuccess
}

// VerifyResult is the decoded answer to a transaction verify call.
type VerifyResult struct {
	Status  string
	Message string
	Data    VerifyData
	Raw     json.RawMessage
}

type VerifyData struct {
	TxRef     string      `json:"tx_ref"`
	Reference string      `json:"reference"`
	Status    string      `json:"status"`
	Currency  string      `json:"currency"`
	Amount    json.Number `json:"amount"`
}

func (r *VerifyResult) Succeeded() bool {
	return r != nil && r.Status == StatusSuccess
}

// Initiate starts a hosted checkout for the booking. A non-success answer from
// the gateway is returned as a result, not as an error; errors mean the call
// failed or the body could not be understood.
func (c *Client) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	txRef := c.txRef(req.BookingID)
	body := initializeBody{
		Amount:      strconv.FormatFloat(req.Amount, 'f', 2, 64),
		Currency:    c.currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.Phone,
		TxRef:       txRef,
		CallbackURL: c.callbackURL,
		ReturnURL:   c.returnURL,
		Customization: map[string]string{
			"title":       c.title,
			"description": "Booking " + req.BookingID,
		},
	}

	raw, env, err := c.do(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", body)
	if err != nil {
		return nil, err
	}

	result := &InitiateResult{
		Status:  *env.Status,
		Message: messageText(env.Message),
		Raw:     raw,
	}
	if !result.Succeeded() {
		return result, nil
	}

	if err := decodeData(env.Data, &result.Data); err != nil {
		return nil, err
	}
	if result.Data.TxRef == "" {
		result.Data.TxRef = txRef
	}
	if result.Data.CheckoutURL == "" {
		return nil, fmt.Errorf("initialize: missing checkout_url: %w", ErrMalformedResponse)
	}

	return result, nil
}

// Verify looks up the outcome of a transaction by its reference.
func (c *Client) Verify(ctx context.Context, txRef string) (*VerifyResult, error) {
	endpoint := c.baseURL + "/transaction/verify/" + url.PathEscape(txRef)

	raw, env, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{
		Status:  *env.Status,
		Message: messageText(env.Message),
		Raw:     raw,
	}
	if result.Succeeded() {
		if err := decodeData(env.Data, &result.Data); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload any) (json.RawMessage, *envelope, error) {
	var reader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, nil, fmt.Errorf("chapa request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Chapa answers rejected requests with 4xx and the usual JSON envelope,
	// so the status code alone does not decide the outcome.
	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, nil, fmt.Errorf("chapa error (%d): %w", resp.StatusCode, ErrMalformedResponse)
	}
	if env.Status == nil {
		return nil, nil, fmt.Errorf("chapa response (%d) without status: %w", resp.StatusCode, ErrMalformedResponse)
	}

	return json.RawMessage(respBody), &env, nil
}

func decodeData(data json.RawMessage, dest any) error {
	if len(data) == 0 || string(data) == "null" {
		return fmt.Errorf("missing data: %w", ErrMalformedResponse)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode data: %w", ErrMalformedResponse)
	}
	return nil
}

// messageText flattens the message field, which Chapa sends either as a
// string or as an object of field errors.
func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
