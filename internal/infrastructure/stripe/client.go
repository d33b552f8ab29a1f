package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/au-parking/parking-core-service/internal/domain"
	"github.com/jaevor/go-nanoid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const DefaultBaseURL = "https://api.stripe.com"

// Client talks to the Stripe PaymentIntents API. Amounts are THB; Stripe
// wants satang, hence the *100.
type Client struct {
	secretKey string
	baseURL   string
	client    *http.Client
	newKey    func() string
}

func NewClient(secretKey, baseURL string) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	keyGenerator, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("init idempotency key generator: %w", err)
	}
	return &Client{
		secretKey: secretKey,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
		newKey:    keyGenerator,
	}, nil
}

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

func (c *Client) CreateIntent(ctx context.Context, amount float64, currency, description string, metadata map[string]string) (*domain.PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(int64(amount*100), 10))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "promptpay")
	form.Set("description", description)
	for key, value := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	body, err := c.post(ctx, "/v1/payment_intents", form)
	if err != nil {
		return nil, err
	}

	var intent intentResponse
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("decode payment intent: %w", err)
	}
	return &domain.PaymentIntent{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

func (c *Client) UpdateIntent(ctx context.Context, intentID string, amount float64) error {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(int64(amount*100), 10))

	_, err := c.post(ctx, "/v1/payment_intents/"+intentID, form)
	return err
}

func (c *Client) CancelIntent(ctx context.Context, intentID, reason string) error {
	form := url.Values{}
	form.Set("cancellation_reason", reason)

	_, err := c.post(ctx, "/v1/payment_intents/"+intentID+"/cancel", form)
	return err
}

func (c *Client) post(ctx context.Context, path string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", c.newKey())
	req.SetBasicAuth(c.secretKey, "")

	response, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBodyBytes, nil
	}

	return nil, status.Error(codes.Internal, fmt.Sprintf("stripe returned status %d on %s", response.StatusCode, path))
}
