package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/google/uuid"
)

const defaultAPIURL = "https://api.mercadopago.com"

// PreferenceItem is one purchasable line inside a preference.
type PreferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type Payer struct {
	Email string `json:"email"`
}

// PreferenceRequest is the "create preference" payload.
type PreferenceRequest struct {
	Items             []PreferenceItem `json:"items"`
	BackURLs          BackURLs         `json:"back_urls"`
	AutoReturn        string           `json:"auto_return"`
	Payer             Payer            `json:"payer"`
	NotificationURL   string           `json:"notification_url"`
	ExternalReference string           `json:"external_reference"`
}

// Preference is the gateway's answer to a created preference.
type Preference struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// Payment is the authoritative payment record, fetched by id. Notification
// bodies are never trusted for these fields.
type Payment struct {
	ID                int64  `json:"id"`
	Status            string `json:"status"`
	ExternalReference string `json:"external_reference"`
}

type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type Client struct {
	apiURL      string
	accessToken string
	httpClient  *http.Client
}

func NewClient(apiURL, accessToken string) *Client {
	return &Client{
		apiURL:      apiURL,
		accessToken: accessToken,
		httpClient:  &http.Client{},
	}
}

// NewClientFromEnv reads the gateway credentials from the environment.
func NewClientFromEnv() (*Client, error) {
	accessToken := os.Getenv("MP_ACCESS_TOKEN")
	if accessToken == "" {
		return nil, fmt.Errorf("mercadopago configuration missing: MP_ACCESS_TOKEN is not set")
	}
	apiURL := os.Getenv("MP_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return NewClient(apiURL, accessToken), nil
}

// CreatePreference registers a purchase with the gateway and returns the
// preference used to start the payment UI. Anything but a 201 is an error.
func (c *Client) CreatePreference(ctx context.Context, pref PreferenceRequest) (*Preference, error) {
	jsonData, err := json.Marshal(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preference: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/checkout/preferences", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("X-Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach mercadopago: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("mercadopago error (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("mercadopago API error (%d): %s", resp.StatusCode, string(body))
	}

	var preference Preference
	if err := json.Unmarshal(body, &preference); err != nil {
		return nil, fmt.Errorf("failed to parse preference response: %v", err)
	}
	if preference.ID == "" {
		return nil, fmt.Errorf("mercadopago returned an empty preference id")
	}
	return &preference, nil
}

// GetPayment fetches the full payment record for a gateway payment id.
func (c *Client) GetPayment(ctx context.Context, paymentID int64) (*Payment, error) {
	url := fmt.Sprintf("%s/v1/payments/%d", c.apiURL, paymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach mercadopago: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mercadopago API error (%d): %s", resp.StatusCode, string(body))
	}

	var payment Payment
	if err := json.Unmarshal(body, &payment); err != nil {
		return nil, fmt.Errorf("failed to parse payment response: %v", err)
	}
	return &payment, nil
}
