package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/internal/config"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// httpClient talks to the provider's REST API. Session creation goes through
// a circuit breaker so a degraded provider fails fast instead of tying up
// checkout requests.
type httpClient struct {
	cfg     config.PaymentConfig
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*CheckoutSession]
	logger  zerolog.Logger
}

// NewHTTPClient creates a payment client for the configured provider.
func NewHTTPClient(cfg config.PaymentConfig, logger zerolog.Logger) Client {
	settings := gobreaker.Settings{
		Name:    "payment-provider",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &httpClient{
		cfg:     cfg,
		http:    &http.Client{Timeout: 10 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[*CheckoutSession](settings),
		logger:  logger.With().Str("component", "payment").Logger(),
	}
}

// CreateCheckoutSession creates a hosted checkout session covering the cart
// lines plus tax.
func (c *httpClient) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	session, err := c.breaker.Execute(func() (*CheckoutSession, error) {
		return c.createSession(ctx, req)
	})
	if err != nil {
		c.logger.Error().Err(err).Str("customer_email", req.CustomerEmail).Msg("checkout session creation failed")
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	c.logger.Info().
		Str("session_id", session.ID).
		Str("customer_email", req.CustomerEmail).
		Msg("checkout session created")

	return session, nil
}

func (c *httpClient) createSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("customer_email", req.CustomerEmail)
	form.Set("success_url", c.cfg.SuccessURL)
	form.Set("cancel_url", c.cfg.CancelURL)

	var subtotal float64
	for i, line := range req.Lines {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", "usd")
		form.Set(prefix+"[price_data][product_data][name]", lineName(line.Title, line.Colour, line.Size))
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(toCents(line.Price), 10))
		form.Set(prefix+"[quantity]", strconv.Itoa(line.Quantity))
		subtotal += line.Price * float64(line.Quantity)
	}

	if c.cfg.TaxRate > 0 {
		prefix := fmt.Sprintf("line_items[%d]", len(req.Lines))
		form.Set(prefix+"[price_data][currency]", "usd")
		form.Set(prefix+"[price_data][product_data][name]", "Tax")
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(toCents(subtotal*c.cfg.TaxRate), 10))
		form.Set(prefix+"[quantity]", "1")
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/checkout/sessions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if session.ID == "" || session.URL == "" {
		return nil, fmt.Errorf("provider returned incomplete session")
	}

	return &session, nil
}

func lineName(title, colour, size string) string {
	return fmt.Sprintf("%s (%s, %s)", title, colour, size)
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
