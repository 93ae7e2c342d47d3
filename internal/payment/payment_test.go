package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPaymentConfig(baseURL string) config.PaymentConfig {
	return config.PaymentConfig{
		Enabled:    true,
		BaseURL:    baseURL,
		SecretKey:  "sk_test_123",
		TaxRate:    0.10,
		SuccessURL: "https://shop.example/success",
		CancelURL:  "https://shop.example/cancel",
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	var gotForm map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "cs_test_abc", "url": "https://pay.example/cs_test_abc"}`)
	}))
	defer server.Close()

	client := NewHTTPClient(testPaymentConfig(server.URL), zerolog.Nop())
	session, err := client.CreateCheckoutSession(context.Background(), CheckoutRequest{
		CustomerEmail: "jane@example.com",
		Lines: []model.CartLine{
			{Title: "Linen Shirt", Colour: "White", Size: "M", Price: 49.99, Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_abc", session.ID)
	assert.Equal(t, "https://pay.example/cs_test_abc", session.URL)

	assert.Equal(t, []string{"jane@example.com"}, gotForm["customer_email"])
	assert.Equal(t, []string{"4999"}, gotForm["line_items[0][price_data][unit_amount]"])
	assert.Equal(t, []string{"2"}, gotForm["line_items[0][quantity]"])
	// 10% tax on 99.98 as its own line.
	assert.Equal(t, []string{"Tax"}, gotForm["line_items[1][price_data][product_data][name]"])
	assert.Equal(t, []string{"1000"}, gotForm["line_items[1][price_data][unit_amount]"])
}

func TestCreateCheckoutSessionProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "invalid key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewHTTPClient(testPaymentConfig(server.URL), zerolog.Nop())
	_, err := client.CreateCheckoutSession(context.Background(), CheckoutRequest{
		CustomerEmail: "jane@example.com",
		Lines:         []model.CartLine{{Title: "Shirt", Price: 10, Quantity: 1}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(testPaymentConfig(server.URL), zerolog.Nop())
	req := CheckoutRequest{
		CustomerEmail: "jane@example.com",
		Lines:         []model.CartLine{{Title: "Shirt", Price: 10, Quantity: 1}},
	}

	for i := 0; i < 5; i++ {
		_, err := client.CreateCheckoutSession(context.Background(), req)
		require.Error(t, err)
	}

	server.Close()
	_, err := client.CreateCheckoutSession(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
}

func signedHeader(secret string, ts time.Time, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{"type": "checkout.session.completed"}`)
	now := time.Now()

	tests := []struct {
		name    string
		header  string
		wantErr string
	}{
		{
			name:   "valid signature",
			header: signedHeader(secret, now, payload),
		},
		{
			name:    "wrong secret",
			header:  signedHeader("whsec_other", now, payload),
			wantErr: "no matching signature",
		},
		{
			name:    "stale timestamp",
			header:  signedHeader(secret, now.Add(-10*time.Minute), payload),
			wantErr: "outside tolerance",
		},
		{
			name:    "missing timestamp",
			header:  "v1=deadbeef",
			wantErr: "malformed signature header",
		},
		{
			name:    "garbage header",
			header:  "not a signature",
			wantErr: "malformed signature header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySignature(payload, tt.header, secret, DefaultTolerance, now)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestVerifySignatureTamperedPayload(t *testing.T) {
	secret := "whsec_test"
	now := time.Now()
	header := signedHeader(secret, now, []byte(`{"amount": 10}`))

	err := VerifySignature([]byte(`{"amount": 9999}`), header, secret, DefaultTolerance, now)
	assert.Error(t, err)
}
