package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCheckoutSession(t *testing.T) {
	bookingID := uuid.New()
	userID := uuid.New()

	t.Run("sends the full checkout request", func(t *testing.T) {
		var got checkoutRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(CheckoutSession{
				SessionID:   "cs_123",
				CheckoutURL: "https://gateway.test/pay/cs_123",
				ExpiresAt:   "2026-09-01T12:00:00Z",
			})
		}))
		defer srv.Close()

		client := NewClient(ClientConfig{
			BaseURL:    srv.URL,
			APIKey:     "test-key",
			SuccessURL: "https://app.test/payment/success",
			CancelURL:  "https://app.test/payment/failure",
		})

		session, err := client.CreateCheckoutSession(context.Background(), bookingID, userID, 48000)
		require.NoError(t, err)
		assert.Equal(t, "cs_123", session.SessionID)
		assert.Equal(t, "https://gateway.test/pay/cs_123", session.CheckoutURL)

		assert.Equal(t, bookingID.String(), got.BookingID)
		assert.Equal(t, userID.String(), got.UserID)
		assert.Equal(t, int64(48000), got.AmountCents)
		assert.Equal(t, "USD", got.Currency)
		assert.Equal(t, "https://app.test/payment/success", got.SuccessURL)
		assert.Equal(t, "https://app.test/payment/failure", got.CancelURL)
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "test-key"})
		_, err := client.CreateCheckoutSession(context.Background(), bookingID, userID, 48000)
		assert.Error(t, err)
	})
}
