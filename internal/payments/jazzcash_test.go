package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(endpoint string) *JazzCashClient {
	return NewJazzCashClient("MC12345", "secret", "salt123", endpoint, "https://shop.example.com/jazzcash/return")
}

func TestSecureHash(t *testing.T) {
	c := testClient("")

	fields := map[string]string{
		"pp_MerchantID": "MC12345",
		"pp_Amount":     "50000",
		"pp_TxnRefNo":   "T20250101120000",
	}
	first := c.SecureHash(fields)

	// Deterministic, uppercase hex, 64 chars for SHA-256.
	assert.Equal(t, first, c.SecureHash(fields))
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{64}$`), first)

	// Empty values and a pre-set hash must not change the signature.
	fields["pp_CNIC"] = ""
	fields["pp_SecureHash"] = "GARBAGE"
	assert.Equal(t, first, c.SecureHash(fields))

	// Any participating value changes the signature.
	fields["pp_Amount"] = "50001"
	assert.NotEqual(t, first, c.SecureHash(fields))

	// A different salt signs differently even for identical fields.
	other := NewJazzCashClient("MC12345", "secret", "othersalt", "", "")
	assert.NotEqual(t, first, other.SecureHash(map[string]string{"pp_Amount": "50000"}))
}

func TestCreateTransaction(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		json.NewEncoder(w).Encode(WalletResponse{
			ResponseCode:    "000",
			ResponseMessage: "Thank you for using JazzCash",
			TxnRefNo:        received["pp_TxnRefNo"],
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	resp, err := c.CreateTransaction(context.Background(), WalletCharge{
		OrderNumber: "ord-123",
		AmountPaisa: 50000,
		Description: "Udari Crafts order ord-123",
		MobileNo:    "03001234567",
		CNIC:        "345678",
	})
	require.NoError(t, err)

	assert.True(t, resp.Accepted())
	assert.NotEmpty(t, resp.TxnRefNo)

	assert.Equal(t, "MWALLET", received["pp_TxnType"])
	assert.Equal(t, "MC12345", received["pp_MerchantID"])
	assert.Equal(t, "50000", received["pp_Amount"])
	assert.Equal(t, "PKR", received["pp_TxnCurrency"])
	assert.Equal(t, "ord-123", received["pp_BillReference"])

	// The request must be signed over its own fields.
	sent := received["pp_SecureHash"]
	require.NotEmpty(t, sent)
	assert.Equal(t, c.SecureHash(received), sent)
}

func TestCreateTransaction_DeclinedAndHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(WalletResponse{ResponseCode: "134", ResponseMessage: "Insufficient balance"})
	}))
	defer srv.Close()

	resp, err := testClient(srv.URL).CreateTransaction(context.Background(), WalletCharge{AmountPaisa: 100})
	require.NoError(t, err)
	assert.False(t, resp.Accepted())

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	_, err = testClient(bad.URL).CreateTransaction(context.Background(), WalletCharge{AmountPaisa: 100})
	assert.Error(t, err)
}

func TestVerifyResponseHash(t *testing.T) {
	c := testClient("")

	values := url.Values{}
	values.Set("pp_ResponseCode", "000")
	values.Set("pp_TxnRefNo", "T20250101120000")
	values.Set("pp_Amount", "50000")
	values.Set("ignored_field", "x")
	values.Set("pp_SecureHash", c.SecureHash(map[string]string{
		"pp_ResponseCode": "000",
		"pp_TxnRefNo":     "T20250101120000",
		"pp_Amount":       "50000",
	}))

	assert.True(t, c.VerifyResponseHash(values))

	values.Set("pp_Amount", "99999")
	assert.False(t, c.VerifyResponseHash(values), "tampered amount must fail verification")

	values.Del("pp_SecureHash")
	assert.False(t, c.VerifyResponseHash(values), "missing hash must fail verification")
}
