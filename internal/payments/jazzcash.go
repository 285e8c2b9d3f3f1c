package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// JazzCashClient posts signed mobile-wallet transactions to JazzCash.
// Every request carries a secure hash: HMAC-SHA256 over the integrity
// salt plus all pp_* values sorted by field name, joined with '&'.
type JazzCashClient struct {
	MerchantID    string
	Password      string
	IntegritySalt string
	Endpoint      string
	ReturnURL     string

	HTTPClient *http.Client
}

func NewJazzCashClient(merchantID, password, salt, endpoint, returnURL string) *JazzCashClient {
	return &JazzCashClient{
		MerchantID:    merchantID,
		Password:      password,
		IntegritySalt: salt,
		Endpoint:      endpoint,
		ReturnURL:     returnURL,
		HTTPClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

// WalletResponse is the subset of the gateway response the order flow
// cares about. ResponseCode "000" means the transaction was accepted.
type WalletResponse struct {
	ResponseCode    string `json:"pp_ResponseCode"`
	ResponseMessage string `json:"pp_ResponseMessage"`
	TxnRefNo        string `json:"pp_TxnRefNo"`
	RedirectURL     string `json:"pp_RedirectURL,omitempty"`
}

// Accepted reports whether the gateway accepted the transaction.
func (r *WalletResponse) Accepted() bool {
	return r.ResponseCode == "000"
}

// WalletCharge describes one wallet transaction to initiate.
// AmountPaisa is the total in the smallest currency unit.
type WalletCharge struct {
	OrderNumber string
	AmountPaisa int64
	Description string
	MobileNo    string
	CNIC        string
}

// CreateTransaction signs and posts a wallet charge. The returned
// TxnRefNo is the external transaction reference the caller persists.
func (c *JazzCashClient) CreateTransaction(ctx context.Context, charge WalletCharge) (*WalletResponse, error) {
	now := time.Now()
	txnRef := "T" + now.Format("20060102150405")

	fields := map[string]string{
		"pp_Version":           "2.0",
		"pp_TxnType":           "MWALLET",
		"pp_Language":          "EN",
		"pp_MerchantID":        c.MerchantID,
		"pp_Password":          c.Password,
		"pp_TxnRefNo":          txnRef,
		"pp_Amount":            fmt.Sprintf("%d", charge.AmountPaisa),
		"pp_TxnCurrency":       "PKR",
		"pp_TxnDateTime":       now.Format("20060102150405"),
		"pp_TxnExpiryDateTime": now.Add(time.Hour).Format("20060102150405"),
		"pp_BillReference":     charge.OrderNumber,
		"pp_Description":       charge.Description,
		"pp_MobileNumber":      charge.MobileNo,
		"pp_CNIC":              charge.CNIC,
		"pp_ReturnURL":         c.ReturnURL,
	}
	fields["pp_SecureHash"] = c.SecureHash(fields)

	body, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("jazzcash request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jazzcash returned HTTP %d", resp.StatusCode)
	}

	var out WalletResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode jazzcash response: %w", err)
	}
	if out.TxnRefNo == "" {
		out.TxnRefNo = txnRef
	}
	return &out, nil
}

// SecureHash computes the pp_SecureHash for a field map. Fields are
// sorted by name, empty values and the hash field itself are skipped,
// and the integrity salt is prepended before signing.
func (c *JazzCashClient) SecureHash(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "pp_SecureHash" || fields[k] == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+1)
	parts = append(parts, c.IntegritySalt)
	for _, k := range keys {
		parts = append(parts, fields[k])
	}

	mac := hmac.New(sha256.New, []byte(c.IntegritySalt))
	mac.Write([]byte(strings.Join(parts, "&")))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

// VerifyResponseHash checks the pp_SecureHash on a callback payload.
func (c *JazzCashClient) VerifyResponseHash(values url.Values) bool {
	fields := make(map[string]string, len(values))
	for k := range values {
		if strings.HasPrefix(k, "pp_") {
			fields[k] = values.Get(k)
		}
	}
	got := values.Get("pp_SecureHash")
	return got != "" && hmac.Equal([]byte(got), []byte(c.SecureHash(fields)))
}
