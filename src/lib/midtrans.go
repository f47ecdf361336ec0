package lib

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

const (
	MIDTRANS_STATUS_SUCCESS = "200"
	MIDTRANS_STATUS_PENDING = "201"
)

type TransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type ItemDetail struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

type CustomerDetails struct {
	FirstName string `json:"first_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type CustomExpiry struct {
	OrderTime      string `json:"order_time"`
	ExpiryDuration int64  `json:"expiry_duration"`
	Unit           string `json:"unit"`
}

type BankTransfer struct {
	Bank string `json:"bank"`
}

type Qris struct {
	Acquirer string `json:"acquirer,omitempty"`
}

type Gopay struct {
	EnableCallback bool   `json:"enable_callback,omitempty"`
	CallbackURL    string `json:"callback_url,omitempty"`
}

type Shopeepay struct {
	CallbackURL string `json:"callback_url,omitempty"`
}

type Echannel struct {
	BillInfo1 string `json:"bill_info1"`
	BillInfo2 string `json:"bill_info2"`
}

// ChargeRequest is the provider payload. Exactly one of the payment-type
// sections is set, matching PaymentType.
type ChargeRequest struct {
	PaymentType        string             `json:"payment_type"`
	TransactionDetails TransactionDetails `json:"transaction_details"`
	ItemDetails        []ItemDetail       `json:"item_details,omitempty"`
	CustomerDetails    *CustomerDetails   `json:"customer_details,omitempty"`
	CustomExpiry       *CustomExpiry      `json:"custom_expiry,omitempty"`
	BankTransfer       *BankTransfer      `json:"bank_transfer,omitempty"`
	Qris               *Qris              `json:"qris,omitempty"`
	Gopay              *Gopay             `json:"gopay,omitempty"`
	Shopeepay          *Shopeepay         `json:"shopeepay,omitempty"`
	Echannel           *Echannel          `json:"echannel,omitempty"`
}

type VANumber struct {
	Bank     string `json:"bank"`
	VaNumber string `json:"va_number"`
}

type ChargeAction struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	URL    string `json:"url"`
}

type ChargeResponse struct {
	StatusCode        string         `json:"status_code"`
	StatusMessage     string         `json:"status_message"`
	TransactionID     string         `json:"transaction_id"`
	OrderID           string         `json:"order_id"`
	GrossAmount       string         `json:"gross_amount"`
	Currency          string         `json:"currency"`
	PaymentType       string         `json:"payment_type"`
	TransactionTime   string         `json:"transaction_time"`
	TransactionStatus string         `json:"transaction_status"`
	FraudStatus       string         `json:"fraud_status"`
	VaNumbers         []VANumber     `json:"va_numbers"`
	PermataVaNumber   string         `json:"permata_va_number"`
	BillKey           string         `json:"bill_key"`
	BillerCode        string         `json:"biller_code"`
	Actions           []ChargeAction `json:"actions"`
	ExpiryTime        string         `json:"expiry_time"`
}

type MidtransClient struct {
	BaseURL   string
	ServerKey string
	hc        *http.Client
}

var midtransClient *MidtransClient

func GetMidtransClient() *MidtransClient {
	if midtransClient != nil {
		return midtransClient
	}
	c := NewMidtransClient(os.Getenv("MIDTRANS_BASE_URL"), os.Getenv("MIDTRANS_SERVER_KEY"), nil)
	midtransClient = c
	return c
}

func NewMidtransClient(baseURL string, serverKey string, hc *http.Client) *MidtransClient {
	if hc == nil {
		hc = &http.Client{Timeout: 25 * time.Second}
	}
	c := &MidtransClient{
		BaseURL:   baseURL,
		ServerKey: serverKey,
		hc:        hc,
	}
	midtransClient = c
	return c
}

// Charge posts the payload to the provider's charge endpoint. A non-2xx
// status or a rejecting status_code is an error; callers roll their
// enclosing transaction back on it.
func (c *MidtransClient) Charge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error) {
	reqBuff, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/v2/charge", c.BaseURL)

	hr, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBuff))
	if err != nil {
		log.Printf("[midtrans] Error building charge request: %s\n", err.Error())
		return nil, err
	}
	basicAuth := base64.StdEncoding.EncodeToString([]byte(c.ServerKey + ":"))
	hr.Header.Add("Content-Type", "application/json")
	hr.Header.Add("Accept", "application/json")
	hr.Header.Add("Authorization", fmt.Sprintf("Basic %s", basicAuth))

	hresp, err := c.hc.Do(hr)
	if err != nil {
		log.Printf("[midtrans] Charge request failed: %s\n", err.Error())
		return nil, err
	}
	defer hresp.Body.Close()

	respBody, err := io.ReadAll(hresp.Body)
	if err != nil {
		log.Printf("[midtrans] Error reading charge response: %s\n", err.Error())
		return nil, err
	}

	if hresp.StatusCode < 200 || hresp.StatusCode > 299 {
		err := fmt.Errorf("charge rejected with http status %d: %s", hresp.StatusCode, string(respBody))
		log.Printf("[midtrans] %s\n", err.Error())
		return nil, err
	}

	var resp ChargeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		log.Printf("[midtrans] Error decoding charge response: %s\n", err.Error())
		return nil, err
	}

	if resp.StatusCode != MIDTRANS_STATUS_SUCCESS && resp.StatusCode != MIDTRANS_STATUS_PENDING {
		err := fmt.Errorf("charge rejected with status %s: %s", resp.StatusCode, resp.StatusMessage)
		log.Printf("[midtrans] %s\n", err.Error())
		return nil, err
	}

	return &resp, nil
}
