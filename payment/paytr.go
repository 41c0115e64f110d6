// Package payment talks to the PayTR hosted payment page API.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"b2b-catalog/models"

	"github.com/valyala/fasthttp"
)

// ErrProvider wraps every failure of the provider API: transport errors,
// non-200 answers and explicit "failed" statuses.
var ErrProvider = errors.New("payment provider error")

// ErrInvalidSignature is returned for callbacks whose hash does not match.
var ErrInvalidSignature = errors.New("invalid payment callback signature")

// Config holds the merchant credentials and page settings.
type Config struct {
	MerchantID     string
	MerchantKey    string
	MerchantSalt   string
	TokenURL       string
	IframeURL      string
	OkURL          string
	FailURL        string
	Currency       string
	TestMode       bool
	MaxInstallment int
	TimeoutLimit   int
	RequestTimeout time.Duration
}

// BasketItem is one line of the basket shown on the payment page.
type BasketItem struct {
	Name     string
	Price    float64
	Quantity int
}

// TokenRequest describes the payment the buyer is about to make.
type TokenRequest struct {
	MerchantOID string
	Email       string
	UserName    string
	UserAddress string
	UserPhone   string
	UserIP      string
	Amount      float64
	Basket      []BasketItem
}

// Token is the provider's answer: the opaque token and the page to frame.
type Token struct {
	Token     string `json:"token"`
	IframeURL string `json:"iframeUrl"`
}

type tokenResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
	Reason string `json:"reason"`
}

// PayTRClient implements the token and callback halves of the PayTR iframe API.
type PayTRClient struct {
	cfg    Config
	client *fasthttp.Client
}

// NewPayTRClient creates a PayTRClient.
func NewPayTRClient(cfg Config) *PayTRClient {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	return &PayTRClient{
		cfg: cfg,
		client: &fasthttp.Client{
			Name:         "b2b-catalog",
			ReadTimeout:  cfg.RequestTimeout,
			WriteTimeout: cfg.RequestTimeout,
		},
	}
}

// AmountMinor converts an amount to kuruş, the unit the provider expects.
func AmountMinor(amount float64) int64 {
	if amount < 0 {
		return -int64(-amount*100 + 0.5)
	}
	return int64(amount*100 + 0.5)
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// sign returns base64(HMAC-SHA256(data, merchant key)).
func (c *PayTRClient) sign(data string) string {
	mac := hmac.New(sha256.New, []byte(c.cfg.MerchantKey))
	mac.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func encodeBasket(items []BasketItem) (string, error) {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{it.Name, strconv.FormatFloat(it.Price, 'f', 2, 64), strconv.Itoa(it.Quantity)})
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// CreatePaymentToken requests an iframe token for req. The context deadline,
// when set, bounds the request.
func (c *PayTRClient) CreatePaymentToken(ctx context.Context, req TokenRequest) (*Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	basket, err := encodeBasket(req.Basket)
	if err != nil {
		return nil, fmt.Errorf("failed to encode basket: %w", err)
	}

	userIP := req.UserIP
	if userIP == "" {
		userIP = "127.0.0.1"
	}
	amount := strconv.FormatInt(AmountMinor(req.Amount), 10)
	noInstallment := "0"
	maxInstallment := strconv.Itoa(c.cfg.MaxInstallment)
	testMode := boolFlag(c.cfg.TestMode)

	hashStr := c.cfg.MerchantID + userIP + req.MerchantOID + req.Email + amount + basket +
		noInstallment + maxInstallment + c.cfg.Currency + testMode
	token := c.sign(hashStr + c.cfg.MerchantSalt)

	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)
	args.Add("merchant_id", c.cfg.MerchantID)
	args.Add("user_ip", userIP)
	args.Add("merchant_oid", req.MerchantOID)
	args.Add("email", req.Email)
	args.Add("payment_amount", amount)
	args.Add("paytr_token", token)
	args.Add("user_basket", basket)
	args.Add("debug_on", testMode)
	args.Add("no_installment", noInstallment)
	args.Add("max_installment", maxInstallment)
	args.Add("user_name", orNA(req.UserName))
	args.Add("user_address", orNA(req.UserAddress))
	args.Add("user_phone", orNA(req.UserPhone))
	args.Add("merchant_ok_url", c.cfg.OkURL)
	args.Add("merchant_fail_url", c.cfg.FailURL)
	args.Add("timeout_limit", strconv.Itoa(c.cfg.TimeoutLimit))
	args.Add("currency", c.cfg.Currency)
	args.Add("test_mode", testMode)

	httpReq := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(httpReq)
	httpResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(httpResp)

	httpReq.SetRequestURI(c.cfg.TokenURL)
	httpReq.Header.SetMethod(fasthttp.MethodPost)
	httpReq.Header.SetContentType("application/x-www-form-urlencoded")
	httpReq.SetBody(args.QueryString())

	timeout := c.cfg.RequestTimeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if err := c.client.DoTimeout(httpReq, httpResp, timeout); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	if httpResp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrProvider, httpResp.StatusCode())
	}

	var body tokenResponse
	if err := json.Unmarshal(httpResp.Body(), &body); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrProvider, err)
	}
	if body.Status != "success" || body.Token == "" {
		reason := body.Reason
		if reason == "" {
			reason = "token could not be created"
		}
		return nil, fmt.Errorf("%w: %s", ErrProvider, reason)
	}
	return &Token{Token: body.Token, IframeURL: c.cfg.IframeURL + body.Token}, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Callback is the notification PayTR posts to the merchant once the buyer finished.
type Callback struct {
	MerchantOID      string
	Status           string
	TotalAmount      string
	Hash             string
	FailedReasonCode string
	FailedReasonMsg  string
	PaymentType      string
	Currency         string
}

// CallbackHash computes the hash PayTR sends along with a callback.
func (c *PayTRClient) CallbackHash(merchantOID, status, totalAmount string) string {
	return c.sign(merchantOID + c.cfg.MerchantSalt + status + totalAmount)
}

// VerifyCallback checks the callback signature.
func (c *PayTRClient) VerifyCallback(cb Callback) error {
	expected := c.CallbackHash(cb.MerchantOID, cb.Status, cb.TotalAmount)
	if !hmac.Equal([]byte(expected), []byte(cb.Hash)) {
		return ErrInvalidSignature
	}
	return nil
}

// Result converts the callback into the provider-neutral completion message.
func (cb Callback) Result() models.PaymentResult {
	result := models.PaymentResult{
		MerchantOID: cb.MerchantOID,
		Status:      models.PaymentFailed,
		TotalAmount: cb.TotalAmount,
	}
	if cb.Status == models.PaymentSuccess {
		result.Status = models.PaymentSuccess
		return result
	}
	result.Reason = cb.FailedReasonMsg
	if result.Reason == "" && cb.FailedReasonCode != "" {
		result.Reason = "provider code " + cb.FailedReasonCode
	}
	return result
}
