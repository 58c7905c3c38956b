package client

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/config"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"
)

type PaymentGateway interface {
	Name() string
	// RequestHostedPaymentToken returns the token that opens the hosted payment iframe.
	RequestHostedPaymentToken(ctx context.Context, req *TokenRequest) (string, error)
	VerifyCallbackSignature(params model.CallbackParams) *CallbackVerification
	IframeURL(token string) string
}

type TokenRequest struct {
	MerchantOID string
	Email       string
	PayerIP     string
	Amount      int64 // minor units
	Currency    string
	Basket      []model.BasketItem
	UserName    string
	UserAddress string
	UserPhone   string
	OkURL       string
	FailURL     string
	Timeout     time.Duration
}

type CallbackVerification struct {
	Valid         bool
	Success       bool
	MerchantOID   string
	Amount        int64 // minor units
	FailureReason string
}

type paytrClientImpl struct {
	httpClient *http.Client
	cfg        config.PayTR
}

func NewPayTRClient(cfg *config.PayTR) PaymentGateway {
	return &paytrClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cfg: *cfg,
	}
}

func (c *paytrClientImpl) Name() string { return model.GatewayPayTR }

func (c *paytrClientImpl) IframeURL(token string) string {
	return strings.TrimRight(c.cfg.BaseApiURL, "/") + "/odeme/guvenli/" + token
}

func (c *paytrClientImpl) RequestHostedPaymentToken(ctx context.Context, req *TokenRequest) (string, error) {
	basketJSON, err := json.Marshal(req.Basket)
	if err != nil {
		return "", fmt.Errorf("marshal basket: %w", err)
	}
	basket := base64.StdEncoding.EncodeToString(basketJSON)

	amount := strconv.FormatInt(req.Amount, 10)
	noInstallment := boolFlag(c.cfg.NoInstallment)
	maxInstallment := strconv.Itoa(c.cfg.MaxInstallment)
	testMode := boolFlag(c.cfg.TestMode)

	token := sign(c.cfg.MerchantKey,
		c.cfg.MerchantID, req.PayerIP, req.MerchantOID, req.Email, amount,
		basket, noInstallment, maxInstallment, req.Currency, testMode,
		c.cfg.MerchantSalt,
	)

	form := url.Values{}
	form.Set("merchant_id", c.cfg.MerchantID)
	form.Set("user_ip", req.PayerIP)
	form.Set("merchant_oid", req.MerchantOID)
	form.Set("email", req.Email)
	form.Set("payment_amount", amount)
	form.Set("paytr_token", token)
	form.Set("user_basket", basket)
	form.Set("debug_on", testMode)
	form.Set("no_installment", noInstallment)
	form.Set("max_installment", maxInstallment)
	form.Set("user_name", req.UserName)
	form.Set("user_address", req.UserAddress)
	form.Set("user_phone", req.UserPhone)
	form.Set("merchant_ok_url", firstNonEmpty(req.OkURL, c.cfg.OkURL))
	form.Set("merchant_fail_url", firstNonEmpty(req.FailURL, c.cfg.FailURL))
	form.Set("currency", req.Currency)
	form.Set("test_mode", testMode)
	if req.Timeout > 0 {
		form.Set("timeout_limit", strconv.Itoa(int(req.Timeout/time.Minute)))
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		strings.TrimRight(c.cfg.BaseApiURL, "/")+"/odeme/api/get-token",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("paytr token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("paytr error %d: %s", resp.StatusCode, string(b))
	}

	var result model.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode paytr response: %w", err)
	}

	if result.Status != "success" || result.Token == "" {
		return "", fmt.Errorf("paytr token rejected: %s", result.Reason)
	}

	return result.Token, nil
}

func (c *paytrClientImpl) VerifyCallbackSignature(params model.CallbackParams) *CallbackVerification {
	v := &CallbackVerification{
		MerchantOID:   params.MerchantOID,
		Success:       params.Status == model.CallbackStatusSuccess,
		FailureReason: params.FailedReasonMsg,
	}

	if params.MerchantOID == "" || params.Hash == "" {
		return v
	}

	expected := SignCallback(&c.cfg, params.MerchantOID, params.TotalAmount)
	if !hmac.Equal([]byte(expected), []byte(params.Hash)) {
		return v
	}

	amount, err := strconv.ParseInt(params.TotalAmount, 10, 64)
	if err != nil {
		return v
	}

	v.Amount = amount
	v.Valid = true
	return v
}

// SignCallback computes the hash the gateway attaches to a callback.
func SignCallback(cfg *config.PayTR, merchantOID, totalAmount string) string {
	return sign(cfg.MerchantKey, cfg.MerchantID, merchantOID, totalAmount, cfg.MerchantSalt)
}

func sign(key string, parts ...string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(strings.Join(parts, "")))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
