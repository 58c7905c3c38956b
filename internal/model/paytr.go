package model

import (
	"encoding/json"
	"net/url"
)

const GatewayPayTR = "paytr"

const CallbackStatusSuccess = "success"

// CallbackParams are the form fields the gateway posts to the callback URL.
type CallbackParams struct {
	MerchantOID      string
	Status           string
	TotalAmount      string // minor units
	Hash             string
	FailedReasonCode string
	FailedReasonMsg  string
	PaymentType      string
	Currency         string
	TestMode         string
}

func ParseCallbackParams(form url.Values) CallbackParams {
	return CallbackParams{
		MerchantOID:      form.Get("merchant_oid"),
		Status:           form.Get("status"),
		TotalAmount:      form.Get("total_amount"),
		Hash:             form.Get("hash"),
		FailedReasonCode: form.Get("failed_reason_code"),
		FailedReasonMsg:  form.Get("failed_reason_msg"),
		PaymentType:      form.Get("payment_type"),
		Currency:         form.Get("currency"),
		TestMode:         form.Get("test_mode"),
	}
}

func (p CallbackParams) Values() url.Values {
	v := url.Values{}
	v.Set("merchant_oid", p.MerchantOID)
	v.Set("status", p.Status)
	v.Set("total_amount", p.TotalAmount)
	v.Set("hash", p.Hash)
	if p.FailedReasonCode != "" {
		v.Set("failed_reason_code", p.FailedReasonCode)
	}
	if p.FailedReasonMsg != "" {
		v.Set("failed_reason_msg", p.FailedReasonMsg)
	}
	if p.PaymentType != "" {
		v.Set("payment_type", p.PaymentType)
	}
	if p.Currency != "" {
		v.Set("currency", p.Currency)
	}
	if p.TestMode != "" {
		v.Set("test_mode", p.TestMode)
	}
	return v
}

// JSON is the raw payload kept on the order and in the callback log.
func (p CallbackParams) JSON() []byte {
	b, _ := json.Marshal(map[string]string{
		"merchant_oid":       p.MerchantOID,
		"status":             p.Status,
		"total_amount":       p.TotalAmount,
		"failed_reason_code": p.FailedReasonCode,
		"failed_reason_msg":  p.FailedReasonMsg,
		"payment_type":       p.PaymentType,
		"currency":           p.Currency,
		"test_mode":          p.TestMode,
	})
	return b
}

// BasketItem is one [name, price, quantity] triple of the gateway basket.
type BasketItem struct {
	Name     string
	Price    string
	Quantity int32
}

func (b BasketItem) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{b.Name, b.Price, b.Quantity})
}

type TokenResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
	Reason string `json:"reason"`
}
