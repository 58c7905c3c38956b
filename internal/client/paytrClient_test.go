package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/config"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayTRConfig(baseURL string) *config.PayTR {
	return &config.PayTR{
		BaseApiURL:    baseURL,
		MerchantID:    "123456",
		MerchantKey:   "key",
		MerchantSalt:  "salt",
		TestMode:      true,
		NoInstallment: true,
		OkURL:         "https://shop.test/ok",
		FailURL:       "https://shop.test/fail",
	}
}

func TestRequestHostedPaymentToken(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/odeme/api/get-token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())

		got = map[string]string{}
		for k := range r.PostForm {
			got[k] = r.PostForm.Get(k)
		}
		_ = json.NewEncoder(w).Encode(model.TokenResponse{Status: "success", Token: "tok_1"})
	}))
	defer srv.Close()

	c := NewPayTRClient(testPayTRConfig(srv.URL))
	token, err := c.RequestHostedPaymentToken(context.Background(), &TokenRequest{
		MerchantOID: "OID1",
		Email:       "buyer@example.com",
		PayerIP:     "10.0.0.1",
		Amount:      11800,
		Currency:    "TL",
		Basket:      []model.BasketItem{{Name: "Followers", Price: "118.00", Quantity: 1}},
		Timeout:     30 * time.Minute,
	})
	require.NoError(t, err)
	assert.Equal(t, "tok_1", token)

	assert.Equal(t, "123456", got["merchant_id"])
	assert.Equal(t, "OID1", got["merchant_oid"])
	assert.Equal(t, "11800", got["payment_amount"])
	assert.Equal(t, "1", got["test_mode"])
	assert.Equal(t, "1", got["no_installment"])
	assert.Equal(t, "30", got["timeout_limit"])
	assert.Equal(t, "https://shop.test/ok", got["merchant_ok_url"])

	basket, err := base64.StdEncoding.DecodeString(got["user_basket"])
	require.NoError(t, err)
	assert.JSONEq(t, `[["Followers","118.00",1]]`, string(basket))

	wantToken := sign("key",
		"123456", "10.0.0.1", "OID1", "buyer@example.com", "11800",
		got["user_basket"], "1", "0", "TL", "1", "salt")
	assert.Equal(t, wantToken, got["paytr_token"])
}

func TestRequestHostedPaymentTokenFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non 2xx",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
		},
		{
			name: "rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(model.TokenResponse{Status: "failed", Reason: "invalid paytr_token"})
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewPayTRClient(testPayTRConfig(srv.URL))
			_, err := c.RequestHostedPaymentToken(context.Background(), &TokenRequest{MerchantOID: "OID1", Amount: 100})
			assert.Error(t, err)
		})
	}
}

func TestVerifyCallbackSignature(t *testing.T) {
	cfg := testPayTRConfig("https://gateway.test")
	c := NewPayTRClient(cfg)

	valid := model.CallbackParams{
		MerchantOID: "OID1",
		Status:      "success",
		TotalAmount: "11800",
		Hash:        SignCallback(cfg, "OID1", "11800"),
	}

	v := c.VerifyCallbackSignature(valid)
	assert.True(t, v.Valid)
	assert.True(t, v.Success)
	assert.Equal(t, int64(11800), v.Amount)
	assert.Equal(t, "OID1", v.MerchantOID)

	tampered := valid
	tampered.TotalAmount = "1"
	assert.False(t, c.VerifyCallbackSignature(tampered).Valid)

	forged := valid
	forged.Hash = "Zm9yZ2Vk"
	assert.False(t, c.VerifyCallbackSignature(forged).Valid)

	missing := valid
	missing.Hash = ""
	assert.False(t, c.VerifyCallbackSignature(missing).Valid)

	failed := valid
	failed.Status = "failed"
	failed.FailedReasonMsg = "card declined"
	fv := c.VerifyCallbackSignature(failed)
	assert.True(t, fv.Valid)
	assert.False(t, fv.Success)
	assert.Equal(t, "card declined", fv.FailureReason)
}

func TestIframeURL(t *testing.T) {
	c := NewPayTRClient(testPayTRConfig("https://www.paytr.com/"))
	assert.Equal(t, "https://www.paytr.com/odeme/guvenli/tok", c.IframeURL("tok"))
}
