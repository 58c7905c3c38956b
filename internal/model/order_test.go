package model

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStateDerivedFields(t *testing.T) {
	tests := []struct {
		state   OrderState
		status  Status
		payment PaymentStatus
	}{
		{StatePending, StatusPending, PaymentPending},
		{StatePaid, StatusProcessing, PaymentPaid},
		{StateCompleted, StatusCompleted, PaymentPaid},
		{StateFailed, StatusCancelled, PaymentFailed},
		{StateExpired, StatusCancelled, PaymentExpired},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.state.Status())
			assert.Equal(t, tt.payment, tt.state.PaymentStatus())
		})
	}
}

func TestOrderStateTransitions(t *testing.T) {
	assert.True(t, StatePending.CanTransition(StatePaid))
	assert.True(t, StatePending.CanTransition(StateFailed))
	assert.True(t, StatePending.CanTransition(StateExpired))
	assert.True(t, StatePaid.CanTransition(StateCompleted))

	assert.False(t, StatePaid.CanTransition(StateExpired))
	assert.False(t, StateExpired.CanTransition(StatePaid))
	assert.False(t, StateFailed.CanTransition(StatePaid))
	assert.False(t, StateCompleted.CanTransition(StatePending))

	assert.False(t, StatePending.Terminal())
	assert.True(t, StatePaid.Terminal())
}

func TestParseOrderState(t *testing.T) {
	st, err := ParseOrderState("completed")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, st)

	_, err = ParseOrderState("processing")
	assert.Error(t, err)
}

func TestOrderItemLineTotal(t *testing.T) {
	item := OrderItem{
		Quantity:  2,
		UnitPrice: decimal.RequireFromString("100"),
		TaxRate:   decimal.RequireFromString("0.18"),
	}

	assert.True(t, decimal.RequireFromString("236").Equal(item.LineTotal()))
}

func TestCallbackParamsRoundTripThroughForm(t *testing.T) {
	form := url.Values{}
	form.Set("merchant_oid", "ABC123")
	form.Set("status", "failed")
	form.Set("total_amount", "11800")
	form.Set("hash", "xyz")
	form.Set("failed_reason_msg", "insufficient funds")

	p := ParseCallbackParams(form)
	assert.Equal(t, "ABC123", p.MerchantOID)
	assert.Equal(t, "insufficient funds", p.FailedReasonMsg)
	assert.Equal(t, form, p.Values())

	var raw map[string]string
	require.NoError(t, json.Unmarshal(p.JSON(), &raw))
	assert.Equal(t, "11800", raw["total_amount"])
	assert.NotContains(t, raw, "hash")
}

func TestBasketItemMarshalsAsTriple(t *testing.T) {
	b, err := json.Marshal([]BasketItem{{Name: "Instagram followers", Price: "118.00", Quantity: 1}})
	require.NoError(t, err)
	assert.JSONEq(t, `[["Instagram followers","118.00",1]]`, string(b))
}
