package validation

import (
	"testing"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int32  `json:"quantity" validate:"gt=0"`
}

type basketRequest struct {
	Items []lineRequest `json:"items" validate:"required,min=1,dive"`
	State string        `json:"state" validate:"omitempty,oneof=pending paid"`
}

func TestValidate(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&basketRequest{Items: []lineRequest{{ProductID: "p1", Quantity: 1}}}))

	err := v.Validate(&basketRequest{
		Items: []lineRequest{{ProductID: "", Quantity: 0}},
		State: "bogus",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.Invalid, apperr.KindOf(err))

	var ae *apperr.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "is required", ae.Fields["items[0].product_id"])
	assert.Equal(t, "must be greater than 0", ae.Fields["items[0].quantity"])
	assert.Equal(t, "must be one of: pending paid", ae.Fields["state"])
}

func TestValidateEmptyItems(t *testing.T) {
	err := New().Validate(&basketRequest{})

	var ae *apperr.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "is required", ae.Fields["items"])
}
