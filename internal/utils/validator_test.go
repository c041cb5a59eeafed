package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckMoney(t *testing.T) {
	ok := []string{"0", "5", "2.5", "2.50", "1.010", "-7.25", "99999999.99"}
	for _, v := range ok {
		assert.Empty(t, CheckMoney(MoneyField{Name: "price", Value: decimal.RequireFromString(v)}), v)
	}

	errs := CheckMoney(
		MoneyField{Name: "purchase_price", Value: decimal.RequireFromString("1.00")},
		MoneyField{Name: "selling_price", Value: decimal.RequireFromString("1.005")},
	)
	require.Len(t, errs, 1)
	assert.Equal(t, "selling_price", errs[0].Field)
	assert.Equal(t, "cents", errs[0].Tag)
	assert.Equal(t, "selling_price must have at most 2 decimal places", errs[0].Message)
}

func TestValidateStructDecimalMin(t *testing.T) {
	type priced struct {
		Price *decimal.Decimal `json:"price" validate:"required,min=0"`
	}

	zero := decimal.Zero
	assert.NoError(t, ValidateStruct(&priced{Price: &zero}))

	negative := decimal.RequireFromString("-0.01")
	errs := GetValidationErrors(ValidateStruct(&priced{Price: &negative}))
	require.Len(t, errs, 1)
	assert.Equal(t, "price", errs[0].Field)
	assert.Equal(t, "min", errs[0].Tag)

	errs = GetValidationErrors(ValidateStruct(&priced{}))
	require.Len(t, errs, 1)
	assert.Equal(t, "required", errs[0].Tag)
}
