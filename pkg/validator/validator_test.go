package validator_test

import (
	"strings"
	"testing"

	"product-catalog-api/internal/delivery/dto"
	"product-catalog-api/pkg/validator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *dto.ProductRequest {
	return &dto.ProductRequest{
		Name:        "Pen",
		Price:       decimal.NewFromFloat(1.50),
		Stock:       100,
		Description: "Blue ink pen",
	}
}

func TestValidate_ValidRequest(t *testing.T) {
	cv := validator.NewValidator()
	assert.NoError(t, cv.Validate(validRequest()))
}

func TestValidate_ZeroPriceAndStockAllowed(t *testing.T) {
	cv := validator.NewValidator()

	req := validRequest()
	req.Price = decimal.Zero
	req.Stock = 0
	assert.NoError(t, cv.Validate(req))
}

func TestValidate_NegativePriceRejected(t *testing.T) {
	cv := validator.NewValidator()

	req := validRequest()
	req.Price = decimal.NewFromInt(-1)
	err := cv.Validate(req)
	require.Error(t, err)
	assert.Equal(t, "the price field must be at least 0", cv.Message(err))
}

func TestValidate_NameLengthCapped(t *testing.T) {
	cv := validator.NewValidator()

	req := validRequest()
	req.Name = strings.Repeat("a", 256)
	err := cv.Validate(req)
	require.Error(t, err)
	assert.Equal(t, "the name field must not be greater than 255 characters", cv.Message(err))
}

func TestMessage_CollapsesFieldErrorsDeterministically(t *testing.T) {
	cv := validator.NewValidator()

	req := validRequest()
	req.Name = ""
	req.Stock = -5
	req.Description = ""
	err := cv.Validate(req)
	require.Error(t, err)

	// Fields are reported by form tag name, sorted.
	assert.Equal(t,
		"the description field is required; the name field is required; the stock field must be at least 0",
		cv.Message(err))

	errors := cv.FormatValidationErrors(err)
	assert.Len(t, errors, 3)
	assert.Contains(t, errors, "name")
	assert.Contains(t, errors, "stock")
	assert.Contains(t, errors, "description")
}
