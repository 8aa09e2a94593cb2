package money

import (
	"errors"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// MaxTotal is the largest amount a single entry may carry. Beyond it a
// float64 no longer holds whole cents.
const MaxTotal = 1e12

var ErrOutOfRange = errors.New("total is not a finite amount within range")

// Total multiplies quantity by unit price and rounds the product to two
// decimal places. Rounding works on the exact binary value of the product
// with ties to even, so 1 x 2.675 is 2.67.
func Total(quantity, pricePerUnit float64) (float64, error) {
	product := quantity * pricePerUnit
	if math.IsInf(product, 0) || math.IsNaN(product) || math.Abs(product) > MaxTotal {
		return 0, ErrOutOfRange
	}

	rounded, err := decimal.NewFromString(strconv.FormatFloat(product, 'f', 2, 64))
	if err != nil {
		return 0, err
	}

	return rounded.InexactFloat64(), nil
}

// Format renders an amount with exactly two decimal places.
func Format(amount float64) string {
	if math.IsInf(amount, 0) || math.IsNaN(amount) {
		return strconv.FormatFloat(amount, 'f', 2, 64)
	}
	return decimal.NewFromFloat(amount).StringFixed(2)
}
