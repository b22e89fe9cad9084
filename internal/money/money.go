// Package money converts between rupiah display strings and whole-rupiah
// amounts. Rupiah has no minor unit in practice, so every amount is an int64
// count of whole rupiah.
package money

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const currencyPrefix = "Rp "

var ErrInvalidAmount = errors.New("invalid money amount")

var printer = message.NewPrinter(language.Indonesian)

// Parse keeps only the digits of input, so "Rp 35.000" and "35000" both
// yield 35000. Input without any digit is an error rather than zero.
func Parse(input string) (int64, error) {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, ErrInvalidAmount
	}

	amount, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return amount, nil
}

// MustParse is Parse for compile-time constants such as seed data.
func MustParse(input string) int64 {
	amount, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return amount
}

// Format renders amount as "Rp 35.000".
func Format(amount int64) string {
	if amount < 0 {
		return "-" + currencyPrefix + printer.Sprintf("%d", -amount)
	}
	return currencyPrefix + printer.Sprintf("%d", amount)
}

// LineTotal is price x quantity. Negative inputs and products that do not
// fit in an int64 are ErrInvalidAmount.
func LineTotal(price int64, quantity int) (int64, error) {
	if price < 0 || quantity < 0 {
		return 0, ErrInvalidAmount
	}
	if quantity > 0 && price > math.MaxInt64/int64(quantity) {
		return 0, ErrInvalidAmount
	}
	return price * int64(quantity), nil
}

// Add sums two non-negative amounts, failing instead of wrapping.
func Add(a, b int64) (int64, error) {
	if a < 0 || b < 0 || a > math.MaxInt64-b {
		return 0, ErrInvalidAmount
	}
	return a + b, nil
}

// DiscountPercent returns the rounded percentage saved against original.
// ok is false when there is no meaningful discount: original missing (<= 0),
// current missing, or original not above current.
func DiscountPercent(original, current int64) (percent int, ok bool) {
	if original <= 0 || current <= 0 || original <= current {
		return 0, false
	}
	return int(math.Round(float64(original-current) / float64(original) * 100)), true
}
