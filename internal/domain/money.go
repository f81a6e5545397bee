package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrAmountMismatch is returned when advance and remaining do not add up to the total
var ErrAmountMismatch = errors.New("advance and remaining amounts do not add up to total")

// ErrNegativeAmount is returned for negative monetary values
var ErrNegativeAmount = errors.New("amount must not be negative")

// MoneyScale number of decimal places kept for amounts
const MoneyScale = 2

// ValidateAmounts checks advance + remaining == total at creation time
func ValidateAmounts(total, advance, remaining decimal.Decimal) error {
	for name, v := range map[string]decimal.Decimal{"total": total, "advance": advance, "remaining": remaining} {
		if v.IsNegative() {
			return fmt.Errorf("%w: %s=%s", ErrNegativeAmount, name, v.StringFixed(MoneyScale))
		}
	}

	if !advance.Add(remaining).Equal(total) {
		return fmt.Errorf("%w: %s + %s != %s", ErrAmountMismatch,
			advance.StringFixed(MoneyScale), remaining.StringFixed(MoneyScale), total.StringFixed(MoneyScale))
	}
	return nil
}

// SplitAmount derives the remaining amount from total and advance
func SplitAmount(total, advance decimal.Decimal) (decimal.Decimal, error) {
	remaining := total.Sub(advance)
	if err := ValidateAmounts(total, advance, remaining); err != nil {
		return decimal.Zero, err
	}
	return remaining, nil
}
