package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	dErrors "veritask/pkg/domain-errors"
)

// Currency is an ISO-4217 code from the fixed allow-list.
type Currency string

// Supported settlement currencies.
const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyNGN Currency = "NGN"
	CurrencyKES Currency = "KES"
	CurrencyZAR Currency = "ZAR"
)

// DefaultCurrency is used when the caller does not specify one.
const DefaultCurrency = CurrencyUSD

var validCurrencies = map[Currency]bool{
	CurrencyUSD: true,
	CurrencyEUR: true,
	CurrencyGBP: true,
	CurrencyNGN: true,
	CurrencyKES: true,
	CurrencyZAR: true,
}

// ParseCurrency constructs a Currency from external input.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(s)
	if !validCurrencies[c] {
		return "", dErrors.Newf(dErrors.CodeValidation, "unsupported currency %q", s)
	}
	return c, nil
}

// IsValid checks the currency against the allow-list.
func (c Currency) IsValid() bool {
	return validCurrencies[c]
}

func (c Currency) String() string {
	return string(c)
}

// Money is an immutable amount in a single currency.
//
// Invariants:
//   - Amount is non-negative
//   - Amount has at most 2 fractional digits
//   - Currency is on the allow-list
//
// All arithmetic returns a new instance; mixing currencies is a domain error.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a validated Money.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if amount.IsNegative() {
		return Money{}, dErrors.New(dErrors.CodeValidation, "money amount cannot be negative")
	}
	if !amount.Equal(amount.Round(2)) {
		return Money{}, dErrors.New(dErrors.CodeValidation, "money amount cannot have more than 2 decimal places")
	}
	if !currency.IsValid() {
		return Money{}, dErrors.Newf(dErrors.CodeValidation, "unsupported currency %q", currency)
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromFloat creates Money from a float, rejecting sub-cent precision.
func NewMoneyFromFloat(amount float64, currency Currency) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// MustMoney creates Money, panicking if invalid. Use only in tests or for
// literals known to be valid (rate tables).
func MustMoney(amount string, currency Currency) Money {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		panic(err)
	}
	m, err := NewMoney(d, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns 0.00 in the given currency.
func ZeroMoney(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code.
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero reports a zero amount or the uninitialized value.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return dErrors.Newf(dErrors.CodeInvariantViolation,
			"currency mismatch: %s vs %s", m.currency, other.currency)
	}
	return nil
}

// Add returns m + other. Errors on currency mismatch.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns m - other. Errors on currency mismatch or a negative result.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, dErrors.New(dErrors.CodeValidation, "money amount cannot be negative")
	}
	return Money{amount: result, currency: m.currency}, nil
}

// Multiply returns m scaled by factor, rounded to 2 decimal places.
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor).Round(2), currency: m.currency}
}

// Compare returns -1, 0 or 1. Errors on currency mismatch.
func (m Money) Compare(other Money) (int, error) {
	if err := m.sameCurrency(other); err != nil {
		return 0, err
	}
	return m.amount.Cmp(other.amount), nil
}

// Equals reports value equality (same currency, same amount).
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String renders as "25.00 USD".
func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + string(m.currency)
}

type moneyJSON struct {
	Amount   string   `json:"amount"`
	Currency Currency `json:"currency"`
}

// MarshalJSON serializes the amount as a fixed 2-decimal string to keep the
// wire format exact and reversible.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{
		Amount:   m.amount.StringFixed(2),
		Currency: m.currency,
	})
}

// UnmarshalJSON restores Money, re-running construction validation.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := decimal.NewFromString(raw.Amount)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid money amount")
	}
	parsed, err := NewMoney(d, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
