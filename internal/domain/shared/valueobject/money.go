package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code
type Currency string

const (
	IDR Currency = "IDR"
	USD Currency = "USD"
	SGD Currency = "SGD"
	MYR Currency = "MYR"
)

const DefaultCurrency = IDR

// Money is an immutable monetary amount with a currency. Operations
// return new values and reject mixed-currency arithmetic.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{amount: amount, currency: currency}, nil
}

func NewMoneyFromInt(amount int64, currency Currency) (Money, error) {
	return NewMoney(decimal.NewFromInt(amount), currency)
}

func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// NewMoneyIDR wraps an amount in the default rupiah currency
func NewMoneyIDR(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: IDR}
}

func NewMoneyIDRFromInt(amount int64) Money {
	return NewMoneyIDR(decimal.NewFromInt(amount))
}

func NewMoneyIDRFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoneyIDR(d), nil
}

func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

func ZeroIDR() Money {
	return Zero(IDR)
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency      { return m.currency }
func (m Money) IsZero() bool            { return m.amount.IsZero() }
func (m Money) IsPositive() bool        { return m.amount.IsPositive() }
func (m Money) IsNegative() bool        { return m.amount.IsNegative() }

// with keeps the currency and swaps the amount
func (m Money) with(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: m.currency}
}

func (m Money) checkCurrency(other Money, verb string) error {
	if m.currency != other.currency {
		return fmt.Errorf("cannot %s money with different currencies: %s and %s", verb, m.currency, other.currency)
	}
	return nil
}

func (m Money) Add(other Money) (Money, error) {
	if err := m.checkCurrency(other, "add"); err != nil {
		return Money{}, err
	}
	return m.with(m.amount.Add(other.amount)), nil
}

// MustAdd panics on a currency mismatch. Use it only where both sides
// are known to share a currency.
func (m Money) MustAdd(other Money) Money {
	result, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return result
}

func (m Money) Subtract(other Money) (Money, error) {
	if err := m.checkCurrency(other, "subtract"); err != nil {
		return Money{}, err
	}
	return m.with(m.amount.Sub(other.amount)), nil
}

func (m Money) MustSubtract(other Money) Money {
	result, err := m.Subtract(other)
	if err != nil {
		panic(err)
	}
	return result
}

func (m Money) Multiply(factor decimal.Decimal) Money {
	return m.with(m.amount.Mul(factor))
}

func (m Money) MultiplyByInt(factor int64) Money {
	return m.Multiply(decimal.NewFromInt(factor))
}

func (m Money) Negate() Money {
	return m.with(m.amount.Neg())
}

func (m Money) Abs() Money {
	return m.with(m.amount.Abs())
}

func (m Money) Round(places int32) Money {
	return m.with(m.amount.Round(places))
}

// Equals requires both the amount and the currency to match
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) LessThan(other Money) (bool, error) {
	if err := m.checkCurrency(other, "compare"); err != nil {
		return false, err
	}
	return m.amount.LessThan(other.amount), nil
}

func (m Money) LessThanOrEqual(other Money) (bool, error) {
	if err := m.checkCurrency(other, "compare"); err != nil {
		return false, err
	}
	return m.amount.LessThanOrEqual(other.amount), nil
}

func (m Money) GreaterThan(other Money) (bool, error) {
	if err := m.checkCurrency(other, "compare"); err != nil {
		return false, err
	}
	return m.amount.GreaterThan(other.amount), nil
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

func (m Money) StringFixed(places int32) string {
	return m.amount.StringFixed(places)
}

type moneyJSON struct {
	Amount   string   `json:"amount"`
	Currency Currency `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{
		Amount:   m.amount.String(),
		Currency: m.currency,
	})
}

// UnmarshalJSON accepts a missing currency, defaulting to IDR, so
// request payloads can omit it
func (m *Money) UnmarshalJSON(data []byte) error {
	var v moneyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(v.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	if v.Currency == "" {
		v.Currency = DefaultCurrency
	}
	m.amount = amount
	m.currency = v.Currency
	return nil
}

// Value stores the amount only. The currency lives in a separate
// column or falls back to the default on load.
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan reads a numeric column into the amount. A nil column becomes
// zero, and an unset currency falls back to the default.
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		m.currency = DefaultCurrency
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}

	amount, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	m.amount = amount
	if m.currency == "" {
		m.currency = DefaultCurrency
	}
	return nil
}
