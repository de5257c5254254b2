package domain

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const moneyScale = 2

var validate = validator.New()

// Money is an amount rounded to two decimals in an ISO-4217 currency.
type Money struct {
	amount   decimal.Decimal
	currency string
}

func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if err := validate.Var(code, "required,iso4217"); err != nil {
		return Money{}, newValidation("invalid_currency", "invalid currency %q", currency)
	}
	if amount.IsNegative() {
		return Money{}, newValidation("negative_amount", "amount must not be negative")
	}
	return Money{amount: amount.Round(moneyScale), currency: code}, nil
}

// ParseMoney parses a decimal string such as "420000" or "12.50".
func ParseMoney(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, newValidation("invalid_amount", "invalid amount %q", amount)
	}
	return NewMoney(d, currency)
}

func MustMoney(amount, currency string) Money {
	m, err := ParseMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }
func (m Money) IsZero() bool            { return m.currency == "" }

func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(moneyScale) + " " + m.currency
}

type moneyJSON struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount, Currency: m.currency})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewMoney(raw.Amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
