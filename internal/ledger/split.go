package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegativeAmount is returned when the bill or your expense is below zero.
	ErrNegativeAmount = errors.New("amount is negative")
	// ErrExpenseExceedsBill is returned when your expense is larger than the bill.
	ErrExpenseExceedsBill = errors.New("your expense exceeds the bill")
	// ErrInvalidAmount is returned for text that is not a plain decimal number.
	ErrInvalidAmount = errors.New("not a plain decimal amount")
)

// ParseAmount parses a signed plain decimal such as "12", "-7" or "33.50".
// Exponent notation is rejected so printed amounts stay bounded.
func ParseAmount(text string) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if text == "" || strings.ContainsAny(text, "eE") {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	return d, nil
}

// Payer is who paid the bill.
type Payer int

const (
	PayerUser Payer = iota
	PayerFriend
)

func (p Payer) String() string {
	if p == PayerFriend {
		return "friend"
	}
	return "user"
}

// Toggle returns the other payer.
func (p Payer) Toggle() Payer {
	if p == PayerFriend {
		return PayerUser
	}
	return PayerFriend
}

// ParsePayer accepts "user"/"you" and "friend".
func ParsePayer(s string) (Payer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "you":
		return PayerUser, nil
	case "friend":
		return PayerFriend, nil
	}
	return PayerUser, fmt.Errorf("unknown payer %q (expected user or friend)", s)
}

// Split is one bill divided between the user and the selected friend.
type Split struct {
	Bill        decimal.Decimal
	YourExpense decimal.Decimal
	PaidBy      Payer
}

// FriendExpense is the part of the bill that is not yours.
func (s Split) FriendExpense() decimal.Decimal {
	return s.Bill.Sub(s.YourExpense)
}

// Validate checks 0 <= YourExpense <= Bill.
func (s Split) Validate() error {
	if s.Bill.IsNegative() || s.YourExpense.IsNegative() {
		return ErrNegativeAmount
	}
	if s.YourExpense.GreaterThan(s.Bill) {
		return ErrExpenseExceedsBill
	}
	return nil
}

// Balance is the friend's new balance after this split. It replaces the
// previous balance rather than adding to it.
func (s Split) Balance() decimal.Decimal {
	if s.PaidBy == PayerUser {
		return s.FriendExpense().Neg()
	}
	return s.YourExpense
}
