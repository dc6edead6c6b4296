package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Status describes which way a balance points.
type Status int

const (
	StatusEven Status = iota
	StatusYouOwe
	StatusOwesYou
)

func (s Status) String() string {
	switch s {
	case StatusYouOwe:
		return "you owe"
	case StatusOwesYou:
		return "owes you"
	default:
		return "even"
	}
}

// Friend is a single entry in the ledger.
type Friend struct {
	ID      string
	Name    string
	Image   string
	Balance decimal.Decimal
}

// Status returns the direction of the friend's balance.
func (f Friend) Status() Status {
	switch f.Balance.Sign() {
	case 1:
		return StatusYouOwe
	case -1:
		return StatusOwesYou
	default:
		return StatusEven
	}
}

// Describe returns the balance sentence shown next to the friend.
func (f Friend) Describe(currency string) string {
	amount := currency + f.Balance.Abs().String()
	switch f.Status() {
	case StatusYouOwe:
		return fmt.Sprintf("you owe %s %s", f.Name, amount)
	case StatusOwesYou:
		return fmt.Sprintf("%s owes you %s", f.Name, amount)
	default:
		return fmt.Sprintf("you and %s are even", f.Name)
	}
}

// Totals aggregates balances across all friends.
type Totals struct {
	// YouOwe is the sum of all positive balances.
	YouOwe decimal.Decimal
	// OwedToYou is the sum of all negative balances, as a positive amount.
	OwedToYou decimal.Decimal
	// Net is OwedToYou minus YouOwe.
	Net decimal.Decimal
}
