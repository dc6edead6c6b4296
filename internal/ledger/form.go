package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SplitForm holds the split-bill inputs. Edits that would leave the form in
// an invalid state are rejected and the previous value is kept.
type SplitForm struct {
	bill            decimal.Decimal
	yourExpense     decimal.Decimal
	billText        string
	yourExpenseText string
	payer           Payer
}

// NewSplitForm returns an empty form paid by the user.
func NewSplitForm() SplitForm {
	return SplitForm{payer: PayerUser}
}

// parseAmount parses a non-negative decimal. Empty input is zero.
func parseAmount(text string) (decimal.Decimal, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero, true
	}
	d, err := ParseAmount(text)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// SetBill sets the bill from text. It returns false, leaving the form
// unchanged, when the text is not a non-negative number or would drop the
// bill below your expense.
func (f *SplitForm) SetBill(text string) bool {
	d, ok := parseAmount(text)
	if !ok || f.yourExpense.GreaterThan(d) {
		return false
	}
	f.bill = d
	f.billText = strings.TrimSpace(text)
	return true
}

// SetYourExpense sets your expense from text. It returns false, leaving the
// form unchanged, when the text is not a non-negative number or exceeds the bill.
func (f *SplitForm) SetYourExpense(text string) bool {
	d, ok := parseAmount(text)
	if !ok || d.GreaterThan(f.bill) {
		return false
	}
	f.yourExpense = d
	f.yourExpenseText = strings.TrimSpace(text)
	return true
}

// SetPayer sets who paid.
func (f *SplitForm) SetPayer(p Payer) {
	f.payer = p
}

// TogglePayer switches between user and friend.
func (f *SplitForm) TogglePayer() {
	f.payer = f.payer.Toggle()
}

func (f SplitForm) Bill() decimal.Decimal        { return f.bill }
func (f SplitForm) YourExpense() decimal.Decimal { return f.yourExpense }
func (f SplitForm) Payer() Payer                 { return f.payer }

// BillText is the text of the last accepted bill edit.
func (f SplitForm) BillText() string { return f.billText }

// YourExpenseText is the text of the last accepted expense edit.
func (f SplitForm) YourExpenseText() string { return f.yourExpenseText }

// FriendExpense is derived from the bill and your expense.
func (f SplitForm) FriendExpense() decimal.Decimal {
	return f.Split().FriendExpense()
}

// Ready reports whether there is a bill to split.
func (f SplitForm) Ready() bool {
	return f.bill.IsPositive()
}

// Split returns the form values as a Split.
func (f SplitForm) Split() Split {
	return Split{
		Bill:        f.bill,
		YourExpense: f.yourExpense,
		PaidBy:      f.payer,
	}
}
