// Package ledger holds the friend balances for a single session.
//
// State is a value type: every transition (AddFriend, Select, ToggleAddPanel,
// SplitBill, ...) returns the next State and leaves the receiver untouched,
// so the Bubble Tea model can keep it by value. A friend's balance is positive
// when the user owes the friend and negative when the friend owes the user.
package ledger
