// Package app provides the main Bubble Tea application model for eatsplit.
//
// It maps key presses onto ledger transitions: toggling the add-friend
// panel, adding a friend, selecting or deselecting a friend, and submitting
// a split. Each user action results in exactly one transition. The forms
// themselves are text inputs owned by the model; which form is visible is
// derived from the ledger state, never tracked separately.
//
// The main type is Model, which implements the Bubble Tea interface
// (Init, Update, View).
package app
