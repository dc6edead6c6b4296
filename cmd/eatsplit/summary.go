package main

import (
	"github.com/pterm/pterm"

	"github.com/henri123lemoine/eatsplit/internal/ledger"
)

// summaryRows builds the exit table: one row per friend, then totals.
func summaryRows(l ledger.State, currency string) pterm.TableData {
	data := pterm.TableData{{"Friend", "Balance", ""}}
	for _, f := range l.Friends() {
		data = append(data, []string{f.Name, currency + f.Balance.String(), f.Describe(currency)})
	}

	t := l.Totals()
	data = append(data,
		[]string{"", "", ""},
		[]string{"Owed to you", currency + t.OwedToYou.String(), ""},
		[]string{"You owe", currency + t.YouOwe.String(), ""},
		[]string{"Net", currency + t.Net.String(), ""},
	)
	return data
}

func printSummary(l ledger.State, currency string) error {
	if l.Len() == 0 {
		return nil
	}
	pterm.DefaultSection.Println("Session balances")
	return pterm.DefaultTable.WithHasHeader().WithData(summaryRows(l, currency)).Render()
}
