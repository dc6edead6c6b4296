package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/henri123lemoine/eatsplit/internal/ledger"
)

// State constants (matching app.State)
const (
	StateList = iota
	StateAddFriend
	StateSplit
	StateFilter
	StateHelp
)

// Split form fields, in tab order.
const (
	FieldBill = iota
	FieldYourExpense
	FieldPayer
)

// Add form fields, in tab order.
const (
	FieldName = iota
	FieldImage
)

// HelpBinding represents a keybinding for help display.
type HelpBinding struct {
	Keys string
	Desc string
}

// HelpSection represents a section of help bindings.
type HelpSection struct {
	Title    string
	Bindings []HelpBinding
}

// SplitParams is what the split form needs to render.
type SplitParams struct {
	Friend        ledger.Friend
	BillInput     string
	ExpenseInput  string
	FriendExpense decimal.Decimal
	// YourExpense is the floor for the bill; lowering it further is rejected
	YourExpense decimal.Decimal
	Payer       ledger.Payer
	Focus       int
}

// RenderParams contains all parameters needed for rendering.
type RenderParams struct {
	State        int
	Friends      []ledger.Friend
	Cursor       int
	SelectedID   string
	ViewOffset   int
	VisibleCount int
	Width        int
	Height       int
	Currency     string
	Totals       ledger.Totals
	ShowTotals   bool
	ShowImages   bool
	ShowDetail   bool
	FilterInput  string
	FilterValue  string
	AddNameInput string
	AddImgInput  string
	AddFocus     int
	Split        *SplitParams
	Status       string
	HelpSections []HelpSection
}

// MinWidth is the absolute minimum terminal width we try to support.
const MinWidth = 30

// MinHeight is the absolute minimum terminal height we try to support.
const MinHeight = 8

// SideBySideWidth is the width from which forms render next to the list.
const SideBySideWidth = 100

// Render renders the full UI.
func Render(p RenderParams) string {
	if p.Width < MinWidth {
		p.Width = MinWidth
	}
	if p.Height < MinHeight {
		p.Height = MinHeight
	}

	switch p.State {
	case StateHelp:
		return renderHelp(p)
	case StateAddFriend:
		return withPanel(p, renderAddFriend(p))
	case StateSplit:
		if p.Split == nil {
			return renderList(p)
		}
		return withPanel(p, renderSplit(p))
	default:
		return renderList(p)
	}
}

// withPanel places a form next to the list on wide terminals and below it
// on narrow ones.
func withPanel(p RenderParams, panel string) string {
	if p.Width >= SideBySideWidth {
		lp := p
		lp.Width = p.Width / 2
		list := renderList(lp)
		return lipgloss.JoinHorizontal(lipgloss.Top, list, wrapInFormBox(panel, p.Width-lipgloss.Width(list)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, renderList(p), wrapInFormBox(panel, p.Width))
}

// renderList renders the friend list.
func renderList(p RenderParams) string {
	var b strings.Builder
	contentWidth := p.Width - 6 // Account for box borders and padding

	header := HeaderStyle.Render("FRIENDS")
	if p.ShowTotals {
		header += "  " + renderTotals(p.Totals, p.Currency)
	}
	b.WriteString(header + "\n")

	if p.State == StateFilter || p.FilterValue != "" {
		b.WriteString(HeaderStyle.Render("FILTER") + "  " + p.FilterInput + "\n")
	}
	b.WriteString(divider(contentWidth) + "\n")

	if len(p.Friends) == 0 {
		if p.FilterValue != "" {
			b.WriteString("\n" + PathStyle.Render("No matches found.") + "\n")
		} else {
			b.WriteString("\n" + PathStyle.Render("No friends yet. Press 'a' to add one.") + "\n")
		}
	} else {
		startIdx, endIdx := visibleRange(p.ViewOffset, p.VisibleCount, len(p.Friends))

		if startIdx > 0 {
			b.WriteString(PathStyle.Render(fmt.Sprintf("  ↑ %d more above", startIdx)) + "\n")
		}

		for i := startIdx; i < endIdx; i++ {
			f := p.Friends[i]
			b.WriteString(renderFriendEntry(f, i == p.Cursor, f.ID == p.SelectedID, p))
			if i < endIdx-1 {
				b.WriteString("\n")
			}
		}

		if endIdx < len(p.Friends) {
			b.WriteString("\n" + PathStyle.Render(fmt.Sprintf("  ↓ %d more below", len(p.Friends)-endIdx)))
		}
	}

	if p.Status != "" {
		b.WriteString("\n\n" + StatusStyle.Render(p.Status))
	}

	b.WriteString("\n" + divider(contentWidth) + "\n")
	b.WriteString(HelpStyle.Render(listHelp(p)))

	return wrapInBox(b.String(), p.Width)
}

func listHelp(p RenderParams) string {
	switch p.State {
	case StateFilter:
		return "enter keep • esc clear"
	case StateAddFriend:
		return compactHelp("tab next field • enter add • esc close", "tab•enter•esc", p.Width)
	case StateSplit:
		return compactHelp(
			"tab next field • space payer • enter split • pgup/pgdown friend • a add • esc cancel",
			"tab•space•enter•pgup•pgdn•a•esc",
			p.Width,
		)
	}
	return compactHelp(
		"enter select • a add friend • / filter • tab detail • ? help • q quit",
		"enter•a•/•tab•?•q",
		p.Width,
	)
}

func renderTotals(t ledger.Totals, currency string) string {
	parts := []string{
		OwesYouStyle.Render("owed " + currency + t.OwedToYou.String()),
		YouOweStyle.Render("owing " + currency + t.YouOwe.String()),
	}
	return strings.Join(parts, PathStyle.Render(" • "))
}

// renderFriendEntry renders a single friend row.
func renderFriendEntry(f ledger.Friend, cursor, selected bool, p RenderParams) string {
	var lines []string

	marker := "  "
	name := NameStyle.Render(f.Name)
	if cursor {
		marker = SelectedStyle.Render(SymbolCursor + " ")
		name = SelectedStyle.Render(f.Name)
	}
	if selected {
		name += " " + SelectedStyle.Render(SymbolSelected)
	}
	lines = append(lines, marker+name)

	indent := "    "
	lines = append(lines, indent+BalanceStyle(f.Status()).Render(f.Describe(p.Currency)))

	if p.ShowImages && f.Image != "" {
		lines = append(lines, indent+PathStyle.Render(f.Image))
	}

	if cursor && p.ShowDetail {
		lines = append(lines, renderDetailPanel(f, p.Currency))
	}

	return strings.Join(lines, "\n")
}

// renderDetailPanel renders the expanded detail panel for a friend.
func renderDetailPanel(f ledger.Friend, currency string) string {
	indent := "      "
	rows := [][2]string{
		{"ID:      ", f.ID},
		{"Image:   ", f.Image},
		{"Balance: ", currency + f.Balance.String()},
		{"Status:  ", f.Status().String()},
	}

	var b strings.Builder
	for i, row := range rows {
		b.WriteString(indent + PathStyle.Render(row[0]) + row[1])
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderAddFriend renders the add-friend form.
func renderAddFriend(p RenderParams) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Add a friend") + "\n\n")
	b.WriteString(label("Friend name", p.AddFocus == FieldName) + "\n")
	b.WriteString(p.AddNameInput + "\n\n")
	b.WriteString(label("Image URL", p.AddFocus == FieldImage) + "\n")
	b.WriteString(p.AddImgInput + "\n")

	return b.String()
}

// renderSplit renders the split-bill form for the selected friend.
func renderSplit(p RenderParams) string {
	s := p.Split
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Split a bill with "+s.Friend.Name) + "\n\n")

	b.WriteString(label("Bill value", s.Focus == FieldBill) + "\n")
	b.WriteString(s.BillInput + "\n")
	if s.YourExpense.IsPositive() {
		b.WriteString(DisabledStyle.Render("  at least "+p.Currency+s.YourExpense.String()+"; clear your expense to go lower") + "\n")
	}
	b.WriteString("\n")

	b.WriteString(label("Your expense", s.Focus == FieldYourExpense) + "\n")
	b.WriteString(s.ExpenseInput + "\n\n")

	b.WriteString(LabelStyle.Render(s.Friend.Name+"'s expense") + "\n")
	b.WriteString(DisabledStyle.Render("  "+p.Currency+s.FriendExpense.String()) + "\n\n")

	b.WriteString(label("Who's paying the bill?", s.Focus == FieldPayer) + "\n")
	b.WriteString(renderPayer(s.Payer, s.Friend.Name) + "\n")

	return b.String()
}

func renderPayer(p ledger.Payer, friendName string) string {
	you, friend := NormalStyle.Render("  You"), NormalStyle.Render("  "+friendName)
	if p == ledger.PayerUser {
		you = SelectedStyle.Render(SymbolCursor + " You")
	} else {
		friend = SelectedStyle.Render(SymbolCursor + " " + friendName)
	}
	return you + "   " + friend
}

func label(text string, focused bool) string {
	if focused {
		return FocusedLabelStyle.Render(text)
	}
	return LabelStyle.Render(text)
}

// renderHelp renders the help screen.
func renderHelp(p RenderParams) string {
	var b strings.Builder
	contentWidth := p.Width - 6

	b.WriteString(HeaderStyle.Render("HELP") + "\n")
	b.WriteString(divider(contentWidth) + "\n\n")

	for i, section := range p.HelpSections {
		b.WriteString(NameStyle.Render(section.Title) + "\n")
		b.WriteString(divider(40) + "\n")
		for _, binding := range section.Bindings {
			// Pad keys to 10 chars for alignment
			keys := binding.Keys
			if len(keys) < 10 {
				keys = keys + strings.Repeat(" ", 10-len(keys))
			}
			b.WriteString(PathStyle.Render("  "+keys) + " " + binding.Desc + "\n")
		}
		if i < len(p.HelpSections)-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n" + divider(contentWidth) + "\n")
	b.WriteString(HelpStyle.Render("Press any key to close"))

	return wrapInBox(b.String(), p.Width)
}

func visibleRange(offset, count, total int) (int, int) {
	if count <= 0 {
		count = total
	}
	start := offset
	if start >= total || start < 0 {
		start = 0
	}
	end := start + count
	if end > total {
		end = total
	}
	return start, end
}

func divider(width int) string {
	if width < 1 {
		width = 1
	}
	return DividerStyle.Render(strings.Repeat(SymbolDivider, width))
}

// wrapInBox wraps content in a box.
func wrapInBox(content string, width int) string {
	boxWidth := width - 2
	if boxWidth < MinWidth-2 {
		boxWidth = MinWidth - 2
	}
	return BoxStyle.Width(boxWidth).Render(content)
}

func wrapInFormBox(content string, width int) string {
	boxWidth := width - 2
	if boxWidth < MinWidth-2 {
		boxWidth = MinWidth - 2
	}
	return FormBoxStyle.Width(boxWidth).Render(content)
}

// compactHelp returns a shortened help string for small terminals.
func compactHelp(full, compact string, width int) string {
	if width >= 80 {
		return full
	}
	return compact
}
