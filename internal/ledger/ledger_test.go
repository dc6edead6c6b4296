package ledger

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// checkExclusive fails the test if the add panel and a selection coexist.
func checkExclusive(t *testing.T, s State) {
	t.Helper()
	if _, ok := s.Selected(); ok && s.AddPanelOpen() {
		t.Fatal("add panel open while a friend is selected")
	}
	if id := s.SelectedID(); id != "" {
		if _, ok := s.Friend(id); !ok {
			t.Fatalf("selection %q does not reference a friend", id)
		}
	}
}

func TestAddFriend(t *testing.T) {
	s := New()
	next, f, err := s.AddFriend("Zoe", "https://i.pravatar.cc/48")
	if err != nil {
		t.Fatalf("AddFriend() error = %v", err)
	}

	if !f.Balance.IsZero() {
		t.Errorf("Expected zero balance, got %s", f.Balance)
	}
	if f.ID == "" {
		t.Error("Expected an ID to be generated")
	}
	if !strings.HasSuffix(f.Image, f.ID) {
		t.Errorf("Expected image %q to end in id %q", f.Image, f.ID)
	}
	if f.Image != "https://i.pravatar.cc/48?u="+f.ID {
		t.Errorf("Unexpected image %q", f.Image)
	}
	if next.Len() != 1 {
		t.Errorf("Expected 1 friend, got %d", next.Len())
	}
	if s.Len() != 0 {
		t.Error("AddFriend must not modify the receiver")
	}
}

func TestAddFriendTrimsName(t *testing.T) {
	_, f, err := New().AddFriend("  Zoe ", " https://i.pravatar.cc/48 ")
	if err != nil {
		t.Fatalf("AddFriend() error = %v", err)
	}
	if f.Name != "Zoe" {
		t.Errorf("Expected trimmed name %q, got %q", "Zoe", f.Name)
	}
	if !strings.HasPrefix(f.Image, "https://i.pravatar.cc/48?u=") {
		t.Errorf("Expected trimmed image template, got %q", f.Image)
	}
}

func TestAddFriendUniqueIDs(t *testing.T) {
	s := New()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		var f Friend
		var err error
		s, f, err = s.AddFriend("Friend", "https://i.pravatar.cc/48")
		if err != nil {
			t.Fatalf("AddFriend() error = %v", err)
		}
		if seen[f.ID] {
			t.Fatalf("Duplicate id %q", f.ID)
		}
		seen[f.ID] = true
	}
}

func TestAddFriendCollidingGenerator(t *testing.T) {
	s := New(WithIDFunc(func() string { return "same" }))
	s, first, _ := s.AddFriend("A", "img")
	s, second, _ := s.AddFriend("B", "img")
	if first.ID == second.ID {
		t.Errorf("Expected distinct ids, both %q", first.ID)
	}
	if s.Len() != 2 {
		t.Errorf("Expected 2 friends, got %d", s.Len())
	}
}

func TestAddFriendRejectsEmptyInput(t *testing.T) {
	tests := []struct {
		name     string
		friend   string
		template string
		wantErr  error
	}{
		{"empty name", "", "https://i.pravatar.cc/48", ErrEmptyName},
		{"blank name", "   ", "https://i.pravatar.cc/48", ErrEmptyName},
		{"empty image", "Zoe", "", ErrEmptyImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New().ToggleAddPanel()
			next, _, err := s.AddFriend(tt.friend, tt.template)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddFriend() error = %v, want %v", err, tt.wantErr)
			}
			if next.Len() != 0 {
				t.Errorf("Expected no friends, got %d", next.Len())
			}
			if !next.AddPanelOpen() {
				t.Error("Rejected add must leave the panel open")
			}
		})
	}
}

func TestAddFriendKeepsInsertionOrderAndClosesPanel(t *testing.T) {
	s := New(WithIDFunc(sequentialIDs())).ToggleAddPanel()
	s, _, _ = s.AddFriend("Clark", "img")
	s, _, _ = s.AddFriend("Sarah", "img")
	s, _, _ = s.AddFriend("Anthony", "img")

	if s.AddPanelOpen() {
		t.Error("Expected add panel to close after adding")
	}

	var names []string
	for _, f := range s.Friends() {
		names = append(names, f.Name)
	}
	if got := strings.Join(names, ","); got != "Clark,Sarah,Anthony" {
		t.Errorf("Expected insertion order, got %s", got)
	}
}

func TestImageURLWithExistingQuery(t *testing.T) {
	s := New(WithIDFunc(sequentialIDs()))
	_, f, _ := s.AddFriend("Zoe", "https://example.com/a.png?size=48")
	if f.Image != "https://example.com/a.png?size=48&u=id-1" {
		t.Errorf("Unexpected image %q", f.Image)
	}
}

func TestUpdateBalance(t *testing.T) {
	s := New(WithIDFunc(sequentialIDs()))
	s, f, _ := s.AddFriend("Clark", "img")

	updated := s.UpdateBalance(f.ID, dec("-7"))
	got, _ := updated.Friend(f.ID)
	if !got.Balance.Equal(dec("-7")) {
		t.Errorf("Expected balance -7, got %s", got.Balance)
	}

	orig, _ := s.Friend(f.ID)
	if !orig.Balance.IsZero() {
		t.Error("UpdateBalance must not modify the receiver")
	}

	same := s.UpdateBalance("missing", dec("5"))
	if same.Len() != 1 {
		t.Error("Unknown id should be a no-op")
	}
}

func TestSelectToggles(t *testing.T) {
	s := New(WithFriends(
		Friend{ID: "a", Name: "Clark"},
		Friend{ID: "b", Name: "Sarah"},
	))

	s = s.Select("a")
	if s.SelectedID() != "a" {
		t.Fatalf("Expected a selected, got %q", s.SelectedID())
	}

	s = s.Select("b")
	if s.SelectedID() != "b" {
		t.Fatalf("Expected b selected, got %q", s.SelectedID())
	}

	s = s.Select("b")
	if _, ok := s.Selected(); ok {
		t.Error("Selecting the selected friend should clear the selection")
	}

	s = s.Select("nope")
	if s.SelectedID() != "" {
		t.Error("Unknown id should not be selectable")
	}
}

func TestSelectionAndAddPanelAreExclusive(t *testing.T) {
	s := New(WithFriends(Friend{ID: "a", Name: "Clark"}))

	steps := []struct {
		name string
		do   func(State) State
	}{
		{"select", func(s State) State { return s.Select("a") }},
		{"open panel", func(s State) State { return s.ToggleAddPanel() }},
		{"select again", func(s State) State { return s.Select("a") }},
		{"deselect", func(s State) State { return s.Select("a") }},
		{"open panel", func(s State) State { return s.ToggleAddPanel() }},
		{"close panel", func(s State) State { return s.ToggleAddPanel() }},
		{"clear", func(s State) State { return s.ClearSelection() }},
	}

	for _, step := range steps {
		s = step.do(s)
		checkExclusive(t, s)
	}

	s = s.Select("a").ToggleAddPanel()
	if !s.AddPanelOpen() || s.SelectedID() != "" {
		t.Error("Opening the panel should clear the selection")
	}
	s = s.Select("a")
	if s.AddPanelOpen() || s.SelectedID() != "a" {
		t.Error("Selecting a friend should close the panel")
	}
}

func TestSplitBill(t *testing.T) {
	tests := []struct {
		name    string
		payer   Payer
		want    string
		wantErr error
		bill    string
		yours   string
	}{
		{name: "user pays", payer: PayerUser, bill: "100", yours: "30", want: "-70"},
		{name: "friend pays", payer: PayerFriend, bill: "100", yours: "30", want: "30"},
		{name: "user pays all of own share", payer: PayerUser, bill: "50", yours: "50", want: "0"},
		{name: "expense exceeds bill", payer: PayerUser, bill: "10", yours: "20", wantErr: ErrExpenseExceedsBill},
		{name: "negative bill", payer: PayerUser, bill: "-1", yours: "0", wantErr: ErrNegativeAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(WithFriends(Friend{ID: "a", Name: "Clark", Balance: dec("12")})).Select("a")
			next, err := s.SplitBill(Split{Bill: dec(tt.bill), YourExpense: dec(tt.yours), PaidBy: tt.payer})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SplitBill() error = %v, want %v", err, tt.wantErr)
				}
				f, _ := next.Friend("a")
				if !f.Balance.Equal(dec("12")) {
					t.Errorf("Rejected split changed balance to %s", f.Balance)
				}
				if next.SelectedID() != "a" {
					t.Error("Rejected split should keep the selection")
				}
				return
			}

			if err != nil {
				t.Fatalf("SplitBill() error = %v", err)
			}
			f, _ := next.Friend("a")
			if !f.Balance.Equal(dec(tt.want)) {
				t.Errorf("Expected balance %s, got %s", tt.want, f.Balance)
			}
			if next.SelectedID() != "" {
				t.Error("Expected selection to be cleared after split")
			}
		})
	}
}

func TestSplitBillOverwrites(t *testing.T) {
	s := New(WithFriends(Friend{ID: "a", Name: "Clark"}))
	s, _ = s.Select("a").SplitBill(Split{Bill: dec("100"), YourExpense: dec("30"), PaidBy: PayerUser})
	s, _ = s.Select("a").SplitBill(Split{Bill: dec("10"), YourExpense: dec("4"), PaidBy: PayerFriend})

	f, _ := s.Friend("a")
	if !f.Balance.Equal(dec("4")) {
		t.Errorf("Expected second split to replace the balance, got %s", f.Balance)
	}
}

func TestSplitBillWithoutSelection(t *testing.T) {
	s := New(WithFriends(Friend{ID: "a", Name: "Clark"}))
	_, err := s.SplitBill(Split{Bill: dec("10"), YourExpense: dec("5")})
	if !errors.Is(err, ErrNoSelection) {
		t.Errorf("SplitBill() error = %v, want %v", err, ErrNoSelection)
	}
}

func TestWithFriendsSkipsDuplicatesAndFillsIDs(t *testing.T) {
	s := New(
		WithIDFunc(sequentialIDs()),
		WithFriends(
			Friend{ID: "a", Name: "Clark"},
			Friend{ID: "a", Name: "Clark again"},
			Friend{Name: "Sarah"},
		),
	)

	if s.Len() != 2 {
		t.Fatalf("Expected 2 friends, got %d", s.Len())
	}
	if f := s.Friends()[1]; f.ID != "id-1" {
		t.Errorf("Expected generated id id-1, got %q", f.ID)
	}
}

func TestTotals(t *testing.T) {
	s := New(WithFriends(
		Friend{ID: "a", Name: "Clark", Balance: dec("-7")},
		Friend{ID: "b", Name: "Sarah", Balance: dec("20")},
		Friend{ID: "c", Name: "Anthony"},
	))

	got := s.Totals()
	if !got.YouOwe.Equal(dec("20")) {
		t.Errorf("YouOwe = %s, want 20", got.YouOwe)
	}
	if !got.OwedToYou.Equal(dec("7")) {
		t.Errorf("OwedToYou = %s, want 7", got.OwedToYou)
	}
	if !got.Net.Equal(dec("-13")) {
		t.Errorf("Net = %s, want -13", got.Net)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		balance string
		want    string
		status  Status
	}{
		{"20", "you owe Sarah $20", StatusYouOwe},
		{"-7", "Sarah owes you $7", StatusOwesYou},
		{"-7.5", "Sarah owes you $7.5", StatusOwesYou},
		{"0", "you and Sarah are even", StatusEven},
	}

	for _, tt := range tests {
		t.Run(tt.balance, func(t *testing.T) {
			f := Friend{Name: "Sarah", Balance: dec(tt.balance)}
			if got := f.Describe("$"); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
			if f.Status() != tt.status {
				t.Errorf("Status() = %v, want %v", f.Status(), tt.status)
			}
		})
	}
}

func TestWithImageTemplate(t *testing.T) {
	s := New(
		WithIDFunc(sequentialIDs()),
		WithImageTemplate("https://i.pravatar.cc/48"),
		WithFriends(
			Friend{Name: "Clark"},
			Friend{ID: "x", Name: "Sarah", Image: "https://example.com/sarah.png"},
		),
	)

	friends := s.Friends()
	if friends[0].Image != "https://i.pravatar.cc/48?u=id-1" {
		t.Errorf("Unexpected image %q", friends[0].Image)
	}
	if friends[1].Image != "https://example.com/sarah.png" {
		t.Errorf("Explicit image was replaced: %q", friends[1].Image)
	}
}
