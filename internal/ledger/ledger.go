package ledger

import (
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyName is returned when a friend is added without a name.
	ErrEmptyName = errors.New("friend name is empty")
	// ErrEmptyImage is returned when a friend is added without an image template.
	ErrEmptyImage = errors.New("image template is empty")
	// ErrNoSelection is returned when a split is submitted with no friend selected.
	ErrNoSelection = errors.New("no friend selected")
)

// State is the whole ledger: the friends, the current selection and whether
// the add-friend panel is open. The zero value is an empty ledger that
// generates UUIDs for new friends.
type State struct {
	friends      []Friend
	selectedID   string
	addPanelOpen bool
	newID        func() string
}

type options struct {
	friends       []Friend
	newID         func() string
	imageTemplate string
}

// Option configures a new State.
type Option func(*options)

// WithFriends seeds the ledger. Entries without an ID get a fresh one;
// entries whose ID is already present are skipped.
func WithFriends(friends ...Friend) Option {
	return func(o *options) {
		o.friends = append(o.friends, friends...)
	}
}

// WithImageTemplate gives seeded friends without an image one built from
// template, the same way AddFriend does.
func WithImageTemplate(template string) Option {
	return func(o *options) {
		o.imageTemplate = template
	}
}

// WithIDFunc replaces the ID generator.
func WithIDFunc(fn func() string) Option {
	return func(o *options) {
		o.newID = fn
	}
}

// New creates a ledger.
func New(opts ...Option) State {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := State{newID: o.newID}
	for _, f := range o.friends {
		if f.ID == "" {
			f.ID = s.uniqueID()
		}
		if s.indexOf(f.ID) >= 0 {
			continue
		}
		if f.Image == "" && o.imageTemplate != "" {
			f.Image = imageURL(o.imageTemplate, f.ID)
		}
		s.friends = append(s.friends, f)
	}
	return s
}

func (s State) generateID() string {
	if s.newID != nil {
		return s.newID()
	}
	return uuid.NewString()
}

// uniqueID falls back to a UUID if the configured generator collides.
func (s State) uniqueID() string {
	id := s.generateID()
	if s.indexOf(id) >= 0 {
		id = uuid.NewString()
	}
	return id
}

func (s State) indexOf(id string) int {
	return slices.IndexFunc(s.friends, func(f Friend) bool { return f.ID == id })
}

// Friends returns a copy of the friends in insertion order.
func (s State) Friends() []Friend {
	return slices.Clone(s.friends)
}

// Len returns the number of friends.
func (s State) Len() int {
	return len(s.friends)
}

// Friend looks up a friend by ID.
func (s State) Friend(id string) (Friend, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return Friend{}, false
	}
	return s.friends[i], true
}

// Selected returns the selected friend, if any.
func (s State) Selected() (Friend, bool) {
	if s.selectedID == "" {
		return Friend{}, false
	}
	return s.Friend(s.selectedID)
}

// SelectedID returns the selected friend's ID or "".
func (s State) SelectedID() string {
	return s.selectedID
}

// AddPanelOpen reports whether the add-friend panel is visible.
func (s State) AddPanelOpen() bool {
	return s.addPanelOpen
}

// AddFriend appends a new friend with a zero balance and closes the add
// panel. The image is the template with the new ID as a "u" query parameter.
// On error the returned State is the receiver, unchanged.
func (s State) AddFriend(name, imageTemplate string) (State, Friend, error) {
	name = strings.TrimSpace(name)
	imageTemplate = strings.TrimSpace(imageTemplate)
	if name == "" {
		return s, Friend{}, ErrEmptyName
	}
	if imageTemplate == "" {
		return s, Friend{}, ErrEmptyImage
	}

	id := s.uniqueID()

	f := Friend{
		ID:      id,
		Name:    name,
		Image:   imageURL(imageTemplate, id),
		Balance: decimal.Zero,
	}

	next := s
	next.friends = append(slices.Clone(s.friends), f)
	next.addPanelOpen = false
	return next, f, nil
}

func imageURL(template, id string) string {
	sep := "?"
	if strings.Contains(template, "?") {
		sep = "&"
	}
	return template + sep + "u=" + id
}

// UpdateBalance overwrites the balance of the friend with the given ID.
// Unknown IDs are ignored.
func (s State) UpdateBalance(id string, balance decimal.Decimal) State {
	i := s.indexOf(id)
	if i < 0 {
		return s
	}
	next := s
	next.friends = slices.Clone(s.friends)
	next.friends[i].Balance = balance
	return next
}

// Select toggles the selection: selecting the selected friend clears it,
// selecting another friend selects it and closes the add panel.
// Unknown IDs are ignored.
func (s State) Select(id string) State {
	if s.indexOf(id) < 0 {
		return s
	}
	next := s
	if s.selectedID == id {
		next.selectedID = ""
		return next
	}
	next.selectedID = id
	next.addPanelOpen = false
	return next
}

// ToggleAddPanel flips the add panel and clears any selection.
func (s State) ToggleAddPanel() State {
	next := s
	next.addPanelOpen = !s.addPanelOpen
	next.selectedID = ""
	return next
}

// ClearSelection deselects the current friend.
func (s State) ClearSelection() State {
	next := s
	next.selectedID = ""
	return next
}

// SplitBill validates the split, overwrites the selected friend's balance
// with the result and clears the selection.
func (s State) SplitBill(split Split) (State, error) {
	f, ok := s.Selected()
	if !ok {
		return s, ErrNoSelection
	}
	if err := split.Validate(); err != nil {
		return s, err
	}
	return s.UpdateBalance(f.ID, split.Balance()).ClearSelection(), nil
}

// Totals sums balances across all friends.
func (s State) Totals() Totals {
	var t Totals
	for _, f := range s.friends {
		switch f.Status() {
		case StatusYouOwe:
			t.YouOwe = t.YouOwe.Add(f.Balance)
		case StatusOwesYou:
			t.OwedToYou = t.OwedToYou.Add(f.Balance.Neg())
		}
	}
	t.Net = t.OwedToYou.Sub(t.YouOwe)
	return t
}
