package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/henri123lemoine/eatsplit/internal/config"
)

// KeyMap defines all keybindings.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding
	Home key.Binding
	End  key.Binding

	// Actions
	Select key.Binding
	Add    key.Binding
	Filter key.Binding
	Detail key.Binding

	// Forms
	NextField   key.Binding
	PrevField   key.Binding
	Submit      key.Binding
	TogglePayer key.Binding
	SwitchPrev  key.Binding
	SwitchNext  key.Binding

	// General
	Cancel key.Binding
	Quit   key.Binding
	Help   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g/home", "first"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G/end", "last"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select / deselect"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add friend"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Detail: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "details"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		TogglePayer: key.NewBinding(
			key.WithKeys(" ", "left", "right", "h", "l"),
			key.WithHelp("space", "switch payer"),
		),
		SwitchPrev: key.NewBinding(
			key.WithKeys("pgup", "ctrl+p"),
			key.WithHelp("pgup", "previous friend"),
		),
		SwitchNext: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+n"),
			key.WithHelp("pgdown", "next friend"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// KeyMapFromConfig creates a KeyMap from config settings.
func KeyMapFromConfig(cfg *config.KeysConfig) KeyMap {
	km := DefaultKeyMap()

	override := func(b *key.Binding, keys, desc string) {
		if keys == "" {
			return
		}
		*b = key.NewBinding(
			key.WithKeys(parseKeys(keys)...),
			key.WithHelp(keys, desc),
		)
	}

	override(&km.Up, cfg.Up, "up")
	override(&km.Down, cfg.Down, "down")
	override(&km.Home, cfg.Home, "first")
	override(&km.End, cfg.End, "last")
	override(&km.Select, cfg.Select, "select / deselect")
	override(&km.Add, cfg.Add, "add friend")
	override(&km.Filter, cfg.Filter, "filter")
	override(&km.Detail, cfg.Detail, "details")
	override(&km.Help, cfg.Help, "help")
	override(&km.Quit, cfg.Quit, "quit")

	return km
}

// parseKeys parses a comma-separated list of keys. "space" stands for " ".
func parseKeys(s string) []string {
	parts := strings.Split(s, ",")
	var keys []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "space" {
			p = " "
		}
		if p != "" {
			keys = append(keys, p)
		}
	}
	return keys
}

// helpSections lists the bindings shown on the help screen.
func (k KeyMap) helpSections() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Home, k.End},
		{k.Select, k.Add, k.Filter, k.Detail},
		{k.NextField, k.PrevField, k.TogglePayer, k.SwitchPrev, k.SwitchNext, k.Submit, k.Cancel},
		{k.Help, k.Quit},
	}
}
