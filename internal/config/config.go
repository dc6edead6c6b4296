// Package config handles eatsplit configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"

	"github.com/henri123lemoine/eatsplit/internal/ledger"
)

// ErrConfigExists is returned by CreateDefaultConfigFile when a file is
// already present and overwriting was not requested.
var ErrConfigExists = errors.New("config file already exists")

// Config represents eatsplit configuration.
type Config struct {
	General GeneralConfig  `toml:"general"`
	UI      UIConfig       `toml:"ui"`
	Keys    KeysConfig     `toml:"keys"`
	Friends []FriendConfig `toml:"friends"`
}

// GeneralConfig contains general settings.
type GeneralConfig struct {
	// Image URL the new friend's id is appended to
	ImageTemplate string `toml:"image_template"`

	// Currency symbol printed before amounts
	Currency string `toml:"currency"`

	// Who the split form starts with as payer: "user" or "friend"
	DefaultPayer string `toml:"default_payer"`
}

// UIConfig contains UI settings.
type UIConfig struct {
	// Show the image URL under each friend
	ShowImages bool `toml:"show_images"`

	// Show running totals in the header
	ShowTotals bool `toml:"show_totals"`

	// Color theme: auto, dark, light
	Theme string `toml:"theme"`
}

// KeysConfig contains keybinding settings.
type KeysConfig struct {
	Up     string `toml:"up"`
	Down   string `toml:"down"`
	Home   string `toml:"home"`
	End    string `toml:"end"`
	Select string `toml:"select"`
	Add    string `toml:"add"`
	Filter string `toml:"filter"`
	Detail string `toml:"detail"`
	Help   string `toml:"help"`
	Quit   string `toml:"quit"`
}

// FriendConfig seeds a friend at startup. Balances follow the ledger sign
// convention: positive means you owe the friend.
type FriendConfig struct {
	Name    string `toml:"name"`
	Image   string `toml:"image"`
	Balance string `toml:"balance"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			ImageTemplate: "https://i.pravatar.cc/48",
			Currency:      "$",
			DefaultPayer:  "user",
		},
		UI: UIConfig{
			ShowImages: false,
			ShowTotals: true,
			Theme:      "auto",
		},
		Keys: KeysConfig{
			Up:     "up,k",
			Down:   "down,j",
			Home:   "home,g",
			End:    "end,G",
			Select: "enter,space",
			Add:    "a",
			Filter: "/",
			Detail: "tab",
			Help:   "?",
			Quit:   "q,ctrl+c",
		},
		Friends: []FriendConfig{},
	}
}

// ConfigPath returns the path to the config file.
// Uses ~/.config/eatsplit/config.toml (XDG style) on all Unix systems.
func ConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "eatsplit", "config.toml")
	}
	home := os.Getenv("HOME")
	if home != "" {
		return filepath.Join(home, ".config", "eatsplit", "config.toml")
	}
	// Fallback to os.UserConfigDir() for Windows
	configDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "eatsplit", "config.toml")
	}
	return filepath.Join(configDir, "eatsplit", "config.toml")
}

// Load loads configuration from the config file.
func Load() (*Config, error) {
	return LoadFromPath(ConfigPath())
}

// LoadFromPath loads configuration from a specific path. A missing file
// yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	// go-toml/v2 only overwrites fields present in the file, so unspecified
	// fields keep their defaults.
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// SeedFriends converts the configured friends into ledger entries. Entries
// without a name or with an unparsable balance are skipped; Validate reports them.
func (c *Config) SeedFriends() []ledger.Friend {
	var friends []ledger.Friend
	for _, fc := range c.Friends {
		name := strings.TrimSpace(fc.Name)
		if name == "" {
			continue
		}
		balance := decimal.Zero
		if fc.Balance != "" {
			d, err := ledger.ParseAmount(fc.Balance)
			if err != nil {
				continue
			}
			balance = d
		}
		friends = append(friends, ledger.Friend{
			Name:    name,
			Image:   fc.Image,
			Balance: balance,
		})
	}
	return friends
}

// DefaultPayer returns the configured starting payer for the split form.
// Unknown values fall back to the user; Validate reports them.
func (c *Config) DefaultPayer() ledger.Payer {
	if c.General.DefaultPayer == "" {
		return ledger.PayerUser
	}
	p, err := ledger.ParsePayer(c.General.DefaultPayer)
	if err != nil {
		return ledger.PayerUser
	}
	return p
}

// CreateDefaultConfigFile writes a commented default config to path. The
// write happens under a file lock so concurrent invocations don't interleave.
func CreateDefaultConfigFile(path string, force bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	fileLock := flock.New(path + ".lock")
	if err := fileLock.Lock(); err != nil {
		return fmt.Errorf("lock config: %w", err)
	}
	defer fileLock.Unlock()

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrConfigExists)
		}
	}

	// Write atomically: write to temp file then rename
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(generateDefaultConfigContent()), 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// generateDefaultConfigContent generates a commented config file.
func generateDefaultConfigContent() string {
	var b strings.Builder
	cfg := DefaultConfig()

	b.WriteString("# eatsplit configuration\n\n")

	b.WriteString("[general]\n")
	b.WriteString("# Image URL for new friends; the friend's id is appended as ?u=<id>\n")
	fmt.Fprintf(&b, "image_template = %q\n", cfg.General.ImageTemplate)
	b.WriteString("# Currency symbol printed before amounts\n")
	fmt.Fprintf(&b, "currency = %q\n", cfg.General.Currency)
	b.WriteString("# Who the split form starts with as payer: \"user\" or \"friend\"\n")
	fmt.Fprintf(&b, "default_payer = %q\n\n", cfg.General.DefaultPayer)

	b.WriteString("[ui]\n")
	b.WriteString("# Show the image URL under each friend\n")
	fmt.Fprintf(&b, "show_images = %v\n", cfg.UI.ShowImages)
	b.WriteString("# Show what you owe and are owed in the header\n")
	fmt.Fprintf(&b, "show_totals = %v\n", cfg.UI.ShowTotals)
	b.WriteString("# Color theme: \"auto\", \"dark\", or \"light\"\n")
	fmt.Fprintf(&b, "theme = %q\n\n", cfg.UI.Theme)

	b.WriteString("[keys]\n")
	b.WriteString("# Keybindings (comma-separated for multiple keys)\n")
	fmt.Fprintf(&b, "# up = %q\n", cfg.Keys.Up)
	fmt.Fprintf(&b, "# down = %q\n", cfg.Keys.Down)
	fmt.Fprintf(&b, "# select = %q\n", cfg.Keys.Select)
	fmt.Fprintf(&b, "# add = %q\n", cfg.Keys.Add)
	fmt.Fprintf(&b, "# filter = %q\n", cfg.Keys.Filter)
	fmt.Fprintf(&b, "# detail = %q\n", cfg.Keys.Detail)
	fmt.Fprintf(&b, "# help = %q\n", cfg.Keys.Help)
	fmt.Fprintf(&b, "# quit = %q\n", cfg.Keys.Quit)

	b.WriteString("\n# Friends to start the session with.\n")
	b.WriteString("# A positive balance means you owe them, negative means they owe you.\n")
	b.WriteString("# [[friends]]\n")
	b.WriteString("# name = \"Clark\"\n")
	b.WriteString("# balance = \"-7\"\n")
	b.WriteString("#\n")
	b.WriteString("# [[friends]]\n")
	b.WriteString("# name = \"Sarah\"\n")
	b.WriteString("# image = \"https://i.pravatar.cc/48?u=933372\"\n")
	b.WriteString("# balance = \"20\"\n")

	return b.String()
}

// Validate validates the configuration and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if c.General.ImageTemplate == "" {
		warnings = append(warnings, "general.image_template is empty; friends cannot be added")
	} else if u, err := url.Parse(c.General.ImageTemplate); err != nil || u.Scheme == "" {
		warnings = append(warnings, fmt.Sprintf("general.image_template does not look like a URL: %s", c.General.ImageTemplate))
	}

	if c.General.DefaultPayer != "" {
		if _, err := ledger.ParsePayer(c.General.DefaultPayer); err != nil {
			warnings = append(warnings, fmt.Sprintf("general.default_payer: %v", err))
		}
	}

	if c.UI.Theme != "" &&
		c.UI.Theme != "auto" &&
		c.UI.Theme != "dark" &&
		c.UI.Theme != "light" {
		warnings = append(warnings, fmt.Sprintf("Invalid value for ui.theme: %s (expected auto, dark, or light)", c.UI.Theme))
	}

	names := make(map[string]bool)
	for i, f := range c.Friends {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			warnings = append(warnings, fmt.Sprintf("friends[%d]: empty name, skipped", i))
			continue
		}
		if names[strings.ToLower(name)] {
			warnings = append(warnings, fmt.Sprintf("Duplicate friend name: %s", name))
		}
		names[strings.ToLower(name)] = true

		if f.Balance != "" {
			if _, err := ledger.ParseAmount(f.Balance); err != nil {
				warnings = append(warnings, fmt.Sprintf("friends[%d] %s: invalid balance %q, skipped", i, name, f.Balance))
			}
		}
	}

	return warnings
}
