package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultLogFileName    = "today.log"
	DefaultStore          = "memory"
	appDir                = "today"
)

type Keymap struct {
	Quit          string `toml:"quit"`
	Add           string `toml:"add"`
	Up            string `toml:"up"`
	Down          string `toml:"down"`
	Edit          string `toml:"edit"`
	Toggle        string `toml:"toggle"`
	ToggleSidebar string `toml:"toggle_sidebar"`
	Copy          string `toml:"copy"`
	Save          string `toml:"save"`
	Delete        string `toml:"delete"`
	Cancel        string `toml:"cancel"`
	NextField     string `toml:"next_field"`
	PrevField     string `toml:"prev_field"`
	AddSubtask    string `toml:"add_subtask"`
	ToggleDone    string `toml:"toggle_done"`
}

type Logging struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type Config struct {
	Store           string   `toml:"store"`
	Seed            bool     `toml:"seed"`
	SidebarExpanded bool     `toml:"sidebar_expanded"`
	Lists           []string `toml:"lists"`
	MarkdownStyle   string   `toml:"markdown_style"`
	Logging         Logging  `toml:"logging"`
	Keys            Keymap   `toml:"keys"`
}

// ResolveConfigPath picks the config file: $TODAY_CONFIG, then the XDG config dir,
// then ~/.config.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv("TODAY_CONFIG")); p != "" {
		return p
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appDir, DefaultConfigFileName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", appDir, DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

func defaultLogPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appDir, DefaultLogFileName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", appDir, DefaultLogFileName)
	}
	return ""
}

// LoadOrCreate reads the config at path, writing the defaults there first if the file
// does not exist yet.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	return Load(path)
}

// Load reads the config at path over the defaults. Blank values keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.fillDefaults()
	return cfg, nil
}

func Marshal(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) fillDefaults() {
	def := Default()
	if strings.TrimSpace(c.Store) == "" {
		c.Store = def.Store
	}
	if len(c.Lists) == 0 {
		c.Lists = def.Lists
	}
	if strings.TrimSpace(c.MarkdownStyle) == "" {
		c.MarkdownStyle = def.MarkdownStyle
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	k, d := &c.Keys, def.Keys
	for _, pair := range []struct {
		v   *string
		def string
	}{
		{&k.Quit, d.Quit},
		{&k.Add, d.Add},
		{&k.Up, d.Up},
		{&k.Down, d.Down},
		{&k.Edit, d.Edit},
		{&k.Toggle, d.Toggle},
		{&k.ToggleSidebar, d.ToggleSidebar},
		{&k.Copy, d.Copy},
		{&k.Save, d.Save},
		{&k.Delete, d.Delete},
		{&k.Cancel, d.Cancel},
		{&k.NextField, d.NextField},
		{&k.PrevField, d.PrevField},
		{&k.AddSubtask, d.AddSubtask},
		{&k.ToggleDone, d.ToggleDone},
	} {
		if *pair.v == "" {
			*pair.v = pair.def
		}
	}
}

func Default() Config {
	return Config{
		Store:           DefaultStore,
		Seed:            true,
		SidebarExpanded: true,
		Lists:           []string{"Personal", "Work", "List 1"},
		MarkdownStyle:   "auto",
		Logging: Logging{
			Level: "info",
			File:  defaultLogPath(),
		},
		Keys: Keymap{
			Quit:          "q",
			Add:           "a",
			Up:            "k",
			Down:          "j",
			Edit:          "enter",
			Toggle:        " ",
			ToggleSidebar: "b",
			Copy:          "y",
			Save:          "ctrl+s",
			Delete:        "ctrl+d",
			Cancel:        "esc",
			NextField:     "tab",
			PrevField:     "shift+tab",
			AddSubtask:    "ctrl+n",
			ToggleDone:    "ctrl+t",
		},
	}
}
