package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nahan-app/nahan/nahan/identity"
	"github.com/nahan-app/nahan/nahan/stego/tag"
)

const envPrefix = "NAHAN_"

// Config is the CLI configuration, read from config.toml.
type Config struct {
	KeyFile string `toml:"key_file"`
	// Contacts are trusted base64 X25519 public keys.
	Contacts       []string `toml:"contacts"`
	Language       string   `toml:"language"`
	Lenient        bool     `toml:"lenient"`
	CorpusFile     string   `toml:"corpus_file"`
	Workers        int      `toml:"workers"`
	CompressImages bool     `toml:"compress_images"`
	ParityShards   int      `toml:"parity_shards"`
}

func Default() Config {
	return Config{
		KeyFile:      filepath.Join(dataDir(), "nahan", "nahan.key"),
		Language:     "fa",
		ParityShards: 1,
	}
}

func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultPath is $XDG_CONFIG_HOME/nahan/config.toml, or the platform
// equivalent.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			dir = "."
		}
	}
	return filepath.Join(dir, "nahan", "config.toml")
}

// Load reads path (DefaultPath when empty) over the defaults and applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	if err := ApplyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read is Load without environment overrides. Use it to edit and Save a
// file without persisting NAHAN_* values.
func Read(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as TOML, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// ApplyEnvOverrides applies NAHAN_* variables on top of cfg.
func ApplyEnvOverrides(cfg *Config) error {
	if v, ok := env("KEY_FILE"); ok {
		cfg.KeyFile = v
	}
	if v, ok := env("LANGUAGE"); ok {
		cfg.Language = v
	}
	if v, ok := env("CORPUS_FILE"); ok {
		cfg.CorpusFile = v
	}
	if v, ok := env("CONTACTS"); ok {
		cfg.Contacts = nil
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				cfg.Contacts = append(cfg.Contacts, c)
			}
		}
	}
	for name, dst := range map[string]*bool{"LENIENT": &cfg.Lenient, "COMPRESS_IMAGES": &cfg.CompressImages} {
		if v, ok := env(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("config: %s%s: %w", envPrefix, name, err)
			}
			*dst = b
		}
	}
	for name, dst := range map[string]*int{"WORKERS": &cfg.Workers, "PARITY_SHARDS": &cfg.ParityShards} {
		if v, ok := env(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("config: %s%s: %w", envPrefix, name, err)
			}
			*dst = n
		}
	}
	return nil
}

func env(name string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(envPrefix + name))
	return v, v != ""
}

// TrustedKeys parses Contacts.
func (c Config) TrustedKeys() ([][identity.KeySize]byte, error) {
	keys := make([][identity.KeySize]byte, 0, len(c.Contacts))
	for _, s := range c.Contacts {
		k, err := identity.ParsePublicKey(s)
		if err != nil {
			return nil, fmt.Errorf("config: contact %q: %w", s, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// AddContact appends key to Contacts unless it is already there.
func (c *Config) AddContact(key string) bool {
	if slices.Contains(c.Contacts, key) {
		return false
	}
	c.Contacts = append(c.Contacts, key)
	return true
}

func (c Config) Mode() tag.Mode {
	if c.Lenient {
		return tag.Lenient
	}
	return tag.Strict
}
