package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// header is written above an encoded config.
const header = `# chordpick configuration
#
# key_groups: one pool of keys per screen, in screen order. A single group
#   labels every target.
# max_chord_length: 0 means unlimited; a cap leaves extra targets unlabelled.
# overlay: full, proportional, fixed or bar.
# exclude: gitignore-style patterns matched against "screen/name".

`

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg *Config) error {
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return nil
}

// WriteDefault writes the default configuration to path. An existing file is
// never overwritten.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s: %w", path, fs.ErrExist)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := Encode(f, Default()); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
