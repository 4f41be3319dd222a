package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"mgit/internal/flags"
)

// DirName is the per-directory settings folder.
const DirName = ".mgit"

// File mirrors .mgit/config.toml. Pointer fields distinguish "absent" from
// zero values.
type File struct {
	Workers       *int              `toml:"workers"`
	SlowWorkers   *int              `toml:"slow_workers"`
	Remote        *string           `toml:"remote"`
	Names         *bool             `toml:"names"`
	ConsoleFormat *string           `toml:"console_format"`
	Exclude       []string          `toml:"exclude"`
	Aliases       map[string]string `toml:"aliases"`
}

// LoadFile reads <dir>/.mgit/config.toml. A missing file yields an empty
// File; unknown keys are an error so typos surface.
func LoadFile(dir string) (File, error) {
	path := filepath.Join(dir, DirName, "config.toml")
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return File{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return f, nil
}

// Explicit reports whether a flag was set on the command line; such values
// are never overridden by the file.
type Explicit func(flag string) bool

// Apply copies file values into c for every setting not given explicitly.
// Excludes and aliases are merged, with file aliases winning.
func (f File) Apply(c *Config, explicit Explicit) {
	if explicit == nil {
		explicit = func(string) bool { return false }
	}
	if f.Workers != nil && !explicit(flags.FlagWorkers) {
		c.Runtime.Workers = *f.Workers
	}
	if f.SlowWorkers != nil && !explicit(flags.FlagSlowWorkers) {
		c.Runtime.SlowWorkers = *f.SlowWorkers
	}
	if f.Remote != nil && !explicit(flags.FlagRemote) {
		c.Runtime.Remote = *f.Remote
	}
	if f.Names != nil && !explicit(flags.FlagNames) {
		c.Scan.Names = *f.Names
	}
	if f.ConsoleFormat != nil && !explicit(flags.FlagConsoleFormat) {
		c.Output.ConsoleFormat = *f.ConsoleFormat
	}
	c.Scan.Exclude = append(c.Scan.Exclude, f.Exclude...)
	if len(f.Aliases) > 0 && c.Scan.Aliases == nil {
		c.Scan.Aliases = make(map[string]string, len(f.Aliases))
	}
	for folder, alias := range f.Aliases {
		c.Scan.Aliases[folder] = alias
	}
}

// LoadExcludes reads <dir>/.mgit/exclude: one glob per line, blank lines
// and lines starting with # ignored. A missing file yields nil.
func LoadExcludes(dir string) ([]string, error) {
	var out []string
	err := readLines(filepath.Join(dir, DirName, "exclude"), func(line string) {
		out = append(out, line)
	})
	return out, err
}

// LoadAliases reads <dir>/.mgit/alias: "folder = alias" lines. Lines without
// '=' are ignored; only the first '=' separates.
func LoadAliases(dir string) (map[string]string, error) {
	out := make(map[string]string)
	err := readLines(filepath.Join(dir, DirName, "alias"), func(line string) {
		folder, alias, ok := strings.Cut(line, "=")
		if !ok {
			return
		}
		out[strings.TrimSpace(folder)] = strings.TrimSpace(alias)
	})
	return out, err
}

func readLines(path string, fn func(line string)) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()
	return scanLines(f, fn)
}

func scanLines(r io.Reader, fn func(line string)) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fn(line)
	}
	return sc.Err()
}

// Load assembles the directory-level settings into c: exclude and alias
// files first, then config.toml.
func Load(c *Config, explicit Explicit) error {
	dir := c.Scan.Dir
	if dir == "" {
		dir = "."
	}

	excludes, err := LoadExcludes(dir)
	if err != nil {
		return fmt.Errorf("read exclude file: %w", err)
	}
	c.Scan.Exclude = append(c.Scan.Exclude, excludes...)

	aliases, err := LoadAliases(dir)
	if err != nil {
		return fmt.Errorf("read alias file: %w", err)
	}
	if len(aliases) > 0 && c.Scan.Aliases == nil {
		c.Scan.Aliases = make(map[string]string, len(aliases))
	}
	for folder, alias := range aliases {
		c.Scan.Aliases[folder] = alias
	}

	f, err := LoadFile(dir)
	if err != nil {
		return err
	}
	f.Apply(c, explicit)
	return nil
}
