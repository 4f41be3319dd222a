package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	DefaultWorkers = 8
	DefaultRemote  = "origin"
	maxSlowWorkers = 4
)

type Config struct {
	// MAINTAINER NOTE: flags are wired in internal/cli/status.go and
	// .mgit/config.toml keys in file.go; keep both in sync with these fields.
	Scan    Scan
	Runtime Runtime
	Output  Output
	Cache   Cache
}

type Scan struct {
	// Dir is the directory whose immediate children are scanned (see --dir).
	// Empty means the current working directory.
	Dir string

	// Names shows folder names instead of aliases (see --names).
	Names bool

	// NoParallel processes repositories one at a time and prints a single
	// table at the end (see --no-parallel).
	NoParallel bool

	// Exclude lists folder-name globs to skip, merged from .mgit/exclude and
	// the config file.
	Exclude []string

	// Aliases maps folder names to display names, merged from .mgit/alias and
	// the config file.
	Aliases map[string]string
}

type Runtime struct {
	// Workers bounds the fast (local) phase worker pool (see --workers).
	Workers int

	// SlowWorkers bounds the slow (network) phase worker pool
	// (see --slow-workers). 0 means min(4, Workers).
	SlowWorkers int

	// Remote is the remote compared against and fetched (see --remote).
	Remote string

	// Verbose echoes git commands and GitHub requests to stderr.
	Verbose bool
}

type Output struct {
	// ConsoleFormat controls stdout (see --console-format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string

	// NoConsole suppresses stdout output (see --no-console).
	NoConsole bool

	// Out writes structured results to this path (see --out).
	Out string

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. Inferred from the extension when empty.
	OutFormat string

	// Report writes a Markdown report to this path (see --report).
	Report string
}

type Cache struct {
	// Clear empties the cache file and exits (see --clear-cache).
	Clear bool

	// Disabled ignores cached values for this run (see --no-cache). Results
	// are still written back.
	Disabled bool
}

func New() *Config {
	return &Config{
		Runtime: Runtime{
			Workers: DefaultWorkers,
			Remote:  DefaultRemote,
		},
		Output: Output{
			ConsoleFormat: "text",
		},
	}
}

// SlowWorkerCount resolves the slow-phase pool size.
func (r Runtime) SlowWorkerCount() int {
	if r.SlowWorkers > 0 {
		return r.SlowWorkers
	}
	return min(maxSlowWorkers, r.Workers)
}

func (c *Config) Validate() error {
	if c.Runtime.Workers <= 0 {
		return errors.New("--workers must be >= 1")
	}
	if c.Runtime.SlowWorkers < 0 {
		return errors.New("--slow-workers must be >= 0")
	}
	if c.Scan.NoParallel {
		c.Runtime.Workers = 1
		c.Runtime.SlowWorkers = 1
	}

	c.Runtime.Remote = strings.TrimSpace(c.Runtime.Remote)
	if c.Runtime.Remote == "" {
		return errors.New("--remote must not be empty")
	}

	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	switch c.Output.ConsoleFormat {
	case "":
		return errors.New("--console-format must be one of: text, json, ndjson")
	case "text", "json", "ndjson":
	default:
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			switch ext := strings.ToLower(filepath.Ext(c.Output.Out)); ext {
			case ".json":
				c.Output.OutFormat = "json"
			case ".ndjson", ".jsonl":
				c.Output.OutFormat = "ndjson"
			case "":
				return errors.New("cannot infer output format from file extension (missing extension); use --out-format")
			default:
				return fmt.Errorf("cannot infer output format from file extension %q; use --out-format", ext)
			}
		} else if c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" {
			return fmt.Errorf("unsupported output format: %s", c.Output.OutFormat)
		}
	}

	c.Scan.Exclude = normalizePatterns(c.Scan.Exclude)
	for _, p := range c.Scan.Exclude {
		if _, err := filepath.Match(p, ""); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
	}
	return nil
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func normalizePatterns(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
