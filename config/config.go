// Package config loads layered configuration: defaults, a config file,
// CHANGELOG_* environment variables and command line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrInvalidConfig is returned when a value fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// History sources.
const (
	SourceGitHub = "github"
	SourceGoGit  = "gogit"
	SourceGitCLI = "gitcli"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CHANGELOG_"

var (
	sources = []string{SourceGitHub, SourceGoGit, SourceGitCLI}
	formats = []string{"markdown", "json", "csv", "ci", "console"}

	// Config file names searched in the working and home directories.
	fileNames = []string{".changelog.yaml", ".changelog.yml", ".changelog.json"}
)

// Config is the root configuration structure.
type Config struct {
	Repository string       `koanf:"repository"` // owner/name
	Source     string       `koanf:"source"`
	RepoPath   string       `koanf:"repo_path"`
	Ref        string       `koanf:"ref"`
	Exclude    []string     `koanf:"exclude"`
	TagPattern string       `koanf:"tag_pattern"`
	PageSize   int          `koanf:"page_size"`
	GitHub     GitHubConfig `koanf:"github"`
	Header     HeaderConfig `koanf:"header"`
	Output     OutputConfig `koanf:"output"`
}

// GitHubConfig holds API access settings.
type GitHubConfig struct {
	Token     string `koanf:"token"`
	APIURL    string `koanf:"api_url"`
	ServerURL string `koanf:"server_url"`
}

// HeaderConfig controls the document header.
type HeaderConfig struct {
	UTCOffsetHours int `koanf:"utc_offset_hours"`
}

// OutputConfig selects the report writer.
type OutputConfig struct {
	Format string `koanf:"format"`
	Path   string `koanf:"path"`
}

// Location returns the zone the header time is rendered in.
func (h HeaderConfig) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+03d:00", h.UTCOffsetHours), h.UTCOffsetHours*60*60)
}

// Defaults returns the default value of every key.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"repository":              "",
		"source":                  SourceGitHub,
		"repo_path":               ".",
		"ref":                     "",
		"exclude":                 []string{},
		"tag_pattern":             "",
		"page_size":               100,
		"github.token":            "",
		"github.api_url":          "",
		"github.server_url":       "https://github.com",
		"header.utc_offset_hours": 9,
		"output.format":           "markdown",
		"output.path":             "",
	}
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg, err := unmarshal(newKoanf())
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// Path is an explicit config file. It must exist when set.
	Path string
	// WorkDir and HomeDir are searched for a config file when Path is
	// empty. They default to the current and user home directories.
	WorkDir string
	HomeDir string
	// Overrides are applied last, keyed like Defaults.
	Overrides map[string]interface{}
}

// Load loads configuration from defaults, file, environment and overrides.
func Load(opts LoadOptions) (*Config, error) {
	k := newKoanf()

	path, err := resolvePath(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadFile(k, path); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	for key, value := range opts.Overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to apply %s: %w", key, err)
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newKoanf() *koanf.Koanf {
	k := koanf.New(".")
	for key, value := range Defaults() {
		k.Set(key, value)
	}
	return k
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Exclude = splitItems(cfg.Exclude)
	return &cfg, nil
}

func resolvePath(opts LoadOptions) (string, error) {
	if opts.Path != "" {
		if _, err := os.Stat(opts.Path); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return opts.Path, nil
	}

	var dirs []string
	if opts.WorkDir != "" {
		dirs = append(dirs, opts.WorkDir)
	} else {
		dirs = append(dirs, ".")
	}
	if opts.HomeDir != "" {
		dirs = append(dirs, opts.HomeDir)
	} else if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, home)
	}

	for _, dir := range dirs {
		for _, name := range fileNames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
	}
	return "", nil
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser = yaml.Parser()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		parser = json.Parser()
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return nil
}

// envTransform converts environment variable names to config keys.
// Example: CHANGELOG_GITHUB_TOKEN -> github.token, CHANGELOG_PAGE_SIZE -> page_size
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range []string{"github", "header", "output"} {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return key
}

// splitItems flattens comma separated entries and drops blanks.
func splitItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("%w: page_size %d is outside 1..100", ErrInvalidConfig, c.PageSize)
	}
	if !slices.Contains(sources, c.Source) {
		return fmt.Errorf("%w: source %q (want one of %s)", ErrInvalidConfig, c.Source, strings.Join(sources, ", "))
	}
	if !slices.Contains(formats, c.Output.Format) {
		return fmt.Errorf("%w: output.format %q (want one of %s)", ErrInvalidConfig, c.Output.Format, strings.Join(formats, ", "))
	}
	if c.Header.UTCOffsetHours < -12 || c.Header.UTCOffsetHours > 14 {
		return fmt.Errorf("%w: header.utc_offset_hours %d is outside -12..14", ErrInvalidConfig, c.Header.UTCOffsetHours)
	}
	if c.Repository != "" {
		owner, name, ok := strings.Cut(c.Repository, "/")
		if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			return fmt.Errorf("%w: repository %q is not owner/name", ErrInvalidConfig, c.Repository)
		}
	}
	return nil
}
