// Package action implements the GitHub Actions runner contract:
// inputs from INPUT_* variables, outputs through $GITHUB_OUTPUT and
// workflow commands on stdout.
package action

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/masmgr/changelog-go/internal/git"
)

// ErrInputRequired is returned when a required input is missing or blank.
var ErrInputRequired = errors.New("input required and not supplied")

// Runner talks to the Actions runner through the environment and stdout.
type Runner struct {
	Getenv func(string) string
	Stdout io.Writer
}

// New creates a runner bound to the process environment.
func New() *Runner {
	return &Runner{Getenv: os.Getenv, Stdout: os.Stdout}
}

// Input reads the action input name from INPUT_<NAME>. Values are trimmed.
func (r *Runner) Input(name string, required bool) (string, error) {
	key := "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
	value := strings.TrimSpace(r.Getenv(key))
	if value == "" && required {
		return "", fmt.Errorf("%w: %s", ErrInputRequired, name)
	}
	return value, nil
}

// SplitList splits a comma separated input. Items are returned as given;
// an empty value yields no items.
func SplitList(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}

// Context is the workflow run the action executes in.
type Context struct {
	Repository git.Repository
	SHA        string
	ServerURL  string
	APIURL     string
}

// Context reads the run context from GITHUB_* variables.
func (r *Runner) Context() (Context, error) {
	slug := r.Getenv("GITHUB_REPOSITORY")
	repo, ok := git.ParseRepository(slug)
	if !ok {
		return Context{}, fmt.Errorf("GITHUB_REPOSITORY %q is not owner/name", slug)
	}

	ctx := Context{
		Repository: repo,
		SHA:        r.Getenv("GITHUB_SHA"),
		ServerURL:  r.Getenv("GITHUB_SERVER_URL"),
		APIURL:     r.Getenv("GITHUB_API_URL"),
	}
	if ctx.ServerURL == "" {
		ctx.ServerURL = "https://github.com"
	}
	return ctx, nil
}

// Enterprise reports whether the run targets a GitHub Enterprise server.
func (c Context) Enterprise() bool {
	return c.APIURL != "" && c.APIURL != "https://api.github.com"
}

// SetOutput publishes a step output. Values may span lines.
func (r *Runner) SetOutput(name, value string) error {
	path := r.Getenv("GITHUB_OUTPUT")
	if path == "" {
		fmt.Fprintln(r.Stdout)
		fmt.Fprintf(r.Stdout, "::set-output name=%s::%s\n", escapeProperty(name), escapeData(value))
		return nil
	}

	delimiter := "ghadelimiter_" + uuid.NewString()
	if strings.Contains(name, delimiter) || strings.Contains(value, delimiter) {
		return fmt.Errorf("output %s contains the delimiter %s", name, delimiter)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open GITHUB_OUTPUT: %w", err)
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter)
	return err
}

// Info writes a plain log line.
func (r *Runner) Info(message string) {
	fmt.Fprintln(r.Stdout, message)
}

// Failed reports err as an error annotation. The caller exits non-zero.
func (r *Runner) Failed(err error) {
	fmt.Fprintf(r.Stdout, "::error::%s\n", escapeData(err.Error()))
}

func escapeData(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A").Replace(s)
}

func escapeProperty(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C").Replace(s)
}
