package git

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// CLIReader reads tags and history by shelling out to the git binary.
// Each page is a separate "git log --skip --max-count" call, so only the
// pages actually consumed are read.
type CLIReader struct {
	opts ReadOptions
	run  func(ctx context.Context, args ...string) ([]byte, error)
}

// NewCLIReader creates a reader for the repository at opts.RepoPath.
func NewCLIReader(opts ReadOptions) *CLIReader {
	return &CLIReader{opts: opts, run: runGit}
}

func runGit(ctx context.Context, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, "git", args...).Output()
	if err != nil {
		var stderr string
		if ee, ok := err.(*exec.ExitError); ok {
			stderr = strings.TrimSpace(string(ee.Stderr))
		}
		return nil, fmt.Errorf("git %s failed: %w: %s", args[2], err, stderr)
	}
	return out, nil
}

func (r *CLIReader) repoPath() string {
	if r.opts.RepoPath == "" {
		return "."
	}
	return r.opts.RepoPath
}

// ListTags returns tags sorted by creation date, newest first.
// Annotated tags are peeled to their commit.
func (r *CLIReader) ListTags(ctx context.Context, _ int) ([]Tag, error) {
	out, err := r.run(ctx,
		"-C", r.repoPath(),
		"for-each-ref",
		"--sort=-creatordate",
		"--format=%(refname:short)%00%(objectname)%00%(*objectname)",
		"refs/tags",
	)
	if err != nil {
		return nil, err
	}
	return parseTagRefs(out)
}

func parseTagRefs(out []byte) ([]Tag, error) {
	var tags []Tag
	for _, line := range bytes.Split(out, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		fields := bytes.Split(line, []byte{0x00})
		if len(fields) != 3 {
			return nil, fmt.Errorf("unexpected for-each-ref line: %q", string(line))
		}
		commit := string(fields[2]) // peeled object of an annotated tag
		if commit == "" {
			commit = string(fields[1])
		}
		tags = append(tags, Tag{Name: string(fields[0]), CommitID: commit})
	}
	return tags, nil
}

// CommitPages walks history from ref, newest first.
func (r *CLIReader) CommitPages(ctx context.Context, ref string, pageSize int) iter.Seq2[[]CommitRecord, error] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	rev := strings.TrimSpace(ref)
	if rev == "" {
		rev = "HEAD"
	}

	// Each commit is prefixed by 0x1e (record separator) with NUL-separated fields.
	const format = "%x1e%H%x00%cI%x00%B"

	return func(yield func([]CommitRecord, error) bool) {
		for skip := 0; ; skip += pageSize {
			out, err := r.run(ctx,
				"-C", r.repoPath(),
				"log",
				"--no-color",
				"--pretty=format:"+format,
				"--skip="+strconv.Itoa(skip),
				"--max-count="+strconv.Itoa(pageSize),
				rev,
				"--",
			)
			if err != nil {
				yield(nil, err)
				return
			}

			page, err := parseLogRecords(out)
			if err != nil {
				yield(nil, err)
				return
			}
			if len(page) == 0 {
				return
			}
			if !yield(page, nil) {
				return
			}
			if len(page) < pageSize {
				return
			}
		}
	}
}

func parseLogRecords(out []byte) ([]CommitRecord, error) {
	records := bytes.Split(out, []byte{0x1e})
	results := make([]CommitRecord, 0, len(records))

	for _, rec := range records {
		if len(bytes.TrimSpace(rec)) == 0 {
			continue
		}

		fields := bytes.SplitN(rec, []byte{0x00}, 3)
		if len(fields) < 3 {
			return nil, fmt.Errorf("unexpected git log record format")
		}

		when, err := time.Parse(time.RFC3339, string(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("parse committer date: %w", err)
		}

		results = append(results, CommitRecord{
			ID:          string(fields[0]),
			CommittedAt: when,
			Subject:     strings.TrimRight(string(fields[2]), "\n"),
		})
	}

	return results, nil
}
