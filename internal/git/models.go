package git

import (
	"strings"
	"time"
)

// Tag is a named reference to a commit.
type Tag struct {
	Name     string
	CommitID string
}

// CommitRecord represents minimal information about a commit in history.
type CommitRecord struct {
	ID          string
	CommittedAt time.Time
	Subject     string // full message; only the first line is significant
}

// ShortID returns the first 8 characters of the commit ID.
func (c CommitRecord) ShortID() string {
	return ShortID(c.ID)
}

// ShortID abbreviates a commit ID to 8 characters.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Repository identifies a hosted repository as owner/name.
type Repository struct {
	Owner string
	Name  string
}

// ParseRepository parses an "owner/name" slug.
func ParseRepository(slug string) (Repository, bool) {
	owner, name, ok := strings.Cut(strings.TrimSpace(slug), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repository{}, false
	}
	return Repository{Owner: owner, Name: strings.TrimSuffix(name, ".git")}, true
}

// String returns the owner/name slug.
func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// IsZero reports whether the repository is unset.
func (r Repository) IsZero() bool {
	return r.Owner == "" && r.Name == ""
}

// URL returns the web URL of the repository on serverURL.
func (r Repository) URL(serverURL string) string {
	return strings.TrimRight(serverURL, "/") + "/" + r.Owner + "/" + r.Name
}

// DefaultPageSize is the number of records requested per page.
const DefaultPageSize = 100
