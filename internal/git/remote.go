package git

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5"
)

// RemoteRepository derives owner/name from a remote URL of the local clone.
func RemoteRepository(repoPath, remoteName string) (Repository, error) {
	if remoteName == "" {
		remoteName = git.DefaultRemoteName
	}

	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Repository{}, err
	}

	remote, err := repo.Remote(remoteName)
	if err != nil {
		return Repository{}, fmt.Errorf("remote %s: %w", remoteName, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return Repository{}, fmt.Errorf("remote %s has no URL", remoteName)
	}

	r, ok := RepositoryFromURL(urls[0])
	if !ok {
		return Repository{}, fmt.Errorf("cannot derive owner/name from remote URL %q", urls[0])
	}
	return r, nil
}

// RepositoryFromURL extracts owner/name from an https, ssh or scp-like
// (git@host:owner/name.git) remote URL.
func RepositoryFromURL(raw string) (Repository, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Repository{}, false
	}

	var path string
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return Repository{}, false
		}
		path = u.Path
	} else if _, rest, ok := strings.Cut(raw, ":"); ok {
		path = rest
	} else {
		return Repository{}, false
	}

	path = strings.Trim(path, "/")
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return Repository{}, false
	}
	return ParseRepository(strings.Join(parts[len(parts)-2:], "/"))
}
