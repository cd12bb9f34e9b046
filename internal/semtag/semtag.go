// Package semtag selects the pair of version tags that bound a release.
package semtag

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/masmgr/changelog-go/internal/git"
)

// ErrNoVersionTags is returned when no tag qualifies as a release boundary.
var ErrNoVersionTags = errors.New("no semantic version tags found")

// ErrBadPattern is returned for a malformed tag glob.
var ErrBadPattern = errors.New("invalid tag pattern")

var versionPattern = regexp.MustCompile(
	`^v([0-9]+)\.([0-9]+)\.([0-9]+)` +
		`(-[0-9A-Za-z-]+(\.[0-9A-Za-z-]+)*)?` +
		`(\+[0-9A-Za-z-]+(\.[0-9A-Za-z-]+)*)?$`)

// Range is the pair of tags delimiting a release.
// Older is exclusive; Newer is the tag whose history is summarized.
type Range struct {
	Older git.Tag
	Newer git.Tag
}

// SinglePoint reports whether only one version tag was available.
func (r Range) SinglePoint() bool {
	return r.Older == r.Newer
}

// Compare returns the "older...newer" range used in compare links.
func (r Range) Compare() string {
	return r.Older.Name + "..." + r.Newer.Name
}

// Resolver picks release boundaries from a tag listing.
type Resolver struct {
	// Pattern is an optional doublestar glob a tag name must match,
	// e.g. "v1.*". Empty accepts every tag.
	Pattern string
}

type candidate struct {
	tag     git.Tag
	version *semver.Version
}

// Resolve selects the two newest version tags. Prereleases are dropped when
// the newest tag is a full release. Tags of equal precedence keep listing order.
func (r Resolver) Resolve(tags []git.Tag) (Range, error) {
	if r.Pattern != "" && !doublestar.ValidatePattern(r.Pattern) {
		return Range{}, fmt.Errorf("%w: %q", ErrBadPattern, r.Pattern)
	}

	var candidates []candidate
	for _, t := range tags {
		if r.Pattern != "" {
			if ok, _ := doublestar.Match(r.Pattern, t.Name); !ok {
				continue
			}
		}
		v, ok := parse(t.Name)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{tag: t, version: v})
	}
	if len(candidates) == 0 {
		return Range{}, ErrNoVersionTags
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return b.version.Compare(a.version)
	})

	if candidates[0].version.Prerelease() == "" {
		candidates = slices.DeleteFunc(candidates, func(c candidate) bool {
			return c.version.Prerelease() != ""
		})
	}

	rng := Range{Newer: candidates[0].tag, Older: candidates[0].tag}
	if len(candidates) > 1 {
		rng.Older = candidates[1].tag
	}
	return rng, nil
}

// Resolve selects boundaries from tags with no name filter.
func Resolve(tags []git.Tag) (Range, error) {
	return Resolver{}.Resolve(tags)
}

// IsVersionTag reports whether name is a v-prefixed semantic version.
func IsVersionTag(name string) bool {
	_, ok := parse(name)
	return ok
}

// IsPrerelease reports whether name is a version tag with a prerelease part.
func IsPrerelease(name string) bool {
	v, ok := parse(name)
	return ok && v.Prerelease() != ""
}

// Compare orders two version tag names by precedence: -1, 0 or +1.
// Names that are not version tags sort below every version tag.
func Compare(a, b string) int {
	va, okA := parse(a)
	vb, okB := parse(b)
	switch {
	case okA && okB:
		return va.Compare(vb)
	case okA:
		return 1
	case okB:
		return -1
	default:
		return 0
	}
}

func parse(name string) (*semver.Version, bool) {
	m := versionPattern.FindStringSubmatch(name)
	if m == nil {
		return nil, false
	}
	v, err := semver.NewVersion(name)
	if err == nil {
		return v, true
	}
	if m[4] == "" {
		return nil, false
	}
	// Numeric prerelease identifiers may carry leading zeros ("rc.01");
	// they compare as the number they spell.
	v, err = semver.NewVersion("v" + m[1] + "." + m[2] + "." + m[3] + trimNumericZeros(m[4]) + m[6])
	if err != nil {
		return nil, false
	}
	return v, true
}

// trimNumericZeros strips leading zeros from the all-digit identifiers of
// a "-a.b.c" prerelease part.
func trimNumericZeros(pre string) string {
	ids := strings.Split(strings.TrimPrefix(pre, "-"), ".")
	for i, id := range ids {
		if len(id) > 1 && strings.Trim(id, "0123456789") == "" {
			if id = strings.TrimLeft(id, "0"); id == "" {
				id = "0"
			}
			ids[i] = id
		}
	}
	return "-" + strings.Join(ids, ".")
}
