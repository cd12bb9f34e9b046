package semtag

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

func versionTagGen() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		name := fmt.Sprintf("v%d.%d.%d",
			rapid.IntRange(0, 3).Draw(t, "major"),
			rapid.IntRange(0, 3).Draw(t, "minor"),
			rapid.IntRange(0, 3).Draw(t, "patch"))
		if rapid.Bool().Draw(t, "pre") {
			name += fmt.Sprintf("-rc.%d", rapid.IntRange(1, 3).Draw(t, "rc"))
		}
		return name
	})
}

func TestRapidResolve_NewerNotOlderThanOlder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		names := rapid.SliceOfN(rapid.OneOf(versionTagGen(), rapid.SampledFrom([]string{"latest", "1.0.0", "vX"})), 1, 20).Draw(t, "tags")
		tags := tagsOf(names...)

		rng, err := Resolve(tags)
		hasVersion := false
		for _, n := range names {
			hasVersion = hasVersion || IsVersionTag(n)
		}
		if !hasVersion {
			if err == nil {
				t.Fatalf("expected ErrNoVersionTags for %v", names)
			}
			return
		}
		if err != nil {
			t.Fatalf("Resolve(%v): %v", names, err)
		}

		if Compare(rng.Newer.Name, rng.Older.Name) < 0 {
			t.Fatalf("newer %s sorts below older %s", rng.Newer.Name, rng.Older.Name)
		}
		for _, n := range names {
			if IsVersionTag(n) && Compare(n, rng.Newer.Name) > 0 {
				t.Fatalf("%s outranks chosen newer %s", n, rng.Newer.Name)
			}
		}
		if !IsPrerelease(rng.Newer.Name) && IsPrerelease(rng.Older.Name) {
			t.Fatalf("prerelease %s chosen below release %s", rng.Older.Name, rng.Newer.Name)
		}
	})
}
