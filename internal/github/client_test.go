package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masmgr/changelog-go/internal/git"
)

const apiPrefix = "/api/v3"

var testRepo = git.Repository{Owner: "acme", Name: "widgets"}

// fakeAPI serves a fixed number of commit pages and records the pages asked for.
type fakeAPI struct {
	t           *testing.T
	tagPages    [][]string
	commitPages int
	perPage     int
	commitHits  []int
	lastSHA     string
	authHeader  string
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(apiPrefix+"/repos/acme/widgets/tags", func(w http.ResponseWriter, r *http.Request) {
		f.authHeader = r.Header.Get("Authorization")
		page := pageParam(r)
		if page < len(f.tagPages) {
			setNext(w, r, page)
		}
		var body []map[string]any
		for _, name := range f.tagPages[page-1] {
			body = append(body, map[string]any{
				"name":   name,
				"commit": map[string]any{"sha": "sha-" + name},
			})
		}
		writeJSON(f.t, w, body)
	})
	mux.HandleFunc(apiPrefix+"/repos/acme/widgets/commits", func(w http.ResponseWriter, r *http.Request) {
		page := pageParam(r)
		f.commitHits = append(f.commitHits, page)
		f.lastSHA = r.URL.Query().Get("sha")
		f.perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
		if page < f.commitPages {
			setNext(w, r, page)
		}

		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		var body []map[string]any
		for i := range 2 {
			n := (page-1)*2 + i
			body = append(body, map[string]any{
				"sha": fmt.Sprintf("c%039d", n),
				"commit": map[string]any{
					"message": fmt.Sprintf("fix: change %d\n\nbody", n),
					"committer": map[string]any{
						"date": base.Add(-time.Duration(n) * time.Hour).Format(time.RFC3339),
					},
				},
			})
		}
		writeJSON(f.t, w, body)
	})
	return mux
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func setNext(w http.ResponseWriter, r *http.Request, page int) {
	u := *r.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page+1))
	u.RawQuery = q.Encode()
	w.Header().Set("Link", fmt.Sprintf(`<http://%s%s>; rel="next"`, r.Host, u.RequestURI()))
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	api.t = t
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	c, err := NewClient(testRepo, Options{Token: "secret", APIURL: srv.URL + apiPrefix + "/"})
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(testRepo, Options{})
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = NewClient(testRepo, Options{Token: "   "})
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = NewClient(git.Repository{Owner: "acme"}, Options{Token: "x"})
	assert.Error(t, err)

	c, err := NewClient(testRepo, Options{Token: "x"})
	require.NoError(t, err)
	assert.Equal(t, testRepo, c.Repository())
}

func TestClient_ListTags_FollowsAllPages(t *testing.T) {
	api := &fakeAPI{tagPages: [][]string{{"v2.0.0", "v1.9.0"}, {"v1.8.0"}}}
	c := newTestClient(t, api)

	tags, err := c.ListTags(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, []git.Tag{
		{Name: "v2.0.0", CommitID: "sha-v2.0.0"},
		{Name: "v1.9.0", CommitID: "sha-v1.9.0"},
		{Name: "v1.8.0", CommitID: "sha-v1.8.0"},
	}, tags)
	assert.Equal(t, "Bearer secret", api.authHeader)
}

func TestClient_CommitPages(t *testing.T) {
	api := &fakeAPI{commitPages: 3}
	c := newTestClient(t, api)

	var recs []git.CommitRecord
	for page, err := range c.CommitPages(context.Background(), "deadbeef", 2) {
		require.NoError(t, err)
		recs = append(recs, page...)
	}

	require.Len(t, recs, 6)
	assert.Equal(t, []int{1, 2, 3}, api.commitHits)
	assert.Equal(t, "deadbeef", api.lastSHA)
	assert.Equal(t, 2, api.perPage)
	assert.Equal(t, fmt.Sprintf("c%039d", 0), recs[0].ID)
	assert.Equal(t, "fix: change 0\n\nbody", recs[0].Subject)
	assert.True(t, recs[1].CommittedAt.Equal(time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)))
}

func TestClient_CommitPages_Restartable(t *testing.T) {
	api := &fakeAPI{commitPages: 3}
	c := newTestClient(t, api)

	seq := c.CommitPages(context.Background(), "main", 2)
	count := func() int {
		n := 0
		for page, err := range seq {
			require.NoError(t, err)
			n += len(page)
		}
		return n
	}

	assert.Equal(t, 6, count())
	assert.Equal(t, 6, count(), "second traversal starts from the first page")
	assert.Equal(t, []int{1, 2, 3, 1, 2, 3}, api.commitHits)
}

func TestClient_CommitPages_StopsWhenConsumerStops(t *testing.T) {
	api := &fakeAPI{commitPages: 50}
	c := newTestClient(t, api)

	src := git.NewCollector(c)
	src.PageSize = 2
	stop := fmt.Sprintf("c%039d", 3)

	var n int
	for _, err := range src.Stream(context.Background(), "main", stop).All() {
		require.NoError(t, err)
		n++
	}

	assert.Equal(t, 3, n)
	assert.Equal(t, []int{1, 2}, api.commitHits, "no page after the boundary page")
}

func TestClient_CommitPages_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(testRepo, Options{Token: "bad", APIURL: srv.URL + apiPrefix + "/"})
	require.NoError(t, err)

	for _, err := range c.CommitPages(context.Background(), "main", 100) {
		require.Error(t, err)
		assert.Contains(t, err.Error(), "acme/widgets")
	}

	_, err = c.ListTags(context.Background(), 100)
	assert.Error(t, err)
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, 100, clampPageSize(0))
	assert.Equal(t, 100, clampPageSize(500))
	assert.Equal(t, 30, clampPageSize(30))
}
