package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcast-ingest/internal/models"
)

// memStore is an in-memory EpisodeStore that enforces link uniqueness.
type memStore struct {
	rows        []models.Episode
	appendCalls int
	listCalls   int
	listErr     error
}

func (s *memStore) EnsureSchema(ctx context.Context) error { return nil }

func (s *memStore) ListKnownLinks(ctx context.Context) (map[string]struct{}, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.known(), nil
}

func (s *memStore) known() map[string]struct{} {
	known := make(map[string]struct{}, len(s.rows))
	for _, r := range s.rows {
		known[r.Link] = struct{}{}
	}
	return known
}

func (s *memStore) AppendEpisodes(ctx context.Context, episodes []models.Episode) error {
	s.appendCalls++
	known := s.known()
	for _, ep := range episodes {
		if _, ok := known[ep.Link]; ok {
			return errors.New("duplicate link " + ep.Link)
		}
		known[ep.Link] = struct{}{}
	}
	s.rows = append(s.rows, episodes...)
	return nil
}

func items(links ...string) []models.RemoteItem {
	out := make([]models.RemoteItem, len(links))
	for i, l := range links {
		out[i] = models.RemoteItem{
			Link:         l,
			Title:        "Title " + l,
			PublishedAt:  "Mon, 02 May 2022 22:00:00 +0000",
			Description:  "About " + l,
			EnclosureURL: "https://cdn.example.com" + l + ".mp3",
		}
	}
	return out
}

func links(episodes []models.Episode) []string {
	out := make([]string, len(episodes))
	for i, ep := range episodes {
		out[i] = ep.Link
	}
	return out
}

func TestResolveTwoRunScenario(t *testing.T) {
	store := &memStore{}
	ctx := context.Background()

	fresh, err := Resolve(ctx, items("/a", "/b"), store)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b"}, links(fresh))
	for _, ep := range fresh {
		assert.Nil(t, ep.Transcript)
	}
	assert.Equal(t, "a.mp3", fresh[0].Filename)
	assert.Equal(t, "Title /a", fresh[0].Title)
	assert.Equal(t, "Mon, 02 May 2022 22:00:00 +0000", fresh[0].Published)
	assert.Equal(t, "About /a", fresh[0].Description)

	known, err := store.ListKnownLinks(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"/a": {}, "/b": {}}, known)

	fresh, err = Resolve(ctx, items("/a", "/b", "/c"), store)
	require.NoError(t, err)
	assert.Equal(t, []string{"/c"}, links(fresh))
}

func TestResolveIsIdempotent(t *testing.T) {
	store := &memStore{}
	ctx := context.Background()

	_, err := Resolve(ctx, items("/a", "/b", "/c"), store)
	require.NoError(t, err)

	fresh, err := Resolve(ctx, items("/a", "/b", "/c"), store)
	require.NoError(t, err)
	assert.Empty(t, fresh)
	assert.Len(t, store.rows, 3)
}

func TestResolvePreservesOrder(t *testing.T) {
	store := &memStore{rows: []models.Episode{{Link: "/a"}, {Link: "/c"}}}

	fresh, err := Resolve(context.Background(), items("/a", "/b", "/c"), store)
	require.NoError(t, err)
	assert.Equal(t, []string{"/b"}, links(fresh))

	store = &memStore{}
	fresh, err = Resolve(context.Background(), items("/z", "/y", "/x"), store)
	require.NoError(t, err)
	assert.Equal(t, []string{"/z", "/y", "/x"}, links(fresh))
}

func TestResolveReadsSnapshotOnceAndWritesOnce(t *testing.T) {
	store := &memStore{}

	_, err := Resolve(context.Background(), items("/a", "/b", "/c", "/d"), store)
	require.NoError(t, err)
	assert.Equal(t, 1, store.listCalls)
	assert.Equal(t, 1, store.appendCalls)
}

func TestResolveKeepsFirstOfRepeatedLinks(t *testing.T) {
	store := &memStore{}
	in := items("/a", "/b", "/a")
	in[2].Title = "later copy"

	fresh, err := Resolve(context.Background(), in, store)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b"}, links(fresh))
	assert.Equal(t, "Title /a", fresh[0].Title)
}

func TestResolveFilenameDerivation(t *testing.T) {
	store := &memStore{}

	fresh, err := Resolve(context.Background(), items("https://example.com/ep/42"), store)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "42.mp3", fresh[0].Filename)
}

func TestResolveSurfacesStoreErrors(t *testing.T) {
	readErr := errors.New("database is locked")
	store := &memStore{listErr: readErr}

	_, err := Resolve(context.Background(), items("/a"), store)
	assert.ErrorIs(t, err, readErr)
	assert.Equal(t, 0, store.appendCalls)
}
