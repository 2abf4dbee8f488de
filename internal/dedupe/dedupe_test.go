package dedupe

import (
	"context"
	"strings"
	"testing"

	"github.com/Nomadcxx/findedupe/internal/exclusion"
	"github.com/Nomadcxx/findedupe/internal/matching"
	"github.com/Nomadcxx/findedupe/internal/media"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }
func sizePtr(v int64) *int64 { return &v }

func movie(title string, year int, path string, size int64) *media.Fingerprint {
	return media.NewFingerprint(media.NewKey(uuid.New(), media.KindMovie), title, intPtr(year), nil, path, "/media/movies", sizePtr(size))
}

func TestClassifier_Filter(t *testing.T) {
	inside := movie("Heat", 1995, "/media/movies/Heat/Heat.1995.1080p.mkv", 100)
	sample := movie("Heat", 1995, "/media/movies/Heat/Heat.sample.mkv", 10)
	outside := movie("Heat", 1995, "/tmp/Heat.mkv", 100)
	kids := movie("Up", 2009, "/media/movies/Up/Up.mkv", 50)

	c := &Classifier{
		Roots: []string{"/media/movies"},
		Settings: &exclusion.Settings{
			LibraryIDs:   []string{"kids"},
			GlobPatterns: []string{"*.sample.*"},
		},
		Concurrency: 2,
	}

	kept, excluded, err := c.Filter(context.Background(), []Candidate{
		{LibraryID: "main", Fingerprint: inside},
		{LibraryID: "main", Fingerprint: sample},
		{LibraryID: "main", Fingerprint: outside},
		{LibraryID: "KIDS", Fingerprint: kids},
		{LibraryID: "main", Fingerprint: nil},
	})
	require.NoError(t, err)

	require.Len(t, kept, 1)
	assert.Same(t, inside, kept[0])

	reasons := make([]exclusion.Reason, 0, len(excluded))
	for _, e := range excluded {
		reasons = append(reasons, e.Decision.Reason)
	}
	assert.Equal(t, []exclusion.Reason{
		exclusion.ReasonGlob,
		exclusion.ReasonOutsideRoots,
		exclusion.ReasonLibrary,
		exclusion.ReasonMissingFingerprint,
	}, reasons)
}

func TestClassifier_FilterUsesGivenEngine(t *testing.T) {
	settings := &exclusion.Settings{PathPrefixes: []string{"/media/movies/Trash"}}
	engine := exclusion.NewEngine(nil)
	engine.UpdateExclusionRules(settings)

	c := &Classifier{Engine: engine, Roots: []string{"/media/movies"}, Settings: settings}
	kept, excluded, err := c.Filter(context.Background(), []Candidate{
		{Fingerprint: movie("Heat", 1995, "/media/movies/Trash/Heat.mkv", 1)},
		{Fingerprint: movie("Heat", 1995, "/media/movies/TrashCan/Heat.mkv", 1)},
	})
	require.NoError(t, err)
	assert.Len(t, kept, 1)
	require.Len(t, excluded, 1)
	assert.Equal(t, exclusion.ReasonPathPrefix, excluded[0].Decision.Reason)
	assert.Equal(t, "/media/movies/Trash", excluded[0].Decision.Rule)
}

func TestClassifier_FilterPaged(t *testing.T) {
	var candidates []Candidate
	for i := 0; i < 7; i++ {
		path := "/media/movies/keep.mkv"
		if i%2 == 1 {
			path = "/elsewhere/drop.mkv"
		}
		candidates = append(candidates, Candidate{LibraryID: "main", Fingerprint: movie("Heat", 1995, path, int64(i))})
	}

	c := &Classifier{Roots: []string{"/media/movies"}, PageSize: 3, Concurrency: 2}
	kept, excluded, err := c.Filter(context.Background(), candidates)
	require.NoError(t, err)
	require.Len(t, kept, 4)
	assert.Len(t, excluded, 3)
	for i, fp := range kept {
		assert.Same(t, candidates[i*2].Fingerprint, fp)
	}
}

func TestClassifier_FilterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &Classifier{Roots: []string{"/media/movies"}}
	_, _, err := c.Filter(ctx, []Candidate{
		{Fingerprint: movie("Heat", 1995, "/media/movies/Heat.mkv", 1)},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGrouper_Group(t *testing.T) {
	a := movie("Inception (2010)", 2010, "/media/movies/Inception (2010)/Inception.2010.720p.WEBRip.mkv", 2<<30)
	b := movie("Inception [1080p]", 2010, "/media/movies/Inception.2010.1080p.BluRay/Inception.mkv", 8<<30)
	c := movie("Interstellar", 2014, "/media/movies/Interstellar/Interstellar.mkv", 9<<30)
	series := media.NewFingerprint(media.NewKey(uuid.New(), media.KindSeries), "Inception", nil, nil, "/media/tv/Inception", "/media/tv", nil)

	groups := NewGrouper(matching.NewMatcher(matching.DefaultThresholds())).Group([]*media.Fingerprint{a, c, nil, series, b})
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "movie:inception", g.GroupKey)
	assert.Equal(t, media.KindMovie, g.Kind)
	assert.Equal(t, []*media.Fingerprint{a, b}, g.Candidates)
	require.NotNil(t, g.SuggestedKeeper)
	assert.Equal(t, b.Key, *g.SuggestedKeeper)
}

func TestGrouper_Transitive(t *testing.T) {
	ids := func(v string) *media.ProviderIDs {
		return media.NewProviderIDs(map[string]string{"tmdb": v})
	}
	a := media.NewFingerprint(media.NewKey(uuid.New(), media.KindMovie), "Alien", nil, ids("348"), "/m/a/Alien.mkv", "/m", nil)
	b := media.NewFingerprint(media.NewKey(uuid.New(), media.KindMovie), "Alien Director's Cut", nil, ids("348"), "/m/b/Alien.mkv", "/m", nil)
	c := media.NewFingerprint(media.NewKey(uuid.New(), media.KindMovie), "alien", nil, nil, "/m/c/Alien.mkv", "/m", nil)

	groups := (&Grouper{}).Group([]*media.Fingerprint{a, b, c})
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Candidates, 3)
}

func TestGrouper_NoDuplicates(t *testing.T) {
	groups := (&Grouper{}).Group([]*media.Fingerprint{
		movie("Heat", 1995, "/m/Heat.mkv", 1),
		movie("Up", 2009, "/m/Up.mkv", 1),
	})
	assert.Empty(t, groups)
}

func TestPlanDeletes(t *testing.T) {
	keep := movie("Heat", 1995, "/media/movies/Heat/Heat.1995.2160p.BluRay.mkv", 40)
	dupSame := movie("Heat", 1995, "/media/movies/Heat/Heat.1995.720p.mkv", 5)
	dupOther := movie("Heat", 1995, "/media/movies/Heat (1995)/Heat.mkv", 7)

	groups := (&Grouper{}).Group([]*media.Fingerprint{dupSame, keep, dupOther})
	require.Len(t, groups, 1)

	plans := PlanDeletes(groups, media.DryRun)
	require.Len(t, plans, 1)

	p := plans[0]
	assert.NotEqual(t, uuid.Nil, p.PlanID)
	assert.Equal(t, keep.Key, p.Keeper)
	assert.Equal(t, []media.Key{dupSame.Key, dupOther.Key}, p.ToDelete)
	assert.Equal(t, 2, p.ItemCount())
	assert.Equal(t, int64(12), p.TotalBytes)
	assert.Equal(t, []string{"/media/movies/Heat (1995)"}, p.FoldersToRemovePreview)
	assert.Equal(t, media.DryRun, p.Mode)
}

func TestPlanDeletes_SkipsGroupsWithoutKeeper(t *testing.T) {
	fp := movie("Heat", 1995, "/m/Heat.mkv", 1)
	plans := PlanDeletes([]media.DuplicateGroup{{GroupKey: "movie:heat", Candidates: []*media.Fingerprint{fp}}}, media.DryRun)
	assert.Empty(t, plans)
}

func TestLoadCandidates(t *testing.T) {
	input := `[
	  {"library_id": "main", "fingerprint": {
	    "key": {"item_id": "6f1c2b9e-4a8d-4a4b-9a51-0f3c2d1e7b10", "kind": "movie"},
	    "title": "The Matrix (1999)", "year": 1999,
	    "provider_ids": {"Imdb": "tt0133093"},
	    "path": "/media/movies/The Matrix/The.Matrix.mkv", "root_folder": "/media/movies"
	  }}
	]`
	candidates, err := LoadCandidates(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	fp := candidates[0].Fingerprint
	assert.Equal(t, "main", candidates[0].LibraryID)
	assert.Equal(t, media.KindMovie, fp.Key.Kind)
	assert.Equal(t, "the matrix", fp.Normalized())
	v, ok := fp.ProviderIDs.Get("imdb")
	assert.True(t, ok)
	assert.Equal(t, "tt0133093", v)

	_, err = LoadCandidates(strings.NewReader("{"))
	assert.Error(t, err)
}
