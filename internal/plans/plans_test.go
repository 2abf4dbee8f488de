package plans

import (
	"testing"

	"github.com/Nomadcxx/findedupe/internal/media"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlans() []media.DeletePlan {
	keeper := media.NewKey(uuid.New(), media.KindMovie)
	return []media.DeletePlan{
		{
			PlanID:                 uuid.New(),
			Kind:                   media.KindMovie,
			Keeper:                 keeper,
			ToDelete:               []media.Key{media.NewKey(uuid.New(), media.KindMovie), media.NewKey(uuid.New(), media.KindMovie)},
			TotalBytes:             4400000000,
			FoldersToRemovePreview: []string{"/storage2/Robots (2005)"},
		},
		{
			PlanID:     uuid.New(),
			Kind:       media.KindSeries,
			Keeper:     media.NewKey(uuid.New(), media.KindSeries),
			ToDelete:   []media.Key{media.NewKey(uuid.New(), media.KindSeries)},
			TotalBytes: 100,
		},
	}
}

func TestNewReport(t *testing.T) {
	r := NewReport("scan", media.DryRun, samplePlans())

	assert.Equal(t, 2, r.Summary.TotalGroups)
	assert.Equal(t, 3, r.Summary.FilesToDelete)
	assert.Equal(t, int64(4400000100), r.Summary.SpaceReclaimable)
	assert.False(t, r.CreatedAt.IsZero())

	empty := NewReport("scan", media.DryRun, nil)
	assert.NotNil(t, empty.Plans)
	assert.Equal(t, 0, empty.Summary.TotalGroups)
}

func TestStore_SaveLoadDelete(t *testing.T) {
	store, err := NewStore(afero.NewMemMapFs(), "/home/user/.config/findedupe/plans")
	require.NoError(t, err)
	assert.Equal(t, "/home/user/.config/findedupe/plans/duplicates.json", store.Path())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	report := NewReport("scan library.json", media.Execute, samplePlans())
	require.NoError(t, store.Save(report))

	loaded, err = store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, report.Summary, loaded.Summary)
	assert.Equal(t, media.Execute, loaded.Mode)
	require.Len(t, loaded.Plans, 2)
	assert.Equal(t, report.Plans[0].Keeper, loaded.Plans[0].Keeper)
	assert.Equal(t, report.Plans[0].ToDelete, loaded.Plans[0].ToDelete)
	assert.True(t, report.CreatedAt.Equal(loaded.CreatedAt))

	require.NoError(t, store.Delete())
	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
	assert.NoError(t, store.Delete())
}

func TestStore_LoadCorrupt(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := NewStore(fs, "/plans")
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, store.Path(), []byte("{not json"), 0644))

	_, err = store.Load()
	assert.Error(t, err)
}
