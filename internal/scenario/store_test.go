package scenario_test

import (
	"fmt"
	"github.com/myrjola/dossier/internal/models"
	"github.com/myrjola/dossier/internal/scenario"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
)

func TestStore_crud(t *testing.T) {
	store := scenario.NewStore()
	require.Empty(t, store.IDs())

	saved, err := store.Save(valid())
	require.NoError(t, err)
	loaded, err := store.Load("test_crime")
	require.NoError(t, err)
	require.Equal(t, saved, loaded)

	updated := valid()
	updated.Name = "Renamed"
	_, err = store.Save(updated)
	require.NoError(t, err)
	loaded, err = store.Load("test_crime")
	require.NoError(t, err)
	require.Equal(t, "Renamed", loaded.Name)
	require.Len(t, store.List(), 1)

	require.NoError(t, store.Delete("test_crime"))
	_, err = store.Load("test_crime")
	require.ErrorIs(t, err, scenario.ErrNotFound)
	require.ErrorIs(t, store.Delete("test_crime"), scenario.ErrNotFound)
}

func TestStore_rejects(t *testing.T) {
	store := scenario.NewStore()
	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"load traversal", func() error { _, err := store.Load("../secrets"); return err }, scenario.ErrInvalidID},
		{"delete traversal", func() error { return store.Delete("test/../../secrets") }, scenario.ErrInvalidID},
		{"load missing", func() error { _, err := store.Load("missing"); return err }, scenario.ErrNotFound},
		{"save invalid", func() error {
			sc := valid()
			sc.CrimeType = ""
			_, err := store.Save(sc)
			return err
		}, scenario.ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.call(), tt.want)
		})
	}
	require.Empty(t, store.IDs(), "rejected scenarios are not stored")
}

func TestStore_sorted(t *testing.T) {
	store := scenario.NewStore()
	for _, id := range []string{"zebra", "alpha", "charlie", "bravo"} {
		sc := valid()
		sc.ID = id
		_, err := store.Save(sc)
		require.NoError(t, err)
	}
	require.Equal(t, []string{"alpha", "bravo", "charlie", "zebra"}, store.IDs())
	list := store.List()
	require.Len(t, list, 4)
	require.Equal(t, "alpha", list[0].ID)
	require.Equal(t, "zebra", list[3].ID)
}

func TestStore_returnsCopies(t *testing.T) {
	store := scenario.NewStore(valid())
	loaded, err := store.Load("test_crime")
	require.NoError(t, err)
	loaded.EvidenceTemplates[0].Label = "tampered"
	loaded.AllowedEvidenceTypes[0] = "tampered"

	again, err := store.Load("test_crime")
	require.NoError(t, err)
	require.Equal(t, "Receipt", again.EvidenceTemplates[0].Label)
	require.Equal(t, "physical", again.AllowedEvidenceTypes[0])
}

func TestStore_concurrent(t *testing.T) {
	store := scenario.NewStore()
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sc := valid()
			sc.ID = fmt.Sprintf("case-%d", i)
			sc.DefaultPublicPressure = models.PressureScale[i%len(models.PressureScale)]
			_, _ = store.Save(sc)
			_, _ = store.Load(sc.ID)
			_ = store.List()
		}()
	}
	wg.Wait()
	require.Len(t, store.IDs(), 16)
}
