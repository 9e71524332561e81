package store

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"folio/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func newProjects(t *testing.T, seq []model.Project) *Collection[model.Project] {
	t.Helper()
	dir := t.TempDir()
	c := NewCollection[model.Project](model.KindProjects, Layout{Dir: dir}.RecordsPath(model.KindProjects), Options{Logger: zaptest.NewLogger(t)})
	if seq != nil {
		require.NoError(t, writeSlot(c.Path(), seq))
	}
	return c
}

func projectIDs(seq []model.Project) []int {
	out := make([]int, 0, len(seq))
	for _, p := range seq {
		out = append(out, int(p.ID))
	}
	return out
}

func TestCollection_LoadMissingIsEmpty(t *testing.T) {
	c := newProjects(t, nil)
	got := c.Load()
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCollection_LoadCorruptFailsOpenAndWarns(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	path := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	c := NewCollection[model.Project](model.KindProjects, path, Options{Logger: zap.New(core)})
	assert.Empty(t, c.Load())
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "unreadable")
}

func TestCollection_AddAssignsNextIDAtTail(t *testing.T) {
	c := newProjects(t, []model.Project{{ID: 4, Title: "a"}, {ID: 2, Title: "b"}})

	rec, err := c.Add(model.Project{Title: "c"}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.ID(5), rec.ID)
	assert.Equal(t, []int{4, 2, 5}, projectIDs(c.Load()))
}

func TestCollection_AddExplicitDuplicateLeavesStoreUnchanged(t *testing.T) {
	c := newProjects(t, []model.Project{{ID: 1}, {ID: 2}, {ID: 5}})
	before, err := os.ReadFile(c.Path())
	require.NoError(t, err)

	id := 5
	_, err = c.Add(model.Project{Title: "dup"}, &id)
	require.ErrorIs(t, err, model.ErrDuplicateID)

	after, err := os.ReadFile(c.Path())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	id = 9
	rec, err := c.Add(model.Project{Title: "ok"}, &id)
	require.NoError(t, err)
	assert.Equal(t, model.ID(9), rec.ID)

	id = 0
	_, err = c.Add(model.Project{}, &id)
	require.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestCollection_AddThenDeleteRestoresSequence(t *testing.T) {
	c := newProjects(t, []model.Project{{ID: 3, Category: "web"}, {ID: 1, Category: "cli"}})
	before := c.Load()

	rec, err := c.Add(model.Project{Title: "tmp"}, nil)
	require.NoError(t, err)
	_, err = c.Delete(int(rec.ID))
	require.NoError(t, err)

	assert.Equal(t, projectIDs(before), projectIDs(c.Load()))

	// Ids are not reused: the next add continues past the deleted one.
	again, err := c.Add(model.Project{Title: "next"}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.ID(4), again.ID)
}

func TestCollection_DeleteMissingIsNotFound(t *testing.T) {
	c := newProjects(t, []model.Project{{ID: 1}})
	_, err := c.Delete(7)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestCollection_SwapTwiceRestores(t *testing.T) {
	c := newProjects(t, []model.Project{{ID: 1}, {ID: 2}, {ID: 3}})

	require.NoError(t, c.Swap(1, 3))
	assert.Equal(t, []int{3, 2, 1}, projectIDs(c.Load()))
	require.NoError(t, c.Swap(1, 3))
	assert.Equal(t, []int{1, 2, 3}, projectIDs(c.Load()))

	require.ErrorIs(t, c.Swap(1, 42), model.ErrNotFound)
}

func TestCollection_MoveScenario(t *testing.T) {
	c := newProjects(t, []model.Project{
		{ID: 1, Category: "web"},
		{ID: 2, Category: "cli"},
		{ID: 3, Category: "web"},
	})

	moved, err := c.Move(model.SortManual, 3, model.Previous)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, []int{3, 2, 1}, projectIDs(c.Load()))

	moved, err = c.Move(model.SortManual, 2, model.Next)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, []int{3, 2, 1}, projectIDs(c.Load()))
}

func TestCollection_UpdateMergesAndKeepsPosition(t *testing.T) {
	c := newProjects(t, nil)
	require.NoError(t, os.WriteFile(c.Path(), []byte(`[
		{"id": 1, "title": "one", "category": "web", "mockup_type": "web"},
		{"id": 2, "title": "two", "category": "cli"}
	]`), 0o644))

	rec, err := c.Update(1, map[string]any{"title": "uno", "mockup_type": nil, "stars": 3.0})
	require.NoError(t, err)
	assert.Equal(t, "uno", rec.Title)
	assert.Equal(t, "web", rec.Category)
	assert.NotContains(t, rec.Extra, "mockup_type")
	assert.Equal(t, 3.0, rec.Extra["stars"])
	assert.Equal(t, []int{1, 2}, projectIDs(c.Load()))

	_, err = c.Update(1, map[string]any{"id": 2})
	require.ErrorIs(t, err, model.ErrDuplicateID)

	rec, err = c.Update(1, map[string]any{"id": 10})
	require.NoError(t, err)
	assert.Equal(t, model.ID(10), rec.ID)
	assert.Equal(t, []int{10, 2}, projectIDs(c.Load()))

	_, err = c.Update(99, map[string]any{"title": "x"})
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestCollection_UpdateRejectsMalformedID(t *testing.T) {
	c := newProjects(t, []model.Project{{ID: 1, Title: "one"}, {ID: 2, Title: "two"}})
	before, err := os.ReadFile(c.Path())
	require.NoError(t, err)

	for _, bad := range []any{"seven", -3.0, 0.0, 1.5} {
		_, err := c.Update(1, map[string]any{"id": bad, "title": "changed"})
		require.ErrorIs(t, err, model.ErrInvalidInput, "id %#v", bad)
	}
	after, err := os.ReadFile(c.Path())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	rec, err := c.Update(1, map[string]any{"id": nil, "title": "uno"})
	require.NoError(t, err)
	assert.Equal(t, model.ID(1), rec.ID)

	rec, err = c.Update(1, map[string]any{"id": "4"})
	require.NoError(t, err)
	assert.Equal(t, model.ID(4), rec.ID)
	assert.Equal(t, []int{4, 2}, projectIDs(c.Load()))
}

func TestCollection_ReorderDoesNotRenumber(t *testing.T) {
	c := newProjects(t, []model.Project{{ID: 1}, {ID: 2}, {ID: 3}})
	out, err := c.Reorder([]int{3, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, projectIDs(out))
	assert.Equal(t, []int{3, 1, 2}, projectIDs(c.Load()))
}

func TestCollection_PreservesUnknownFieldsOnRewrite(t *testing.T) {
	c := newProjects(t, nil)
	require.NoError(t, os.WriteFile(c.Path(), []byte(`[{"id": "1", "title": "one", "mockup_type": "terminal"}]`), 0o644))

	_, err := c.Add(model.Project{Title: "two"}, nil)
	require.NoError(t, err)

	seq := c.Load()
	require.Len(t, seq, 2)
	assert.Equal(t, "terminal", seq[0].Extra["mockup_type"])
	assert.Equal(t, model.ID(2), seq[1].ID)
}

func TestCollection_FailedWriteKeepsPreviousSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := Layout{Dir: dir}.RecordsPath(model.KindProjects)
	c := NewCollection[model.Project](model.KindProjects, path, Options{Logger: zaptest.NewLogger(t)})
	_, err := c.Add(model.Project{Title: "one", Category: "web"}, nil)
	require.NoError(t, err)
	_, err = c.Add(model.Project{Title: "two", Category: "web"}, nil)
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })
	if f, err := os.CreateTemp(dir, "writable-*"); err == nil {
		// Privileged users ignore directory permissions.
		_ = f.Close()
		_ = os.Remove(f.Name())
		t.Skip("directory permissions are not enforced for this user")
	}

	_, err = c.Add(model.Project{Title: "three"}, nil)
	require.Error(t, err)
	require.Error(t, c.Swap(1, 2))
	_, err = c.Move(model.SortManual, 2, model.Previous)
	require.Error(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.Equal(t, []int{1, 2}, projectIDs(c.Load()))
}

func TestCollection_UnencodableRecordLeavesSlotUntouched(t *testing.T) {
	c := newProjects(t, []model.Project{{ID: 1, Title: "one"}})
	before, err := os.ReadFile(c.Path())
	require.NoError(t, err)

	_, err = c.Add(model.Project{Title: "bad", Extra: map[string]any{"ch": make(chan int)}}, nil)
	require.Error(t, err)

	after, err := os.ReadFile(c.Path())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	entries, err := os.ReadDir(filepath.Dir(c.Path()))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}

func TestCollection_ConcurrentMutationsAreSerialized(t *testing.T) {
	c := newProjects(t, nil)

	const n = 40
	var wg sync.WaitGroup
	errs := make(chan error, 2*n)
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := c.Add(model.Project{Title: "p", Category: "web"}, nil)
			errs <- err
		}()
		go func(id int) {
			defer wg.Done()
			_, err := c.Move(model.SortManual, id, model.Previous)
			errs <- err
		}(i + 1)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	ids := projectIDs(c.Load())
	require.Len(t, ids, n)
	sort.Ints(ids)
	for i, id := range ids {
		assert.Equal(t, i+1, id)
	}
}
