package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"folio/internal/model"
	"folio/internal/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRegistry_DeleteRenumbersAndPersists(t *testing.T) {
	dir := t.TempDir()
	l := Layout{Dir: dir}
	path := l.RegistryPath(model.KindProjects)
	require.NoError(t, writeSlot(path, []model.CategoryEntry{{ID: 1, Name: "Web"}, {ID: 2, Name: "CLI"}}))

	r := NewRegistry(model.KindProjects, path, Options{Logger: zaptest.NewLogger(t)})
	out, err := r.Apply(order.RegistryAction{Op: order.OpDelete, ID: 1})
	require.NoError(t, err)
	assert.Equal(t, []model.CategoryEntry{{ID: 1, Name: "CLI"}}, out)
	assert.Equal(t, out, r.Load())
}

func TestRegistry_DuplicateAddDoesNotWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skill_categories.json")
	require.NoError(t, writeSlot(path, []model.CategoryEntry{{ID: 1, Name: "Tools"}}))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	r := NewRegistry(model.KindSkills, path, Options{})
	_, err = r.Apply(order.RegistryAction{Op: order.OpAdd, Name: "TOOLS"})
	require.ErrorIs(t, err, model.ErrDuplicateName)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestRegistry_JournalsChanges(t *testing.T) {
	dir := t.TempDir()
	j, err := OpenJournal(context.Background(), filepath.Join(dir, JournalFileName), JournalOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	r := NewRegistry(model.KindCertifications, Layout{Dir: dir}.RegistryPath(model.KindCertifications), Options{Journal: j})
	_, err = r.Apply(order.RegistryAction{Op: order.OpAdd, Name: "Cloud"})
	require.NoError(t, err)

	evs, err := j.List(context.Background(), ListOptions{Kind: model.KindCertifications})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, EventCategoryChange, evs[0].Type)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(evs[0].Payload, &payload))
	assert.Equal(t, "add", payload["action"])
	assert.Equal(t, "Cloud", payload["name"])
}
