package progress

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"riddlebox/pkg/engine/storage"
	"riddlebox/pkg/game/state"
)

// brokenBackend fails every call, like storage disabled in private browsing.
type brokenBackend struct{}

func (brokenBackend) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("storage disabled")
}
func (brokenBackend) Set(context.Context, string, []byte) error { return errors.New("quota exceeded") }
func (brokenBackend) Delete(context.Context, string) error      { return errors.New("storage disabled") }
func (brokenBackend) Close() error                              { return nil }

func boolPtr(b bool) *bool { return &b }

func TestProgress_AbsentIsZero(t *testing.T) {
	s := New(storage.NewMemory(), nil)
	assert.Equal(t, 0, s.Progress(context.Background(), "the-cave"))
}

func TestSetProgress_LeavesOthersUntouched(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory(), nil)
	s.SetProgress(ctx, "r2", 7)

	s.SetProgress(ctx, "r1", 3)

	assert.Equal(t, 3, s.Progress(ctx, "r1"))
	assert.Equal(t, 7, s.Progress(ctx, "r2"))
	assert.Equal(t, 0, s.Progress(ctx, "r3"))
}

func TestSetProgress_Overwrites(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory(), nil)
	s.SetProgress(ctx, "r1", 9)
	s.SetProgress(ctx, "r1", 2)
	assert.Equal(t, 2, s.Progress(ctx, "r1"))
}

func TestSetProgress_NegativeClampedToZero(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory(), nil)
	s.SetProgress(ctx, "r1", -4)
	assert.Equal(t, 0, s.Progress(ctx, "r1"))
}

func TestAdvanceProgress(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory(), nil)
	assert.Equal(t, 1, s.AdvanceProgress(ctx, "r1"))
	assert.Equal(t, 2, s.AdvanceProgress(ctx, "r1"))
	assert.Equal(t, 2, s.Progress(ctx, "r1"))
}

func TestResetProgress(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory(), nil)
	s.SetProgress(ctx, "r1", 3)
	s.SetProgress(ctx, "r2", 5)

	s.ResetProgress(ctx, "r1")
	s.ResetProgress(ctx, "never-set")

	assert.Equal(t, 0, s.Progress(ctx, "r1"))
	assert.Equal(t, 5, s.Progress(ctx, "r2"))
	_, present := s.State(ctx).RiddleProgress["r1"]
	assert.False(t, present, "reset should remove the key, not store 0")
}

func TestResetAll(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	s := New(backend, nil)
	s.SetProgress(ctx, "r1", 3)
	s.AddItem(ctx, "lantern")
	s.UpdateAdminSettings(ctx, state.AdminSettingsPatch{DevToolsEnabled: boolPtr(true)})

	s.ResetAll(ctx)

	assert.Equal(t, 0, s.Progress(ctx, "r1"))
	g := s.State(ctx)
	assert.Empty(t, g.Inventory)
	assert.Equal(t, state.Default().AdminSettings, g.AdminSettings)
	_, err := backend.Get(ctx, state.StorageKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateAdminSettings_Merges(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory(), nil)

	g := s.UpdateAdminSettings(ctx, state.AdminSettingsPatch{DevToolsEnabled: boolPtr(true)})
	assert.True(t, g.AdminSettings.DevToolsEnabled)
	assert.True(t, g.AdminSettings.BypassPinOnLocalhost)

	g = s.UpdateAdminSettings(ctx, state.AdminSettingsPatch{})
	assert.True(t, g.AdminSettings.DevToolsEnabled, "empty patch must not overwrite")

	g = s.UpdateAdminSettings(ctx, state.AdminSettingsPatch{BypassPinOnLocalhost: boolPtr(false)})
	assert.False(t, g.AdminSettings.BypassPinOnLocalhost)
	assert.True(t, g.AdminSettings.DevToolsEnabled)
}

func TestInventory(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory(), nil)
	s.AddItem(ctx, "lantern")
	s.AddItem(ctx, "rope")
	g := s.AddItem(ctx, "lantern")

	assert.Equal(t, []string{"lantern", "rope"}, g.Inventory)
	assert.True(t, s.HasItem(ctx, "rope"))
	assert.False(t, s.HasItem(ctx, "map"))
}

func TestCorruptDocumentFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	require.NoError(t, backend.Set(ctx, state.StorageKey, []byte("{not json")))

	core, logs := observer.New(zapcore.WarnLevel)
	s := New(backend, zap.New(core))

	assert.Equal(t, 0, s.Progress(ctx, "r1"))
	assert.Equal(t, state.Default(), s.State(ctx))
	assert.NotZero(t, logs.FilterMessage("failed to load game state").Len())

	s.SetProgress(ctx, "r1", 2)
	assert.Equal(t, 2, s.Progress(ctx, "r1"), "a write replaces the corrupt document")
}

func TestPartialDocumentKeepsDefaults(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	require.NoError(t, backend.Set(ctx, state.StorageKey, []byte(`{"riddleProgress":{"spider-lair":4}}`)))

	g := New(backend, nil).State(ctx)
	assert.Equal(t, 4, g.Stage("spider-lair"))
	assert.NotNil(t, g.Inventory)
	assert.True(t, g.AdminSettings.BypassPinOnLocalhost)
}

func TestBrokenBackendNeverPanicsOrPropagates(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)
	s := New(brokenBackend{}, zap.New(core))

	s.SetProgress(ctx, "r1", 3)
	assert.Equal(t, 0, s.Progress(ctx, "r1"))
	s.ResetProgress(ctx, "r1")
	s.ResetAll(ctx)
	g := s.UpdateAdminSettings(ctx, state.AdminSettingsPatch{DevToolsEnabled: boolPtr(true)})
	assert.True(t, g.AdminSettings.DevToolsEnabled, "returned state reflects the merge even if it did not persist")

	assert.NotZero(t, logs.FilterMessage("failed to save game state").Len())
	assert.NotZero(t, logs.FilterMessage("failed to reset game state").Len())
}

func TestPersistsAcrossStores(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	backend, err := storage.OpenBolt(path)
	require.NoError(t, err)
	New(backend, nil).SetProgress(ctx, "outer-wilds", 6)
	require.NoError(t, backend.Close())

	backend, err = storage.OpenBolt(path)
	require.NoError(t, err)
	defer backend.Close()
	assert.Equal(t, 6, New(backend, nil).Progress(ctx, "outer-wilds"))
}
