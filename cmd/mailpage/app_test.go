package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mailpage/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/mailpage/internal/core/services"
)

func TestNewApp_Defaults(t *testing.T) {
	home := t.TempDir()

	a, err := newApp(home)
	require.NoError(t, err)
	defer a.Close()

	s := a.Services()
	assert.NotNil(t, s.Settings)
	assert.NotNil(t, s.Configuration)
	assert.NotNil(t, s.Writer)
	assert.NotNil(t, s.Fields)
	assert.NotNil(t, s.Transformations)
	assert.NotNil(t, s.Files)
	assert.Nil(t, s.Gmail)

	_, err = os.Stat(filepath.Join(home, "data", "mailpage.db"))
	assert.NoError(t, err)
}

func TestNewApp_WriteLogBackends(t *testing.T) {
	home := t.TempDir()
	a, err := newApp(home)
	require.NoError(t, err)
	defer a.Close()

	settings, err := a.Services().Settings.Get()
	require.NoError(t, err)

	store, err := newTestStore(t)
	require.NoError(t, err)

	settings.WriteLog.Backend = services.WriteLogNone
	assert.Nil(t, a.writeLog(settings, store))

	settings.WriteLog.Backend = services.WriteLogSQLite
	assert.NotNil(t, a.writeLog(settings, store))

	settings.WriteLog.Backend = services.WriteLogRedis
	settings.WriteLog.RedisURL = "not a url"
	assert.NotNil(t, a.writeLog(settings, store))
}

func newTestStore(t *testing.T) (*sqlite.Store, error) {
	t.Helper()
	store, err := sqlite.NewStore(t.TempDir())
	if err == nil {
		t.Cleanup(func() { _ = store.Close() })
	}
	return store, err
}
