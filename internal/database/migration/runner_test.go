package migration

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"gig-market/migrations"
)

func TestLoadMigrations_SortsAndSkipsForeignFiles(t *testing.T) {
	src := fstest.MapFS{
		"V2__second.sql": {Data: []byte("SELECT 2;")},
		"V1__first.sql":  {Data: []byte("SELECT 1;")},
		"README.md":      {Data: []byte("docs")},
	}

	migs, err := LoadMigrations(src)
	require.NoError(t, err)
	require.Len(t, migs, 2)
	require.Equal(t, int64(1), migs[0].Version)
	require.Equal(t, "first", migs[0].Name)
	require.Equal(t, int64(2), migs[1].Version)
	require.NotEmpty(t, migs[0].Checksum)
}

func TestLoadMigrations_DuplicateVersion(t *testing.T) {
	src := fstest.MapFS{
		"V1__a.sql": {Data: []byte("SELECT 1;")},
		"V1__b.sql": {Data: []byte("SELECT 2;")},
	}

	_, err := LoadMigrations(src)
	require.Error(t, err)
}

func TestLoadMigrations_EmptyFile(t *testing.T) {
	src := fstest.MapFS{
		"V1__empty.sql": {Data: []byte("   ")},
	}

	_, err := LoadMigrations(src)
	require.Error(t, err)
}

func TestLoadMigrations_EmbeddedSchema(t *testing.T) {
	migs, err := LoadMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	require.Equal(t, int64(1), migs[0].Version)
}
