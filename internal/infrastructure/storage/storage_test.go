package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/arziki-reports/internal/domain/entity"
)

func TestLocalFileStorage_SaveReadDelete(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	files := NewLocalFileStorage(base, zap.NewNop())

	require.NoError(t, files.Save(ctx, "a/b/c.txt", []byte("hello")))
	assert.True(t, files.Exists(ctx, "a/b/c.txt"))
	assert.False(t, files.Exists(ctx, "a/b"), "directories are not files")

	content, err := files.Read(ctx, "a/b/c.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	require.NoError(t, files.Delete(ctx, "a/b/c.txt"))
	require.NoError(t, files.Delete(ctx, "a/b/c.txt"), "deleting twice is fine")
	assert.False(t, files.Exists(ctx, "a/b/c.txt"))
}

func TestLocalFileStorage_RejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	files := NewLocalFileStorage(t.TempDir(), zap.NewNop())

	assert.ErrorContains(t, files.Save(ctx, "../outside.txt", []byte("x")), "escapes")
	_, err := files.Read(ctx, "../../etc/passwd")
	assert.Error(t, err)
	assert.Error(t, files.DeleteDir(ctx, "."))
}

func TestLocalFileStorage_MoveAndDeleteDir(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	files := NewLocalFileStorage(base, zap.NewNop())

	require.NoError(t, files.Save(ctx, "in/file.csv", []byte("a,b")))
	require.NoError(t, files.Move(ctx, "in/file.csv", "out/deep/file.csv"))
	assert.False(t, files.Exists(ctx, "in/file.csv"))
	assert.True(t, files.Exists(ctx, "out/deep/file.csv"))

	require.NoError(t, files.DeleteDir(ctx, "out"))
	_, err := os.Stat(filepath.Join(base, "out"))
	assert.True(t, os.IsNotExist(err))
}

func TestAttachmentStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	store := NewAttachmentStore(NewLocalFileStorage(base, zap.NewNop()), zap.NewNop())

	att, err := store.Put(ctx, "session-1", `C:\Users\me\Sales Q1.CSV`, "text/csv", []byte("date,product\n"))
	require.NoError(t, err)
	assert.NotEmpty(t, att.ID)
	assert.Equal(t, "Sales Q1.CSV", att.FileName)
	assert.Equal(t, ".csv", att.Extension())
	assert.Equal(t, int64(13), att.Size)
	assert.Equal(t, filepath.ToSlash(filepath.Join("sessions", "session-1", att.ID+".csv")), att.StoragePath)

	content, err := store.Read(ctx, att)
	require.NoError(t, err)
	assert.Equal(t, "date,product\n", string(content))

	archived, err := store.Archive(ctx, "report-1", att)
	require.NoError(t, err)
	assert.Equal(t, "reports/report-1/"+att.ID+"_SalesQ1.CSV", archived)
	_, err = os.Stat(filepath.Join(base, archived))
	assert.NoError(t, err)

	require.NoError(t, store.Purge(ctx, "session-1"))
	_, err = os.Stat(filepath.Join(base, "sessions", "session-1"))
	assert.True(t, os.IsNotExist(err))
}

func TestAttachmentStore_RemoveAndPurge(t *testing.T) {
	ctx := context.Background()
	store := NewAttachmentStore(NewLocalFileStorage(t.TempDir(), zap.NewNop()), zap.NewNop())

	att, err := store.Put(ctx, "s1", "stock.json", "application/json", []byte("[]"))
	require.NoError(t, err)
	require.NoError(t, store.Remove(ctx, att))
	_, err = store.Read(ctx, att)
	assert.Error(t, err)

	assert.NoError(t, store.Remove(ctx, entity.Attachment{ID: "never-stored"}))
	assert.Error(t, store.Purge(ctx, "../.."))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "etcpasswd", SanitizeName("../etc/passwd"))
	assert.Equal(t, "sales-2024_v1.csv", SanitizeName("sales-2024_v1.csv"))
	assert.Equal(t, "Relatrio.xlsx", SanitizeName("Relatório.xlsx"))
}
