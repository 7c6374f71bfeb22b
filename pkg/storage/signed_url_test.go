package storage

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("exp-1", "attainment/offering-1/report.csv")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	parsed, err := signer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "exp-1", parsed.ExportID)
	require.Equal(t, "attainment/offering-1/report.csv", parsed.Path)
	require.WithinDuration(t, expiresAt, parsed.ExpiresAt, time.Second)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	token, _, err := signer.Generate("exp-1", "report.csv")
	require.NoError(t, err)

	signer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	parsed, err := signer.Parse(token)
	require.True(t, errors.Is(err, ErrTokenExpired))
	require.Equal(t, "report.csv", parsed.Path)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("exp-1", "report.csv")
	require.NoError(t, err)

	other := NewSignedURLSigner("other", time.Hour)
	_, err = other.Parse(token)
	require.True(t, errors.Is(err, ErrTokenInvalid))

	_, err = signer.Parse("exp-1.123.abc")
	require.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestLocalStorageSaveOpenDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("attainment/o1/report.csv", []byte("a,b\n"))
	require.NoError(t, err)

	file, err := store.Open(name)
	require.NoError(t, err)
	_ = file.Close()

	_, err = store.Save("../escape.csv", []byte("x"))
	require.True(t, errors.Is(err, ErrInvalidPath))
	_, err = store.Open("/etc/passwd")
	require.True(t, errors.Is(err, ErrInvalidPath))

	require.NoError(t, store.Delete(name))
	_, err = store.Open(name)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save("old.csv", []byte("x"))
	require.NoError(t, err)
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(dir+"/old.csv", old, old))
	_, err = store.Save("new.csv", []byte("y"))
	require.NoError(t, err)

	deleted, err := store.CleanupOlderThan(time.Hour)
	require.NoError(t, err)
	require.Equal(t, []string{"old.csv"}, deleted)
}
