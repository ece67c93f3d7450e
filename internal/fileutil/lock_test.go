package fileutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockDir_Relock(t *testing.T) {
	dir := t.TempDir()

	first, err := LockDir(dir)
	require.NoError(t, err)

	_, err = LockDir(dir)
	assert.ErrorContains(t, err, "another mixdl run")

	require.NoError(t, first.Unlock())
	require.NoError(t, first.Unlock())

	again, err := LockDir(dir)
	require.NoError(t, err)
	require.NoError(t, again.Unlock())
}

func TestDirLock_NilUnlock(t *testing.T) {
	var l *DirLock
	assert.NoError(t, l.Unlock())
}
