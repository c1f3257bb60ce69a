package vcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLog(t *testing.T) {
	raw := "a1b2c3d|Ada Lovelace|2024-05-01|Add parser\r\n" +
		"e4f5a6b|Grace Hopper|2024-04-30|Fix a|b split in message\r\n"

	got := NormalizeLog([]byte(raw), "")

	assert.True(t, got.Success)
	assert.Empty(t, got.Diagnostic)
	assert.Equal(t, 2, got.CommitCount)
	require.Len(t, got.Commits, 2)
	assert.Equal(t, Commit{Hash: "a1b2c3d", Author: "Ada Lovelace", Date: "2024-05-01", Message: "Add parser"}, got.Commits[0])
	assert.Equal(t, "Fix a|b split in message", got.Commits[1].Message)
}

func TestNormalizeLogCustomSeparator(t *testing.T) {
	raw := "abc\x1fme\x1f2024-01-01\x1fmsg with | pipe\n"

	got := NormalizeLog([]byte(raw), "\x1f")

	require.Len(t, got.Commits, 1)
	assert.Equal(t, "msg with | pipe", got.Commits[0].Message)
}

func TestNormalizeLogSkipsShortLines(t *testing.T) {
	raw := "abc|me|2024-01-01|ok\nnot a commit\n|only|three\n"

	got := NormalizeLog([]byte(raw), "|")

	assert.Equal(t, 1, got.CommitCount)
	assert.Empty(t, got.Diagnostic)
}

func TestNormalizeLogEmptyAndDrift(t *testing.T) {
	empty := NormalizeLog(nil, "")
	assert.True(t, empty.Success)
	assert.Empty(t, empty.Diagnostic)
	assert.NotNil(t, empty.Commits)

	drift := NormalizeLog([]byte("commit a1b2c3d\nAuthor: Ada <ada@example.com>\n"), "")
	assert.True(t, drift.Success)
	assert.NotEmpty(t, drift.Diagnostic)
	assert.Zero(t, drift.CommitCount)
}
