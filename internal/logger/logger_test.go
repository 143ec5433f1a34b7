package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"debug":   Debug,
		"INFO":    Info,
		"":        Info,
		"warning": Warn,
		" error ": Error,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestWriterLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(Info, &buf)

	l.Debugf("editor", "hidden %d", 1)
	l.Infof("editor", "shown %d", 2)
	l.Errorf("", "no component")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "INF [editor] shown 2")
	require.Contains(t, lines[1], "ERR no component")
}

func TestFileDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bannercast.log")
	l, err := New(Warn, path)
	require.NoError(t, err)
	l.stdout = nil

	l.Infof("web", "dropped")
	l.Warnf("web", "kept")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	byts, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(byts), "dropped")
	require.Contains(t, string(byts), "WAR [web] kept")
}

func TestNewBadPath(t *testing.T) {
	_, err := New(Info, filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	require.Error(t, err)
}
