package system

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordLogger struct{ lines []string }

func (r *recordLogger) Infof(c, f string, a ...interface{}) {
	r.lines = append(r.lines, "I "+c+": "+fmt.Sprintf(f, a...))
}

func (r *recordLogger) Errorf(c, f string, a ...interface{}) {
	r.lines = append(r.lines, "E "+c+": "+fmt.Sprintf(f, a...))
}

func TestConsoleLogsEveryStep(t *testing.T) {
	l := &recordLogger{}
	c := &Console{Logger: l}

	// whether a VT is available depends on the host; either way each step
	// produces exactly one log line and Leave never panics
	_ = c.Enter()
	require.Len(t, l.lines, 2)
	_ = c.Leave()
	require.GreaterOrEqual(t, len(l.lines), 3)
	require.False(t, c.entered)
}

func TestConsoleLeaveWithoutEnter(t *testing.T) {
	l := &recordLogger{}
	c := &Console{Logger: l}
	_ = c.Leave()
	require.Len(t, l.lines, 1)
}

func TestWatchExitKeysNoop(t *testing.T) {
	// nothing to watch: returns without calling onExit
	WatchExitKeys(t.Context(), nil, nil, func() { t.Fatal("unexpected exit") })
	WatchExitKeys(t.Context(), nil, []uint16{KeyF4}, nil)
}
