package viewer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rook-computer/bannercast/internal/banner"
	"github.com/rook-computer/bannercast/internal/editor"
	"github.com/rook-computer/bannercast/internal/livesync"
	"github.com/rook-computer/bannercast/internal/present"
)

func next(t *testing.T, v *Viewer) Frame {
	t.Helper()
	select {
	case f := <-v.Changes():
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("no frame")
	}
	return Frame{}
}

func TestStaticOverlay(t *testing.T) {
	v := New("?message=Hi&animation=marquee&speed=150", nil, nil)
	defer v.Close()

	require.False(t, v.Live())
	f := v.Current()
	require.Equal(t, "Hi", f.Config.Message)
	require.Equal(t, 150, f.Config.Speed)
	require.Equal(t, present.Derive(f.Config), f.Presentation)
	require.Equal(t, 30.0, f.Presentation.Timing.Seconds)
}

func TestEditorDrivesOverlay(t *testing.T) {
	bus := livesync.NewBus()
	defer bus.Close()

	v := New("message=Old&caption=Keep", livesync.Connect(bus, livesync.DefaultChannel, nil), nil)
	defer v.Close()
	require.True(t, v.Live())

	e := editor.New("", livesync.Connect(bus, livesync.DefaultChannel, nil), nil)
	defer e.Close()

	_, err := e.Set("message", "New")
	require.NoError(t, err)

	f := next(t, v)
	require.Equal(t, "New", f.Config.Message)
	// wholesale replace: the overlay's own caption is not kept
	require.Equal(t, "", f.Config.Caption)
	require.False(t, f.Presentation.Caption.Visible)
	require.Equal(t, f, v.Current())
}

func TestOtherChannelIgnored(t *testing.T) {
	bus := livesync.NewBus()
	defer bus.Close()

	v := New("", livesync.Connect(bus, "studio-a", nil), nil)
	defer v.Close()

	e := editor.New("", livesync.Connect(bus, "studio-b", nil), nil)
	defer e.Close()
	e.Update(func(cfg *banner.Config) { cfg.Message = "elsewhere" })

	select {
	case <-v.Changes():
		t.Fatal("unexpected frame")
	case <-time.After(100 * time.Millisecond):
	}
	require.Equal(t, banner.Default().Message, v.Current().Config.Message)
}

func TestLatestFrameWins(t *testing.T) {
	bus := livesync.NewBus()
	defer bus.Close()

	v := New("", livesync.Connect(bus, livesync.DefaultChannel, nil), nil)
	defer v.Close()

	e := editor.New("", livesync.Connect(bus, livesync.DefaultChannel, nil), nil)
	defer e.Close()

	for i := 28; i <= 40; i++ {
		size := i
		e.Update(func(cfg *banner.Config) { cfg.FontSize = size })
	}

	require.Eventually(t, func() bool {
		return v.Current().Config.FontSize == 40
	}, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, uint64(13), v.Current().Version)
}
