package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"how-pretty/internal/domain/entity"
)

func TestFillViewport_FillsPortrait(t *testing.T) {
	out, err := FillViewport(gradient(1280, 720), entity.Viewport{X: 90, Y: 160})
	require.NoError(t, err)
	require.Equal(t, 90, out.Bounds().Dx())
	require.Equal(t, 160, out.Bounds().Dy())
}

func TestFillViewport_LocksPortrait(t *testing.T) {
	out, err := FillViewport(gradient(640, 480), entity.Viewport{X: 200, Y: 100})
	require.NoError(t, err)
	require.Equal(t, 100, out.Bounds().Dx())
	require.Equal(t, 200, out.Bounds().Dy())
}

func TestFillViewport_InvalidViewport(t *testing.T) {
	_, err := FillViewport(gradient(10, 10), entity.Viewport{})
	require.Error(t, err)
}
