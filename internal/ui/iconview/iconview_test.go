package iconview

import (
	"testing"

	"github.com/sjzar/fluffy/internal/model"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h uint32, rows ...[4]uint8) *model.Icon {
	pixels := make([]byte, 0, w*h*model.BytesPerPixel)
	for y := uint32(0); y < h; y++ {
		c := rows[int(y)%len(rows)]
		for x := uint32(0); x < w; x++ {
			pixels = append(pixels, c[:]...)
		}
	}
	icon, err := model.NewIcon(w, h, pixels)
	if err != nil {
		panic(err)
	}
	return icon
}

var (
	red         = [4]uint8{255, 0, 0, 255}
	blue        = [4]uint8{0, 0, 255, 255}
	transparent = [4]uint8{0, 0, 0, 0}
)

func TestBlend(t *testing.T) {
	black := [3]uint8{0, 0, 0}

	r, g, b := Blend(255, 10, 20, 255, black)
	assert.Equal(t, [3]uint8{255, 10, 20}, [3]uint8{r, g, b})

	r, g, b = Blend(255, 0, 0, 0, [3]uint8{1, 2, 3})
	assert.Equal(t, [3]uint8{1, 2, 3}, [3]uint8{r, g, b})

	r, _, _ = Blend(255, 0, 0, 128, black)
	assert.Equal(t, uint8(128), r)
}

func TestCellsPairsRows(t *testing.T) {
	icon := solid(2, 2, red, blue)

	cells := Cells(icon, 10, 10, tcell.NewRGBColor(0, 0, 0))
	require.Len(t, cells, 1)
	require.Len(t, cells[0], 2)
	for _, c := range cells[0] {
		assert.Equal(t, tcell.NewRGBColor(255, 0, 0), c.Top)
		assert.Equal(t, tcell.NewRGBColor(0, 0, 255), c.Bottom)
	}
}

func TestCellsOddHeightUsesBackground(t *testing.T) {
	bg := tcell.NewRGBColor(9, 9, 9)
	cells := Cells(solid(1, 3, red), 4, 4, bg)
	require.Len(t, cells, 2)
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), cells[1][0].Top)
	assert.Equal(t, bg, cells[1][0].Bottom)
}

func TestCellsDownsample(t *testing.T) {
	cells := Cells(solid(32, 32, red), 8, 4, tcell.NewRGBColor(0, 0, 0))
	require.Len(t, cells, 4)
	assert.Len(t, cells[0], 8)

	assert.Nil(t, Cells(nil, 8, 4, tcell.ColorDefault))
	assert.Nil(t, Cells(solid(2, 2, red), 0, 4, tcell.ColorDefault))
}

func TestAverageColor(t *testing.T) {
	c, ok := AverageColor(solid(4, 4, red))
	require.True(t, ok)
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), c)

	// transparent pixels do not pull the mean toward black
	c, ok = AverageColor(solid(4, 4, blue, transparent))
	require.True(t, ok)
	assert.Equal(t, tcell.NewRGBColor(0, 0, 255), c)

	_, ok = AverageColor(solid(2, 2, transparent))
	assert.False(t, ok)

	_, ok = AverageColor(nil)
	assert.False(t, ok)
}

func TestDrawHalfBlocks(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(8, 6)

	v := New()
	v.SetIcon(solid(2, 2, red, blue), "")
	v.SetRect(0, 0, 8, 6)
	v.Draw(screen)

	var found int
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			mainc, _, st, _ := screen.GetContent(x, y)
			if mainc != '▀' {
				continue
			}
			fg, bg, _ := st.Decompose()
			assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)
			assert.Equal(t, tcell.NewRGBColor(0, 0, 255), bg)
			found++
		}
	}
	assert.Equal(t, 2, found)
}
