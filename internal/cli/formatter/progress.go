package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/neurofit/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
	gapBlock    = "·"
	cursorMark  = "▲"
)

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	pct = clampUnit(pct)
	if width < 2 {
		width = 2
	}

	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGood
	if pct < 0.33 {
		style = StyleBad
	} else if pct < 0.66 {
		style = StyleWarn
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}

// RenderTimeline draws the workout as one row of cells, each colored by the
// intensity of the exercise covering it, with gaps shown as dots. Cells before
// elapsed are solid; the rest are shaded. A second line marks the position.
func RenderTimeline(w domain.WorkoutDefinition, elapsed float64, width int) string {
	if width < 2 {
		width = 2
	}
	if w.TotalDuration <= 0 {
		return strings.Repeat(gapBlock, width)
	}
	cellSpan := w.TotalDuration / float64(width)

	var b strings.Builder
	for i := 0; i < width; i++ {
		mid := (float64(i) + 0.5) * cellSpan
		idx := w.ExerciseIndexAt(mid)
		if idx < 0 {
			b.WriteString(StyleDim.Render(gapBlock))
			continue
		}
		block := emptyBlock
		if mid < elapsed {
			block = filledBlock
		}
		b.WriteString(IntensityColor(w.Exercises[idx].Intensity).Render(block))
	}

	pos := min(int(clampUnit(elapsed/w.TotalDuration)*float64(width)), width-1)
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", pos))
	b.WriteString(StyleHeader.Render(cursorMark))
	return b.String()
}

func clampUnit(f float64) float64 {
	if f < 0 || f != f {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
