package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/neurofit/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Palette roles. Intensity reuses the good/warn/bad scale.
var (
	ColorGood   = lipgloss.Color("#8ec07c")
	ColorWarn   = lipgloss.Color("#fabd2f")
	ColorBad    = lipgloss.Color("#fb4934")
	ColorInfo   = lipgloss.Color("#83a598")
	ColorDone   = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorAccent = lipgloss.Color("#fe8019")
)

var (
	StyleGood   = lipgloss.NewStyle().Foreground(ColorGood)
	StyleWarn   = lipgloss.NewStyle().Foreground(ColorWarn)
	StyleBad    = lipgloss.NewStyle().Foreground(ColorBad)
	StyleInfo   = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleDone   = lipgloss.NewStyle().Foreground(ColorDone)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

type label struct {
	style lipgloss.Style
	text  string
}

var intensityLabels = map[domain.Intensity]label{
	domain.IntensityLow:    {StyleGood, "▼ LOW"},
	domain.IntensityMedium: {StyleWarn, "■ MEDIUM"},
	domain.IntensityHigh:   {StyleBad, "▲ HIGH"},
}

var phaseLabels = map[domain.Phase]label{
	domain.PhaseIdle:         {StyleDim, "○ Ready"},
	domain.PhaseInstructions: {StyleInfo, "ⓘ Instructions"},
	domain.PhaseRunning:      {StyleGood, "▶ Running"},
	domain.PhasePaused:       {StyleWarn, "❚❚ Paused"},
	domain.PhaseCompleted:    {StyleDone, "✔ Completed"},
}

// IntensityColor returns the style for an exercise intensity; unknown
// intensities are dimmed.
func IntensityColor(i domain.Intensity) lipgloss.Style {
	if l, ok := intensityLabels[i]; ok {
		return l.style
	}
	return StyleDim
}

// IntensityBadge renders an intensity as a colored label, e.g. "▲ HIGH".
func IntensityBadge(i domain.Intensity) string {
	if l, ok := intensityLabels[i]; ok {
		return l.style.Render(l.text)
	}
	return StyleDim.Render("· " + strings.ToUpper(string(i)))
}

// PhasePill renders the player phase for the status header.
func PhasePill(p domain.Phase) string {
	if l, ok := phaseLabels[p]; ok {
		return l.style.Render(l.text)
	}
	return StyleDim.Render(string(p))
}

// Header renders an upper-cased section title over a rule of the same width.
func Header(text string) string {
	upper := strings.ToUpper(text)
	rule := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(rule))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
