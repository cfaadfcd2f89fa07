package main

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCell    = lipgloss.NewStyle().Padding(0, 1)
	styleCurrent = styleCell.Foreground(colorCyan).Bold(true)
	styleVisible = styleCell.Foreground(colorWhite)
	styleHidden  = styleCell.Foreground(colorDim)
	styleBorder  = lipgloss.NewStyle().Foreground(colorDim)

	// styleFocusTile marks the focused window in layout previews.
	styleFocusTile = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	styleSummary   = lipgloss.NewStyle().Foreground(colorGray)
)
