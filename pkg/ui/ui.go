// Package ui renders styled terminal output for sink.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	InfoBlue     = lipgloss.Color("#6C9BCF")
	SuccessGreen = lipgloss.Color("#7CB486")
	ErrorRed     = lipgloss.Color("#E07A7A")
	WarningAmber = lipgloss.Color("#D9A648")
	BorderGray   = lipgloss.Color("#4A5568")
	MutedText    = lipgloss.Color("#718096")
	DimText      = lipgloss.Color("#A0AEC0")
)

// Row is one conflict entry in the rendered table.
type Row struct {
	File   string
	Unit   string
	Reason string
}

// Styles
var (
	infoStyle = lipgloss.NewStyle().
			Foreground(InfoBlue).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(SuccessGreen).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(ErrorRed).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(WarningAmber).
			Bold(true)

	stepStyle = lipgloss.NewStyle().
			Foreground(DimText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(MutedText)

	headerStyle = lipgloss.NewStyle().
			Foreground(InfoBlue).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderGray)

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(InfoBlue).
				Bold(true)

	tableCellStyle = lipgloss.NewStyle().
			Foreground(DimText)

	conflictCellStyle = lipgloss.NewStyle().
				Foreground(ErrorRed)
)

// Info prints an info message.
func Info(msg string) {
	fmt.Printf("%s %s\n", infoStyle.Render("i"), msg)
}

// Success prints a success message.
func Success(msg string) {
	fmt.Printf("%s %s\n", successStyle.Render("✓"), msg)
}

// Error prints an error message.
func Error(msg string) {
	fmt.Printf("%s %s\n", errorStyle.Render("✗"), msg)
}

// Warning prints a warning message.
func Warning(msg string) {
	fmt.Printf("%s %s\n", warningStyle.Render("!"), msg)
}

// Step prints a progress step.
func Step(msg string) {
	fmt.Printf("%s %s\n", stepStyle.Render("→"), mutedStyle.Render(msg))
}

// Header prints a styled header box.
func Header(title string) {
	fmt.Println(headerStyle.Render(title))
	fmt.Println()
}

// ConflictTable renders the conflicts that need manual resolution.
func ConflictTable(rows []Row) {
	if len(rows) == 0 {
		return
	}

	fileWidth, unitWidth, reasonWidth := len("FILE"), len("UNIT"), len("REASON")
	for _, r := range rows {
		if len(r.File) > fileWidth {
			fileWidth = len(r.File)
		}
		if len(r.Unit) > unitWidth {
			unitWidth = len(r.Unit)
		}
		if len(r.Reason) > reasonWidth {
			reasonWidth = len(r.Reason)
		}
	}
	fileWidth += 2
	unitWidth += 2
	reasonWidth += 2

	borderStyle := lipgloss.NewStyle().Foreground(BorderGray)

	hLine := func(left, mid, right string) string {
		return borderStyle.Render(
			left +
				strings.Repeat("─", fileWidth) +
				mid +
				strings.Repeat("─", unitWidth) +
				mid +
				strings.Repeat("─", reasonWidth) +
				right,
		)
	}

	pad := func(s string, width int) string {
		return " " + s + strings.Repeat(" ", width-len(s)-1)
	}

	row := func(file, unit, reason string, reasonStyle lipgloss.Style) {
		v := borderStyle.Render("│")
		fmt.Printf("%s%s%s%s%s%s%s\n",
			v, tableCellStyle.Render(pad(file, fileWidth)),
			v, tableCellStyle.Render(pad(unit, unitWidth)),
			v, reasonStyle.Render(pad(reason, reasonWidth)),
			v,
		)
	}

	fmt.Println(hLine("╭", "┬", "╮"))
	v := borderStyle.Render("│")
	fmt.Printf("%s%s%s%s%s%s%s\n",
		v, tableHeaderStyle.Render(pad("FILE", fileWidth)),
		v, tableHeaderStyle.Render(pad("UNIT", unitWidth)),
		v, tableHeaderStyle.Render(pad("REASON", reasonWidth)),
		v,
	)
	fmt.Println(hLine("├", "┼", "┤"))
	for _, r := range rows {
		row(r.File, r.Unit, r.Reason, conflictCellStyle)
	}
	fmt.Println(hLine("╰", "┴", "╯"))
}

// Summary prints the final merge tally.
func Summary(autoMerged, conflicted, skipped, failed int) {
	fmt.Println()
	Info(fmt.Sprintf("Auto-merged files: %d", autoMerged))
	if conflicted > 0 {
		Warning(fmt.Sprintf("With conflicts:    %d", conflicted))
	}
	if skipped > 0 {
		Step(fmt.Sprintf("Skipped (missing): %d", skipped))
	}
	if failed > 0 {
		Error(fmt.Sprintf("Parse failures:    %d", failed))
	}
}
