// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"io"
	"os"

	"gifsync/internal/pipeline"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#7D56F4")
	errorColor   = lipgloss.Color("#E5484D")
	mutedColor   = lipgloss.Color("#888888")
	textColor    = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	StageStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Width(9)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)
)

// PrintVersion prints build information.
func PrintVersion(w io.Writer, name, version, commit, built string) {
	fmt.Fprintln(w, TitleStyle.Render(name))
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render("Commit: "), ValueStyle.Render(commit))
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render("Built:  "), ValueStyle.Render(built))
}

// PrintSummary prints the outcome of a successful run.
func PrintSummary(w io.Writer, res *pipeline.Result) {
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render("Output:"), ValueStyle.Render(res.Output))
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render("Frames:"),
		ValueStyle.Render(fmt.Sprintf("%d from %d source frames", res.Ticks, res.SourceFrames)))
	fmt.Fprintf(w, "%s %s\n", KeyStyle.Render("Length:"), ValueStyle.Render(res.Duration.String()))
}

// PrintError prints an error message to stderr.
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}
