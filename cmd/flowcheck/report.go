package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/thesyncim/flowcheck/pkg/flow"
)

var (
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// renderReport formats one line per flow plus failure details.
func renderReport(results []*flow.Result) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Verification results"))
	b.WriteString("\n")

	width := 0
	for _, r := range results {
		width = max(width, len(r.Flow))
	}

	passed := 0
	for _, r := range results {
		status := passStyle.Render("PASS")
		if !r.Passed() {
			status = failStyle.Render("FAIL")
		} else {
			passed++
		}
		fmt.Fprintf(&b, "%s  %-*s  %s\n", status, width, r.Flow,
			dimStyle.Render(fmt.Sprintf("%d steps, %s", len(r.Steps), r.Duration.Round(time.Millisecond))))

		for _, a := range r.Artifacts {
			fmt.Fprintf(&b, "      %s %s\n", dimStyle.Render("screenshot"), a)
		}
		if r.Err != nil {
			fmt.Fprintf(&b, "      %s\n", failStyle.Render(r.Err.Error()))
		}
	}
	fmt.Fprintf(&b, "%d/%d flows passed", passed, len(results))
	return b.String()
}
