// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/landing-site/internal/db"
	"github.com/jonathan/landing-site/internal/paths"
	"github.com/jonathan/landing-site/internal/revalidate"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintReport outputs a summary of one revalidation run: its scope, timing and the
// paths that failed.
func (p *Printer) PrintReport(report *revalidate.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:      %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Source:   %s\n", report.Source))
	sb.WriteString(fmt.Sprintf("Scope:    %s\n", report.Scope))
	sb.WriteString(fmt.Sprintf("Duration: %s\n", report.Duration.Round(time.Millisecond)))
	sb.WriteString(fmt.Sprintf("Paths:    %d ok, %d failed\n", len(report.Paths)-len(report.Failed), len(report.Failed)))

	if len(report.Failed) > 0 {
		sb.WriteString("\nFailed:\n")
		writeList(&sb, report.Failed, "paths")
	}

	p.printBox("REVALIDATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRoutes outputs the visible routes grouped by kind.
func (p *Printer) PrintRoutes(routes []paths.Route) {
	if len(routes) == 0 {
		return
	}

	byKind := map[paths.RouteKind][]string{}
	var kinds []paths.RouteKind
	for _, r := range routes {
		if _, ok := byKind[r.Kind]; !ok {
			kinds = append(kinds, r.Kind)
		}
		byKind[r.Kind] = append(byKind[r.Kind], r.Path)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total routes: %d\n", len(routes)))
	for _, kind := range kinds {
		sb.WriteString(fmt.Sprintf("\n%s (%d):\n", kind, len(byKind[kind])))
		writeList(&sb, byKind[kind], "routes")
	}

	p.printBox("SITE ROUTES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRuns outputs the recorded revalidation runs, newest first.
func (p *Printer) PrintRuns(runs []db.RevalidationRun) {
	if len(runs) == 0 {
		return
	}

	var sb strings.Builder
	for i, run := range runs {
		status := "✓"
		if len(run.Failed) > 0 {
			status = fmt.Sprintf("✗ %d failed", len(run.Failed))
		}
		sb.WriteString(fmt.Sprintf("%s  %-12s %s\n", run.StartedAt.UTC().Format(time.RFC3339), run.Source, status))
		sb.WriteString(fmt.Sprintf("    %s, %d paths", run.Scope, len(run.Paths)))
		if run.ContentType != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", run.ContentType))
		}
		sb.WriteString("\n")
		if i < len(runs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("REVALIDATION RUNS", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, items []string, noun string) {
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more %s\n", len(items)-maxItemsToShow, noun))
	}
}
