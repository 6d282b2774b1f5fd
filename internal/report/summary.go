// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"image/color"
	"io"
	"net/netip"
	"os"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"go4.org/netipx"
	"golang.org/x/term"

	"github.com/tfctl/tagwatch/internal/config"
	"github.com/tfctl/tagwatch/internal/dataset"
	"github.com/tfctl/tagwatch/internal/differ"
)

// SummaryOptions tunes the console summary.
type SummaryOptions struct {
	Color    bool
	Services bool
}

// Aggregate describes how a set of change records collapses once adjacent and
// overlapping prefixes are merged.
type Aggregate struct {
	Records  int
	Prefixes int
	Opaque   int
}

// ColorEnabled reports whether colour was requested and f is a terminal.
func ColorEnabled(f *os.File, requested bool) bool {
	return requested && f != nil && term.IsTerminal(int(f.Fd()))
}

// Aggregated merges the prefixes of records into the smallest covering set.
// Records whose prefix is not a CIDR prefix or a bare address count as Opaque.
func Aggregated(records dataset.Set) Aggregate {
	var (
		b   netipx.IPSetBuilder
		agg = Aggregate{Records: records.Len()}
	)

	for rec := range records {
		_, raw := differ.SplitRecord(rec)
		if p, err := netip.ParsePrefix(raw); err == nil {
			b.AddPrefix(p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(raw); err == nil {
			b.Add(a)
			continue
		}
		agg.Opaque++
	}

	set, err := b.IPSet()
	if err == nil {
		agg.Prefixes = len(set.Prefixes())
	}
	return agg
}

// Summary writes a table of per-service added and removed counts to w,
// followed by a totals line. Nothing is written for an empty result.
func Summary(w io.Writer, r differ.Result, opts SummaryOptions) {
	type counts struct{ added, removed int }
	perService := map[string]*counts{}
	tally := func(records dataset.Set, added bool) {
		for rec := range records {
			id, _ := differ.SplitRecord(rec)
			c, ok := perService[id]
			if !ok {
				c = &counts{}
				perService[id] = c
			}
			if added {
				c.added++
			} else {
				c.removed++
			}
		}
	}
	tally(r.Added, true)
	tally(r.Removed, false)

	if len(perService) == 0 && !(opts.Services && r.ServicesChanged()) {
		fmt.Fprintln(w, NoChanges)
		return
	}

	ids := make([]string, 0, len(perService))
	for id := range perService {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var rows [][]string
	for _, id := range ids {
		c := perService[id]
		rows = append(rows, []string{id, plus(c.added), minus(c.removed)})
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		addedStyle   = cellStyle
		removedStyle = cellStyle
	)
	if opts.Color {
		title, add, remove := summaryColors()
		headerStyle = headerStyle.Bold(true).Foreground(title)
		addedStyle = addedStyle.Foreground(add)
		removedStyle = removedStyle.Foreground(remove)
	}

	if len(rows) > 0 {
		t := table.New().
			Border(lipgloss.HiddenBorder()).
			BorderTop(false).
			BorderBottom(false).
			BorderLeft(false).
			BorderRight(false).
			BorderHeader(false).
			StyleFunc(func(row, col int) lipgloss.Style {
				var style lipgloss.Style
				switch {
				case row == table.HeaderRow:
					style = headerStyle
				case col == 1:
					style = addedStyle
				case col == 2:
					style = removedStyle
				default:
					style = cellStyle
				}
				if col > 0 {
					style = style.PaddingLeft(2)
				}
				return style
			}).
			Headers("SERVICE", "ADDED", "REMOVED").
			Rows(rows...)
		fmt.Fprintln(w, t)
	}

	added, removed := Aggregated(r.Added), Aggregated(r.Removed)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf(
		"%s added (%s after aggregation), %s removed (%s after aggregation) across %s services",
		humanize.Comma(int64(added.Records)), humanize.Comma(int64(added.Prefixes+added.Opaque)),
		humanize.Comma(int64(removed.Records)), humanize.Comma(int64(removed.Prefixes+removed.Opaque)),
		humanize.Comma(int64(len(ids))),
	)))

	if opts.Services {
		if n := r.AddedServices.Len(); n > 0 {
			fmt.Fprintf(w, "%s new services: %v\n", humanize.Comma(int64(n)), r.AddedServices.Sorted())
		}
		if n := r.RemovedServices.Len(); n > 0 {
			fmt.Fprintf(w, "%s services gone: %v\n", humanize.Comma(int64(n)), r.RemovedServices.Sorted())
		}
	}
}

func plus(n int) string {
	if n == 0 {
		return "-"
	}
	return "+" + strconv.Itoa(n)
}

func minus(n int) string {
	if n == 0 {
		return "-"
	}
	return "-" + strconv.Itoa(n)
}

// summaryColors returns the configured title, added and removed colours,
// falling back to defaults picked for the terminal background.
func summaryColors() (title, added, removed color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	resolve := func(name string, light string, dark string) color.Color {
		if c, ok := config.Color(name); ok {
			return lipgloss.Color(c)
		}
		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	title = resolve("title", "#b08800", "#f6be00")
	added = resolve("added", "#1a7f37", "#3fb950")
	removed = resolve("removed", "#cf222e", "#f85149")

	return
}
