// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffKind marks a line as unchanged, added or removed.
type DiffKind int

// Diff line kinds.
const (
	DiffEqual DiffKind = iota
	DiffInsert
	DiffDelete
)

// DiffLine is one line of a line-based diff.
type DiffLine struct {
	Kind DiffKind
	Text string
}

// DiffSummary is the result of comparing two documents.
type DiffSummary struct {
	Lines   []DiffLine
	Added   int
	Removed int
}

// Identical reports whether the documents have no line changes.
func (d DiffSummary) Identical() bool {
	return d.Added == 0 && d.Removed == 0
}

// String renders the diff with "+ ", "- " and "  " prefixes.
func (d DiffSummary) String() string {
	var out strings.Builder

	for _, line := range d.Lines {
		switch line.Kind {
		case DiffInsert:
			out.WriteString("+ ")
		case DiffDelete:
			out.WriteString("- ")
		default:
			out.WriteString("  ")
		}

		out.WriteString(line.Text)
		out.WriteByte('\n')
	}

	return out.String()
}

// DiffDocuments compares two documents line by line.
func DiffDocuments(before, after []byte) DiffSummary {
	dmp := diffmatchpatch.New()

	chars1, chars2, lineArray := dmp.DiffLinesToChars(string(before), string(after))
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var summary DiffSummary

	for _, diff := range diffs {
		kind := DiffEqual

		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			kind = DiffInsert
		case diffmatchpatch.DiffDelete:
			kind = DiffDelete
		case diffmatchpatch.DiffEqual:
		}

		for _, line := range strings.SplitAfter(diff.Text, "\n") {
			if line == "" {
				continue
			}

			summary.Lines = append(summary.Lines, DiffLine{Kind: kind, Text: strings.TrimSuffix(line, "\n")})

			switch kind {
			case DiffInsert:
				summary.Added++
			case DiffDelete:
				summary.Removed++
			case DiffEqual:
			}
		}
	}

	return summary
}
