// Package codec maps entities and relationships to discussion bodies and back.
//
// A body is plain Markdown made of fixed sections, each introduced by a line
// of the form "# <Name>". Decoding never fails: a missing marker yields the
// zero value for the field it feeds.
package codec

import "strings"

// Section headers
const (
	HeaderDescription             = "# Description"
	HeaderPatternReference        = "# Pattern Reference"
	HeaderSolutionsURL            = "# Solutions URL"
	HeaderSolutionImplementations = "# Solution Implementations"
	HeaderPatterns                = "# Patterns"
	HeaderPattern                 = "# Pattern"
	HeaderSolutionImplementation  = "# Solution Implementation"

	iconAltText = "Alt-Text"
)

// splitLines splits a body into lines, dropping carriage returns
func splitLines(body string) []string {
	return strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
}

// isHeader reports whether line opens a new named section
func isHeader(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "# ")
}

// findHeader returns the index of the first line equal to header after trimming, or -1
func findHeader(lines []string, header string) int {
	for i, line := range lines {
		if strings.TrimSpace(line) == header {
			return i
		}
	}
	return -1
}

// sectionBody returns the lines after header up to the next header or end of text.
// The second value is false when the header is absent.
func sectionBody(lines []string, header string) ([]string, bool) {
	start := findHeader(lines, header)
	if start < 0 {
		return nil, false
	}
	end := start + 1
	for end < len(lines) && !isHeader(lines[end]) {
		end++
	}
	return lines[start+1 : end], true
}
