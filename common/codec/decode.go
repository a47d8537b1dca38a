package codec

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	imageRe     = regexp.MustCompile(`!\[.*?\]\(([^)]*)\)`)
	linkRe      = regexp.MustCompile(`(?:^|[^!])\[.*?\]\((https?://[^\s)]+)\)`)
	referenceRe = regexp.MustCompile(`#(\d+)`)
	headingRe   = regexp.MustCompile(`^#+\s*[A-Za-z]`)
	numberRe    = regexp.MustCompile(`^(?:[-*]\s*)?#?\s*(\d+)\b`)
)

// PatternFields are the values derived from a pattern body
type PatternFields struct {
	IconURL             string
	Description         string
	ReferenceURL        string
	RelationshipNumbers []int
}

// SolutionFields are the values derived from a solution implementation body
type SolutionFields struct {
	Description         string
	ReferenceURL        string
	RelationshipNumbers []int
}

// RelationshipFields are the values derived from a relationship body.
// Valid is false unless both numbers parsed as positive integers.
type RelationshipFields struct {
	PatternNumber  int
	SolutionNumber int
	Valid          bool
}

// DecodePattern extracts pattern fields from a body
func DecodePattern(body string) PatternFields {
	lines := splitLines(body)
	return PatternFields{
		IconURL:             firstImage(body),
		Description:         description(lines),
		ReferenceURL:        referenceLink(body, lines, HeaderPatternReference),
		RelationshipNumbers: references(lines, HeaderSolutionImplementations),
	}
}

// DecodeSolution extracts solution implementation fields from a body
func DecodeSolution(body string) SolutionFields {
	lines := splitLines(body)
	return SolutionFields{
		Description:         description(lines),
		ReferenceURL:        referenceLink(body, lines, HeaderSolutionsURL),
		RelationshipNumbers: references(lines, HeaderPatterns),
	}
}

// DecodeRelationship extracts both endpoint numbers from a relationship body.
// Both "#12" and the legacy bare "12" forms are accepted. The first number
// under the nearest preceding heading decides each side.
func DecodeRelationship(body string) RelationshipFields {
	const (
		sideNone = iota
		sidePattern
		sideSolution
	)

	var (
		fields                      RelationshipFields
		side                        = sideNone
		foundPattern, foundSolution bool
	)

	for _, raw := range splitLines(body) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if headingRe.MatchString(line) {
			switch {
			case strings.Contains(line, "Solution Implementation"):
				side = sideSolution
			case strings.Contains(line, "Pattern"):
				side = sidePattern
			default:
				side = sideNone
			}
			continue
		}

		m := numberRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		switch {
		case side == sidePattern && !foundPattern:
			fields.PatternNumber, foundPattern = n, true
		case side == sideSolution && !foundSolution:
			fields.SolutionNumber, foundSolution = n, true
		}
	}

	fields.Valid = fields.PatternNumber > 0 && fields.SolutionNumber > 0
	if !fields.Valid {
		return RelationshipFields{}
	}
	return fields
}

func firstImage(body string) string {
	m := imageRe.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// description is the text after "# Description" up to the next line starting with "#"
func description(lines []string) string {
	start := findHeader(lines, HeaderDescription)
	if start < 0 {
		return ""
	}
	end := start + 1
	for end < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[end]), "#") {
		end++
	}
	return strings.TrimSpace(strings.Join(lines[start+1:end], "\n"))
}

// referenceLink prefers the first link inside the named section and falls back
// to the first non-image link anywhere in the body
func referenceLink(body string, lines []string, header string) string {
	if section, ok := sectionBody(lines, header); ok {
		if url := firstLink(strings.Join(section, "\n")); url != "" {
			return url
		}
	}
	return firstLink(body)
}

func firstLink(text string) string {
	m := linkRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// references collects every "#<digits>" in the named section in document order
func references(lines []string, header string) []int {
	numbers := []int{}
	section, ok := sectionBody(lines, header)
	if !ok {
		return numbers
	}

	seen := make(map[int]struct{})
	for _, m := range referenceRe.FindAllStringSubmatch(strings.Join(section, "\n"), -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		numbers = append(numbers, n)
	}
	return numbers
}
