package codec

import (
	"fmt"
	"strings"
)

// PatternInput is the caller-validated content of a new pattern
type PatternInput struct {
	Title        string
	Description  string
	ReferenceURL string
	IconURL      string
}

// SolutionInput is the caller-validated content of a new solution implementation
type SolutionInput struct {
	Title        string
	Description  string
	SolutionsURL string
}

// EncodePattern renders a pattern body. The trailing relationship section starts empty.
func EncodePattern(in PatternInput) string {
	sections := make([]string, 0, 4)
	if in.IconURL != "" {
		sections = append(sections, fmt.Sprintf("![%s](%s)", iconAltText, in.IconURL))
	}
	sections = append(sections,
		HeaderDescription+"\n"+in.Description,
		HeaderPatternReference+"\n"+markdownLink(in.Title, in.ReferenceURL),
		HeaderSolutionImplementations,
	)
	return joinSections(sections)
}

// EncodeSolution renders a solution implementation body
func EncodeSolution(in SolutionInput) string {
	return joinSections([]string{
		HeaderDescription + "\n" + in.Description,
		HeaderSolutionsURL + "\n" + markdownLink(in.Title, in.SolutionsURL),
		HeaderPatterns,
	})
}

// EncodeRelationship renders a relationship body in the canonical "#<number>" form.
// The bare "<number>" form is only ever read, never written.
func EncodeRelationship(patternNumber, solutionNumber int) string {
	return joinSections([]string{
		fmt.Sprintf("%s\n#%d", HeaderPattern, patternNumber),
		fmt.Sprintf("%s\n#%d", HeaderSolutionImplementation, solutionNumber),
	})
}

func markdownLink(text, url string) string {
	return fmt.Sprintf("[%s](%s)", text, url)
}

func joinSections(sections []string) string {
	return strings.TrimSpace(strings.Join(sections, "\n\n"))
}
