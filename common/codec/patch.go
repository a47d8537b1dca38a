package codec

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lyzr/patternatlas/common/models"
)

const entryPrefix = "- #"

var entryRe = regexp.MustCompile(`-\s*#(\d+)`)

// RelationshipHeader returns the section an entity of kind keeps its relationship list under
func RelationshipHeader(kind models.Kind) string {
	if kind == models.KindSolutionImplementation {
		return HeaderPatterns
	}
	return HeaderSolutionImplementations
}

// AddReference inserts "- #<number>" into the section opened by header.
//
// The entry is appended to the contiguous run of "- #" lines directly below
// the header. A blank line or any other content ends that run. When number is
// already in the run the body is returned unchanged with changed=false. When
// the header is missing it is appended to the end of the body together with
// the entry. Malformed entries are kept verbatim.
func AddReference(body, header string, number int) (updated string, changed bool) {
	entry := fmt.Sprintf("%s%d", entryPrefix, number)
	want := fmt.Sprintf("%d", number)

	var lines []string
	if strings.TrimSpace(body) != "" {
		lines = strings.Split(body, "\n")
	}

	at := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == header {
			at = i
			break
		}
	}

	if at < 0 {
		out := make([]string, 0, len(lines)+3)
		out = append(out, lines...)
		if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
		out = append(out, header, entry)
		return strings.Join(out, "\n"), true
	}

	end := at + 1
	for end < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[end]), entryPrefix) {
		if m := entryRe.FindStringSubmatch(lines[end]); m != nil && m[1] == want {
			return body, false
		}
		end++
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:end]...)
	out = append(out, entry)
	out = append(out, lines[end:]...)
	return strings.Join(out, "\n"), true
}

// LinkRelationship adds a relationship number to the list section owned by kind
func LinkRelationship(kind models.Kind, body string, relationshipNumber int) (string, bool) {
	return AddReference(body, RelationshipHeader(kind), relationshipNumber)
}
