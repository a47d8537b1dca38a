package ratelimit

import (
	"net/http"
	"strings"
)

// ClassifyRequest maps a write request to its mutation class.
// ok is false for reads and for paths that are not knowledge base mutations.
func ClassifyRequest(method, path string) (Mutation, bool) {
	if method != http.MethodPost {
		return "", false
	}

	path = strings.TrimSuffix(path, "/")
	switch {
	case strings.HasSuffix(path, "/comments"):
		return MutationComment, true
	case strings.HasSuffix(path, "/relationships"):
		return MutationRelationship, true
	case strings.HasSuffix(path, "/patterns"), strings.HasSuffix(path, "/solutions"):
		return MutationEntity, true
	}
	return "", false
}
