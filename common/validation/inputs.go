// Package validation checks mutation inputs before anything is encoded or sent.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	maxTitleLength = 256
	maxBodyLength  = 65536
)

// httpURL accepts absolute http(s) links, the only form the body codec reads back
var httpURL = validation.Match(regexp.MustCompile(`^https?://[^\s()]+$`)).Error("must be an http(s) URL")

// notBlank rejects strings that are empty after trimming
var notBlank = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_blank", "must not be blank")
	}
	return nil
})

// noHeadingLines rejects text with a line starting with '#', which would end the description section of an encoded body
var noHeadingLines = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			return validation.NewError("validation_heading_line", "must not contain lines starting with '#'")
		}
	}
	return nil
})

// CreatePatternInput is the request to create a pattern
type CreatePatternInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ReferenceURL string `json:"reference_url"`
	IconURL      string `json:"icon_url"`
}

// Validate implements validation.Validatable
func (in CreatePatternInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, notBlank, validation.RuneLength(1, maxTitleLength)),
		validation.Field(&in.Description, validation.Required, notBlank, noHeadingLines, validation.Length(1, maxBodyLength)),
		validation.Field(&in.ReferenceURL, validation.Required, httpURL, publicHost),
		validation.Field(&in.IconURL, httpURL, publicHost),
	)
}

// CreateSolutionInput is the request to create a solution implementation
type CreateSolutionInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	SolutionsURL string `json:"solutions_url"`
}

// Validate implements validation.Validatable
func (in CreateSolutionInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, notBlank, validation.RuneLength(1, maxTitleLength)),
		validation.Field(&in.Description, validation.Required, notBlank, noHeadingLines, validation.Length(1, maxBodyLength)),
		validation.Field(&in.SolutionsURL, validation.Required, httpURL, publicHost),
	)
}

// CreateRelationshipInput links a pattern to a solution implementation
type CreateRelationshipInput struct {
	PatternNumber  int `json:"pattern_number"`
	SolutionNumber int `json:"solution_number"`
}

// Validate implements validation.Validatable
func (in CreateRelationshipInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.PatternNumber, validation.Required, validation.Min(1)),
		validation.Field(&in.SolutionNumber, validation.Required, validation.Min(1)),
	)
}

// AddCommentInput is the request to comment on a discussion
type AddCommentInput struct {
	DiscussionID string `json:"discussion_id"`
	Body         string `json:"body"`
}

// Validate implements validation.Validatable
func (in AddCommentInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.DiscussionID, validation.Required),
		validation.Field(&in.Body, validation.Required, notBlank, validation.Length(1, maxBodyLength)),
	)
}
