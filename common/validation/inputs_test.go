package validation

import (
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) validation.Errors {
	t.Helper()
	require.Error(t, err)
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	return errs
}

func TestCreatePatternInput(t *testing.T) {
	valid := CreatePatternInput{
		Title:        "Cache Aside",
		Description:  "Load on miss.",
		ReferenceURL: "https://example.com/cache-aside",
		IconURL:      "https://example.com/icon.png",
	}
	assert.NoError(t, valid.Validate())

	noIcon := valid
	noIcon.IconURL = ""
	assert.NoError(t, noIcon.Validate(), "icon is optional")

	errs := fieldErrors(t, CreatePatternInput{Title: "   ", ReferenceURL: "not a url"}.Validate())
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "description")
	assert.Contains(t, errs, "reference_url")
	assert.NotContains(t, errs, "icon_url")

	long := valid
	long.Title = strings.Repeat("x", maxTitleLength+1)
	errs = fieldErrors(t, long.Validate())
	assert.Contains(t, errs, "title")
}

func TestCreateSolutionInput(t *testing.T) {
	assert.NoError(t, CreateSolutionInput{Title: "Redis", Description: "In-memory store", SolutionsURL: "https://redis.io"}.Validate())

	errs := fieldErrors(t, CreateSolutionInput{SolutionsURL: "not a url"}.Validate())
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "description")
	assert.Contains(t, errs, "solutions_url")

	errs = fieldErrors(t, CreateSolutionInput{Title: "Redis", Description: "x"}.Validate())
	assert.Contains(t, errs, "solutions_url")
}

func TestDescriptionRejectsHeadingLines(t *testing.T) {
	for _, desc := range []string{"# Heading", "First line\n## Second", "ok\n   #42"} {
		errs := fieldErrors(t, CreatePatternInput{Title: "T", Description: desc, ReferenceURL: "https://example.com"}.Validate())
		assert.Contains(t, errs, "description", desc)

		errs = fieldErrors(t, CreateSolutionInput{Title: "T", Description: desc, SolutionsURL: "https://example.com"}.Validate())
		assert.Contains(t, errs, "description", desc)
	}

	assert.NoError(t, CreatePatternInput{Title: "T", Description: "Use C# or F#", ReferenceURL: "https://example.com"}.Validate())
}

func TestCreateRelationshipInput(t *testing.T) {
	assert.NoError(t, CreateRelationshipInput{PatternNumber: 1, SolutionNumber: 2}.Validate())

	errs := fieldErrors(t, CreateRelationshipInput{PatternNumber: -1}.Validate())
	assert.Contains(t, errs, "pattern_number")
	assert.Contains(t, errs, "solution_number")
}

func TestAddCommentInput(t *testing.T) {
	assert.NoError(t, AddCommentInput{DiscussionID: "D_1", Body: "nice"}.Validate())

	errs := fieldErrors(t, AddCommentInput{Body: "\n\t"}.Validate())
	assert.Contains(t, errs, "discussion_id")
	assert.Contains(t, errs, "body")
}
