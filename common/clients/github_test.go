package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyzr/patternatlas/common/models"
)

type testLogger struct{}

func (testLogger) Info(msg string, keysAndValues ...interface{})  {}
func (testLogger) Error(msg string, keysAndValues ...interface{}) {}
func (testLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (testLogger) Debug(msg string, keysAndValues ...interface{}) {}

type recordedRequest struct {
	Auth      string
	Query     string
	Variables map[string]any
}

// graphQLServer answers every request with respond(req) and records what it saw
func graphQLServer(t *testing.T, respond func(req recordedRequest) (int, string)) (*httptest.Server, func() []recordedRequest) {
	t.Helper()

	var mu sync.Mutex
	var seen []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body graphQLRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		req := recordedRequest{Auth: r.Header.Get("Authorization"), Query: body.Query, Variables: body.Variables}
		mu.Lock()
		seen = append(seen, req)
		mu.Unlock()

		status, payload := respond(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), seen...)
	}
}

func newTestGitHubClient(url string) *GitHubClient {
	return NewGitHubClient(GitHubClientConfig{
		Endpoint: url,
		Token:    "secret",
		Owner:    "acme",
		Repo:     "atlas",
	}, testLogger{})
}

func TestGitHubClient_FetchRepositoryIdentifiers(t *testing.T) {
	srv, seen := graphQLServer(t, func(recordedRequest) (int, string) {
		return http.StatusOK, `{"data":{"repository":{"id":"R_1","discussionCategories":{"nodes":[
			{"id":"C_p","name":"Patterns"},
			{"id":"C_s","name":"Solution Implementations"}]}}}}`
	})

	ids, err := newTestGitHubClient(srv.URL).FetchRepositoryIdentifiers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "R_1", ids.RepositoryID)
	assert.Equal(t, "C_p", ids.CategoryID("Patterns"))
	assert.Equal(t, "C_s", ids.CategoryID("Solution Implementations"))
	assert.Equal(t, "", ids.CategoryID("Missing"))

	reqs := seen()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer secret", reqs[0].Auth)
	assert.Equal(t, "acme", reqs[0].Variables["owner"])
	assert.Equal(t, "atlas", reqs[0].Variables["name"])
}

func TestGitHubClient_TokenFromContextOverridesConfig(t *testing.T) {
	srv, seen := graphQLServer(t, func(recordedRequest) (int, string) {
		return http.StatusOK, `{"data":{"repository":{"id":"R_1","discussionCategories":{"nodes":[]}}}}`
	})

	ctx := WithToken(context.Background(), "user-token")
	_, err := newTestGitHubClient(srv.URL).FetchRepositoryIdentifiers(ctx)
	require.NoError(t, err)

	assert.Equal(t, "Bearer user-token", seen()[0].Auth)
}

func TestGitHubClient_FetchDiscussionList(t *testing.T) {
	srv, seen := graphQLServer(t, func(recordedRequest) (int, string) {
		return http.StatusOK, `{"data":{"repository":{"discussions":{
			"nodes":[{"id":"D_2","number":2,"title":"Two"},{"id":"D_1","number":1,"title":"One"}],
			"pageInfo":{"endCursor":"Y3Vyc29y","hasNextPage":true}}}}}`
	})
	client := newTestGitHubClient(srv.URL)

	list, err := client.FetchDiscussionList(context.Background(), "C_p", "", 10)
	require.NoError(t, err)

	require.Len(t, list.Items, 2)
	assert.Equal(t, models.DiscussionRef{ID: "D_2", Number: 2, Title: "Two"}, list.Items[0])
	assert.Equal(t, "Y3Vyc29y", list.PageInfo.EndCursor)
	assert.True(t, list.PageInfo.HasNextPage)

	_, err = client.FetchDiscussionList(context.Background(), "C_p", "Y3Vyc29y", 10)
	require.NoError(t, err)

	reqs := seen()
	require.Len(t, reqs, 2)
	assert.Nil(t, reqs[0].Variables["after"], "first page sends a null cursor")
	assert.Equal(t, "Y3Vyc29y", reqs[1].Variables["after"])
	assert.Equal(t, "C_p", reqs[1].Variables["categoryId"])
	assert.EqualValues(t, 10, reqs[1].Variables["first"])
}

func TestGitHubClient_FetchDiscussionDetail(t *testing.T) {
	srv, seen := graphQLServer(t, func(recordedRequest) (int, string) {
		return http.StatusOK, `{"data":{"repository":{"discussion":{
			"id":"D_7","number":7,"title":"Cache Aside","url":"https://github.com/acme/atlas/discussions/7",
			"body":"# Description\nLoad on miss.","createdAt":"2024-05-01T10:00:00Z",
			"viewerCanUpdate":true,"viewerCanDelete":false,
			"author":{"login":"octo","avatarUrl":"https://avatars/octo"},
			"category":{"id":"C_p","name":"Patterns","description":"","emojiHTML":""},
			"reactions":{"nodes":[{"content":"THUMBS_UP","user":{"login":"mona","avatarUrl":"https://avatars/mona"}}]},
			"comments":{"nodes":[{"id":"DC_1","body":"nice","publishedAt":"2024-05-02T10:00:00Z","author":null,"reactions":{"nodes":[]}}]}
		}}}}`
	})

	d, err := newTestGitHubClient(srv.URL).FetchDiscussionDetail(context.Background(), 7, true)
	require.NoError(t, err)

	assert.Equal(t, 7, d.Number)
	assert.Equal(t, "D_7", d.ID)
	assert.Equal(t, "# Description\nLoad on miss.", d.Body)
	assert.Equal(t, "octo", d.Author.Login)
	assert.Equal(t, "Patterns", d.Category.Name)
	assert.True(t, d.ViewerCanUpdate)
	require.Len(t, d.Reactions, 1)
	assert.Equal(t, "mona", d.Reactions[0].UserName)
	require.Len(t, d.Comments, 1)
	assert.Equal(t, "nice", d.Comments[0].Body)
	assert.Equal(t, "", d.Comments[0].Author.Login, "deleted authors map to an empty author")

	reqs := seen()
	assert.Equal(t, true, reqs[0].Variables["includeComments"])
	assert.EqualValues(t, 7, reqs[0].Variables["number"])
}

func TestGitHubClient_FetchDiscussionDetail_NotFound(t *testing.T) {
	srv, _ := graphQLServer(t, func(recordedRequest) (int, string) {
		return http.StatusOK, `{"data":{"repository":{"discussion":null}},
			"errors":[{"type":"NOT_FOUND","message":"Could not resolve to a Discussion with the number of 99."}]}`
	})

	_, err := newTestGitHubClient(srv.URL).FetchDiscussionDetail(context.Background(), 99, false)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGitHubClient_FetchDiscussionDetail_NullWithoutErrors(t *testing.T) {
	srv, _ := graphQLServer(t, func(recordedRequest) (int, string) {
		return http.StatusOK, `{"data":{"repository":{"discussion":null}}}`
	})

	_, err := newTestGitHubClient(srv.URL).FetchDiscussionDetail(context.Background(), 99, false)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGitHubClient_TransportErrors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv, _ := graphQLServer(t, func(recordedRequest) (int, string) {
			return http.StatusBadGateway, `upstream down`
		})

		_, err := newTestGitHubClient(srv.URL).FetchDiscussionDetail(context.Background(), 1, false)
		require.Error(t, err)
		assert.NotErrorIs(t, err, models.ErrNotFound)
		assert.Contains(t, err.Error(), "status=502")
	})

	t.Run("graphql error", func(t *testing.T) {
		srv, _ := graphQLServer(t, func(recordedRequest) (int, string) {
			return http.StatusOK, `{"data":null,"errors":[{"type":"RATE_LIMITED","message":"API rate limit exceeded"}]}`
		})

		_, err := newTestGitHubClient(srv.URL).FetchDiscussionDetail(context.Background(), 1, false)
		require.Error(t, err)
		assert.NotErrorIs(t, err, models.ErrNotFound)

		var gqlErrs GraphQLErrors
		require.ErrorAs(t, err, &gqlErrs)
		assert.Contains(t, gqlErrs.Error(), "rate limit")
	})
}

func TestGitHubClient_Mutations(t *testing.T) {
	srv, seen := graphQLServer(t, func(req recordedRequest) (int, string) {
		switch {
		case strings.Contains(req.Query, "createDiscussion("):
			return http.StatusOK, `{"data":{"createDiscussion":{"discussion":{
				"id":"D_12","number":12,"title":"New","body":"stored body","createdAt":"2024-05-01T10:00:00Z",
				"category":{"id":"C_p","name":"Patterns"},"reactions":{"nodes":[]}}}}}`
		case strings.Contains(req.Query, "updateDiscussion("):
			return http.StatusOK, `{"data":{"updateDiscussion":{"discussion":{
				"id":"D_12","number":12,"title":"New","body":"patched","createdAt":"2024-05-01T10:00:00Z",
				"category":{"id":"C_p","name":"Patterns"},"reactions":{"nodes":[]}}}}}`
		default:
			return http.StatusOK, `{"data":{"addDiscussionComment":{"comment":{
				"id":"DC_9","body":"hello","publishedAt":"2024-05-03T10:00:00Z",
				"author":{"login":"octo","avatarUrl":""},"reactions":{"nodes":[]}}}}}`
		}
	})
	client := newTestGitHubClient(srv.URL)
	ctx := context.Background()

	created, err := client.CreateDiscussion(ctx, "New", "body", "C_p", "R_1")
	require.NoError(t, err)
	assert.Equal(t, 12, created.Number)
	assert.Equal(t, "stored body", created.Body)

	updated, err := client.UpdateDiscussionBody(ctx, "D_12", "patched")
	require.NoError(t, err)
	assert.Equal(t, "patched", updated.Body)

	comment, err := client.CreateDiscussionComment(ctx, "D_12", "hello")
	require.NoError(t, err)
	assert.Equal(t, "DC_9", comment.ID)
	assert.Equal(t, "octo", comment.Author.Login)

	reqs := seen()
	require.Len(t, reqs, 3)
	assert.Equal(t, "C_p", reqs[0].Variables["categoryId"])
	assert.Equal(t, "R_1", reqs[0].Variables["repositoryId"])
}

func TestGitHubClient_FetchDiscussionComments(t *testing.T) {
	srv, seen := graphQLServer(t, func(recordedRequest) (int, string) {
		return http.StatusOK, `{"data":{"node":{"comments":{
			"nodes":[{"id":"DC_1","body":"first","publishedAt":"2024-05-02T10:00:00Z","author":{"login":"a","avatarUrl":""},"reactions":{"nodes":[]}}],
			"pageInfo":{"endCursor":null,"hasNextPage":false}}}}}`
	})

	page, err := newTestGitHubClient(srv.URL).FetchDiscussionComments(context.Background(), "D_7", 20, "")
	require.NoError(t, err)

	require.Len(t, page.Nodes, 1)
	assert.Equal(t, "first", page.Nodes[0].Body)
	assert.Equal(t, "", page.PageInfo.EndCursor)
	assert.False(t, page.PageInfo.HasNextPage)
	assert.Equal(t, "D_7", seen()[0].Variables["id"])
}
