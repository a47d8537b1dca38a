package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lyzr/patternatlas/common/models"
)

const discussionFields = `
fragment DiscussionFields on Discussion {
  id
  number
  title
  url
  body
  createdAt
  viewerCanUpdate
  viewerCanDelete
  author { login avatarUrl }
  category { id name description emojiHTML }
  reactions(first: 20) { nodes { content user { login avatarUrl } } }
}
`

const commentFields = `
fragment CommentFields on DiscussionComment {
  id
  body
  publishedAt
  author { login avatarUrl }
  reactions(first: 20) { nodes { content user { login avatarUrl } } }
}
`

const repositoryIDsQuery = `
query RepositoryIDs($owner: String!, $name: String!) {
  repository(owner: $owner, name: $name) {
    id
    discussionCategories(first: 100) { nodes { id name } }
  }
}`

const discussionListQuery = `
query DiscussionList($owner: String!, $name: String!, $categoryId: ID!, $first: Int!, $after: String) {
  repository(owner: $owner, name: $name) {
    discussions(first: $first, after: $after, categoryId: $categoryId, orderBy: {field: CREATED_AT, direction: DESC}) {
      nodes { id number title }
      pageInfo { endCursor hasNextPage }
    }
  }
}`

const discussionDetailQuery = `
query DiscussionDetail($owner: String!, $name: String!, $number: Int!, $includeComments: Boolean!, $commentsFirst: Int!) {
  repository(owner: $owner, name: $name) {
    discussion(number: $number) {
      ...DiscussionFields
      comments(first: $commentsFirst) @include(if: $includeComments) { nodes { ...CommentFields } }
    }
  }
}` + discussionFields + commentFields

const discussionCommentsQuery = `
query DiscussionComments($id: ID!, $first: Int!, $after: String) {
  node(id: $id) {
    ... on Discussion {
      comments(first: $first, after: $after) {
        nodes { ...CommentFields }
        pageInfo { endCursor hasNextPage }
      }
    }
  }
}` + commentFields

const createDiscussionMutation = `
mutation CreateDiscussion($repositoryId: ID!, $categoryId: ID!, $title: String!, $body: String!) {
  createDiscussion(input: {repositoryId: $repositoryId, categoryId: $categoryId, title: $title, body: $body}) {
    discussion { ...DiscussionFields }
  }
}` + discussionFields

const updateDiscussionMutation = `
mutation UpdateDiscussion($id: ID!, $body: String!) {
  updateDiscussion(input: {discussionId: $id, body: $body}) {
    discussion { ...DiscussionFields }
  }
}` + discussionFields

const addCommentMutation = `
mutation AddDiscussionComment($id: ID!, $body: String!) {
  addDiscussionComment(input: {discussionId: $id, body: $body}) {
    comment { ...CommentFields }
  }
}` + commentFields

type ghActor struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatarUrl"`
}

type ghReactions struct {
	Nodes []struct {
		Content string   `json:"content"`
		User    *ghActor `json:"user"`
	} `json:"nodes"`
}

type ghPageInfo struct {
	EndCursor   *string `json:"endCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

type ghComment struct {
	ID          string      `json:"id"`
	Body        string      `json:"body"`
	PublishedAt time.Time   `json:"publishedAt"`
	Author      *ghActor    `json:"author"`
	Reactions   ghReactions `json:"reactions"`
}

type ghDiscussion struct {
	ID              string    `json:"id"`
	Number          int       `json:"number"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	Body            string    `json:"body"`
	CreatedAt       time.Time `json:"createdAt"`
	ViewerCanUpdate bool      `json:"viewerCanUpdate"`
	ViewerCanDelete bool      `json:"viewerCanDelete"`
	Author          *ghActor  `json:"author"`
	Category        struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		EmojiHTML   string `json:"emojiHTML"`
	} `json:"category"`
	Reactions ghReactions `json:"reactions"`
	Comments  *struct {
		Nodes []ghComment `json:"nodes"`
	} `json:"comments"`
}

// GitHubClient reads and writes repository discussions over the GitHub GraphQL API
type GitHubClient struct {
	gql          *GraphQLClient
	owner        string
	repo         string
	commentLimit int
	logger       Logger
}

// NewGitHubClient creates a new GitHub discussion client
func NewGitHubClient(cfg GitHubClientConfig, logger Logger) *GitHubClient {
	httpClient := &http.Client{
		Timeout: cfg.timeout(),
	}

	return &GitHubClient{
		gql:          NewGraphQLClient(cfg.Endpoint, cfg.Token, httpClient, logger),
		owner:        cfg.Owner,
		repo:         cfg.Repo,
		commentLimit: cfg.commentLimit(),
		logger:       logger,
	}
}

// FetchRepositoryIdentifiers returns the repository id and category ids keyed by name
func (c *GitHubClient) FetchRepositoryIdentifiers(ctx context.Context) (*models.RepositoryIDs, error) {
	var data struct {
		Repository *struct {
			ID                   string `json:"id"`
			DiscussionCategories struct {
				Nodes []struct {
					ID   string `json:"id"`
					Name string `json:"name"`
				} `json:"nodes"`
			} `json:"discussionCategories"`
		} `json:"repository"`
	}

	if err := c.gql.Do(ctx, repositoryIDsQuery, c.repoVars(nil), &data); err != nil {
		return nil, fmt.Errorf("failed to fetch repository identifiers: %w", err)
	}
	if data.Repository == nil {
		return nil, fmt.Errorf("repository %s/%s not found", c.owner, c.repo)
	}

	ids := &models.RepositoryIDs{
		RepositoryID: data.Repository.ID,
		CategoryIDs:  make(map[string]string, len(data.Repository.DiscussionCategories.Nodes)),
	}
	for _, cat := range data.Repository.DiscussionCategories.Nodes {
		ids.CategoryIDs[cat.Name] = cat.ID
	}

	c.logger.Debug("fetched repository identifiers", "repository_id", ids.RepositoryID, "categories", len(ids.CategoryIDs))
	return ids, nil
}

// FetchDiscussionList returns one page of discussions in a category, newest first
func (c *GitHubClient) FetchDiscussionList(ctx context.Context, categoryID, cursor string, pageSize int) (*models.DiscussionList, error) {
	var data struct {
		Repository *struct {
			Discussions struct {
				Nodes []struct {
					ID     string `json:"id"`
					Number int    `json:"number"`
					Title  string `json:"title"`
				} `json:"nodes"`
				PageInfo ghPageInfo `json:"pageInfo"`
			} `json:"discussions"`
		} `json:"repository"`
	}

	vars := c.repoVars(map[string]any{
		"categoryId": categoryID,
		"first":      pageSize,
		"after":      optional(cursor),
	})
	if err := c.gql.Do(ctx, discussionListQuery, vars, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch discussion list: %w", err)
	}
	if data.Repository == nil {
		return nil, fmt.Errorf("repository %s/%s not found", c.owner, c.repo)
	}

	list := &models.DiscussionList{
		Items:    make([]models.DiscussionRef, 0, len(data.Repository.Discussions.Nodes)),
		PageInfo: toPageInfo(data.Repository.Discussions.PageInfo),
	}
	for _, n := range data.Repository.Discussions.Nodes {
		list.Items = append(list.Items, models.DiscussionRef{ID: n.ID, Number: n.Number, Title: n.Title})
	}
	return list, nil
}

// FetchDiscussionDetail returns the full discussion, or models.ErrNotFound
func (c *GitHubClient) FetchDiscussionDetail(ctx context.Context, number int, includeComments bool) (*models.Discussion, error) {
	var data struct {
		Repository *struct {
			Discussion *ghDiscussion `json:"discussion"`
		} `json:"repository"`
	}

	vars := c.repoVars(map[string]any{
		"number":          number,
		"includeComments": includeComments,
		"commentsFirst":   c.commentLimit,
	})
	if err := c.gql.Do(ctx, discussionDetailQuery, vars, &data); err != nil {
		var gqlErrs GraphQLErrors
		if errors.As(err, &gqlErrs) && gqlErrs.NotFound() {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch discussion %d: %w", number, err)
	}
	if data.Repository == nil || data.Repository.Discussion == nil {
		return nil, models.ErrNotFound
	}

	return toDiscussion(data.Repository.Discussion), nil
}

// FetchDiscussionComments returns one page of comments on a discussion
func (c *GitHubClient) FetchDiscussionComments(ctx context.Context, discussionID string, pageSize int, cursor string) (*models.CommentPage, error) {
	var data struct {
		Node *struct {
			Comments *struct {
				Nodes    []ghComment `json:"nodes"`
				PageInfo ghPageInfo  `json:"pageInfo"`
			} `json:"comments"`
		} `json:"node"`
	}

	vars := map[string]any{
		"id":    discussionID,
		"first": pageSize,
		"after": optional(cursor),
	}
	if err := c.gql.Do(ctx, discussionCommentsQuery, vars, &data); err != nil {
		var gqlErrs GraphQLErrors
		if errors.As(err, &gqlErrs) && gqlErrs.NotFound() {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}
	if data.Node == nil || data.Node.Comments == nil {
		return nil, models.ErrNotFound
	}

	page := &models.CommentPage{
		Nodes:    make([]models.Comment, 0, len(data.Node.Comments.Nodes)),
		PageInfo: toPageInfo(data.Node.Comments.PageInfo),
	}
	for i := range data.Node.Comments.Nodes {
		page.Nodes = append(page.Nodes, toComment(&data.Node.Comments.Nodes[i]))
	}
	return page, nil
}

// CreateDiscussion creates a discussion and returns the record the host assigned
func (c *GitHubClient) CreateDiscussion(ctx context.Context, title, body, categoryID, repositoryID string) (*models.Discussion, error) {
	var data struct {
		CreateDiscussion *struct {
			Discussion *ghDiscussion `json:"discussion"`
		} `json:"createDiscussion"`
	}

	vars := map[string]any{
		"repositoryId": repositoryID,
		"categoryId":   categoryID,
		"title":        title,
		"body":         body,
	}
	if err := c.gql.Do(ctx, createDiscussionMutation, vars, &data); err != nil {
		return nil, fmt.Errorf("failed to create discussion: %w", err)
	}
	if data.CreateDiscussion == nil || data.CreateDiscussion.Discussion == nil {
		return nil, fmt.Errorf("create discussion returned no record")
	}

	d := toDiscussion(data.CreateDiscussion.Discussion)
	c.logger.Info("created discussion", "number", d.Number, "category_id", categoryID)
	return d, nil
}

// UpdateDiscussionBody replaces the body of a discussion and returns the stored record
func (c *GitHubClient) UpdateDiscussionBody(ctx context.Context, discussionID, body string) (*models.Discussion, error) {
	var data struct {
		UpdateDiscussion *struct {
			Discussion *ghDiscussion `json:"discussion"`
		} `json:"updateDiscussion"`
	}

	vars := map[string]any{"id": discussionID, "body": body}
	if err := c.gql.Do(ctx, updateDiscussionMutation, vars, &data); err != nil {
		var gqlErrs GraphQLErrors
		if errors.As(err, &gqlErrs) && gqlErrs.NotFound() {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update discussion: %w", err)
	}
	if data.UpdateDiscussion == nil || data.UpdateDiscussion.Discussion == nil {
		return nil, fmt.Errorf("update discussion returned no record")
	}

	return toDiscussion(data.UpdateDiscussion.Discussion), nil
}

// CreateDiscussionComment adds a comment to a discussion
func (c *GitHubClient) CreateDiscussionComment(ctx context.Context, discussionID, body string) (*models.Comment, error) {
	var data struct {
		AddDiscussionComment *struct {
			Comment *ghComment `json:"comment"`
		} `json:"addDiscussionComment"`
	}

	vars := map[string]any{"id": discussionID, "body": body}
	if err := c.gql.Do(ctx, addCommentMutation, vars, &data); err != nil {
		var gqlErrs GraphQLErrors
		if errors.As(err, &gqlErrs) && gqlErrs.NotFound() {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	if data.AddDiscussionComment == nil || data.AddDiscussionComment.Comment == nil {
		return nil, fmt.Errorf("add comment returned no record")
	}

	comment := toComment(data.AddDiscussionComment.Comment)
	return &comment, nil
}

func (c *GitHubClient) repoVars(extra map[string]any) map[string]any {
	vars := map[string]any{"owner": c.owner, "name": c.repo}
	for k, v := range extra {
		vars[k] = v
	}
	return vars
}

// optional turns an empty cursor into a JSON null
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func toPageInfo(p ghPageInfo) models.PageInfo {
	info := models.PageInfo{HasNextPage: p.HasNextPage}
	if p.EndCursor != nil {
		info.EndCursor = *p.EndCursor
	}
	return info
}

func toAuthor(a *ghActor) models.Author {
	if a == nil {
		return models.Author{}
	}
	return models.Author{Login: a.Login, AvatarURL: a.AvatarURL}
}

func toReactions(r ghReactions) []models.Reaction {
	out := make([]models.Reaction, 0, len(r.Nodes))
	for _, n := range r.Nodes {
		author := toAuthor(n.User)
		out = append(out, models.Reaction{
			Content:       n.Content,
			UserName:      author.Login,
			UserAvatarURL: author.AvatarURL,
		})
	}
	return out
}

func toComment(c *ghComment) models.Comment {
	return models.Comment{
		ID:          c.ID,
		Body:        c.Body,
		PublishedAt: c.PublishedAt,
		Author:      toAuthor(c.Author),
		Reactions:   toReactions(c.Reactions),
	}
}

func toDiscussion(d *ghDiscussion) *models.Discussion {
	out := &models.Discussion{
		ID:              d.ID,
		Number:          d.Number,
		Title:           d.Title,
		URL:             d.URL,
		Body:            d.Body,
		CreatedAt:       d.CreatedAt,
		ViewerCanUpdate: d.ViewerCanUpdate,
		ViewerCanDelete: d.ViewerCanDelete,
		Author:          toAuthor(d.Author),
		Category: models.Category{
			ID:          d.Category.ID,
			Name:        d.Category.Name,
			Description: d.Category.Description,
			EmojiHTML:   d.Category.EmojiHTML,
		},
		Reactions: toReactions(d.Reactions),
		Comments:  []models.Comment{},
	}
	if d.Comments != nil {
		for i := range d.Comments.Nodes {
			out.Comments = append(out.Comments, toComment(&d.Comments.Nodes[i]))
		}
	}
	return out
}
