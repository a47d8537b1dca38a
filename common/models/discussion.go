package models

import "time"

// Author is the account that created a discussion or comment
type Author struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// Category is the discussion category a record lives in
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	EmojiHTML   string `json:"emoji_html,omitempty"`
}

// Reaction is a single emoji reaction on a discussion or comment
type Reaction struct {
	Content       string `json:"content"`
	UserName      string `json:"user_name"`
	UserAvatarURL string `json:"user_avatar_url"`
}

// Comment on a discussion
type Comment struct {
	ID          string     `json:"id"`
	Body        string     `json:"body"`
	PublishedAt time.Time  `json:"published_at"`
	Author      Author     `json:"author"`
	Reactions   []Reaction `json:"reactions"`
}

// Discussion is the raw record returned by the discussion service.
// Body is the single source of truth for every derived entity field.
type Discussion struct {
	ID              string     `json:"id"`
	Number          int        `json:"number"`
	Title           string     `json:"title"`
	URL             string     `json:"url"`
	Body            string     `json:"body"`
	Category        Category   `json:"category"`
	CreatedAt       time.Time  `json:"created_at"`
	Author          Author     `json:"author"`
	ViewerCanUpdate bool       `json:"viewer_can_update"`
	ViewerCanDelete bool       `json:"viewer_can_delete"`
	Comments        []Comment  `json:"comments"`
	Reactions       []Reaction `json:"reactions"`
}

// DiscussionRef is the lightweight projection kept in list pages
type DiscussionRef struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Title  string `json:"title"`
}

// PageInfo describes the position of a page in a cursor-paginated list
type PageInfo struct {
	EndCursor   string `json:"end_cursor"`
	HasNextPage bool   `json:"has_next_page"`
}

// DiscussionList is one page of a category listing
type DiscussionList struct {
	Items    []DiscussionRef `json:"items"`
	PageInfo PageInfo        `json:"page_info"`
}

// CommentPage is one page of comments on a discussion
type CommentPage struct {
	Nodes    []Comment `json:"nodes"`
	PageInfo PageInfo  `json:"page_info"`
}

// RepositoryIDs holds the identifiers needed for create calls.
// CategoryIDs maps category name to category id.
type RepositoryIDs struct {
	RepositoryID string            `json:"repository_id"`
	CategoryIDs  map[string]string `json:"category_ids"`
}

// CategoryID returns the id for a category name, or "" when unknown
func (r *RepositoryIDs) CategoryID(name string) string {
	if r == nil {
		return ""
	}
	return r.CategoryIDs[name]
}
