package clients

import "time"

// GitHubClientConfig holds the settings the GitHub discussion client needs.
// Built once at startup from common/config and passed to NewGitHubClient.
type GitHubClientConfig struct {
	Endpoint string
	Token    string
	Owner    string
	Repo     string
	Timeout  time.Duration

	// CommentLimit caps comments fetched with a discussion detail
	CommentLimit int
}

func (c GitHubClientConfig) commentLimit() int {
	if c.CommentLimit <= 0 {
		return 20
	}
	return c.CommentLimit
}

func (c GitHubClientConfig) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return c.Timeout
}
