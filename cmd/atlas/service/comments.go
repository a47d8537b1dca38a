package service

import (
	"context"
	"encoding/json"

	"github.com/lyzr/patternatlas/common/events"
	"github.com/lyzr/patternatlas/common/models"
	"github.com/lyzr/patternatlas/common/validation"
)

func commentPrefix(discussionID string) string {
	return "comments:" + discussionID + ":"
}

// ListComments returns one page of comments, served from the comment cache when possible
func (s *KnowledgeBaseService) ListComments(ctx context.Context, discussionID, cursor string) (*models.CommentPage, error) {
	key := commentPrefix(discussionID) + cursor

	if s.comments != nil {
		raw, found, err := s.comments.Get(ctx, key)
		if err != nil {
			s.log.Warn("comment cache read failed", "key", key, "error", err)
		}
		s.metrics.CacheLookup("comment", found)
		if found {
			var page models.CommentPage
			if err := json.Unmarshal(raw, &page); err == nil {
				return &page, nil
			}
			s.log.Warn("dropping undecodable comment cache entry", "key", key)
		}
	}

	page, err := s.store.FetchComments(ctx, discussionID, s.commentPageSize, cursor)
	if err != nil {
		return nil, err
	}

	if s.comments != nil {
		if raw, err := json.Marshal(page); err == nil {
			if err := s.comments.Set(ctx, key, raw, s.commentTTL); err != nil {
				s.log.Warn("comment cache write failed", "key", key, "error", err)
			}
		}
	}
	return page, nil
}

// AddComment posts a comment and invalidates the cached comment pages of that discussion
func (s *KnowledgeBaseService) AddComment(ctx context.Context, in validation.AddCommentInput) (*models.Comment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	comment, err := s.store.AddComment(ctx, in.DiscussionID, in.Body)
	if err != nil {
		return nil, err
	}

	if s.comments != nil {
		if err := s.comments.DeletePrefix(ctx, commentPrefix(in.DiscussionID)); err != nil {
			s.log.Warn("comment cache invalidation failed", "discussion_id", in.DiscussionID, "error", err)
		}
	}

	s.publish(ctx, events.CommentCreated, map[string]any{
		"discussion_id": in.DiscussionID,
		"comment_id":    comment.ID,
	})
	return comment, nil
}
