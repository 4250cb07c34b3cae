package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/summaries/internal/events"
	"github.com/Skotchmaster/summaries/internal/models"
	"github.com/Skotchmaster/summaries/internal/repo"
	"github.com/Skotchmaster/summaries/internal/tokens"
	"github.com/Skotchmaster/summaries/internal/transport"
)

type CommentService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *CommentService) Get(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.Repo.GetComment(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) List(ctx context.Context, limit int) ([]models.Comment, error) {
	return s.Repo.ListComments(ctx, limit)
}

func (s *CommentService) Create(ctx context.Context, actor tokens.Identity, req transport.CreateCommentRequest) (*models.Comment, error) {
	if req.UserID != nil && *req.UserID != actor.UserID {
		return nil, ErrForbidden
	}

	comment, err := s.Repo.CreateComment(ctx, &models.Comment{
		Text:      req.Text,
		UserID:    actor.UserID,
		SummaryID: req.SummaryID,
	})
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrMissingUser):
			return nil, ErrMissingUser
		case errors.Is(err, repo.ErrMissingSummary):
			return nil, ErrMissingSummary
		}
		return nil, err
	}

	publish(ctx, s.Events, events.TopicComments, events.Created, comment.ID, actor.UserID)
	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, actor tokens.Identity, id uint, req transport.PatchCommentRequest) (*models.Comment, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	if req.Empty() {
		return nil, ErrEmptyUpdate
	}

	comment, err := s.Repo.UpdateComment(ctx, id, *req.Text)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errCommentNotFound
		}
		return nil, err
	}

	publish(ctx, s.Events, events.TopicComments, events.Updated, id, actor.UserID)
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, actor tokens.Identity, id uint) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.UserID != actor.UserID {
		return ErrForbidden
	}

	if err := s.Repo.DeleteComment(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errCommentNotFound
		}
		return err
	}

	publish(ctx, s.Events, events.TopicComments, events.Deleted, id, actor.UserID)
	return nil
}
