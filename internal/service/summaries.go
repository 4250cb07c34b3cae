package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/summaries/internal/events"
	"github.com/Skotchmaster/summaries/internal/logging"
	"github.com/Skotchmaster/summaries/internal/models"
	"github.com/Skotchmaster/summaries/internal/repo"
	"github.com/Skotchmaster/summaries/internal/search"
	"github.com/Skotchmaster/summaries/internal/tokens"
	"github.com/Skotchmaster/summaries/internal/transport"
)

type SummaryService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Index  search.Index
}

func (s *SummaryService) Get(ctx context.Context, id uint) (*models.Summary, error) {
	summary, err := s.Repo.GetSummary(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errSummaryNotFound
		}
		return nil, err
	}
	return summary, nil
}

func (s *SummaryService) List(ctx context.Context, limit int) ([]models.Summary, error) {
	return s.Repo.ListSummaries(ctx, limit)
}

// Search asks the search index first and falls back to a database
// substring match when the index is disabled or failing.
func (s *SummaryService) Search(ctx context.Context, q string, limit int) ([]models.Summary, error) {
	l := logging.FromContext(ctx).With("svc", "summaries.search")

	if s.Index != nil {
		ids, err := s.Index.Search(ctx, q, limit)
		if err == nil {
			return s.Repo.ListSummariesByIDs(ctx, ids)
		}
		if !errors.Is(err, search.ErrDisabled) {
			l.Warn("search_index_failed", "error", err)
		}
	}
	return s.Repo.SearchSummaries(ctx, q, limit)
}

// Create stores a summary owned by actor. A body naming another owner is forbidden.
func (s *SummaryService) Create(ctx context.Context, actor tokens.Identity, req transport.CreateSummaryRequest) (*models.Summary, error) {
	if req.UserID != nil && *req.UserID != actor.UserID {
		return nil, ErrForbidden
	}

	summary, err := s.Repo.CreateSummary(ctx, &models.Summary{
		Title:       req.Title,
		Description: req.Description,
		UserID:      actor.UserID,
	})
	if err != nil {
		if errors.Is(err, repo.ErrMissingUser) {
			return nil, ErrMissingUser
		}
		return nil, err
	}

	s.index(ctx, summary)
	publish(ctx, s.Events, events.TopicSummaries, events.Created, summary.ID, actor.UserID)
	return summary, nil
}

func (s *SummaryService) Update(ctx context.Context, actor tokens.Identity, id uint, req transport.PatchSummaryRequest) (*models.Summary, error) {
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

	summary, err := s.Repo.UpdateSummary(ctx, id, repo.SummaryPatch{Title: req.Title, Description: req.Description})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errSummaryNotFound
		}
		return nil, err
	}

	s.index(ctx, summary)
	publish(ctx, s.Events, events.TopicSummaries, events.Updated, id, actor.UserID)
	return summary, nil
}

func (s *SummaryService) Delete(ctx context.Context, actor tokens.Identity, id uint) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.UserID != actor.UserID {
		return ErrForbidden
	}

	if err := s.Repo.DeleteSummary(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errSummaryNotFound
		}
		return err
	}

	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_unindex_failed", "summary_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicSummaries, events.Deleted, id, actor.UserID)
	return nil
}

func (s *SummaryService) index(ctx context.Context, summary *models.Summary) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Put(ctx, summary); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "summary_id", summary.ID, "error", err)
	}
}
