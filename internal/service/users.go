package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/summaries/internal/events"
	"github.com/Skotchmaster/summaries/internal/hash"
	"github.com/Skotchmaster/summaries/internal/logging"
	"github.com/Skotchmaster/summaries/internal/models"
	"github.com/Skotchmaster/summaries/internal/repo"
	"github.com/Skotchmaster/summaries/internal/tokens"
	"github.com/Skotchmaster/summaries/internal/transport"
)

type UserService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, limit int) ([]models.User, error) {
	return s.Repo.ListUsers(ctx, limit)
}

func (s *UserService) Summaries(ctx context.Context, id uint) ([]models.Summary, error) {
	list, err := s.Repo.ListUserSummaries(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errUserNotFound
		}
		return nil, err
	}
	return list, nil
}

// Register creates a user with the default role. Asking for any other
// role is refused; roles are granted by admins.
func (s *UserService) Register(ctx context.Context, req transport.CreateUserRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.register", "username", req.Username)

	var roleID uint
	if req.RoleID != nil {
		role, err := s.Repo.GetRoleByID(ctx, *req.RoleID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrMissingRole
			}
			return nil, err
		}
		if role.Name != models.RoleUser {
			l.Warn("register_error", "status", 405, "reason", "role not assignable", "role", role.Name)
			return nil, ErrForbidden
		}
		roleID = role.ID
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user, err := s.Repo.CreateUser(ctx, &models.User{
		Username:     req.Username,
		PasswordHash: pwHash,
		Email:        req.Email,
		FIO:          req.FIO,
		RoleID:       roleID,
	})
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrUsernameTaken):
			l.Warn("register_error", "status", 400, "reason", "user already exists")
			return nil, errUserExists
		case errors.Is(err, repo.ErrMissingRole):
			return nil, ErrMissingRole
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUsers, events.Created, user.ID, user.ID)
	l.Info("register_success", "user_id", user.ID)
	return user, nil
}

// Update changes the caller's own account. Acting on any other id is
// forbidden whether or not that user exists.
func (s *UserService) Update(ctx context.Context, actor tokens.Identity, id uint, req transport.PatchUserRequest) (*models.User, error) {
	if actor.UserID != id {
		return nil, ErrForbidden
	}
	if req.Empty() {
		return nil, ErrEmptyUpdate
	}

	patch := repo.UserPatch{Username: req.Username, Email: req.Email, FIO: req.FIO}
	if req.Password != nil {
		pwHash, err := hash.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		patch.PasswordHash = &pwHash
	}

	user, err := s.Repo.UpdateUser(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, errUserNotFound
		case errors.Is(err, repo.ErrUsernameTaken):
			return nil, errUserExists
		}
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUsers, events.Updated, id, actor.UserID)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor tokens.Identity, id uint) error {
	if actor.UserID != id {
		return ErrForbidden
	}
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errUserNotFound
		}
		return err
	}

	publish(ctx, s.Events, events.TopicUsers, events.Deleted, id, actor.UserID)
	return nil
}

// publish never fails the caller; delivery problems are logged.
func publish(ctx context.Context, p events.Publisher, topic, action string, entityID, actorID uint) {
	if p == nil {
		return
	}
	ev := events.Event{Action: action, EntityID: entityID, ActorID: actorID, At: time.Now().UTC()}
	if err := p.Publish(ctx, topic, ev); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "action", action, "entity_id", entityID, "error", err)
	}
}

// CreateAdmin creates a user holding the admin role. It is only reachable
// from the command line.
func (s *UserService) CreateAdmin(ctx context.Context, username, password string) (*models.User, error) {
	role, err := s.Repo.GetRoleByName(ctx, models.RoleAdmin)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMissingRole
		}
		return nil, err
	}
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.Repo.CreateUser(ctx, &models.User{Username: username, PasswordHash: pwHash, RoleID: role.ID})
	if err != nil {
		if errors.Is(err, repo.ErrUsernameTaken) {
			return nil, errUserExists
		}
		return nil, err
	}
	publish(ctx, s.Events, events.TopicUsers, events.Created, user.ID, user.ID)
	return user, nil
}
