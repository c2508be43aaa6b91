package service

import (
	"context"

	"user-backend/internal/hash"
	"user-backend/internal/logging"
	"user-backend/internal/models"
	"user-backend/internal/repo"
	"user-backend/internal/util"
)

type UserService struct {
	Repo *repo.GormRepo
}

type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Names    string
	IsAdmin  bool
}

// UpdateUserInput carries only the fields present in the request; nil means
// "leave unchanged".
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	Names    *string
	IsAdmin  *bool
}

type UserPage struct {
	Data []models.Summary `json:"data"`
	Meta PageMeta         `json:"meta"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.Summary, error) {
	l := logging.FromContext(ctx).With("svc", "user.create")

	if taken, err := s.Repo.EmailTaken(ctx, in.Email, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}
	if taken, err := s.Repo.UsernameTaken(ctx, in.Username, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("create_failed", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: pwHash,
		Names:        in.Names,
		IsAdmin:      in.IsAdmin,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		// the pre-checks race with concurrent creates; the unique indexes
		// are the authority
		if repo.IsDuplicate(err) {
			return nil, ErrEmailTaken
		}
		l.Error("create_failed", "error", err)
		return nil, err
	}

	l.Info("user_created", "user_id", user.ID)
	summary := user.Summary()
	return &summary, nil
}

func (s *UserService) FindAll(ctx context.Context, page, limit int) (*UserPage, error) {
	offset, limit := util.Calculate(page, limit)
	if page < 1 {
		page = 1
	}

	users, total, err := s.Repo.ListUsers(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.Summary, len(users))
	for i := range users {
		summaries[i] = users[i].Summary()
	}

	return &UserPage{
		Data: summaries,
		Meta: PageMeta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
		},
	}, nil
}

func (s *UserService) FindOne(ctx context.Context, id uint) (*models.Summary, error) {
	user, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	summary := user.Summary()
	return &summary, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput) (*models.Summary, error) {
	l := logging.FromContext(ctx).With("svc", "user.update", "user_id", id)

	user, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if in.Username != nil && *in.Username != user.Username {
		if taken, err := s.Repo.UsernameTaken(ctx, *in.Username, id); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrUsernameTaken
		}
		user.Username = *in.Username
	}
	if in.Email != nil && *in.Email != user.Email {
		if taken, err := s.Repo.EmailTaken(ctx, *in.Email, id); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrEmailTaken
		}
		user.Email = *in.Email
	}
	if in.Password != nil && *in.Password != "" {
		pwHash, err := hash.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = pwHash
	}
	if in.Names != nil {
		user.Names = *in.Names
	}
	if in.IsAdmin != nil {
		user.IsAdmin = *in.IsAdmin
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		if repo.IsDuplicate(err) {
			return nil, ErrUsernameTaken
		}
		l.Error("update_failed", "error", err)
		return nil, err
	}

	l.Info("user_updated")
	summary := user.Summary()
	return &summary, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) (*models.Summary, error) {
	l := logging.FromContext(ctx).With("svc", "user.delete", "user_id", id)

	user, err := s.Repo.DeleteUser(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		l.Error("delete_failed", "error", err)
		return nil, err
	}

	l.Info("user_deleted")
	summary := user.Summary()
	return &summary, nil
}
