package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hbnb/hbnb-api/internal/domain/entities"
	"github.com/hbnb/hbnb-api/internal/domain/repositories"
	apperrors "github.com/hbnb/hbnb-api/pkg/errors"
)

// PasswordHasher hashes and verifies user passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// UserInput carries the fields needed to create a user
type UserInput struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	IsAdmin   bool   `json:"is_admin"`
}

// UserPatch lists the user fields an update may change. Nil fields are kept.
// The admin flag is not updatable.
type UserPatch struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password"`
}

// UserService manages user accounts
type UserService struct {
	repo   repositories.Repository
	hasher PasswordHasher
	now    func() time.Time
}

// NewUserService creates a new user service
func NewUserService(repo repositories.Repository, hasher PasswordHasher) *UserService {
	return &UserService{repo: repo, hasher: hasher, now: time.Now}
}

// Create stores a new user with a hashed password
func (s *UserService) Create(ctx context.Context, input UserInput) (*entities.User, error) {
	user := &entities.User{
		Base:      entities.NewBase(s.now()),
		Email:     entities.NormalizeEmail(input.Email),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		IsAdmin:   input.IsAdmin,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if input.Password == "" {
		return nil, apperrors.NewValidationError("missing field: password")
	}
	if err := s.checkEmailFree(ctx, user); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}
	user.PasswordHash = hash

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get returns a user by id
func (s *UserService) Get(ctx context.Context, id string) (*entities.User, error) {
	return fetch[*entities.User](ctx, s.repo, entities.KindUser, id)
}

// GetAll lists every user
func (s *UserService) GetAll(ctx context.Context) ([]*entities.User, error) {
	return repositories.All[*entities.User](ctx, s.repo, entities.KindUser)
}

// GetByEmail returns the user registered with email
func (s *UserService) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	email = entities.NormalizeEmail(email)
	matches, err := filter(ctx, s.repo, entities.KindUser, func(u *entities.User) bool {
		return u.Email == email
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("User with email %s not found", email))
	}
	return matches[0], nil
}

// Update applies patch to the user with the given id
func (s *UserService) Update(ctx context.Context, id string, patch UserPatch) (*entities.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		user.Email = entities.NormalizeEmail(*patch.Email)
	}
	if patch.FirstName != nil {
		user.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		user.LastName = strings.TrimSpace(*patch.LastName)
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if patch.Email != nil {
		if err := s.checkEmailFree(ctx, user); err != nil {
			return nil, err
		}
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			return nil, apperrors.NewValidationError("password must not be empty")
		}
		hash, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to hash password", err)
		}
		user.PasswordHash = hash
	}

	user.Touch(s.now())
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user and the reviews they wrote. Users still hosting places
// cannot be deleted.
func (s *UserService) Delete(ctx context.Context, id string) (bool, error) {
	user, found, err := repositories.One[*entities.User](ctx, s.repo, entities.KindUser, id)
	if err != nil || !found {
		return false, err
	}

	hosted, err := filter(ctx, s.repo, entities.KindPlace, func(p *entities.Place) bool {
		return p.HostID == id
	})
	if err != nil {
		return false, err
	}
	if len(hosted) > 0 {
		return false, apperrors.NewConflictError(fmt.Sprintf("User with ID %s still hosts %d places", id, len(hosted)))
	}

	reviews, err := filter(ctx, s.repo, entities.KindReview, func(r *entities.Review) bool {
		return r.UserID == id
	})
	if err != nil {
		return false, err
	}
	if err := removeAll(ctx, s.repo, reviews); err != nil {
		return false, err
	}

	return s.repo.Delete(ctx, user)
}

// Authenticate returns the user matching email and password
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entities.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewUnauthorizedError("Wrong email or password")
		}
		return nil, err
	}
	if user.PasswordHash == "" || !s.hasher.Compare(user.PasswordHash, password) {
		return nil, apperrors.NewUnauthorizedError("Wrong email or password")
	}
	return user, nil
}

func (s *UserService) checkEmailFree(ctx context.Context, user *entities.User) error {
	taken, err := filter(ctx, s.repo, entities.KindUser, func(u *entities.User) bool {
		return u.ID != user.ID && u.Email == user.Email
	})
	if err != nil {
		return err
	}
	if len(taken) > 0 {
		return apperrors.NewConflictError("User already exists")
	}
	return nil
}
