package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/1010nishant/BookMyTrip/internal/domain/apperror"
	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
	repo "github.com/1010nishant/BookMyTrip/internal/domain/repository"
)

var (
	errNoUser            = apperror.NotFound("No user found with that ID")
	errNotForPasswords   = apperror.Validation("This route is not for password updates. Please use /updateMyPassword.")
	errNotAnImage        = apperror.Validation("Not an image! Please upload only images.")
	errPhotosUnavailable = errors.New("photo storage is not configured")
)

// PhotoStore persists uploaded photos and returns their public URL.
type PhotoStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

type UserService struct {
	Repo   repo.UserRepository
	Photos PhotoStore
	Logger *logrus.Logger
}

func NewUserService(r repo.UserRepository, photos PhotoStore, logger *logrus.Logger) *UserService {
	return &UserService{Repo: r, Photos: photos, Logger: logger}
}

// UpdateMeInput is what a signed-in user may change about themselves.
// The password fields exist only to be refused.
type UpdateMeInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// AdminUpdateInput is what an admin may change on any account.
type AdminUpdateInput struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  entity.Role `json:"role"`
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errNoUser
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]*entity.User, error) {
	return s.Repo.List(ctx)
}

func (s *UserService) UpdateMe(ctx context.Context, userID string, in UpdateMeInput) (*entity.User, error) {
	if in.Password != "" || in.PasswordConfirm != "" {
		return nil, errNotForPasswords
	}
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := u.UpdateProfile(in.Name, in.Email, ""); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteMe deactivates the account. The row is kept.
func (s *UserService) DeleteMe(ctx context.Context, userID string) error {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	u.Active = false
	return s.Repo.Update(ctx, u)
}

// UploadPhoto stores an image under users/<id>/ and points the profile at it.
func (s *UserService) UploadPhoto(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errNotAnImage
	}
	if s.Photos == nil {
		return nil, apperror.Internal(errPhotosUnavailable)
	}
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("users", u.ID, uuid.NewString()+ext))
	url, err := s.Photos.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}
	u.Photo = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "object": objectPath}).Info("user photo updated")
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id string, in AdminUpdateInput) (*entity.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.UpdateProfile(in.Name, in.Email, in.Role); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errNoUser
		}
		return err
	}
	return nil
}
