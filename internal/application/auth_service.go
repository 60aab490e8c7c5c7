package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/1010nishant/BookMyTrip/internal/domain/apperror"
	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
	repo "github.com/1010nishant/BookMyTrip/internal/domain/repository"
	"github.com/1010nishant/BookMyTrip/pkg/helpers"
	"github.com/1010nishant/BookMyTrip/pkg/mailer"
)

// DefaultResetTTL is how long a password reset ticket stays valid.
const DefaultResetTTL = 10 * time.Minute

var errNoUserWithEmail = apperror.NotFound("There is no user with that email address.")

// AuthService issues and verifies access tokens and runs the password
// reset lifecycle.
type AuthService struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Mail   mailer.Sender
	Logger *logrus.Logger

	// From and Brand are used on outgoing mail.
	From  string
	Brand string

	ResetTTL time.Duration
	// HideUnknownEmail makes password reset requests for unknown addresses
	// succeed silently.
	HideUnknownEmail bool

	Now func() time.Time
}

func NewAuthService(users repo.UserRepository, jwtm *helpers.JWTManager, mail mailer.Sender, logger *logrus.Logger, from, brand string, resetTTL time.Duration, hideUnknownEmail bool) *AuthService {
	if resetTTL <= 0 {
		resetTTL = DefaultResetTTL
	}
	return &AuthService{
		Users:            users,
		JWT:              jwtm,
		Mail:             mail,
		Logger:           logger,
		From:             from,
		Brand:            brand,
		ResetTTL:         resetTTL,
		HideUnknownEmail: hideUnknownEmail,
		Now:              time.Now,
	}
}

func (s *AuthService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Issue signs a credential for subjectID. Nothing is persisted.
func (s *AuthService) Issue(subjectID string) (entity.Credential, error) {
	token, iat, exp, err := s.JWT.Generate(subjectID)
	if err != nil {
		return entity.Credential{}, apperror.Internal(err)
	}
	return entity.Credential{SubjectID: subjectID, Token: token, IssuedAt: iat, ExpiresAt: exp}, nil
}

// Verify resolves rawToken to its active user. A password change after the
// token was issued invalidates it.
func (s *AuthService) Verify(ctx context.Context, rawToken string) (*entity.User, error) {
	if rawToken == "" {
		return nil, apperror.ErrMissingToken
	}
	claims, err := s.JWT.Parse(rawToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.ErrExpired.WithCause(err)
		}
		return nil, apperror.ErrInvalidSignature.WithCause(err)
	}

	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.ErrUnknownSubject
		}
		return nil, err
	}
	if !u.Active {
		return nil, apperror.ErrUnknownSubject
	}
	if u.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return nil, apperror.ErrStalePassword
	}
	return u, nil
}

// Authorize fails with Forbidden unless u holds one of roles.
func Authorize(u *entity.User, roles ...entity.Role) error {
	if u == nil || !u.HasRole(roles...) {
		return apperror.ErrForbidden
	}
	return nil
}

// Signup creates a regular user and signs them in. The welcome mail is best
// effort.
func (s *AuthService) Signup(ctx context.Context, in entity.NewUserInput, welcomeURL string) (*entity.User, entity.Credential, error) {
	in.Role = entity.RoleUser
	in.Photo = ""
	u, err := entity.NewUser(in)
	if err != nil {
		return nil, entity.Credential{}, err
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, entity.Credential{}, err
	}

	msg, err := mailer.NewEmail(s.From, s.Brand, u.Email, u.FirstName(), welcomeURL).Welcome()
	if err == nil {
		err = s.Mail.Send(ctx, msg)
	}
	if err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email failed")
	}

	cred, err := s.Issue(u.ID)
	if err != nil {
		return nil, entity.Credential{}, err
	}
	return u, cred, nil
}

// Login checks email and password. Unknown, inactive and wrong-password
// accounts are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, entity.Credential, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, entity.Credential{}, apperror.Validation("Please provide email and password!")
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, entity.Credential{}, apperror.ErrInvalidCredentials
		}
		return nil, entity.Credential{}, err
	}
	if !u.Active || !u.CorrectPassword(password) {
		return nil, entity.Credential{}, apperror.ErrInvalidCredentials
	}
	cred, err := s.Issue(u.ID)
	if err != nil {
		return nil, entity.Credential{}, err
	}
	return u, cred, nil
}

// UpdatePassword changes the password of a signed-in user after checking the
// current one. Every credential issued before now becomes stale.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, current, password, confirm string) (*entity.User, entity.Credential, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, entity.Credential{}, apperror.ErrUnknownSubject
		}
		return nil, entity.Credential{}, err
	}
	if !u.CorrectPassword(current) {
		return nil, entity.Credential{}, apperror.New(apperror.KindInvalidCredentials, "Your current password is wrong.")
	}
	if err := u.ChangePassword(password, confirm, s.now()); err != nil {
		return nil, entity.Credential{}, err
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, entity.Credential{}, err
	}
	cred, err := s.Issue(u.ID)
	if err != nil {
		return nil, entity.Credential{}, err
	}
	return u, cred, nil
}

// RequestPasswordReset stores a fresh reset ticket and mails the raw token
// as resetURLBase + "/" + token. When the mail cannot be sent the ticket is
// cleared again and a Delivery error is returned.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email, resetURLBase string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err == nil && !u.Active {
		err = repo.ErrNotFound
	}
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return err
		}
		if s.HideUnknownEmail {
			if s.Logger != nil {
				s.Logger.WithField("email", email).Info("password reset requested for unknown email")
			}
			return nil
		}
		return errNoUserWithEmail
	}

	raw, err := u.CreateResetTicket(s.now(), s.ResetTTL)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return err
	}

	url := strings.TrimRight(resetURLBase, "/") + "/" + raw
	msg, err := mailer.NewEmail(s.From, s.Brand, u.Email, u.FirstName(), url).PasswordReset(s.ResetTTL)
	if err == nil {
		err = s.Mail.Send(ctx, msg)
	}
	if err != nil {
		s.rollbackResetTicket(ctx, u, err)
		return apperror.ErrDelivery.WithCause(err)
	}
	return nil
}

// rollbackResetTicket clears the ticket it just issued. The store only drops
// it while it is still current, so a newer ticket or a completed reset from a
// concurrent request survives.
func (s *AuthService) rollbackResetTicket(ctx context.Context, u *entity.User, cause error) {
	var uerr error
	if u.PasswordResetToken != nil {
		uerr = s.Users.ClearResetTicket(context.WithoutCancel(ctx), u.ID, *u.PasswordResetToken)
	}
	u.ClearResetTicket()
	if s.Logger == nil {
		return
	}
	entry := s.Logger.WithError(cause).WithField("user_id", u.ID)
	if uerr != nil {
		entry.WithField("rollback_error", uerr.Error()).Error("reset email failed and ticket could not be cleared")
		return
	}
	entry.Warn("reset email failed, ticket cleared")
}

// CompletePasswordReset sets a new password for the holder of a live reset
// ticket and signs them in. A missing, unknown or expired token changes
// nothing.
func (s *AuthService) CompletePasswordReset(ctx context.Context, rawToken, password, confirm string) (*entity.User, entity.Credential, error) {
	if rawToken == "" {
		return nil, entity.Credential{}, apperror.ErrInvalidOrExpiredToken
	}
	now := s.now()
	u, err := s.Users.GetByResetToken(ctx, helpers.HashToken(rawToken), now)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, entity.Credential{}, apperror.ErrInvalidOrExpiredToken
		}
		return nil, entity.Credential{}, err
	}
	if !u.ResetTicketValid(rawToken, now) {
		return nil, entity.Credential{}, apperror.ErrInvalidOrExpiredToken
	}
	if err := u.ChangePassword(password, confirm, now); err != nil {
		return nil, entity.Credential{}, err
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, entity.Credential{}, err
	}
	cred, err := s.Issue(u.ID)
	if err != nil {
		return nil, entity.Credential{}, err
	}
	return u, cred, nil
}
