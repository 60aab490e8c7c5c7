package entity

import (
	"strings"
	"time"

	"github.com/1010nishant/BookMyTrip/internal/domain/apperror"
	"github.com/1010nishant/BookMyTrip/pkg/helpers"
	"github.com/1010nishant/BookMyTrip/pkg/validation"
)

// Role gates access to restricted operations.
type Role string

const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

var validate = validation.New()

// User is the aggregate root for accounts.
// Password holds a bcrypt hash and is never serialised.
type User struct {
	ID                   string     `json:"id" db:"id"`
	Name                 string     `json:"name" db:"name"`
	Email                string     `json:"email" db:"email"`
	Photo                string     `json:"photo" db:"photo"`
	Role                 Role       `json:"role" db:"role"`
	Password             string     `json:"-" db:"password"`
	PasswordChangedAt    *time.Time `json:"-" db:"password_changed_at"`
	PasswordResetToken   *string    `json:"-" db:"password_reset_token"`
	PasswordResetExpires *time.Time `json:"-" db:"password_reset_expires"`
	Active               bool       `json:"-" db:"active"`
	CreatedAt            time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time  `json:"updatedAt" db:"updated_at"`
}

// NewUserInput is what a client may supply when creating an account.
type NewUserInput struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Photo           string `json:"photo"`
	Role            Role   `json:"role" validate:"omitempty,role"`
	Password        string `json:"password" validate:"required,pwd"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// NewUser validates in and returns an active user with a hashed password.
// The password is hashed here rather than at persistence time.
func NewUser(in NewUserInput) (*User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	role := in.Role
	if role == "" {
		role = RoleUser
	}
	photo := in.Photo
	if photo == "" {
		photo = "default.jpg"
	}
	return &User{
		Name:     in.Name,
		Email:    in.Email,
		Photo:    photo,
		Role:     role,
		Password: hash,
		Active:   true,
	}, nil
}

// CorrectPassword compares candidate with the stored hash.
func (u *User) CorrectPassword(candidate string) bool {
	return helpers.CheckPassword(u.Password, candidate)
}

type passwordChange struct {
	Password        string `json:"password" validate:"required,pwd"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// ChangePassword re-hashes the password, stamps PasswordChangedAt and
// clears any outstanding reset ticket. Nothing is modified on error.
func (u *User) ChangePassword(password, confirm string, now time.Time) error {
	if err := validateStruct(passwordChange{Password: password, PasswordConfirm: confirm}); err != nil {
		return err
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return apperror.Internal(err)
	}
	u.Password = hash
	changed := now
	u.PasswordChangedAt = &changed
	u.ClearResetTicket()
	return nil
}

// ChangedPasswordAfter reports whether the password changed after a token
// issued at iat. Comparison is at whole seconds, the resolution of iat.
func (u *User) ChangedPasswordAfter(iat time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Unix() > iat.Unix()
}

// CreateResetTicket replaces any previous ticket and returns the raw token
// to deliver out of band. Only its digest is kept on the user.
func (u *User) CreateResetTicket(now time.Time, ttl time.Duration) (string, error) {
	raw, err := helpers.GenResetToken()
	if err != nil {
		return "", err
	}
	digest := helpers.HashToken(raw)
	expires := now.Add(ttl)
	u.PasswordResetToken = &digest
	u.PasswordResetExpires = &expires
	return raw, nil
}

func (u *User) ClearResetTicket() {
	u.PasswordResetToken = nil
	u.PasswordResetExpires = nil
}

// ResetTicketValid reports whether raw matches a live ticket.
func (u *User) ResetTicketValid(raw string, now time.Time) bool {
	if u.PasswordResetToken == nil || u.PasswordResetExpires == nil {
		return false
	}
	return now.Before(*u.PasswordResetExpires) && helpers.VerifyToken(raw, *u.PasswordResetToken)
}

// HasRole reports whether the user holds one of roles.
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

type profileChange struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
	Role  Role   `json:"role" validate:"required,role"`
}

// UpdateProfile applies the non-empty values and validates the result.
func (u *User) UpdateProfile(name, email string, role Role) error {
	next := profileChange{Name: u.Name, Email: u.Email, Role: u.Role}
	if s := strings.TrimSpace(name); s != "" {
		next.Name = s
	}
	if s := normalizeEmail(email); s != "" {
		next.Email = s
	}
	if role != "" {
		next.Role = role
	}
	if err := validateStruct(next); err != nil {
		return err
	}
	u.Name, u.Email, u.Role = next.Name, next.Email, next.Role
	return nil
}

// FirstName is used to greet the user in mail.
func (u *User) FirstName() string {
	if f := strings.Fields(u.Name); len(f) > 0 {
		return f[0]
	}
	return u.Name
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		details := validation.ToDetails(err)
		return apperror.Validation(validation.Message(details)).WithDetails(details).WithCause(err)
	}
	return nil
}
