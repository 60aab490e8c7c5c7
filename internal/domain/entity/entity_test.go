package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1010nishant/BookMyTrip/internal/domain/apperror"
)

func validUserInput() NewUserInput {
	return NewUserInput{
		Name:            "Jonas Schmedtmann",
		Email:           "  Jonas@Example.com ",
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	}
}

func TestNewUserHashesAndNormalises(t *testing.T) {
	u, err := NewUser(validUserInput())
	require.NoError(t, err)

	assert.Equal(t, "jonas@example.com", u.Email)
	assert.Equal(t, RoleUser, u.Role)
	assert.True(t, u.Active)
	assert.NotEqual(t, "pass1234", u.Password)
	assert.True(t, u.CorrectPassword("pass1234"))
	assert.False(t, u.CorrectPassword("pass12345"))
	assert.Equal(t, "Jonas", u.FirstName())
}

func TestNewUserValidation(t *testing.T) {
	cases := map[string]func(*NewUserInput){
		"missing name":   func(in *NewUserInput) { in.Name = " " },
		"bad email":      func(in *NewUserInput) { in.Email = "jonas" },
		"short password": func(in *NewUserInput) { in.Password, in.PasswordConfirm = "12345", "12345" },
		"confirm differs": func(in *NewUserInput) {
			in.PasswordConfirm = "pass4321"
		},
		"unknown role": func(in *NewUserInput) { in.Role = "root" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validUserInput()
			mutate(&in)
			_, err := NewUser(in)
			require.Error(t, err)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		})
	}
}

func TestChangePasswordStampsAndClearsTicket(t *testing.T) {
	u, err := NewUser(validUserInput())
	require.NoError(t, err)
	now := time.Unix(1_700_000_000, 0)

	_, err = u.CreateResetTicket(now, 10*time.Minute)
	require.NoError(t, err)

	require.NoError(t, u.ChangePassword("newpass123", "newpass123", now))
	assert.True(t, u.CorrectPassword("newpass123"))
	assert.Equal(t, now, *u.PasswordChangedAt)
	assert.Nil(t, u.PasswordResetToken)
	assert.Nil(t, u.PasswordResetExpires)
}

func TestChangePasswordRejectsMismatchWithoutMutation(t *testing.T) {
	u, err := NewUser(validUserInput())
	require.NoError(t, err)
	before := u.Password

	err = u.ChangePassword("newpass123", "other", time.Now())
	require.Error(t, err)
	assert.Equal(t, before, u.Password)
	assert.Nil(t, u.PasswordChangedAt)
}

func TestChangedPasswordAfter(t *testing.T) {
	u := &User{}
	iat := time.Unix(1_700_000_000, 0)
	assert.False(t, u.ChangedPasswordAfter(iat))

	changed := iat.Add(500 * time.Millisecond)
	u.PasswordChangedAt = &changed
	assert.False(t, u.ChangedPasswordAfter(iat), "same second is not stale")

	changed = iat.Add(time.Second)
	u.PasswordChangedAt = &changed
	assert.True(t, u.ChangedPasswordAfter(iat))

	changed = iat.Add(-time.Hour)
	u.PasswordChangedAt = &changed
	assert.False(t, u.ChangedPasswordAfter(iat))
}

func TestResetTicket(t *testing.T) {
	u := &User{}
	now := time.Unix(1_700_000_000, 0)

	first, err := u.CreateResetTicket(now, 10*time.Minute)
	require.NoError(t, err)
	second, err := u.CreateResetTicket(now, 10*time.Minute)
	require.NoError(t, err)

	assert.NotEqual(t, second, *u.PasswordResetToken, "only the digest is stored")
	assert.False(t, u.ResetTicketValid(first, now), "a new ticket replaces the old one")
	assert.True(t, u.ResetTicketValid(second, now.Add(9*time.Minute)))
	assert.False(t, u.ResetTicketValid(second, now.Add(10*time.Minute)))

	u.ClearResetTicket()
	assert.False(t, u.ResetTicketValid(second, now))
}

func TestUpdateProfile(t *testing.T) {
	u, err := NewUser(validUserInput())
	require.NoError(t, err)

	require.NoError(t, u.UpdateProfile("Jonas S", "", ""))
	assert.Equal(t, "Jonas S", u.Name)
	assert.Equal(t, "jonas@example.com", u.Email)

	err = u.UpdateProfile("", "broken", "")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.Equal(t, "jonas@example.com", u.Email)

	require.NoError(t, u.UpdateProfile("", "", RoleGuide))
	assert.True(t, u.HasRole(RoleAdmin, RoleGuide))
	assert.False(t, u.HasRole(RoleAdmin))
}

func TestCredentialValidAt(t *testing.T) {
	iat := time.Unix(1_700_000_000, 0)
	c := Credential{IssuedAt: iat, ExpiresAt: iat.Add(time.Hour)}
	assert.True(t, c.ValidAt(iat))
	assert.True(t, c.ValidAt(iat.Add(59*time.Minute)))
	assert.False(t, c.ValidAt(iat.Add(time.Hour)))
	assert.False(t, c.ValidAt(iat.Add(-time.Second)))
}

func validTourInput() TourInput {
	return TourInput{
		Name:         "The Forest Hiker",
		Duration:     5,
		MaxGroupSize: 25,
		Difficulty:   DifficultyEasy,
		Price:        397,
		Summary:      " Breathtaking hike through the Canadian Banff National Park ",
	}
}

func TestNewTourDefaults(t *testing.T) {
	tour, err := NewTour(validTourInput())
	require.NoError(t, err)

	assert.Equal(t, DefaultRatingsAverage, tour.RatingsAverage)
	assert.Equal(t, DefaultImageCover, tour.ImageCover)
	assert.Equal(t, "Breathtaking hike through the Canadian Banff National Park", tour.Summary)
	assert.NotNil(t, tour.Images)

	doc := tour.Document()
	assert.InDelta(t, 5.0/7, doc["durationWeeks"], 1e-9)
	assert.NotContains(t, doc, "priceDiscount")
}

func TestNewTourValidation(t *testing.T) {
	in := validTourInput()
	discount := 500.0
	in.PriceDiscount = &discount
	in.Difficulty = "extreme"

	_, err := NewTour(in)
	require.Error(t, err)

	var ae *apperror.Error
	require.True(t, errors.As(err, &ae))
	details := ae.Details.(map[string]string)
	assert.Contains(t, details, "priceDiscount")
	assert.Contains(t, details, "difficulty")
}

func TestTourApply(t *testing.T) {
	tour, err := NewTour(validTourInput())
	require.NoError(t, err)

	price := 499.0
	require.NoError(t, tour.Apply(TourPatch{Price: &price}))
	assert.Equal(t, 499.0, tour.Price)
	assert.Equal(t, 1, tour.Version)

	bad := -1
	err = tour.Apply(TourPatch{Duration: &bad})
	require.Error(t, err)
	assert.Equal(t, 5, tour.Duration)
	assert.Equal(t, 1, tour.Version)
}
