package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/1010nishant/BookMyTrip/internal/application"
	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
	"github.com/1010nishant/BookMyTrip/internal/interface/reqctx"
	"github.com/1010nishant/BookMyTrip/pkg/helpers"
	"github.com/1010nishant/BookMyTrip/pkg/response"
)

const resetPasswordPath = "/api/v1/users/resetPassword"

type AuthHandler struct {
	Auth    *application.AuthService
	Cookies *helpers.Manager
	Logger  *logrus.Logger

	// ResetURL is the link base mailed with reset tokens. When empty the
	// API's own resetPassword route is used.
	ResetURL string
}

func NewAuthHandler(auth *application.AuthService, cookies *helpers.Manager, logger *logrus.Logger, resetURL string) *AuthHandler {
	return &AuthHandler{Auth: auth, Cookies: cookies, Logger: logger, ResetURL: resetURL}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type updatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// sendToken sets the jwt cookie and returns the token with the user.
func (h *AuthHandler) sendToken(c *gin.Context, status int, u *entity.User, cred entity.Credential) {
	h.Cookies.SetToken(c, cred.Token)
	response.WithToken(c, status, cred.Token, gin.H{"user": u})
}

// Signup POST /api/v1/users/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var in entity.NewUserInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, err)
		return
	}
	u, cred, err := h.Auth.Signup(c.Request.Context(), in, baseURL(c)+"/me")
	if err != nil {
		fail(c, err)
		return
	}
	h.sendToken(c, http.StatusCreated, u, cred)
}

// Login POST /api/v1/users/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	u, cred, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	h.sendToken(c, http.StatusOK, u, cred)
}

// Logout GET /api/v1/users/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil)
}

// ForgotPassword POST /api/v1/users/forgotPassword
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	base := h.ResetURL
	if base == "" {
		base = baseURL(c) + resetPasswordPath
	}
	if err := h.Auth.RequestPasswordReset(c.Request.Context(), req.Email, base); err != nil {
		fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Token sent to email!")
}

// ResetPassword PATCH /api/v1/users/resetPassword/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	u, cred, err := h.Auth.CompletePasswordReset(c.Request.Context(), c.Param("token"), req.Password, req.PasswordConfirm)
	if err != nil {
		fail(c, err)
		return
	}
	h.Logger.WithFields(logrus.Fields{
		"user_id":    u.ID,
		"request_id": reqctx.RequestID(c.Request.Context()),
	}).Info("password reset completed")
	h.sendToken(c, http.StatusOK, u, cred)
}

// UpdateMyPassword PATCH /api/v1/users/updateMyPassword (protected)
func (h *AuthHandler) UpdateMyPassword(c *gin.Context) {
	me, ok := currentUser(c)
	if !ok {
		return
	}
	var req updatePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	u, cred, err := h.Auth.UpdatePassword(c.Request.Context(), me.ID, req.PasswordCurrent, req.Password, req.PasswordConfirm)
	if err != nil {
		fail(c, err)
		return
	}
	h.sendToken(c, http.StatusOK, u, cred)
}
