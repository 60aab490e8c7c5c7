package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/1010nishant/BookMyTrip/internal/application"
	"github.com/1010nishant/BookMyTrip/internal/domain/apperror"
	"github.com/1010nishant/BookMyTrip/pkg/response"
)

// photoField is the multipart field carrying the profile photo.
const photoField = "photo"

// MaxPhotoBytes caps profile photo uploads.
const MaxPhotoBytes = 5 << 20

type UserHandler struct {
	Svc *application.UserService
}

func NewUserHandler(svc *application.UserService) *UserHandler {
	return &UserHandler{Svc: svc}
}

// GetMe GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	me, ok := currentUser(c)
	if !ok {
		return
	}
	u, err := h.Svc.Get(c.Request.Context(), me.ID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

// UpdateMe PATCH /api/v1/users/updateMe
func (h *UserHandler) UpdateMe(c *gin.Context) {
	me, ok := currentUser(c)
	if !ok {
		return
	}
	var in application.UpdateMeInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, err)
		return
	}
	u, err := h.Svc.UpdateMe(c.Request.Context(), me.ID, in)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

// UpdateMyPhoto PATCH /api/v1/users/updateMyPhoto (multipart, field "photo")
func (h *UserHandler) UpdateMyPhoto(c *gin.Context) {
	me, ok := currentUser(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxPhotoBytes)
	fh, err := c.FormFile(photoField)
	if err != nil {
		fail(c, apperror.Validation("Please upload a photo in the \"photo\" field.").WithCause(err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, apperror.Internal(err))
		return
	}
	defer func() { _ = f.Close() }()

	u, err := h.Svc.UploadPhoto(c.Request.Context(), me.ID, f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

// DeleteMe DELETE /api/v1/users/deleteMe
func (h *UserHandler) DeleteMe(c *gin.Context) {
	me, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteMe(c.Request.Context(), me.ID); err != nil {
		fail(c, err)
		return
	}
	response.NoContent(c)
}

// List GET /api/v1/users (admin)
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.List(c, "users", users)
}

// Get GET /api/v1/users/:id (admin)
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

// Update PATCH /api/v1/users/:id (admin)
func (h *UserHandler) Update(c *gin.Context) {
	var in application.AdminUpdateInput
	if err := bindJSON(c, &in); err != nil {
		fail(c, err)
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

// Delete DELETE /api/v1/users/:id (admin)
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.NoContent(c)
}
