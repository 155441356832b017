package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/dto"
	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/leaderboard"
	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/models"
	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/repository"
)

const maxAvatarSize = 5 * 1024 * 1024

// ProfileStore reads and writes the student profiles shown on the
// leaderboard.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error
}

// AvatarStore keeps the avatar objects the stored refs point at.
type AvatarStore interface {
	UploadAvatar(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	DeleteAvatar(ctx context.Context, objectName string) error
}

type ProfileHandler struct {
	profiles    ProfileStore
	avatars     AvatarStore
	leaderboard *leaderboard.Service
}

func NewProfileHandler(profiles ProfileStore, avatars AvatarStore, lb *leaderboard.Service) *ProfileHandler {
	return &ProfileHandler{
		profiles:    profiles,
		avatars:     avatars,
		leaderboard: lb,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		dto.JsonError(c, http.StatusUnauthorized, "Missing X-User-ID header")
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			dto.JsonError(c, http.StatusNotFound, "Profile not found")
			return
		}
		log.Printf("Failed to get profile %s: %v", userID, err)
		dto.JsonError(c, http.StatusServiceUnavailable, "Failed to load profile, please retry")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile upserts the caller's name and class. A changed name shows up
// on the leaderboard, so the ranking is recomputed right away.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		dto.JsonError(c, http.StatusUnauthorized, "Missing X-User-ID header")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile := &models.Profile{
		UserID:    userID,
		Name:      req.Name,
		ClassName: req.ClassName,
	}
	if existing, err := h.profiles.GetProfile(c.Request.Context(), userID); err == nil {
		profile.AvatarRef = existing.AvatarRef
	}

	if err := h.profiles.UpsertProfile(c.Request.Context(), profile); err != nil {
		log.Printf("Failed to upsert profile %s: %v", userID, err)
		dto.JsonError(c, http.StatusServiceUnavailable, "Failed to save profile, please retry")
		return
	}

	h.leaderboard.Recompute(c.Request.Context())
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		dto.JsonError(c, http.StatusUnauthorized, "Missing X-User-ID header")
		return
	}

	if h.avatars == nil {
		dto.JsonError(c, http.StatusServiceUnavailable, "Avatar storage unavailable")
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Avatar file is required")
		return
	}

	if file.Size > maxAvatarSize {
		dto.JsonError(c, http.StatusBadRequest, "File size exceeds 5MB limit")
		return
	}

	src, err := file.Open()
	if err != nil {
		dto.JsonError(c, http.StatusInternalServerError, "Failed to read file")
		return
	}
	defer src.Close()

	contentType := "application/octet-stream"
	switch filepath.Ext(file.Filename) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	}

	objectName := userID + "/" + filepath.Base(file.Filename)
	if err := h.avatars.UploadAvatar(c.Request.Context(), objectName, src, file.Size, contentType); err != nil {
		log.Printf("Failed to upload avatar for %s: %v", userID, err)
		dto.JsonError(c, http.StatusInternalServerError, "Failed to upload avatar")
		return
	}

	profile := &models.Profile{UserID: userID, AvatarRef: objectName}
	if existing, err := h.profiles.GetProfile(c.Request.Context(), userID); err == nil {
		profile.Name = existing.Name
		profile.ClassName = existing.ClassName
	}

	if err := h.profiles.UpsertProfile(c.Request.Context(), profile); err != nil {
		log.Printf("Failed to save avatar ref for %s: %v", userID, err)
		dto.JsonError(c, http.StatusServiceUnavailable, "Failed to save profile, please retry")
		return
	}

	h.leaderboard.Recompute(c.Request.Context())
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) DeleteAvatar(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		dto.JsonError(c, http.StatusUnauthorized, "Missing X-User-ID header")
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			dto.JsonError(c, http.StatusNotFound, "Profile not found")
			return
		}
		log.Printf("Failed to get profile %s: %v", userID, err)
		dto.JsonError(c, http.StatusServiceUnavailable, "Failed to load profile, please retry")
		return
	}

	if profile.AvatarRef != "" && h.avatars != nil {
		if err := h.avatars.DeleteAvatar(c.Request.Context(), profile.AvatarRef); err != nil {
			log.Printf("Failed to delete avatar object %s: %v", profile.AvatarRef, err)
		}
	}

	profile.AvatarRef = ""
	if err := h.profiles.UpsertProfile(c.Request.Context(), profile); err != nil {
		log.Printf("Failed to clear avatar ref for %s: %v", userID, err)
		dto.JsonError(c, http.StatusServiceUnavailable, "Failed to save profile, please retry")
		return
	}

	h.leaderboard.Recompute(c.Request.Context())
	c.JSON(http.StatusOK, profile)
}
