package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/TC28082003/datanaver/internal/config"
	"github.com/TC28082003/datanaver/internal/domain/profile"
	"github.com/TC28082003/datanaver/internal/http/middlewares"
	"github.com/TC28082003/datanaver/internal/repo/postgres"
	"github.com/gin-gonic/gin"
)

type ProfileStore interface {
	Get(ctx context.Context, userID int64) (profile.Document, error)
	Upsert(ctx context.Context, userID int64, doc profile.Document) error
}

type ProfileHandler struct {
	profiles ProfileStore
	log      *slog.Logger
}

func NewProfileHandler(profiles ProfileStore, log *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		log:      log,
	}
}

// GetProfile returns the stored document with every JSON field normalized.
// A missing row should not happen after registration but is answered with
// the all-defaults document rather than an error.
func (h *ProfileHandler) GetProfile(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Authentication token required.")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	doc, err := h.profiles.Get(cctx, userID)

	if err != nil {
		if errors.Is(err, postgres.ErrProfileNotFound) {
			h.log.Warn("no user_data row, returning defaults", "user_id", userID)
			ctx.JSON(http.StatusOK, profile.Empty())
			return
		}

		RespondInternal(ctx, "Internal server error fetching user profile data.")
		return
	}

	ctx.JSON(http.StatusOK, h.normalized(doc, userID))
}

// PutProfile replaces the whole document. All five fields must be present;
// an explicit null is accepted and stored as the empty default.
func (h *ProfileHandler) PutProfile(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Authentication token required.")
		return
	}

	var req profile.UpdateRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(ctx, "Invalid request body: Missing required user data fields.")
		return
	}

	doc, err := req.Document()

	if err != nil {
		if errors.Is(err, profile.ErrLastVisitedNotString) {
			RespondBadRequest(ctx, "Invalid request body: lastVisitedProfile must be a string.")
			return
		}

		RespondBadRequest(ctx, "Invalid request body: Missing required user data fields.")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err = h.profiles.Upsert(cctx, userID, doc)

	if err != nil {
		RespondInternal(ctx, "Internal server error updating user profile data.")
		return
	}

	RespondMessage(ctx, http.StatusOK, "User data updated successfully.")
}

// normalized maps each stored JSON value through the defensive fallback and
// logs any value that failed to parse. Stored garbage never reaches the
// caller as an error.
func (h *ProfileHandler) normalized(doc profile.Document, userID int64) profile.Document {
	return profile.Document{
		SavedProfiles:       h.normalizeField("saved_profiles", doc.SavedProfiles, userID),
		SavedProfilesParent: h.normalizeField("saved_profiles_parent", doc.SavedProfilesParent, userID),
		LastVisitedProfile:  doc.LastVisitedProfile,
		VirtualProfiles:     h.normalizeField("virtual_profiles", doc.VirtualProfiles, userID),
		VirtualProfilesData: h.normalizeField("virtual_profiles_data", doc.VirtualProfilesData, userID),
	}
}

func (h *ProfileHandler) normalizeField(name string, raw json.RawMessage, userID int64) json.RawMessage {
	val, fellBack := profile.Normalize(raw)

	if fellBack {
		h.log.Error("stored profile field failed to parse, using default", "field", name, "user_id", userID)
	}

	return val
}
