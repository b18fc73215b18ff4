package handlers

import (
	"fmt"
	"net/http"

	"schedulify/config"
	hostRepo "schedulify/database/repository/host"
	"schedulify/middleware"
	"schedulify/models"
	"schedulify/services/identity"
	"schedulify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HostHandler serves the host dashboard endpoints.
type HostHandler struct {
	Hosts    hostRepo.HostRepository
	Identity identity.Provider
	Logger   *zap.Logger
}

// NewHostHandler creates the host handler.
func NewHostHandler(hosts hostRepo.HostRepository, provider identity.Provider) *HostHandler {
	return &HostHandler{Hosts: hosts, Identity: provider, Logger: utils.GetLogger()}
}

func hostFromContext(c *gin.Context) *models.Host {
	v, ok := c.Get(middleware.HostContextKey)
	if !ok {
		return nil
	}
	host, _ := v.(*models.Host)
	return host
}

// BookingURL is the public link the host shares with guests.
func BookingURL(slug string) string {
	return fmt.Sprintf("%s/api/book/%s", config.AppConfig.BaseURL, slug)
}

// GetMeHandler returns the host profile, calendar connection status and the
// shareable booking link.
func (h *HostHandler) GetMeHandler(c *gin.Context) {
	host := hostFromContext(c)
	if host == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Not signed in", "Please sign in with Outlook.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"host":       host,
		"connected":  h.Identity.Connected(c.Request.Context(), host),
		"bookingUrl": BookingURL(host.Slug),
	})
}

// SettingsInput is the host settings payload.
type SettingsInput struct {
	AvailableDays   []string `json:"availableDays" binding:"required"`
	StartTime       string   `json:"startTime" binding:"required"`
	EndTime         string   `json:"endTime" binding:"required"`
	MeetingDuration int      `json:"meetingDuration" binding:"required"`
	Timezone        string   `json:"timezone" binding:"required"`
	VideoLink       string   `json:"videoLink"`
}

// UpdateSettingsHandler validates and persists the availability policy.
// Malformed policies are rejected here and never reach slot math.
func (h *HostHandler) UpdateSettingsHandler(c *gin.Context) {
	host := hostFromContext(c)
	if host == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Not signed in", "Please sign in with Outlook.")
		return
	}

	var input SettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid settings payload", err.Error())
		return
	}

	policy := models.AvailabilityPolicy{
		AvailableDays:   input.AvailableDays,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		MeetingDuration: input.MeetingDuration,
		Timezone:        input.Timezone,
	}
	if err := policy.Validate(); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid availability policy", err.Error())
		return
	}

	if err := h.Hosts.UpdateSettings(host.OID, policy, input.VideoLink); err != nil {
		h.Logger.Error("failed to save settings", zap.String("oid", host.OID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to save settings", "Please try again.")
		return
	}

	host.Policy = policy
	host.VideoLink = input.VideoLink
	c.JSON(http.StatusOK, gin.H{"message": "Settings saved!", "host": host})
}
