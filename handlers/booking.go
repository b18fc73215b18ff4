package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	hostRepo "schedulify/database/repository/host"
	"schedulify/models"
	"schedulify/services/booking"
	"schedulify/services/identity"
	"schedulify/services/scheduling"
	"schedulify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the public guest-facing booking endpoints.
type BookingHandler struct {
	Hosts     hostRepo.HostRepository
	Scheduler scheduling.SchedulingService
	Booking   booking.Service
	Logger    *zap.Logger
}

// NewBookingHandler creates the booking handler.
func NewBookingHandler(hosts hostRepo.HostRepository, scheduler scheduling.SchedulingService, committer booking.Service) *BookingHandler {
	return &BookingHandler{
		Hosts:     hosts,
		Scheduler: scheduler,
		Booking:   committer,
		Logger:    utils.GetLogger(),
	}
}

// resolveHost looks up a host by slug, falling back to email when the value
// contains an '@'.
func (h *BookingHandler) resolveHost(slugOrEmail string) (*models.Host, error) {
	host, err := h.Hosts.GetBySlug(slugOrEmail)
	if err != nil {
		return nil, err
	}
	if host == nil && strings.Contains(slugOrEmail, "@") {
		host, err = h.Hosts.GetByEmail(slugOrEmail)
		if err != nil {
			return nil, err
		}
	}
	return host, nil
}

func (h *BookingHandler) hostOrAbort(c *gin.Context) *models.Host {
	host, err := h.resolveHost(c.Param("slug"))
	if err != nil {
		h.Logger.Error("failed to resolve host", zap.String("slug", c.Param("slug")), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Something went wrong", "Please try again.")
		return nil
	}
	if host == nil {
		utils.JSONError(c, http.StatusNotFound, "This booking link is invalid", "Check the link and try again.")
		return nil
	}
	return host
}

// clockLabel renders minutes since midnight as a human slot label.
func clockLabel(minutes int) string {
	t := time.Date(2000, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC)
	return t.Format("3:04 PM")
}

// GetHostCardHandler returns the public host card shown on the booking page.
func (h *BookingHandler) GetHostCardHandler(c *gin.Context) {
	host := h.hostOrAbort(c)
	if host == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"name":            host.Name,
		"slug":            host.Slug,
		"meetingDuration": host.Policy.MeetingDuration,
		"timezone":        host.Policy.Timezone,
		"availableDays":   host.Policy.AvailableDays,
	})
}

// GetSlotsHandler returns the candidate slots for one day, confirmed free as
// of now.
func (h *BookingHandler) GetSlotsHandler(c *gin.Context) {
	host := h.hostOrAbort(c)
	if host == nil {
		return
	}
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing date", "Pass ?date=YYYY-MM-DD.")
		return
	}

	slots, err := h.Scheduler.AvailableSlots(c.Request.Context(), host, date)
	if err != nil {
		h.slotError(c, err)
		return
	}

	out := make([]gin.H, 0, len(slots))
	for _, s := range slots {
		out = append(out, gin.H{"start": s, "label": clockLabel(s)})
	}
	c.JSON(http.StatusOK, gin.H{
		"date":     date,
		"timezone": host.Policy.Timezone,
		"slots":    out,
	})
}

func (h *BookingHandler) slotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduling.ErrInvalidDate):
		utils.JSONError(c, http.StatusBadRequest, "Invalid date", "Pass ?date=YYYY-MM-DD.")
	case errors.Is(err, scheduling.ErrDayNotAvailable):
		utils.JSONError(c, http.StatusUnprocessableEntity, "Not a working day",
			"Choose one of the host's working days to see available times.")
	case errors.Is(err, identity.ErrNotConnected):
		utils.JSONError(c, http.StatusConflict, "Host calendar not connected",
			"The host hasn't connected their Outlook calendar (or the connection expired).")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Something went wrong", "Please try again.")
	}
}

// BookHandler commits a booking for the chosen slot.
func (h *BookingHandler) BookHandler(c *gin.Context) {
	host := h.hostOrAbort(c)
	if host == nil {
		return
	}

	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking request",
			"Pick a time and enter your name and email.")
		return
	}

	ref, err := h.Booking.Commit(c.Request.Context(), host, req)
	if err != nil {
		h.commitError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Meeting booked! Invite sent to " + req.GuestEmail + ".",
		"event":   ref,
	})
}

func (h *BookingHandler) commitError(c *gin.Context, err error) {
	var commitErr *booking.CommitError
	switch {
	case errors.Is(err, booking.ErrSlotTaken):
		utils.JSONError(c, http.StatusConflict, "Someone just booked this slot",
			"Please refresh the available times and pick another slot.")
	case errors.Is(err, scheduling.ErrInvalidDate),
		errors.Is(err, scheduling.ErrDayNotAvailable),
		errors.Is(err, booking.ErrOutsideWorkingHours):
		utils.JSONError(c, http.StatusBadRequest, "Invalid slot selection",
			"Refresh the available times and pick a listed slot.")
	case errors.Is(err, identity.ErrNotConnected):
		utils.JSONError(c, http.StatusConflict, "Host calendar not connected",
			"The host hasn't connected their Outlook calendar (or the connection expired).")
	case errors.As(err, &commitErr):
		utils.JSONError(c, http.StatusBadGateway, "That time is no longer available",
			"Please refresh the available times and choose another slot.")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Something went wrong", "Please try again.")
	}
}
