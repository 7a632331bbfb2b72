package booking

import (
	"errors"
	"net/http"

	"meetspace/internal/domain"
	"meetspace/internal/modules/room"
	"meetspace/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	guard   *room.Guard
}

func NewHandler(service *Service, guard *room.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/rooms/:id/bookings", h.ListRoomBookings)
	rg.POST("/rooms/:id/bookings", h.CreateBooking)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.PUT("/bookings/:id", h.UpdateBooking)
	rg.DELETE("/bookings/:id", h.DeleteBooking)
	rg.GET("/users/me/bookings", h.ListMyBookings)
}

// ListMyBookings is the dashboard view: the caller's bookings across all
// rooms. Own data, so no room guard is involved.
func (h *Handler) ListMyBookings(c *gin.Context) {
	userID := c.GetString("user_id")

	bookings, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) ListRoomBookings(c *gin.Context) {
	roomID := c.Param("id")
	userID := c.GetString("user_id")

	if !h.authorize(c, roomID, userID, domain.ActionViewBookings) {
		return
	}

	bookings, err := h.service.ListByRoom(c.Request.Context(), roomID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) CreateBooking(c *gin.Context) {
	roomID := c.Param("id")
	userID := c.GetString("user_id")

	var in BookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if !h.authorize(c, roomID, userID, domain.ActionCreateBooking) {
		return
	}

	b, err := h.service.Create(c.Request.Context(), CreateBookingRequest{
		RoomID:      roomID,
		UserID:      userID,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Description: in.Description,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) GetBooking(c *gin.Context) {
	userID := c.GetString("user_id")

	b, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if !h.viewable(c, b.RoomID, userID) {
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) UpdateBooking(c *gin.Context) {
	userID := c.GetString("user_id")

	var in BookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if !h.viewable(c, b.RoomID, userID) {
		return
	}

	action := domain.ActionEditAnyBooking
	if b.UserID == userID {
		action = domain.ActionEditOwnBooking
	}
	if !h.authorize(c, b.RoomID, userID, action) {
		return
	}

	updated, err := h.service.Update(c.Request.Context(), b.ID, UpdateBookingRequest{
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Description: in.Description,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": updated})
}

func (h *Handler) DeleteBooking(c *gin.Context) {
	userID := c.GetString("user_id")

	b, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if !h.viewable(c, b.RoomID, userID) {
		return
	}

	action := domain.ActionDeleteAnyBooking
	if b.UserID == userID {
		action = domain.ActionDeleteOwnBooking
	}
	if !h.authorize(c, b.RoomID, userID, action) {
		return
	}

	if err := h.service.Delete(c.Request.Context(), b.ID); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": b.ID})
}

// viewable gates the by-ID routes: a caller who may not view the room's
// bookings gets the same 404 as for an absent ID, so booking existence is
// never disclosed to non-members.
func (h *Handler) viewable(c *gin.Context, roomID, userID string) bool {
	if _, err := h.guard.Authorize(c.Request.Context(), roomID, userID, domain.ActionViewBookings); err != nil {
		if errors.Is(err, room.ErrForbidden) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking or room not found")
		} else {
			writeServiceError(c, err)
		}
		c.Abort()
		return false
	}
	return true
}

// authorize runs the guard and writes the rejection itself so every booking
// endpoint denies the same way. The guarded operation never runs on a
// forbidden path.
func (h *Handler) authorize(c *gin.Context, roomID, userID string, action domain.RoomAction) bool {
	if _, err := h.guard.Authorize(c.Request.Context(), roomID, userID, action); err != nil {
		if errors.Is(err, room.ErrForbidden) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You may not perform this action in this room")
		} else {
			writeServiceError(c, err)
		}
		c.Abort()
		return false
	}
	return true
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInterval):
		response.Error(c, http.StatusBadRequest, "INVALID_INTERVAL", "Booking must start before it ends")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "Room is already booked for the selected time")
	case errors.Is(err, ErrNotFound), errors.Is(err, room.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking or room not found")
	case errors.Is(err, ErrStorageUnavailable), errors.Is(err, room.ErrStorageUnavailable):
		response.Error(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage temporarily unavailable, retry later")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
