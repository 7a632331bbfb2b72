package room

import (
	"errors"
	"net/http"

	"meetspace/internal/domain"
	"meetspace/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	guard   *Guard
}

func NewHandler(service *Service, guard *Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/rooms", h.ListRooms)
	rg.POST("/rooms", h.CreateRoom)
	rg.GET("/rooms/:id", h.GetRoom)
	rg.PUT("/rooms/:id", h.UpdateRoom)
	rg.DELETE("/rooms/:id", h.DeleteRoom)

	rg.POST("/rooms/:id/join", h.JoinRoom)
	rg.GET("/rooms/:id/members", h.ListMembers)
	rg.POST("/rooms/:id/members", h.AddMember)
	rg.PUT("/rooms/:id/members/:userId", h.UpdateMemberRole)
	rg.DELETE("/rooms/:id/members/:userId", h.RemoveMember)

	rg.GET("/users/me/rooms", h.ListMyRooms)
}

// ListMyRooms is the dashboard view: the rooms the caller belongs to, with
// their role in each.
func (h *Handler) ListMyRooms(c *gin.Context) {
	userID := c.GetString("user_id")

	memberships, err := h.service.ListUserRooms(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"memberships": memberships})
}

// ListRooms is open to every authenticated user: the list is how people
// discover rooms to join. Bookings inside a room stay member-only.
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.service.ListRooms(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

func (h *Handler) CreateRoom(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	r, err := h.service.CreateRoom(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"room": r})
}

func (h *Handler) GetRoom(c *gin.Context) {
	r, err := h.service.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": r})
}

func (h *Handler) UpdateRoom(c *gin.Context) {
	roomID := c.Param("id")
	userID := c.GetString("user_id")

	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if !h.authorize(c, roomID, userID, domain.ActionEditRoom) {
		return
	}

	r, err := h.service.UpdateRoom(c.Request.Context(), roomID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"room": r})
}

func (h *Handler) DeleteRoom(c *gin.Context) {
	roomID := c.Param("id")
	userID := c.GetString("user_id")

	if !h.authorize(c, roomID, userID, domain.ActionDeleteRoom) {
		return
	}

	if err := h.service.DeleteRoom(c.Request.Context(), roomID); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": roomID})
}

func (h *Handler) JoinRoom(c *gin.Context) {
	roomID := c.Param("id")
	userID := c.GetString("user_id")

	if !h.authorize(c, roomID, userID, domain.ActionJoinRoom) {
		return
	}

	m, err := h.service.Join(c.Request.Context(), roomID, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"membership": m})
}

func (h *Handler) ListMembers(c *gin.Context) {
	roomID := c.Param("id")
	userID := c.GetString("user_id")

	if !h.authorize(c, roomID, userID, domain.ActionManageMembers) {
		return
	}

	members, err := h.service.ListMembers(c.Request.Context(), roomID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"members": members})
}

func (h *Handler) AddMember(c *gin.Context) {
	roomID := c.Param("id")
	userID := c.GetString("user_id")

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if !h.authorize(c, roomID, userID, domain.ActionManageMembers) {
		return
	}

	m, err := h.service.AddMember(c.Request.Context(), roomID, req.Email, domain.RoomRole(req.Role))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"membership": m})
}

func (h *Handler) UpdateMemberRole(c *gin.Context) {
	roomID := c.Param("id")
	targetID := c.Param("userId")
	userID := c.GetString("user_id")

	var req UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if !h.authorize(c, roomID, userID, domain.ActionManageMembers) {
		return
	}

	if err := h.service.UpdateMemberRole(c.Request.Context(), roomID, targetID, domain.RoomRole(req.Role)); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"room_id": roomID, "user_id": targetID, "role": req.Role})
}

// RemoveMember covers both admin removal and voluntary leave: a caller
// targeting their own membership needs no admin role.
func (h *Handler) RemoveMember(c *gin.Context) {
	roomID := c.Param("id")
	targetID := c.Param("userId")
	userID := c.GetString("user_id")

	if targetID != userID {
		if !h.authorize(c, roomID, userID, domain.ActionManageMembers) {
			return
		}
	}

	if err := h.service.RemoveMember(c.Request.Context(), roomID, targetID); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"room_id": roomID, "removed": targetID})
}

func (h *Handler) authorize(c *gin.Context, roomID, userID string, action domain.RoomAction) bool {
	if _, err := h.guard.Authorize(c.Request.Context(), roomID, userID, action); err != nil {
		if errors.Is(err, ErrForbidden) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You may not perform this action in this room")
		} else {
			writeError(c, err)
		}
		c.Abort()
		return false
	}
	return true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room, user or membership not found")
	case errors.Is(err, ErrAlreadyMember):
		response.Error(c, http.StatusConflict, "ALREADY_MEMBER", "User is already a member of this room")
	case errors.Is(err, ErrInvalidRole):
		response.Error(c, http.StatusBadRequest, "INVALID_ROLE", "Role must be admin or member")
	case errors.Is(err, ErrLastAdmin):
		response.Error(c, http.StatusConflict, "LAST_ADMIN", "A room must keep at least one admin")
	case errors.Is(err, ErrStorageUnavailable):
		response.Error(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage temporarily unavailable, retry later")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
