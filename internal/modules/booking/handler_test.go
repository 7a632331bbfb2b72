package booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"meetspace/internal/domain"
	"meetspace/internal/modules/room"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// roleTable backs the guard in handler tests; mutating it between requests
// plays the part of membership changes from other sessions.
type roleTable struct {
	roles map[string]domain.RoomRole
}

func (r *roleTable) ResolveRole(ctx context.Context, roomID, userID string) (domain.RoomRole, error) {
	if role, ok := r.roles[roomID+"/"+userID]; ok {
		return role, nil
	}
	return domain.RoleNone, nil
}

func newTestRouter(repo BookingRepository, roles *roleTable, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
	})

	handler := NewHandler(NewService(repo, nil), room.NewGuard(roles))
	handler.RegisterRoutes(r.Group("/"))
	return r
}

func TestHandler_CreateBooking_ForbiddenUntilJoined(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockBookings.On("ListByRoom", mock.Anything, "room-1").Return([]domain.Booking{}, nil)
	mockBookings.On("Create", mock.Anything, mock.Anything).Return(nil)

	roles := &roleTable{roles: map[string]domain.RoomRole{}}
	router := newTestRouter(mockBookings, roles, "u-1")

	body := `{"start_time":"2026-09-14T10:00:00Z","end_time":"2026-09-14T11:00:00Z","description":"standup"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/rooms/room-1/bookings", strings.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockBookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	// same call after joining the room
	roles.roles["room-1/u-1"] = domain.RoleMember

	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/rooms/room-1/bookings", strings.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockBookings.AssertCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandler_DeleteBooking_OwnVsAny(t *testing.T) {
	other := &domain.Booking{ID: "bk-2", RoomID: "room-1", UserID: "u-2", StartTime: at(10, 0), EndTime: at(11, 0)}

	// a member deleting someone else's booking
	mockBookings := new(MockBookingRepository)
	mockBookings.On("GetByID", mock.Anything, "bk-2").Return(other, nil)

	roles := &roleTable{roles: map[string]domain.RoomRole{
		"room-1/u-1": domain.RoleMember,
		"room-1/u-2": domain.RoleMember,
	}}
	router := newTestRouter(mockBookings, roles, "u-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/bookings/bk-2", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockBookings.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	// an admin performing the same delete
	mockBookings = new(MockBookingRepository)
	mockBookings.On("GetByID", mock.Anything, "bk-2").Return(other, nil)
	mockBookings.On("Delete", mock.Anything, "bk-2").Return(nil)

	roles.roles["room-1/u-3"] = domain.RoleAdmin
	router = newTestRouter(mockBookings, roles, "u-3")

	w = httptest.NewRecorder()
	req = httptest.NewRequest("DELETE", "/bookings/bk-2", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockBookings.AssertCalled(t, "Delete", mock.Anything, "bk-2")
}

func TestHandler_GetBooking_HiddenFromNonMembers(t *testing.T) {
	other := &domain.Booking{ID: "bk-2", RoomID: "room-1", UserID: "u-2", StartTime: at(10, 0), EndTime: at(11, 0)}

	mockBookings := new(MockBookingRepository)
	mockBookings.On("GetByID", mock.Anything, "bk-2").Return(other, nil)

	// u-1 has no role in room-1, so an existing booking must look exactly
	// like an absent one
	roles := &roleTable{roles: map[string]domain.RoomRole{
		"room-1/u-2": domain.RoleMember,
	}}
	router := newTestRouter(mockBookings, roles, "u-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/bookings/bk-2", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("DELETE", "/bookings/bk-2", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockBookings.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestHandler_ListMyBookings(t *testing.T) {
	mine := []domain.Booking{
		{ID: "bk-1", RoomID: "room-1", UserID: "u-1", StartTime: at(10, 0), EndTime: at(11, 0),
			Room: &domain.Room{ID: "room-1", Name: "Boardroom"}},
		{ID: "bk-3", RoomID: "room-2", UserID: "u-1", StartTime: at(14, 0), EndTime: at(15, 0),
			Room: &domain.Room{ID: "room-2", Name: "Huddle"}},
	}

	mockBookings := new(MockBookingRepository)
	mockBookings.On("ListByUser", mock.Anything, "u-1").Return(mine, nil)

	// no memberships needed: the dashboard lists the caller's own bookings
	roles := &roleTable{roles: map[string]domain.RoomRole{}}
	router := newTestRouter(mockBookings, roles, "u-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/users/me/bookings", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bk-1")
	assert.Contains(t, w.Body.String(), "Boardroom")
	assert.Contains(t, w.Body.String(), "Huddle")
}

func TestHandler_UpdateOwnBooking_AllowedForMember(t *testing.T) {
	own := &domain.Booking{ID: "bk-1", RoomID: "room-1", UserID: "u-1", StartTime: at(10, 0), EndTime: at(11, 0)}

	mockBookings := new(MockBookingRepository)
	mockBookings.On("GetByID", mock.Anything, "bk-1").Return(own, nil)
	mockBookings.On("ListByRoom", mock.Anything, "room-1").Return([]domain.Booking{*own}, nil)
	mockBookings.On("Update", mock.Anything, mock.Anything).Return(nil)

	roles := &roleTable{roles: map[string]domain.RoomRole{"room-1/u-1": domain.RoleMember}}
	router := newTestRouter(mockBookings, roles, "u-1")

	body := `{"start_time":"2026-09-14T10:30:00Z","end_time":"2026-09-14T11:30:00Z"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/bookings/bk-1", strings.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
