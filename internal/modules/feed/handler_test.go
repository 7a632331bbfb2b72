package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"meetspace/internal/domain"
	"meetspace/internal/modules/booking"
	"meetspace/internal/modules/room"
	jwtsvc "meetspace/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedResolver struct {
	role domain.RoomRole
}

func (f fixedResolver) ResolveRole(ctx context.Context, roomID, userID string) (domain.RoomRole, error) {
	return f.role, nil
}

func newFeedServer(t *testing.T, hub *Hub, role domain.RoomRole, pongWait, pingPeriod time.Duration) (*httptest.Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	j := jwtsvc.New("feed-test-secret", time.Hour)
	token, err := j.GenerateToken("u-1", "alice@example.com")
	require.NoError(t, err)

	handler := NewHandler(hub, j, room.NewGuard(fixedResolver{role: role}))
	handler.pongWait = pongWait
	handler.pingPeriod = pingPeriod

	r := gin.New()
	handler.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, token
}

func wsURL(srv *httptest.Server, roomID, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/rooms/" + roomID + "?token=" + token
}

func TestFeed_DeliversBookingEvents(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	srv, token := newFeedServer(t, hub, domain.RoleMember, time.Minute, 30*time.Second)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "room-1", token), nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Eventually(t, func() bool {
		return hub.SubscriberCount("room-1") == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.PublishBookingEvent("room-1", booking.Event{
		Type:      booking.EventCreated,
		BookingID: "bk-1",
		RoomID:    "room-1",
	})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got booking.Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, booking.EventCreated, got.Type)
	assert.Equal(t, "bk-1", got.BookingID)
}

func TestFeed_NonMemberRejected(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	srv, token := newFeedServer(t, hub, domain.RoleNone, time.Minute, 30*time.Second)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "room-1", token), nil)

	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, hub.SubscriberCount("room-1"))
}

func TestFeed_SilentPeerDroppedAfterDeadline(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	srv, token := newFeedServer(t, hub, domain.RoleMember, 100*time.Millisecond, 50*time.Millisecond)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "room-1", token), nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Eventually(t, func() bool {
		return hub.SubscriberCount("room-1") == 1
	}, time.Second, 5*time.Millisecond)

	// the client never reads, so it never answers pings; the server must
	// drop it once the read deadline expires
	assert.Eventually(t, func() bool {
		return hub.SubscriberCount("room-1") == 0
	}, 2*time.Second, 10*time.Millisecond)
}
