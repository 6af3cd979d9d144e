package notifyhub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/dropvault-go/types"
)

func TestHubBroadcastsToClients(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := New()
	r := gin.New()
	r.GET("/notify-ws", HandleNotifyWS(hub))
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/notify-ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast(&types.Notification{Type: types.NotifyTypeBatchEnd, Title: "Upload Completed"})
	hub.Broadcast(nil)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got types.Notification
	require.NoError(t, sonic.Unmarshal(msg, &got))
	assert.Equal(t, types.NotifyTypeBatchEnd, got.Type)
	assert.Equal(t, "Upload Completed", got.Title)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}
