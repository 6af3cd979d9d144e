package notify

import (
	"encoding/binary"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/dropvault-go/types"
)

// listenUnix accepts one connection, decodes the framed notification and
// answers with reply.
func listenUnix(t *testing.T, reply string) (string, <-chan types.Notification) {
	t.Helper()
	dir, err := os.MkdirTemp("", "dvn")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "n.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	got := make(chan types.Notification, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		header := make([]byte, 4)
		if _, err := io.ReadFull(conn, header); err != nil {
			return
		}
		payload := make([]byte, binary.LittleEndian.Uint32(header))
		if _, err := io.ReadFull(conn, payload); err != nil {
			return
		}
		var n types.Notification
		if err := sonic.Unmarshal(payload, &n); err == nil {
			got <- n
		}
		_, _ = conn.Write([]byte(reply))
	}()
	return path, got
}

func TestSocketSenderFramesPayload(t *testing.T) {
	path, got := listenUnix(t, `{"ok":true}`)

	err := NewSocketSender(path).Send(&types.Notification{
		Type:    types.NotifyTypeBatchEnd,
		Title:   "Upload Completed",
		Message: "2 files uploaded, 0 failed",
	})
	require.NoError(t, err)

	n := <-got
	assert.Equal(t, types.NotifyTypeBatchEnd, n.Type)
	assert.Equal(t, "Upload Completed", n.Title)
}

func TestSocketSenderServerError(t *testing.T) {
	path, _ := listenUnix(t, `{"error":"busy"}`)

	err := NewSocketSender(path).Send(&types.Notification{Type: types.NotifyTypeInfo})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "busy")
}

func TestSocketSenderMissingSocket(t *testing.T) {
	err := NewSocketSender(filepath.Join(t.TempDir(), "absent.sock")).Send(&types.Notification{})
	assert.ErrorIs(t, err, ErrSocketNotFound)
}

func TestSocketSenderRejectsOversizedPayload(t *testing.T) {
	path, _ := listenUnix(t, `{}`)
	big := make([]byte, NotifyWriteChunkSize)
	for i := range big {
		big[i] = 'x'
	}

	err := NewSocketSender(path).Send(&types.Notification{Message: string(big)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}
