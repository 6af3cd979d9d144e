package notify

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/log"

	"github.com/moyoez/dropvault-go/tool"
	"github.com/moyoez/dropvault-go/types"
)

// NotifyWriteChunkSize is the chunk size when writing a payload to the socket.
// It is also the largest payload accepted.
const NotifyWriteChunkSize = 32 * 1024 // 32KB

var (
	// DefaultUnixSocketPath is the default Unix socket path for IPC
	DefaultUnixSocketPath = "/tmp/dropvault-notify.sock"
	// UnixSocketTimeout bounds every read and write on the socket
	UnixSocketTimeout = 3 * time.Second
)

var ErrSocketNotFound = errors.New("unix socket not found")

// SocketSender delivers notifications to a listener on a Unix domain socket.
// Each message is a 4-byte little-endian length prefix followed by JSON; the
// listener may answer with a JSON object carrying an "error" field.
type SocketSender struct {
	Path    string
	Timeout time.Duration
	Logger  *log.Logger
}

func NewSocketSender(path string) *SocketSender {
	if path == "" {
		path = DefaultUnixSocketPath
	}
	return &SocketSender{Path: path, Timeout: UnixSocketTimeout, Logger: tool.DefaultLogger}
}

// Send writes one notification and waits for the listener's reply.
func (s *SocketSender) Send(notification *types.Notification) error {
	if _, err := os.Stat(s.Path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrSocketNotFound, s.Path)
	}

	payload := []byte("{}")
	if notification != nil {
		var err error
		payload, err = sonic.Marshal(notification)
		if err != nil {
			return fmt.Errorf("failed to serialize notification data: %w", err)
		}
	}
	if len(payload) > NotifyWriteChunkSize {
		return fmt.Errorf("notification payload too large: %d bytes (max %d)", len(payload), NotifyWriteChunkSize)
	}

	conn, err := net.DialTimeout("unix", s.Path, s.Timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to Unix socket %s: %w", s.Path, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			s.Logger.Errorf("Failed to close Unix socket connection: %v", err)
		}
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(s.Timeout)); err != nil {
		s.Logger.Errorf("Failed to set write deadline: %v", err)
	}

	lengthBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lengthBuf, uint32(len(payload)))
	if _, err := conn.Write(lengthBuf); err != nil {
		return fmt.Errorf("failed to write length to Unix socket: %w", err)
	}
	s.Logger.Debugf("Sending notification to Unix socket (len=%d): %s", len(payload), payload)
	for off := 0; off < len(payload); {
		nw, err := conn.Write(payload[off:])
		if err != nil {
			return fmt.Errorf("failed to write payload to Unix socket: %w", err)
		}
		off += nw
	}

	if err := conn.SetReadDeadline(time.Now().Add(s.Timeout)); err != nil {
		s.Logger.Errorf("Failed to set read deadline: %v", err)
	}
	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read response from Unix socket: %w", err)
	}
	if n > 0 {
		var response map[string]any
		if err := sonic.Unmarshal(buf[:n], &response); err != nil {
			s.Logger.Debugf("Unix socket response (raw): %s", buf[:n])
		} else if errMsg, ok := response["error"].(string); ok && errMsg != "" {
			return fmt.Errorf("server returned error: %s", errMsg)
		}
	}

	if notification != nil {
		s.Logger.Debugf("[UnixSocket] Notification sent: %s - %s", notification.Type, notification.Title)
	}
	return nil
}
