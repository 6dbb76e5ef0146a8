package folio

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const liveWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  256,
	WriteBufferSize: 256,
}

type revisionMessage struct {
	Revision uint64 `json:"revision"`
}

// liveClient holds one browser connection. send keeps only the newest
// revision; an older one still queued is dropped.
type liveClient struct {
	send chan uint64
}

// liveHub fans cache revisions out to connected browsers.
type liveHub struct {
	mu       sync.Mutex
	clients  map[*liveClient]struct{}
	done     chan struct{}
	stopOnce sync.Once
	revision func() uint64
	logger   *log.Logger
}

func newLiveHub(revision func() uint64, logger *log.Logger) *liveHub {
	return &liveHub{
		clients:  make(map[*liveClient]struct{}),
		done:     make(chan struct{}),
		revision: revision,
		logger:   logger,
	}
}

func (h *liveHub) register() *liveClient {
	cl := &liveClient{send: make(chan uint64, 1)}
	cl.send <- h.revision()
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	return cl
}

func (h *liveHub) unregister(cl *liveClient) {
	h.mu.Lock()
	delete(h.clients, cl)
	h.mu.Unlock()
}

func (h *liveHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast queues rev for every client without blocking.
func (h *liveHub) broadcast(rev uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case <-cl.send:
		default:
		}
		cl.send <- rev
	}
}

// run blocks until ctx is done, then disconnects every client.
func (h *liveHub) run(ctx context.Context) {
	<-ctx.Done()
	h.stopOnce.Do(func() { close(h.done) })
}

func (a *App) handleLive(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		a.hub.logger.Warn("websocket upgrade", "err", err)
		return nil
	}
	defer conn.Close()

	cl := a.hub.register()
	defer a.hub.unregister(cl)

	// The client never sends; reading surfaces close frames and dead peers.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					a.hub.logger.Debug("websocket read", "err", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case rev := <-cl.send:
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteJSON(revisionMessage{Revision: rev}); err != nil {
				return nil
			}
		case <-gone:
			return nil
		case <-a.hub.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
				time.Now().Add(time.Second))
			conn.Close()
			<-gone
			return nil
		case <-c.Request().Context().Done():
			return nil
		}
	}
}

// liveStatus reports connected clients for health checks.
func (a *App) liveStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"clients":  a.hub.count(),
		"revision": a.Cache.Revision(),
	})
}
