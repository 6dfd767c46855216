package server

import (
	"bufio"
	"encoding/json"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gridlock-games/bomberman-server/internal/config"
	"github.com/gridlock-games/bomberman-server/internal/metrics"
	"golang.org/x/time/rate"
)

// outboundQueueSize bounds the per-connection fan-out buffer (spec §5):
// a slow consumer overflows this and is disconnected rather than
// stalling the tick driver.
const outboundQueueSize = 32

// Connection is one admitted TCP peer — a player or a spectator. Its
// UserID is read by the owning goroutine's posted closures and written
// by them too (on spectator->player conversion); both sides only ever
// touch it through the atomic accessors below.
type Connection struct {
	id          uint64
	conn        net.Conn
	reader      *bufio.Reader
	server      *Server
	send        chan []byte
	limiter     *rate.Limiter
	name        string
	isSpectator atomic.Bool
	userID      atomic.Int64
	closeOnce   sync.Once
}

// closeSend closes the outbound queue exactly once. Both an enqueue
// overflow (indirectly, via the socket close it triggers) and the
// reader goroutine's own exit (via handleDisconnect) may reach this
// for the same connection.
func (c *Connection) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

func newConnection(id uint64, conn net.Conn, srv *Server, userID int, isSpectator bool, name string) *Connection {
	c := &Connection{
		id:      id,
		conn:    conn,
		reader:  bufio.NewReader(conn),
		server:  srv,
		send:    make(chan []byte, outboundQueueSize),
		limiter: rate.NewLimiter(rate.Limit(config.RateLimitPerSecond), config.RateLimitBurst),
		name:    name,
	}
	c.userID.Store(int64(userID))
	c.isSpectator.Store(isSpectator)
	return c
}

// UserID returns the pid (player) or sid (spectator) this connection
// currently authenticates as.
func (c *Connection) UserID() int { return int(c.userID.Load()) }

// IsSpectator reports whether this connection is currently a spectator.
func (c *Connection) IsSpectator() bool { return c.isSpectator.Load() }

// becomePlayer is invoked by the owning goroutine after a successful
// spectator->player conversion: the next command from this connection
// must be interpreted as originating from the new pid (spec §4.6).
func (c *Connection) becomePlayer(pid int) {
	c.userID.Store(int64(pid))
	c.isSpectator.Store(false)
}

// enqueue posts a pre-serialized line (including trailing "\n") to the
// connection's outbound queue. A full queue means a stalled consumer:
// the socket is closed rather than blocking the caller (typically the
// tick driver, mid-broadcast). readPump's resulting error unwinds the
// connection through the normal disconnect path.
func (c *Connection) enqueue(line []byte) {
	select {
	case c.send <- line:
	default:
		metrics.BroadcastDroppedTotal.Inc()
		c.conn.Close()
	}
}

func (c *Connection) sendJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("connection %d: failed to encode reply: %v", c.id, err)
		return
	}
	data = append(data, '\n')
	c.enqueue(data)
}

// readPump reads newline-delimited commands until the peer closes, a
// transport error occurs, or the server shuts down (spec §4.7).
func (c *Connection) readPump() {
	defer func() {
		c.conn.Close()
		c.server.handleDisconnect(c)
	}()

	scanner := bufio.NewScanner(c.reader)
	for scanner.Scan() {
		line := scanner.Text()
		if !c.limiter.Allow() {
			continue
		}
		dispatchCommand(c, line)
	}
}

// writePump drains the outbound queue to the socket until it is closed.
func (c *Connection) writePump() {
	w := bufio.NewWriter(c.conn)
	for line := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if _, err := w.Write(line); err != nil {
			return
		}
		if err := w.Flush(); err != nil {
			return
		}
	}
}
