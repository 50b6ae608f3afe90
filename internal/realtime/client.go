// Package realtime wraps one websocket connection as a chat participant:
// inbound frames are presence declarations, outbound frames are delivered
// messages. The wrapper is the Sender handle the presence registry carries.
package realtime

import (
	"errors"
	"sync"

	"log/slog"

	"github.com/philsmcc/groupdeedov2/internal/domain"
	"github.com/philsmcc/groupdeedov2/internal/presence"
)

var (
	ErrSendBufferFull = errors.New("send buffer full")
	ErrConnClosed     = errors.New("connection closed")
)

// Conn is the subset of *websocket.Conn the client needs; tests substitute
// an in-memory implementation.
type Conn interface {
	ReadJSON(v interface{}) error
	WriteJSON(v interface{}) error
	Close() error
}

type Client struct {
	ConnID string

	conn     Conn
	registry *presence.Registry
	logger   *slog.Logger

	defaultRadiusMiles float64
	defaultChannel     string

	// send stays open for the client's whole lifetime; done signals
	// shutdown instead, so a fan-out holding a stale registry snapshot
	// can never send on a closed channel.
	send      chan domain.Message
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(connID string, conn Conn, registry *presence.Registry, logger *slog.Logger, sendBuffer int, defaultRadiusMiles float64, defaultChannel string) *Client {
	if sendBuffer <= 0 {
		sendBuffer = 16
	}
	if defaultRadiusMiles <= 0 {
		defaultRadiusMiles = domain.DefaultRadiusMiles
	}
	if defaultChannel == "" {
		defaultChannel = domain.DefaultChannel
	}
	return &Client{
		ConnID:             connID,
		conn:               conn,
		registry:           registry,
		logger:             logger,
		defaultRadiusMiles: defaultRadiusMiles,
		defaultChannel:     defaultChannel,
		send:               make(chan domain.Message, sendBuffer),
		done:               make(chan struct{}),
	}
}

// TrySend queues msg for the write pump without blocking. A full buffer or
// a closed connection is reported as a delivery failure; the caller never
// waits on a slow reader. Safe to call concurrently with Close.
func (c *Client) TrySend(msg domain.Message) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// ReadPump consumes presence updates until the connection drops, then
// removes the participant. Runs on the connection's goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.registry.Remove(c.ConnID)
		c.Close()
	}()

	for {
		var update domain.PresenceUpdate
		if err := c.conn.ReadJSON(&update); err != nil {
			c.logger.Debug("connection closed",
				slog.String("conn_id", c.ConnID),
				slog.Any("error", err),
			)
			return
		}
		c.applyUpdate(update)
	}
}

func (c *Client) applyUpdate(update domain.PresenceUpdate) {
	radius := update.RadiusMiles
	if radius <= 0 {
		radius = c.defaultRadiusMiles
	}
	channel := update.Channel
	if channel == "" {
		channel = c.defaultChannel
	}

	coord := domain.Coordinate{Lat: update.Lat, Lng: update.Lng}
	if err := c.registry.Upsert(c.ConnID, c, coord, radius, channel); err != nil {
		c.logger.Warn("presence update rejected",
			slog.String("conn_id", c.ConnID),
			slog.Any("error", err),
		)
	}
}

// WritePump drains the send buffer onto the socket until Close, flushing
// whatever was already queued before exiting.
func (c *Client) WritePump() {
	for {
		select {
		case msg := <-c.send:
			if !c.writeFrame(msg) {
				return
			}
		case <-c.done:
			for {
				select {
				case msg := <-c.send:
					if !c.writeFrame(msg) {
						return
					}
				default:
					return
				}
			}
		}
	}
}

func (c *Client) writeFrame(msg domain.Message) bool {
	if err := c.conn.WriteJSON(msg); err != nil {
		c.logger.Debug("write failed",
			slog.String("conn_id", c.ConnID),
			slog.Any("error", err),
		)
		return false
	}
	return true
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}
