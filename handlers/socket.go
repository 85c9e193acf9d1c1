// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/thing-of-the-day/dayrecord"
	"github.com/danielhkuo/thing-of-the-day/game"
	"github.com/danielhkuo/thing-of-the-day/kv"
	"github.com/danielhkuo/thing-of-the-day/models"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is handled by the CORS middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GameHandler serves the view's message channel: each inbound view
// message gets exactly one host reply.
type GameHandler struct {
	game  *game.Game
	store *kv.Store

	// now is swapped out in tests to pin the current day.
	now func() time.Time
}

func NewGameHandler(g *game.Game, store *kv.Store) *GameHandler {
	return &GameHandler{game: g, store: store, now: time.Now}
}

// Connect handles GET /game/connect
// Upgrades to a WebSocket and speaks the view message protocol. The
// player token travels in the token query parameter; without one the
// connection acts as the shared anonymous user.
func (h *GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	username := lookupUsername(h.store, r.URL.Query().Get("token"))

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &viewConn{ws: ws, send: make(chan models.HostMessage, 8), done: make(chan struct{})}
	go c.writeLoop()

	slog.Info("view connected", "username", username)
	c.readLoop(h, username)
	slog.Info("view disconnected", "username", username)
}

// viewConn pairs a WebSocket with a buffered outbound queue so the
// read loop never blocks on a slow peer. done is closed when the write
// loop exits, releasing a read loop stuck on a full queue.
type viewConn struct {
	ws   *websocket.Conn
	send chan models.HostMessage
	done chan struct{}
}

// enqueue queues a reply for the write loop. It returns false when the
// write loop has exited, so a dead peer cannot wedge the read loop.
func (c *viewConn) enqueue(msg models.HostMessage) bool {
	select {
	case c.send <- msg:
		return true
	case <-c.done:
		return false
	}
}

func (c *viewConn) readLoop(h *GameHandler, username string) {
	defer func() {
		close(c.send)
		c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg models.ViewMessage
		if err := c.ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read failed", "username", username, "error", err)
			}
			return
		}
		if !c.enqueue(h.Dispatch(username, msg)) {
			return
		}
	}
}

func (c *viewConn) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
		close(c.done)
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Dispatch routes one view message to the game and builds the host
// reply. Rule violations come back as success:false payloads on the
// matching reply type; only malformed or unknown messages produce the
// generic error type.
func (h *GameHandler) Dispatch(username string, msg models.ViewMessage) models.HostMessage {
	today := dayrecord.DayKey(h.now())

	switch msg.Type {
	case models.MsgWebViewReady:
		snap, err := h.game.Snapshot(username, today)
		if err != nil {
			slog.Error("failed to build snapshot", "username", username, "error", err)
			return errorMessage("Something went wrong. Please try again.")
		}
		return models.HostMessage{Type: models.MsgInitialData, Data: snap}

	case models.MsgCreateCard:
		var data models.CreateCardData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return errorMessage("Invalid message payload")
		}
		if _, err := h.game.Submit(username, data.Text, today); err != nil {
			if isRuleError(err) {
				return models.HostMessage{Type: models.MsgCardCreated, Data: models.CardCreatedData{
					Success: false,
					Message: err.Error(),
				}}
			}
			slog.Error("failed to create card", "username", username, "error", err)
			return errorMessage("Something went wrong. Please try again.")
		}
		return models.HostMessage{Type: models.MsgCardCreated, Data: models.CardCreatedData{
			Success:  true,
			Text:     data.Text,
			Username: username,
		}}

	case models.MsgCardVote:
		var data models.CardVoteData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return errorMessage("Invalid message payload")
		}
		index, err := h.game.Vote(username, data.CardID, today)
		if err != nil {
			var already *game.AlreadyVotedError
			if errors.As(err, &already) {
				return models.HostMessage{Type: models.MsgVoteRegistered, Data: models.VoteRegisteredData{
					Success:        false,
					VotedPostIndex: &already.Index,
					Message:        err.Error(),
				}}
			}
			if isRuleError(err) {
				return models.HostMessage{Type: models.MsgVoteRegistered, Data: models.VoteRegisteredData{
					Success: false,
					Message: err.Error(),
				}}
			}
			slog.Error("failed to register vote", "username", username, "error", err)
			return errorMessage("Something went wrong. Please try again.")
		}
		return models.HostMessage{Type: models.MsgVoteRegistered, Data: models.VoteRegisteredData{
			Success:        true,
			VotedPostIndex: &index,
		}}

	case models.MsgFetchTopPost:
		var data models.FetchTopPostData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return errorMessage("Invalid message payload")
		}
		return models.HostMessage{Type: models.MsgTopPostData, Data: models.TopPostData{
			Date:    data.Date,
			TopPost: h.game.TopPost(data.Date),
		}}

	case models.MsgFetchMonthlyTopPosts:
		var data models.FetchMonthlyTopPostsData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return errorMessage("Invalid message payload")
		}
		if data.Month < 1 || data.Month > 12 {
			return errorMessage("Invalid month")
		}
		posts, err := h.game.MonthlyTopPosts(data.Year, data.Month)
		if err != nil {
			slog.Error("failed to load monthly top posts", "error", err)
			return errorMessage("Something went wrong. Please try again.")
		}
		return models.HostMessage{Type: models.MsgMonthlyTopPostsData, Data: models.MonthlyTopPostsData{
			Year:     data.Year,
			Month:    data.Month,
			TopPosts: posts,
		}}

	default:
		return errorMessage("Unknown message type: " + msg.Type)
	}
}

func errorMessage(message string) models.HostMessage {
	return models.HostMessage{Type: models.MsgError, Data: models.ErrorData{Message: message}}
}

// isRuleError reports whether err is a daily-rule or validation
// failure the view should show the user, as opposed to an internal
// failure.
func isRuleError(err error) bool {
	if errors.Is(err, game.ErrAlreadyPosted) || errors.Is(err, game.ErrEmptyText) || errors.Is(err, game.ErrTextTooLong) {
		return true
	}
	var already *game.AlreadyVotedError
	var invalid *game.InvalidCardError
	return errors.As(err, &already) || errors.As(err, &invalid)
}
