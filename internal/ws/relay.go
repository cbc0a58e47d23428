package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iamaamunir/chat-app/internal/metrics"
	"github.com/iamaamunir/chat-app/internal/models"
	"github.com/iamaamunir/chat-app/internal/persist"
)

// Saver is the persistence surface the relay needs for join events.
type Saver interface {
	Save(ctx context.Context, ev *models.ChatEvent) persist.Result
}

// MessageAppender is the document-store update path for message events.
type MessageAppender interface {
	AppendMessage(ctx context.Context, roomName, userName string, msg models.MessageInput) (*models.ChatDocument, error)
}

// Presence marks users in and out of rooms, best-effort.
type Presence interface {
	Join(ctx context.Context, room, user string) error
	Leave(ctx context.Context, room, user string) error
}

// EventPublisher emits chat events downstream, best-effort.
type EventPublisher interface {
	PublishUserJoined(ctx context.Context, roomName, userName string) error
	PublishMessageSent(ctx context.Context, roomName, userName, content string) error
}

// Relay receives inbound join/message envelopes, triggers persistence, and
// fans results out to other room members. Broadcast never waits on
// persistence: a failed or partial write is logged and reported, not a
// reason to hold back delivery.
type Relay struct {
	hub      *Hub
	saver    Saver
	appender MessageAppender
	presence Presence       // nil when redis is not configured
	events   EventPublisher // nil when kafka is not configured
	log      *zap.SugaredLogger
}

func NewRelay(hub *Hub, saver Saver, appender MessageAppender, presence Presence, events EventPublisher, log *zap.SugaredLogger) *Relay {
	return &Relay{hub: hub, saver: saver, appender: appender, presence: presence, events: events, log: log}
}

// Handle runs the read loop for one connection.
func (r *Relay) Handle(conn *websocket.Conn) {
	client := NewClient(uuid.NewString(), conn)
	metrics.ActiveConnections.Inc()
	r.log.Infow("user connected", "conn", client.ID)

	go client.writePump()
	defer func() {
		r.disconnect(client)
		client.close()
		metrics.ActiveConnections.Dec()
		r.log.Infow("user disconnected", "conn", client.ID)
	}()

	conn.SetReadLimit(maxMessageLen)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			client.Send(errorEnvelope("malformed envelope"))
			continue
		}

		switch env.Type {
		case TypeJoinRoom:
			r.handleJoin(client, env)
		case TypeSendMessage:
			r.handleMessage(client, env)
		default:
			client.Send(errorEnvelope("unknown envelope type: " + env.Type))
		}
	}
}

func (r *Relay) handleJoin(client *Client, env Envelope) {
	ev := &models.ChatEvent{
		RoomName: env.RoomName,
		UserName: env.UserName,
		State:    "User " + env.UserName + " has joined the room",
		Messages: []models.MessageInput{},
	}
	if err := ev.Validate(); err != nil {
		client.Send(errorEnvelope(err.Error()))
		return
	}

	client.UserName = env.UserName
	r.hub.Join(env.RoomName, client)
	r.log.Infow("user joined room", "user", env.UserName, "room", env.RoomName)

	if r.presence != nil {
		if err := r.presence.Join(context.Background(), env.RoomName, env.UserName); err != nil {
			r.log.Warnw("presence update failed", "room", env.RoomName, "err", err)
		}
	}

	result := r.saver.Save(context.Background(), ev)
	if !result.Success {
		for _, se := range result.Errors {
			r.log.Errorw("join persistence incomplete", "store", se.Store, "room", env.RoomName, "err", se.Message)
		}
	}
	if r.events != nil {
		if err := r.events.PublishUserJoined(context.Background(), env.RoomName, env.UserName); err != nil {
			r.log.Warnw("event publish failed", "room", env.RoomName, "err", err)
		}
	}

	// broadcast regardless of persistence outcome
	r.hub.Broadcast(env.RoomName, userJoinedEnvelope(env.RoomName, env.UserName), client)
}

func (r *Relay) handleMessage(client *Client, env Envelope) {
	if env.RoomName == "" || env.UserName == "" {
		client.Send(errorEnvelope("room name and user name are required"))
		return
	}

	// availability over durability: deliver first, persist after
	r.hub.Broadcast(env.RoomName, receivedMessageEnvelope(env.RoomName, env.UserName, env.Content), client)

	content := env.Content
	msg := models.MessageInput{Content: &content, Timestamp: time.Now().UTC()}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	doc, err := r.appender.AppendMessage(ctx, env.RoomName, env.UserName, msg)
	if err != nil {
		r.log.Errorw("message persistence failed", "room", env.RoomName, "user", env.UserName, "err", err)
		client.Send(errorEnvelope("message could not be persisted"))
		return
	}
	if doc == nil {
		// valid outcome from the store, but an application error for the sender
		r.log.Warnw("user not found in room", "room", env.RoomName, "user", env.UserName)
		client.Send(errorEnvelope("user not found in room"))
		return
	}

	if r.events != nil {
		if err := r.events.PublishMessageSent(context.Background(), env.RoomName, env.UserName, env.Content); err != nil {
			r.log.Warnw("event publish failed", "room", env.RoomName, "err", err)
		}
	}
}

func (r *Relay) disconnect(client *Client) {
	rooms := r.hub.Remove(client)
	if r.presence == nil || client.UserName == "" {
		return
	}
	for _, room := range rooms {
		if err := r.presence.Leave(context.Background(), room, client.UserName); err != nil {
			r.log.Warnw("presence cleanup failed", "room", room, "err", err)
		}
	}
}
