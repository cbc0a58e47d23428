package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrRoomNameRequired = errors.New("room name is required")
	ErrUserNameRequired = errors.New("user name is required")
)

// MessageInput is one message supplied with a chat event. Content is a
// pointer so a missing value survives to the stores as-is: the document
// store accepts it, the relational store's NOT NULL column rejects it.
type MessageInput struct {
	Content   *string   `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatEvent is the input to the dual-write coordinator, built per inbound
// join or message action and consumed exactly once.
type ChatEvent struct {
	RoomName string         `json:"room_name"`
	UserName string         `json:"user_name"`
	State    string         `json:"state"`
	Messages []MessageInput `json:"messages"`
}

func (e *ChatEvent) Validate() error {
	if e.RoomName == "" {
		return ErrRoomNameRequired
	}
	if e.UserName == "" {
		return ErrUserNameRequired
	}
	return nil
}

// EmbeddedMessage is a message sub-record inside a ChatDocument.
type EmbeddedMessage struct {
	Content   *string   `bson:"content" json:"content"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// ChatDocument is the document-store shape: one record per join event with
// the message list embedded.
type ChatDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoomName  string             `bson:"room_name" json:"room_name"`
	UserName  string             `bson:"user_name" json:"user_name"`
	State     string             `bson:"state" json:"state"`
	Messages  []EmbeddedMessage  `bson:"messages" json:"messages"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
