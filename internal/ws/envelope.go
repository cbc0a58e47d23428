package ws

import "time"

// Envelope is the wire format for relay messages in both directions.
type Envelope struct {
	Type      string `json:"type"`
	RoomName  string `json:"room_name,omitempty"`
	UserName  string `json:"user_name,omitempty"`
	Content   string `json:"content,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Inbound envelope types.
const (
	TypeJoinRoom    = "joinRoom"
	TypeSendMessage = "sendMessage"
)

// Outbound envelope types.
const (
	TypeUserJoined      = "userJoined"
	TypeReceivedMessage = "receivedMessage"
	TypeError           = "error"
)

func userJoinedEnvelope(roomName, userName string) Envelope {
	return Envelope{
		Type:     TypeUserJoined,
		RoomName: roomName,
		UserName: userName,
		Message:  "User " + userName + " has joined the room",
	}
}

func receivedMessageEnvelope(roomName, userName, content string) Envelope {
	return Envelope{
		Type:      TypeReceivedMessage,
		RoomName:  roomName,
		UserName:  userName,
		Content:   content,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func errorEnvelope(msg string) Envelope {
	return Envelope{Type: TypeError, Message: msg}
}
