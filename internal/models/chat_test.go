package models

import (
	"errors"
	"testing"
)

func TestChatEvent_Validate(t *testing.T) {
	content := "hello"

	tests := []struct {
		name    string
		event   ChatEvent
		wantErr error
	}{
		{
			name:  "valid join event",
			event: ChatEvent{RoomName: "r1", UserName: "alice", State: "joined"},
		},
		{
			name: "valid event with messages",
			event: ChatEvent{
				RoomName: "r1",
				UserName: "alice",
				State:    "joined",
				Messages: []MessageInput{{Content: &content}},
			},
		},
		{
			name:  "nil message content passes validation",
			event: ChatEvent{RoomName: "r1", UserName: "alice", Messages: []MessageInput{{Content: nil}}},
		},
		{
			name:    "missing room name",
			event:   ChatEvent{UserName: "alice"},
			wantErr: ErrRoomNameRequired,
		},
		{
			name:    "missing user name",
			event:   ChatEvent{RoomName: "r1"},
			wantErr: ErrUserNameRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
