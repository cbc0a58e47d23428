package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/iamaamunir/chat-app/internal/models"
)

// These tests run against a real MongoDB, addressed by TEST_MONGODB_URI.
// They are skipped when the variable is unset.

func testStore(t *testing.T) *ChatStore {
	t.Helper()
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := Connect(ctx, uri)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("chat_app_test")
	if err := db.Collection(collectionName).Drop(ctx); err != nil {
		t.Fatalf("drop collection: %v", err)
	}
	return NewChatStore(db)
}

func strptr(s string) *string { return &s }

func TestCreateChat(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	ev := &models.ChatEvent{
		RoomName: "r1",
		UserName: "alice",
		State:    "User alice has joined the room",
		Messages: []models.MessageInput{{Content: strptr("hello world")}},
	}
	doc, err := store.CreateChat(ctx, ev)
	if err != nil {
		t.Fatalf("CreateChat() error: %v", err)
	}
	if doc.ID.IsZero() {
		t.Error("CreateChat() document id is zero, want store-assigned id")
	}
	if doc.RoomName != "r1" || doc.UserName != "alice" {
		t.Errorf("CreateChat() doc = %+v, want room r1 / user alice", doc)
	}
	if len(doc.Messages) != 1 || *doc.Messages[0].Content != "hello world" {
		t.Errorf("CreateChat() messages = %+v, want one entry", doc.Messages)
	}
	if doc.CreatedAt.IsZero() || doc.UpdatedAt.IsZero() {
		t.Error("CreateChat() timestamps not set")
	}
}

func TestCreateChat_NilContentStoredAsGiven(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	// the document path never validates content; a missing value is kept
	ev := &models.ChatEvent{
		RoomName: "r1",
		UserName: "alice",
		State:    "joined",
		Messages: []models.MessageInput{{Content: nil}},
	}
	doc, err := store.CreateChat(ctx, ev)
	if err != nil {
		t.Fatalf("CreateChat() error: %v", err)
	}
	if len(doc.Messages) != 1 {
		t.Fatalf("messages = %+v, want one entry", doc.Messages)
	}
	if doc.Messages[0].Content != nil {
		t.Errorf("content = %v, want nil preserved", doc.Messages[0].Content)
	}

	var stored models.ChatDocument
	if err := store.coll.FindOne(ctx, bson.M{"_id": doc.ID}).Decode(&stored); err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if len(stored.Messages) != 1 || stored.Messages[0].Content != nil {
		t.Errorf("stored messages = %+v, want nil content round-tripped", stored.Messages)
	}
}

func TestAppendMessage_AppendsToExistingList(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	ev := &models.ChatEvent{
		RoomName: "r1",
		UserName: "alice",
		State:    "joined",
		Messages: []models.MessageInput{{Content: strptr("first")}},
	}
	if _, err := store.CreateChat(ctx, ev); err != nil {
		t.Fatalf("CreateChat() error: %v", err)
	}

	doc, err := store.AppendMessage(ctx, "r1", "alice", models.MessageInput{Content: strptr("second")})
	if err != nil {
		t.Fatalf("AppendMessage() error: %v", err)
	}
	if doc == nil {
		t.Fatal("AppendMessage() doc = nil, want updated document")
	}
	// the existing list is kept, the new entry lands at the end
	if len(doc.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(doc.Messages))
	}
	if *doc.Messages[0].Content != "first" || *doc.Messages[1].Content != "second" {
		t.Errorf("messages = [%v, %v], want [first, second]", doc.Messages[0].Content, doc.Messages[1].Content)
	}
}

func TestAppendMessage_NoMatchReturnsNilNotError(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	doc, err := store.AppendMessage(ctx, "no-such-room", "nobody", models.MessageInput{Content: strptr("hi")})
	if err != nil {
		t.Fatalf("AppendMessage() error = %v, want nil (absent target is not a fault)", err)
	}
	if doc != nil {
		t.Errorf("AppendMessage() doc = %+v, want nil", doc)
	}
}

func TestFindByRoom(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for _, user := range []string{"alice", "bob"} {
		ev := &models.ChatEvent{RoomName: "r1", UserName: user, State: "joined"}
		if _, err := store.CreateChat(ctx, ev); err != nil {
			t.Fatalf("CreateChat(%s): %v", user, err)
		}
		time.Sleep(5 * time.Millisecond) // distinct created_at per chat
	}
	ev := &models.ChatEvent{RoomName: "r2", UserName: "carol", State: "joined"}
	if _, err := store.CreateChat(ctx, ev); err != nil {
		t.Fatalf("CreateChat(carol): %v", err)
	}

	r1, err := store.FindByRoom(ctx, "r1", 10)
	if err != nil {
		t.Fatalf("FindByRoom(r1): %v", err)
	}
	if len(r1) != 2 {
		t.Fatalf("FindByRoom(r1) = %d docs, want 2", len(r1))
	}
	// oldest first
	if r1[0].UserName != "alice" || r1[1].UserName != "bob" {
		t.Errorf("FindByRoom(r1) order = [%s, %s], want [alice, bob]", r1[0].UserName, r1[1].UserName)
	}
	if r1[0].CreatedAt.After(r1[1].CreatedAt) {
		t.Errorf("first chat %v created after second %v", r1[0].CreatedAt, r1[1].CreatedAt)
	}
	r2, err := store.FindByRoom(ctx, "r2", 10)
	if err != nil {
		t.Fatalf("FindByRoom(r2): %v", err)
	}
	if len(r2) != 1 {
		t.Errorf("FindByRoom(r2) = %d docs, want 1", len(r2))
	}
}
