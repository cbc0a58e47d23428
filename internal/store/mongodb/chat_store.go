package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iamaamunir/chat-app/internal/models"
)

const collectionName = "chats"

// Connect opens a mongo client and verifies the connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(cctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// ChatStore persists chat events as nested documents, one per join event.
type ChatStore struct {
	coll *mongo.Collection
}

func NewChatStore(db *mongo.Database) *ChatStore {
	coll := db.Collection(collectionName)
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "room_name", Value: 1}, {Key: "user_name", Value: 1}},
		Options: options.Index().SetName("room_user_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &ChatStore{coll: coll}
}

// CreateChat inserts one document for the event. Message content is stored
// as given; a missing content is not a validation failure here.
func (s *ChatStore) CreateChat(ctx context.Context, ev *models.ChatEvent) (*models.ChatDocument, error) {
	now := time.Now().UTC()
	doc := &models.ChatDocument{
		RoomName:  ev.RoomName,
		UserName:  ev.UserName,
		State:     ev.State,
		Messages:  make([]models.EmbeddedMessage, 0, len(ev.Messages)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, m := range ev.Messages {
		ts := m.Timestamp
		if ts.IsZero() {
			ts = now
		}
		doc.Messages = append(doc.Messages, models.EmbeddedMessage{Content: m.Content, Timestamp: ts})
	}

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc, nil
}

// AppendMessage pushes one message onto the chat matching {user, room} and
// returns the updated document. Returns (nil, nil) when no chat matches:
// an absent target is an application-level condition, not a store fault.
func (s *ChatStore) AppendMessage(ctx context.Context, roomName, userName string, msg models.MessageInput) (*models.ChatDocument, error) {
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	update := bson.M{
		"$push": bson.M{"messages": models.EmbeddedMessage{Content: msg.Content, Timestamp: ts}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc models.ChatDocument
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"room_name": roomName, "user_name": userName}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// FindByRoom lists chats for a room, oldest first.
func (s *ChatStore) FindByRoom(ctx context.Context, roomName string, limit int64) ([]*models.ChatDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}).SetLimit(limit)
	cur, err := s.coll.Find(ctx, bson.M{"room_name": roomName}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.ChatDocument{}
	for cur.Next(ctx) {
		var d models.ChatDocument
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, cur.Err()
}
