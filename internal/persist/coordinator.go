// Package persist coordinates the dual write of one logical chat event to
// the document store and the relational store. The two stores share no
// transaction boundary, so the coordinator does not pretend to offer
// atomicity across them; it attempts each write independently and reports
// partial failure honestly.
package persist

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iamaamunir/chat-app/internal/metrics"
	"github.com/iamaamunir/chat-app/internal/models"
)

// StoreName identifies one of the two stores in error reports.
type StoreName string

const (
	StoreDocument   StoreName = "document"
	StoreRelational StoreName = "relational"
)

// StoreError is one failed store write inside a Result.
type StoreError struct {
	Store   StoreName `json:"store"`
	Message string    `json:"error"`
}

// Result aggregates one dual-write attempt. Success is true iff both writes
// succeeded; Errors holds one entry per failing store in attempt order.
type Result struct {
	Success  bool                 `json:"success"`
	Errors   []StoreError         `json:"errors"`
	Document *models.ChatDocument `json:"document"`
	ChatID   *int64               `json:"chat_id"`
}

// DocumentStore is the document-side write surface the coordinator needs.
type DocumentStore interface {
	CreateChat(ctx context.Context, ev *models.ChatEvent) (*models.ChatDocument, error)
}

// RelationalStore is the relational-side write surface.
type RelationalStore interface {
	InsertChatWithMessages(ctx context.Context, ev *models.ChatEvent) (int64, error)
}

// Coordinator issues the same logical save to both stores. Store handles are
// injected; the coordinator owns no connection state of its own.
type Coordinator struct {
	docs    DocumentStore
	rel     RelationalStore
	log     *zap.SugaredLogger
	timeout time.Duration
}

func NewCoordinator(docs DocumentStore, rel RelationalStore, log *zap.SugaredLogger, timeout time.Duration) *Coordinator {
	return &Coordinator{docs: docs, rel: rel, log: log, timeout: timeout}
}

// Save attempts the document write, then the relational write. Each attempt
// has its own failure boundary and its own timeout; a failure in one never
// prevents the other from being attempted, and no failure escapes as an
// error to the caller. Attempt order is scheduling only, not a dependency.
func (c *Coordinator) Save(ctx context.Context, ev *models.ChatEvent) Result {
	var res Result

	dctx, cancel := context.WithTimeout(ctx, c.timeout)
	doc, err := c.docs.CreateChat(dctx, ev)
	cancel()
	if err != nil {
		res.Errors = append(res.Errors, StoreError{Store: StoreDocument, Message: err.Error()})
		metrics.StoreWrites.WithLabelValues(string(StoreDocument), "error").Inc()
		c.log.Errorw("document store write failed", "room", ev.RoomName, "user", ev.UserName, "err", err)
	} else {
		res.Document = doc
		metrics.StoreWrites.WithLabelValues(string(StoreDocument), "ok").Inc()
	}

	rctx, cancel := context.WithTimeout(ctx, c.timeout)
	chatID, err := c.rel.InsertChatWithMessages(rctx, ev)
	cancel()
	if err != nil {
		res.Errors = append(res.Errors, StoreError{Store: StoreRelational, Message: err.Error()})
		metrics.StoreWrites.WithLabelValues(string(StoreRelational), "error").Inc()
		c.log.Errorw("relational store write failed", "room", ev.RoomName, "user", ev.UserName, "err", err)
	} else {
		res.ChatID = &chatID
		metrics.StoreWrites.WithLabelValues(string(StoreRelational), "ok").Inc()
	}

	res.Success = len(res.Errors) == 0
	return res
}
