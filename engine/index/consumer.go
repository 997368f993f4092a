package index

import (
	"context"
	"log/slog"

	"github.com/bankrag/bankrag/engine/domain"
	"github.com/bankrag/bankrag/pkg/natsutil"
	"github.com/nats-io/nats.go"
)

// SubjectDocuments carries single-document index requests.
const SubjectDocuments = "bankrag.index.documents"

// indexQueue is the queue group so multiple indexer processes share the load.
const indexQueue = "bankrag-indexers"

// Consumer feeds bus-published documents into the Indexer.
type Consumer struct {
	indexer *Indexer
	logger  *slog.Logger
	sub     *nats.Subscription
}

func NewConsumer(indexer *Indexer, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{indexer: indexer, logger: logger}
}

// Start subscribes to the document subject. Malformed documents are rejected
// by validation and logged; the subscription stays up.
func (c *Consumer) Start(nc *nats.Conn) error {
	sub, err := natsutil.QueueSubscribe(nc, SubjectDocuments, indexQueue, c.logger, func(ctx context.Context, doc domain.Document) {
		if err := c.indexer.IndexOne(ctx, doc); err != nil {
			c.logger.Error("index: rejected bus document", "source_id", doc.SourceID, "err", err)
			return
		}
		c.logger.Info("index: indexed bus document", "source_id", doc.SourceID, "source_type", string(doc.SourceType))
	})
	if err != nil {
		return err
	}
	c.sub = sub
	return nil
}

// Stop drains the subscription.
func (c *Consumer) Stop() error {
	if c.sub == nil {
		return nil
	}
	return c.sub.Drain()
}
