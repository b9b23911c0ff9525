package service

import (
	"context"
	"encoding/json"
	"time"

	"prepareup-be/internal/dto"
	"prepareup-be/internal/entity"
	"prepareup-be/internal/pkg/logger"
	"prepareup-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the document-persist topic and writes rows in the
// background so the upload response never waits on the database.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		log:        log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PersistDocumentsMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "Failed to unmarshal persist-documents message", map[string]interface{}{
			"error": err.Error(),
		})
		// Ack malformed messages, retrying cannot fix them.
		msg.Ack()
		return
	}

	docs := make([]*entity.Document, 0, len(payload.Documents))
	now := time.Now()
	for _, d := range payload.Documents {
		docs = append(docs, &entity.Document{
			Id:        d.Id,
			UserId:    payload.UserId,
			SessionId: payload.SessionId,
			Filename:  d.Filename,
			Mime:      d.Mime,
			Size:      d.Size,
			Status:    d.Status,
			TextLen:   d.TextLen,
			CreatedAt: now,
		})
	}
	if len(docs) == 0 {
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		cs.log.Error("consumer", "Failed to begin transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}
	if err := uow.DocumentRepository().CreateBulk(ctx, docs); err != nil {
		uow.Rollback()
		cs.log.Error("consumer", "Failed to persist documents", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}
	if err := uow.Commit(); err != nil {
		cs.log.Error("consumer", "Failed to commit documents", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	cs.log.Info("consumer", "Persisted uploaded documents", map[string]interface{}{
		"session_id": payload.SessionId,
		"count":      len(docs),
	})
	msg.Ack()
}
