package service

import (
	"context"
	"encoding/json"
	"time"

	"hk-explorer-be/internal/dto"
	"hk-explorer-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

// importRetryDelay spaces out redeliveries of a failed import job.
const importRetryDelay = 2 * time.Second

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber    message.Subscriber
	topicName     string
	importService IImportService
	logger        logger.ILogger
	retryDelay    time.Duration
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	importService IImportService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:    subscriber,
		topicName:     topicName,
		importService: importService,
		logger:        log,
		retryDelay:    importRetryDelay,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
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
	var payload dto.PublishImportMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ImportConsumer", "failed to unmarshal import job", map[string]interface{}{"error": err})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	res, err := cs.importService.Import(ctx, payload.Challenges)
	if err != nil {
		cs.logger.Error("ImportConsumer", "import job failed, will retry", map[string]interface{}{
			"job_id": payload.JobId,
			"error":  err,
		})
		select {
		case <-ctx.Done():
		case <-time.After(cs.retryDelay):
		}
		msg.Nack()
		return
	}

	cs.logger.Info("ImportConsumer", "import job done", map[string]interface{}{
		"job_id":   payload.JobId,
		"imported": res.Imported,
		"skipped":  res.Skipped,
	})
	msg.Ack()
}
