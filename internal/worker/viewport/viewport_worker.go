package viewport

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/parkrun-map/internal/domain"
	"github.com/parkrun-map/internal/domain/repository"
	"github.com/parkrun-map/internal/worker"
	"go.uber.org/zap"
)

const (
	maxBatchSize    = 20                     // максимум сообщений за раз
	emptyQueueSleep = 100 * time.Millisecond // пауза если очередь пуста
	errorSleep      = time.Second            // пауза при ошибке чтения
)

// EventHandler применяет событие видимой области к сессии карты
type EventHandler interface {
	HandleEvent(ctx context.Context, event *domain.ViewportEvent) (*domain.OverlayDelta, error)
}

// ViewportWorker читает события изменения видимой области из stream:map:viewport
// и публикует изменения оверлеев в stream:map:overlay. События обрабатываются
// строго в порядке поступления, по одному.
type ViewportWorker struct {
	*worker.BaseWorker
	streamRepo    repository.StreamRepository
	handler       EventHandler
	consumerGroup string
	consumerName  string
	maxRetries    int
}

// NewViewportWorker создает новый ViewportWorker
func NewViewportWorker(
	streamRepo repository.StreamRepository,
	handler EventHandler,
	consumerGroup string,
	maxRetries int,
	logger *zap.Logger,
) *ViewportWorker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	if maxRetries < 1 {
		maxRetries = 1
	}

	return &ViewportWorker{
		BaseWorker:    worker.NewBaseWorker("map-viewport", logger),
		streamRepo:    streamRepo,
		handler:       handler,
		consumerGroup: consumerGroup,
		consumerName:  consumerName,
		maxRetries:    maxRetries,
	}
}

// ConsumerGroup возвращает имя consumer group стрима видимой области
func (w *ViewportWorker) ConsumerGroup() string {
	return w.consumerGroup
}

// Start запускает воркер
func (w *ViewportWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting ViewportWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("max_batch_size", maxBatchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamMapViewport, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, err := w.processBatch(ctx)
			if err != nil {
				logger.Error("Failed to process batch", zap.Error(err))
				w.Pause(ctx, errorSleep)
				continue
			}

			if processed == 0 {
				w.Pause(ctx, emptyQueueSleep)
			}
		}
	}
}

// processBatch читает и обрабатывает batch сообщений.
// Возвращает количество прочитанных сообщений.
func (w *ViewportWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamMapViewport,
		w.ConsumerGroup(),
		w.consumerName,
		maxBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}

	if len(messages) == 0 {
		return 0, nil
	}

	logger.Debug("Processing batch", zap.Int("message_count", len(messages)))

	messageIDs := make([]string, 0, len(messages))
	for _, msg := range messages {
		messageIDs = append(messageIDs, msg.ID)

		event, err := parseMessage(msg)
		if err != nil {
			// битое сообщение подтверждается вместе с остальными, чтобы не застревало
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			continue
		}

		out := &domain.OverlayDeltaEvent{SessionID: event.SessionID}
		delta, err := w.handler.HandleEvent(ctx, event)
		if err != nil {
			logger.Warn("Viewport event failed",
				zap.String("session_id", event.SessionID.String()),
				zap.Error(err))
			out.Error = err.Error()
		} else {
			out.Delta = delta
		}

		if err := w.publish(ctx, out); err != nil {
			logger.Error("Failed to publish overlay delta",
				zap.String("session_id", event.SessionID.String()),
				zap.Error(err))
		}
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamMapViewport, w.ConsumerGroup(), messageIDs); err != nil {
		// Не критично - сообщения будут переобработаны
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	return len(messages), nil
}

// publish отправляет результат, повторяя попытку до maxRetries раз
func (w *ViewportWorker) publish(ctx context.Context, event *domain.OverlayDeltaEvent) error {
	var err error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		if err = w.streamRepo.PublishToStream(ctx, domain.StreamMapOverlay, event); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return fmt.Errorf("publish after %d attempts: %w", w.maxRetries, err)
}

// parseMessage парсит сообщение из стрима в ViewportEvent
func parseMessage(msg domain.StreamMessage) (*domain.ViewportEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("missing or invalid 'data' field")
	}

	var event domain.ViewportEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return &event, nil
}
