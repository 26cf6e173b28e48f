package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/report-microservice/internal/domain"
	"github.com/report-microservice/internal/domain/repository"
	"github.com/report-microservice/internal/infrastructure/rabbitmq"
	"github.com/report-microservice/internal/worker"
)

const (
	maxBatchSize    = 20                     // максимум сообщений за раз
	emptyQueueSleep = 200 * time.Millisecond // пауза если очередь пуста
)

// SyncWorker ретранслирует события отправленных отчётов из Redis Stream
// в RabbitMQ для downstream-пайплайнов муниципалитета
type SyncWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	publisher    *rabbitmq.Publisher
	consumerName string
	maxRetries   int
}

// NewSyncWorker создает новый SyncWorker
func NewSyncWorker(
	streamRepo repository.StreamRepository,
	publisher *rabbitmq.Publisher,
	consumerGroup string,
	maxRetries int,
	logger *zap.Logger,
) *SyncWorker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	return &SyncWorker{
		BaseWorker:   worker.NewBaseWorker("report-sync", consumerGroup, logger),
		streamRepo:   streamRepo,
		publisher:    publisher,
		consumerName: consumerName,
		maxRetries:   maxRetries,
	}
}

// Start запускает воркер
func (w *SyncWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting SyncWorker (batch mode)",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("max_batch_size", maxBatchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamReportSubmitted, w.ConsumerGroup()); err != nil {
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
				time.Sleep(time.Second) // пауза при ошибке
				continue
			}

			if processed == 0 {
				time.Sleep(emptyQueueSleep)
			}
		}
	}
}

// processBatch читает и ретранслирует batch событий.
// Возвращает количество обработанных сообщений.
func (w *SyncWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamReportSubmitted,
		w.ConsumerGroup(),
		w.consumerName,
		maxBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}

	if len(messages) == 0 {
		return 0, nil // очередь пуста
	}

	logger.Info("Processing batch", zap.Int("message_count", len(messages)))

	processed := 0
	for _, msg := range messages {
		event, err := parseEvent(msg)
		if err != nil {
			// Битое сообщение подтверждаем сразу: retry его не починит
			logger.Warn("Skipping malformed message",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			_ = w.streamRepo.AckMessage(ctx, domain.StreamReportSubmitted, w.ConsumerGroup(), msg.ID)
			continue
		}

		if err := w.relay(event); err != nil {
			// Без ack: сообщение останется в pending и будет перечитано
			logger.Error("Failed to relay event",
				zap.String("report_id", event.ReportID),
				zap.Error(err))
			continue
		}

		if err := w.streamRepo.AckMessage(ctx, domain.StreamReportSubmitted, w.ConsumerGroup(), msg.ID); err != nil {
			logger.Error("Failed to ack message",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			continue
		}

		logger.Info("Report event relayed",
			zap.String("report_id", event.ReportID),
			zap.String("zone", event.Zone))
		processed++
	}

	return processed, nil
}

// relay публикует событие в RabbitMQ с ограниченным числом попыток
func (w *SyncWorker) relay(event *domain.ReportSubmittedEvent) error {
	var lastErr error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		if lastErr = w.publisher.Publish(event); lastErr == nil {
			return nil
		}
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	return fmt.Errorf("publish failed after %d attempts: %w", w.maxRetries, lastErr)
}

// parseEvent декодирует событие из сырого сообщения стрима
func parseEvent(msg domain.StreamMessage) (*domain.ReportSubmittedEvent, error) {
	raw, ok := msg.Values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("message %s has no data field", msg.ID)
	}

	var event domain.ReportSubmittedEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return &event, nil
}
