package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/taskboard/internal/config"
	"github.com/spec-kit/taskboard/internal/events"
)

// AuditService records domain events to the log and, when Redis is
// available, to a capped audit trail list. It sits entirely off the request
// path: a failed write is logged and dropped, never surfaced.
type AuditService struct {
	dispatcher events.Dispatcher
	client     *redis.Client
	logger     *zap.Logger
	cfg        config.AuditConfig
}

// NewAuditService creates the service. client may be nil; the trail then
// degrades to log-only.
func NewAuditService(dispatcher events.Dispatcher, client *redis.Client, logger *zap.Logger, cfg config.AuditConfig) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		client:     client,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to every event type.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		a.dispatcher.Subscribe(eventType, a.handleEvent)
	}
}

func (a *AuditService) handleEvent(ctx context.Context, event events.Event) error {
	a.logger.Info("audit event",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))

	if a.client == nil || a.cfg.TrailKey == "" {
		return nil
	}

	entry, err := json.Marshal(event)
	if err != nil {
		a.logger.Warn("audit event marshal failed", zap.Error(err))
		return nil
	}

	pipe := a.client.TxPipeline()
	pipe.LPush(ctx, a.cfg.TrailKey, entry)
	if a.cfg.MaxEntries > 0 {
		pipe.LTrim(ctx, a.cfg.TrailKey, 0, a.cfg.MaxEntries-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		a.logger.Warn("audit trail write failed", zap.Error(err))
	}
	return nil
}
