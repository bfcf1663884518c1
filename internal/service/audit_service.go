package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-intervention-api/internal/models"
	appErrors "github.com/noah-isme/sma-intervention-api/pkg/errors"
	"github.com/noah-isme/sma-intervention-api/pkg/jobs"
)

const auditJobType = "audit_log"

type auditWriter interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

type auditReader interface {
	ListByResource(ctx context.Context, resource, resourceID string) ([]models.AuditLog, error)
}

type auditQueue interface {
	Enqueue(job jobs.Job) error
}

type requestMetaKey struct{}

// RequestMeta carries caller network details into audit entries.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// WithRequestMeta stores request metadata on ctx for later audit entries.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

func requestMetaFrom(ctx context.Context) RequestMeta {
	if meta, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return meta
	}
	return RequestMeta{IPAddress: "system", UserAgent: "intervention-service"}
}

// AuditEntry describes one state transition to record.
type AuditEntry struct {
	Actor      *models.Actor
	Action     string
	Resource   string
	ResourceID string
	Before     interface{}
	After      interface{}
}

// AuditService records transitions in audit_logs. With a queue attached, writes happen
// in the background and are retried by the queue; otherwise they are written inline.
type AuditService struct {
	writer auditWriter
	reader auditReader
	queue  auditQueue
	logger *zap.Logger
}

// NewAuditService constructs the service.
func NewAuditService(writer auditWriter, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AuditService{writer: writer, logger: logger}
	if reader, ok := writer.(auditReader); ok {
		svc.reader = reader
	}
	return svc
}

// AttachQueue routes subsequent entries through queue.
func (s *AuditService) AttachQueue(queue auditQueue) {
	s.queue = queue
}

// Record builds the audit row and hands it to the queue or writer. Failures are
// logged and never returned: the transition has already committed.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) {
	if s == nil || s.writer == nil {
		return
	}
	log, err := s.build(ctx, entry)
	if err != nil {
		s.logger.Warn("failed to build audit log", zap.String("action", entry.Action), zap.Error(err))
		return
	}

	if s.queue != nil {
		err := s.queue.Enqueue(jobs.Job{ID: log.ID, Type: auditJobType, Payload: log})
		if err == nil {
			return
		}
		s.logger.Warn("audit queue rejected entry, writing inline", zap.String("action", entry.Action), zap.Error(err))
	}
	if err := s.writer.Create(ctx, log); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("action", entry.Action), zap.String("resource_id", entry.ResourceID), zap.Error(err))
	}
}

// History returns the recorded transitions of one record, oldest first.
func (s *AuditService) History(ctx context.Context, resource, resourceID string) ([]models.AuditLog, error) {
	switch resource {
	case recordLevelA, recordLevelB, recordLevelC, recordReentry:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "resource must be level_a, level_b, level_c or reentry")
	}
	if s == nil || s.reader == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "audit history unavailable")
	}
	logs, err := s.reader.ListByResource(ctx, resource, resourceID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load audit history")
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	return logs, nil
}

// HandleJob is the queue handler persisting a queued entry.
func (s *AuditService) HandleJob(ctx context.Context, job jobs.Job) error {
	log, ok := job.Payload.(*models.AuditLog)
	if !ok {
		s.logger.Error("unexpected audit job payload", zap.String("job_id", job.ID), zap.String("type", fmt.Sprintf("%T", job.Payload)))
		return nil
	}
	return s.writer.Create(ctx, log)
}

func (s *AuditService) build(ctx context.Context, entry AuditEntry) (*models.AuditLog, error) {
	meta := requestMetaFrom(ctx)
	log := &models.AuditLog{
		ID:        uuid.NewString(),
		Action:    entry.Action,
		Resource:  entry.Resource,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if entry.Actor != nil && entry.Actor.ID != "" {
		id := entry.Actor.ID
		log.UserID = &id
	}
	if entry.ResourceID != "" {
		id := entry.ResourceID
		log.ResourceID = &id
	}
	var err error
	if entry.Before != nil {
		if log.OldValues, err = json.Marshal(entry.Before); err != nil {
			return nil, err
		}
	}
	if entry.After != nil {
		if log.NewValues, err = json.Marshal(entry.After); err != nil {
			return nil, err
		}
	}
	return log, nil
}
