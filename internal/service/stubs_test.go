package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/sma-intervention-api/internal/models"
	"github.com/noah-isme/sma-intervention-api/internal/repository"
	appErrors "github.com/noah-isme/sma-intervention-api/pkg/errors"
	"github.com/noah-isme/sma-intervention-api/pkg/jobs"
)

var fixedNow = time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func teacherActor() *models.Actor {
	return &models.Actor{ID: "staff-1", Name: "Ms. Rahma", Role: models.RoleTeacher}
}

func counselorActor() *models.Actor {
	return &models.Actor{ID: "counselor-1", Name: "Mr. Idris", Role: models.RoleCounselor}
}

type auditWriterStub struct {
	mu   sync.Mutex
	logs []*models.AuditLog
	err  error
}

func (s *auditWriterStub) Create(ctx context.Context, log *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.logs = append(s.logs, log)
	return nil
}

func (s *auditWriterStub) ListByResource(ctx context.Context, resource, resourceID string) ([]models.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AuditLog
	for _, l := range s.logs {
		if l.Resource == resource && l.ResourceID != nil && *l.ResourceID == resourceID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (s *auditWriterStub) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.logs))
	for _, l := range s.logs {
		out = append(out, l.Action)
	}
	return out
}

type auditQueueStub struct {
	jobs []jobs.Job
	err  error
}

func (s *auditQueueStub) Enqueue(job jobs.Job) error {
	if s.err != nil {
		return s.err
	}
	s.jobs = append(s.jobs, job)
	return nil
}

type domainLookupStub struct {
	domains map[string]*models.BehavioralDomain
	err     error
}

func (s domainLookupStub) Get(ctx context.Context, id string) (*models.BehavioralDomain, error) {
	if s.err != nil {
		return nil, s.err
	}
	if d, ok := s.domains[id]; ok {
		return d, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "behavioral domain not found")
}

type spawnerStub struct {
	spawns []ReentrySpawn
	err    error
}

func (s *spawnerStub) Spawn(ctx context.Context, spawn ReentrySpawn) (*models.ReentryProtocol, error) {
	s.spawns = append(s.spawns, spawn)
	if s.err != nil {
		return nil, s.err
	}
	sourceID := spawn.SourceID
	return &models.ReentryProtocol{
		ID:         uuid.NewString(),
		StudentID:  spawn.StudentID,
		SourceType: spawn.SourceType,
		SourceID:   &sourceID,
		Status:     models.ReentryStatusPending,
	}, nil
}

type levelBRepoStub struct {
	records   map[string]models.LevelBIntervention
	createErr error
	listed    models.LevelBFilter
}

func newLevelBRepoStub() *levelBRepoStub {
	return &levelBRepoStub{records: map[string]models.LevelBIntervention{}}
}

func (s *levelBRepoStub) Create(ctx context.Context, b *models.LevelBIntervention) error {
	if s.createErr != nil {
		return s.createErr
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.Version = 1
	s.records[b.ID] = *b
	return nil
}

func (s *levelBRepoStub) FindByID(ctx context.Context, id string) (*models.LevelBIntervention, error) {
	b, ok := s.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &b, nil
}

func (s *levelBRepoStub) List(ctx context.Context, filter models.LevelBFilter) ([]models.LevelBIntervention, int, error) {
	s.listed = filter
	out := make([]models.LevelBIntervention, 0, len(s.records))
	for _, b := range s.records {
		out = append(out, b)
	}
	return out, len(out), nil
}

func (s *levelBRepoStub) Mutate(ctx context.Context, id string, fn func(b *models.LevelBIntervention) error) (*models.LevelBIntervention, error) {
	current, ok := s.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	rates := models.DailyRates{}
	for k, v := range current.DailySuccessRates {
		rates[k] = v
	}
	current.DailySuccessRates = rates
	if err := fn(&current); err != nil {
		return nil, err
	}
	current.Version++
	s.records[id] = current
	return &current, nil
}

type levelCRepoStub struct {
	records   map[string]models.LevelCCase
	createErr error
	listed    models.LevelCFilter
}

func newLevelCRepoStub() *levelCRepoStub {
	return &levelCRepoStub{records: map[string]models.LevelCCase{}}
}

func (s *levelCRepoStub) Create(ctx context.Context, c *models.LevelCCase) error {
	if s.createErr != nil {
		return s.createErr
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Version = 1
	c.CreatedAt = fixedNow
	s.records[c.ID] = *c
	return nil
}

func (s *levelCRepoStub) FindByID(ctx context.Context, id string) (*models.LevelCCase, error) {
	c, ok := s.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (s *levelCRepoStub) List(ctx context.Context, filter models.LevelCFilter) ([]models.LevelCCase, int, error) {
	s.listed = filter
	return nil, 0, nil
}

func (s *levelCRepoStub) Mutate(ctx context.Context, id string, fn func(c *models.LevelCCase) error) (*models.LevelCCase, error) {
	current, ok := s.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	current.DailyCheckIns = append(models.CheckIns{}, current.DailyCheckIns...)
	if err := fn(&current); err != nil {
		return nil, err
	}
	current.Version++
	s.records[id] = current
	return &current, nil
}

type reentryRepoStub struct {
	records   map[string]models.ReentryProtocol
	sources   map[string]repository.ReentrySource
	createErr error
}

func newReentryRepoStub() *reentryRepoStub {
	return &reentryRepoStub{records: map[string]models.ReentryProtocol{}, sources: map[string]repository.ReentrySource{}}
}

func (s *reentryRepoStub) Create(ctx context.Context, p *models.ReentryProtocol, source repository.ReentrySource) error {
	if s.createErr != nil {
		return s.createErr
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Version = 1
	s.records[p.ID] = *p
	s.sources[p.ID] = source
	return nil
}

func (s *reentryRepoStub) FindByID(ctx context.Context, id string) (*models.ReentryProtocol, error) {
	p, ok := s.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (s *reentryRepoStub) List(ctx context.Context, filter models.ReentryFilter) ([]models.ReentryProtocol, int, error) {
	out := make([]models.ReentryProtocol, 0, len(s.records))
	for _, p := range s.records {
		if filter.Active && p.Status != models.ReentryStatusActive {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (s *reentryRepoStub) Mutate(ctx context.Context, id string, fn func(p *models.ReentryProtocol) error) (*models.ReentryProtocol, error) {
	current, ok := s.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	current.ReadinessChecklist = append(models.Checklist{}, current.ReadinessChecklist...)
	current.DailyLogs = append(models.DailyLogs{}, current.DailyLogs...)
	if err := fn(&current); err != nil {
		return nil, err
	}
	current.Version++
	s.records[id] = current
	return &current, nil
}

var errStoreDown = errors.New("connection refused")
