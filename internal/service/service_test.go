package service

import (
	"context"

	"prepareup-be/internal/dto"
	"prepareup-be/internal/entity"
	"prepareup-be/internal/repository/contract"
	"prepareup-be/internal/repository/specification"
	"prepareup-be/internal/repository/unitofwork"
	"prepareup-be/pkg/llm"
)

// Shared test doubles for the service layer.

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type capturePublisher struct {
	messages []*dto.PersistDocumentsMessage
}

func (p *capturePublisher) PublishPersistDocuments(msg *dto.PersistDocumentsMessage) error {
	p.messages = append(p.messages, msg)
	return nil
}

// scriptedLLM returns canned replies in order and records what it was asked.
type scriptedLLM struct {
	replies []string
	err     error
	calls   [][]llm.Message
}

func (s *scriptedLLM) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	s.calls = append(s.calls, history)
	if s.err != nil {
		return "", s.err
	}
	reply := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return reply, nil
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(context.Context, string) (bool, error) { return true, nil }

type denyLimiter struct{}

func (denyLimiter) Allow(context.Context, string) (bool, error) { return false, nil }

// fakeUowFactory hands out a unit of work backed by in-memory repositories
// good enough for service assertions.
type fakeUowFactory struct {
	uow *fakeUow
}

func newFakeUowFactory() *fakeUowFactory {
	return &fakeUowFactory{uow: &fakeUow{
		jobs: &fakeJobRepo{},
		docs: &fakeDocRepo{},
	}}
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeUow struct {
	jobs *fakeJobRepo
	docs *fakeDocRepo
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository                 { return nil }
func (u *fakeUow) OAuthAccountRepository() contract.OAuthAccountRepository { return nil }
func (u *fakeUow) DocumentRepository() contract.DocumentRepository         { return u.docs }
func (u *fakeUow) GenerationJobRepository() contract.GenerationJobRepository {
	return u.jobs
}

type fakeJobRepo struct {
	created []*entity.GenerationJob
	updated []*entity.GenerationJob
}

func (r *fakeJobRepo) Create(_ context.Context, job *entity.GenerationJob) error {
	// Snapshot the job: the service mutates the same struct later, and the
	// assertions need the status as it was at Create time.
	snapshot := *job
	r.created = append(r.created, &snapshot)
	return nil
}

func (r *fakeJobRepo) Update(_ context.Context, job *entity.GenerationJob) error {
	r.updated = append(r.updated, job)
	return nil
}

func (r *fakeJobRepo) FindOne(context.Context, ...specification.Specification) (*entity.GenerationJob, error) {
	return nil, nil
}

func (r *fakeJobRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.GenerationJob, error) {
	return nil, nil
}

type fakeDocRepo struct {
	created []*entity.Document
}

func (r *fakeDocRepo) CreateBulk(_ context.Context, docs []*entity.Document) error {
	r.created = append(r.created, docs...)
	return nil
}

func (r *fakeDocRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.Document, error) {
	return r.created, nil
}

func (r *fakeDocRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(r.created)), nil
}
