package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fadilmartias/interview-grader/internal/chain"
	"github.com/fadilmartias/interview-grader/internal/model"
	"github.com/fadilmartias/interview-grader/internal/pipeline"
	"github.com/fadilmartias/interview-grader/internal/queue"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.Interaction{},
		&model.SessionSummary{},
	))
	return db
}

type fakeGrader struct {
	batchErr error

	mu      sync.Mutex
	answers []pipeline.ProcessInput
	batches []pipeline.BatchInput
}

func (f *fakeGrader) ProcessOne(_ context.Context, in pipeline.ProcessInput) (*pipeline.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, in)
	score := 8.0
	return &pipeline.Result{Status: pipeline.StatusSuccess, Score: &score, Passed: true, SessionID: in.SessionID}, nil
}

func (f *fakeGrader) ProcessBatch(_ context.Context, in pipeline.BatchInput) (*pipeline.BatchReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, in)
	report := &pipeline.BatchReport{SessionID: in.SessionID, Status: pipeline.StatusSuccess}
	if f.batchErr != nil {
		report.Status = pipeline.StatusError
		return report, f.batchErr
	}
	return report, nil
}

func (f *fakeGrader) batchInputs() []pipeline.BatchInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pipeline.BatchInput(nil), f.batches...)
}

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*model.User
	err   error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]*model.User{}}
}

func (m *memoryUsers) FindOrCreate(_ context.Context, name, role string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := role + "/" + name
	if u, ok := m.users[key]; ok {
		return u, nil
	}
	u := &model.User{ID: uint(len(m.users) + 1), Name: name, Role: role}
	m.users[key] = u
	return u, nil
}

type fakePublisher struct {
	err  error
	jobs []queue.BatchJob
}

func (f *fakePublisher) Publish(_ context.Context, job queue.BatchJob) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

// hashEmbedder embeds text by letter frequency and fails on texts containing "fail".
type hashEmbedder struct {
	calls int
}

func (e *hashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls++
	if strings.Contains(text, "fail") {
		return nil, errors.New("embedding quota exceeded")
	}
	vec := make([]float32, 4)
	for i, r := range text {
		vec[i%4] += float32(r % 7)
	}
	return vec, nil
}

type recordingIndex struct {
	added []model.Question
	err   error
}

func (r *recordingIndex) Add(_ context.Context, questions ...model.Question) error {
	if r.err != nil {
		return r.err
	}
	r.added = append(r.added, questions...)
	return nil
}

type stubAnalyzer struct {
	analysis chain.TranscriptAnalysis
	seen     string
}

func (s *stubAnalyzer) Analyze(_ context.Context, transcript string) chain.TranscriptAnalysis {
	s.seen = transcript
	return s.analysis
}

func floatPtr(v float64) *float64 { return &v }

func sessionName(i int) string { return fmt.Sprintf("session-%02d", i) }
