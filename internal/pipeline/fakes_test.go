package pipeline

import (
	"context"
	"sync"

	"github.com/fadilmartias/interview-grader/internal/model"
)

type fakeSearcher struct {
	matches []Match
	err     error

	mu    sync.Mutex
	calls int
}

func (f *fakeSearcher) Search(_ context.Context, _ string, k int) ([]Match, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if k < len(f.matches) {
		return f.matches[:k], nil
	}
	return f.matches, nil
}

type fakeGenerator struct {
	answer string
	err    error

	mu       sync.Mutex
	calls    int
	contexts []string
}

func (f *fakeGenerator) Generate(_ context.Context, _ string, exemplars string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.contexts = append(f.contexts, exemplars)
	return f.answer, f.err
}

type fakeCondenser struct {
	out string
	err error

	mu    sync.Mutex
	calls int
}

func (f *fakeCondenser) Condense(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.out, f.err
}

// fakeScorer answers with the raw text registered for the candidate answer.
type fakeScorer struct {
	byAnswer map[string]string
	fallback string
	err      error
}

func (f *fakeScorer) Score(_ context.Context, _, _, answer string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if raw, ok := f.byAnswer[answer]; ok {
		return raw, nil
	}
	return f.fallback, nil
}

type fakeSummarizer struct {
	narrative Narrative
	err       error

	mu      sync.Mutex
	details []QuestionDetail
}

func (f *fakeSummarizer) Summarize(_ context.Context, _, _ string, details []QuestionDetail) (Narrative, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.details = details
	return f.narrative, f.err
}

type memoryUsers struct {
	err error

	mu    sync.Mutex
	users map[string]*model.User
}

func (m *memoryUsers) FindOrCreate(_ context.Context, name, role string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.users == nil {
		m.users = map[string]*model.User{}
	}
	key := role + "/" + name
	if u, ok := m.users[key]; ok {
		return u, nil
	}
	u := &model.User{ID: uint(len(m.users) + 1), Name: name, Role: role}
	m.users[key] = u
	return u, nil
}

type memoryInteractions struct {
	// failOn makes Create fail for interactions with this candidate answer.
	failOn string
	err    error

	mu    sync.Mutex
	saved []*model.Interaction
}

func (m *memoryInteractions) Create(_ context.Context, i *model.Interaction) error {
	if m.failOn != "" && i.AnswerOriginal == m.failOn {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i.ID = uint(len(m.saved) + 1)
	m.saved = append(m.saved, i)
	return nil
}

type memorySessions struct {
	err error

	mu      sync.Mutex
	upserts int
	rows    map[string]model.SessionSummary
}

func (m *memorySessions) Upsert(_ context.Context, s *model.SessionSummary) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows == nil {
		m.rows = map[string]model.SessionSummary{}
	}
	m.upserts++
	m.rows[s.SessionID] = *s
	return nil
}

func ptr[T any](v T) *T { return &v }
