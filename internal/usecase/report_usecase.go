package usecase

import (
	"context"
	"math"

	"github.com/fadilmartias/interview-grader/internal/dto"
	"github.com/fadilmartias/interview-grader/internal/model"
	"github.com/fadilmartias/interview-grader/internal/repository"
	"github.com/fadilmartias/interview-grader/internal/response"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type ReportUsecase struct {
	sessions     *repository.SessionRepository
	interactions *repository.InteractionRepository
	questions    *repository.QuestionRepository
	users        *repository.UserRepository
}

func NewReportUsecase(
	sessions *repository.SessionRepository,
	interactions *repository.InteractionRepository,
	questions *repository.QuestionRepository,
	users *repository.UserRepository,
) *ReportUsecase {
	return &ReportUsecase{sessions: sessions, interactions: interactions, questions: questions, users: users}
}

// ListInterviews returns one page of session summaries, newest first, with
// totals over all sessions.
func (uc *ReportUsecase) ListInterviews(ctx context.Context, f dto.InterviewFilter) (*dto.InterviewList, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	f.PageSize = min(f.PageSize, MaxPageSize)

	rows, total, err := uc.sessions.List(ctx, repository.SessionFilter{
		Candidate:   f.Candidate,
		Interviewer: f.Interviewer,
		Position:    f.Position,
		Result:      f.Result,
		Offset:      (f.Page - 1) * f.PageSize,
		Limit:       f.PageSize,
	})
	if err != nil {
		return nil, err
	}
	totals, err := uc.sessions.Totals(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.InterviewItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, interviewItem(r))
	}
	return &dto.InterviewList{
		Items:      items,
		Totals:     dto.InterviewTotals{Total: totals.Total, Pass: totals.Pass, Fail: totals.Fail},
		Pagination: response.NewPagination(f.Page, f.PageSize, total, len(items)),
	}, nil
}

// InterviewDetail returns the stored summary of a session with its questions.
func (uc *ReportUsecase) InterviewDetail(ctx context.Context, sessionID string) (*dto.InterviewDetail, error) {
	row, err := uc.sessions.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	interactions, err := uc.interactions.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	questions, err := uc.questionItems(ctx, interactions)
	if err != nil {
		return nil, err
	}
	return &dto.InterviewDetail{
		InterviewItem: interviewItem(*row),
		Strengths:     row.Strengths,
		Weaknesses:    row.Weaknesses,
		Summary:       row.Summary,
		Questions:     questions,
	}, nil
}

// SessionReport recomputes the totals of a session from its interactions.
func (uc *ReportUsecase) SessionReport(ctx context.Context, sessionID string) (*dto.SessionReport, error) {
	interactions, err := uc.interactions.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(interactions) == 0 {
		return nil, repository.ErrNotFound
	}
	questions, err := uc.questionItems(ctx, interactions)
	if err != nil {
		return nil, err
	}

	report := &dto.SessionReport{
		SessionID:      sessionID,
		TotalQuestions: len(interactions),
		Questions:      questions,
	}
	var sum float64
	var scored int
	for _, i := range interactions {
		if i.IsPassed {
			report.PassedCount++
		}
		if i.GradingScore != nil {
			sum += *i.GradingScore
			scored++
		}
	}
	report.PassRate = percent(int64(report.PassedCount), int64(report.TotalQuestions))
	if scored > 0 {
		report.AverageScore = round2(sum / float64(scored))
	}
	return report, nil
}

func (uc *ReportUsecase) CandidateReport(ctx context.Context, candidateID uint) (*dto.CandidateReport, error) {
	user, err := uc.users.FindByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	stats, err := uc.interactions.Stats(ctx, &candidateID)
	if err != nil {
		return nil, err
	}
	interactions, err := uc.interactions.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	items, err := uc.questionItems(ctx, interactions)
	if err != nil {
		return nil, err
	}
	return &dto.CandidateReport{
		CandidateID:  user.ID,
		Name:         user.Name,
		Total:        stats.Total,
		Passed:       stats.Passed,
		PassRate:     percent(stats.Passed, stats.Total),
		AverageScore: round2(stats.AverageScore),
		Interactions: items,
	}, nil
}

func (uc *ReportUsecase) Statistics(ctx context.Context) (*dto.Statistics, error) {
	questions, err := uc.questions.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := uc.interactions.Stats(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &dto.Statistics{
		TotalQuestions:    questions,
		TotalInteractions: stats.Total,
		TotalCandidates:   stats.Candidates,
		Passed:            stats.Passed,
		PassRate:          percent(stats.Passed, stats.Total),
		AverageScore:      round2(stats.AverageScore),
	}, nil
}

// questionItems shows the corpus question name for linked interactions and
// the summarized text otherwise.
func (uc *ReportUsecase) questionItems(ctx context.Context, interactions []model.Interaction) ([]dto.QuestionItem, error) {
	var ids []uint
	for _, i := range interactions {
		if i.QuestionID != nil {
			ids = append(ids, *i.QuestionID)
		}
	}
	linked, err := uc.questions.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]dto.QuestionItem, 0, len(interactions))
	for _, i := range interactions {
		text := i.QuestionSummarized
		if i.QuestionID != nil {
			if q, ok := linked[*i.QuestionID]; ok {
				text = q.Name
			}
		}
		items = append(items, dto.QuestionItem{
			InteractionID:    i.ID,
			QuestionID:       i.QuestionID,
			Question:         text,
			CandidateAnswer:  i.AnswerOriginal,
			ReferenceAnswer:  i.FinalAnswer,
			AnswerSource:     i.AnswerSource,
			SimilarityScore:  i.SimilarityScore,
			Score:            i.GradingScore,
			Passed:           i.IsPassed,
			Feedback:         i.Feedback,
			ProcessingTimeMs: i.ProcessingTimeMs,
		})
	}
	return items, nil
}

func interviewItem(r repository.SessionRow) dto.InterviewItem {
	return dto.InterviewItem{
		SessionID:       r.SessionID,
		CandidateID:     r.CandidateID,
		CandidateName:   r.CandidateName,
		InterviewerName: r.InterviewerName,
		Position:        r.Position,
		TotalQuestions:  r.TotalQuestions,
		PassedQuestions: r.PassedQuestions,
		AverageScore:    r.AverageScore,
		OverallResult:   r.OverallResult,
		CreatedAt:       r.CreatedAt,
	}
}

func percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
