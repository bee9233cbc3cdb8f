package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
	"github.com/Piyushgeek-gupta/Code-Alchemists/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeParticipantRepo struct {
	participants map[int]*models.Participant
	nextID       int
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{participants: make(map[int]*models.Participant), nextID: 1}
}

func (f *fakeParticipantRepo) Create(ctx context.Context, p *models.Participant) error {
	for _, existing := range f.participants {
		if existing.UserID == p.UserID {
			return repositories.ErrParticipantConflict
		}
	}
	p.ID = f.nextID
	f.nextID++
	f.participants[p.ID] = p
	return nil
}

func (f *fakeParticipantRepo) FindByID(ctx context.Context, id int) (*models.Participant, error) {
	p, ok := f.participants[id]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeParticipantRepo) FindByUserID(ctx context.Context, userID int) (*models.Participant, error) {
	for _, p := range f.participants {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrParticipantNotFound
}

func (f *fakeParticipantRepo) GetScore(ctx context.Context, id int) (int, error) {
	p, ok := f.participants[id]
	if !ok {
		return 0, repositories.ErrParticipantNotFound
	}
	return p.Score, nil
}

func (f *fakeParticipantRepo) SetLanguageIfUnset(ctx context.Context, userID int, lang models.Language) error {
	for _, p := range f.participants {
		if p.UserID == userID && p.SelectedLanguage == nil {
			l := lang
			p.SelectedLanguage = &l
		}
	}
	return nil
}

func (f *fakeParticipantRepo) ResetLanguage(ctx context.Context, id int) error {
	p, ok := f.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	p.SelectedLanguage = nil
	return nil
}

func (f *fakeParticipantRepo) SetBlocked(ctx context.Context, id int, blocked bool) error {
	p, ok := f.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	p.IsBlocked = blocked
	return nil
}

func (f *fakeParticipantRepo) ResetProgress(ctx context.Context, id int) error {
	p, ok := f.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	p.Score = 0
	p.CompletedAt = nil
	p.TimeTakenSeconds = 0
	return nil
}

func (f *fakeParticipantRepo) Complete(ctx context.Context, id int) error {
	if _, ok := f.participants[id]; !ok {
		return repositories.ErrParticipantNotFound
	}
	return nil
}

func (f *fakeParticipantRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.participants[id]; !ok {
		return repositories.ErrParticipantNotFound
	}
	delete(f.participants, id)
	return nil
}

func (f *fakeParticipantRepo) ListWithDetails(ctx context.Context) ([]*models.Participant, error) {
	out := make([]*models.Participant, 0, len(f.participants))
	for _, p := range f.participants {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeParticipantRepo) Leaderboard(ctx context.Context, contestID *int, limit int) ([]*models.LeaderboardEntry, error) {
	return nil, nil
}

func (f *fakeParticipantRepo) Count(ctx context.Context, filter repositories.ParticipantCountFilter) (int, error) {
	return len(f.participants), nil
}

func (f *fakeParticipantRepo) AverageScore(ctx context.Context) (float64, error) {
	return 0, nil
}

// fakeSubmissionRepo воспроизводит семантику частичного уникального индекса:
// вторая correct-строка для пары отклоняется без изменения счёта.
type fakeSubmissionRepo struct {
	participants *fakeParticipantRepo
	correct      map[string]bool
	attempts     []*models.Submission
	awardErr     error
}

func newFakeSubmissionRepo(participants *fakeParticipantRepo) *fakeSubmissionRepo {
	return &fakeSubmissionRepo{
		participants: participants,
		correct:      make(map[string]bool),
	}
}

func pairKey(participantID int, questionID *int) string {
	if questionID == nil {
		return ""
	}
	return fmt.Sprintf("%d:%d", participantID, *questionID)
}

func (f *fakeSubmissionRepo) HasCorrect(ctx context.Context, participantID, questionID int) (bool, error) {
	return f.correct[pairKey(participantID, &questionID)], nil
}

func (f *fakeSubmissionRepo) AwardCorrect(ctx context.Context, sub *models.Submission) (int, error) {
	if f.awardErr != nil {
		return 0, f.awardErr
	}
	key := pairKey(sub.ParticipantID, sub.QuestionID)
	if key != "" && f.correct[key] {
		return 0, repositories.ErrSubmissionAlreadySolved
	}
	p, ok := f.participants.participants[sub.ParticipantID]
	if !ok {
		return 0, repositories.ErrParticipantNotFound
	}
	if key != "" {
		f.correct[key] = true
	}
	p.Score += sub.PointsAwarded
	sub.Status = models.SubmissionStatusCorrect
	f.attempts = append(f.attempts, sub)
	return p.Score, nil
}

func (f *fakeSubmissionRepo) CreateAttempt(ctx context.Context, sub *models.Submission) error {
	f.attempts = append(f.attempts, sub)
	return nil
}

func (f *fakeSubmissionRepo) ListRecent(ctx context.Context, limit int) ([]*models.Submission, error) {
	return f.attempts, nil
}

func (f *fakeSubmissionRepo) Count(ctx context.Context, status *models.SubmissionStatus) (int, error) {
	return len(f.attempts), nil
}

type fakeProfileRepo struct {
	profiles map[string]*models.Profile // по email
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*models.Profile)}
}

func (f *fakeProfileRepo) Create(ctx context.Context, p *models.Profile) error {
	f.profiles[p.Email] = p
	return nil
}

func (f *fakeProfileRepo) FindByUserID(ctx context.Context, userID int) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

func (f *fakeProfileRepo) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	p, ok := f.profiles[email]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) DeleteByUserID(ctx context.Context, userID int) error {
	for email, p := range f.profiles {
		if p.UserID == userID {
			delete(f.profiles, email)
			return nil
		}
	}
	return repositories.ErrProfileNotFound
}

type fakeAuditRepo struct {
	entries []*models.SubmissionAuditLog
}

func (f *fakeAuditRepo) Create(ctx context.Context, entry *models.SubmissionAuditLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) ListRecent(ctx context.Context, limit int) ([]*models.SubmissionAuditLog, error) {
	return f.entries, nil
}

type fakeNotifier struct {
	calls []int // новые значения счёта в порядке вызовов
}

func (f *fakeNotifier) ScoreChanged(ctx context.Context, participantID, newScore int) {
	f.calls = append(f.calls, newScore)
}

type scoringFixture struct {
	participants *fakeParticipantRepo
	submissions  *fakeSubmissionRepo
	profiles     *fakeProfileRepo
	audit        *fakeAuditRepo
	notifier     *fakeNotifier
	service      ScoringService
}

func newScoringFixture(logDuplicates bool) *scoringFixture {
	participants := newFakeParticipantRepo()
	submissions := newFakeSubmissionRepo(participants)
	profiles := newFakeProfileRepo()
	audit := &fakeAuditRepo{}
	notifier := &fakeNotifier{}
	return &scoringFixture{
		participants: participants,
		submissions:  submissions,
		profiles:     profiles,
		audit:        audit,
		notifier:     notifier,
		service: NewScoringService(participants, submissions, profiles, audit,
			notifier, testLogger(), logDuplicates),
	}
}

func (fx *scoringFixture) addParticipant(userID int) *models.Participant {
	p := &models.Participant{UserID: userID}
	if err := fx.participants.Create(context.Background(), p); err != nil {
		panic(err)
	}
	return p
}

func intPtr(v int) *int { return &v }

func TestSubmitAwardsPointsOnce(t *testing.T) {
	fx := newScoringFixture(false)
	p := fx.addParticipant(10)

	input := SubmitInput{
		ParticipantID: p.ID,
		QuestionID:    intPtr(7),
		Points:        intPtr(50),
		SubmittedCode: "print('fixed')",
	}

	first, err := fx.service.Submit(context.Background(), input)
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if first.AlreadySolved {
		t.Fatal("first submit reported already_solved")
	}
	if first.NewScore != 50 {
		t.Fatalf("expected score 50, got %d", first.NewScore)
	}

	second, err := fx.service.Submit(context.Background(), input)
	if err != nil {
		t.Fatalf("second submit failed: %v", err)
	}
	if !second.AlreadySolved {
		t.Fatal("second submit did not report already_solved")
	}
	if second.NewScore != 50 {
		t.Fatalf("duplicate submit changed score: got %d, want 50", second.NewScore)
	}

	if len(fx.notifier.calls) != 1 {
		t.Fatalf("expected 1 leaderboard notification, got %d", len(fx.notifier.calls))
	}
	if len(fx.audit.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(fx.audit.entries))
	}
}

func TestSubmitRaceLoserGetsAlreadySolved(t *testing.T) {
	fx := newScoringFixture(false)
	p := fx.addParticipant(10)
	fx.participants.participants[p.ID].Score = 50

	// HasCorrect промахнулся, но индекс отклонил вставку: точный сценарий
	// проигравшего гонку.
	fx.submissions.awardErr = repositories.ErrSubmissionAlreadySolved

	result, err := fx.service.Submit(context.Background(), SubmitInput{
		ParticipantID: p.ID,
		QuestionID:    intPtr(7),
		Points:        intPtr(50),
	})
	if err != nil {
		t.Fatalf("race loser got error instead of already_solved: %v", err)
	}
	if !result.AlreadySolved {
		t.Fatal("race loser not reported as already_solved")
	}
	if result.NewScore != 50 {
		t.Fatalf("race loser saw wrong score: got %d, want 50", result.NewScore)
	}
	if len(fx.notifier.calls) != 0 {
		t.Fatal("race loser must not trigger leaderboard notification")
	}
}

func TestSubmitRequiresPoints(t *testing.T) {
	fx := newScoringFixture(false)
	p := fx.addParticipant(10)

	for name, points := range map[string]*int{"missing": nil, "negative": intPtr(-5)} {
		_, err := fx.service.Submit(context.Background(), SubmitInput{
			ParticipantID: p.ID,
			QuestionID:    intPtr(1),
			Points:        points,
		})
		if err != ErrPointsRequired {
			t.Fatalf("%s points: expected ErrPointsRequired, got %v", name, err)
		}
	}
}

func TestSubmitUnresolvedIdentity(t *testing.T) {
	fx := newScoringFixture(false)

	_, err := fx.service.Submit(context.Background(), SubmitInput{
		Points:     intPtr(10),
		QuestionID: intPtr(1),
	})
	if err != ErrParticipantUnresolved {
		t.Fatalf("expected ErrParticipantUnresolved, got %v", err)
	}

	_, err = fx.service.Submit(context.Background(), SubmitInput{
		Email:      "nobody@example.com",
		Points:     intPtr(10),
		QuestionID: intPtr(1),
	})
	if err != ErrParticipantUnresolved {
		t.Fatalf("unknown email: expected ErrParticipantUnresolved, got %v", err)
	}
}

func TestSubmitBlockedParticipant(t *testing.T) {
	fx := newScoringFixture(false)
	p := fx.addParticipant(10)
	fx.participants.participants[p.ID].IsBlocked = true

	_, err := fx.service.Submit(context.Background(), SubmitInput{
		ParticipantID: p.ID,
		QuestionID:    intPtr(1),
		Points:        intPtr(10),
	})
	if err != ErrParticipantBlocked {
		t.Fatalf("expected ErrParticipantBlocked, got %v", err)
	}
}

func TestSubmitCreatesParticipantOnFirstContact(t *testing.T) {
	fx := newScoringFixture(false)
	fx.profiles.Create(context.Background(), &models.Profile{UserID: 42, Email: "new@example.com", FullName: "New One"})

	result, err := fx.service.Submit(context.Background(), SubmitInput{
		Email:            "new@example.com",
		QuestionID:       intPtr(3),
		Points:           intPtr(20),
		SelectedLanguage: "python",
	})
	if err != nil {
		t.Fatalf("first contact submit failed: %v", err)
	}
	if result.NewScore != 20 {
		t.Fatalf("expected score 20, got %d", result.NewScore)
	}

	p, err := fx.participants.FindByUserID(context.Background(), 42)
	if err != nil {
		t.Fatalf("participant was not created: %v", err)
	}
	if p.SelectedLanguage == nil || *p.SelectedLanguage != models.LanguagePython {
		t.Fatalf("participant language not set from submit: %+v", p.SelectedLanguage)
	}
}

func TestSubmitDuplicateLoggingPolicy(t *testing.T) {
	fx := newScoringFixture(true)
	p := fx.addParticipant(10)

	input := SubmitInput{
		ParticipantID: p.ID,
		QuestionID:    intPtr(7),
		Points:        intPtr(50),
		SubmittedCode: "attempt",
	}
	if _, err := fx.service.Submit(context.Background(), input); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if _, err := fx.service.Submit(context.Background(), input); err != nil {
		t.Fatalf("second submit failed: %v", err)
	}

	// correct + нулевая pending-попытка
	if len(fx.submissions.attempts) != 2 {
		t.Fatalf("expected 2 stored submissions, got %d", len(fx.submissions.attempts))
	}
	dup := fx.submissions.attempts[1]
	if dup.Status != models.SubmissionStatusPending || dup.PointsAwarded != 0 {
		t.Fatalf("duplicate attempt stored incorrectly: status=%s points=%d", dup.Status, dup.PointsAwarded)
	}
	if len(fx.audit.entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(fx.audit.entries))
	}
}

func TestSubmitWithoutQuestionBypassesIdempotency(t *testing.T) {
	fx := newScoringFixture(false)
	p := fx.addParticipant(10)

	input := SubmitInput{
		ParticipantID: p.ID,
		Points:        intPtr(10),
	}
	for i := 1; i <= 3; i++ {
		result, err := fx.service.Submit(context.Background(), input)
		if err != nil {
			t.Fatalf("submit %d failed: %v", i, err)
		}
		if result.AlreadySolved {
			t.Fatalf("submit %d without question reported already_solved", i)
		}
		if result.NewScore != 10*i {
			t.Fatalf("submit %d: expected score %d, got %d", i, 10*i, result.NewScore)
		}
	}
}

func TestSubmitAppendsClientTimerToCode(t *testing.T) {
	fx := newScoringFixture(false)
	p := fx.addParticipant(10)

	_, err := fx.service.Submit(context.Background(), SubmitInput{
		ParticipantID:   p.ID,
		QuestionID:      intPtr(1),
		Points:          intPtr(5),
		SubmittedCode:   "fixed()",
		TimeLeftSeconds: intPtr(90),
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	stored := fx.submissions.attempts[0].SubmittedCode
	if !strings.Contains(stored, "# time_left_seconds=90") {
		t.Fatalf("client timer not recorded in submitted code: %q", stored)
	}
}
