package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
	"github.com/Piyushgeek-gupta/Code-Alchemists/repositories"
)

type fakeUserRepo struct {
	users     map[int]*models.User
	deleteErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

type participantFixture struct {
	participants *fakeParticipantRepo
	profiles     *fakeProfileRepo
	users        *fakeUserRepo
	notifier     *fakeNotifier
	service      ParticipantService
}

func newParticipantFixture() *participantFixture {
	participants := newFakeParticipantRepo()
	profiles := newFakeProfileRepo()
	users := newFakeUserRepo()
	notifier := &fakeNotifier{}
	return &participantFixture{
		participants: participants,
		profiles:     profiles,
		users:        users,
		notifier:     notifier,
		service:      NewParticipantService(participants, profiles, users, notifier, testLogger()),
	}
}

func TestSelectLanguageIsSetOnce(t *testing.T) {
	fx := newParticipantFixture()
	p := &models.Participant{UserID: 10}
	fx.participants.Create(context.Background(), p)

	if err := fx.service.SelectLanguage(context.Background(), SelectLanguageInput{UserID: 10, Language: "python"}); err != nil {
		t.Fatalf("first select failed: %v", err)
	}

	// Повторный выбор другого языка — успешный no-op.
	if err := fx.service.SelectLanguage(context.Background(), SelectLanguageInput{UserID: 10, Language: "java"}); err != nil {
		t.Fatalf("second select failed: %v", err)
	}

	got, _ := fx.participants.FindByUserID(context.Background(), 10)
	if got.SelectedLanguage == nil || *got.SelectedLanguage != models.LanguagePython {
		t.Fatalf("language changed after second select: %+v", got.SelectedLanguage)
	}
}

func TestSelectLanguageValidation(t *testing.T) {
	fx := newParticipantFixture()

	err := fx.service.SelectLanguage(context.Background(), SelectLanguageInput{UserID: 10, Language: "rust"})
	if err != ErrInvalidLanguage {
		t.Fatalf("expected ErrInvalidLanguage, got %v", err)
	}

	err = fx.service.SelectLanguage(context.Background(), SelectLanguageInput{Language: "python"})
	if err != ErrUserIdentityRequired {
		t.Fatalf("expected ErrUserIdentityRequired, got %v", err)
	}
}

func TestSelectLanguageByEmail(t *testing.T) {
	fx := newParticipantFixture()
	fx.profiles.Create(context.Background(), &models.Profile{UserID: 42, Email: "p@example.com"})
	fx.participants.Create(context.Background(), &models.Participant{UserID: 42})

	if err := fx.service.SelectLanguage(context.Background(), SelectLanguageInput{Email: "p@example.com", Language: "c"}); err != nil {
		t.Fatalf("select by email failed: %v", err)
	}
	got, _ := fx.participants.FindByUserID(context.Background(), 42)
	if got.SelectedLanguage == nil || *got.SelectedLanguage != models.LanguageC {
		t.Fatalf("language not set via email resolution: %+v", got.SelectedLanguage)
	}
}

func TestFinishContestUnknownParticipant(t *testing.T) {
	fx := newParticipantFixture()

	_, err := fx.service.FinishContest(context.Background(), 99)
	if err != ErrParticipantNotFound {
		t.Fatalf("expected ErrParticipantNotFound, got %v", err)
	}
}

func TestToggleBlockFlips(t *testing.T) {
	fx := newParticipantFixture()
	p := &models.Participant{UserID: 10}
	fx.participants.Create(context.Background(), p)

	blocked, err := fx.service.ToggleBlock(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !blocked {
		t.Fatal("expected participant to become blocked")
	}

	blocked, err = fx.service.ToggleBlock(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if blocked {
		t.Fatal("expected participant to become unblocked")
	}
}

func TestResetProgressNotifiesLeaderboard(t *testing.T) {
	fx := newParticipantFixture()
	p := &models.Participant{UserID: 10, Score: 70}
	fx.participants.Create(context.Background(), p)

	if err := fx.service.ResetProgress(context.Background(), p.ID); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	got, _ := fx.participants.FindByID(context.Background(), p.ID)
	if got.Score != 0 {
		t.Fatalf("score not reset: %d", got.Score)
	}
	if len(fx.notifier.calls) != 1 || fx.notifier.calls[0] != 0 {
		t.Fatalf("expected one notification with score 0, got %v", fx.notifier.calls)
	}
}

func TestRemoveParticipantIdentityFailureIsWarning(t *testing.T) {
	fx := newParticipantFixture()
	p := &models.Participant{UserID: 42}
	fx.participants.Create(context.Background(), p)
	fx.profiles.Create(context.Background(), &models.Profile{UserID: 42, Email: "p@example.com"})
	fx.users.Create(context.Background(), &models.User{ID: 42, Email: "p@example.com"})
	fx.users.deleteErr = errors.New("identity provider unavailable")

	warning, err := fx.service.RemoveParticipant(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("remove returned error instead of warning: %v", err)
	}
	if warning == "" {
		t.Fatal("expected warning about identity deletion failure")
	}

	if _, err := fx.participants.FindByID(context.Background(), p.ID); err != repositories.ErrParticipantNotFound {
		t.Fatal("participant row not deleted")
	}
	if _, err := fx.profiles.FindByEmail(context.Background(), "p@example.com"); err != repositories.ErrProfileNotFound {
		t.Fatal("profile not deleted")
	}
}

func TestRemoveParticipantFull(t *testing.T) {
	fx := newParticipantFixture()
	p := &models.Participant{UserID: 42}
	fx.participants.Create(context.Background(), p)
	fx.profiles.Create(context.Background(), &models.Profile{UserID: 42, Email: "p@example.com"})
	fx.users.Create(context.Background(), &models.User{ID: 42, Email: "p@example.com"})

	warning, err := fx.service.RemoveParticipant(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if warning != "" {
		t.Fatalf("unexpected warning: %q", warning)
	}
	if len(fx.users.users) != 0 {
		t.Fatal("user account not deleted")
	}
}
