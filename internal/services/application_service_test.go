package services

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/orange-studies/portal-service/internal/cache"
	"github.com/orange-studies/portal-service/internal/events"
	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// spyCache records invalidation calls on top of a cache that always misses.
type spyCache struct {
	mu              sync.Mutex
	setKeys         []string
	deletedKeys     []string
	deletedPatterns []string
}

func (s *spyCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setKeys = append(s.setKeys, key)
	return nil
}

func (s *spyCache) Get(ctx context.Context, key string, dest interface{}) error {
	return cache.ErrCacheMiss
}

func (s *spyCache) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletedKeys = append(s.deletedKeys, key)
	return nil
}

func (s *spyCache) DeletePattern(ctx context.Context, pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletedPatterns = append(s.deletedPatterns, pattern)
	return nil
}

type applicationFixture struct {
	repo      *MockRepository
	cache     *spyCache
	publisher *events.MockEventPublisher
	service   ApplicationService
}

func newApplicationFixture() *applicationFixture {
	repo := NewMockRepository()
	spy := &spyCache{}
	publisher := events.NewMockEventPublisher()
	service := NewApplicationService(repo, spy, publisher, utils.NewValidator(), newTestLogger())
	return &applicationFixture{repo: repo, cache: spy, publisher: publisher, service: service}
}

func student() *models.User {
	return &models.User{ID: "student-1", Email: "s@x.com", Role: models.RoleStudent}
}

func manager() *models.User {
	return &models.User{ID: "mgr-1", Email: "m@x.com", Role: models.RoleManager}
}

func TestApplicationService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("creates application with six timeline rows and four documents", func(t *testing.T) {
		f := newApplicationFixture()
		program := &models.Program{ID: 42, Title: "MSc CS"}

		f.repo.program.On("GetByID", ctx, uint(42)).Return(program, nil)
		f.repo.application.On("ExistsForUserAndProgram", ctx, "student-1", uint(42)).Return(false, nil)
		f.repo.application.On("Create", ctx, mock.MatchedBy(func(a *models.Application) bool {
			a.ID = 100
			return a.Status == models.StatusSubmitted && a.Progress == 15 &&
				regexp.MustCompile(`^OS-\d{4}-[0-9A-F]{6}$`).MatchString(a.RefCode)
		})).Return(nil)

		var timeline []*models.TimelineEntry
		f.repo.timeline.On("CreateBatch", ctx, mock.MatchedBy(func(entries []*models.TimelineEntry) bool {
			timeline = entries
			return len(entries) == 6
		})).Return(nil)

		var docs []*models.Document
		f.repo.document.On("CreateBatch", ctx, mock.MatchedBy(func(d []*models.Document) bool {
			docs = d
			return len(d) == 4
		})).Return(nil)

		f.repo.application.On("GetByIDWithDetails", ctx, uint(100)).
			Return(&models.Application{ID: 100, RefCode: "OS-2026-ABCDEF"}, nil)

		// passport and sop supplied, sop with an empty URL; the other two
		// slots were left out entirely.
		_, err := f.service.Submit(ctx, student(), &SubmitApplicationRequest{
			ProgramID:    42,
			DocumentURLs: map[string]string{"passport": "https://cdn/p.pdf", "sop": ""},
		})
		require.NoError(t, err)

		// First step done and dated, second active, rest untouched.
		require.Len(t, timeline, 6)
		assert.True(t, timeline[0].Done)
		assert.NotEmpty(t, timeline[0].DateLabel)
		assert.True(t, timeline[1].Active)
		for i, entry := range timeline {
			assert.Equal(t, i+1, entry.SortOrder)
			assert.Equal(t, models.TimelineSteps[i], entry.Step)
			if i >= 2 {
				assert.False(t, entry.Done)
				assert.False(t, entry.Active)
			}
		}

		// Present key means PENDING even with an empty URL; absent is MISSING.
		byName := map[string]*models.Document{}
		for _, d := range docs {
			byName[d.ExpectedFile] = d
		}
		assert.Equal(t, models.DocumentPending, byName["passport.pdf"].Status)
		assert.Equal(t, models.DocumentPending, byName["sop.pdf"].Status)
		assert.Equal(t, models.DocumentMissing, byName["transcripts.pdf"].Status)
		assert.Equal(t, models.DocumentMissing, byName["ielts.pdf"].Status)

		// Post-commit effects.
		assert.Contains(t, f.cache.deletedKeys, cache.KeyStudentDashboard+"student-1")
		assert.Contains(t, f.cache.deletedKeys, cache.KeyAdminDashboard)
		require.Len(t, f.publisher.Events, 1)
		assert.Equal(t, events.ApplicationSubmitted, f.publisher.Events[0].Type)

		f.repo.AssertExpectations(t)
	})

	t.Run("duplicate application rejected", func(t *testing.T) {
		f := newApplicationFixture()
		f.repo.program.On("GetByID", ctx, uint(42)).Return(&models.Program{ID: 42}, nil)
		f.repo.application.On("ExistsForUserAndProgram", ctx, "student-1", uint(42)).Return(true, nil)

		_, err := f.service.Submit(ctx, student(), &SubmitApplicationRequest{ProgramID: 42})
		assert.ErrorIs(t, err, ErrAlreadyApplied)
		assert.Empty(t, f.publisher.Events)
	})

	t.Run("duplicate race caught at insert", func(t *testing.T) {
		f := newApplicationFixture()
		f.repo.program.On("GetByID", ctx, uint(42)).Return(&models.Program{ID: 42}, nil)
		f.repo.application.On("ExistsForUserAndProgram", ctx, "student-1", uint(42)).Return(false, nil)
		f.repo.application.On("Create", ctx, mock.Anything).Return(gorm.ErrDuplicatedKey)

		_, err := f.service.Submit(ctx, student(), &SubmitApplicationRequest{ProgramID: 42})
		assert.ErrorIs(t, err, ErrAlreadyApplied)
	})

	t.Run("unknown program", func(t *testing.T) {
		f := newApplicationFixture()
		f.repo.program.On("GetByID", ctx, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		_, err := f.service.Submit(ctx, student(), &SubmitApplicationRequest{ProgramID: 99})
		assert.ErrorIs(t, err, ErrProgramNotFound)
	})

	t.Run("staff cannot submit", func(t *testing.T) {
		f := newApplicationFixture()
		_, err := f.service.Submit(ctx, manager(), &SubmitApplicationRequest{ProgramID: 42})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestApplicationService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("advances funnel and audits", func(t *testing.T) {
		f := newApplicationFixture()
		existing := &models.Application{ID: 5, UserID: "student-1", RefCode: "OS-2026-AAAAAA", Status: models.StatusSubmitted, Progress: 15}

		f.repo.application.On("GetByID", ctx, uint(5)).Return(existing, nil)
		f.repo.application.On("UpdateStatus", ctx, uint(5), models.StatusOfferReceived, 55).Return(nil)
		f.repo.timeline.On("SetStage", ctx, uint(5), 4).Return(nil)
		f.repo.audit.On("Create", ctx, mock.MatchedBy(func(entry *models.AuditLog) bool {
			return entry.ApplicationID == 5 &&
				entry.Action == models.AuditStatusChanged &&
				entry.ActorEmail == "m@x.com"
		})).Return(nil)
		f.repo.application.On("GetByIDWithDetails", ctx, uint(5)).
			Return(&models.Application{ID: 5, Status: models.StatusOfferReceived}, nil)

		updated, err := f.service.UpdateStatus(ctx, manager(), 5, &UpdateStatusRequest{Status: models.StatusOfferReceived})
		require.NoError(t, err)
		assert.Equal(t, models.StatusOfferReceived, updated.Status)

		assert.Contains(t, f.cache.deletedKeys, cache.KeyStudentDashboard+"student-1")
		require.Len(t, f.publisher.Events, 1)
		assert.Equal(t, events.ApplicationStatusChanged, f.publisher.Events[0].Type)
		assert.Equal(t, "SUBMITTED", f.publisher.Events[0].Payload["old_status"])
		assert.Equal(t, "OFFER_RECEIVED", f.publisher.Events[0].Payload["new_status"])

		f.repo.AssertExpectations(t)
	})

	t.Run("enrollment completes the funnel", func(t *testing.T) {
		f := newApplicationFixture()
		existing := &models.Application{ID: 5, UserID: "student-1", Status: models.StatusVisaProcessing, Progress: 85}

		f.repo.application.On("GetByID", ctx, uint(5)).Return(existing, nil)
		f.repo.application.On("UpdateStatus", ctx, uint(5), models.StatusEnrolled, 100).Return(nil)
		// Stage 7 is past the last step, so all six read as done.
		f.repo.timeline.On("SetStage", ctx, uint(5), 7).Return(nil)
		f.repo.audit.On("Create", ctx, mock.Anything).Return(nil)
		f.repo.application.On("GetByIDWithDetails", ctx, uint(5)).
			Return(&models.Application{ID: 5, Status: models.StatusEnrolled, Progress: 100}, nil)

		updated, err := f.service.UpdateStatus(ctx, manager(), 5, &UpdateStatusRequest{Status: models.StatusEnrolled})
		require.NoError(t, err)
		assert.Equal(t, 100, updated.Progress)
		f.repo.AssertExpectations(t)
	})

	t.Run("rejection freezes the funnel", func(t *testing.T) {
		f := newApplicationFixture()
		existing := &models.Application{ID: 5, UserID: "student-1", Status: models.StatusUnderReview, Progress: 30}

		f.repo.application.On("GetByID", ctx, uint(5)).Return(existing, nil)
		f.repo.application.On("UpdateStatus", ctx, uint(5), models.StatusRejected, 0).Return(nil)
		f.repo.audit.On("Create", ctx, mock.Anything).Return(nil)
		f.repo.application.On("GetByIDWithDetails", ctx, uint(5)).
			Return(&models.Application{ID: 5, Status: models.StatusRejected}, nil)

		_, err := f.service.UpdateStatus(ctx, manager(), 5, &UpdateStatusRequest{Status: models.StatusRejected})
		require.NoError(t, err)

		// No SetStage expectation was registered; AssertExpectations would
		// fail if the service had called it.
		f.repo.AssertExpectations(t)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		f := newApplicationFixture()
		existing := &models.Application{ID: 5, Status: models.StatusUnderReview}
		f.repo.application.On("GetByID", ctx, uint(5)).Return(existing, nil)
		f.repo.application.On("GetByIDWithDetails", ctx, uint(5)).Return(existing, nil)

		_, err := f.service.UpdateStatus(ctx, manager(), 5, &UpdateStatusRequest{Status: models.StatusUnderReview})
		require.NoError(t, err)
		assert.Empty(t, f.publisher.Events)
		f.repo.AssertExpectations(t)
	})

	t.Run("invalid status", func(t *testing.T) {
		f := newApplicationFixture()
		_, err := f.service.UpdateStatus(ctx, manager(), 5, &UpdateStatusRequest{Status: "ON_HOLD"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("students cannot update status", func(t *testing.T) {
		f := newApplicationFixture()
		_, err := f.service.UpdateStatus(ctx, student(), 5, &UpdateStatusRequest{Status: models.StatusEnrolled})
		assert.True(t, IsForbidden(err))
	})
}

func TestApplicationService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("student reads own application", func(t *testing.T) {
		f := newApplicationFixture()
		f.repo.application.On("GetByIDWithDetails", ctx, uint(7)).
			Return(&models.Application{ID: 7, UserID: "student-1"}, nil)

		application, err := f.service.GetByID(ctx, student(), 7)
		require.NoError(t, err)
		assert.Equal(t, uint(7), application.ID)
	})

	t.Run("student blocked from another student's application", func(t *testing.T) {
		f := newApplicationFixture()
		f.repo.application.On("GetByIDWithDetails", ctx, uint(7)).
			Return(&models.Application{ID: 7, UserID: "someone-else"}, nil)

		_, err := f.service.GetByID(ctx, student(), 7)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("staff reads any application", func(t *testing.T) {
		f := newApplicationFixture()
		f.repo.application.On("GetByIDWithDetails", ctx, uint(7)).
			Return(&models.Application{ID: 7, UserID: "someone-else"}, nil)

		_, err := f.service.GetByID(ctx, manager(), 7)
		assert.NoError(t, err)
	})
}
