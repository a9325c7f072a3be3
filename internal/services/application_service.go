package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/orange-studies/portal-service/internal/authz"
	"github.com/orange-studies/portal-service/internal/cache"
	"github.com/orange-studies/portal-service/internal/events"
	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/repositories"
	"github.com/orange-studies/portal-service/internal/utils"
	"gorm.io/datatypes"
)

// ===== REQUEST TYPES =====

type SubmitApplicationRequest struct {
	ProgramID uint `json:"programId" validate:"required"`

	// Keyed by document slot (passport, transcripts, ielts, sop). A present
	// key means the student claims an upload for that slot, even when the
	// value is empty.
	DocumentURLs map[string]string `json:"documentUrls"`
}

type UpdateStatusRequest struct {
	Status models.ApplicationStatus `json:"status" validate:"required,application_status"`
	Note   string                   `json:"note" validate:"omitempty,max=1000"`
}

// ApplicationService owns the application lifecycle from submission through
// enrolment.
type ApplicationService interface {
	Submit(ctx context.Context, actor *models.User, req *SubmitApplicationRequest) (*models.Application, error)
	GetByID(ctx context.Context, actor *models.User, id uint) (*models.Application, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Application, error)
	List(ctx context.Context, actor *models.User, filters repositories.ApplicationFilters) ([]*models.Application, int64, error)
	UpdateStatus(ctx context.Context, actor *models.User, id uint, req *UpdateStatusRequest) (*models.Application, error)
	GetAuditTrail(ctx context.Context, actor *models.User, id uint) ([]*models.AuditLog, error)
}

type applicationService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	validator *utils.Validator
	logger    utils.Logger
}

func NewApplicationService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	validator *utils.Validator,
	logger utils.Logger,
) ApplicationService {
	return &applicationService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		validator: validator,
		logger:    logger,
	}
}

func (s *applicationService) Submit(ctx context.Context, actor *models.User, req *SubmitApplicationRequest) (*models.Application, error) {
	if actor == nil || actor.Role != models.RoleStudent {
		return nil, ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	program, err := s.repo.Program().GetByID(ctx, req.ProgramID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to load program: %w", err)
	}

	exists, err := s.repo.Application().ExistsForUserAndProgram(ctx, actor.ID, program.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}
	if exists {
		return nil, ErrAlreadyApplied
	}

	refCode, err := generateRefCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate reference code: %w", err)
	}

	application := &models.Application{
		UserID:    actor.ID,
		ProgramID: program.ID,
		RefCode:   refCode,
		Status:    models.StatusSubmitted,
		Progress:  models.StatusProgress[models.StatusSubmitted],
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Application().Create(ctx, application); err != nil {
			return err
		}
		if err := tx.Timeline().CreateBatch(ctx, buildTimeline(application.ID)); err != nil {
			return err
		}
		return tx.Document().CreateBatch(ctx, buildDocumentSlots(actor.ID, application.ID, req.DocumentURLs))
	})
	if err != nil {
		// The composite unique index closes the race between the existence
		// check and the insert.
		if repositories.IsDuplicateError(err) {
			return nil, ErrAlreadyApplied
		}
		return nil, fmt.Errorf("failed to submit application: %w", err)
	}

	s.invalidateDashboards(ctx, actor.ID)
	s.publish(ctx, events.ApplicationSubmitted, map[string]interface{}{
		"application_id": application.ID,
		"ref_code":       application.RefCode,
		"user_id":        actor.ID,
		"program_id":     program.ID,
	})

	s.logger.Info("Application submitted",
		"application_id", application.ID,
		"ref_code", application.RefCode,
		"user_id", actor.ID)

	return s.repo.Application().GetByIDWithDetails(ctx, application.ID)
}

func (s *applicationService) GetByID(ctx context.Context, actor *models.User, id uint) (*models.Application, error) {
	application, err := s.repo.Application().GetByIDWithDetails(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}

	// Students see only their own; staff see everything.
	if actor == nil || (!actor.Role.IsStaff() && application.UserID != actor.ID) {
		return nil, ErrForbidden
	}
	return application, nil
}

func (s *applicationService) ListByUser(ctx context.Context, userID string) ([]*models.Application, error) {
	applications, err := s.repo.Application().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return applications, nil
}

func (s *applicationService) List(ctx context.Context, actor *models.User, filters repositories.ApplicationFilters) ([]*models.Application, int64, error) {
	if err := authz.Require(actor, authz.AdminOrManager); err != nil {
		return nil, 0, err
	}
	return s.repo.Application().List(ctx, filters)
}

func (s *applicationService) UpdateStatus(ctx context.Context, actor *models.User, id uint, req *UpdateStatusRequest) (*models.Application, error) {
	if err := authz.Require(actor, authz.AdminOrManager); err != nil {
		return nil, err
	}
	if !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	application, err := s.repo.Application().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}

	oldStatus := application.Status
	if oldStatus == req.Status {
		return s.repo.Application().GetByIDWithDetails(ctx, id)
	}

	progress := models.StatusProgress[req.Status]
	changes := buildChanges(oldStatus, req.Status)

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Application().UpdateStatus(ctx, id, req.Status, progress); err != nil {
			return err
		}
		// REJECTED leaves the funnel untouched.
		if stage, ok := models.StatusStage[req.Status]; ok {
			if err := tx.Timeline().SetStage(ctx, id, stage); err != nil {
				return err
			}
		}
		return tx.Audit().Create(ctx, &models.AuditLog{
			ApplicationID: id,
			ActorEmail:    actor.Email,
			Action:        models.AuditStatusChanged,
			Details:       req.Note,
			Changes:       changes,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	s.invalidateDashboards(ctx, application.UserID)
	s.publish(ctx, events.ApplicationStatusChanged, map[string]interface{}{
		"application_id": id,
		"ref_code":       application.RefCode,
		"old_status":     string(oldStatus),
		"new_status":     string(req.Status),
		"actor":          actor.Email,
	})

	s.logger.Info("Application status updated",
		"application_id", id,
		"old_status", oldStatus,
		"new_status", req.Status,
		"actor", actor.Email)

	return s.repo.Application().GetByIDWithDetails(ctx, id)
}

func (s *applicationService) GetAuditTrail(ctx context.Context, actor *models.User, id uint) ([]*models.AuditLog, error) {
	if err := authz.Require(actor, authz.AdminOrManager); err != nil {
		return nil, err
	}
	entries, err := s.repo.Audit().GetByApplication(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit trail: %w", err)
	}
	return entries, nil
}

// ===== HELPERS =====

func (s *applicationService) invalidateDashboards(ctx context.Context, userID string) {
	if err := s.cache.Delete(ctx, cache.KeyStudentDashboard+userID); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", "user_id", userID, "error", err)
	}
	if err := s.cache.Delete(ctx, cache.KeyAdminDashboard); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", "error", err)
	}
}

func (s *applicationService) publish(ctx context.Context, eventType events.EventType, payload map[string]interface{}) {
	if err := s.publisher.Publish(ctx, events.NewPortalEvent(eventType, payload)); err != nil {
		s.logger.Warn("event publish failed", "event_type", eventType, "error", err)
	}
}

func buildChanges(from, to models.ApplicationStatus) datatypes.JSON {
	return datatypes.JSON(fmt.Sprintf(`{"status":{"from":%q,"to":%q}}`, from, to))
}

// generateRefCode returns OS-<year>-<6 uppercase hex chars>.
func generateRefCode() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("OS-%d-%s", time.Now().Year(), strings.ToUpper(hex.EncodeToString(buf))), nil
}

// buildTimeline creates the six funnel rows: Submitted done and dated,
// Document Verification active, the rest pending.
func buildTimeline(applicationID uint) []*models.TimelineEntry {
	entries := make([]*models.TimelineEntry, 0, len(models.TimelineSteps))
	for i, step := range models.TimelineSteps {
		entry := &models.TimelineEntry{
			ApplicationID: applicationID,
			Step:          step,
			SortOrder:     i + 1,
		}
		switch i {
		case 0:
			entry.Done = true
			entry.DateLabel = time.Now().Format("Jan 2, 2006")
		case 1:
			entry.Active = true
		}
		entries = append(entries, entry)
	}
	return entries
}

// buildDocumentSlots creates the four placeholder rows. A slot whose key is
// present in documentURLs is PENDING even when the URL is empty; an absent
// key is MISSING.
func buildDocumentSlots(userID string, applicationID uint, documentURLs map[string]string) []*models.Document {
	docs := make([]*models.Document, 0, len(models.RequiredDocuments))
	for _, slot := range models.RequiredDocuments {
		doc := &models.Document{
			UserID:        userID,
			ApplicationID: &applicationID,
			Name:          slot.Name,
			ExpectedFile:  slot.ExpectedFile,
			Status:        models.DocumentMissing,
		}
		if url, ok := documentURLs[slot.Key]; ok {
			doc.Status = models.DocumentPending
			doc.FileURL = url
		}
		docs = append(docs, doc)
	}
	return docs
}
