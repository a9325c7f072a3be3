package services

import (
	"context"
	"fmt"

	"github.com/orange-studies/portal-service/internal/authz"
	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/repositories"
	"github.com/orange-studies/portal-service/internal/storage"
	"github.com/orange-studies/portal-service/internal/utils"
)

// DocumentService manages the per-application document slots after
// submission.
type DocumentService interface {
	// RequestReupload flags a slot for the student with reviewer feedback.
	RequestReupload(ctx context.Context, actor *models.User, docID uint, feedback string) (*models.Document, error)

	// Verify marks a slot as reviewed and accepted.
	Verify(ctx context.Context, actor *models.User, docID uint) (*models.Document, error)

	// Delete removes the row and best-effort deletes the stored blob.
	Delete(ctx context.Context, actor *models.User, docID uint) error

	// Reupload lets the owning student attach a new file to a slot.
	Reupload(ctx context.Context, actor *models.User, docID uint, fileURL string) (*models.Document, error)

	ListByUser(ctx context.Context, userID string) ([]*models.Document, error)
}

type documentService struct {
	repo     repositories.Repository
	uploader storage.Uploader
	logger   utils.Logger
}

func NewDocumentService(repo repositories.Repository, uploader storage.Uploader, logger utils.Logger) DocumentService {
	return &documentService{repo: repo, uploader: uploader, logger: logger}
}

func (s *documentService) getDocument(ctx context.Context, docID uint) (*models.Document, error) {
	doc, err := s.repo.Document().GetByID(ctx, docID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return doc, nil
}

func (s *documentService) audit(ctx context.Context, doc *models.Document, actor *models.User, action models.AuditAction, details string) {
	if doc.ApplicationID == nil {
		return
	}
	entry := &models.AuditLog{
		ApplicationID: *doc.ApplicationID,
		ActorEmail:    actor.Email,
		Action:        action,
		Details:       details,
	}
	if err := s.repo.Audit().Create(ctx, entry); err != nil {
		s.logger.Warn("audit write failed", "document_id", doc.ID, "action", action, "error", err)
	}
}

func (s *documentService) RequestReupload(ctx context.Context, actor *models.User, docID uint, feedback string) (*models.Document, error) {
	if err := authz.Require(actor, authz.AdminOrManager); err != nil {
		return nil, err
	}

	doc, err := s.getDocument(ctx, docID)
	if err != nil {
		return nil, err
	}

	doc.RequiresReupload = true
	doc.Status = models.DocumentMissing
	doc.Feedback = &feedback
	if err := s.repo.Document().Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}

	s.audit(ctx, doc, actor, models.AuditReuploadRequested, fmt.Sprintf("%s: %s", doc.Name, feedback))
	s.logger.Info("Reupload requested", "document_id", doc.ID, "actor", actor.Email)
	return doc, nil
}

func (s *documentService) Verify(ctx context.Context, actor *models.User, docID uint) (*models.Document, error) {
	if err := authz.Require(actor, authz.AdminOrManager); err != nil {
		return nil, err
	}

	doc, err := s.getDocument(ctx, docID)
	if err != nil {
		return nil, err
	}

	doc.Status = models.DocumentVerified
	doc.RequiresReupload = false
	doc.Feedback = nil
	if err := s.repo.Document().Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}

	s.audit(ctx, doc, actor, models.AuditDocumentVerified, doc.Name)
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, actor *models.User, docID uint) error {
	if err := authz.Require(actor, authz.AdminOrManager); err != nil {
		return err
	}

	doc, err := s.getDocument(ctx, docID)
	if err != nil {
		return err
	}

	if err := s.repo.Document().Delete(ctx, docID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	// Blob removal is best effort; the row is already gone.
	if doc.FileURL != "" {
		if err := s.uploader.Delete(ctx, doc.FileURL); err != nil {
			s.logger.Warn("blob delete failed", "document_id", docID, "error", err)
		}
	}

	s.audit(ctx, doc, actor, models.AuditDocumentDeleted, doc.Name)
	s.logger.Info("Document deleted", "document_id", docID, "actor", actor.Email)
	return nil
}

func (s *documentService) Reupload(ctx context.Context, actor *models.User, docID uint, fileURL string) (*models.Document, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	if fileURL == "" {
		return nil, fmt.Errorf("%w: fileUrl is required", ErrValidationFailed)
	}

	doc, err := s.getDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc.UserID != actor.ID {
		return nil, ErrDocumentAccessDenied
	}

	doc.FileURL = fileURL
	doc.Status = models.DocumentPending
	doc.RequiresReupload = false
	if err := s.repo.Document().Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}

	s.logger.Info("Document reuploaded", "document_id", doc.ID, "user_id", actor.ID)
	return doc, nil
}

func (s *documentService) ListByUser(ctx context.Context, userID string) ([]*models.Document, error) {
	docs, err := s.repo.Document().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}
