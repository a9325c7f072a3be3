package services

import (
	"context"
	"fmt"

	"github.com/orange-studies/portal-service/internal/authz"
	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/repositories"
	"github.com/orange-studies/portal-service/internal/utils"
	"github.com/xuri/excelize/v2"
)

// ExportService renders admin-panel data as XLSX downloads.
type ExportService interface {
	ExportApplications(ctx context.Context, actor *models.User, filters repositories.ApplicationFilters) ([]byte, error)
	ExportLeads(ctx context.Context, actor *models.User, filters repositories.LeadFilters) ([]byte, error)
}

type exportService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewExportService(repo repositories.Repository, logger utils.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportApplications(ctx context.Context, actor *models.User, filters repositories.ApplicationFilters) ([]byte, error) {
	if err := authz.Require(actor, authz.AdminOrManager); err != nil {
		return nil, err
	}

	// Export everything matching the filters, not one page.
	filters.Limit = repositories.NoLimit
	filters.Offset = 0

	applications, _, err := s.repo.Application().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load applications: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Applications"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Ref Code", "Student", "Email", "Program", "University",
		"Status", "Progress", "Submitted At",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, application := range applications {
		row := []interface{}{
			application.RefCode,
			application.User.FullName,
			application.User.Email,
			application.Program.Title,
			application.Program.University.Name,
			string(application.Status),
			application.Progress,
			application.CreatedAt.Format("2006-01-02 15:04"),
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Applications exported", "count", len(applications), "actor", actor.Email)
	return buf.Bytes(), nil
}

func (s *exportService) ExportLeads(ctx context.Context, actor *models.User, filters repositories.LeadFilters) ([]byte, error) {
	if err := authz.Require(actor, authz.AdminOrManager); err != nil {
		return nil, err
	}

	filters.Limit = repositories.NoLimit
	filters.Offset = 0

	leads, _, err := s.repo.Lead().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load leads: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Leads"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Name", "Email", "Phone", "Message", "Source", "Handled", "Created At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, lead := range leads {
		row := []interface{}{
			lead.Name,
			lead.Email,
			lead.Phone,
			lead.Message,
			lead.Source,
			lead.Handled,
			lead.CreatedAt.Format("2006-01-02 15:04"),
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Leads exported", "count", len(leads), "actor", actor.Email)
	return buf.Bytes(), nil
}
