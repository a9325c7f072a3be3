package services

import (
	"context"
	"time"

	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// ===== ENTITY MOCKS =====

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountApplications(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) SetEmailVerified(ctx context.Context, id string, verifiedAt time.Time) error {
	args := m.Called(ctx, id, verifiedAt)
	return args.Error(0)
}

func (m *MockUserRepository) SetPasswordHash(ctx context.Context, id string, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockUserRepository) SetRole(ctx context.Context, id string, role models.UserRole) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) Create(ctx context.Context, application *models.Application) error {
	args := m.Called(ctx, application)
	return args.Error(0)
}

func (m *MockApplicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationRepository) GetByIDWithDetails(ctx context.Context, id uint) (*models.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationRepository) GetByRefCode(ctx context.Context, refCode string) (*models.Application, error) {
	args := m.Called(ctx, refCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockApplicationRepository) List(ctx context.Context, filters repositories.ApplicationFilters) ([]*models.Application, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Application), args.Get(1).(int64), args.Error(2)
}

func (m *MockApplicationRepository) GetByUser(ctx context.Context, userID string) ([]*models.Application, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.Application), args.Error(1)
}

func (m *MockApplicationRepository) UpdateStatus(ctx context.Context, id uint, status models.ApplicationStatus, progress int) error {
	args := m.Called(ctx, id, status, progress)
	return args.Error(0)
}

func (m *MockApplicationRepository) ExistsForUserAndProgram(ctx context.Context, userID string, programID uint) (bool, error) {
	args := m.Called(ctx, userID, programID)
	return args.Bool(0), args.Error(1)
}

type MockTimelineRepository struct {
	mock.Mock
}

func (m *MockTimelineRepository) CreateBatch(ctx context.Context, entries []*models.TimelineEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockTimelineRepository) GetByApplication(ctx context.Context, applicationID uint) ([]*models.TimelineEntry, error) {
	args := m.Called(ctx, applicationID)
	return args.Get(0).([]*models.TimelineEntry), args.Error(1)
}

func (m *MockTimelineRepository) SetStage(ctx context.Context, applicationID uint, stage int) error {
	args := m.Called(ctx, applicationID, stage)
	return args.Error(0)
}

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, document *models.Document) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

func (m *MockDocumentRepository) CreateBatch(ctx context.Context, documents []*models.Document) error {
	args := m.Called(ctx, documents)
	return args.Error(0)
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id uint) (*models.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) Update(ctx context.Context, document *models.Document) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) GetByApplication(ctx context.Context, applicationID uint) ([]*models.Document, error) {
	args := m.Called(ctx, applicationID)
	return args.Get(0).([]*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) GetByUser(ctx context.Context, userID string) ([]*models.Document, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.Document), args.Error(1)
}

type MockOtpRepository struct {
	mock.Mock
}

func (m *MockOtpRepository) Create(ctx context.Context, code *models.OtpCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockOtpRepository) GetLatest(ctx context.Context, email, code string, purpose models.OtpPurpose) (*models.OtpCode, error) {
	args := m.Called(ctx, email, code, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OtpCode), args.Error(1)
}

func (m *MockOtpRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOtpRepository) DeleteForEmailAndPurpose(ctx context.Context, email string, purpose models.OtpPurpose) error {
	args := m.Called(ctx, email, purpose)
	return args.Error(0)
}

type MockCountryRepository struct {
	mock.Mock
}

func (m *MockCountryRepository) Create(ctx context.Context, country *models.Country) error {
	args := m.Called(ctx, country)
	return args.Error(0)
}

func (m *MockCountryRepository) GetByID(ctx context.Context, id uint) (*models.Country, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Country), args.Error(1)
}

func (m *MockCountryRepository) GetBySlug(ctx context.Context, slug string) (*models.Country, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Country), args.Error(1)
}

func (m *MockCountryRepository) Update(ctx context.Context, country *models.Country) error {
	args := m.Called(ctx, country)
	return args.Error(0)
}

func (m *MockCountryRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCountryRepository) List(ctx context.Context, filters repositories.CatalogFilters) ([]*models.Country, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Country), args.Get(1).(int64), args.Error(2)
}

func (m *MockCountryRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

type MockUniversityRepository struct {
	mock.Mock
}

func (m *MockUniversityRepository) Create(ctx context.Context, university *models.University) error {
	args := m.Called(ctx, university)
	return args.Error(0)
}

func (m *MockUniversityRepository) GetByID(ctx context.Context, id uint) (*models.University, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.University), args.Error(1)
}

func (m *MockUniversityRepository) GetBySlug(ctx context.Context, slug string) (*models.University, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.University), args.Error(1)
}

func (m *MockUniversityRepository) Update(ctx context.Context, university *models.University) error {
	args := m.Called(ctx, university)
	return args.Error(0)
}

func (m *MockUniversityRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUniversityRepository) List(ctx context.Context, filters repositories.CatalogFilters) ([]*models.University, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.University), args.Get(1).(int64), args.Error(2)
}

func (m *MockUniversityRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

type MockProgramRepository struct {
	mock.Mock
}

func (m *MockProgramRepository) Create(ctx context.Context, program *models.Program) error {
	args := m.Called(ctx, program)
	return args.Error(0)
}

func (m *MockProgramRepository) GetByID(ctx context.Context, id uint) (*models.Program, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Program), args.Error(1)
}

func (m *MockProgramRepository) GetBySlug(ctx context.Context, slug string) (*models.Program, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Program), args.Error(1)
}

func (m *MockProgramRepository) Update(ctx context.Context, program *models.Program) error {
	args := m.Called(ctx, program)
	return args.Error(0)
}

func (m *MockProgramRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProgramRepository) List(ctx context.Context, filters repositories.CatalogFilters) ([]*models.Program, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Program), args.Get(1).(int64), args.Error(2)
}

func (m *MockProgramRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) GetByID(ctx context.Context, id uint) (*models.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, filters repositories.LeadFilters) ([]*models.Lead, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Lead), args.Get(1).(int64), args.Error(2)
}

func (m *MockLeadRepository) SetHandled(ctx context.Context, id uint, handled bool) error {
	args := m.Called(ctx, id, handled)
	return args.Error(0)
}

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*models.PortalSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PortalSettings), args.Error(1)
}

func (m *MockSettingsRepository) Update(ctx context.Context, settings *models.PortalSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) GetByApplication(ctx context.Context, applicationID uint) ([]*models.AuditLog, error) {
	args := m.Called(ctx, applicationID)
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

// ===== AGGREGATE MOCK =====

// MockRepository hands the same handle to transactional callbacks, so
// expectations set on the entity mocks cover both paths.
type MockRepository struct {
	user        MockUserRepository
	application MockApplicationRepository
	timeline    MockTimelineRepository
	document    MockDocumentRepository
	otp         MockOtpRepository
	country     MockCountryRepository
	university  MockUniversityRepository
	program     MockProgramRepository
	lead        MockLeadRepository
	settings    MockSettingsRepository
	audit       MockAuditRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

func (m *MockRepository) User() repositories.UserRepository               { return &m.user }
func (m *MockRepository) Application() repositories.ApplicationRepository { return &m.application }
func (m *MockRepository) Timeline() repositories.TimelineRepository       { return &m.timeline }
func (m *MockRepository) Document() repositories.DocumentRepository       { return &m.document }
func (m *MockRepository) Otp() repositories.OtpRepository                 { return &m.otp }
func (m *MockRepository) Country() repositories.CountryRepository         { return &m.country }
func (m *MockRepository) University() repositories.UniversityRepository   { return &m.university }
func (m *MockRepository) Program() repositories.ProgramRepository         { return &m.program }
func (m *MockRepository) Lead() repositories.LeadRepository               { return &m.lead }
func (m *MockRepository) Settings() repositories.SettingsRepository       { return &m.settings }
func (m *MockRepository) Audit() repositories.AuditRepository             { return &m.audit }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }

// AssertExpectations checks every entity mock in one call.
func (m *MockRepository) AssertExpectations(t mock.TestingT) {
	m.user.AssertExpectations(t)
	m.application.AssertExpectations(t)
	m.timeline.AssertExpectations(t)
	m.document.AssertExpectations(t)
	m.otp.AssertExpectations(t)
	m.country.AssertExpectations(t)
	m.university.AssertExpectations(t)
	m.program.AssertExpectations(t)
	m.lead.AssertExpectations(t)
	m.settings.AssertExpectations(t)
	m.audit.AssertExpectations(t)
}
