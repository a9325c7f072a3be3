package services

import (
	"github.com/orange-studies/portal-service/internal/auth"
	"github.com/orange-studies/portal-service/internal/cache"
	"github.com/orange-studies/portal-service/internal/events"
	"github.com/orange-studies/portal-service/internal/mailer"
	"github.com/orange-studies/portal-service/internal/repositories"
	"github.com/orange-studies/portal-service/internal/storage"
	"github.com/orange-studies/portal-service/internal/utils"
)

// ServiceManager bundles every service behind one handle for wiring into the
// handler layer.
type ServiceManager interface {
	Auth() AuthService
	Otp() OtpService
	Application() ApplicationService
	Document() DocumentService
	AdminUser() AdminUserService
	Catalog() CatalogService
	Lead() LeadService
	Settings() SettingsService
	Export() ExportService
}

type serviceManager struct {
	auth        AuthService
	otp         OtpService
	application ApplicationService
	document    DocumentService
	adminUser   AdminUserService
	catalog     CatalogService
	lead        LeadService
	settings    SettingsService
	export      ExportService
}

type ManagerDeps struct {
	Repo      repositories.Repository
	Cache     cache.CacheService
	Publisher events.EventPublisher
	Mailer    mailer.Mailer
	Uploader  storage.Uploader
	Tokens    *auth.TokenManager
	Validator *utils.Validator
	Logger    utils.Logger
}

func NewServiceManager(deps ManagerDeps) ServiceManager {
	otp := NewOtpService(deps.Repo, deps.Publisher, deps.Logger)

	return &serviceManager{
		otp:         otp,
		auth:        NewAuthService(deps.Repo, deps.Tokens, otp, deps.Mailer, deps.Validator, deps.Logger),
		application: NewApplicationService(deps.Repo, deps.Cache, deps.Publisher, deps.Validator, deps.Logger),
		document:    NewDocumentService(deps.Repo, deps.Uploader, deps.Logger),
		adminUser:   NewAdminUserService(deps.Repo, deps.Uploader, deps.Mailer, deps.Validator, deps.Logger),
		catalog:     NewCatalogService(deps.Repo, deps.Cache, deps.Validator, deps.Logger),
		lead:        NewLeadService(deps.Repo, deps.Publisher, deps.Validator, deps.Logger),
		settings:    NewSettingsService(deps.Repo, deps.Validator, deps.Logger),
		export:      NewExportService(deps.Repo, deps.Logger),
	}
}

func (m *serviceManager) Auth() AuthService               { return m.auth }
func (m *serviceManager) Otp() OtpService                 { return m.otp }
func (m *serviceManager) Application() ApplicationService { return m.application }
func (m *serviceManager) Document() DocumentService       { return m.document }
func (m *serviceManager) AdminUser() AdminUserService     { return m.adminUser }
func (m *serviceManager) Catalog() CatalogService         { return m.catalog }
func (m *serviceManager) Lead() LeadService               { return m.lead }
func (m *serviceManager) Settings() SettingsService       { return m.settings }
func (m *serviceManager) Export() ExportService           { return m.export }
