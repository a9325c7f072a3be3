package repositories

import "context"

// Repository aggregates every entity repository behind one handle. Writes
// that must be atomic run inside WithTransaction, which hands the callback a
// Repository bound to the transaction.
type Repository interface {
	User() UserRepository
	Application() ApplicationRepository
	Timeline() TimelineRepository
	Document() DocumentRepository
	Otp() OtpRepository
	Country() CountryRepository
	University() UniversityRepository
	Program() ProgramRepository
	Lead() LeadRepository
	Settings() SettingsRepository
	Audit() AuditRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}
