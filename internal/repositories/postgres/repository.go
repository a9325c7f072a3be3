package postgres

import (
	"context"
	"fmt"

	"github.com/orange-studies/portal-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository wires every PostgreSQL repository behind the aggregate handle.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{db: db}
}

func (r *repository) User() repositories.UserRepository               { return NewUserPostgreSQL(r.db) }
func (r *repository) Application() repositories.ApplicationRepository { return NewApplicationPostgreSQL(r.db) }
func (r *repository) Timeline() repositories.TimelineRepository       { return NewTimelinePostgreSQL(r.db) }
func (r *repository) Document() repositories.DocumentRepository       { return NewDocumentPostgreSQL(r.db) }
func (r *repository) Otp() repositories.OtpRepository                 { return NewOtpPostgreSQL(r.db) }
func (r *repository) Country() repositories.CountryRepository         { return NewCountryPostgreSQL(r.db) }
func (r *repository) University() repositories.UniversityRepository   { return NewUniversityPostgreSQL(r.db) }
func (r *repository) Program() repositories.ProgramRepository         { return NewProgramPostgreSQL(r.db) }
func (r *repository) Lead() repositories.LeadRepository               { return NewLeadPostgreSQL(r.db) }
func (r *repository) Settings() repositories.SettingsRepository       { return NewSettingsPostgreSQL(r.db) }
func (r *repository) Audit() repositories.AuditRepository             { return NewAuditPostgreSQL(r.db) }

// WithTransaction runs fn against a Repository bound to a single database
// transaction. The whole write is all-or-nothing.
func (r *repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}
	return sqlDB.Close()
}

// applyPaginationAndSort applies shared list semantics: a small default page
// size, a capped maximum, and whitelisted sort columns. A limit of
// repositories.NoLimit skips pagination entirely so exports see every row.
func applyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int, sortable map[string]bool) *gorm.DB {
	column := "created_at"
	if sortBy != "" && sortable[sortBy] {
		column = sortBy
	}
	order := "DESC"
	if sortOrder == "asc" {
		order = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", column, order))

	if limit == repositories.NoLimit {
		return query
	}

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}
