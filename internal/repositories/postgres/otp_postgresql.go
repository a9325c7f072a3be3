package postgres

import (
	"context"

	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/repositories"
	"gorm.io/gorm"
)

type OtpPostgreSQL struct {
	db *gorm.DB
}

func NewOtpPostgreSQL(db *gorm.DB) repositories.OtpRepository {
	return &OtpPostgreSQL{db: db}
}

func (o *OtpPostgreSQL) Create(ctx context.Context, code *models.OtpCode) error {
	return o.db.WithContext(ctx).Create(code).Error
}

func (o *OtpPostgreSQL) GetLatest(ctx context.Context, email, code string, purpose models.OtpPurpose) (*models.OtpCode, error) {
	var otp models.OtpCode
	err := o.db.WithContext(ctx).
		Where("email = ? AND code = ? AND purpose = ?", email, code, purpose).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

func (o *OtpPostgreSQL) Delete(ctx context.Context, id uint) error {
	return o.db.WithContext(ctx).Delete(&models.OtpCode{}, id).Error
}

func (o *OtpPostgreSQL) DeleteForEmailAndPurpose(ctx context.Context, email string, purpose models.OtpPurpose) error {
	return o.db.WithContext(ctx).
		Where("email = ? AND purpose = ?", email, purpose).
		Delete(&models.OtpCode{}).Error
}
