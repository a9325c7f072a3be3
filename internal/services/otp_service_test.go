package services

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/orange-studies/portal-service/internal/events"
	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestOtpService_Generate(t *testing.T) {
	repo := NewMockRepository()
	publisher := events.NewMockEventPublisher()
	service := NewOtpService(repo, publisher, newTestLogger())
	ctx := context.Background()

	repo.otp.On("DeleteForEmailAndPurpose", ctx, "student@example.com", models.OtpVerify).Return(nil)

	var stored *models.OtpCode
	repo.otp.On("Create", ctx, mock.MatchedBy(func(code *models.OtpCode) bool {
		stored = code
		return code.Email == "student@example.com" && code.Purpose == models.OtpVerify
	})).Return(nil)

	code, err := service.Generate(ctx, "student@example.com", models.OtpVerify)
	require.NoError(t, err)

	// Six digits in [100000, 999999].
	assert.Len(t, code, 6)
	n, err := strconv.Atoi(code)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 100000)
	assert.LessOrEqual(t, n, 999999)

	require.NotNil(t, stored)
	assert.Equal(t, code, stored.Code)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), stored.ExpiresAt, time.Minute)

	// The event never carries the code itself.
	require.Len(t, publisher.Events, 1)
	assert.Equal(t, events.OtpIssued, publisher.Events[0].Type)
	assert.NotContains(t, publisher.Events[0].Payload, "code")

	repo.AssertExpectations(t)
}

func TestOtpService_GenerateReplacesPriorCodes(t *testing.T) {
	repo := NewMockRepository()
	service := NewOtpService(repo, events.NewMockEventPublisher(), newTestLogger())
	ctx := context.Background()

	repo.otp.On("DeleteForEmailAndPurpose", ctx, "student@example.com", models.OtpReset).Return(nil).Twice()
	repo.otp.On("Create", ctx, mock.Anything).Return(nil).Twice()

	_, err := service.Generate(ctx, "student@example.com", models.OtpReset)
	require.NoError(t, err)
	_, err = service.Generate(ctx, "student@example.com", models.OtpReset)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestOtpService_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown code", func(t *testing.T) {
		repo := NewMockRepository()
		service := NewOtpService(repo, events.NewMockEventPublisher(), newTestLogger())

		repo.otp.On("GetLatest", ctx, "a@b.com", "123456", models.OtpVerify).
			Return(nil, gorm.ErrRecordNotFound)

		err := service.Verify(ctx, "a@b.com", "123456", models.OtpVerify)
		assert.ErrorIs(t, err, ErrInvalidOTP)
	})

	t.Run("expired code is deleted and rejected", func(t *testing.T) {
		repo := NewMockRepository()
		service := NewOtpService(repo, events.NewMockEventPublisher(), newTestLogger())

		record := &models.OtpCode{ID: 7, Email: "a@b.com", Code: "123456", Purpose: models.OtpVerify, ExpiresAt: time.Now().Add(-time.Minute)}
		repo.otp.On("GetLatest", ctx, "a@b.com", "123456", models.OtpVerify).Return(record, nil)
		repo.otp.On("Delete", ctx, uint(7)).Return(nil)

		err := service.Verify(ctx, "a@b.com", "123456", models.OtpVerify)
		assert.ErrorIs(t, err, ErrExpiredOTP)
		repo.AssertExpectations(t)
	})

	t.Run("valid code is consumed", func(t *testing.T) {
		repo := NewMockRepository()
		service := NewOtpService(repo, events.NewMockEventPublisher(), newTestLogger())

		record := &models.OtpCode{ID: 9, Email: "a@b.com", Code: "654321", Purpose: models.OtpReset, ExpiresAt: time.Now().Add(10 * time.Minute)}
		repo.otp.On("GetLatest", ctx, "a@b.com", "654321", models.OtpReset).Return(record, nil)
		repo.otp.On("Delete", ctx, uint(9)).Return(nil)

		err := service.Verify(ctx, "a@b.com", "654321", models.OtpReset)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
