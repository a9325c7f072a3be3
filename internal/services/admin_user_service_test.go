package services

import (
	"context"
	"testing"

	"github.com/orange-studies/portal-service/internal/auth"
	"github.com/orange-studies/portal-service/internal/mailer"
	"github.com/orange-studies/portal-service/internal/models"
	"github.com/orange-studies/portal-service/internal/storage"
	"github.com/orange-studies/portal-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	repo     *MockRepository
	uploader *storage.MockUploader
	mail     *mailer.MockMailer
	service  AdminUserService
}

func newAdminFixture() *adminFixture {
	repo := NewMockRepository()
	uploader := storage.NewMockUploader()
	mail := mailer.NewMockMailer()
	service := NewAdminUserService(repo, uploader, mail, utils.NewValidator(), newTestLogger())
	return &adminFixture{repo: repo, uploader: uploader, mail: mail, service: service}
}

func admin() *models.User {
	return &models.User{ID: "admin-1", Email: "a@x.com", Role: models.RoleAdmin}
}

func TestAdminUserService_CreateStaffAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("generates an 8-char password returned once", func(t *testing.T) {
		f := newAdminFixture()
		f.repo.user.On("ExistsByEmail", ctx, "staff@x.com").Return(false, nil)
		f.repo.user.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Role == models.RoleManager && u.Email == "staff@x.com"
		})).Return(nil)
		f.repo.settings.On("Get", ctx).Return(models.DefaultSettings(), nil)

		resp, err := f.service.CreateStaffAccount(ctx, admin(), &CreateStaffRequest{
			FullName: "Staff Member",
			Email:    "Staff@X.com",
			Role:     models.RoleManager,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Password, 8)
		assert.True(t, auth.CheckPassword(resp.User.PasswordHash, resp.Password))

		// Credentials mail is attempted with the plaintext password.
		require.Len(t, f.mail.Sent, 1)
		assert.Equal(t, "staff_credentials", f.mail.Sent[0].Kind)
		assert.Equal(t, resp.Password, f.mail.Sent[0].Code)
		f.repo.AssertExpectations(t)
	})

	t.Run("manager cannot create accounts", func(t *testing.T) {
		f := newAdminFixture()
		_, err := f.service.CreateStaffAccount(ctx, manager(), &CreateStaffRequest{
			FullName: "X", Email: "x@x.com", Role: models.RoleManager,
		})
		assert.True(t, IsForbidden(err))
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAdminFixture()
		f.repo.user.On("ExistsByEmail", ctx, "staff@x.com").Return(true, nil)

		_, err := f.service.CreateStaffAccount(ctx, admin(), &CreateStaffRequest{
			FullName: "X", Email: "staff@x.com", Role: models.RoleRecruiter,
		})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestAdminUserService_ChangeRole(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newAdminFixture()
		f.repo.user.On("GetByID", ctx, "u2").Return(&models.User{ID: "u2", Role: models.RoleStudent}, nil)
		f.repo.user.On("SetRole", ctx, "u2", models.RoleRecruiter).Return(nil)

		user, err := f.service.ChangeRole(ctx, admin(), "u2", models.RoleRecruiter)
		require.NoError(t, err)
		assert.Equal(t, models.RoleRecruiter, user.Role)
	})

	t.Run("self-targeting forbidden", func(t *testing.T) {
		f := newAdminFixture()
		_, err := f.service.ChangeRole(ctx, admin(), "admin-1", models.RoleStudent)
		assert.ErrorIs(t, err, ErrSelfTarget)
	})

	t.Run("unknown role", func(t *testing.T) {
		f := newAdminFixture()
		_, err := f.service.ChangeRole(ctx, admin(), "u2", "SUPERUSER")
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestAdminUserService_DeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("refuses while applications exist", func(t *testing.T) {
		f := newAdminFixture()
		f.repo.user.On("GetByID", ctx, "u2").Return(&models.User{ID: "u2"}, nil)
		f.repo.user.On("CountApplications", ctx, "u2").Return(int64(3), nil)

		err := f.service.DeleteUser(ctx, admin(), "u2")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "3 application")

		var hasApps *UserHasApplicationsError
		assert.ErrorAs(t, err, &hasApps)
		assert.Equal(t, int64(3), hasApps.Count)
	})

	t.Run("deletes blobs then the account", func(t *testing.T) {
		f := newAdminFixture()
		f.repo.user.On("GetByID", ctx, "u2").Return(&models.User{ID: "u2"}, nil)
		f.repo.user.On("CountApplications", ctx, "u2").Return(int64(0), nil)
		f.repo.document.On("GetByUser", ctx, "u2").Return([]*models.Document{
			{ID: 1, FileURL: "https://cdn/p.pdf"},
			{ID: 2, FileURL: ""},
		}, nil)
		f.repo.user.On("Delete", ctx, "u2").Return(nil)

		err := f.service.DeleteUser(ctx, admin(), "u2")
		require.NoError(t, err)
		assert.Equal(t, []string{"https://cdn/p.pdf"}, f.uploader.Deleted)
		f.repo.AssertExpectations(t)
	})

	t.Run("self-targeting forbidden", func(t *testing.T) {
		f := newAdminFixture()
		err := f.service.DeleteUser(ctx, admin(), "admin-1")
		assert.ErrorIs(t, err, ErrSelfTarget)
	})

	t.Run("manager cannot delete", func(t *testing.T) {
		f := newAdminFixture()
		err := f.service.DeleteUser(ctx, manager(), "u2")
		assert.True(t, IsForbidden(err))
	})
}
