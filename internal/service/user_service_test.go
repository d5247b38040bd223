package service

import (
	"context"
	"testing"

	"bookden/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
	isAdminFn       func(context.Context, uint) (bool, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) IsAdmin(ctx context.Context, id uint) (bool, error) {
	return s.isAdminFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		isAdminFn:       func(_ context.Context, _ uint) (bool, error) { return false, nil },
	}
}

func TestUserService_GetUserByID_NotFound(t *testing.T) {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewUserService(repo)

	_, err := svc.GetUserByID(context.Background(), 99)
	assertAppErrorCode(t, err, models.CodeUserNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Run("Requires Authentication", func(t *testing.T) {
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 0})
		assertAppErrorCode(t, err, models.CodeAuthenticationRequired)
	})

	t.Run("Username Taken", func(t *testing.T) {
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "margaret"}, nil
		}
		repo.getByUsernameFn = func(_ context.Context, _ string) (*models.User, error) {
			return &models.User{ID: 7, Username: "tomas"}, nil
		}
		svc := NewUserService(repo)

		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Username: "tomas"})
		assertAppErrorCode(t, err, models.CodeDuplicateResource)
	})

	t.Run("Invalid Username", func(t *testing.T) {
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Username: "a"})
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("Updates Bio", func(t *testing.T) {
		repo := noopUserRepo()
		var updated *models.User
		repo.updateFn = func(_ context.Context, user *models.User) error {
			updated = user
			return nil
		}
		svc := NewUserService(repo)

		user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Bio: "Reads too much."})
		require.NoError(t, err)
		assert.Equal(t, "Reads too much.", user.Bio)
		assert.Equal(t, "Reads too much.", updated.Bio)
	})
}

func TestUserService_DeleteAccount(t *testing.T) {
	t.Run("Self Delete", func(t *testing.T) {
		repo := noopUserRepo()
		var deletedID uint
		repo.deleteFn = func(_ context.Context, id uint) error {
			deletedID = id
			return nil
		}
		svc := NewUserService(repo)

		err := svc.DeleteAccount(context.Background(), 1, 1)
		require.NoError(t, err)
		assert.Equal(t, uint(1), deletedID)
	})

	t.Run("Non Admin Cannot Delete Others", func(t *testing.T) {
		svc := NewUserService(noopUserRepo())
		err := svc.DeleteAccount(context.Background(), 1, 2)
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("Admin Can Delete Others", func(t *testing.T) {
		repo := noopUserRepo()
		repo.isAdminFn = func(_ context.Context, _ uint) (bool, error) { return true, nil }
		svc := NewUserService(repo)

		err := svc.DeleteAccount(context.Background(), 1, 2)
		assert.NoError(t, err)
	})

	t.Run("Not Found", func(t *testing.T) {
		repo := noopUserRepo()
		repo.deleteFn = func(_ context.Context, _ uint) error { return gorm.ErrRecordNotFound }
		svc := NewUserService(repo)

		err := svc.DeleteAccount(context.Background(), 1, 1)
		assertAppErrorCode(t, err, models.CodeUserNotFound)
	})
}
