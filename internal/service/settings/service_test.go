package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	settingsRepo "github.com/m04kA/SMC-ConsultBooking/internal/infra/storage/settings"
	"github.com/m04kA/SMC-ConsultBooking/internal/service/settings/models"
	"github.com/m04kA/SMC-ConsultBooking/pkg/logger"
	"github.com/m04kA/SMC-ConsultBooking/pkg/ptr"
	"github.com/m04kA/SMC-ConsultBooking/pkg/txmanager"
)

// brokenTx не может начать транзакцию
type brokenTx struct{}

func (brokenTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return txmanager.ErrBeginTx
}

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Get(ctx context.Context, consultantID int64) (*domain.ConsultantSettings, error) {
	args := m.Called(ctx, consultantID)
	if s, ok := args.Get(0).(*domain.ConsultantSettings); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Upsert(ctx context.Context, s *domain.ConsultantSettings) (*domain.ConsultantSettings, error) {
	args := m.Called(ctx, s)
	if r, ok := args.Get(0).(*domain.ConsultantSettings); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestService_Get(t *testing.T) {
	t.Run("defaults when nothing stored", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("Get", mock.Anything, int64(5)).Return(nil, settingsRepo.ErrSettingsNotFound).Once()

		resp, err := NewService(repo, txmanager.NoopManager{}, logger.NewNop()).Get(context.Background(), 5)

		require.NoError(t, err)
		assert.True(t, resp.IsDefault)
		assert.Equal(t, domain.DefaultMinBookingNoticeMinutes, resp.MinBookingNoticeMinutes)
		assert.Nil(t, resp.UpdatedAt)
		repo.AssertExpectations(t)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("Get", mock.Anything, int64(5)).Return(nil, errors.New("boom")).Once()

		_, err := NewService(repo, txmanager.NoopManager{}, logger.NewNop()).Get(context.Background(), 5)
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestService_Update(t *testing.T) {
	t.Run("partial update keeps other fields", func(t *testing.T) {
		repo := &mockRepo{}
		stored := &domain.ConsultantSettings{ConsultantID: 5, MinBookingNoticeMinutes: 30, AdvanceBookingDays: 14, DefaultDurationMinutes: 45}
		repo.On("Get", mock.Anything, int64(5)).Return(stored, nil).Once()
		repo.On("Upsert", mock.Anything, mock.MatchedBy(func(s *domain.ConsultantSettings) bool {
			return s.MinBookingNoticeMinutes == 120 && s.AdvanceBookingDays == 14 && s.DefaultDurationMinutes == 45
		})).Return(stored, nil).Once()

		_, err := NewService(repo, txmanager.NoopManager{}, logger.NewNop()).Update(context.Background(), &models.UpdateSettingsRequest{
			UserID:                  5,
			Role:                    domain.RoleConsultant,
			ConsultantID:            5,
			MinBookingNoticeMinutes: ptr.Ptr(120),
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("someone else's settings", func(t *testing.T) {
		repo := &mockRepo{}

		_, err := NewService(repo, txmanager.NoopManager{}, logger.NewNop()).Update(context.Background(), &models.UpdateSettingsRequest{
			UserID:       6,
			Role:         domain.RoleConsultant,
			ConsultantID: 5,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("seeker role", func(t *testing.T) {
		repo := &mockRepo{}

		_, err := NewService(repo, txmanager.NoopManager{}, logger.NewNop()).Update(context.Background(), &models.UpdateSettingsRequest{
			UserID:       5,
			Role:         domain.RoleSeeker,
			ConsultantID: 5,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("out of range", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("Get", mock.Anything, int64(5)).Return(nil, settingsRepo.ErrSettingsNotFound).Once()

		_, err := NewService(repo, txmanager.NoopManager{}, logger.NewNop()).Update(context.Background(), &models.UpdateSettingsRequest{
			UserID:             5,
			Role:               domain.RoleConsultant,
			ConsultantID:       5,
			AdvanceBookingDays: ptr.Ptr(400),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("transaction cannot start", func(t *testing.T) {
		repo := &mockRepo{}

		_, err := NewService(repo, brokenTx{}, logger.NewNop()).Update(context.Background(), &models.UpdateSettingsRequest{
			UserID:                  5,
			Role:                    domain.RoleConsultant,
			ConsultantID:            5,
			MinBookingNoticeMinutes: ptr.Ptr(120),
		})
		assert.ErrorIs(t, err, ErrInternal)
		repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}
