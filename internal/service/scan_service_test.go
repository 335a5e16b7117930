package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/karuteens/moderation/internal/models"
	"github.com/karuteens/moderation/internal/moderation"
	"github.com/karuteens/moderation/internal/pkg/apperror"
)

type mockFlagSubmitter struct {
	mock.Mock
}

func (m *mockFlagSubmitter) SubmitFlag(ctx context.Context, input SubmitFlagInput) (*models.AutoFlag, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AutoFlag), args.Error(1)
}

func TestScanService_SpamPostSubmitsFlag(t *testing.T) {
	flags := new(mockFlagSubmitter)
	svc := NewScanService(moderation.NewKeywordScanner(), flags)
	ctx := context.Background()

	flags.On("SubmitFlag", ctx, mock.MatchedBy(func(in SubmitFlagInput) bool {
		return in.ContentType == models.ContentTypePost &&
			in.ContentID == "post-42" &&
			in.FlagType == models.FlagTypeSpam &&
			in.ConfidenceScore > 0.33 && in.ConfidenceScore < 0.34
	})).Return(&models.AutoFlag{Status: models.AutoFlagStatusPending}, nil).Once()

	result, err := svc.Scan(ctx, ScanRequest{
		Kind:      moderation.KindPost,
		ContentID: "post-42",
		Payload:   json.RawMessage(`{"content":"click here for free money now, act now!"}`),
	})
	require.NoError(t, err)
	assert.True(t, result.Flagged)
	require.NotNil(t, result.FlagType)
	assert.Equal(t, models.FlagTypeSpam, *result.FlagType)
	flags.AssertExpectations(t)
}

func TestScanService_CleanOrTextNotSubmitted(t *testing.T) {
	flags := new(mockFlagSubmitter)
	svc := NewScanService(moderation.NewKeywordScanner(), flags)
	ctx := context.Background()

	result, err := svc.Scan(ctx, ScanRequest{
		Kind:    moderation.KindText,
		Payload: json.RawMessage(`"this is hate speech and racist content"`),
	})
	require.NoError(t, err)
	assert.False(t, result.Flagged)
	assert.Nil(t, result.FlagType)
	assert.Nil(t, result.ConfidenceScore)

	// Сработавший произвольный текст не к чему привязать.
	result, err = svc.Scan(ctx, ScanRequest{
		Kind:    moderation.KindText,
		Payload: json.RawMessage(`"hate racist bigot nazi"`),
	})
	require.NoError(t, err)
	assert.True(t, result.Flagged)

	flags.AssertNotCalled(t, "SubmitFlag", mock.Anything, mock.Anything)
}

func TestScanService_SubmitErrorSwallowed(t *testing.T) {
	flags := new(mockFlagSubmitter)
	svc := NewScanService(moderation.NewKeywordScanner(), flags)
	ctx := context.Background()

	flags.On("SubmitFlag", ctx, mock.Anything).Return(nil, apperror.Persistence(errors.New("db down"), "не удалось сохранить флаг"))

	result, err := svc.Scan(ctx, ScanRequest{
		Kind:      moderation.KindComment,
		ContentID: "c-1",
		Payload:   json.RawMessage(`{"content":"urgent! act now, limited time, risk free"}`),
	})
	require.NoError(t, err)
	assert.True(t, result.Flagged)
}

func TestScanService_InvalidContent(t *testing.T) {
	svc := NewScanService(moderation.NewKeywordScanner(), new(mockFlagSubmitter))

	_, err := svc.Scan(context.Background(), ScanRequest{Kind: "event", Payload: json.RawMessage(`{}`)})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Scan(context.Background(), ScanRequest{Kind: moderation.KindUserProfile, Payload: json.RawMessage(`{"bio":"hi"}`)})
	assert.True(t, apperror.IsValidation(err))
}
