package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/karuteens/moderation/internal/models"
	"github.com/karuteens/moderation/internal/moderation"
	"github.com/karuteens/moderation/internal/pkg/apperror"
)

type mockFlagStore struct {
	mock.Mock
}

func (m *mockFlagStore) Create(ctx context.Context, flag *models.AutoFlag) error {
	args := m.Called(ctx, flag)
	if args.Error(0) == nil {
		flag.ID = uuid.New()
		flag.Status = models.AutoFlagStatusPending
	}
	return args.Error(0)
}

type mockLogSink struct {
	mock.Mock
}

func (m *mockLogSink) Append(ctx context.Context, entry *models.ModerationLog) error {
	return m.Called(ctx, entry).Error(0)
}

type recordingNotifier struct {
	flags []*models.AutoFlag
}

func (n *recordingNotifier) NotifyAutoFlag(flag *models.AutoFlag) {
	n.flags = append(n.flags, flag)
}

func spamInput(contentID string) SubmitFlagInput {
	return SubmitFlagInput{
		ContentType:     models.ContentTypePost,
		ContentID:       contentID,
		FlagType:        models.FlagTypeSpam,
		ConfidenceScore: 4.0 / 9.0,
		Details:         moderation.MatchDetails{Matches: map[string]int{"hate_speech": 0, "spam": 4, "nudity": 0}},
	}
}

func TestFlagService_SubmitFlag(t *testing.T) {
	store := new(mockFlagStore)
	logs := new(mockLogSink)
	notifier := &recordingNotifier{}
	svc := NewFlagService(store, logs, notifier)
	ctx := context.Background()

	store.On("Create", ctx, mock.AnythingOfType("*models.AutoFlag")).Return(nil).Once()
	logs.On("Append", ctx, mock.MatchedBy(func(e *models.ModerationLog) bool {
		return e.ActionType == models.LogActionCreateAutoFlag && e.TargetType == models.LogTargetAutoFlag && e.ModeratorID == nil
	})).Return(nil).Once()

	flag, err := svc.SubmitFlag(ctx, spamInput("post-1"))
	require.NoError(t, err)
	assert.Equal(t, models.AutoFlagStatusPending, flag.Status)
	assert.Equal(t, "0.44", flag.ConfidenceScore.String())
	assert.JSONEq(t, `{"matches":{"hate_speech":0,"spam":4,"nudity":0}}`, string(flag.Details))
	require.Len(t, notifier.flags, 1)
	assert.Equal(t, flag.ID, notifier.flags[0].ID)

	store.AssertExpectations(t)
	logs.AssertExpectations(t)
}

// Повторная проверка того же контента создаёт ещё один флаг.
// Идемпотентный upsert по (content_type, content_id) сознательно не делается,
// из-за этого правка поста с тем же спамом даёт модераторам дубль.
func TestFlagService_SubmitFlag_NoDeduplication(t *testing.T) {
	store := new(mockFlagStore)
	logs := new(mockLogSink)
	svc := NewFlagService(store, logs, nil)
	ctx := context.Background()

	store.On("Create", ctx, mock.Anything).Return(nil).Twice()
	logs.On("Append", ctx, mock.Anything).Return(nil).Twice()

	first, err := svc.SubmitFlag(ctx, spamInput("post-1"))
	require.NoError(t, err)
	second, err := svc.SubmitFlag(ctx, spamInput("post-1"))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, models.AutoFlagStatusPending, second.Status)
	store.AssertNumberOfCalls(t, "Create", 2)
}

func TestFlagService_SubmitFlag_Validation(t *testing.T) {
	store := new(mockFlagStore)
	svc := NewFlagService(store, new(mockLogSink), nil)

	cases := map[string]SubmitFlagInput{
		"unknown content type": {ContentType: "event", ContentID: "1", FlagType: models.FlagTypeSpam, ConfidenceScore: 0.5},
		"unknown flag type":    {ContentType: models.ContentTypePost, ContentID: "1", FlagType: "rudeness", ConfidenceScore: 0.5},
		"missing content id":   {ContentType: models.ContentTypePost, FlagType: models.FlagTypeSpam, ConfidenceScore: 0.5},
		"score above one":      {ContentType: models.ContentTypePost, ContentID: "1", FlagType: models.FlagTypeSpam, ConfidenceScore: 1.5},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.SubmitFlag(context.Background(), input)
			assert.True(t, apperror.IsValidation(err))
		})
	}
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFlagService_SubmitFlag_PersistenceError(t *testing.T) {
	store := new(mockFlagStore)
	logs := new(mockLogSink)
	svc := NewFlagService(store, logs, nil)
	ctx := context.Background()

	store.On("Create", ctx, mock.Anything).Return(errors.New("connection refused"))

	_, err := svc.SubmitFlag(ctx, spamInput("post-1"))
	assert.True(t, apperror.IsPersistence(err))
	logs.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestFlagService_SubmitFlag_LogFailureIgnored(t *testing.T) {
	store := new(mockFlagStore)
	logs := new(mockLogSink)
	svc := NewFlagService(store, logs, nil)
	ctx := context.Background()

	store.On("Create", ctx, mock.Anything).Return(nil)
	logs.On("Append", ctx, mock.Anything).Return(errors.New("timeout"))

	flag, err := svc.SubmitFlag(ctx, spamInput("post-1"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, flag.ID)
}

func TestFlagService_SubmitFlagAs_RecordsSubmitter(t *testing.T) {
	store := new(mockFlagStore)
	logs := new(mockLogSink)
	svc := NewFlagService(store, logs, nil)
	ctx := context.Background()
	submitter := Actor{Identity: Identity{UserID: uuid.New()}, IPAddress: "10.0.0.7", UserAgent: "media-scanner/1.2"}

	store.On("Create", ctx, mock.Anything).Return(nil).Once()
	logs.On("Append", ctx, mock.MatchedBy(func(e *models.ModerationLog) bool {
		return e.ModeratorID != nil && *e.ModeratorID == submitter.UserID &&
			e.IPAddress != nil && *e.IPAddress == "10.0.0.7" &&
			e.UserAgent != nil && *e.UserAgent == "media-scanner/1.2"
	})).Return(nil).Once()

	_, err := svc.SubmitFlagAs(ctx, submitter, spamInput("post-1"))
	require.NoError(t, err)
	logs.AssertExpectations(t)
}

func TestFlagService_SubmitFlagAs_RequiresUser(t *testing.T) {
	store := new(mockFlagStore)
	svc := NewFlagService(store, new(mockLogSink), nil)

	_, err := svc.SubmitFlagAs(context.Background(), Actor{}, spamInput("post-1"))
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
