package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/karuteens/moderation/internal/models"
	"github.com/karuteens/moderation/internal/moderation"
	"github.com/karuteens/moderation/internal/service"
)

type mockFlagSubmitter struct {
	mock.Mock
}

func (m *mockFlagSubmitter) SubmitFlag(ctx context.Context, input service.SubmitFlagInput) (*models.AutoFlag, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AutoFlag), args.Error(1)
}

func (m *mockFlagSubmitter) SubmitFlagAs(ctx context.Context, actor service.Actor, input service.SubmitFlagInput) (*models.AutoFlag, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AutoFlag), args.Error(1)
}

func newScanRouter(flags service.FlagSubmitter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	scanner := moderation.NewKeywordScanner()
	handler := NewScanHandler(service.NewScanService(scanner, flags), scanner.Threshold(), scanner.FlagTypes())

	r := gin.New()
	r.POST("/api/moderation/scan", handler.Scan)
	r.GET("/api/moderation/scan", handler.Status)
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestScanHandler_Status(t *testing.T) {
	r := newScanRouter(new(mockFlagSubmitter))

	req := httptest.NewRequest(http.MethodGet, "/api/moderation/scan", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Status    string   `json:"status"`
		Threshold float64  `json:"threshold"`
		FlagTypes []string `json:"flag_types"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, moderation.DefaultThreshold, resp.Threshold)
	assert.Contains(t, resp.FlagTypes, models.FlagTypeSpam)
}

func TestScanHandler_CleanText(t *testing.T) {
	flags := new(mockFlagSubmitter)
	r := newScanRouter(flags)

	w := postJSON(r, "/api/moderation/scan", `{"content_type":"text","content":"see you at the library"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"flagged":false}`, w.Body.String())
	flags.AssertNotCalled(t, "SubmitFlag", mock.Anything, mock.Anything)
}

func TestScanHandler_FlaggedPostIsSubmitted(t *testing.T) {
	flags := new(mockFlagSubmitter)
	flags.On("SubmitFlag", mock.Anything, mock.MatchedBy(func(in service.SubmitFlagInput) bool {
		return in.ContentType == models.ContentTypePost && in.ContentID == "post-1" && in.FlagType == models.FlagTypeSpam
	})).Return(&models.AutoFlag{Status: models.AutoFlagStatusPending}, nil).Once()
	r := newScanRouter(flags)

	w := postJSON(r, "/api/moderation/scan",
		`{"content_type":"post","content_id":"post-1","content":{"content":"click here for free money now, act now!"}}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp moderation.ScanResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Flagged)
	require.NotNil(t, resp.FlagType)
	assert.Equal(t, models.FlagTypeSpam, *resp.FlagType)
	flags.AssertExpectations(t)
}

func TestScanHandler_BadRequests(t *testing.T) {
	r := newScanRouter(new(mockFlagSubmitter))

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"content_type":`},
		{"missing content", `{"content_type":"post"}`},
		{"empty post", `{"content_type":"post","content":{"content":""}}`},
		{"text is not a string", `{"content_type":"text","content":{"text":"hi"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/api/moderation/scan", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"code":"VALIDATION_ERROR"`)
		})
	}
}

func stringBody(s string) *bytes.Buffer {
	return bytes.NewBufferString(s)
}
