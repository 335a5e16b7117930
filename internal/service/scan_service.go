package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/karuteens/moderation/internal/logger"
	"github.com/karuteens/moderation/internal/metrics"
	"github.com/karuteens/moderation/internal/models"
	"github.com/karuteens/moderation/internal/moderation"
	"github.com/karuteens/moderation/internal/pkg/apperror"
)

// FlagSubmitter принимает флаги от сканера.
type FlagSubmitter interface {
	SubmitFlag(ctx context.Context, input SubmitFlagInput) (*models.AutoFlag, error)
}

// ScanRequest контент для проверки. ContentID пуст для произвольного текста.
type ScanRequest struct {
	Kind      moderation.Kind
	ContentID string
	Payload   json.RawMessage
}

// ScanService классифицирует контент и сохраняет флаг, если он сработал.
type ScanService struct {
	classifier moderation.Classifier
	flags      FlagSubmitter
}

func NewScanService(classifier moderation.Classifier, flags FlagSubmitter) *ScanService {
	return &ScanService{classifier: classifier, flags: flags}
}

// Scan возвращает ValidationError только для неразбираемого контента.
// Ошибка сохранения флага логируется и не возвращается.
func (s *ScanService) Scan(ctx context.Context, req ScanRequest) (moderation.ScanResult, error) {
	content, err := moderation.DecodeContent(req.Kind, req.Payload)
	if err != nil {
		metrics.ScanErrors.WithLabelValues(metrics.StageDecode).Inc()
		if errors.Is(err, moderation.ErrUnsupportedContentType) {
			return moderation.ScanResult{}, apperror.Validation("неподдерживаемый тип контента")
		}
		return moderation.ScanResult{}, apperror.Wrap(err, apperror.ErrCodeValidation, "некорректный контент")
	}

	started := time.Now()
	result, err := moderation.Classify(s.classifier, content)
	if err != nil {
		return moderation.ScanResult{}, apperror.Wrap(err, apperror.ErrCodeValidation, "некорректный контент")
	}
	metrics.ObserveScan(string(req.Kind), result.Flagged, time.Since(started).Seconds())

	if result.Flagged {
		s.submit(ctx, req, result)
	}
	return result, nil
}

func (s *ScanService) submit(ctx context.Context, req ScanRequest, result moderation.ScanResult) {
	contentType, ok := req.Kind.FlagContentType()
	if !ok || req.ContentID == "" {
		return
	}

	_, err := s.flags.SubmitFlag(ctx, SubmitFlagInput{
		ContentType:     contentType,
		ContentID:       req.ContentID,
		FlagType:        *result.FlagType,
		ConfidenceScore: *result.ConfidenceScore,
		Details:         result.Details,
	})
	if err != nil {
		metrics.ScanErrors.WithLabelValues(metrics.StageSubmit).Inc()
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"content_type": contentType,
			"content_id":   req.ContentID,
			"flag_type":    *result.FlagType,
		}).Error("не удалось сохранить автофлаг")
	}
}
