package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/karuteens/moderation/internal/goroutine"
	"github.com/karuteens/moderation/internal/logger"
	"github.com/karuteens/moderation/internal/metrics"
	"github.com/karuteens/moderation/internal/moderation"
)

// Scanner выполняет одну проверку контента.
type Scanner interface {
	Scan(ctx context.Context, req ScanRequest) (moderation.ScanResult, error)
}

// ScanDispatcher фоновая очередь проверок для ingress middleware.
// Enqueue никогда не блокирует запрос: при заполненной очереди задача отбрасывается.
type ScanDispatcher struct {
	scanner Scanner
	jobs    chan ScanRequest
	workers int

	mu     sync.RWMutex
	closed bool
	group  *goroutine.Group
	cancel context.CancelFunc
}

// NewScanDispatcher создаёт диспетчер с workers обработчиками и буфером queueSize.
func NewScanDispatcher(scanner Scanner, workers, queueSize int) *ScanDispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	rh := goroutine.NewRecoveryHandler(logger.Log, func(string) {
		metrics.ScanErrors.WithLabelValues(metrics.StagePanic).Inc()
	})
	return &ScanDispatcher{
		scanner: scanner,
		jobs:    make(chan ScanRequest, queueSize),
		workers: workers,
		group:   goroutine.NewGroup(rh),
	}
}

// Start запускает обработчики. Контекст обработчиков не связан с контекстом HTTP-запроса.
func (d *ScanDispatcher) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	for i := 0; i < d.workers; i++ {
		d.group.Go(fmt.Sprintf("scan-worker-%d", i), func() {
			d.work(ctx)
		})
	}
	logger.Log.WithField("workers", d.workers).Info("сканер контента запущен")
}

// Enqueue ставит задачу в очередь. Возвращает false, если задача отброшена.
func (d *ScanDispatcher) Enqueue(req ScanRequest) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return d.drop(req, "сканер остановлен")
	}
	select {
	case d.jobs <- req:
		return true
	default:
		return d.drop(req, "очередь сканирования переполнена")
	}
}

func (d *ScanDispatcher) drop(req ScanRequest, reason string) bool {
	metrics.ScanErrors.WithLabelValues(metrics.StageDropped).Inc()
	logger.Log.WithFields(logrus.Fields{
		"content_type": req.Kind,
		"content_id":   req.ContentID,
	}).Warn(reason)
	return false
}

// Shutdown перестаёт принимать задачи и дожидается обработки очереди.
// По истечении ctx прерывает незавершённые проверки.
func (d *ScanDispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if d.cancel != nil {
			d.cancel()
		}
		return ctx.Err()
	}
}

func (d *ScanDispatcher) work(ctx context.Context) {
	for req := range d.jobs {
		d.process(ctx, req)
	}
}

// process проверяет одну задачу. Ошибки только логируются.
func (d *ScanDispatcher) process(ctx context.Context, req ScanRequest) {
	defer func() {
		if r := recover(); r != nil {
			metrics.ScanErrors.WithLabelValues(metrics.StagePanic).Inc()
			logger.Log.WithFields(logrus.Fields{
				"content_type": req.Kind,
				"content_id":   req.ContentID,
				"panic":        r,
				"stack":        string(debug.Stack()),
			}).Error("panic при сканировании контента")
		}
	}()

	if ctx.Err() != nil {
		return
	}
	if _, err := d.scanner.Scan(ctx, req); err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"content_type": req.Kind,
			"content_id":   req.ContentID,
		}).Warn("контент не проверен")
	}
}
