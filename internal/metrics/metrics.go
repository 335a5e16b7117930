// Package metrics объявляет prometheus-метрики сканера и очереди модерации.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Стадии, на которых сканирование может завершиться ошибкой.
const (
	StageDecode  = "decode"
	StageSubmit  = "submit"
	StageDropped = "dropped"
	StagePanic   = "panic"
)

var ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_scans_total",
	Help: "Количество проверок контента сканером",
}, []string{"content_type", "flagged"})

var ScanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "moderation_scan_duration_seconds",
	Help:    "Время классификации одного объекта контента",
	Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
}, []string{"content_type"})

var FlagsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_flags_submitted_total",
	Help: "Сохранённые автофлаги по типу нарушения",
}, []string{"flag_type"})

var ScanErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_scan_errors_total",
	Help: "Ошибки фонового сканирования, которые не дошли до пользователя",
}, []string{"stage"})

var QueueWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_queue_writes_total",
	Help: "Изменения очереди модерации по типу действия журнала",
}, []string{"action"})

var FeedClients = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "moderation_feed_clients",
	Help: "Подключённые к ленте автофлагов модераторы",
})

// ObserveScan учитывает одну проверку.
func ObserveScan(contentType string, flagged bool, seconds float64) {
	label := "false"
	if flagged {
		label = "true"
	}
	ScansTotal.WithLabelValues(contentType, label).Inc()
	ScanDuration.WithLabelValues(contentType).Observe(seconds)
}
