// Package moderation содержит автоматический анализ пользовательского контента:
// лексический сканер с оценкой уверенности и классификаторы по типам контента.
package moderation

import (
	"math"
	"strings"

	"github.com/karuteens/moderation/internal/models"
)

// DefaultThreshold порог уверенности, строго выше которого контент помечается.
const DefaultThreshold = 0.3

// ScanResult результат одной проверки текста. Поля кроме Flagged заполнены только при Flagged=true.
type ScanResult struct {
	Flagged         bool     `json:"flagged"`
	FlagType        *string  `json:"flag_type,omitempty"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`
	Details         any      `json:"details,omitempty"`
}

// MatchDetails количество совпадений по каждой категории, ключ: тип флага.
type MatchDetails struct {
	Matches map[string]int `json:"matches"`
}

// Classifier стратегия оценки текста. KeywordScanner эвристическая реализация,
// ML-модель подключается реализацией этого же интерфейса.
type Classifier interface {
	Scan(text string) ScanResult
}

// Category набор ключевых слов одной категории нарушений.
type Category struct {
	FlagType string
	Keywords []string
}

// Наборы ключевых слов. Порядок категорий задаёт приоритет при равенстве оценок.
var (
	hateSpeechKeywords = []string{
		"hate", "racist", "discriminat", "bigot", "nazi", "kkk",
		"white power", "racial slur", "ethnic slur",
	}
	spamKeywords = []string{
		"click here", "free money", "win now", "urgent", "act now",
		"limited time", "risk free", "guarantee", "no obligation",
	}
	sexualKeywords = []string{
		"nude", "sex", "porn", "xxx", "adult content", "explicit",
	}
)

// DefaultCategories возвращает стандартные категории в порядке оценки.
func DefaultCategories() []Category {
	return []Category{
		{FlagType: models.FlagTypeHateSpeech, Keywords: hateSpeechKeywords},
		{FlagType: models.FlagTypeSpam, Keywords: spamKeywords},
		{FlagType: models.FlagTypeNudity, Keywords: sexualKeywords},
	}
}

// KeywordScanner подсчитывает вхождения ключевых слов как подстрок без токенизации.
type KeywordScanner struct {
	categories []Category
	threshold  float64
}

// Option настраивает KeywordScanner.
type Option func(*KeywordScanner)

// WithThreshold задаёт порог срабатывания.
func WithThreshold(threshold float64) Option {
	return func(s *KeywordScanner) {
		s.threshold = threshold
	}
}

// WithCategories заменяет наборы ключевых слов.
func WithCategories(categories []Category) Option {
	return func(s *KeywordScanner) {
		s.categories = categories
	}
}

// NewKeywordScanner создаёт сканер со стандартными категориями и порогом 0.3.
func NewKeywordScanner(opts ...Option) *KeywordScanner {
	s := &KeywordScanner{
		categories: DefaultCategories(),
		threshold:  DefaultThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}

	normalized := make([]Category, 0, len(s.categories))
	for _, cat := range s.categories {
		keywords := make([]string, 0, len(cat.Keywords))
		for _, kw := range cat.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		normalized = append(normalized, Category{FlagType: cat.FlagType, Keywords: keywords})
	}
	s.categories = normalized

	return s
}

// Threshold возвращает порог срабатывания.
func (s *KeywordScanner) Threshold() float64 {
	return s.threshold
}

// FlagTypes возвращает типы нарушений в порядке приоритета.
func (s *KeywordScanner) FlagTypes() []string {
	out := make([]string, 0, len(s.categories))
	for _, cat := range s.categories {
		out = append(out, cat.FlagType)
	}
	return out
}

// Scan оценивает текст. Оценка категории = совпадения / размер набора,
// итоговая оценка равна максимуму по категориям, первая категория с максимумом побеждает.
func (s *KeywordScanner) Scan(text string) ScanResult {
	lower := strings.ToLower(text)

	counts := make(map[string]int, len(s.categories))
	var (
		best     float64
		bestType string
	)
	for _, cat := range s.categories {
		matches := 0
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				matches++
			}
		}
		counts[cat.FlagType] = matches

		if matches == 0 {
			continue
		}
		score := math.Min(float64(matches)/float64(len(cat.Keywords)), 1)
		if score > best {
			best = score
			bestType = cat.FlagType
		}
	}

	if best <= s.threshold {
		return ScanResult{Flagged: false}
	}

	return ScanResult{
		Flagged:         true,
		FlagType:        &bestType,
		ConfidenceScore: &best,
		Details:         MatchDetails{Matches: counts},
	}
}
