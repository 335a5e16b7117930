package goroutine

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/karuteens/moderation/internal/logger"
)

// RecoveryHandler перехватывает panic в фоновых горутинах, чтобы сбой сканера не ронял процесс.
type RecoveryHandler struct {
	log     logrus.FieldLogger
	onPanic func(name string)
}

// NewRecoveryHandler создает обработчик. onPanic может быть nil.
func NewRecoveryHandler(log logrus.FieldLogger, onPanic func(name string)) *RecoveryHandler {
	return &RecoveryHandler{log: log, onPanic: onPanic}
}

func (rh *RecoveryHandler) recover(name string) {
	if r := recover(); r != nil {
		rh.log.WithFields(logrus.Fields{
			"goroutine": name,
			"panic":     r,
			"stack":     string(debug.Stack()),
		}).Error("panic в горутине")
		if rh.onPanic != nil {
			rh.onPanic(name)
		}
	}
}

// SafeGo запускает горутину с обработкой panic
func (rh *RecoveryHandler) SafeGo(name string, fn func()) {
	go func() {
		defer rh.recover(name)
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	go func() {
		defer rh.recover(name)
		fn(ctx)
	}()
}

// Group набор горутин, завершения которых можно дождаться.
// Panic в одной горутине не мешает Wait вернуться.
type Group struct {
	rh *RecoveryHandler
	wg sync.WaitGroup
}

func NewGroup(rh *RecoveryHandler) *Group {
	return &Group{rh: rh}
}

// Go запускает fn под recover и учитывает её в Wait.
func (g *Group) Go(name string, fn func()) {
	g.wg.Add(1)
	g.rh.SafeGo(name, func() {
		defer g.wg.Done()
		fn()
	})
}

// Wait блокируется до завершения всех запущенных горутин.
func (g *Group) Wait() {
	g.wg.Wait()
}

// SafeGo - упрощенная функция для запуска безопасной горутины
func SafeGo(name string, fn func()) {
	NewRecoveryHandler(logger.Log, nil).SafeGo(name, fn)
}

// SafeGoWithContext - упрощенная функция для запуска безопасной горутины с контекстом
func SafeGoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	NewRecoveryHandler(logger.Log, nil).SafeGoWithContext(ctx, name, fn)
}
