package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/karuteens/moderation/internal/logger"
	"github.com/karuteens/moderation/internal/metrics"
	"github.com/karuteens/moderation/internal/models"
)

// EventAutoFlagCreated событие ленты о новом автофлаге.
const EventAutoFlagCreated = "auto_flag.created"

// Hub рассылает события очереди модерации всем подключённым модераторам.
// Доступ к ленте проверяется до регистрации клиента.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// Run запускает главный цикл хаба до отмены ctx.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case payload := <-h.broadcast:
			h.send(payload)
		}
	}
}

// Register добавляет клиента. После остановки хаба возвращает false.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// NotifyAutoFlag публикует новый автофлаг. Никогда не блокирует сканер:
// при переполненном буфере событие отбрасывается.
func (h *Hub) NotifyAutoFlag(flag *models.AutoFlag) {
	raw, err := encode(EventAutoFlagCreated, flag)
	if err != nil {
		logger.Log.WithError(err).Warn("ws: событие не отправлено")
		return
	}
	select {
	case h.broadcast <- raw:
	default:
		logger.Log.WithField("flag_id", flag.ID).Warn("ws: буфер ленты переполнен, событие пропущено")
	}
}

// ClientCount возвращает число подключённых клиентов.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// encode формирует сообщение вида {"type": ..., "data": ...}.
func encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(map[string]any{
		"type": event,
		"data": data,
	})
	if err != nil {
		return nil, fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}
	return raw, nil
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
	metrics.FeedClients.Set(float64(len(h.clients)))
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	metrics.FeedClients.Set(float64(len(h.clients)))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
	metrics.FeedClients.Set(0)
}

func (h *Hub) send(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// Медленный клиент: отключаем, writePump закроет соединение.
			delete(h.clients, client)
			close(client.send)
		}
	}
	metrics.FeedClients.Set(float64(len(h.clients)))
}
