package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Subscriber открывает подписку на канал пользователя
type Subscriber interface {
	Subscribe(ctx context.Context, userID string) (*redis.PubSub, error)
}

// Stream пересылает уведомления пользователя из Redis в WebSocket соединение
type Stream struct {
	subscriber Subscriber
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

// NewStream создает Stream. Пустой allowedOrigins разрешает только запросы без Origin.
func NewStream(subscriber Subscriber, allowedOrigins []string, logger *slog.Logger) *Stream {
	if logger == nil {
		logger = slog.Default()
	}

	return &Stream{
		subscriber: subscriber,
		logger:     logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || origin == allowed {
						return true
					}
				}
				return false
			},
		},
	}
}

// Serve обновляет соединение до WebSocket и держит его открытым, пока клиент не отключится
func (s *Stream) Serve(w http.ResponseWriter, r *http.Request, userID string) {
	log := s.logger.With(slog.String("user_id", userID))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	pubsub, err := s.subscriber.Subscribe(ctx, userID)
	if err != nil {
		log.Error("notification stream subscribe failed", slog.String("error", err.Error()))
		http.Error(w, "notification stream unavailable", http.StatusServiceUnavailable)
		return
	}
	defer pubsub.Close()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	if err := s.write(conn, websocket.TextMessage, []byte(`{"type":"connected"}`)); err != nil {
		return
	}

	log.Debug("notification stream opened")

	// Client frames are ignored; reading is required to process pongs and close frames
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Debug("notification stream read failed", slog.String("error", err.Error()))
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			log.Debug("notification stream closed")
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if err := s.write(conn, websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Debug("notification stream write failed", slog.String("error", err.Error()))
				return
			}
		case <-ticker.C:
			if err := s.write(conn, websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Stream) write(conn *websocket.Conn, messageType int, data []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(messageType, data)
}
