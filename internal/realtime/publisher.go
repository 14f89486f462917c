// Package realtime доставляет уведомления подключенным клиентам через Redis Pub/Sub и WebSocket.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/aidar/nexus-api/internal/domain"
)

// MessageTypeNotification тип сообщения с новым уведомлением
const MessageTypeNotification = "notification"

// ChannelPrefix префикс каналов уведомлений в Redis
const ChannelPrefix = "nexus:notifications:"

// Message конверт сообщения, которое получает клиент
type Message struct {
	Type         string               `json:"type"`
	Notification *domain.Notification `json:"notification,omitempty"`
}

// Channel возвращает имя канала пользователя
func Channel(userID string) string {
	return ChannelPrefix + userID
}

// RedisPublisher публикует уведомления в канал получателя
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher создает новый RedisPublisher
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Publish отправляет уведомление всем подписчикам канала пользователя
func (p *RedisPublisher) Publish(ctx context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(Message{Type: MessageTypeNotification, Notification: n})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := p.client.Publish(ctx, Channel(n.UserID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

// Subscribe подписывается на канал пользователя и дожидается подтверждения подписки
func (p *RedisPublisher) Subscribe(ctx context.Context, userID string) (*redis.PubSub, error) {
	pubsub := p.client.Subscribe(ctx, Channel(userID))

	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	return pubsub, nil
}

// NopPublisher используется, когда Redis не настроен
type NopPublisher struct{}

// Publish ничего не делает
func (NopPublisher) Publish(context.Context, *domain.Notification) error {
	return nil
}
