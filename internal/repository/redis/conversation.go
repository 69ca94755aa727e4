// Package redis provides the Redis-backed conversation store used by the
// WhatsApp channel, which cannot keep conversation position client-side.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"botflow/internal/domain/models"
)

// DefaultConversationTTL bounds how long an idle conversation keeps its
// position. After expiry the contact simply restarts at the welcome question.
const DefaultConversationTTL = 30 * 24 * time.Hour

// ConversationStore implements repositories.ConversationStore on Redis.
type ConversationStore struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewConversationStore connects to Redis and verifies the connection.
func NewConversationStore(redisURL string) (*ConversationStore, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewConversationStoreWithClient(client), nil
}

// NewConversationStoreWithClient wraps an existing client (tests).
func NewConversationStoreWithClient(client *goredis.Client) *ConversationStore {
	return &ConversationStore{
		client: client,
		prefix: "conversation:",
		ttl:    DefaultConversationTTL,
	}
}

func (s *ConversationStore) key(chatbotID int64, userPhone string) string {
	return fmt.Sprintf("%s%d:%s", s.prefix, chatbotID, userPhone)
}

// Get returns the conversation for a chatbot/contact pair, or nil when none
// exists or it has expired.
func (s *ConversationStore) Get(ctx context.Context, chatbotID int64, userPhone string) (*models.Conversation, error) {
	data, err := s.client.Get(ctx, s.key(chatbotID, userPhone)).Result()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	var conv models.Conversation
	if err := json.Unmarshal([]byte(data), &conv); err != nil {
		return nil, fmt.Errorf("unmarshal conversation: %w", err)
	}

	return &conv, nil
}

// Save stores a conversation, refreshing its TTL.
func (s *ConversationStore) Save(ctx context.Context, conv *models.Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}

	key := s.key(conv.ChatbotID, conv.UserPhone)
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}

	return nil
}

// Delete discards a conversation's position, resetting the contact to the
// welcome question on their next message.
func (s *ConversationStore) Delete(ctx context.Context, chatbotID int64, userPhone string) error {
	if err := s.client.Del(ctx, s.key(chatbotID, userPhone)).Err(); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection.
func (s *ConversationStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *ConversationStore) Close() error {
	return s.client.Close()
}
