package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	chatHistoryKey   = "liftlog-coach-chat-history"
	chatHistoryLimit = 50

	ChatMessageTypeUser = "user"
	ChatMessageTypeAI   = "ai"
)

type ChatMessage struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatHistory keeps the coach conversation in redis, capped to the most
// recent messages.
type ChatHistory struct {
	redisClient *redis.Client
}

func NewChatHistory(redisClient *redis.Client) *ChatHistory {
	return &ChatHistory{
		redisClient: redisClient,
	}
}

func (ch *ChatHistory) Append(ctx context.Context, messages ...ChatMessage) error {
	for _, message := range messages {
		messageBytes, err := json.Marshal(message)
		if err != nil {
			return fmt.Errorf("marshal chat message: %w", err)
		}
		if err := ch.redisClient.RPush(ctx, chatHistoryKey, messageBytes).Err(); err != nil {
			return fmt.Errorf("push chat message: %w", err)
		}
	}

	// keep only the latest messages
	if err := ch.redisClient.LTrim(ctx, chatHistoryKey, -chatHistoryLimit, -1).Err(); err != nil {
		return fmt.Errorf("trim chat history: %w", err)
	}

	return nil
}

func (ch *ChatHistory) Messages(ctx context.Context) ([]ChatMessage, error) {
	rawMessages, err := ch.redisClient.LRange(ctx, chatHistoryKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("get chat history: %w", err)
	}

	messages := make([]ChatMessage, 0, len(rawMessages))
	for _, raw := range rawMessages {
		var message ChatMessage
		if err := json.Unmarshal([]byte(raw), &message); err != nil {
			return nil, fmt.Errorf("unmarshal chat message: %w", err)
		}
		messages = append(messages, message)
	}

	return messages, nil
}

func (ch *ChatHistory) Clear(ctx context.Context) error {
	return ch.redisClient.Del(ctx, chatHistoryKey).Err()
}
