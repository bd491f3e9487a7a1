package coach

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(
		m,
		goleak.IgnoreTopFunction("github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper"),
	)
}

func marshalChatMessage(t *testing.T, message ChatMessage) []byte {
	t.Helper()
	messageBytes, err := json.Marshal(message)
	require.NoError(t, err)
	return messageBytes
}

func TestChatHistory_Append(t *testing.T) {
	db, mock := redismock.NewClientMock()
	history := NewChatHistory(db)

	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	userMsg := ChatMessage{Type: ChatMessageTypeUser, Message: "how do I squat", Timestamp: now}
	aiMsg := ChatMessage{Type: ChatMessageTypeAI, Message: "with your legs", Timestamp: now}

	mock.ExpectRPush(chatHistoryKey, marshalChatMessage(t, userMsg)).SetVal(1)
	mock.ExpectRPush(chatHistoryKey, marshalChatMessage(t, aiMsg)).SetVal(2)
	mock.ExpectLTrim(chatHistoryKey, -chatHistoryLimit, -1).SetVal("OK")

	require.NoError(t, history.Append(t.Context(), userMsg, aiMsg))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChatHistory_Messages(t *testing.T) {
	db, mock := redismock.NewClientMock()
	history := NewChatHistory(db)

	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	userMsg := ChatMessage{Type: ChatMessageTypeUser, Message: "how do I squat", Timestamp: now}
	aiMsg := ChatMessage{Type: ChatMessageTypeAI, Message: "with your legs", Timestamp: now}

	mock.ExpectLRange(chatHistoryKey, 0, -1).SetVal([]string{
		string(marshalChatMessage(t, userMsg)),
		string(marshalChatMessage(t, aiMsg)),
	})

	messages, err := history.Messages(t.Context())
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, ChatMessageTypeUser, messages[0].Type)
	assert.Equal(t, "how do I squat", messages[0].Message)
	assert.Equal(t, ChatMessageTypeAI, messages[1].Type)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChatHistory_Messages_Empty(t *testing.T) {
	db, mock := redismock.NewClientMock()
	history := NewChatHistory(db)

	mock.ExpectLRange(chatHistoryKey, 0, -1).SetVal([]string{})

	messages, err := history.Messages(t.Context())
	require.NoError(t, err)
	assert.Empty(t, messages)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChatHistory_Messages_BrokenEntry(t *testing.T) {
	db, mock := redismock.NewClientMock()
	history := NewChatHistory(db)

	mock.ExpectLRange(chatHistoryKey, 0, -1).SetVal([]string{"not-json"})

	_, err := history.Messages(t.Context())
	require.Error(t, err)
}

func TestChatHistory_Clear(t *testing.T) {
	db, mock := redismock.NewClientMock()
	history := NewChatHistory(db)

	mock.ExpectDel(chatHistoryKey).SetVal(1)

	require.NoError(t, history.Clear(t.Context()))
	require.NoError(t, mock.ExpectationsWereMet())
}
