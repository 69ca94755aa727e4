package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"botflow/internal/domain/models"
)

func newTestStore(t *testing.T) (*ConversationStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	store := NewConversationStoreWithClient(client)
	t.Cleanup(func() { store.Close() })

	return store, mr
}

func TestConversationStore_SaveAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	current := int64(42)
	conv := &models.Conversation{
		ID:                "c-1",
		ChatbotID:         7,
		UserPhone:         "15551234567",
		CurrentQuestionID: &current,
		Status:            models.ConversationStatusActive,
	}
	if err := store.Save(ctx, conv); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, 7, "15551234567")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() = nil, want conversation")
	}
	if got.ID != "c-1" || got.CurrentQuestionID == nil || *got.CurrentQuestionID != 42 {
		t.Errorf("Get() = %+v", got)
	}
}

func TestConversationStore_GetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.Get(context.Background(), 7, "nobody")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %+v, want nil", got)
	}
}

func TestConversationStore_KeysScopedByChatbot(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, &models.Conversation{ID: "a", ChatbotID: 1, UserPhone: "555"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Same phone, different chatbot: separate conversation.
	got, err := store.Get(ctx, 2, "555")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get(chatbot 2) = %+v, want nil", got)
	}
}

func TestConversationStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, &models.Conversation{ID: "a", ChatbotID: 1, UserPhone: "555"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(ctx, 1, "555"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	got, err := store.Get(ctx, 1, "555")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Error("conversation survived Delete()")
	}
}

func TestConversationStore_Expiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, &models.Conversation{ID: "a", ChatbotID: 1, UserPhone: "555"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	mr.FastForward(DefaultConversationTTL + time.Minute)

	got, err := store.Get(ctx, 1, "555")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Error("conversation survived its TTL")
	}
}
