package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix  = "user:%s"
	pasteKeyPrefix = "paste:%s"
	pastesListKey  = "pastes:front"
)

const (
	UserTTL       = 5 * time.Minute
	PasteTTL      = 10 * time.Minute
	PastesListTTL = 30 * time.Second
)

func UserKey(userID string) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func PasteKey(slug string) string {
	return fmt.Sprintf(pasteKeyPrefix, slug)
}

func PastesListKey() string {
	return pastesListKey
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID string) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePaste(ctx context.Context, slug string) {
	Invalidate(ctx, PasteKey(slug))
	Invalidate(ctx, pastesListKey)
}

func InvalidatePastesList(ctx context.Context) {
	Invalidate(ctx, pastesListKey)
}
