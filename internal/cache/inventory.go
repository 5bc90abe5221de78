package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	RequestKeyPrefix = "request:%d"
	TrailKeyPrefix   = "request:%d:trail"
	RosterKey        = "approvers:roster"
	UserKeyPrefix    = "user:%d"
)

const (
	RequestTTL = 5 * time.Minute
	TrailTTL   = 2 * time.Minute
	RosterTTL  = 10 * time.Minute
	UserTTL    = 5 * time.Minute
)

func RequestKey(requestID uint) string {
	return fmt.Sprintf(RequestKeyPrefix, requestID)
}

func TrailKey(requestID uint) string {
	return fmt.Sprintf(TrailKeyPrefix, requestID)
}

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateRequest drops both the record and its derived audit trail.
func InvalidateRequest(ctx context.Context, requestID uint) {
	Invalidate(ctx, RequestKey(requestID))
	Invalidate(ctx, TrailKey(requestID))
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateRoster drops the cached approver roster after any user change.
func InvalidateRoster(ctx context.Context) {
	Invalidate(ctx, RosterKey)
}
