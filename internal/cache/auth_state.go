package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/artmart-next/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// SessionAuthState 会话鉴权快照
// expires_at 为 Unix 秒时间戳；仅用于服务端 Redis 缓存
type SessionAuthState struct {
	SessionID    string `json:"session_id"`
	UserID       uint   `json:"user_id"`
	Status       string `json:"status"`
	TokenVersion uint64 `json:"token_version"`
	ExpiresAt    int64  `json:"expires_at"`
}

func sessionAuthStateKey(sessionID string) string {
	return fmt.Sprintf("auth:session:%s", sessionID)
}

// BuildSessionAuthState 从会话与用户构建鉴权快照
func BuildSessionAuthState(session *models.Session, user *models.User) *SessionAuthState {
	if session == nil || user == nil {
		return nil
	}
	return &SessionAuthState{
		SessionID:    session.ID,
		UserID:       user.ID,
		Status:       user.Status,
		TokenVersion: user.TokenVersion,
		ExpiresAt:    session.ExpiresAt.Unix(),
	}
}

// Expired 判断快照对应的会话是否过期
func (s *SessionAuthState) Expired(now time.Time) bool {
	return s == nil || now.Unix() >= s.ExpiresAt
}

// GetSessionAuthState 获取会话鉴权快照
func GetSessionAuthState(ctx context.Context, sessionID string) (*SessionAuthState, bool, error) {
	if sessionID == "" {
		return nil, false, nil
	}
	var state SessionAuthState
	hit, err := GetJSON(ctx, sessionAuthStateKey(sessionID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetSessionAuthState 写入会话鉴权快照，TTL 不超过会话剩余时长
func SetSessionAuthState(ctx context.Context, state *SessionAuthState) error {
	if state == nil || state.SessionID == "" {
		return nil
	}
	ttl := authStateCacheTTL
	if remaining := time.Until(time.Unix(state.ExpiresAt, 0)); remaining < ttl {
		ttl = remaining
	}
	if ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, sessionAuthStateKey(state.SessionID), state, ttl)
}

// DelSessionAuthState 删除会话鉴权快照
func DelSessionAuthState(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return Del(ctx, sessionAuthStateKey(sessionID))
}
