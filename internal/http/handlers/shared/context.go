package shared

import (
	"github.com/artmart-next/internal/http/response"
	"github.com/artmart-next/internal/models"

	"github.com/gin-gonic/gin"
)

// 请求上下文键
const (
	ContextKeyUserID    = "user_id"
	ContextKeySessionID = "session_id"
	ContextKeyArtist    = "artist"
)

// SetCurrentUser 写入已认证用户与会话
func SetCurrentUser(c *gin.Context, userID uint, sessionID string) {
	c.Set(ContextKeyUserID, userID)
	c.Set(ContextKeySessionID, sessionID)
}

// CurrentUserID 读取已认证用户 ID，未认证时返回 false
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok && id > 0
}

// CurrentSessionID 读取当前会话 ID
func CurrentSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}

// SetCurrentArtist 写入当前艺术家身份，nil 表示用户尚未创建艺术家资料
func SetCurrentArtist(c *gin.Context, artist *models.Artist) {
	c.Set(ContextKeyArtist, artist)
}

// CurrentArtist 读取当前艺术家身份
func CurrentArtist(c *gin.Context) (*models.Artist, bool) {
	value, exists := c.Get(ContextKeyArtist)
	if !exists {
		return nil, false
	}
	artist, ok := value.(*models.Artist)
	if !ok || artist == nil {
		return nil, false
	}
	return artist, true
}

// RequireUserID 读取用户 ID，缺失时直接返回未认证响应。
func RequireUserID(c *gin.Context) (uint, bool) {
	userID, ok := CurrentUserID(c)
	if !ok {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	return userID, true
}

// RequireArtist 读取艺术家身份，缺失时直接返回 403。
func RequireArtist(c *gin.Context) (*models.Artist, bool) {
	artist, ok := CurrentArtist(c)
	if !ok {
		RespondError(c, response.CodeForbidden, "error.artist_profile_missing", nil)
		return nil, false
	}
	return artist, true
}
