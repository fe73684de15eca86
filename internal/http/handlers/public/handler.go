package public

import (
	"github.com/artmart-next/internal/http/handlers/shared"
	"github.com/artmart-next/internal/provider"
)

// Handler 用户侧接口处理器入口
// 说明：登录注册、当前用户与艺术家资料创建。
type Handler struct {
	*provider.Container
	toaster *shared.Toaster
}

// New 创建用户侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c, toaster: shared.NewToaster(c.Config.Web)}
}
