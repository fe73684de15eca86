package artist

import (
	"strconv"
	"strings"

	"github.com/artmart-next/internal/http/handlers/shared"
	"github.com/artmart-next/internal/http/response"
	"github.com/artmart-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 艺术家后台接口处理器入口
// 说明：所有接口都要求已登录且拥有艺术家资料，身份由路由中间件写入上下文。
type Handler struct {
	*provider.Container
	toaster *shared.Toaster
}

// New 创建艺术家处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c, toaster: shared.NewToaster(c.Config.Web)}
}

func parsePathID(c *gin.Context, invalidKey string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		shared.RespondError(c, response.CodeBadRequest, invalidKey, nil)
		return 0, false
	}
	return uint(id), true
}
