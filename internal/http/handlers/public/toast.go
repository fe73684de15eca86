package public

import (
	"github.com/artmart-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetToast 读取并清除一次性提示
func (h *Handler) GetToast(c *gin.Context) {
	response.Success(c, gin.H{"toast": h.toaster.Take(c)})
}
