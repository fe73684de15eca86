package public

import (
	"errors"

	"github.com/artmart-next/internal/http/handlers/shared"
	"github.com/artmart-next/internal/http/response"
	"github.com/artmart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha 获取登录图片验证码
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		if errors.Is(err, service.ErrCaptchaConfigInvalid) {
			shared.RespondError(c, response.CodeBadRequest, "error.captcha_disabled", nil)
			return
		}
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}
