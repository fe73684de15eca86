package public

import (
	"errors"
	"time"

	"github.com/artmart-next/internal/constants"
	"github.com/artmart-next/internal/http/handlers/shared"
	"github.com/artmart-next/internal/http/response"
	"github.com/artmart-next/internal/i18n"
	"github.com/artmart-next/internal/models"
	"github.com/artmart-next/internal/service"

	"github.com/gin-gonic/gin"
)

var authErrorRules = []shared.MappedError{
	{Target: service.ErrEmailExists, Code: response.CodeBadRequest, Key: "error.email_exists"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
	{Target: service.ErrUserDisabled, Code: response.CodeUnauthorized, Key: "error.user_disabled"},
}

// SignUpRequest 注册请求
type SignUpRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// SignUp 用户注册
func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	result, err := h.AuthService.SignUp(c.Request.Context(), service.SignUpInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		shared.RespondWithMappedError(c, err, authErrorRules, response.CodeInternal, "error.internal")
		return
	}

	shared.SetSessionCookie(c, h.Config.Web, result.Token, result.ExpiresAt)
	h.toaster.SetKey(c, constants.ToastIntentSuccess, "success.signed_up")
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "success.signed_up"), authPayload(result))
}

// SignInRequest 登录请求
type SignInRequest struct {
	Email          string                       `json:"email"`
	Password       string                       `json:"password"`
	CaptchaPayload shared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// SignIn 邮箱密码登录
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if captchaErr := h.CaptchaService.VerifySignIn(req.CaptchaPayload.ToServicePayload()); captchaErr != nil {
		switch {
		case errors.Is(captchaErr, service.ErrCaptchaRequired):
			shared.RespondError(c, response.CodeBadRequest, "error.captcha_required", nil)
		case errors.Is(captchaErr, service.ErrCaptchaInvalid):
			shared.RespondError(c, response.CodeBadRequest, "error.captcha_invalid", nil)
		default:
			shared.RespondError(c, response.CodeInternal, "error.captcha_config_invalid", captchaErr)
		}
		return
	}

	result, err := h.AuthService.SignIn(c.Request.Context(), service.SignInInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			shared.RequestLog(c).Infow("user_sign_in_rejected", "client_ip", c.ClientIP())
		}
		shared.RespondWithMappedError(c, err, authErrorRules, response.CodeInternal, "error.internal")
		return
	}

	shared.SetSessionCookie(c, h.Config.Web, result.Token, result.ExpiresAt)
	h.toaster.SetKey(c, constants.ToastIntentSuccess, "success.signed_in")
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "success.signed_in"), authPayload(result))
}

// SignOut 注销当前会话
func (h *Handler) SignOut(c *gin.Context) {
	if err := h.AuthService.SignOut(c.Request.Context(), shared.CurrentSessionID(c)); err != nil {
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	shared.ClearSessionCookie(c, h.Config.Web)
	h.toaster.SetKey(c, constants.ToastIntentInfo, "success.signed_out")
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "success.signed_out"), gin.H{"signed_out": true})
}

// GetMe 获取当前用户及可选的艺术家身份
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := shared.RequireUserID(c)
	if !ok {
		return
	}
	user, err := h.AuthService.GetUser(userID)
	if err != nil {
		shared.RespondWithMappedError(c, err, nil, response.CodeInternal, "error.internal")
		return
	}
	artist, _ := shared.CurrentArtist(c)
	response.Success(c, gin.H{
		"user":   userPayload(user),
		"artist": artist,
	})
}

func authPayload(result *service.AuthResult) gin.H {
	return gin.H{
		"user":       userPayload(result.User),
		"token":      result.Token,
		"expires_at": result.ExpiresAt.Format(time.RFC3339),
	}
}

func userPayload(user *models.User) gin.H {
	if user == nil {
		return nil
	}
	return gin.H{
		"id":             user.ID,
		"name":           user.Name,
		"email":          user.Email,
		"image":          user.Image,
		"email_verified": user.EmailVerified,
		"created_at":     user.CreatedAt,
	}
}
