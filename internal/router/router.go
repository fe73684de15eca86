package router

import (
	"sort"
	"strings"

	"github.com/artmart-next/internal/authz"
	"github.com/artmart-next/internal/cache"
	"github.com/artmart-next/internal/config"
	artisthandlers "github.com/artmart-next/internal/http/handlers/artist"
	publichandlers "github.com/artmart-next/internal/http/handlers/public"
	"github.com/artmart-next/internal/http/response"
	"github.com/artmart-next/internal/logger"
	"github.com/artmart-next/internal/metrics"
	"github.com/artmart-next/internal/provider"

	"github.com/gin-gonic/gin"
)

const artistRoutePrefix = "/api/v1/artist/"

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按用户侧/艺术家后台分组）
	publicHandler := publichandlers.New(c)
	artistHandler := artisthandlers.New(c)
	signInRule := SignInRateLimitRule(cfg.Security.LoginRateLimit, cfg.Redis.Prefix)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(metrics.GinMiddleware())

	// 上传的作品图片
	r.Static("/uploads", c.UploadService.RootDir())

	if cfg.Metrics.Enabled && strings.TrimSpace(cfg.Metrics.Addr) == "" {
		r.GET(cfg.Metrics.MetricsPath(), gin.WrapH(metrics.Handler()))
	}

	userAuth := UserAuthMiddleware(c.AuthService, cfg.Web)

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		apiV1.GET("/toast", publicHandler.GetToast)
		apiV1.GET("/captcha/image", publicHandler.GetImageCaptcha)

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/sign-up", publicHandler.SignUp)
			auth.POST("/sign-in", RateLimitMiddleware(cache.Client(), signInRule, KeyByIPAndJSONField("email")), publicHandler.SignIn)
			auth.POST("/sign-out", userAuth, publicHandler.SignOut)
		}

		// 用户接口，艺术家身份可选
		user := apiV1.Group("")
		user.Use(userAuth, ArtistMiddleware(c.ArtistService, false, cfg.Web))
		{
			user.GET("/me", publicHandler.GetMe)
			user.GET("/me/artist", publicHandler.GetMyArtist)
			user.POST("/me/artist", publicHandler.CreateMyArtist)
			user.GET("/artist/banks", publicHandler.ListBanks)
			user.POST("/artist/bank/validate", publicHandler.ValidateBank)
		}

		// 艺术家后台接口
		artist := apiV1.Group("/artist")
		artist.Use(userAuth, ArtistMiddleware(c.ArtistService, true, cfg.Web), RBACMiddleware(c.AuthzService, cfg.Web))
		{
			// 统计
			artist.GET("/dashboard", artistHandler.GetDashboard)

			// 作品
			artist.GET("/artworks", artistHandler.ListArtworks)
			artist.POST("/artworks", artistHandler.CreateArtwork)
			artist.GET("/artworks/:id", artistHandler.GetArtwork)

			// 订单
			artist.GET("/orders", artistHandler.ListOrders)
			artist.GET("/orders/pending", artistHandler.ListPendingOrders)
			artist.GET("/orders/recent", artistHandler.ListRecentSales)
			artist.PATCH("/orders/:id/shipping", artistHandler.UpdateShippingStatus)

			// 折扣
			artist.GET("/discounts", artistHandler.ListDiscounts)
			artist.POST("/discounts", artistHandler.CreateDiscount)

			// 权限目录
			artist.GET("/permissions", func(ctx *gin.Context) {
				response.Success(ctx, buildArtistPermissionCatalog(r))
			})
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type permissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildArtistPermissionCatalog 汇总受 RBAC 保护的艺术家路由
func buildArtistPermissionCatalog(engine *gin.Engine) []permissionCatalogItem {
	if engine == nil {
		return []permissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]permissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, artistRoutePrefix) || isUserLevelArtistRoute(item.Path) {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, permissionCatalogItem{
			Module:     derivePermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})
	return items
}

// isUserLevelArtistRoute 资料创建前即可访问的银行接口
func isUserLevelArtistRoute(path string) bool {
	return path == artistRoutePrefix+"banks" || path == artistRoutePrefix+"bank/validate"
}

func derivePermissionModule(object string) string {
	segments := strings.Split(strings.Trim(strings.TrimSpace(object), "/"), "/")
	if len(segments) >= 2 && segments[0] == "artist" {
		return segments[1]
	}
	if segments[0] == "" {
		return "system"
	}
	return segments[0]
}
