package provider

import (
	"time"

	"github.com/artmart-next/internal/authz"
	"github.com/artmart-next/internal/cache"
	"github.com/artmart-next/internal/config"
	"github.com/artmart-next/internal/events"
	"github.com/artmart-next/internal/logger"
	"github.com/artmart-next/internal/models"
	"github.com/artmart-next/internal/payment/paystack"
	"github.com/artmart-next/internal/queue"
	"github.com/artmart-next/internal/repository"
	"github.com/artmart-next/internal/service"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config         *config.Config
	QueueClient    *queue.Client
	EventPublisher events.Publisher
	PaystackClient *paystack.Client

	// Repositories
	UserRepo      repository.UserRepository
	SessionRepo   repository.SessionRepository
	ArtistRepo    repository.ArtistRepository
	ArtworkRepo   repository.ArtworkRepository
	OrderRepo     repository.OrderRepository
	DiscountRepo  repository.DiscountRepository
	DashboardRepo repository.DashboardRepository

	// Services
	AuthzService          *authz.Service
	AuthService           *service.AuthService
	CaptchaService        *service.CaptchaService
	UploadService         *service.UploadService
	PreviewHashService    *service.BlurhashService
	ArtistService         *service.ArtistService
	CatalogService        *service.CatalogService
	OrderService          *service.OrderService
	OrderPlacementService *service.OrderPlacementService
	DiscountService       *service.DiscountService
	DashboardService      *service.DashboardService
}

// NewContainer 初始化容器，数据库需已通过 models.InitDB 打开
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:         cfg,
		QueueClient:    queueClient,
		EventPublisher: events.NewPublisher(&cfg.Events),
		PaystackClient: newPaystackClient(cfg.Paystack),
	}

	// 1. 初始化 Repositories
	c.initRepositories(models.DB)

	// 2. 初始化 Services
	c.initServices(models.DB)

	return c
}

// Close 释放队列与事件发布器
func (c *Container) Close() {
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			logger.Warnw("provider_close_event_publisher_failed", "error", err)
		}
	}
}

func newPaystackClient(cfg config.PaystackConfig) *paystack.Client {
	psCfg := paystack.Config{
		SecretKey:        cfg.SecretKey,
		APIBaseURL:       cfg.APIBaseURL,
		Country:          cfg.Country,
		PercentageCharge: decimal.NewFromFloat(cfg.PercentageCharge),
		Timeout:          time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
	if err := paystack.ValidateConfig(&psCfg); err != nil {
		logger.Warnw("provider_paystack_config_invalid", "error", err)
	}
	return paystack.NewClient(psCfg)
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.UserRepo = repository.NewUserRepository(db)
	c.SessionRepo = repository.NewSessionRepository(db)
	c.ArtistRepo = repository.NewArtistRepository(db)
	c.ArtworkRepo = repository.NewArtworkRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.DiscountRepo = repository.NewDiscountRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices(db *gorm.DB) {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	feePercent := decimal.NewFromFloat(c.Config.Marketplace.PlatformFeePercent)

	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.SessionRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.UploadService = service.NewUploadService(c.Config)
	c.PreviewHashService = service.NewBlurhashService()
	c.ArtistService = service.NewArtistService(c.ArtistRepo, c.PaystackClient, c.AuthzService)
	c.CatalogService = service.NewCatalogService(c.ArtworkRepo, c.UploadService, c.PreviewHashService)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ArtworkRepo, c.QueueClient, c.EventPublisher)
	c.OrderPlacementService = service.NewOrderPlacementService(c.OrderRepo, c.ArtworkRepo, c.DiscountRepo, feePercent)
	c.DiscountService = service.NewDiscountService(c.DiscountRepo, c.ArtworkRepo)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}
