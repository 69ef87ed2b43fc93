//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 使用方式：
// Step 1: 修改本文件的Providers
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，main.go即可改为调用InitializeApp()
//
// 核心概念：
// - Provider: 提供依赖的构造函数（如NewBookRepository）
// - Injector: 声明最终要构造的目标类型（*gin.Engine）
// - wire.Build(): 告诉Wire如何组装依赖链

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appbook "github.com/xiebiao/booky/internal/application/book"
	appcart "github.com/xiebiao/booky/internal/application/cart"
	appchat "github.com/xiebiao/booky/internal/application/chat"
	apporder "github.com/xiebiao/booky/internal/application/order"
	apprepl "github.com/xiebiao/booky/internal/application/replenishment"
	appreport "github.com/xiebiao/booky/internal/application/report"
	appuser "github.com/xiebiao/booky/internal/application/user"
	"github.com/xiebiao/booky/internal/domain/user"
	"github.com/xiebiao/booky/internal/infrastructure/config"
	"github.com/xiebiao/booky/internal/infrastructure/llm"
	"github.com/xiebiao/booky/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/booky/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/booky/internal/interface/http/handler"
	"github.com/xiebiao/booky/internal/interface/http/middleware"
	"github.com/xiebiao/booky/pkg/jwt"
	"github.com/xiebiao/booky/pkg/mq"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	redis.NewClient,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewBookRepository,
	mysql.NewCartRepository,
	mysql.NewOrderRepository,
	mysql.NewReplenishmentRepository,
	mysql.NewReportRepository,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewRefreshTokenUseCase,
	appuser.NewProfileUseCase,
	appuser.NewUpdateProfileUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListCategoriesUseCase,
	appbook.NewAddBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewUpdateStockUseCase,
	appcart.NewAddItemUseCase,
	appcart.NewUpdateItemUseCase,
	appcart.NewRemoveItemUseCase,
	appcart.NewClearCartUseCase,
	appcart.NewGetCartUseCase,
	apporder.NewCheckoutUseCase,
	apporder.NewMyOrdersUseCase,
	apporder.NewGetOrderUseCase,
	apporder.NewCancelOrderUseCase,
	apprepl.NewListReplenishmentsUseCase,
	apprepl.NewConfirmReplenishmentUseCase,
	appreport.NewReportsUseCase,
	appchat.NewChatUseCase,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewCartHandler,
	handler.NewOrderHandler,
	handler.NewAdminHandler,
	handler.NewReportHandler,
	handler.NewChatHandler,
)

// provideJWTManager 从配置创建JWT管理器
// 说明：jwt.NewManager的参数要从Config中提取，Wire无法自动拆解结构体字段
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideOrderTxManager 绑定订单用例的事务管理接口
func provideOrderTxManager(db *gorm.DB) apporder.TxManager {
	return mysql.NewTxManager(db)
}

// provideReplTxManager 绑定补货用例的事务管理接口
func provideReplTxManager(db *gorm.DB) apprepl.TxManager {
	return mysql.NewTxManager(db)
}

// provideEventPublisher 创建事件发布者
// MQ未配置时返回nil（接口层会跳过发布），配置错误直接失败
func provideEventPublisher(cfg *config.Config) (apporder.EventPublisher, error) {
	if cfg.MQ.URL == "" {
		return nil, nil
	}
	return mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
}

// provideLLMClient 绑定智能助手客户端接口
func provideLLMClient(cfg *config.Config) appchat.LLMClient {
	return llm.NewOllamaClient(cfg)
}

// provideGinEngine 创建并配置Gin引擎
// 路由注册复用main.go的registerRoutes，保证手动注入与Wire注入走同一份路由表
func provideGinEngine(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	adminHandler *handler.AdminHandler,
	reportHandler *handler.ReportHandler,
	chatHandler *handler.ChatHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.Metrics())

	registerRoutes(r, userHandler, bookHandler, cartHandler, orderHandler,
		adminHandler, reportHandler, chatHandler, authMiddleware)

	return r
}

// InitializeApp 初始化整个应用
// Wire会分析依赖链并在wire_gen.go中生成按正确顺序调用构造函数的代码
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideOrderTxManager,
		provideReplTxManager,
		provideEventPublisher,
		provideLLMClient,
		provideGinEngine,
	)

	// 占位返回值，实际代码由wire_gen.go生成
	return nil, nil
}
