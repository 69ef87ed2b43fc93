package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

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
	"github.com/xiebiao/booky/pkg/metrics"
	"github.com/xiebiao/booky/pkg/mq"
	"github.com/xiebiao/booky/pkg/response"
)

// main 主程序入口
// 说明：手动依赖注入（Wire配置见wire.go，需要时用 wire gen ./cmd/api 生成）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 初始化Prometheus指标（必须在业务代码使用指标前完成）
	metrics.InitMetrics()

	// 3. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 4. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 5. 初始化RabbitMQ（可选：URL为空时跳过，事件发布降级为不发布）
	var publisher apporder.EventPublisher
	if cfg.MQ.URL != "" {
		p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			log.Fatalf("初始化RabbitMQ失败: %v", err)
		}
		defer p.Close()
		publisher = p
		fmt.Printf("  - RabbitMQ: %s (exchange=%s)\n", cfg.MQ.URL, cfg.MQ.Exchange)
	} else {
		fmt.Printf("  - RabbitMQ: 未配置，领域事件不发布\n")
	}

	// 6. 依赖注入（手动组装）
	// Repository ← Service ← UseCase ← Handler

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	replRepo := mysql.NewReplenishmentRepository(db)
	reportRepo := mysql.NewReportRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
	llmClient := llm.NewOllamaClient(cfg)

	// 领域层
	userService := user.NewService(userRepo)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager)
	refreshUseCase := appuser.NewRefreshTokenUseCase(jwtManager)
	profileUseCase := appuser.NewProfileUseCase(userRepo)
	updateProfileUseCase := appuser.NewUpdateProfileUseCase(userService)

	listBooksUseCase := appbook.NewListBooksUseCase(bookRepo)
	getBookUseCase := appbook.NewGetBookUseCase(bookRepo)
	categoriesUseCase := appbook.NewListCategoriesUseCase(bookRepo)
	addBookUseCase := appbook.NewAddBookUseCase(bookRepo)
	updateBookUseCase := appbook.NewUpdateBookUseCase(bookRepo)
	updateStockUseCase := appbook.NewUpdateStockUseCase(bookRepo)

	addItemUseCase := appcart.NewAddItemUseCase(cartRepo, bookRepo)
	updateItemUseCase := appcart.NewUpdateItemUseCase(cartRepo, bookRepo)
	removeItemUseCase := appcart.NewRemoveItemUseCase(cartRepo)
	clearCartUseCase := appcart.NewClearCartUseCase(cartRepo)
	getCartUseCase := appcart.NewGetCartUseCase(cartRepo)

	checkoutUseCase := apporder.NewCheckoutUseCase(cartRepo, bookRepo, orderRepo, replRepo, txManager, publisher)
	myOrdersUseCase := apporder.NewMyOrdersUseCase(orderRepo)
	getOrderUseCase := apporder.NewGetOrderUseCase(orderRepo)
	cancelOrderUseCase := apporder.NewCancelOrderUseCase(orderRepo, bookRepo, txManager, publisher)

	listReplUseCase := apprepl.NewListReplenishmentsUseCase(replRepo)
	confirmReplUseCase := apprepl.NewConfirmReplenishmentUseCase(replRepo, bookRepo, txManager)

	reportsUseCase := appreport.NewReportsUseCase(reportRepo)
	chatUseCase := appchat.NewChatUseCase(llmClient)

	// 接口层
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, refreshUseCase, profileUseCase, updateProfileUseCase, sessionStore)
	bookHandler := handler.NewBookHandler(listBooksUseCase, getBookUseCase, categoriesUseCase)
	cartHandler := handler.NewCartHandler(addItemUseCase, updateItemUseCase, removeItemUseCase, clearCartUseCase, getCartUseCase)
	orderHandler := handler.NewOrderHandler(checkoutUseCase, myOrdersUseCase, getOrderUseCase, cancelOrderUseCase)
	adminHandler := handler.NewAdminHandler(addBookUseCase, updateBookUseCase, updateStockUseCase, listReplUseCase, confirmReplUseCase)
	reportHandler := handler.NewReportHandler(reportsUseCase)
	chatHandler := handler.NewChatHandler(chatUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 7. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.Metrics())

	// 8. 注册路由
	registerRoutes(r, userHandler, bookHandler, cartHandler, orderHandler,
		adminHandler, reportHandler, chatHandler, authMiddleware)

	// 9. 启动服务（优雅关闭：等待在途请求完成后退出）
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		fmt.Printf("\n🚀 服务启动成功！\n")
		fmt.Printf("   访问地址: http://localhost%s\n", addr)
		fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
		fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", addr)
		fmt.Printf("   监控指标: http://localhost%s/metrics\n", addr)
		fmt.Printf("\n按Ctrl+C停止服务\n\n")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("收到退出信号，开始优雅关闭...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("优雅关闭失败: %v", err)
	}
	log.Println("服务已退出")
}

// registerRoutes 注册路由
// 路由分三层：公开接口、登录接口（RequireAuth）、管理接口（RequireAuth+RequireRole）
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	adminHandler *handler.AdminHandler,
	reportHandler *handler.ReportHandler,
	chatHandler *handler.ChatHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标（生产环境建议加访问控制）
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 用户模块（公开接口）
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/refresh", userHandler.RefreshToken)
		}

		// 图书目录（公开接口，游客可浏览）
		v1.GET("/books", bookHandler.List)
		v1.GET("/books/:isbn", bookHandler.Get)
		v1.GET("/categories", bookHandler.Categories)

		// 需要登录的接口
		authorized := v1.Group("")
		authorized.Use(authMiddleware.RequireAuth())
		{
			authorized.GET("/users/profile", userHandler.Profile)
			authorized.PATCH("/users/profile", userHandler.UpdateProfile)
			authorized.POST("/users/logout", userHandler.Logout)

			// 购物车
			authorized.GET("/cart", cartHandler.Get)
			authorized.DELETE("/cart", cartHandler.Clear)
			authorized.POST("/cart/items", cartHandler.AddItem)
			authorized.PATCH("/cart/items/:isbn", cartHandler.UpdateItem)
			authorized.DELETE("/cart/items/:isbn", cartHandler.RemoveItem)

			// 订单
			authorized.POST("/orders/checkout", orderHandler.Checkout)
			authorized.GET("/orders/mine", orderHandler.Mine)
			authorized.GET("/orders/:id", orderHandler.Get)
			authorized.DELETE("/orders/:id", orderHandler.Cancel)

			// 智能助手
			authorized.POST("/chat", chatHandler.Chat)
		}

		// 管理接口（需要ADMIN角色）
		admin := v1.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(string(user.RoleAdmin)))
		{
			admin.POST("/books", adminHandler.AddBook)
			admin.PATCH("/books/:isbn", adminHandler.UpdateBook)
			admin.PUT("/books/:isbn/stock", adminHandler.UpdateStock)

			admin.GET("/replenishments", adminHandler.ListReplenishments)
			admin.POST("/replenishments/:id/confirm", adminHandler.ConfirmReplenishment)

			admin.GET("/reports/monthly-sales", reportHandler.MonthlySales)
			admin.GET("/reports/top-customers", reportHandler.TopCustomers)
			admin.GET("/reports/top-books", reportHandler.TopBooks)
			admin.GET("/reports/replenishments", reportHandler.ReplenishmentCounts)
		}
	}
}
