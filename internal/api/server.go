package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/lunchpass/lunchpass-api/docs"
	v1 "github.com/lunchpass/lunchpass-api/internal/api/handler/v1"
	"github.com/lunchpass/lunchpass-api/internal/api/middleware"
	"github.com/lunchpass/lunchpass-api/internal/config"
	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/repository"
	"github.com/lunchpass/lunchpass-api/internal/repository/dao"
	"github.com/lunchpass/lunchpass-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	kidRepo := repository.NewKidRepository(dao.NewKidDAO(db))
	schoolRepo := repository.NewSchoolRepository(dao.NewSchoolDAO(db))
	productRepo := repository.NewProductRepository(dao.NewProductDAO(db))
	discountRepo := repository.NewDiscountRepository(dao.NewDiscountDAO(db))
	spendingDAO := dao.NewSpendingDAO(db)
	spendingRepo := repository.NewSpendingRepository(spendingDAO)
	orderRepo := repository.NewOrderRepository(dao.NewOrderDAO(db), spendingDAO)

	notifier := service.NewLogNotifier()
	userSvc := service.NewUserService(userRepo)
	authSvc := service.NewAuthService(userRepo)
	kidSvc := service.NewKidService(kidRepo)
	schoolSvc := service.NewSchoolService(schoolRepo)
	productSvc := service.NewProductService(productRepo)
	discountSvc := service.NewDiscountService(discountRepo)
	eligibilitySvc := service.NewEligibilityService(kidRepo)
	ledgerSvc := service.NewLedgerService(spendingRepo)
	orderSvc := service.NewOrderService(orderRepo, productRepo, discountRepo, eligibilitySvc, ledgerSvc, notifier)

	authHandler := v1.NewAuthHandler(conf.API, authSvc)
	userHandler := v1.NewUserHandler(userSvc)
	kidHandler := v1.NewKidHandler(kidSvc, ledgerSvc)
	schoolHandler := v1.NewSchoolHandler(schoolSvc)
	productHandler := v1.NewProductHandler(productSvc)
	discountHandler := v1.NewDiscountHandler(discountSvc)
	orderHandler := v1.NewOrderHandler(orderSvc)

	authenticator := middleware.NewAuthenticator(conf.API.JWTSigningKey, userSvc)
	s.MountHandlers(authenticator, authHandler, userHandler, kidHandler, schoolHandler, productHandler, discountHandler, orderHandler)

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authenticator *middleware.Authenticator,
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	kidHandler *v1.KidHandler,
	schoolHandler *v1.SchoolHandler,
	productHandler *v1.ProductHandler,
	discountHandler *v1.DiscountHandler,
	orderHandler *v1.OrderHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authed := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		authed.GET("/users/:userID", userHandler.HandleGetUser)

		authed.POST("/kids", kidHandler.HandleCreateKid)
		authed.GET("/kids", kidHandler.HandleListKids)
		authed.GET("/kids/:kidID", kidHandler.HandleGetKid)
		authed.PUT("/kids/:kidID", kidHandler.HandleUpdateKid)
		authed.GET("/kids/:kidID/spending", kidHandler.HandleGetKidSpending)
		authed.GET("/kids/:kidID/orders", orderHandler.HandleListKidOrders)

		authed.POST("/orders", orderHandler.HandlePlaceOrder)
		authed.GET("/orders", orderHandler.HandleListOrders)
		authed.GET("/orders/:orderID", orderHandler.HandleGetOrder)
		authed.POST("/orders/:orderID/cancel", orderHandler.HandleCancelOrder)

		authed.GET("/schools", schoolHandler.HandleListSchools)
		authed.GET("/schools/:schoolID", schoolHandler.HandleGetSchool)
		authed.GET("/products", productHandler.HandleListProducts)
		authed.GET("/products/:productID", productHandler.HandleGetProduct)
	}

	staff := s.Router.Group(basePath, authenticator.VerifyJWT(),
		middleware.RequireRoles(domain.RoleAdmin, domain.RoleStaff))
	{
		staff.GET("/rfid/:token", kidHandler.HandleGetKidByRFIDToken)
		staff.PUT("/orders/:orderID/status", orderHandler.HandleUpdateOrderStatus)
	}

	admin := s.Router.Group(basePath, authenticator.VerifyJWT(),
		middleware.RequireRoles(domain.RoleAdmin))
	{
		admin.POST("/schools", schoolHandler.HandleCreateSchool)
		admin.PUT("/schools/:schoolID", schoolHandler.HandleUpdateSchool)

		admin.POST("/products", productHandler.HandleCreateProduct)
		admin.PUT("/products/:productID", productHandler.HandleUpdateProduct)

		admin.POST("/discounts", discountHandler.HandleCreateDiscount)
		admin.GET("/discounts", discountHandler.HandleListDiscounts)
		admin.GET("/discounts/:discountID", discountHandler.HandleGetDiscount)
		admin.PUT("/discounts/:discountID", discountHandler.HandleUpdateDiscount)
		admin.DELETE("/discounts/:discountID", discountHandler.HandleDeleteDiscount)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Lunchpass API"
	docs.SwaggerInfo.Description = "Prepaid canteen card orders for schools."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
