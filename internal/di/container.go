// Package di wires repositories, services and handlers together. main.go
// owns infrastructure lifecycles (DB, Redis, telemetry); the container owns
// everything built on top of them.
package di

import (
	"github.com/nahashon-source/globalship-backend/internal/cache"
	"github.com/nahashon-source/globalship-backend/internal/handler"
	"github.com/nahashon-source/globalship-backend/internal/password"
	"github.com/nahashon-source/globalship-backend/internal/ratelimit"
	"github.com/nahashon-source/globalship-backend/internal/repository"
	"github.com/nahashon-source/globalship-backend/internal/service"
	"github.com/nahashon-source/globalship-backend/internal/token"
	"github.com/nahashon-source/globalship-backend/pkg/config"
	"github.com/nahashon-source/globalship-backend/pkg/database"
	"github.com/nahashon-source/globalship-backend/pkg/redis"
)

// Container holds the application's wired components
type Container struct {
	Config *config.Config

	Counter *ratelimit.Counter

	AuthService     service.AuthService
	UserService     service.UserService
	ShipmentService service.ShipmentService
	EventService    service.ShipmentEventService
	QuoteService    service.QuoteService
	ContactService  service.ContactService
	Dashboard       service.DashboardService

	AuthHandler      *handler.AuthHandler
	UserHandler      *handler.UserHandler
	ShipmentHandler  *handler.ShipmentHandler
	EventHandler     *handler.ShipmentEventHandler
	QuoteHandler     *handler.QuoteHandler
	ContactHandler   *handler.ContactHandler
	DashboardHandler *handler.DashboardHandler
	AdminHandler     *handler.AdminHandler
	HealthHandler    *handler.HealthHandler
}

// NewContainer builds the dependency graph
func NewContainer(cfg *config.Config, db *database.PostgresDB, redisClient *redis.Client) *Container {
	pool := db.Pool()

	userRepo := repository.NewPostgresUserRepository(pool)
	shipmentRepo := repository.NewPostgresShipmentRepository(pool)
	eventRepo := repository.NewPostgresShipmentEventRepository(pool)
	quoteRepo := repository.NewPostgresQuoteRepository(pool)
	messageRepo := repository.NewPostgresContactMessageRepository(pool)

	snapshots := cache.New(redisClient, cfg.Cache.TTL)
	counter := ratelimit.NewCounter(redisClient)

	codec := token.NewCodec(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	hasher := password.NewHasher(0)

	authService := service.NewAuthService(userRepo, hasher, codec, snapshots, cfg.JWT.AccessTokenTTL)
	userService := service.NewUserService(userRepo, snapshots)
	shipmentService := service.NewShipmentService(shipmentRepo, eventRepo, snapshots)
	eventService := service.NewShipmentEventService(eventRepo, shipmentService)
	quoteService := service.NewQuoteService(quoteRepo)
	contactService := service.NewContactService(messageRepo)
	dashboard := service.NewDashboardService(userRepo, shipmentRepo, quoteRepo, messageRepo)

	return &Container{
		Config: cfg,

		Counter: counter,

		AuthService:     authService,
		UserService:     userService,
		ShipmentService: shipmentService,
		EventService:    eventService,
		QuoteService:    quoteService,
		ContactService:  contactService,
		Dashboard:       dashboard,

		AuthHandler:      handler.NewAuthHandler(authService, userService),
		UserHandler:      handler.NewUserHandler(userService),
		ShipmentHandler:  handler.NewShipmentHandler(shipmentService),
		EventHandler:     handler.NewShipmentEventHandler(eventService, shipmentService),
		QuoteHandler:     handler.NewQuoteHandler(quoteService),
		ContactHandler:   handler.NewContactHandler(contactService),
		DashboardHandler: handler.NewDashboardHandler(dashboard),
		AdminHandler: handler.NewAdminHandler(
			userService, shipmentService, quoteService, contactService, dashboard,
		),
		HealthHandler: handler.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handler.HealthChecker{
			"database": db,
			"redis":    redisClient,
		}),
	}
}
