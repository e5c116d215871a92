// Package server contains the HTTP handlers and route table for the
// StudySmarter API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	_ "studysmarter/docs" // swagger docs
	"studysmarter/internal/config"
	"studysmarter/internal/database"
	"studysmarter/internal/middleware"
	"studysmarter/internal/models"
	"studysmarter/internal/observability"
	"studysmarter/internal/repository"
	"studysmarter/internal/revocation"
	"studysmarter/internal/service"
	"studysmarter/internal/token"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	revocations    revocation.Store
	tokens         *token.Manager
	rateLimiter    *middleware.RateLimiter

	authService      *service.AuthService
	userService      *service.UserService
	studyRoomService *service.StudyRoomService
	postService      *service.PostService
	commentService   *service.CommentService
	mediaService     *service.MediaService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// The bootstrap layer owns DB/Redis setup and any explicit seeding. A nil
// store falls back to an in-memory revocation store.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store revocation.Store) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server: config is required")
	}
	if db == nil {
		return nil, errors.New("server: database is required")
	}
	if store == nil {
		store = revocation.NewMemoryStore()
	}

	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewStudyRoomRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	tx := repository.NewTransactor(db)

	tokens := token.NewManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(observability.ServiceName),
		revocations:    store,
		tokens:         tokens,
		rateLimiter:    middleware.NewRateLimiter(redisClient, cfg.IsProduction() && redisClient != nil),
	}
	s.authService = service.NewAuthService(userRepo, tx, tokens, store)
	s.userService = service.NewUserService(userRepo)
	s.studyRoomService = service.NewStudyRoomService(roomRepo, userRepo, tx)
	s.postService = service.NewPostService(postRepo, roomRepo, userRepo, tx)
	s.commentService = service.NewCommentService(commentRepo, postRepo, userRepo, tx)
	s.mediaService = service.NewMediaService(mediaRepo, postRepo, tx)

	app := fiber.New(fiber.Config{
		AppName:      "StudySmarter API",
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app

	return s, nil
}

// App exposes the configured Fiber app (used by tests via app.Test).
func (s *Server) App() *fiber.App {
	return s.app
}

// errorHandler renders errors that escaped a handler as JSON.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := models.CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = models.CodeNotFound
		case fiber.StatusBadRequest, fiber.StatusMethodNotAllowed, fiber.StatusUnprocessableEntity:
			code = models.CodeValidation
		}
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message, "code": code})
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
	return models.Respond(c, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Copies request and trace IDs into the user context for logging
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before anything that can short-circuit so error responses
	// still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	if s.config.IsProduction() {
		// Global rate limiting (100 requests per minute per IP)
		app.Use(limiter.New(limiter.Config{
			Max:        100,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return c.Method() == fiber.MethodOptions
			},
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"message": "Too many requests, please try again later.",
				})
			},
		}))
	}
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Index).Name("index")

	app.Get("/health/live", s.LivenessCheck).Name("health_live")
	app.Get("/health/ready", s.ReadinessCheck).Name("health_ready")

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault).Name("swagger")

	// Auth
	api.Post("/signup", s.rateLimiter.Limit("signup", 3, 10*time.Minute), s.Signup).Name("signup")
	api.Post("/login", s.rateLimiter.Limit("login", 10, 5*time.Minute), s.Login).Name("login_user")
	api.Post("/logout", middleware.AuthRequired(s.tokens, s.revocations), s.Logout).Name("logout_user")

	api.Get("/users", s.GetUsers).Name("get_users")

	api.Post("/study_rooms", s.CreateStudyRoom).Name("create_study_room")
	api.Get("/study_rooms", s.GetStudyRooms).Name("get_all_study_rooms")
	api.Get("/study_rooms/:id", s.GetStudyRoom).Name("get_study_room")

	api.Post("/posts", s.CreatePost).Name("create_post")
	api.Post("/comments", s.CreateComment).Name("create_comment")
	api.Post("/media", s.UploadMedia).Name("upload_media")
}

// Endpoint describes one registered route in the root listing.
type Endpoint struct {
	Endpoint string   `json:"endpoint"`
	Methods  []string `json:"methods"`
	URL      string   `json:"url"`
}

// Index handles GET /
// @Summary API index
// @Description Lists every registered endpoint
// @Tags meta
// @Produce json
// @Success 200 {object} object{message=string,available_endpoints=[]Endpoint}
// @Router / [get]
func (s *Server) Index(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":             "StudySmarter API is running!",
		"available_endpoints": s.endpoints(),
	})
}

// endpoints groups the app's routes by name and path. The implicit HEAD route
// Fiber adds for every GET is listed under the GET route's name.
func (s *Server) endpoints() []Endpoint {
	type key struct{ name, path string }
	methods := map[key]map[string]struct{}{}
	var order []key

	routes := s.app.GetRoutes(true)
	getNames := map[string]string{}
	for _, r := range routes {
		if r.Method == fiber.MethodGet {
			getNames[r.Path] = r.Name
		}
	}

	for _, r := range routes {
		name := r.Name
		if r.Method == fiber.MethodHead && name == "" {
			name = getNames[r.Path]
		}
		if name == "" {
			name = r.Path
		}
		k := key{name: name, path: r.Path}
		if _, ok := methods[k]; !ok {
			methods[k] = map[string]struct{}{}
			order = append(order, k)
		}
		methods[k][r.Method] = struct{}{}
	}

	out := make([]Endpoint, 0, len(order))
	for _, k := range order {
		ms := make([]string, 0, len(methods[k]))
		for m := range methods[k] {
			ms = append(ms, m)
		}
		sort.Strings(ms)
		out = append(out, Endpoint{Endpoint: k.name, Methods: ms, URL: k.path})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].URL != out[j].URL {
			return out[i].URL < out[j].URL
		}
		return strings.Join(out[i].Methods, ",") < strings.Join(out[j].Methods, ",")
	})
	return out
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is only checked when
// a client is configured; the in-memory revocation store needs none.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "not_configured"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database":   dbStatus,
			"redis":      redisStatus,
			"revocation": s.revocations.Backend(),
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server and closes the DB and Redis
// connections it was given.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing sql DB", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
