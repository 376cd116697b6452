package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nyeemonkham-stack/rta-library-webapp/internal/config"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/service"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/session"
)

type Server struct {
	router  *gin.Engine
	handler *Handler
	webhook *WebhookHandler
	cfg     *config.Config
}

// General API limiter: 60 requests per minute per session or IP.
var generalRateLimiter = NewRateLimiter(60, time.Minute)

// Submission limiter: a signup uploads one payment proof; 5 per hour per IP
// leaves room for retries after upload failures.
var submitRateLimiter = NewRateLimiter(5, time.Hour)

// Login limiter: contact-field match is guessable, so keep attempts low.
var loginRateLimiter = NewRateLimiter(10, time.Hour)

func NewServer(cfg *config.Config, signupService *service.SignupService, resolver *session.Resolver, records ApprovalStore, notifier JoinRequestNotifier) *Server {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	s := &Server{
		router:  router,
		handler: NewHandler(signupService, resolver, cfg.Session.JWTSecret),
		webhook: NewWebhookHandler(records, notifier),
		cfg:     cfg,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "rta-library",
		})
	})

	// Public API - catalog, pricing and the signup wizard
	public := s.router.Group("/api/v1")
	public.Use(RateLimitMiddleware(generalRateLimiter))
	{
		public.GET("/catalog/plans", s.handler.GetPlans)
		public.GET("/catalog/channels", s.handler.GetChannels)
		public.POST("/pricing/quote", s.handler.Quote)

		// Signup wizard lifecycle
		public.POST("/signup", s.handler.StartSignup)
		public.GET("/signup/:id", s.handler.GetSignup)
		public.PUT("/signup/:id/plan", s.handler.SelectPlan)
		public.PUT("/signup/:id/personal", s.handler.PersonalInfo)
		public.PUT("/signup/:id/format", s.handler.SelectFormat)
		public.POST("/signup/:id/next", s.handler.Advance)
		public.POST("/signup/:id/back", s.handler.Back)
		public.POST("/signup/:id/goto", s.handler.Goto)
		// Proof upload is the expensive step, limit it separately
		public.POST("/signup/:id/submit", RateLimitMiddleware(submitRateLimiter), s.handler.Submit)

		public.POST("/login", RateLimitMiddleware(loginRateLimiter), s.handler.Login)
	}

	// Session API - requires a session token from submit or login
	my := s.router.Group("/api/v1")
	my.Use(SessionAuthMiddleware(s.cfg.Session.JWTSecret))
	my.Use(RateLimitMiddleware(generalRateLimiter))
	{
		my.GET("/my/dashboard", s.handler.Dashboard)
		my.GET("/my/status", s.handler.MyStatus)
		my.POST("/logout", s.handler.Logout)
	}

	// Telegram webhook - secret-token header set via setWebhook
	webhook := s.router.Group("/api/webhook")
	webhook.Use(WebhookAuthMiddleware(s.cfg.Telegram.WebhookSecret))
	{
		webhook.POST("/telegram", s.webhook.HandleTelegramUpdate)
	}
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
