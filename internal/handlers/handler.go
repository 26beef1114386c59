package handlers

import (
	"net/http"

	_ "quote_server/docs"
	"quote_server/internal/logger"
	"quote_server/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const notFoundBody = "Oops! Page not found."

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies. log may be nil.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	registerValidators()
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestIDMiddleware, h.accessLogMiddleware, corsMiddleware)
	router.SetHTMLTemplate(pageTemplates)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	// HTML front page and its assets
	h.registerWebRoutes(router)

	// Versioned JSON API
	h.registerAPIRoutes(router)

	// Random quote feed over WebSocket
	router.GET("/ws/random", h.wsRandomFeed)

	router.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, notFoundBody)
	})

	return router
}

func (h *Handler) registerWebRoutes(r *gin.Engine) {
	r.GET("/", h.indexPage)
	r.GET("/style.css", serveStylesheet)
	r.GET("/favicon.ico", serveFavicon)
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/quote/:quote_id", h.getQuote)
		api.POST("/tagged-quote", h.getTaggedQuote)
		api.GET("/random-quote", h.getRandomQuote)
		api.POST("/register", h.register)
	}

	// Write path requires a bearer credential.
	protected := api.Group("", h.bearerAuthMiddleware)
	{
		protected.POST("/add-quote", h.addQuote)
	}
}

// @Summary      Health check
// @Description  Reports whether the quote store answers and how many quotes it holds.
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	n, err := h.services.Count(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("health_store_unavailable", "err", err)
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"quotes": n,
	})
}
