package analysisHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	analysisService "medclarity/internal/api/analysis/service"
	"medclarity/internal/middleware"
	"medclarity/pkg/utils"
)

type AnalysisHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	analysisService analysisService.IAnalysisService
	utils           utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	as analysisService.IAnalysisService,
	utils utils.IUtils,
) *AnalysisHandler {
	return &AnalysisHandler{
		log:             log,
		validator:       validator,
		middleware:      middleware,
		analysisService: as,
		utils:           utils,
	}
}

func (h *AnalysisHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	ana := srv.Group("/analysis")
	ana.Use("/ws", wsMiddleware)
	ana.Get("/ws", websocket.New(h.handleAnalysisWebSocket))
	ana.Get("/:id", h.GetRun)

	srv.Post("/analysis", h.middleware.NewRateLimiter, h.Analyze)
	srv.Get("/analysis", h.ListRuns)
}
