package handlers

import (
	"net/http"
	"time"

	"gashpwh-sim/internal/analysis"
	"gashpwh-sim/internal/api/models"
	"gashpwh-sim/internal/model"
	"gashpwh-sim/internal/scenario"
	"gashpwh-sim/internal/simulation"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RankHandler handles ranking-related requests
type RankHandler struct {
	configs  ConfigBuilder
	profiles *ProfileStore
	engine   *simulation.Engine
	observer RunObserver
	logger   *logrus.Logger
}

// NewRankHandler creates a new rank handler
func NewRankHandler(configs ConfigBuilder, profiles *ProfileStore, observer RunObserver, logger *logrus.Logger) *RankHandler {
	if observer == nil {
		observer = nopObserver{}
	}
	return &RankHandler{
		configs:  configs,
		profiles: profiles,
		engine:   simulation.New(model.DefaultConstants()),
		observer: observer,
		logger:   logger,
	}
}

// RankProfiles handles GET /api/v1/rank. It runs one device preset over
// every catalog profile and ranks the profiles by gas use.
func (h *RankHandler) RankProfiles(c *gin.Context) {
	var req models.RankRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	cfg, err := h.configs.Build(models.SimulationConfig{DeviceFile: req.DeviceFile})
	if err != nil {
		respondError(c, err)
		return
	}

	byProfile := make(map[string]analysis.Summary)
	skipped := make(map[string]string)
	for _, entry := range h.profiles.Entries() {
		profile, err := h.profiles.Load(entry.ID)
		if err != nil {
			skipped[entry.ID] = err.Error()
			continue
		}
		start := time.Now()
		out, err := scenario.Execute(cfg, profile, h.engine, req.LimitSteps)
		if err != nil {
			h.observer.ObserveRun(outcomeOf(err), 0, time.Since(start))
			h.logger.WithError(err).WithField("profile", entry.ID).Warn("rank: simulation failed")
			skipped[entry.ID] = err.Error()
			continue
		}
		h.observer.ObserveRun("ok", out.Summary.Steps, time.Since(start))
		byProfile[entry.ID] = out.Summary
	}

	ranked := analysis.RankByGasUse(byProfile)

	// Apply limit
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > len(ranked) {
		limit = len(ranked)
	}
	ranked = ranked[:limit]

	resp := models.RankResponse{Device: req.DeviceFile, Rankings: ranked}
	if len(skipped) > 0 {
		resp.Skipped = skipped
	}
	c.JSON(http.StatusOK, resp)
}
