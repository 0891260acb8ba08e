package handlers

import (
	"math"
	"net/http"
	"time"

	"gashpwh-sim/internal/api/models"
	"gashpwh-sim/internal/data"
	"gashpwh-sim/internal/model"
	"gashpwh-sim/internal/scenario"
	"gashpwh-sim/internal/simulation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SimulateHandler handles simulation requests
type SimulateHandler struct {
	configs  ConfigBuilder
	profiles *ProfileStore
	cache    *data.ResultCache
	engine   *simulation.Engine
	observer RunObserver
	logger   *logrus.Logger
}

// NewSimulateHandler creates a new simulate handler. cache and observer may
// be nil.
func NewSimulateHandler(configs ConfigBuilder, profiles *ProfileStore, cache *data.ResultCache, observer RunObserver, logger *logrus.Logger) *SimulateHandler {
	if observer == nil {
		observer = nopObserver{}
	}
	return &SimulateHandler{
		configs:  configs,
		profiles: profiles,
		cache:    cache,
		engine:   simulation.New(model.DefaultConstants()),
		observer: observer,
		logger:   logger,
	}
}

// Simulate handles POST /api/v1/simulate
func (h *SimulateHandler) Simulate(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	profile, err := h.profiles.Resolve(req.Profile, req.ProfileID)
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := h.run(req.Config, profile, req.Options.LimitSteps)
	if err != nil {
		respondError(c, err)
		return
	}

	id := uuid.New().String()
	if h.cache.Add(id, &data.CachedRun{ProfileName: out.Name, Result: out.Result}) {
		h.logger.WithField("cache_size", h.cache.Len()).Debug("evicted oldest cached run")
	}
	h.logger.WithFields(logrus.Fields{
		"run_id":  id,
		"profile": out.Name,
		"steps":   out.Summary.Steps,
		"therms":  out.Summary.GasTherms,
	}).Info("simulation completed")

	resp := models.SimulateResponse{
		ID:      id,
		Status:  "completed",
		Summary: out.Summary,
	}
	if req.Options.IncludeRecords {
		resp.Records = convertRecords(out.Result.Records)
	}
	c.JSON(http.StatusOK, resp)
}

// GetRecords handles GET /api/v1/simulate/:id/records
func (h *SimulateHandler) GetRecords(c *gin.Context) {
	id := c.Param("id")
	run, ok := h.cache.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NOT_FOUND",
				Message: "run not found or evicted from the result cache; rerun with include_records=true",
				Details: map[string]interface{}{"id": id},
			},
		})
		return
	}
	c.JSON(http.StatusOK, models.RecordsResponse{
		ID:      id,
		Profile: run.ProfileName,
		Records: convertRecords(run.Result.Records),
	})
}

// Compare handles POST /api/v1/simulate/compare. Variations run one after
// another against the same profile; a failing variation reports its error
// in place of a summary.
func (h *SimulateHandler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	profile, err := h.profiles.Resolve(req.Profile, req.ProfileID)
	if err != nil {
		respondError(c, err)
		return
	}

	comparison := make([]models.ComparisonResult, 0, len(req.Variations))
	for _, v := range req.Variations {
		out, err := h.run(mergeConfig(req.BaseConfig, v.Config), profile, 0)
		if err != nil {
			_, body := errorResponse(err)
			comparison = append(comparison, models.ComparisonResult{Name: v.Name, Error: &body.Error})
			continue
		}
		sum := out.Summary
		sum.Name = v.Name
		comparison = append(comparison, models.ComparisonResult{Name: v.Name, Summary: &sum})
	}

	c.JSON(http.StatusOK, models.CompareResponse{Comparison: comparison})
}

func (h *SimulateHandler) run(req models.SimulationConfig, profile *model.DrawProfile, limit int) (*scenario.Outcome, error) {
	cfg, err := h.configs.Build(req)
	if err != nil {
		h.observer.ObserveRun(outcomeOf(err), 0, 0)
		return nil, err
	}
	start := time.Now()
	out, err := scenario.Execute(cfg, profile, h.engine, limit)
	steps := 0
	if out != nil {
		steps = out.Summary.Steps
	}
	h.observer.ObserveRun(outcomeOf(err), steps, time.Since(start))
	return out, err
}

func convertRecords(records []simulation.Record) []models.RecordRow {
	out := make([]models.RecordRow, len(records))
	for i, r := range records {
		out[i] = models.RecordRow{
			Index:               r.Index,
			Time:                r.Time,
			HourOfYear:          r.HourOfYear,
			TimestepMinutes:     r.TimestepMinutes,
			DrawVolume:          r.DrawVolume,
			InletTemperature:    r.InletTemperature,
			AmbientTemperature:  r.AmbientTemperature,
			TankTemperature:     r.TankTemperature,
			JacketLoss:          r.JacketLoss,
			EnergyWithdrawn:     r.EnergyWithdrawn,
			EnergyAddedBackup:   r.EnergyAddedBackup,
			EnergyAddedHeatPump: r.EnergyAddedHeatPump,
			TotalEnergyChange:   r.TotalEnergyChange,
			Mode:                string(r.Mode),
			COP:                 finiteOrZero(r.COP),
			ElectricDemand:      r.ElectricDemand,
			ElectricUsage:       r.ElectricUsage,
			GasUsage:            r.GasUsage,
			NOxProduction:       r.NOxProduction,
			CO2Gas:              r.CO2Gas,
			CO2Electricity:      r.CO2Electricity,
			CO2Total:            r.CO2Total,
		}
	}
	return out
}

// finiteOrZero blanks a COP that is only evaluated, never used, while the
// heat pump is idle.
func finiteOrZero(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
