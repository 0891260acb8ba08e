package handlers

import (
	"net/http"

	"gashpwh-sim/internal/api/models"
	"gashpwh-sim/internal/config"

	"github.com/gin-gonic/gin"
)

// ListCOPModels handles GET /api/v1/cop-models
func ListCOPModels(c *gin.Context) {
	copModels := []models.COPModelInfo{
		{
			Name:        "polynomial",
			Description: "COP as a polynomial in tank temperature (°F). Coefficients run from the highest power down to the constant term.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "coefficients",
					Type:        "[]float",
					Description: "Polynomial coefficients, highest power first",
					Default:     config.DefaultCOPCoefficients,
				},
			},
		},
		{
			Name:        "table",
			Description: "Piecewise-linear COP between tabulated (temperature, COP) points, held flat beyond the first and last point.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "points",
					Type:        "[]point",
					Description: "One or more {temperature_f, cop} points with distinct temperatures",
				},
			},
		},
		{
			Name:        "constant",
			Description: "A fixed COP regardless of tank temperature.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "value",
					Type:        "float",
					Description: "COP, must be > 0",
				},
			},
		},
	}

	c.JSON(http.StatusOK, gin.H{"cop_models": copModels})
}
