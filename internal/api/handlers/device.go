package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gashpwh-sim/internal/api/models"
	"gashpwh-sim/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DeviceHandler handles device preset requests
type DeviceHandler struct {
	deviceDir string
	logger    *logrus.Logger
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(deviceDir string, logger *logrus.Logger) *DeviceHandler {
	if abs, err := filepath.Abs(deviceDir); err == nil {
		deviceDir = abs
	}
	return &DeviceHandler{deviceDir: deviceDir, logger: logger}
}

// ListDevices handles GET /api/v1/devices
func (h *DeviceHandler) ListDevices(c *gin.Context) {
	devices := []models.DeviceInfo{}

	entries, err := os.ReadDir(h.deviceDir)
	if err != nil {
		h.logger.WithError(err).WithField("dir", h.deviceDir).Warn("failed to read device directory")
		c.JSON(http.StatusOK, gin.H{"devices": devices})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(h.deviceDir, entry.Name())
		d, err := config.LoadDeviceFile(path)
		if err != nil {
			h.logger.WithError(err).WithField("file", path).Warn("skipping invalid device preset")
			continue
		}
		devices = append(devices, deviceInfo(entry.Name(), d))
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i].ID < devices[j].ID })

	c.JSON(http.StatusOK, gin.H{"devices": devices})
}

func deviceInfo(filename string, d config.DeviceConfig) models.DeviceInfo {
	// "gti_prototype.yaml" -> "gti_prototype", usable as device_file
	id := strings.TrimSuffix(filename, ".yaml")
	name := d.Name
	if name == "" {
		name = id
	}
	copModel := d.COP.Model
	if copModel == "" {
		copModel = "polynomial"
	}
	return models.DeviceInfo{
		ID:   id,
		Name: name,
		File: filename,
		Specs: models.DeviceSpecs{
			TankVolumeGal: d.TankVolumeGal,
			FiringRateW:   d.FiringRateW,
			BackupPowerW:  d.BackupPowerW,
			SetpointF:     d.SetpointF,
			DeadbandF:     d.DeadbandF,
			COPModel:      copModel,
		},
	}
}
