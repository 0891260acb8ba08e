package model

// OperatingMode is a human-friendly label for which heat sources ran in a
// timestep. Keep these values stable; they are intended for CSV output.
type OperatingMode string

const (
	ModeIdle           OperatingMode = "IDLE"
	ModeHeatPump       OperatingMode = "HEAT_PUMP"
	ModeBackup         OperatingMode = "BACKUP"
	ModeHeatPumpBackup OperatingMode = "HEAT_PUMP+BACKUP"
)

func ModeFromEnergy(heatPumpBtu, backupBtu float64) OperatingMode {
	switch {
	case heatPumpBtu > 0 && backupBtu > 0:
		return ModeHeatPumpBackup
	case heatPumpBtu > 0:
		return ModeHeatPump
	case backupBtu > 0:
		return ModeBackup
	default:
		return ModeIdle
	}
}
