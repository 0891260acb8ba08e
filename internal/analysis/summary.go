package analysis

import (
	"math"
	"sort"

	"gashpwh-sim/internal/model"
	"gashpwh-sim/internal/simulation"
)

// Summary condenses a simulation trace into the totals used for reporting
// and ranking. Energies in Btu, temperatures in °F, durations in minutes.
type Summary struct {
	Name string `json:"name,omitempty"`

	Steps          int     `json:"steps"`
	HorizonMinutes float64 `json:"horizon_min"`

	DrawVolume      float64 `json:"draw_volume_gal"`
	EnergyWithdrawn float64 `json:"energy_withdrawn_btu"`
	JacketLoss      float64 `json:"jacket_loss_btu"`
	HeatPumpEnergy  float64 `json:"heat_pump_energy_btu"`
	BackupEnergy    float64 `json:"backup_energy_btu"`

	GasBtu      float64 `json:"gas_btu"`
	GasTherms   float64 `json:"gas_therms"`
	ElectricKWh float64 `json:"electric_kwh"`

	NOxGrams         float64 `json:"nox_g"`
	CO2GasLb         float64 `json:"co2_gas_lb"`
	CO2ElectricityLb float64 `json:"co2_electricity_lb"`
	CO2TotalLb       float64 `json:"co2_total_lb"`

	HeatPumpMinutes float64 `json:"heat_pump_min"`
	BackupMinutes   float64 `json:"backup_min"`
	HeatPumpStarts  int     `json:"heat_pump_starts"`
	BackupStarts    int     `json:"backup_starts"`
	MeanActiveCOP   float64 `json:"mean_active_cop"`

	MinTemperature   float64 `json:"min_temperature_f"`
	MaxTemperature   float64 `json:"max_temperature_f"`
	FinalTemperature float64 `json:"final_temperature_f"`
	P05Temperature   float64 `json:"p05_temperature_f"`
	P95Temperature   float64 `json:"p95_temperature_f"`

	// MinutesBelowActivation counts time spent below setpoint-deadband,
	// a proxy for unmet hot water demand.
	MinutesBelowActivation float64 `json:"minutes_below_activation"`
}

func Summarize(records []simulation.Record, p model.ParameterSet) Summary {
	s := Summary{}
	if len(records) == 0 {
		return s
	}
	c := model.DefaultConstants()
	s.Steps = len(records)

	minv := math.Inf(1)
	maxv := math.Inf(-1)
	temps := make([]float64, 0, len(records))
	copSum := 0.0
	activeSteps := 0
	activation := p.HeatPumpActivation()

	for i, r := range records {
		s.HorizonMinutes += r.TimestepMinutes
		s.DrawVolume += r.DrawVolume
		s.EnergyWithdrawn += r.EnergyWithdrawn
		s.JacketLoss += r.JacketLoss
		s.HeatPumpEnergy += r.EnergyAddedHeatPump
		s.BackupEnergy += r.EnergyAddedBackup
		s.GasBtu += r.GasUsage
		s.ElectricKWh += r.ElectricUsage / 1000
		s.NOxGrams += r.NOxProduction / 1e9
		s.CO2GasLb += r.CO2Gas
		s.CO2ElectricityLb += r.CO2Electricity

		hpOn := r.EnergyAddedHeatPump > 0
		backupOn := r.EnergyAddedBackup > 0
		if hpOn {
			s.HeatPumpMinutes += r.TimestepMinutes
			copSum += r.COP
			activeSteps++
			if i == 0 || records[i-1].EnergyAddedHeatPump <= 0 {
				s.HeatPumpStarts++
			}
		}
		if backupOn {
			s.BackupMinutes += r.TimestepMinutes
			if i == 0 || records[i-1].EnergyAddedBackup <= 0 {
				s.BackupStarts++
			}
		}

		v := r.TankTemperature
		temps = append(temps, v)
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
		if p.HeatPumpFiringRate > 0 && v < activation {
			s.MinutesBelowActivation += r.TimestepMinutes
		}
	}

	s.GasTherms = s.GasBtu / c.BtuPerTherm
	s.CO2TotalLb = s.CO2GasLb + s.CO2ElectricityLb
	if activeSteps > 0 {
		s.MeanActiveCOP = copSum / float64(activeSteps)
	}

	sort.Float64s(temps)
	s.MinTemperature = minv
	s.MaxTemperature = maxv
	s.FinalTemperature = records[len(records)-1].TankTemperature
	s.P05Temperature = percentileSorted(temps, 0.05)
	s.P95Temperature = percentileSorted(temps, 0.95)
	return s
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
