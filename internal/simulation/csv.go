package simulation

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

var recordHeader = []string{
	"index",
	"time_min",
	"hour_of_year",
	"timestep_min",
	"draw_volume_gal",
	"inlet_temperature_f",
	"ambient_temperature_f",
	"tank_temperature_f",
	"jacket_loss_btu",
	"energy_withdrawn_btu",
	"energy_added_backup_btu",
	"energy_added_heat_pump_btu",
	"total_energy_change_btu",
	"mode",
	"cop",
	"electric_demand_w",
	"electric_usage_wh",
	"gas_usage_btu",
	"nox_production_ng",
	"co2_gas_lb",
	"electricity_co2_multiplier_lb_per_kwh",
	"co2_electricity_lb",
	"co2_total_lb",
	"energy_added_total_btu",
	"heat_pump_output_btu_per_min",
}

func WriteRecordsCSV(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteRecords(f, records)
}

// WriteRecords writes one CSV row per timestep with a fixed header.
func WriteRecords(out io.Writer, records []Record) error {
	w := csv.NewWriter(out)
	if err := w.Write(recordHeader); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Index),
			fmtFloat(r.Time),
			strconv.Itoa(r.HourOfYear),
			fmtFloat(r.TimestepMinutes),
			fmtFloat(r.DrawVolume),
			fmtFloat(r.InletTemperature),
			fmtFloat(r.AmbientTemperature),
			fmtFloat(r.TankTemperature),
			fmtFloat(r.JacketLoss),
			fmtFloat(r.EnergyWithdrawn),
			fmtFloat(r.EnergyAddedBackup),
			fmtFloat(r.EnergyAddedHeatPump),
			fmtFloat(r.TotalEnergyChange),
			string(r.Mode),
			fmtFloat(r.COP),
			fmtFloat(r.ElectricDemand),
			fmtFloat(r.ElectricUsage),
			fmtFloat(r.GasUsage),
			fmtFloat(r.NOxProduction),
			fmtFloat(r.CO2Gas),
			fmtFloat(r.ElectricityCO2Factor),
			fmtFloat(r.CO2Electricity),
			fmtFloat(r.CO2Total),
			fmtFloat(r.EnergyAddedTotal),
			fmtFloat(r.HeatPumpOutputPerMinute),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	if x == 0 {
		x = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(x, 'f', 6, 64)
}
