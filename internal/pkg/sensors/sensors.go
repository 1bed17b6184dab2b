package sensors

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/samber/lo"

	"github.com/hwenergy/hwenergy-integration/internal/pkg/hwenergy"
	"github.com/hwenergy/hwenergy-integration/internal/pkg/model"
)

// Identity derives the publisher-facing identity from a fetched device.
func Identity(device *hwenergy.Device) model.Device {
	productType := lo.FromPtr(device.ProductType)
	serial := lo.FromPtr(device.Serial)
	return model.Device{
		ID:           fmt.Sprintf("%s_%s", productType, serial),
		Model:        productType,
		SerialNumber: serial,
	}
}

// FromMeteredData flattens a reading into publishable datapoints. Absent
// fields produce no datapoint.
func FromMeteredData(data *hwenergy.MeteredData) []model.DeviceStatus {
	c := &collector{}

	c.addText("Wifi SSID", data.WifiSSID)
	c.addInt("Wifi Strength", "%", data.WifiStrength)
	c.addInt("SMR Version", "", data.SmrVersion)
	c.addText("Meter Model", data.MeterModel)
	c.addText("Unique Meter ID", data.UniqueMeterID)
	c.addInt("Active Tariff", "", data.ActiveTariff)

	c.addFloat("Total Power Import", "kWh", data.TotalPowerImportKWh)
	c.addFloat("Total Power Import T1", "kWh", data.TotalPowerImportT1KWh)
	c.addFloat("Total Power Import T2", "kWh", data.TotalPowerImportT2KWh)
	c.addFloat("Total Power Import T3", "kWh", data.TotalPowerImportT3KWh)
	c.addFloat("Total Power Import T4", "kWh", data.TotalPowerImportT4KWh)
	c.addFloat("Total Power Export", "kWh", data.TotalPowerExportKWh)
	c.addFloat("Total Power Export T1", "kWh", data.TotalPowerExportT1KWh)
	c.addFloat("Total Power Export T2", "kWh", data.TotalPowerExportT2KWh)
	c.addFloat("Total Power Export T3", "kWh", data.TotalPowerExportT3KWh)
	c.addFloat("Total Power Export T4", "kWh", data.TotalPowerExportT4KWh)

	c.addFloat("Active Power", "W", data.ActivePowerW)
	c.addFloat("Active Power L1", "W", data.ActivePowerL1W)
	c.addFloat("Active Power L2", "W", data.ActivePowerL2W)
	c.addFloat("Active Power L3", "W", data.ActivePowerL3W)
	c.addFloat("Active Voltage L1", "V", data.ActiveVoltageL1V)
	c.addFloat("Active Voltage L2", "V", data.ActiveVoltageL2V)
	c.addFloat("Active Voltage L3", "V", data.ActiveVoltageL3V)
	c.addFloat("Active Current L1", "A", data.ActiveCurrentL1A)
	c.addFloat("Active Current L2", "A", data.ActiveCurrentL2A)
	c.addFloat("Active Current L3", "A", data.ActiveCurrentL3A)
	c.addFloat("Active Frequency", "Hz", data.ActiveFrequencyHz)

	c.addInt("Voltage Sag L1", "", data.VoltageSagL1Count)
	c.addInt("Voltage Sag L2", "", data.VoltageSagL2Count)
	c.addInt("Voltage Sag L3", "", data.VoltageSagL3Count)
	c.addInt("Voltage Swell L1", "", data.VoltageSwellL1Count)
	c.addInt("Voltage Swell L2", "", data.VoltageSwellL2Count)
	c.addInt("Voltage Swell L3", "", data.VoltageSwellL3Count)
	c.addInt("Any Power Fail", "", data.AnyPowerFailCount)
	c.addInt("Long Power Fail", "", data.LongPowerFailCount)

	c.addFloat("Active Power Average", "W", data.ActivePowerAverageW)
	c.addFloat("Monthly Power Peak", "W", data.MonthlyPowerPeakW)
	c.addTime("Monthly Power Peak Timestamp", data.MonthlyPowerPeakTimestamp)

	c.addFloat("Total Gas", "m3", data.TotalGasM3)
	c.addTime("Gas Timestamp", data.GasTimestamp)
	c.addText("Gas Unique ID", data.GasUniqueID)

	c.addFloat("Active Water", "l/min", data.ActiveLiterLPM)
	c.addFloat("Total Water", "m3", data.TotalLiterM3)

	for _, external := range data.ExternalDevices {
		c.addExternal(external)
	}

	return c.statuses
}

// FromState flattens the switch state into publishable datapoints.
func FromState(state *hwenergy.State) []model.DeviceStatus {
	if state == nil {
		return nil
	}
	c := &collector{}
	c.addBool("Power On", state.PowerOn)
	c.addBool("Switch Lock", state.SwitchLock)
	c.addInt("Brightness", "", state.Brightness)
	return c.statuses
}

// FromSystem flattens the system configuration into publishable datapoints.
func FromSystem(system *hwenergy.System) []model.DeviceStatus {
	if system == nil {
		return nil
	}
	c := &collector{}
	c.addBool("Cloud Enabled", system.CloudEnabled)
	return c.statuses
}

type collector struct {
	statuses []model.DeviceStatus
}

func (c *collector) add(name, unit, value string) {
	c.statuses = append(c.statuses, model.DeviceStatus{
		Name:  name,
		Slug:  makeSlug(name),
		Unit:  unit,
		Value: &value,
	})
}

func (c *collector) addFloat(name, unit string, value *float64) {
	if value == nil {
		return
	}
	c.add(name, unit, strconv.FormatFloat(*value, 'f', -1, 64))
}

func (c *collector) addInt(name, unit string, value *int) {
	if value == nil {
		return
	}
	c.add(name, unit, strconv.Itoa(*value))
}

func (c *collector) addText(name string, value *string) {
	if value == nil {
		return
	}
	c.add(name, "", *value)
}

func (c *collector) addBool(name string, value *bool) {
	if value == nil {
		return
	}
	c.add(name, "", lo.Ternary(*value, "on", "off"))
}

func (c *collector) addTime(name string, value *time.Time) {
	if value == nil {
		return
	}
	c.add(name, "", value.Format(time.RFC3339))
}

func (c *collector) addExternal(external hwenergy.ExternalDevice) {
	if external.Value == nil {
		return
	}
	label := strings.ReplaceAll(external.MeterType.String(), "_", " ")
	name := strings.TrimSpace(fmt.Sprintf("%s %s", label, lo.FromPtr(external.UniqueID)))
	c.add(name, lo.FromPtr(external.Unit), strconv.FormatFloat(*external.Value, 'f', -1, 64))
}

// home assistant slugs use underscores, slug.Make produces dashes
func makeSlug(name string) string {
	return strings.ReplaceAll(slug.Make(name), "-", "_")
}
