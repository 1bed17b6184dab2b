package hwenergy

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Device is the identity reported by the `api` endpoint. Fields the device
// did not report stay nil.
type Device struct {
	ProductName     *string `json:"product_name"`
	ProductType     *string `json:"product_type"`
	Serial          *string `json:"serial"`
	APIVersion      *string `json:"api_version"`
	FirmwareVersion *string `json:"firmware_version"`
}

// MeterType identifies the kind of sub-meter behind an external reading.
// Values follow the OMS device type table (spec vol 2, chapter 2.3).
type MeterType int

const (
	MeterTypeUnknown   MeterType = -1
	MeterTypeGas       MeterType = 3
	MeterTypeHeat      MeterType = 4
	MeterTypeWarmWater MeterType = 6
	MeterTypeWater     MeterType = 7
	MeterTypeInletHeat MeterType = 12
)

var meterTypes = map[string]MeterType{
	"gas_meter":        MeterTypeGas,
	"heat_meter":       MeterTypeHeat,
	"warm_water_meter": MeterTypeWarmWater,
	"water_meter":      MeterTypeWater,
	"inlet_heat_meter": MeterTypeInletHeat,
}

// MeterTypeFromString maps a wire value to a MeterType. Unrecognized values
// map to MeterTypeUnknown instead of failing.
func MeterTypeFromString(value string) MeterType {
	if t, ok := meterTypes[value]; ok {
		return t
	}
	return MeterTypeUnknown
}

func (t MeterType) String() string {
	for name, mt := range meterTypes {
		if mt == t {
			return name
		}
	}
	return "unknown"
}

// ExternalDevice is a reading relayed from a sub-meter connected to the
// primary device.
type ExternalDevice struct {
	UniqueID  *string
	MeterType MeterType
	Value     *float64
	Unit      *string
	Timestamp *time.Time
}

func (d *ExternalDevice) UnmarshalJSON(b []byte) error {
	var raw struct {
		UniqueID  *string         `json:"unique_id"`
		Type      *string         `json:"type"`
		Value     *float64        `json:"value"`
		Unit      *string         `json:"unit"`
		Timestamp json.RawMessage `json:"timestamp"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	d.UniqueID = raw.UniqueID
	d.MeterType = MeterTypeFromString(lo.FromPtr(raw.Type))
	d.Value = raw.Value
	d.Unit = raw.Unit
	d.Timestamp = parseTimestamp(raw.Timestamp)
	return nil
}

// MeteredData holds the readings from the `api/v1/data` endpoint. Every
// field is optional on the wire; nil means the device did not report it,
// which is distinct from a zero reading. The `montly_*` key spelling is what
// the device actually sends.
type MeteredData struct {
	WifiSSID     *string `json:"wifi_ssid"`
	WifiStrength *int    `json:"wifi_strength"`

	SmrVersion    *int    `json:"smr_version"`
	MeterModel    *string `json:"meter_model"`
	UniqueMeterID *string `json:"unique_id"`

	ActiveTariff *int `json:"active_tariff"`

	TotalPowerImportKWh   *float64 `json:"total_power_import_kwh"`
	TotalPowerImportT1KWh *float64 `json:"total_power_import_t1_kwh"`
	TotalPowerImportT2KWh *float64 `json:"total_power_import_t2_kwh"`
	TotalPowerImportT3KWh *float64 `json:"total_power_import_t3_kwh"`
	TotalPowerImportT4KWh *float64 `json:"total_power_import_t4_kwh"`
	TotalPowerExportKWh   *float64 `json:"total_power_export_kwh"`
	TotalPowerExportT1KWh *float64 `json:"total_power_export_t1_kwh"`
	TotalPowerExportT2KWh *float64 `json:"total_power_export_t2_kwh"`
	TotalPowerExportT3KWh *float64 `json:"total_power_export_t3_kwh"`
	TotalPowerExportT4KWh *float64 `json:"total_power_export_t4_kwh"`

	ActivePowerW   *float64 `json:"active_power_w"`
	ActivePowerL1W *float64 `json:"active_power_l1_w"`
	ActivePowerL2W *float64 `json:"active_power_l2_w"`
	ActivePowerL3W *float64 `json:"active_power_l3_w"`

	ActiveVoltageL1V *float64 `json:"active_voltage_l1_v"`
	ActiveVoltageL2V *float64 `json:"active_voltage_l2_v"`
	ActiveVoltageL3V *float64 `json:"active_voltage_l3_v"`

	ActiveCurrentL1A *float64 `json:"active_current_l1_a"`
	ActiveCurrentL2A *float64 `json:"active_current_l2_a"`
	ActiveCurrentL3A *float64 `json:"active_current_l3_a"`

	ActiveFrequencyHz *float64 `json:"active_frequency_hz"`

	VoltageSagL1Count *int `json:"voltage_sag_l1_count"`
	VoltageSagL2Count *int `json:"voltage_sag_l2_count"`
	VoltageSagL3Count *int `json:"voltage_sag_l3_count"`

	VoltageSwellL1Count *int `json:"voltage_swell_l1_count"`
	VoltageSwellL2Count *int `json:"voltage_swell_l2_count"`
	VoltageSwellL3Count *int `json:"voltage_swell_l3_count"`

	AnyPowerFailCount  *int `json:"any_power_fail_count"`
	LongPowerFailCount *int `json:"long_power_fail_count"`

	ActivePowerAverageW       *float64   `json:"active_power_average_w"`
	MonthlyPowerPeakW         *float64   `json:"montly_power_peak_w"`
	MonthlyPowerPeakTimestamp *time.Time `json:"-"`

	TotalGasM3   *float64   `json:"total_gas_m3"`
	GasTimestamp *time.Time `json:"-"`
	GasUniqueID  *string    `json:"gas_unique_id"`

	ActiveLiterLPM *float64 `json:"active_liter_lpm"`
	TotalLiterM3   *float64 `json:"total_liter_m3"`

	// ExternalDevices is never nil; a device without sub-meters decodes to
	// an empty list.
	ExternalDevices []ExternalDevice `json:"-"`
}

func (d *MeteredData) UnmarshalJSON(b []byte) error {
	type alias MeteredData
	aux := struct {
		*alias
		MonthlyPowerPeakTimestamp json.RawMessage  `json:"montly_power_peak_timestamp"`
		GasTimestamp              json.RawMessage  `json:"gas_timestamp"`
		ExternalDevices           []ExternalDevice `json:"external"`
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	d.MonthlyPowerPeakTimestamp = parseTimestamp(aux.MonthlyPowerPeakTimestamp)
	d.GasTimestamp = parseTimestamp(aux.GasTimestamp)
	d.ExternalDevices = aux.ExternalDevices
	if d.ExternalDevices == nil {
		d.ExternalDevices = []ExternalDevice{}
	}
	return nil
}

// State is the switch state from the `api/v1/state` endpoint.
type State struct {
	PowerOn    *bool `json:"power_on"`
	SwitchLock *bool `json:"switch_lock"`
	Brightness *int  `json:"brightness"`
}

// StateUpdate is a partial switch-state write. Nil fields are left unchanged
// on the device.
type StateUpdate struct {
	PowerOn    *bool `json:"power_on,omitempty"`
	SwitchLock *bool `json:"switch_lock,omitempty"`
	Brightness *int  `json:"brightness,omitempty"`
}

func (u StateUpdate) isEmpty() bool {
	return u.PowerOn == nil && u.SwitchLock == nil && u.Brightness == nil
}

// System holds the system settings from the `api/v1/system` endpoint.
type System struct {
	CloudEnabled *bool `json:"cloud_enabled"`
}

// SystemUpdate is a partial system-settings write.
type SystemUpdate struct {
	CloudEnabled *bool `json:"cloud_enabled,omitempty"`
}

func (u SystemUpdate) isEmpty() bool {
	return u.CloudEnabled == nil
}

// Decryption reports which telemetry decryption parameters are configured
// on the device. It never contains the key material itself.
type Decryption struct {
	KeySet *bool `json:"key"`
	AADSet *bool `json:"aad"`
}

// DecryptionUpdate carries new decryption parameters for the device.
type DecryptionUpdate struct {
	Key *string `json:"key,omitempty"`
	AAD *string `json:"aad,omitempty"`
}

const compactTimeLayout = "060102150405"

// parseTimestamp decodes the compact yyMMddHHmmss encoding used for the gas
// and power-peak timestamps. The device sends it as a bare number, so values
// that lost leading zeros are padded back to 12 digits. Absent or unparsable
// input decodes to nil, never to an error.
func parseTimestamp(raw json.RawMessage) *time.Time {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil
		}
	}
	if len(s) > len(compactTimeLayout) {
		return nil
	}
	s = strings.Repeat("0", len(compactTimeLayout)-len(s)) + s
	t, err := time.Parse(compactTimeLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func formatTimestamp(t time.Time) string {
	return t.Format(compactTimeLayout)
}
