package model

type (
	TextSensor     string
	TextSensorList []TextSensor
)

// Readings that are published as text rather than a numeric value.
const (
	WifiSSIDTextSensor      TextSensor = "wifi_ssid"
	MeterModelTextSensor    TextSensor = "meter_model"
	UniqueMeterIDTextSensor TextSensor = "unique_meter_id"
	GasUniqueIDTextSensor   TextSensor = "gas_unique_id"
	PowerOnTextSensor       TextSensor = "power_on"
	SwitchLockTextSensor    TextSensor = "switch_lock"

	GasTimestampTextSensor          TextSensor = "gas_timestamp"
	MonthlyPowerPeakTimestampSensor TextSensor = "monthly_power_peak_timestamp"
	CloudEnabledTextSensor          TextSensor = "cloud_enabled"
)

func (t TextSensor) String() string {
	return string(t)
}

func (ts TextSensorList) HasSlug(slug string) bool {
	for _, t := range ts {
		if t.String() == slug {
			return true
		}
	}
	return false
}

var TextSensors = TextSensorList{
	WifiSSIDTextSensor,
	MeterModelTextSensor,
	UniqueMeterIDTextSensor,
	GasUniqueIDTextSensor,
	PowerOnTextSensor,
	SwitchLockTextSensor,
	GasTimestampTextSensor,
	MonthlyPowerPeakTimestampSensor,
	CloudEnabledTextSensor,
}
