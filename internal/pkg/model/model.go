package model

import "time"

// Device identifies one metering device towards the publishers.
type Device struct {
	ID           string
	Model        string
	SerialNumber string
}

// DeviceStatus is a single sensor reading ready for publishing.
type DeviceStatus struct {
	Name  string  `json:"name"`
	Slug  string  `json:"slug"`
	Value *string `json:"value"`
	Unit  string  `json:"unit"`
}

// Datapoint is a changed reading handed to the publishing adapters.
type Datapoint struct {
	Identifier string    `json:"identifier"`
	Slug       string    `json:"slug"`
	Value      string    `json:"value"`
	Unit       string    `json:"unit_of_measurement"`
	Timestamp  time.Time `json:"timestamp"`
}
