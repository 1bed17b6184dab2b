package cmd

import (
	"context"

	"github.com/hwenergy/hwenergy-integration/internal/pkg/hwenergy"
)

// EnergyService defines what cmd.run expects from the meter client.
type EnergyService interface {
	Device(ctx context.Context) (*hwenergy.Device, error)
	Features(ctx context.Context) (hwenergy.FeatureSet, error)
	Data(ctx context.Context) (*hwenergy.MeteredData, error)
	State(ctx context.Context) (*hwenergy.State, error)
	System(ctx context.Context) (*hwenergy.System, error)
	SetState(ctx context.Context, update hwenergy.StateUpdate) error
	Identify(ctx context.Context) error
	Close()
}
