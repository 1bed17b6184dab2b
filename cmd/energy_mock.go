package cmd

import (
	"context"
	"errors"

	"github.com/hwenergy/hwenergy-integration/internal/pkg/hwenergy"
)

// MockEnergyService is a mock implementation of the EnergyService interface.
type MockEnergyService struct {
	DeviceFunc   func(ctx context.Context) (*hwenergy.Device, error)
	FeaturesFunc func(ctx context.Context) (hwenergy.FeatureSet, error)
	DataFunc     func(ctx context.Context) (*hwenergy.MeteredData, error)
	StateFunc    func(ctx context.Context) (*hwenergy.State, error)
	SystemFunc   func(ctx context.Context) (*hwenergy.System, error)
	SetStateFunc func(ctx context.Context, update hwenergy.StateUpdate) error
	IdentifyFunc func(ctx context.Context) error
	CloseFunc    func()
}

func (m *MockEnergyService) Device(ctx context.Context) (*hwenergy.Device, error) {
	if m.DeviceFunc != nil {
		return m.DeviceFunc(ctx)
	}
	return nil, errors.New("mocked Device not implemented")
}

func (m *MockEnergyService) Features(ctx context.Context) (hwenergy.FeatureSet, error) {
	if m.FeaturesFunc != nil {
		return m.FeaturesFunc(ctx)
	}
	return hwenergy.FeatureSet{}, nil
}

func (m *MockEnergyService) Data(ctx context.Context) (*hwenergy.MeteredData, error) {
	if m.DataFunc != nil {
		return m.DataFunc(ctx)
	}
	return nil, errors.New("mocked Data not implemented")
}

func (m *MockEnergyService) State(ctx context.Context) (*hwenergy.State, error) {
	if m.StateFunc != nil {
		return m.StateFunc(ctx)
	}
	return nil, nil
}

func (m *MockEnergyService) System(ctx context.Context) (*hwenergy.System, error) {
	if m.SystemFunc != nil {
		return m.SystemFunc(ctx)
	}
	return nil, nil
}

func (m *MockEnergyService) SetState(ctx context.Context, update hwenergy.StateUpdate) error {
	if m.SetStateFunc != nil {
		return m.SetStateFunc(ctx, update)
	}
	return errors.New("mocked SetState not implemented")
}

func (m *MockEnergyService) Identify(ctx context.Context) error {
	if m.IdentifyFunc != nil {
		return m.IdentifyFunc(ctx)
	}
	return nil
}

func (m *MockEnergyService) Close() {
	if m.CloseFunc != nil {
		m.CloseFunc()
	}
}
