package cmd

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/hwenergy/hwenergy-integration/internal/pkg/config"
	"github.com/hwenergy/hwenergy-integration/internal/pkg/hwenergy"
)

func testConfig() *config.Config {
	return &config.Config{
		EnergyCfg: &config.EnergyConfig{
			Host:         "192.0.2.1",
			Timeout:      time.Second,
			PollInterval: time.Hour,
		},
		MqttCfg:    &config.MqttConfig{},
		ListenAddr: "127.0.0.1:0",
		LogLevel:   "info",
	}
}

func p1Device() *hwenergy.Device {
	return &hwenergy.Device{
		ProductName:     lo.ToPtr("P1 meter"),
		ProductType:     lo.ToPtr("HWE-P1"),
		Serial:          lo.ToPtr("3c39e7aabbcc"),
		APIVersion:      lo.ToPtr("v1"),
		FirmwareVersion: lo.ToPtr("4.19"),
	}
}

func TestRunDeviceError(t *testing.T) {
	t.Parallel()
	logger := zaptest.NewLogger(t)

	deviceErr := errors.New("device unreachable")
	svc := &MockEnergyService{
		DeviceFunc: func(ctx context.Context) (*hwenergy.Device, error) {
			return nil, deviceErr
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx, testConfig(), svc, make(chan error, 10), logger)
	assert.ErrorIs(t, err, deviceErr)
}

func TestRunFirstPollError(t *testing.T) {
	t.Parallel()
	logger := zaptest.NewLogger(t)

	pollErr := errors.New("poll failed")
	svc := &MockEnergyService{
		DeviceFunc: func(ctx context.Context) (*hwenergy.Device, error) {
			return p1Device(), nil
		},
		FeaturesFunc: func(ctx context.Context) (hwenergy.FeatureSet, error) {
			return hwenergy.FeatureSet{HasIdentify: true}, nil
		},
		DataFunc: func(ctx context.Context) (*hwenergy.MeteredData, error) {
			return nil, pollErr
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx, testConfig(), svc, make(chan error, 10), logger)
	assert.ErrorIs(t, err, pollErr)
}

func TestRunContextCancellation(t *testing.T) {
	t.Parallel()
	logger := zaptest.NewLogger(t)

	svc := &MockEnergyService{
		DeviceFunc: func(ctx context.Context) (*hwenergy.Device, error) {
			return p1Device(), nil
		},
		FeaturesFunc: func(ctx context.Context) (hwenergy.FeatureSet, error) {
			return hwenergy.FeatureSet{HasIdentify: true}, nil
		},
		DataFunc: func(ctx context.Context) (*hwenergy.MeteredData, error) {
			return &hwenergy.MeteredData{ActivePowerW: lo.ToPtr(100.0)}, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())

	var runErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = run(ctx, testConfig(), svc, make(chan error, 10), logger)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()
	wg.Wait()

	require.Error(t, runErr)
	assert.ErrorIs(t, runErr, context.Canceled)
}
