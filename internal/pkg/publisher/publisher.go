package publisher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hwenergy/hwenergy-integration/internal/pkg/model"
)

var errAlreadyRegistered = errors.New("publisher already registered")

var (
	registeredPublishers = make(map[string]publisher)
	sensors              sync.Map
)

type publisher interface {
	// Write delivers the changed datapoints to the backing adapter.
	Write(ctx context.Context, points []model.Datapoint) error
	RegisterDevice(device *model.Device) error
}

func RegisterPublisher(name string, publisher publisher) error {
	if _, ok := registeredPublishers[name]; ok {
		return errAlreadyRegistered
	}
	registeredPublishers[name] = publisher
	return nil
}

// PublishData fans the readings out to every registered publisher. Readings
// whose value has not changed since the previous poll are skipped.
func PublishData(ctx context.Context, device model.Device, statuses []model.DeviceStatus) error {
	points := make([]model.Datapoint, 0)
	slugIdentifier := fmt.Sprintf("%s_%s", strings.Replace(device.Model, ".", "", -1), device.SerialNumber)

	for _, status := range statuses {
		if status.Value == nil {
			continue
		}
		if !shouldUpdate(slugIdentifier, status.Slug, *status.Value) {
			continue
		}
		points = append(points, model.Datapoint{
			Identifier: slugIdentifier,
			Slug:       status.Slug,
			Value:      *status.Value,
			Unit:       status.Unit,
			Timestamp:  time.Now(),
		})
	}

	for name, publisher := range registeredPublishers {
		if err := publisher.Write(ctx, points); err != nil {
			zap.L().Error("failed to publish data", zap.Error(err), zap.String("publisher", name))
			continue
		}
		zap.L().Debug("updated sensors", zap.Int("count", len(points)), zap.String("publisher", name))
	}
	return nil
}

func RegisterDevice(device *model.Device) error {
	for name, publisher := range registeredPublishers {
		if err := publisher.RegisterDevice(device); err != nil {
			zap.L().Error("failed to register device", zap.Error(err), zap.String("publisher", name))
			continue
		}
		zap.L().Debug("registered device", zap.String("device", device.SerialNumber), zap.String("publisher", name))
	}
	return nil
}

func shouldUpdate(identifier, slug, newValue string) bool {
	key := fmt.Sprintf("%s_%s", identifier, slug)
	oldValue, exists := sensors.Load(key)
	if exists && strings.EqualFold(newValue, oldValue.(string)) {
		return false
	}
	zap.L().Info("Configured sensor:", zap.String("device", identifier), zap.String("sensor", slug), zap.String("value", newValue))
	sensors.Store(key, newValue)
	return true
}
