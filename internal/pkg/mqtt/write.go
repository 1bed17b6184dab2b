package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hwenergy/hwenergy-integration/internal/pkg/model"
)

var configuredDevices = make(map[string]struct{})

func (s *service) Write(ctx context.Context, points []model.Datapoint) error {
	for _, point := range points {
		if err := s.publishPoint(point); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDevice announces the meter on the home assistant discovery topic.
// Already announced devices are skipped.
func (s *service) RegisterDevice(device *model.Device) error {
	if _, exists := configuredDevices[device.ID]; exists {
		return nil
	}
	slugIdentifier := fmt.Sprintf("%s_%s", device.Model, device.SerialNumber)
	name := fmt.Sprintf("%s %s", device.Model, device.SerialNumber)

	msg := model.RegisterMessage{
		Tilda:      fmt.Sprintf("homeassistant/sensor/%s", slugIdentifier),
		Name:       name,
		ID:         strings.ToLower(slugIdentifier),
		StateTopic: "~/state",
		Device: model.RegisterDevice{
			Name:         name,
			Identifiers:  []string{slugIdentifier},
			Model:        device.Model,
			Manufacturer: "HomeWizard",
		},
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	topic := fmt.Sprintf("homeassistant/sensor/%s/config", slugIdentifier)
	token := s.client.Publish(topic, 1, true, payload)
	if err := token.Error(); err != nil {
		return err
	}
	if token.WaitTimeout(time.Second * 5) {
		configuredDevices[device.ID] = struct{}{}
	}
	return nil
}

func (s *service) publishPoint(point model.Datapoint) error {
	topic := fmt.Sprintf("homeassistant/sensor/%s/%s/state", point.Identifier, point.Slug)

	payload := map[string]string{
		"value": point.Value,
	}
	if !model.TextSensors.HasSlug(point.Slug) {
		payload["unit_of_measurement"] = point.Unit
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	token := s.client.Publish(topic, 0, false, data)
	if token.WaitTimeout(time.Second * 10) {
		return nil
	}
	return token.Error()
}
