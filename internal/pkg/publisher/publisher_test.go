package publisher

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/hwenergy/hwenergy-integration/internal/pkg/model"
)

type capturePublisher struct {
	writes  [][]model.Datapoint
	devices []*model.Device
	err     error
}

func (c *capturePublisher) Write(_ context.Context, points []model.Datapoint) error {
	if c.err != nil {
		return c.err
	}
	c.writes = append(c.writes, points)
	return nil
}

func (c *capturePublisher) RegisterDevice(device *model.Device) error {
	if c.err != nil {
		return c.err
	}
	c.devices = append(c.devices, device)
	return nil
}

func TestRegisterPublisherDuplicate(t *testing.T) {
	pub := &capturePublisher{}
	require.NoError(t, RegisterPublisher("dup-test", pub))
	assert.ErrorIs(t, RegisterPublisher("dup-test", pub), errAlreadyRegistered)
}

func TestPublishDataDedup(t *testing.T) {
	zap.ReplaceGlobals(zaptest.NewLogger(t))
	pub := &capturePublisher{}
	require.NoError(t, RegisterPublisher("dedup-test", pub))

	device := model.Device{ID: "HWE-P1_dedup", Model: "HWE-P1", SerialNumber: "dedup"}
	statuses := []model.DeviceStatus{
		{Name: "Active Power", Slug: "active_power", Value: lo.ToPtr("523"), Unit: "W"},
		{Name: "Wifi SSID", Slug: "wifi_ssid", Value: lo.ToPtr("home-iot")},
		{Name: "No Value", Slug: "no_value", Value: nil},
	}

	require.NoError(t, PublishData(context.Background(), device, statuses))
	require.Len(t, pub.writes, 1)
	assert.Len(t, pub.writes[0], 2)

	// unchanged values are suppressed on the next poll
	require.NoError(t, PublishData(context.Background(), device, statuses))
	require.Len(t, pub.writes, 2)
	assert.Empty(t, pub.writes[1])

	statuses[0].Value = lo.ToPtr("612")
	require.NoError(t, PublishData(context.Background(), device, statuses))
	require.Len(t, pub.writes, 3)
	require.Len(t, pub.writes[2], 1)
	assert.Equal(t, "612", pub.writes[2][0].Value)
	assert.Equal(t, "W", pub.writes[2][0].Unit)
	assert.Equal(t, "HWE-P1_dedup", pub.writes[2][0].Identifier)
}

func TestRegisterDeviceFanOut(t *testing.T) {
	zap.ReplaceGlobals(zaptest.NewLogger(t))
	pub := &capturePublisher{}
	require.NoError(t, RegisterPublisher("register-test", pub))

	device := &model.Device{ID: "HWE-SKT_reg", Model: "HWE-SKT", SerialNumber: "reg"}
	require.NoError(t, RegisterDevice(device))
	require.NotEmpty(t, pub.devices)
	assert.Equal(t, device, pub.devices[len(pub.devices)-1])
}
