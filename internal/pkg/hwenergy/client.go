package hwenergy

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// SupportedAPIVersion is the only device API generation this client
// understands.
const SupportedAPIVersion = "v1"

const defaultTimeout = 10 * time.Second

// Client talks to a single HomeWizard Energy device over its local REST API.
// The device identity and capability set are fetched lazily on first use and
// cached for the lifetime of the client; calling Device again is the only way
// to refresh them. Concurrent calls are allowed but the client gives no
// ordering guarantee between them.
type Client struct {
	host    string
	http    *http.Client
	ownHTTP bool
	timeout time.Duration
	logger  *zap.Logger

	mu       sync.Mutex
	device   *Device
	features *FeatureSet
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient supplies an externally owned *http.Client. Ownership stays
// with the caller: Close will not release it.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithTimeout bounds every request made by the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger overrides the global logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client for the device at host (IP or hostname).
func New(host string, opts ...Option) *Client {
	c := &Client{
		host:    host,
		timeout: defaultTimeout,
		logger:  zap.L(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{}
		c.ownHTTP = true
	}
	return c
}

// Host returns the configured device host.
func (c *Client) Host() string {
	return c.host
}

// Device fetches the device identity, refreshes the cached identity and
// capability set, and verifies the API version. The capability cache is
// refreshed even when the version check fails, so read-only gating stays
// accurate for the device that actually answered.
func (c *Client) Device(ctx context.Context) (*Device, error) {
	var device Device
	if err := c.getJSON(ctx, "api", &device); err != nil {
		return nil, err
	}

	features := ResolveFeatures(lo.FromPtr(device.ProductType), lo.FromPtr(device.FirmwareVersion))
	c.mu.Lock()
	c.features = &features
	c.mu.Unlock()

	if actual := lo.FromPtr(device.APIVersion); actual != SupportedAPIVersion {
		return nil, &UnsupportedAPIVersionError{Expected: SupportedAPIVersion, Actual: actual}
	}

	c.mu.Lock()
	c.device = &device
	c.mu.Unlock()
	return &device, nil
}

// Features returns the capability set, fetching the device identity on
// first use.
func (c *Client) Features(ctx context.Context) (FeatureSet, error) {
	c.mu.Lock()
	cached := c.features
	c.mu.Unlock()
	if cached != nil {
		return *cached, nil
	}

	if _, err := c.Device(ctx); err != nil {
		return FeatureSet{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.features, nil
}

// Data fetches the current metered readings.
func (c *Client) Data(ctx context.Context) (*MeteredData, error) {
	var data MeteredData
	if err := c.getJSON(ctx, "api/v1/data", &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// State fetches the switch state. Devices without switchable state return
// (nil, nil): there is simply no state to read, which is not an error.
func (c *Client) State(ctx context.Context) (*State, error) {
	features, err := c.Features(ctx)
	if err != nil {
		return nil, err
	}
	if !features.HasState {
		return nil, nil
	}

	var state State
	if err := c.getJSON(ctx, "api/v1/state", &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SetState writes a partial switch state. At least one field must be set.
func (c *Client) SetState(ctx context.Context, update StateUpdate) error {
	features, err := c.Features(ctx)
	if err != nil {
		return err
	}
	if !features.HasState {
		return &UnsupportedError{Operation: "setting state"}
	}
	if update.isEmpty() {
		return &InvalidArgumentError{Field: "state", Reason: "at least one state update is required"}
	}
	return c.send(ctx, http.MethodPut, "api/v1/state", update)
}

// System fetches the system settings.
func (c *Client) System(ctx context.Context) (*System, error) {
	var system System
	if err := c.getJSON(ctx, "api/v1/system", &system); err != nil {
		return nil, err
	}
	return &system, nil
}

// SetSystem writes a partial system configuration. At least one field must
// be set.
func (c *Client) SetSystem(ctx context.Context, update SystemUpdate) error {
	features, err := c.Features(ctx)
	if err != nil {
		return err
	}
	if !features.HasSystem {
		return &UnsupportedError{Operation: "setting system"}
	}
	if update.isEmpty() {
		return &InvalidArgumentError{Field: "system", Reason: "at least one system update is required"}
	}
	return c.send(ctx, http.MethodPut, "api/v1/system", update)
}

// Identify makes the device blink its status light.
func (c *Client) Identify(ctx context.Context) error {
	features, err := c.Features(ctx)
	if err != nil {
		return err
	}
	if !features.HasIdentify {
		return &UnsupportedError{Operation: "identify"}
	}
	return c.send(ctx, http.MethodPut, "api/v1/identify", nil)
}

// Decryption fetches which decryption parameters are configured.
func (c *Client) Decryption(ctx context.Context) (*Decryption, error) {
	var decryption Decryption
	if err := c.getJSON(ctx, "api/v1/decryption", &decryption); err != nil {
		return nil, err
	}
	return &decryption, nil
}

const (
	decryptionKeyLength = 32
	decryptionAADLength = 34
)

// SetDecryption writes the telemetry decryption key and/or the additional
// authenticated data. The key is 32 hex characters, the AAD 34; a 32
// character AAD is a known mistake where the '30' prefix got dropped. At
// least one of the two must be present.
func (c *Client) SetDecryption(ctx context.Context, update DecryptionUpdate) error {
	features, err := c.Features(ctx)
	if err != nil {
		return err
	}
	if !features.HasDecryption {
		return &UnsupportedError{Operation: "setting decryption"}
	}

	if update.Key != nil {
		if len(*update.Key) != decryptionKeyLength {
			return &InvalidArgumentError{Field: "key", Reason: "length should be 32 characters"}
		}
		if !isHex(*update.Key) {
			return &InvalidArgumentError{Field: "key", Reason: "should only contain hexadecimal characters (0-9/a-f)"}
		}
	}
	if update.AAD != nil {
		if len(*update.AAD) != decryptionAADLength {
			invalid := &InvalidArgumentError{Field: "aad", Reason: "length should be 34 characters"}
			if len(*update.AAD) == decryptionKeyLength {
				invalid.Hint = "try prefixing the AAD with '30', e.g. '30<AAD>'"
			}
			return invalid
		}
		if !isHex(*update.AAD) {
			return &InvalidArgumentError{Field: "aad", Reason: "should only contain hexadecimal characters (0-9/a-f)"}
		}
	}
	if update.Key == nil && update.AAD == nil {
		return &InvalidArgumentError{Field: "decryption", Reason: "at least one decryption parameter is required"}
	}

	return c.send(ctx, http.MethodPut, "api/v1/decryption", update)
}

// ResetDecryption clears the stored key and/or AAD on the device.
func (c *Client) ResetDecryption(ctx context.Context, key, aad bool) error {
	features, err := c.Features(ctx)
	if err != nil {
		return err
	}
	if !features.HasDecryption {
		return &UnsupportedError{Operation: "resetting decryption"}
	}

	reset := struct {
		Key bool `json:"key"`
		AAD bool `json:"aad"`
	}{Key: key, AAD: aad}
	return c.send(ctx, http.MethodDelete, "api/v1/decryption", reset)
}

// Close releases the transport, but only when the client created it itself.
// Externally supplied HTTP clients stay owned by the caller.
func (c *Client) Close() {
	if c.ownHTTP {
		c.logger.Debug("closing http client")
		c.http.CloseIdleConnections()
	}
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
