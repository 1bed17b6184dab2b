package hwenergy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const jsonContentType = "application/json"

// rawResponse is the undecoded outcome of one successful API call.
type rawResponse struct {
	contentType string
	body        []byte
}

func (r *rawResponse) isJSON() bool {
	return strings.Contains(r.contentType, jsonContentType)
}

// decode unmarshals a JSON body into out. Unknown keys are ignored and
// missing keys leave their fields absent; a body that is not valid JSON is
// treated as a transport fault.
func (r *rawResponse) decode(out any) error {
	if !r.isJSON() {
		return &TransportError{Cause: fmt.Errorf("expected json response, got content type %q", r.contentType)}
	}
	if err := json.Unmarshal(r.body, out); err != nil {
		return &TransportError{Cause: err}
	}
	return nil
}

// request performs a single call against the device under the client
// timeout. It never retries; each call is exactly-once at the transport
// level. Failures are classified into the package error taxonomy.
func (c *Client) request(ctx context.Context, method, path string, payload any) (*rawResponse, error) {
	url := fmt.Sprintf("http://%s/%s", c.host, path)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &TransportError{Cause: err}
		}
		body = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", jsonContentType)
	}

	c.logger.Debug("sending request", zap.String("method", method), zap.String("url", url))
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, &TransportError{Cause: err}
	}
	c.logger.Debug("received response",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)))

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return nil, ErrAPIDisabled
	case resp.StatusCode != http.StatusOK:
		return nil, &UnexpectedStatusError{StatusCode: resp.StatusCode}
	}

	return &rawResponse{
		contentType: resp.Header.Get("Content-Type"),
		body:        data,
	}, nil
}

// getJSON performs a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return resp.decode(out)
}

// send performs a write call whose response body is ignored.
func (c *Client) send(ctx context.Context, method, path string, payload any) error {
	_, err := c.request(ctx, method, path, payload)
	return err
}
