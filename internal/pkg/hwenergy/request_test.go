package hwenergy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// testClient points a client at an httptest server.
func testClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{
		WithLogger(zaptest.NewLogger(t)),
		WithHTTPClient(srv.Client()),
	}, opts...)
	return New(strings.TrimPrefix(srv.URL, "http://"), opts...)
}

func TestRequestAPIDisabledOn403(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testClient(t, srv).Data(context.Background())
	assert.ErrorIs(t, err, ErrAPIDisabled)
}

func TestRequestUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(t, srv).Data(context.Background())

	var statusErr *UnexpectedStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.NotErrorIs(t, err, ErrAPIDisabled)
}

func TestRequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := testClient(t, srv, WithTimeout(20*time.Millisecond)).Data(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestRequestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := testClient(t, srv).Data(context.Background())

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Error(t, transportErr.Cause)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestRequestMalformedJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"active_power_w": `))
	}))
	defer srv.Close()

	_, err := testClient(t, srv).Data(context.Background())

	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestRequestNonJSONWhereJSONExpected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	_, err := testClient(t, srv).Data(context.Background())

	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestRequestSetsJSONContentType(t *testing.T) {
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
	}))
	defer srv.Close()

	c := testClient(t, srv)
	require.NoError(t, c.send(context.Background(), http.MethodPut, "api/v1/state", StateUpdate{PowerOn: lo.ToPtr(true)}))
	assert.Equal(t, "application/json", contentType)
}

func TestRequestNoContentTypeWithoutBody(t *testing.T) {
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
	}))
	defer srv.Close()

	c := testClient(t, srv)
	require.NoError(t, c.send(context.Background(), http.MethodPut, "api/v1/identify", nil))
	assert.Empty(t, contentType)
}

func TestRequestCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(t, srv).Data(ctx)
	// a cancelled caller context is not the request deadline
	assert.NotErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.Canceled)
}
