package beaconhttp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncingPayload struct {
	HeadSlot  uint64 `json:"head_slot,string"`
	IsSyncing bool   `json:"is_syncing"`
}

func TestDoDecodesTypedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"data": {"head_slot": "18446744073709551615", "is_syncing": true}}`))
	}))
	defer server.Close()

	resp, meta, err := Do[BeaconResponse[syncingPayload]](context.Background(), server.Client(), http.MethodGet, server.URL+"/eth/v1/node/syncing", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, meta.Status)
	assert.Equal(t, uint64(18446744073709551615), resp.Data.HeadSlot)
	assert.True(t, resp.Data.IsSyncing)
}

func TestDoStructuredHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code": 404, "message": "Could not find beacon state"}`))
	}))
	defer server.Close()

	_, _, err := Do[BeaconResponse[syncingPayload]](context.Background(), server.Client(), http.MethodGet, server.URL, nil, nil)
	require.Error(t, err)

	apiErr := &ApiError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindHTTPStatus, apiErr.Kind)
	assert.Equal(t, http.StatusNotFound, apiErr.Code)
	assert.Equal(t, "Could not find beacon state", apiErr.Message)
	assert.Contains(t, string(apiErr.Body), "Could not find beacon state")
	assert.True(t, errors.Is(err, ErrHTTPStatus))
}

func TestDoUnstructuredHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	_, _, err := Do[BeaconResponse[syncingPayload]](context.Background(), server.Client(), http.MethodGet, server.URL, nil, nil)
	apiErr := &ApiError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindHTTPStatus, apiErr.Kind)
	assert.Equal(t, http.StatusBadGateway, apiErr.Code)
	// raw body is never discarded
	assert.Equal(t, "upstream exploded", string(apiErr.Body))
}

func TestDoDecodeErrorIsNotHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"head_slot": 12`)) // accepted, then garbage
	}))
	defer server.Close()

	_, _, err := Do[BeaconResponse[syncingPayload]](context.Background(), server.Client(), http.MethodGet, server.URL, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
	assert.False(t, errors.Is(err, ErrHTTPStatus))
}

func TestDoNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	_, _, err := Do[BeaconResponse[syncingPayload]](context.Background(), &http.Client{}, http.MethodGet, server.URL, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestDoEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, _, err := Do[struct{}](context.Background(), server.Client(), http.MethodPost, server.URL, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, resp)
}

func TestRouteTarget(t *testing.T) {
	assert.Equal(t,
		"http://localhost:5052/eth/v2/beacon/blocks/head",
		RouteBlock.Target("http://localhost:5052/", nil, "head"))
	assert.Equal(t,
		"http://localhost:5052/eth/v1/validator/duties/proposer/42",
		RouteProposerDuties.Target("http://localhost:5052", nil, uint64(42)))
}
