package beaconclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/erigontech/beaconapi/beaconhttp"
	"github.com/erigontech/beaconapi/cltypes"
)

// HealthStatus is the tri-state answer of /eth/v1/node/health.
type HealthStatus uint8

const (
	HealthReady    HealthStatus = iota // 200: synced and serving
	HealthSyncing                      // 206: serving but still syncing
	HealthNotReady                     // 503: not initialized / unhealthy
)

func (c *Client) GetSyncStatus(ctx context.Context) (*cltypes.SyncStatus, error) {
	resp, _, err := beaconhttp.Do[beaconhttp.BeaconResponse[cltypes.SyncStatus]](
		ctx, c.httpClient, beaconhttp.RouteSyncStatus.Method, beaconhttp.RouteSyncStatus.Target(c.baseURL, nil), nil, nil)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) GetNodeVersion(ctx context.Context) (*cltypes.NodeVersion, error) {
	return cached(c, "node_version", func() (*cltypes.NodeVersion, error) {
		resp, _, err := beaconhttp.Do[beaconhttp.BeaconResponse[cltypes.NodeVersion]](
			ctx, c.httpClient, beaconhttp.RouteNodeVersion.Method, beaconhttp.RouteNodeVersion.Target(c.baseURL, nil), nil, nil)
		if err != nil {
			return nil, err
		}
		return &resp.Data, nil
	})
}

// GetHealth maps the health endpoint's status codes onto HealthStatus. A
// 503 is a well-defined health answer, not an error.
func (c *Client) GetHealth(ctx context.Context) (HealthStatus, error) {
	_, meta, err := beaconhttp.Do[struct{}](
		ctx, c.httpClient, beaconhttp.RouteNodeHealth.Method, beaconhttp.RouteNodeHealth.Target(c.baseURL, nil), nil, nil)
	if err != nil {
		apiErr := &beaconhttp.ApiError{}
		if errors.As(err, &apiErr) && apiErr.Kind == beaconhttp.KindHTTPStatus && apiErr.Code == http.StatusServiceUnavailable {
			return HealthNotReady, nil
		}
		return HealthNotReady, err
	}
	if meta.Status == http.StatusPartialContent {
		return HealthSyncing, nil
	}
	return HealthReady, nil
}
