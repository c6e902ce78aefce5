package beaconclient

import (
	"context"

	"github.com/erigontech/beaconapi/beaconhttp"
	"github.com/erigontech/beaconapi/cltypes"
)

func (c *Client) SubmitAttestations(ctx context.Context, attestations []*cltypes.Attestation) error {
	return c.submit(ctx, beaconhttp.RouteSubmitAttestations, attestations)
}

func (c *Client) SubmitVoluntaryExit(ctx context.Context, exit *cltypes.SignedVoluntaryExit) error {
	return c.submit(ctx, beaconhttp.RouteSubmitVoluntaryExit, exit)
}

func (c *Client) SubmitBLSToExecutionChanges(ctx context.Context, changes []*cltypes.SignedBLSToExecutionChange) error {
	return c.submit(ctx, beaconhttp.RouteSubmitBLSChanges, changes)
}

func (c *Client) submit(ctx context.Context, route beaconhttp.Route, v any) error {
	target := route.Target(c.baseURL, nil)
	payload, err := marshalBody(target, v)
	if err != nil {
		return err
	}
	_, _, err = beaconhttp.Do[struct{}](ctx, c.httpClient, route.Method, target, nil, payload)
	return err
}
