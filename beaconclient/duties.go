package beaconclient

import (
	"bytes"
	"context"
	"strconv"

	"github.com/erigontech/beaconapi/beaconhttp"
	"github.com/erigontech/beaconapi/cltypes"
)

func (c *Client) GetProposerDuties(ctx context.Context, epoch uint64) (*cltypes.ProposerDuties, error) {
	duties, _, err := beaconhttp.Do[cltypes.ProposerDuties](
		ctx, c.httpClient, beaconhttp.RouteProposerDuties.Method, beaconhttp.RouteProposerDuties.Target(c.baseURL, nil, epoch), nil, nil)
	if err != nil {
		return nil, err
	}
	return duties, nil
}

// GetAttesterDuties posts the validator index set and returns their
// attestation duties for the epoch.
func (c *Client) GetAttesterDuties(ctx context.Context, epoch uint64, indices []uint64) (*cltypes.AttesterDuties, error) {
	target := beaconhttp.RouteAttesterDuties.Target(c.baseURL, nil, epoch)
	// wire format is an array of decimal strings
	req := make([]string, 0, len(indices))
	for _, index := range indices {
		req = append(req, strconv.FormatUint(index, 10))
	}
	payload, err := marshalBody(target, req)
	if err != nil {
		return nil, err
	}
	duties, _, err := beaconhttp.Do[cltypes.AttesterDuties](
		ctx, c.httpClient, beaconhttp.RouteAttesterDuties.Method, target, nil, payload)
	if err != nil {
		return nil, err
	}
	return duties, nil
}

func marshalBody(target string, v any) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	if err := beaconhttp.EncodeBody(buf, v); err != nil {
		return nil, beaconhttp.NewDecodeError(target, nil, err)
	}
	return buf, nil
}
