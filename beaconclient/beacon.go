package beaconclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/erigontech/beaconapi/beaconhttp"
	"github.com/erigontech/beaconapi/clparams"
	"github.com/erigontech/beaconapi/cltypes"
)

func (c *Client) GetGenesis(ctx context.Context) (*cltypes.Genesis, error) {
	return cached(c, "genesis", func() (*cltypes.Genesis, error) {
		resp, _, err := beaconhttp.Do[beaconhttp.BeaconResponse[cltypes.Genesis]](
			ctx, c.httpClient, beaconhttp.RouteGenesis.Method, beaconhttp.RouteGenesis.Target(c.baseURL, nil), nil, nil)
		if err != nil {
			return nil, err
		}
		return &resp.Data, nil
	})
}

func (c *Client) GetBlockRoot(ctx context.Context, blockID BlockID) (cltypes.Hash, error) {
	resp, _, err := beaconhttp.Do[beaconhttp.BeaconResponse[cltypes.BlockRoot]](
		ctx, c.httpClient, beaconhttp.RouteBlockRoot.Method, beaconhttp.RouteBlockRoot.Target(c.baseURL, nil, blockID), nil, nil)
	if err != nil {
		return cltypes.Hash{}, err
	}
	return resp.Data.Root, nil
}

func (c *Client) GetBlockHeader(ctx context.Context, blockID BlockID) (*cltypes.HeaderResponse, error) {
	resp, _, err := beaconhttp.Do[beaconhttp.BeaconResponse[cltypes.HeaderResponse]](
		ctx, c.httpClient, beaconhttp.RouteBlockHeader.Method, beaconhttp.RouteBlockHeader.Target(c.baseURL, nil, blockID), nil, nil)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// GetBlockHeaders filters by slot and/or parent root; both nil returns the
// chain head's headers.
func (c *Client) GetBlockHeaders(ctx context.Context, slot *uint64, parentRoot *cltypes.Hash) ([]*cltypes.HeaderResponse, error) {
	q := url.Values{}
	if slot != nil {
		q.Set("slot", strconv.FormatUint(*slot, 10))
	}
	if parentRoot != nil {
		q.Set("parent_root", parentRoot.Hex())
	}
	resp, _, err := beaconhttp.Do[beaconhttp.BeaconResponse[[]*cltypes.HeaderResponse]](
		ctx, c.httpClient, beaconhttp.RouteBlockHeaders.Method, beaconhttp.RouteBlockHeaders.Target(c.baseURL, q), nil, nil)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetBlock fetches a signed beacon block. The fork variant is selected by
// the response's version discriminant; when the Eth-Consensus-Version
// header is also present the two must agree.
func (c *Client) GetBlock(ctx context.Context, blockID BlockID) (*cltypes.VersionedSignedBeaconBlock, error) {
	target := beaconhttp.RouteBlock.Target(c.baseURL, nil, blockID)
	resp, meta, err := beaconhttp.Do[beaconhttp.BeaconResponse[json.RawMessage]](
		ctx, c.httpClient, beaconhttp.RouteBlock.Method, target, nil, nil)
	if err != nil {
		return nil, err
	}
	version, err := clparams.StringToClVersion(resp.Version)
	if err != nil {
		return nil, beaconhttp.NewDecodeError(target, []byte(resp.Version), err)
	}
	if headerVersion, ok, err := meta.ConsensusVersion(); err != nil {
		return nil, beaconhttp.NewDecodeError(target, nil, err)
	} else if ok && headerVersion != version {
		return nil, beaconhttp.NewDecodeError(target, nil,
			fmt.Errorf("version mismatch: body %s, header %s", version, headerVersion))
	}
	block, err := cltypes.DecodeVersionedSignedBeaconBlock(version, resp.Data)
	if err != nil {
		return nil, beaconhttp.NewDecodeError(target, resp.Data, err)
	}
	return block, nil
}

func (c *Client) GetFork(ctx context.Context, stateID StateID) (*cltypes.Fork, error) {
	resp, _, err := beaconhttp.Do[beaconhttp.BeaconResponse[cltypes.Fork]](
		ctx, c.httpClient, beaconhttp.RouteFork.Method, beaconhttp.RouteFork.Target(c.baseURL, nil, stateID), nil, nil)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) GetFinalityCheckpoints(ctx context.Context, stateID StateID) (*cltypes.FinalityCheckpoints, error) {
	resp, _, err := beaconhttp.Do[beaconhttp.BeaconResponse[cltypes.FinalityCheckpoints]](
		ctx, c.httpClient, beaconhttp.RouteFinalityCheckpoints.Method, beaconhttp.RouteFinalityCheckpoints.Target(c.baseURL, nil, stateID), nil, nil)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// GetValidators returns validators of a state, optionally filtered by
// identifier (index or pubkey) and status.
func (c *Client) GetValidators(ctx context.Context, stateID StateID, ids []string, statuses []string) ([]*cltypes.ValidatorEntry, error) {
	q := url.Values{}
	for _, id := range ids {
		q.Add("id", id)
	}
	for _, status := range statuses {
		q.Add("status", status)
	}
	resp, _, err := beaconhttp.Do[beaconhttp.BeaconResponse[[]*cltypes.ValidatorEntry]](
		ctx, c.httpClient, beaconhttp.RouteValidators.Method, beaconhttp.RouteValidators.Target(c.baseURL, q, stateID), nil, nil)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) GetValidator(ctx context.Context, stateID StateID, id string) (*cltypes.ValidatorEntry, error) {
	resp, _, err := beaconhttp.Do[beaconhttp.BeaconResponse[cltypes.ValidatorEntry]](
		ctx, c.httpClient, beaconhttp.RouteValidator.Method, beaconhttp.RouteValidator.Target(c.baseURL, nil, stateID, id), nil, nil)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) GetValidatorBalances(ctx context.Context, stateID StateID, ids []string) ([]*cltypes.ValidatorBalance, error) {
	q := url.Values{}
	for _, id := range ids {
		q.Add("id", id)
	}
	resp, _, err := beaconhttp.Do[beaconhttp.BeaconResponse[[]*cltypes.ValidatorBalance]](
		ctx, c.httpClient, beaconhttp.RouteValidatorBalances.Method, beaconhttp.RouteValidatorBalances.Target(c.baseURL, q, stateID), nil, nil)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CommitteesFilter narrows /eth/v1/beacon/states/{state_id}/committees.
type CommitteesFilter struct {
	Epoch *uint64
	Index *uint64
	Slot  *uint64
}

func (c *Client) GetCommittees(ctx context.Context, stateID StateID, filter CommitteesFilter) ([]*cltypes.Committee, error) {
	q := url.Values{}
	if filter.Epoch != nil {
		q.Set("epoch", strconv.FormatUint(*filter.Epoch, 10))
	}
	if filter.Index != nil {
		q.Set("index", strconv.FormatUint(*filter.Index, 10))
	}
	if filter.Slot != nil {
		q.Set("slot", strconv.FormatUint(*filter.Slot, 10))
	}
	resp, _, err := beaconhttp.Do[beaconhttp.BeaconResponse[[]*cltypes.Committee]](
		ctx, c.httpClient, beaconhttp.RouteCommittees.Method, beaconhttp.RouteCommittees.Target(c.baseURL, q, stateID), nil, nil)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}
