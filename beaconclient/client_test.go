package beaconclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/beaconapi/beaconhttp"
	"github.com/erigontech/beaconapi/clparams"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(server.URL)
	t.Cleanup(client.Close)
	return client, server
}

func TestGetGenesisCached(t *testing.T) {
	var hits atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/eth/v1/beacon/genesis", r.URL.Path)
		hits.Add(1)
		fmt.Fprint(w, `{"data": {
			"genesis_time": "1606824023",
			"genesis_validators_root": "0x4b363db94e286120d76eb905340fdd4e54bfe9f06bf33ff6cf5ad27f511bfe95",
			"genesis_fork_version": "0x00000000"
		}}`)
	}))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		genesis, err := client.GetGenesis(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(1606824023), genesis.GenesisTime)
	}
	assert.Equal(t, int64(1), hits.Load())
}

func TestGetProposerDuties(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/eth/v1/validator/duties/proposer/42", r.URL.Path)
		fmt.Fprint(w, `{
			"dependent_root": "0x4b363db94e286120d76eb905340fdd4e54bfe9f06bf33ff6cf5ad27f511bfe95",
			"execution_optimistic": false,
			"data": [
				{"pubkey": "0x`+strings.Repeat("93", 48)+`", "validator_index": "1", "slot": "1344"},
				{"pubkey": "0x`+strings.Repeat("94", 48)+`", "validator_index": "7", "slot": "1345"}
			]
		}`)
	}))

	duties, err := client.GetProposerDuties(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, duties.Duties, 2)
	assert.Equal(t, uint64(1344), duties.Duties[0].Slot)
	assert.Equal(t, uint64(7), duties.Duties[1].ValidatorIndex)
}

func TestGetAttesterDutiesPostsIndices(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/eth/v1/validator/duties/attester/11", r.URL.Path)
		var indices []string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&indices))
		assert.Equal(t, []string{"2", "9"}, indices)
		fmt.Fprint(w, `{"dependent_root": "0x4b363db94e286120d76eb905340fdd4e54bfe9f06bf33ff6cf5ad27f511bfe95", "data": []}`)
	}))

	_, err := client.GetAttesterDuties(context.Background(), 11, []uint64{2, 9})
	require.NoError(t, err)
}

func TestGetValidatorsQuery(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/eth/v1/beacon/states/head/validators", r.URL.Path)
		assert.Equal(t, []string{"1", "5"}, r.URL.Query()["id"])
		assert.Equal(t, []string{"active_ongoing"}, r.URL.Query()["status"])
		fmt.Fprint(w, `{"data": [{
			"index": "5", "balance": "32000000000", "status": "active_ongoing",
			"validator": {
				"pubkey": "0x`+strings.Repeat("93", 48)+`",
				"withdrawal_credentials": "0x`+strings.Repeat("00", 32)+`",
				"effective_balance": "32000000000", "slashed": false,
				"activation_eligibility_epoch": "0", "activation_epoch": "0",
				"exit_epoch": "18446744073709551615", "withdrawable_epoch": "18446744073709551615"
			}
		}]}`)
	}))

	validators, err := client.GetValidators(context.Background(), IDHead, []string{"1", "5"}, []string{"active_ongoing"})
	require.NoError(t, err)
	require.Len(t, validators, 1)
	assert.Equal(t, uint64(5), validators[0].Index)
	// exactness at the top of the uint64 range
	assert.Equal(t, uint64(18446744073709551615), validators[0].Validator.ExitEpoch)
}

func TestGetBlockVersionDispatch(t *testing.T) {
	body := `{"version": "deneb", "execution_optimistic": false, "finalized": true, "data": {
		"message": {
			"slot": "64", "proposer_index": "3",
			"parent_root": "0x4b363db94e286120d76eb905340fdd4e54bfe9f06bf33ff6cf5ad27f511bfe95",
			"state_root": "0x4b363db94e286120d76eb905340fdd4e54bfe9f06bf33ff6cf5ad27f511bfe95",
			"body": {}
		},
		"signature": "0x` + strings.Repeat("ab", 96) + `"
	}}`

	mismatch := false
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if mismatch {
			w.Header().Set("Eth-Consensus-Version", "capella")
		} else {
			w.Header().Set("Eth-Consensus-Version", "deneb")
		}
		fmt.Fprint(w, body)
	}))

	block, err := client.GetBlock(context.Background(), IDHead)
	require.NoError(t, err)
	assert.Equal(t, clparams.DenebVersion, block.Version)
	assert.Equal(t, uint64(64), block.Slot)

	// discriminant disagreement is a decode error, not a guess
	mismatch = true
	_, err = client.GetBlock(context.Background(), IDHead)
	require.Error(t, err)
	assert.True(t, errors.Is(err, beaconhttp.ErrDecode))
}

func TestGetHealthTriState(t *testing.T) {
	status := http.StatusOK
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	health, err := client.GetHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, HealthReady, health)

	status = http.StatusPartialContent
	health, err = client.GetHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, HealthSyncing, health)

	status = http.StatusServiceUnavailable
	health, err = client.GetHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, HealthNotReady, health)
}

func TestNotFoundPreservesServerMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"code": 404, "message": "Could not find beacon state"}`)
	}))

	_, err := client.GetFinalityCheckpoints(context.Background(), IDFinalized)
	apiErr := &beaconhttp.ApiError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Code)
	assert.Equal(t, "Could not find beacon state", apiErr.Message)
}
