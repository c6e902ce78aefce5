package cltypes

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/beaconapi/clparams"
)

var signedBlockJSON = []byte(`{
	"message": {
		"slot": "8476983",
		"proposer_index": "612987",
		"parent_root": "0x5b69db0d6559ec57c3869eabc50cadb0a956071716b9174ed8647f23a37b6cd8",
		"state_root": "0x` + strings.Repeat("aa", 32) + `",
		"body": {"randao_reveal": "0x00", "eth1_data": {}}
	},
	"signature": "0x` + strings.Repeat("bb", 96) + `"
}`)

func TestDecodeVersionedSignedBeaconBlock(t *testing.T) {
	block, err := DecodeVersionedSignedBeaconBlock(clparams.DenebVersion, signedBlockJSON)
	require.NoError(t, err)

	assert.Equal(t, clparams.DenebVersion, block.Version)
	assert.Equal(t, uint64(8476983), block.Slot)
	assert.Equal(t, uint64(612987), block.ProposerIndex)
	assert.Equal(t, HexToHash("0x5b69db0d6559ec57c3869eabc50cadb0a956071716b9174ed8647f23a37b6cd8"), block.ParentRoot)
	// body is carried fork-shaped, untouched
	assert.True(t, json.Valid(block.Body))
	assert.Contains(t, string(block.Body), "randao_reveal")
}

func TestDecodeVersionedSignedBeaconBlockMissingFields(t *testing.T) {
	_, err := DecodeVersionedSignedBeaconBlock(clparams.CapellaVersion, []byte(`{"signature": null}`))
	require.ErrorContains(t, err, "missing message")

	_, err = DecodeVersionedSignedBeaconBlock(clparams.CapellaVersion,
		[]byte(`{"message": {"slot": "1", "body": {}}}`))
	require.ErrorContains(t, err, "missing signature")
}

func TestStateVersionText(t *testing.T) {
	for _, s := range []string{"phase0", "altair", "bellatrix", "capella", "deneb", "electra"} {
		v, err := clparams.StringToClVersion(s)
		require.NoError(t, err)
		assert.Equal(t, s, v.String())
	}
	_, err := clparams.StringToClVersion("osaka")
	assert.Error(t, err)
}
