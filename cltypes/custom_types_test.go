package cltypes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashJSONRoundTrip(t *testing.T) {
	in := `"0x5b69db0d6559ec57c3869eabc50cadb0a956071716b9174ed8647f23a37b6cd8"`
	var h Hash
	require.NoError(t, json.Unmarshal([]byte(in), &h))

	out, err := json.Marshal(h)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestHashWrongLength(t *testing.T) {
	// 31 bytes where 32 are required: must fail, never truncate or pad
	var h Hash
	err := json.Unmarshal([]byte(`"0x5b69db0d6559ec57c3869eabc50cadb0a956071716b9174ed8647f23a37b6"`), &h)
	require.Error(t, err)
	assert.Equal(t, Hash{}, h)

	// 33 bytes
	err = json.Unmarshal([]byte(`"0x005b69db0d6559ec57c3869eabc50cadb0a956071716b9174ed8647f23a37b6cd8"`), &h)
	require.Error(t, err)
}

func TestHashMalformedHex(t *testing.T) {
	var h Hash
	for _, in := range []string{
		`"5b69db0d6559ec57c3869eabc50cadb0a956071716b9174ed8647f23a37b6cd8"`, // no 0x
		`"0xzz69db0d6559ec57c3869eabc50cadb0a956071716b9174ed8647f23a37b6cd8"`,
		`42`,
		`null`,
	} {
		assert.Error(t, json.Unmarshal([]byte(in), &h), "input %s", in)
	}
}

func TestBytes48And96Lengths(t *testing.T) {
	var pk Bytes48
	require.NoError(t, json.Unmarshal([]byte(`"0x`+hexOfLen(48)+`"`), &pk))
	require.Error(t, json.Unmarshal([]byte(`"0x`+hexOfLen(47)+`"`), &pk))

	var sig Bytes96
	require.NoError(t, json.Unmarshal([]byte(`"0x`+hexOfLen(96)+`"`), &sig))
	require.Error(t, json.Unmarshal([]byte(`"0x`+hexOfLen(95)+`"`), &sig))
}

func TestUint64StringExactness(t *testing.T) {
	// 2^64-1 must survive exactly, no float coercion
	var n Uint64String
	require.NoError(t, json.Unmarshal([]byte(`"18446744073709551615"`), &n))
	assert.Equal(t, Uint64String(18446744073709551615), n)

	out, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, `"18446744073709551615"`, string(out))

	// bare numbers are not the wire format
	assert.Error(t, json.Unmarshal([]byte(`18446744073709551615`), &n))
}

func TestAttestationDataRoundTrip(t *testing.T) {
	in := &AttestationData{
		Slot:            18446744073709551615,
		CommitteeIndex:  69,
		BeaconBlockRoot: HexToHash("0x01"),
		Source:          Checkpoint{Epoch: 1, Root: HexToHash("0x02")},
		Target:          Checkpoint{Epoch: 2, Root: HexToHash("0x03")},
	}
	encoded, err := json.Marshal(in)
	require.NoError(t, err)

	decoded := &AttestationData{}
	require.NoError(t, json.Unmarshal(encoded, decoded))
	assert.True(t, in.Equal(decoded))
	assert.Equal(t, uint64(18446744073709551615), decoded.Slot)
}

func hexOfLen(n int) string {
	out := make([]byte, n*2)
	for i := range out {
		out[i] = 'a'
	}
	return string(out)
}
