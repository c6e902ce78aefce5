package cltypes

import (
	"encoding/json"
	"fmt"

	"github.com/erigontech/beaconapi/clparams"
)

// VersionedSignedBeaconBlock carries a signed beacon block whose body shape
// depends on the fork. The version is an explicit discriminant supplied by
// the server (response "version" field / Eth-Consensus-Version header); it
// is never inferred from the body's structure. The common header fields are
// typed; the body is kept as the fork-shaped raw document, since the full
// per-fork body types belong to the node's consensus-types layer.
type VersionedSignedBeaconBlock struct {
	Version       clparams.StateVersion
	Slot          uint64
	ProposerIndex uint64
	ParentRoot    Hash
	StateRoot     Hash
	Signature     Bytes96
	Body          json.RawMessage
}

func DecodeVersionedSignedBeaconBlock(version clparams.StateVersion, data []byte) (*VersionedSignedBeaconBlock, error) {
	var raw struct {
		Message *struct {
			Slot          uint64          `json:"slot,string"`
			ProposerIndex uint64          `json:"proposer_index,string"`
			ParentRoot    Hash            `json:"parent_root"`
			StateRoot     Hash            `json:"state_root"`
			Body          json.RawMessage `json:"body"`
		} `json:"message"`
		Signature *Bytes96 `json:"signature"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Message == nil {
		return nil, fmt.Errorf("signed beacon block: missing message")
	}
	if raw.Signature == nil {
		return nil, fmt.Errorf("signed beacon block: missing signature")
	}
	if len(raw.Message.Body) == 0 {
		return nil, fmt.Errorf("signed beacon block: missing body")
	}
	return &VersionedSignedBeaconBlock{
		Version:       version,
		Slot:          raw.Message.Slot,
		ProposerIndex: raw.Message.ProposerIndex,
		ParentRoot:    raw.Message.ParentRoot,
		StateRoot:     raw.Message.StateRoot,
		Signature:     *raw.Signature,
		Body:          raw.Message.Body,
	}, nil
}

func (b *VersionedSignedBeaconBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Message   any     `json:"message"`
		Signature Bytes96 `json:"signature"`
	}{
		Message: struct {
			Slot          uint64          `json:"slot,string"`
			ProposerIndex uint64          `json:"proposer_index,string"`
			ParentRoot    Hash            `json:"parent_root"`
			StateRoot     Hash            `json:"state_root"`
			Body          json.RawMessage `json:"body"`
		}{b.Slot, b.ProposerIndex, b.ParentRoot, b.StateRoot, b.Body},
		Signature: b.Signature,
	})
}
