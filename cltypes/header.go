package cltypes

type BeaconBlockHeader struct {
	Slot          uint64 `json:"slot,string"`
	ProposerIndex uint64 `json:"proposer_index,string"`
	ParentRoot    Hash   `json:"parent_root"`
	StateRoot     Hash   `json:"state_root"`
	BodyRoot      Hash   `json:"body_root"`
}

func (h *BeaconBlockHeader) Equal(other *BeaconBlockHeader) bool {
	return h.Slot == other.Slot && h.ProposerIndex == other.ProposerIndex &&
		h.ParentRoot == other.ParentRoot && h.StateRoot == other.StateRoot &&
		h.BodyRoot == other.BodyRoot
}

type SignedBeaconBlockHeader struct {
	Header    *BeaconBlockHeader `json:"message"`
	Signature Bytes96            `json:"signature"`
}

// HeaderResponse is one entry of /eth/v1/beacon/headers.
type HeaderResponse struct {
	Root      Hash                     `json:"root"`
	Canonical bool                     `json:"canonical"`
	Header    *SignedBeaconBlockHeader `json:"header"`
}
