package cltypes

type ProposerDuty struct {
	PublicKey      Bytes48 `json:"pubkey"`
	ValidatorIndex uint64  `json:"validator_index,string"`
	Slot           uint64  `json:"slot,string"`
}

type ProposerDuties struct {
	DependentRoot       Hash            `json:"dependent_root"`
	ExecutionOptimistic bool            `json:"execution_optimistic"`
	Duties              []*ProposerDuty `json:"data"`
}

type AttesterDuty struct {
	PublicKey               Bytes48 `json:"pubkey"`
	ValidatorIndex          uint64  `json:"validator_index,string"`
	CommitteeIndex          uint64  `json:"committee_index,string"`
	CommitteeLength         uint64  `json:"committee_length,string"`
	CommitteesAtSlot        uint64  `json:"committees_at_slot,string"`
	ValidatorCommitteeIndex uint64  `json:"validator_committee_index,string"`
	Slot                    uint64  `json:"slot,string"`
}

type AttesterDuties struct {
	DependentRoot       Hash            `json:"dependent_root"`
	ExecutionOptimistic bool            `json:"execution_optimistic"`
	Duties              []*AttesterDuty `json:"data"`
}

type Committee struct {
	Index      uint64         `json:"index,string"`
	Slot       uint64         `json:"slot,string"`
	Validators []Uint64String `json:"validators"`
}
