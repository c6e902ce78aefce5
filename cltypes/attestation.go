package cltypes

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AttestationData contains information about attestantion, including finalized/attested checkpoints.
type AttestationData struct {
	Slot           uint64 `json:"slot,string"`
	CommitteeIndex uint64 `json:"index,string"`
	// LMD GHOST vote
	BeaconBlockRoot Hash `json:"beacon_block_root"`
	// FFG vote
	Source Checkpoint `json:"source"`
	Target Checkpoint `json:"target"`
}

func (a *AttestationData) Equal(other *AttestationData) bool {
	return a.Slot == other.Slot && a.CommitteeIndex == other.CommitteeIndex &&
		a.BeaconBlockRoot == other.BeaconBlockRoot &&
		a.Source.Equal(&other.Source) && a.Target.Equal(&other.Target)
}

type Attestation struct {
	AggregationBits hexutil.Bytes    `json:"aggregation_bits"`
	Data            *AttestationData `json:"data"`
	Signature       Bytes96          `json:"signature"`
}

func (a *Attestation) UnmarshalJSON(data []byte) error {
	var raw struct {
		AggregationBits *hexutil.Bytes   `json:"aggregation_bits"`
		Data            *AttestationData `json:"data"`
		Signature       *Bytes96         `json:"signature"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.AggregationBits == nil {
		return fmt.Errorf("attestation: missing aggregation_bits")
	}
	if raw.Data == nil {
		return fmt.Errorf("attestation: missing data")
	}
	if raw.Signature == nil {
		return fmt.Errorf("attestation: missing signature")
	}
	*a = Attestation{AggregationBits: *raw.AggregationBits, Data: raw.Data, Signature: *raw.Signature}
	return nil
}

type VoluntaryExit struct {
	Epoch          uint64 `json:"epoch,string"`
	ValidatorIndex uint64 `json:"validator_index,string"`
}

type SignedVoluntaryExit struct {
	Message   *VoluntaryExit `json:"message"`
	Signature Bytes96        `json:"signature"`
}

func (s *SignedVoluntaryExit) UnmarshalJSON(data []byte) error {
	var raw struct {
		Message   *VoluntaryExit `json:"message"`
		Signature *Bytes96       `json:"signature"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Message == nil {
		return fmt.Errorf("signed voluntary exit: missing message")
	}
	if raw.Signature == nil {
		return fmt.Errorf("signed voluntary exit: missing signature")
	}
	*s = SignedVoluntaryExit{Message: raw.Message, Signature: *raw.Signature}
	return nil
}

// Change to EL engine
type BLSToExecutionChange struct {
	ValidatorIndex uint64  `json:"validator_index,string"`
	From           Bytes48 `json:"from_bls_pubkey"`
	To             Address `json:"to_execution_address"`
}

type SignedBLSToExecutionChange struct {
	Message   *BLSToExecutionChange `json:"message"`
	Signature Bytes96               `json:"signature"`
}

func (s *SignedBLSToExecutionChange) UnmarshalJSON(data []byte) error {
	var raw struct {
		Message   *BLSToExecutionChange `json:"message"`
		Signature *Bytes96              `json:"signature"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Message == nil {
		return fmt.Errorf("signed bls to execution change: missing message")
	}
	if raw.Signature == nil {
		return fmt.Errorf("signed bls to execution change: missing signature")
	}
	*s = SignedBLSToExecutionChange{Message: raw.Message, Signature: *raw.Signature}
	return nil
}

type SyncCommitteeContribution struct {
	Slot              uint64        `json:"slot,string"`
	BeaconBlockRoot   Hash          `json:"beacon_block_root"`
	SubcommitteeIndex uint64        `json:"subcommittee_index,string"`
	AggregationBits   hexutil.Bytes `json:"aggregation_bits"`
	Signature         Bytes96       `json:"signature"`
}

type ContributionAndProof struct {
	AggregatorIndex uint64                     `json:"aggregator_index,string"`
	Contribution    *SyncCommitteeContribution `json:"contribution"`
	SelectionProof  Bytes96                    `json:"selection_proof"`
}

func (c *ContributionAndProof) UnmarshalJSON(data []byte) error {
	var raw struct {
		AggregatorIndex *uint64                    `json:"aggregator_index,string"`
		Contribution    *SyncCommitteeContribution `json:"contribution"`
		SelectionProof  *Bytes96                   `json:"selection_proof"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.AggregatorIndex == nil || raw.Contribution == nil || raw.SelectionProof == nil {
		return fmt.Errorf("contribution and proof: missing aggregator_index/contribution/selection_proof")
	}
	*c = ContributionAndProof{AggregatorIndex: *raw.AggregatorIndex, Contribution: raw.Contribution, SelectionProof: *raw.SelectionProof}
	return nil
}

type SignedContributionAndProof struct {
	Message   *ContributionAndProof `json:"message"`
	Signature Bytes96               `json:"signature"`
}

func (s *SignedContributionAndProof) UnmarshalJSON(data []byte) error {
	var raw struct {
		Message   *ContributionAndProof `json:"message"`
		Signature *Bytes96              `json:"signature"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Message == nil {
		return fmt.Errorf("signed contribution and proof: missing message")
	}
	if raw.Signature == nil {
		return fmt.Errorf("signed contribution and proof: missing signature")
	}
	*s = SignedContributionAndProof{Message: raw.Message, Signature: *raw.Signature}
	return nil
}
