package beaconevents

import (
	"fmt"

	"github.com/erigontech/beaconapi/beaconhttp"
	"github.com/erigontech/beaconapi/clparams"
	"github.com/erigontech/beaconapi/cltypes"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Event is one demultiplexed stream item. Exactly one Event is produced per
// SSE envelope, in wire order. Either Data or Err is set: a payload that
// fails to decode yields an Event with Err populated so that a single
// malformed frame never terminates an otherwise healthy stream.
type Event struct {
	Topic EventTopic
	Data  any
	Err   error
}

// RawEvent carries an envelope whose tag is outside the known taxonomy,
// preserved verbatim for forward compatibility.
type RawEvent struct {
	Tag     string
	Payload []byte
}

// GapEvent is the payload of TopicGapPossible.
type GapEvent struct {
	Reason string
}

type HeadEvent struct {
	Slot                      uint64       `json:"slot,string"`
	Block                     cltypes.Hash `json:"block"`
	State                     cltypes.Hash `json:"state"`
	EpochTransition           bool         `json:"epoch_transition"`
	PreviousDutyDependentRoot cltypes.Hash `json:"previous_duty_dependent_root"`
	CurrentDutyDependentRoot  cltypes.Hash `json:"current_duty_dependent_root"`
	ExecutionOptimistic       bool         `json:"execution_optimistic"`
}

func (h *HeadEvent) UnmarshalJSON(data []byte) error {
	var raw struct {
		Slot                      *uint64       `json:"slot,string"`
		Block                     *cltypes.Hash `json:"block"`
		State                     *cltypes.Hash `json:"state"`
		EpochTransition           bool          `json:"epoch_transition"`
		PreviousDutyDependentRoot cltypes.Hash  `json:"previous_duty_dependent_root"`
		CurrentDutyDependentRoot  cltypes.Hash  `json:"current_duty_dependent_root"`
		ExecutionOptimistic       bool          `json:"execution_optimistic"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Slot == nil || raw.Block == nil || raw.State == nil {
		return errMissingField("head", "slot/block/state")
	}
	*h = HeadEvent{
		Slot:                      *raw.Slot,
		Block:                     *raw.Block,
		State:                     *raw.State,
		EpochTransition:           raw.EpochTransition,
		PreviousDutyDependentRoot: raw.PreviousDutyDependentRoot,
		CurrentDutyDependentRoot:  raw.CurrentDutyDependentRoot,
		ExecutionOptimistic:       raw.ExecutionOptimistic,
	}
	return nil
}

type BlockEvent struct {
	Slot                uint64       `json:"slot,string"`
	Block               cltypes.Hash `json:"block"`
	ExecutionOptimistic bool         `json:"execution_optimistic"`
}

func (b *BlockEvent) UnmarshalJSON(data []byte) error {
	var raw struct {
		Slot                *uint64       `json:"slot,string"`
		Block               *cltypes.Hash `json:"block"`
		ExecutionOptimistic bool          `json:"execution_optimistic"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Slot == nil || raw.Block == nil {
		return errMissingField("block", "slot/block")
	}
	*b = BlockEvent{Slot: *raw.Slot, Block: *raw.Block, ExecutionOptimistic: raw.ExecutionOptimistic}
	return nil
}

type FinalizedCheckpointEvent struct {
	Block               cltypes.Hash `json:"block"`
	State               cltypes.Hash `json:"state"`
	Epoch               uint64       `json:"epoch,string"`
	ExecutionOptimistic bool         `json:"execution_optimistic"`
}

func (f *FinalizedCheckpointEvent) UnmarshalJSON(data []byte) error {
	var raw struct {
		Block               *cltypes.Hash `json:"block"`
		State               *cltypes.Hash `json:"state"`
		Epoch               *uint64       `json:"epoch,string"`
		ExecutionOptimistic bool          `json:"execution_optimistic"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Block == nil || raw.State == nil || raw.Epoch == nil {
		return errMissingField("finalized_checkpoint", "block/state/epoch")
	}
	*f = FinalizedCheckpointEvent{Block: *raw.Block, State: *raw.State, Epoch: *raw.Epoch, ExecutionOptimistic: raw.ExecutionOptimistic}
	return nil
}

type ChainReorgEvent struct {
	Slot                uint64       `json:"slot,string"`
	Depth               uint64       `json:"depth,string"`
	OldHeadBlock        cltypes.Hash `json:"old_head_block"`
	NewHeadBlock        cltypes.Hash `json:"new_head_block"`
	OldHeadState        cltypes.Hash `json:"old_head_state"`
	NewHeadState        cltypes.Hash `json:"new_head_state"`
	Epoch               uint64       `json:"epoch,string"`
	ExecutionOptimistic bool         `json:"execution_optimistic"`
}

func (c *ChainReorgEvent) UnmarshalJSON(data []byte) error {
	var raw struct {
		Slot                *uint64       `json:"slot,string"`
		Depth               *uint64       `json:"depth,string"`
		OldHeadBlock        *cltypes.Hash `json:"old_head_block"`
		NewHeadBlock        *cltypes.Hash `json:"new_head_block"`
		OldHeadState        cltypes.Hash  `json:"old_head_state"`
		NewHeadState        cltypes.Hash  `json:"new_head_state"`
		Epoch               uint64        `json:"epoch,string"`
		ExecutionOptimistic bool          `json:"execution_optimistic"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Slot == nil || raw.Depth == nil || raw.OldHeadBlock == nil || raw.NewHeadBlock == nil {
		return errMissingField("chain_reorg", "slot/depth/old_head_block/new_head_block")
	}
	*c = ChainReorgEvent{
		Slot:                *raw.Slot,
		Depth:               *raw.Depth,
		OldHeadBlock:        *raw.OldHeadBlock,
		NewHeadBlock:        *raw.NewHeadBlock,
		OldHeadState:        raw.OldHeadState,
		NewHeadState:        raw.NewHeadState,
		Epoch:               raw.Epoch,
		ExecutionOptimistic: raw.ExecutionOptimistic,
	}
	return nil
}

// PayloadAttributesEvent is fork-polymorphic: the attributes shape changes
// across forks and the variant is selected by the embedded version
// discriminant, never by sniffing field presence.
type PayloadAttributesEvent struct {
	Version clparams.StateVersion `json:"version"`
	Data    PayloadAttributesData `json:"data"`
}

func (p *PayloadAttributesEvent) UnmarshalJSON(data []byte) error {
	var raw struct {
		Version *clparams.StateVersion `json:"version"`
		Data    *PayloadAttributesData `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	// an absent discriminant is never defaulted to phase0
	if raw.Version == nil || raw.Data == nil {
		return errMissingField("payload_attributes", "version/data")
	}
	*p = PayloadAttributesEvent{Version: *raw.Version, Data: *raw.Data}
	return nil
}

type PayloadAttributesData struct {
	ProposerIndex     uint64            `json:"proposer_index,string"`
	ProposalSlot      uint64            `json:"proposal_slot,string"`
	ParentBlockNumber uint64            `json:"parent_block_number,string"`
	ParentBlockRoot   cltypes.Hash      `json:"parent_block_root"`
	ParentBlockHash   cltypes.Hash      `json:"parent_block_hash"`
	PayloadAttributes PayloadAttributes `json:"payload_attributes"`
}

type PayloadAttributes struct {
	Timestamp             uint64                `json:"timestamp,string"`
	PrevRandao            cltypes.Hash          `json:"prev_randao"`
	SuggestedFeeRecipient cltypes.Address       `json:"suggested_fee_recipient"`
	Withdrawals           []*cltypes.Withdrawal `json:"withdrawals,omitempty"`              // capella onward
	ParentBeaconBlockRoot *cltypes.Hash         `json:"parent_beacon_block_root,omitempty"` // deneb onward
}

func errMissingField(topic, fields string) error {
	return fmt.Errorf("%s event: missing required field(s) %s", topic, fields)
}

// DecodeEvent maps one raw SSE envelope onto its typed variant. Unknown
// tags come back as TopicUnknown with the raw envelope preserved; a known
// tag with a payload that does not decode comes back with Err set.
func DecodeEvent(tag string, payload []byte) Event {
	topic := EventTopic(tag)
	switch topic {
	case TopicHead:
		return decodeInto[HeadEvent](topic, payload)
	case TopicBlock:
		return decodeInto[BlockEvent](topic, payload)
	case TopicAttestation:
		return decodeInto[cltypes.Attestation](topic, payload)
	case TopicVoluntaryExit:
		return decodeInto[cltypes.SignedVoluntaryExit](topic, payload)
	case TopicBLSToExecutionChange:
		return decodeInto[cltypes.SignedBLSToExecutionChange](topic, payload)
	case TopicFinalizedCheckpoint:
		return decodeInto[FinalizedCheckpointEvent](topic, payload)
	case TopicChainReorg:
		return decodeInto[ChainReorgEvent](topic, payload)
	case TopicContributionAndProof:
		return decodeInto[cltypes.SignedContributionAndProof](topic, payload)
	case TopicPayloadAttributes:
		ev := decodeInto[PayloadAttributesEvent](topic, payload)
		if ev.Err == nil {
			if err := ev.Data.(*PayloadAttributesEvent).validate(); err != nil {
				return Event{Topic: topic, Err: beaconhttp.NewDecodeError(string(topic), payload, err)}
			}
		}
		return ev
	case TopicLightClientFinalityUpdate, TopicLightClientOptimisticUpdate:
		// Light client updates are deeply fork-shaped; they are delivered as
		// validated raw JSON.
		if !json.Valid(payload) {
			return Event{Topic: topic, Err: beaconhttp.NewDecodeError(string(topic), payload, fmt.Errorf("invalid json"))}
		}
		return Event{Topic: topic, Data: &RawEvent{Tag: tag, Payload: payload}}
	default:
		return Event{Topic: TopicUnknown, Data: &RawEvent{Tag: tag, Payload: payload}}
	}
}

func decodeInto[T any](topic EventTopic, payload []byte) Event {
	v := new(T)
	if err := json.Unmarshal(payload, v); err != nil {
		return Event{Topic: topic, Err: beaconhttp.NewDecodeError(string(topic), payload, err)}
	}
	return Event{Topic: topic, Data: v}
}

// validate enforces the fork-dependent field set against the explicit
// version discriminant.
func (p *PayloadAttributesEvent) validate() error {
	attrs := &p.Data.PayloadAttributes
	if p.Version >= clparams.CapellaVersion && attrs.Withdrawals == nil {
		return fmt.Errorf("payload_attributes %s: missing withdrawals", p.Version)
	}
	if p.Version < clparams.CapellaVersion && attrs.Withdrawals != nil {
		return fmt.Errorf("payload_attributes %s: unexpected withdrawals", p.Version)
	}
	if p.Version >= clparams.DenebVersion && attrs.ParentBeaconBlockRoot == nil {
		return fmt.Errorf("payload_attributes %s: missing parent_beacon_block_root", p.Version)
	}
	return nil
}
