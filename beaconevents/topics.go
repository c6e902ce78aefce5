package beaconevents

// EventTopic is one tag of the beacon API event taxonomy. The set of server
// topics is closed here; tags outside it surface as TopicUnknown rather
// than being coerced into a known variant or dropped.
type EventTopic string

const (
	TopicHead                        EventTopic = "head"
	TopicBlock                       EventTopic = "block"
	TopicAttestation                 EventTopic = "attestation"
	TopicVoluntaryExit               EventTopic = "voluntary_exit"
	TopicBLSToExecutionChange        EventTopic = "bls_to_execution_change"
	TopicFinalizedCheckpoint         EventTopic = "finalized_checkpoint"
	TopicChainReorg                  EventTopic = "chain_reorg"
	TopicContributionAndProof        EventTopic = "contribution_and_proof"
	TopicLightClientFinalityUpdate   EventTopic = "light_client_finality_update"
	TopicLightClientOptimisticUpdate EventTopic = "light_client_optimistic_update"
	TopicPayloadAttributes           EventTopic = "payload_attributes"

	// TopicUnknown marks an envelope whose tag is outside the taxonomy.
	TopicUnknown EventTopic = "unknown"
	// TopicGapPossible is a synthetic, client-generated notification emitted
	// once per stream disconnection: events may have been missed in the gap.
	TopicGapPossible EventTopic = "gap_possible"
)

var validTopics = map[EventTopic]struct{}{
	TopicHead:                        {},
	TopicBlock:                       {},
	TopicAttestation:                 {},
	TopicVoluntaryExit:               {},
	TopicBLSToExecutionChange:        {},
	TopicFinalizedCheckpoint:         {},
	TopicChainReorg:                  {},
	TopicContributionAndProof:        {},
	TopicLightClientFinalityUpdate:   {},
	TopicLightClientOptimisticUpdate: {},
	TopicPayloadAttributes:           {},
}

// IsValidTopic reports whether t can be subscribed to on the server.
func IsValidTopic(t EventTopic) bool {
	_, ok := validTopics[t]
	return ok
}
