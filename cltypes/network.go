package cltypes

// SyncStatus is the payload of /eth/v1/node/syncing.
type SyncStatus struct {
	HeadSlot     uint64 `json:"head_slot,string"`
	SyncDistance uint64 `json:"sync_distance,string"`
	IsSyncing    bool   `json:"is_syncing"`
	IsOptimistic bool   `json:"is_optimistic"`
	ElOffline    bool   `json:"el_offline"`
}

type Genesis struct {
	GenesisTime           uint64      `json:"genesis_time,string"`
	GenesisValidatorsRoot Hash        `json:"genesis_validators_root"`
	GenesisForkVersion    ForkVersion `json:"genesis_fork_version"`
}

type Fork struct {
	PreviousVersion ForkVersion `json:"previous_version"`
	CurrentVersion  ForkVersion `json:"current_version"`
	Epoch           uint64      `json:"epoch,string"`
}

type FinalityCheckpoints struct {
	PreviousJustified Checkpoint `json:"previous_justified"`
	CurrentJustified  Checkpoint `json:"current_justified"`
	Finalized         Checkpoint `json:"finalized"`
}

type NodeVersion struct {
	Version string `json:"version"`
}

type BlockRoot struct {
	Root Hash `json:"root"`
}
