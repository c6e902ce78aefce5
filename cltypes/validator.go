package cltypes

type Validator struct {
	PublicKey                  Bytes48 `json:"pubkey"`
	WithdrawalCredentials      Hash    `json:"withdrawal_credentials"`
	EffectiveBalance           uint64  `json:"effective_balance,string"`
	Slashed                    bool    `json:"slashed"`
	ActivationEligibilityEpoch uint64  `json:"activation_eligibility_epoch,string"`
	ActivationEpoch            uint64  `json:"activation_epoch,string"`
	ExitEpoch                  uint64  `json:"exit_epoch,string"`
	WithdrawableEpoch          uint64  `json:"withdrawable_epoch,string"`
}

// ValidatorEntry is one entry of /eth/v1/beacon/states/{state_id}/validators.
// Status is the API's validator status taxonomy (pending_initialized,
// active_ongoing, exited_slashed, ...), passed through as-is.
type ValidatorEntry struct {
	Index     uint64     `json:"index,string"`
	Balance   uint64     `json:"balance,string"`
	Status    string     `json:"status"`
	Validator *Validator `json:"validator"`
}

type ValidatorBalance struct {
	Index   uint64 `json:"index,string"`
	Balance uint64 `json:"balance,string"`
}

type Withdrawal struct {
	Index          uint64  `json:"index,string"`
	ValidatorIndex uint64  `json:"validator_index,string"`
	Address        Address `json:"address"`
	Amount         uint64  `json:"amount,string"` // GWei
}
