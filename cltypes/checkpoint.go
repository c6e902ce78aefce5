package cltypes

type Checkpoint struct {
	Epoch uint64 `json:"epoch,string"`
	Root  Hash   `json:"root"`
}

func (c *Checkpoint) Equal(other *Checkpoint) bool {
	return c.Epoch == other.Epoch && c.Root == other.Root
}
