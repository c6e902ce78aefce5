package cltypes

import (
	"encoding/json"
	"reflect"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Fixed-length byte vectors of the beacon chain wire format. On the wire
// they are 0x-prefixed hex strings of exact length; anything else is a
// decode error, never a truncated or padded value.
const (
	HashLength    = 32
	AddressLength = 20
	Bytes48Length = 48
	Bytes96Length = 96
	VersionLength = 4
)

type (
	Hash        [HashLength]byte    // block roots, state roots
	Address     [AddressLength]byte // execution-layer addresses
	Bytes48     [Bytes48Length]byte // BLS public keys, KZG commitments
	Bytes96     [Bytes96Length]byte // BLS signatures
	ForkVersion [VersionLength]byte
)

var (
	hashT        = reflect.TypeOf(Hash{})
	addressT     = reflect.TypeOf(Address{})
	bytes48T     = reflect.TypeOf(Bytes48{})
	bytes96T     = reflect.TypeOf(Bytes96{})
	forkVersionT = reflect.TypeOf(ForkVersion{})
)

func (h Hash) Hex() string    { return hexutil.Encode(h[:]) }
func (h Hash) String() string { return h.Hex() }

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Hex())
}

func (h *Hash) UnmarshalJSON(input []byte) error {
	return hexutil.UnmarshalFixedJSON(hashT, input, h[:])
}

// HexToHash is a test/call-site convenience; input shorter than 32 bytes is
// left-padded like go-ethereum's common.HexToHash.
func HexToHash(s string) (h Hash) {
	b, _ := hexutil.Decode(s)
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

func (a Address) Hex() string    { return hexutil.Encode(a[:]) }
func (a Address) String() string { return a.Hex() }

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Hex())
}

func (a *Address) UnmarshalJSON(input []byte) error {
	return hexutil.UnmarshalFixedJSON(addressT, input, a[:])
}

func (b Bytes48) Hex() string    { return hexutil.Encode(b[:]) }
func (b Bytes48) String() string { return b.Hex() }

func (b Bytes48) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Hex())
}

func (b *Bytes48) UnmarshalJSON(input []byte) error {
	return hexutil.UnmarshalFixedJSON(bytes48T, input, b[:])
}

func (b Bytes96) Hex() string    { return hexutil.Encode(b[:]) }
func (b Bytes96) String() string { return b.Hex() }

func (b Bytes96) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Hex())
}

func (b *Bytes96) UnmarshalJSON(input []byte) error {
	return hexutil.UnmarshalFixedJSON(bytes96T, input, b[:])
}

func (v ForkVersion) Hex() string    { return hexutil.Encode(v[:]) }
func (v ForkVersion) String() string { return v.Hex() }

func (v ForkVersion) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Hex())
}

func (v *ForkVersion) UnmarshalJSON(input []byte) error {
	return hexutil.UnmarshalFixedJSON(forkVersionT, input, v[:])
}

// Uint64String is a uint64 carried as a decimal string. Struct fields use
// the `,string` tag instead; this type exists for slice elements, where the
// tag does not apply. The full 64-bit range round-trips exactly.
type Uint64String uint64

func (n Uint64String) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(n), 10))
}

func (n *Uint64String) UnmarshalJSON(input []byte) error {
	var s string
	if err := json.Unmarshal(input, &s); err != nil {
		return err
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*n = Uint64String(v)
	return nil
}
