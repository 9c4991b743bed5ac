package arcium

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/code-payments/arcium-client/pkg/arcerr"
	"github.com/code-payments/arcium-client/pkg/solana/binary"
)

const (
	X25519PublicKeySize     = 32
	ElGamalPublicKeySize    = 32
	PubkeyValidityProofSize = 64
	UtilityPubkeysSize      = X25519PublicKeySize + ed25519.PublicKeySize + ElGamalPublicKeySize + PubkeyValidityProofSize

	MinMXEAccountSize = (8 + // discriminator
		1 + // cluster (None)
		8 + // keygen_offset
		8 + // key_recovery_init_offset
		32 + // mxe_program_id
		1 + // authority (None)
		1 + UtilityPubkeysSize + // utility_pubkeys (Set)
		8 + // lut_offset_slot
		4 + // computation_definitions (empty)
		1 + // status
		1) // bump
)

var MXEAccountDiscriminator = AccountDiscriminator("MXEAccount")

// Variants of SetUnset<UtilityPubkeys>
const (
	utilityPubkeysSet uint8 = iota
	utilityPubkeysUnset
)

type MXEStatus uint8

const (
	MXEStatusActive MXEStatus = iota
	MXEStatusRecovery
)

func (s MXEStatus) String() string {
	switch s {
	case MXEStatusActive:
		return "active"
	case MXEStatusRecovery:
		return "recovery"
	}
	return fmt.Sprintf("MXEStatus(%d)", uint8(s))
}

// UtilityPubkeys are the cluster keys an MXE exposes once key generation has
// completed.
type UtilityPubkeys struct {
	X25519              [X25519PublicKeySize]byte
	Ed25519             ed25519.PublicKey
	ElGamal             [ElGamalPublicKeySize]byte
	PubkeyValidityProof [PubkeyValidityProofSize]byte
}

type MXEAccount struct {
	Cluster               *uint32
	KeygenOffset          uint64
	KeyRecoveryInitOffset uint64
	MXEProgram            ed25519.PublicKey
	Authority             ed25519.PublicKey

	// UtilityPubkeys is only final when UtilityPubkeysSet. Until then the
	// cluster nodes are still submitting their shares, and
	// UtilityPubkeysSubmitted holds one flag per node.
	UtilityPubkeys          UtilityPubkeys
	UtilityPubkeysSet       bool
	UtilityPubkeysSubmitted []bool

	LutOffsetSlot          uint64
	ComputationDefinitions []uint32
	Status                 MXEStatus
	Bump                   uint8
}

func (obj *MXEAccount) Unmarshal(data []byte) error {
	if len(data) < MinMXEAccountSize {
		return arcerr.New(arcerr.ErrEncoding, "mxe account: expected at least %d bytes, got %d", MinMXEAccountSize, len(data))
	}

	r := binary.NewReader(data)

	discriminator := r.Bytes(DiscriminatorSize, "discriminator")
	if r.Err() == nil && !bytes.Equal(discriminator, MXEAccountDiscriminator[:]) {
		return arcerr.New(arcerr.ErrEncoding, "mxe account: unexpected discriminator %x", discriminator)
	}

	obj.Cluster = r.OptionalUint32("cluster")
	obj.KeygenOffset = r.Uint64("keygen_offset")
	obj.KeyRecoveryInitOffset = r.Uint64("key_recovery_init_offset")
	obj.MXEProgram = r.Key32("mxe_program_id")
	obj.Authority = r.OptionalKey32("authority")

	obj.UtilityPubkeysSubmitted = nil
	tag := r.Uint8("utility_pubkeys")
	if r.Err() == nil && tag != utilityPubkeysSet && tag != utilityPubkeysUnset {
		return arcerr.New(arcerr.ErrEncoding, "mxe account: invalid utility_pubkeys variant %d", tag)
	}
	obj.UtilityPubkeysSet = tag == utilityPubkeysSet
	copy(obj.UtilityPubkeys.X25519[:], r.Bytes(X25519PublicKeySize, "utility_pubkeys.x25519_pubkey"))
	obj.UtilityPubkeys.Ed25519 = r.Key32("utility_pubkeys.ed25519_verifying_key")
	copy(obj.UtilityPubkeys.ElGamal[:], r.Bytes(ElGamalPublicKeySize, "utility_pubkeys.elgamal_pubkey"))
	copy(obj.UtilityPubkeys.PubkeyValidityProof[:], r.Bytes(PubkeyValidityProofSize, "utility_pubkeys.pubkey_validity_proof"))
	if tag == utilityPubkeysUnset {
		obj.UtilityPubkeysSubmitted = r.BoolVec("utility_pubkeys.submitted")
	}

	obj.LutOffsetSlot = r.Uint64("lut_offset_slot")
	obj.ComputationDefinitions = r.Uint32Vec("computation_definitions")

	status := MXEStatus(r.Uint8("status"))
	if r.Err() == nil && status != MXEStatusActive && status != MXEStatusRecovery {
		return arcerr.New(arcerr.ErrEncoding, "mxe account: invalid status %d", uint8(status))
	}
	obj.Status = status

	obj.Bump = r.Uint8("bump")

	if err := r.Err(); err != nil {
		return arcerr.Wrap(arcerr.ErrEncoding, err, "mxe account")
	}

	return nil
}

// X25519PublicKey returns the key computation inputs are encrypted to. It is
// available once the utility keys are set, or while unset once every node
// has submitted its share.
func (obj *MXEAccount) X25519PublicKey() ([X25519PublicKeySize]byte, bool) {
	if obj.UtilityPubkeysSet {
		return obj.UtilityPubkeys.X25519, true
	}
	for _, submitted := range obj.UtilityPubkeysSubmitted {
		if !submitted {
			return [X25519PublicKeySize]byte{}, false
		}
	}
	return obj.UtilityPubkeys.X25519, true
}

// HasComputationDefinition reports whether the MXE has registered the
// definition at offset.
func (obj *MXEAccount) HasComputationDefinition(offset uint32) bool {
	for _, registered := range obj.ComputationDefinitions {
		if registered == offset {
			return true
		}
	}
	return false
}

func (obj *MXEAccount) String() string {
	cluster := "<nil>"
	if obj.Cluster != nil {
		cluster = fmt.Sprintf("%d", *obj.Cluster)
	}

	authority := "<nil>"
	if obj.Authority != nil {
		authority = base58.Encode(obj.Authority)
	}

	return fmt.Sprintf(
		"MXEAccount{cluster=%s,keygen_offset=%d,key_recovery_init_offset=%d,mxe_program=%s,authority=%s,utility_pubkeys_set=%v,lut_offset_slot=%d,computation_definitions=%d,status=%s,bump=%d}",
		cluster,
		obj.KeygenOffset,
		obj.KeyRecoveryInitOffset,
		base58.Encode(obj.MXEProgram),
		authority,
		obj.UtilityPubkeysSet,
		obj.LutOffsetSlot,
		len(obj.ComputationDefinitions),
		obj.Status,
		obj.Bump,
	)
}
