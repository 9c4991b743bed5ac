package solana

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
)

// AccountMeta represents the account information required
// for building transactions.
type AccountMeta struct {
	PublicKey  ed25519.PublicKey
	IsSigner   bool
	IsWritable bool
}

// NewAccountMeta creates a new AccountMeta representing a writable
// account.
func NewAccountMeta(pub ed25519.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{
		PublicKey:  pub,
		IsSigner:   isSigner,
		IsWritable: true,
	}
}

// NewReadonlyAccountMeta creates a new AccountMeta representing a readonly
// account.
func NewReadonlyAccountMeta(pub ed25519.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{
		PublicKey:  pub,
		IsSigner:   isSigner,
		IsWritable: false,
	}
}

// Clone returns a deep copy of the AccountMeta.
func (m AccountMeta) Clone() AccountMeta {
	cloned := m
	cloned.PublicKey = append(ed25519.PublicKey(nil), m.PublicKey...)
	return cloned
}

func (m AccountMeta) String() string {
	return fmt.Sprintf("AccountMeta{key=%s,signer=%v,writable=%v}", base58.Encode(m.PublicKey), m.IsSigner, m.IsWritable)
}

// Instruction represents a transaction instruction.
type Instruction struct {
	Program  ed25519.PublicKey
	Accounts []AccountMeta
	Data     []byte
}

// NewInstruction creates a new instruction.
func NewInstruction(program ed25519.PublicKey, data []byte, accounts ...AccountMeta) Instruction {
	return Instruction{
		Program:  program,
		Data:     data,
		Accounts: accounts,
	}
}

// Clone returns a deep copy of the Instruction.
func (i Instruction) Clone() Instruction {
	cloned := Instruction{
		Program: append(ed25519.PublicKey(nil), i.Program...),
		Data:    append([]byte(nil), i.Data...),
	}

	if i.Accounts != nil {
		cloned.Accounts = make([]AccountMeta, len(i.Accounts))
		for j, a := range i.Accounts {
			cloned.Accounts[j] = a.Clone()
		}
	}

	return cloned
}
