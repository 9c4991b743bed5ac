package arcium

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/code-payments/arcium-client/pkg/solana"
	address_lookup_table "github.com/code-payments/arcium-client/pkg/solana/addresslookuptable"
)

var (
	MXEAccountPrefix                   = []byte("MXEAccount")
	MempoolPrefix                      = []byte("Mempool")
	ExecutingPoolPrefix                = []byte("Execpool")
	ComputationAccountPrefix           = []byte("ComputationAccount")
	ClusterPrefix                      = []byte("Cluster")
	ComputationDefinitionAccountPrefix = []byte("ComputationDefinitionAccount")
	FeePoolPrefix                      = []byte("FeePool")
	ClockAccountPrefix                 = []byte("ClockAccount")
)

// Every Get*Address function derives under ArciumProgram, or PROGRAM_ID when
// it's nil.

type GetMXEAddressArgs struct {
	ArciumProgram ed25519.PublicKey
	MXEProgram    ed25519.PublicKey
}

func GetMXEAddress(args *GetMXEAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		programOrDefault(args.ArciumProgram),
		MXEAccountPrefix,
		args.MXEProgram,
	)
}

type GetClusterScopedAddressArgs struct {
	ArciumProgram ed25519.PublicKey
	ClusterOffset uint32
}

func GetMempoolAddress(args *GetClusterScopedAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		programOrDefault(args.ArciumProgram),
		MempoolPrefix,
		u32Bytes(args.ClusterOffset),
	)
}

func GetExecutingPoolAddress(args *GetClusterScopedAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		programOrDefault(args.ArciumProgram),
		ExecutingPoolPrefix,
		u32Bytes(args.ClusterOffset),
	)
}

func GetClusterAddress(args *GetClusterScopedAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		programOrDefault(args.ArciumProgram),
		ClusterPrefix,
		u32Bytes(args.ClusterOffset),
	)
}

type GetComputationAddressArgs struct {
	ArciumProgram     ed25519.PublicKey
	ClusterOffset     uint32
	ComputationOffset uint64
}

func GetComputationAddress(args *GetComputationAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		programOrDefault(args.ArciumProgram),
		ComputationAccountPrefix,
		u32Bytes(args.ClusterOffset),
		u64Bytes(args.ComputationOffset),
	)
}

type GetCompDefAddressArgs struct {
	ArciumProgram    ed25519.PublicKey
	MXEProgram       ed25519.PublicKey
	DefinitionOffset []byte
}

func GetCompDefAddress(args *GetCompDefAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		programOrDefault(args.ArciumProgram),
		ComputationDefinitionAccountPrefix,
		args.MXEProgram,
		args.DefinitionOffset,
	)
}

type GetGlobalAddressArgs struct {
	ArciumProgram ed25519.PublicKey
}

func GetFeePoolAddress(args *GetGlobalAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		programOrDefault(args.ArciumProgram),
		FeePoolPrefix,
	)
}

func GetClockAddress(args *GetGlobalAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		programOrDefault(args.ArciumProgram),
		ClockAccountPrefix,
	)
}

type GetLookupTableAddressArgs struct {
	MXEAccount    ed25519.PublicKey
	LutOffsetSlot uint64
}

// GetLookupTableAddress derives the address lookup table an MXE account
// created at LutOffsetSlot.
func GetLookupTableAddress(args *GetLookupTableAddressArgs) (ed25519.PublicKey, uint8, error) {
	return address_lookup_table.GetAddress(args.MXEAccount, args.LutOffsetSlot)
}

func u32Bytes(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func u64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}
