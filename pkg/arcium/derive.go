package arcium

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/binary"
	"io"

	"github.com/mr-tron/base58"

	"github.com/code-payments/arcium-client/pkg/arcerr"
)

// DeriveAddressesArgs are the inputs to DeriveAddresses.
type DeriveAddressesArgs struct {
	// ArciumProgram owns the derived accounts. Defaults to PROGRAM_ID.
	ArciumProgram ed25519.PublicKey

	// MXEProgram is the program that queues computations.
	MXEProgram ed25519.PublicKey

	ClusterOffset     uint32
	ComputationOffset uint64
	Definition        DefinitionKey
}

// DerivedAddresses are the accounts a computation request references.
type DerivedAddresses struct {
	ArciumProgram ed25519.PublicKey
	MXE           ed25519.PublicKey
	Mempool       ed25519.PublicKey
	ExecutingPool ed25519.PublicKey
	Computation   ed25519.PublicKey
	Cluster       ed25519.PublicKey
	CompDef       ed25519.PublicKey
}

// DeriveAddresses computes every address a computation request references.
// It performs no I/O and is safe for concurrent use.
func DeriveAddresses(args *DeriveAddressesArgs) (*DerivedAddresses, error) {
	arciumProgram := programOrDefault(args.ArciumProgram)
	if len(arciumProgram) != ed25519.PublicKeySize {
		return nil, arcerr.InvalidLength("arcium program", ed25519.PublicKeySize, len(arciumProgram))
	}
	if len(args.MXEProgram) != ed25519.PublicKeySize {
		return nil, arcerr.InvalidLength("mxe program", ed25519.PublicKeySize, len(args.MXEProgram))
	}
	if args.ClusterOffset == 0 {
		return nil, arcerr.New(arcerr.ErrEncoding, "cluster offset: must be positive")
	}

	definitionOffset, err := args.Definition.Bytes()
	if err != nil {
		return nil, err
	}

	res := &DerivedAddresses{
		ArciumProgram: append(ed25519.PublicKey(nil), arciumProgram...),
	}

	clusterArgs := &GetClusterScopedAddressArgs{
		ArciumProgram: arciumProgram,
		ClusterOffset: args.ClusterOffset,
	}

	res.MXE, _, err = GetMXEAddress(&GetMXEAddressArgs{
		ArciumProgram: arciumProgram,
		MXEProgram:    args.MXEProgram,
	})
	if err != nil {
		return nil, arcerr.Wrap(arcerr.ErrEncoding, err, "deriving mxe address")
	}

	res.Mempool, _, err = GetMempoolAddress(clusterArgs)
	if err != nil {
		return nil, arcerr.Wrap(arcerr.ErrEncoding, err, "deriving mempool address")
	}

	res.ExecutingPool, _, err = GetExecutingPoolAddress(clusterArgs)
	if err != nil {
		return nil, arcerr.Wrap(arcerr.ErrEncoding, err, "deriving executing pool address")
	}

	res.Computation, _, err = GetComputationAddress(&GetComputationAddressArgs{
		ArciumProgram:     arciumProgram,
		ClusterOffset:     args.ClusterOffset,
		ComputationOffset: args.ComputationOffset,
	})
	if err != nil {
		return nil, arcerr.Wrap(arcerr.ErrEncoding, err, "deriving computation address")
	}

	res.Cluster, _, err = GetClusterAddress(clusterArgs)
	if err != nil {
		return nil, arcerr.Wrap(arcerr.ErrEncoding, err, "deriving cluster address")
	}

	res.CompDef, _, err = GetCompDefAddress(&GetCompDefAddressArgs{
		ArciumProgram:    arciumProgram,
		MXEProgram:       args.MXEProgram,
		DefinitionOffset: definitionOffset,
	})
	if err != nil {
		return nil, arcerr.Wrap(arcerr.ErrEncoding, err, "deriving comp def address")
	}

	return res, nil
}

// All returns the derived addresses in a fixed order: arcium program, mxe,
// mempool, executing pool, computation, cluster, comp def.
func (d *DerivedAddresses) All() []ed25519.PublicKey {
	return []ed25519.PublicKey{
		d.ArciumProgram,
		d.MXE,
		d.Mempool,
		d.ExecutingPool,
		d.Computation,
		d.Cluster,
		d.CompDef,
	}
}

func (d *DerivedAddresses) String() string {
	return "DerivedAddresses{" +
		"arcium_program=" + base58.Encode(d.ArciumProgram) +
		",mxe=" + base58.Encode(d.MXE) +
		",mempool=" + base58.Encode(d.Mempool) +
		",executing_pool=" + base58.Encode(d.ExecutingPool) +
		",computation=" + base58.Encode(d.Computation) +
		",cluster=" + base58.Encode(d.Cluster) +
		",comp_def=" + base58.Encode(d.CompDef) +
		"}"
}

// RandomComputationOffset draws a computation offset from r, or crypto/rand
// when r is nil.
func RandomComputationOffset(r io.Reader) (uint64, error) {
	if r == nil {
		r = rand.Reader
	}

	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, arcerr.Wrap(arcerr.ErrCrypto, err, "reading computation offset entropy")
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
