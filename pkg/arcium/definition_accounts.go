package arcium

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/arcium-client/pkg/arcerr"
	"github.com/code-payments/arcium-client/pkg/metrics"
	"github.com/code-payments/arcium-client/pkg/solana"
)

const (
	metricsStructName = "arcium"

	mxeFetchDurationMetric = "Arcium/MXEAccountFetchDuration"
)

// ErrDefinitionNotInitialized indicates the on-chain state a computation
// definition depends on does not exist yet. Errors carrying it also match
// arcerr.ErrNetwork.
var ErrDefinitionNotInitialized = errors.New("computation definition not initialized")

// DerivedDefinitionAddresses are the accounts needed to initialize a
// computation definition.
type DerivedDefinitionAddresses struct {
	CompDef            ed25519.PublicKey
	MXE                ed25519.PublicKey
	AddressLookupTable ed25519.PublicKey

	// CompDefOffset is the definition offset read as a little endian u32.
	CompDefOffset uint32
}

type DeriveDefinitionAddressesArgs struct {
	// ArciumProgram owns the derived accounts. Defaults to PROGRAM_ID.
	ArciumProgram ed25519.PublicKey

	MXEProgram ed25519.PublicKey
	Name       string
	Commitment solana.Commitment
}

// DeriveDefinitionAddresses derives the accounts for the named computation
// definition. It reads the MXE account exactly once to learn the lookup table
// slot, and never retries.
//
// A missing MXE account fails with an error matching both
// ErrDefinitionNotInitialized and arcerr.ErrNetwork. Other read failures match
// only arcerr.ErrNetwork.
func DeriveDefinitionAddresses(ctx context.Context, client solana.Client, args *DeriveDefinitionAddressesArgs) (res *DerivedDefinitionAddresses, err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "DeriveDefinitionAddresses")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	log := logrus.StandardLogger().WithFields(logrus.Fields{
		"type":       "arcium/definition",
		"method":     "DeriveDefinitionAddresses",
		"definition": args.Name,
	})

	if len(args.MXEProgram) != ed25519.PublicKeySize {
		return nil, arcerr.InvalidLength("mxe program", ed25519.PublicKeySize, len(args.MXEProgram))
	}
	if len(args.Name) == 0 {
		return nil, arcerr.New(arcerr.ErrEncoding, "definition key: empty name")
	}

	arciumProgram := programOrDefault(args.ArciumProgram)
	offset := CompDefOffset(args.Name)

	compDef, _, err := GetCompDefAddress(&GetCompDefAddressArgs{
		ArciumProgram:    arciumProgram,
		MXEProgram:       args.MXEProgram,
		DefinitionOffset: offset[:],
	})
	if err != nil {
		return nil, arcerr.Wrap(arcerr.ErrEncoding, err, "deriving comp def address")
	}

	mxeAddress, mxeAccount, err := getMXEAccount(ctx, client, arciumProgram, args.MXEProgram, args.Commitment)
	if err != nil {
		log.WithError(err).Warn("failure reading mxe account")
		return nil, err
	}

	lookupTable, _, err := GetLookupTableAddress(&GetLookupTableAddressArgs{
		MXEAccount:    mxeAddress,
		LutOffsetSlot: mxeAccount.LutOffsetSlot,
	})
	if err != nil {
		return nil, arcerr.Wrap(arcerr.ErrEncoding, err, "deriving address lookup table")
	}

	log.WithFields(logrus.Fields{
		"comp_def":             base58.Encode(compDef),
		"mxe":                  base58.Encode(mxeAddress),
		"address_lookup_table": base58.Encode(lookupTable),
	}).Debug("derived computation definition addresses")

	return &DerivedDefinitionAddresses{
		CompDef:            compDef,
		MXE:                mxeAddress,
		AddressLookupTable: lookupTable,
		CompDefOffset:      CompDefOffsetUint32(args.Name),
	}, nil
}

type GetMXEPublicKeyArgs struct {
	// ArciumProgram owns the MXE account. Defaults to PROGRAM_ID.
	ArciumProgram ed25519.PublicKey

	MXEProgram ed25519.PublicKey
	Commitment solana.Commitment
}

// GetMXEPublicKey reads the x25519 key computation inputs are encrypted to.
// It fails with arcerr.ErrCrypto when the MXE has not completed key
// generation, and with arcerr.ErrEncoding for a malformed program id.
func GetMXEPublicKey(ctx context.Context, client solana.Client, args *GetMXEPublicKeyArgs) (key [X25519PublicKeySize]byte, err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetMXEPublicKey")
	defer func() {
		tracer.OnError(err)
		tracer.End()
	}()

	if len(args.MXEProgram) != ed25519.PublicKeySize {
		return key, arcerr.InvalidLength("mxe program", ed25519.PublicKeySize, len(args.MXEProgram))
	}

	_, mxeAccount, err := getMXEAccount(ctx, client, programOrDefault(args.ArciumProgram), args.MXEProgram, args.Commitment)
	if err != nil {
		return key, err
	}

	key, ok := mxeAccount.X25519PublicKey()
	if !ok {
		return key, arcerr.New(arcerr.ErrCrypto, "mxe %s has no x25519 key set", base58.Encode(args.MXEProgram))
	}
	return key, nil
}

func getMXEAccount(ctx context.Context, client solana.Client, arciumProgram, mxeProgram ed25519.PublicKey, commitment solana.Commitment) (ed25519.PublicKey, *MXEAccount, error) {
	address, _, err := GetMXEAddress(&GetMXEAddressArgs{
		ArciumProgram: arciumProgram,
		MXEProgram:    mxeProgram,
	})
	if err != nil {
		return nil, nil, arcerr.Wrap(arcerr.ErrEncoding, err, "deriving mxe address")
	}

	start := time.Now()
	info, err := client.GetAccountInfo(ctx, address, commitment)
	metrics.RecordDuration(ctx, mxeFetchDurationMetric, time.Since(start))
	switch {
	case errors.Is(err, solana.ErrNoAccountInfo):
		return nil, nil, arcerr.WithSentinel(
			arcerr.Wrap(arcerr.ErrNetwork, err, "mxe account %s", base58.Encode(address)),
			ErrDefinitionNotInitialized,
		)
	case err != nil:
		return nil, nil, arcerr.Wrap(arcerr.ErrNetwork, err, "reading mxe account %s", base58.Encode(address))
	}

	if !bytes.Equal(info.Owner, arciumProgram) {
		return nil, nil, arcerr.New(arcerr.ErrEncoding, "mxe account %s: unexpected owner %s", base58.Encode(address), base58.Encode(info.Owner))
	}

	var account MXEAccount
	if err := account.Unmarshal(info.Data); err != nil {
		return nil, nil, err
	}

	return address, &account, nil
}
