package arcium

import (
	"crypto/ed25519"
	"strconv"

	"github.com/code-payments/arcium-client/pkg/arcerr"
	"github.com/code-payments/arcium-client/pkg/solana"
	"github.com/code-payments/arcium-client/pkg/solana/binary"
)

const (
	EncryptionPublicKeySize = 32
	NonceSize               = 16
	CiphertextSize          = 32

	EncryptedCallHeaderSize = (DiscriminatorSize + // discriminator
		8 + // computation_offset
		EncryptionPublicKeySize + // encryption_pubkey
		NonceSize) // nonce
)

// EncryptedCallArgs are the arguments of an instruction that queues an
// encrypted computation.
type EncryptedCallArgs struct {
	Discriminator     []byte
	ComputationOffset uint64
	EncryptionPubkey  []byte

	// Nonce is the little endian u128 the ciphertexts were produced under.
	Nonce []byte

	// Ciphertexts map positionally to the computation's arguments.
	Ciphertexts [][]byte
}

// EncodeCall serializes args as
//
//	discriminator(8) || computation_offset(u64 LE) || encryption_pubkey(32) || nonce(16) || ciphertexts(32 each)
//
// The output is exactly EncryptedCallHeaderSize + CiphertextSize*len(args.Ciphertexts)
// bytes.
func EncodeCall(args *EncryptedCallArgs) ([]byte, error) {
	if len(args.Discriminator) != DiscriminatorSize {
		return nil, arcerr.InvalidLength("discriminator", DiscriminatorSize, len(args.Discriminator))
	}
	if len(args.EncryptionPubkey) != EncryptionPublicKeySize {
		return nil, arcerr.InvalidLength("encryption pubkey", EncryptionPublicKeySize, len(args.EncryptionPubkey))
	}
	if len(args.Nonce) != NonceSize {
		return nil, arcerr.InvalidLength("nonce", NonceSize, len(args.Nonce))
	}
	for i, ciphertext := range args.Ciphertexts {
		if len(ciphertext) != CiphertextSize {
			return nil, arcerr.InvalidLength(ciphertextField(i), CiphertextSize, len(ciphertext))
		}
	}

	var offset int
	data := make([]byte, EncryptedCallHeaderSize+CiphertextSize*len(args.Ciphertexts))

	binary.PutBytes(data[offset:], args.Discriminator, &offset)
	binary.PutUint64(data[offset:], args.ComputationOffset, &offset)
	binary.PutKey32(data[offset:], args.EncryptionPubkey, &offset)
	binary.PutBytes(data[offset:], args.Nonce, &offset)
	for _, ciphertext := range args.Ciphertexts {
		binary.PutBytes(data[offset:], ciphertext, &offset)
	}

	return data, nil
}

// DecodeCall is the inverse of EncodeCall.
func DecodeCall(data []byte) (*EncryptedCallArgs, error) {
	if len(data) < EncryptedCallHeaderSize {
		return nil, arcerr.New(arcerr.ErrEncoding, "encrypted call: expected at least %d bytes, got %d", EncryptedCallHeaderSize, len(data))
	}
	if (len(data)-EncryptedCallHeaderSize)%CiphertextSize != 0 {
		return nil, arcerr.New(arcerr.ErrEncoding, "encrypted call: %d trailing bytes are not a whole number of %d byte ciphertexts", len(data)-EncryptedCallHeaderSize, CiphertextSize)
	}

	r := binary.NewReader(data)

	args := &EncryptedCallArgs{
		Discriminator:     r.Bytes(DiscriminatorSize, "discriminator"),
		ComputationOffset: r.Uint64("computation_offset"),
		EncryptionPubkey:  r.Bytes(EncryptionPublicKeySize, "encryption_pubkey"),
		Nonce:             r.Bytes(NonceSize, "nonce"),
	}

	n := (len(data) - EncryptedCallHeaderSize) / CiphertextSize
	args.Ciphertexts = make([][]byte, n)
	for i := range args.Ciphertexts {
		args.Ciphertexts[i] = r.Bytes(CiphertextSize, "ciphertext")
	}

	if err := r.Err(); err != nil {
		return nil, arcerr.Wrap(arcerr.ErrEncoding, err, "encrypted call")
	}

	return args, nil
}

// ComputationAccounts returns the accounts of a queue computation instruction
// in program order, followed by extra.
func ComputationAccounts(payer ed25519.PublicKey, derived *DerivedAddresses, extra ...solana.AccountMeta) ([]solana.AccountMeta, error) {
	if len(payer) != ed25519.PublicKeySize {
		return nil, arcerr.InvalidLength("payer", ed25519.PublicKeySize, len(payer))
	}

	globalArgs := &GetGlobalAddressArgs{ArciumProgram: derived.ArciumProgram}

	feePool, _, err := GetFeePoolAddress(globalArgs)
	if err != nil {
		return nil, arcerr.Wrap(arcerr.ErrEncoding, err, "deriving fee pool address")
	}

	clock, _, err := GetClockAddress(globalArgs)
	if err != nil {
		return nil, arcerr.Wrap(arcerr.ErrEncoding, err, "deriving clock address")
	}

	accounts := []solana.AccountMeta{
		{
			PublicKey:  payer,
			IsWritable: true,
			IsSigner:   true,
		},
		{
			PublicKey:  derived.MXE,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  derived.Mempool,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  derived.ExecutingPool,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  derived.Computation,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  derived.CompDef,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  derived.Cluster,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  feePool,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  clock,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  SYSTEM_PROGRAM_ID,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  derived.ArciumProgram,
			IsWritable: false,
			IsSigner:   false,
		},
	}

	return append(accounts, extra...), nil
}

func ciphertextField(i int) string {
	return "ciphertext[" + strconv.Itoa(i) + "]"
}
