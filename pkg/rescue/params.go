package rescue

import (
	"fmt"
	"math"
	"math/big"
	"sync"

	"filippo.io/edwards25519/field"
	"golang.org/x/crypto/sha3"
)

const (
	// Alpha is the S-box exponent: the smallest prime not dividing p-1, so
	// x^Alpha is a permutation of the field.
	Alpha = 5

	// HashWidth and HashCapacity parameterize the Rescue-Prime sponge used to
	// derive cipher keys.
	HashWidth    = 12
	HashCapacity = 5
	HashRate     = HashWidth - HashCapacity

	// DigestSize is the number of field elements Hash returns.
	DigestSize = 5

	// BlockSize is the number of field elements the cipher permutation
	// operates on, and the number of values a single counter block covers.
	BlockSize = 5

	cipherSecurityLevel = 128
	hashSecurityLevel   = 256

	cipherSeed = "encrypt everything, compute anything"

	// Field size in bytes plus 16, so reduced samples are statistically
	// close to uniform.
	constantSampleSize = ElementSize + 16
)

// permutation is a Rescue permutation of width elements. It runs
// 2*rounds steps. Step r raises every element to a power, multiplies by the
// MDS matrix and adds key r+1. Even steps use x^Alpha when alphaFirst is
// set and x^(1/Alpha) otherwise; odd steps use the other map.
type permutation struct {
	width      int
	rounds     int
	alphaFirst bool
	mds        [][]field.Element

	// 2*rounds+1 vectors. The hash uses them as round keys directly. The
	// cipher runs them through the key schedule.
	constants [][]field.Element
}

var (
	paramsOnce sync.Once

	alphaInv   *big.Int
	hashPerm   *permutation
	cipherPerm *permutation
)

func loadParams() {
	paramsOnce.Do(func() {
		pMinusOne := new(big.Int).Sub(modulus, big.NewInt(1))
		alphaInv = new(big.Int).ModInverse(big.NewInt(Alpha), pMinusOne)
		if alphaInv == nil {
			panic("alpha is not invertible mod p-1")
		}

		rounds := hashRounds(HashWidth, HashCapacity, hashSecurityLevel)
		hashPerm = &permutation{
			width:      HashWidth,
			rounds:     rounds,
			alphaFirst: true,
			mds:        cauchyMatrix(HashWidth),
			constants:  hashConstants(rounds),
		}

		rounds = cipherRounds(BlockSize, cipherSecurityLevel)
		cipherPerm = &permutation{
			width:     BlockSize,
			rounds:    rounds,
			mds:       cauchyMatrix(BlockSize),
			constants: cipherConstants(rounds),
		}
	})
}

// cipherRounds bounds the rounds needed against statistical and algebraic
// attacks on the block cipher, with a floor of 5.
func cipherRounds(width, securityLevel int) int {
	p, _ := new(big.Float).SetInt(modulus).Float64()
	l0 := int(math.Ceil(float64(2*securityLevel) / (float64(width+1) * (math.Log2(p) - math.Log2(Alpha-1)))))
	l1 := int(math.Ceil(float64(securityLevel+3) / (5.5 * float64(width))))
	return 2 * max(l0, l1, 5)
}

// hashRounds is the Groebner basis bound for the sponge plus 50%, with a
// floor of 5.
func hashRounds(width, capacity, securityLevel int) int {
	rate := width - capacity
	dcon := func(n int) int {
		return int(math.Floor(0.5*float64(Alpha-1)*float64(width)*float64(n-1) + 2))
	}
	v := func(n int) int {
		return width*(n-1) + rate
	}
	complexity := func(n int) *big.Int {
		b := new(big.Int).Binomial(int64(v(n)+dcon(n)), int64(v(n)))
		return b.Mul(b, b)
	}

	target := new(big.Int).Lsh(big.NewInt(1), uint(securityLevel))
	l1 := 1
	for complexity(l1).Cmp(target) <= 0 && l1 <= 23 {
		l1++
	}
	return int(math.Ceil(1.5 * float64(max(5, l1))))
}

// cauchyMatrix returns M[i][j] = 1/(i + j + 2), the Cauchy matrix over
// x_i = i + 1 and y_j = -(j + 1). Every sum is nonzero, so M is MDS.
func cauchyMatrix(width int) [][]field.Element {
	m := make([][]field.Element, width)
	for i := range m {
		m[i] = make([]field.Element, width)
		for j := range m[i] {
			sum := newElementFromUint64(uint64(i + j + 2))
			m[i][j].Invert(&sum)
		}
	}
	return m
}

// hashConstants is a zero vector followed by 2*rounds vectors sampled from
// the Rescue-Prime seed.
func hashConstants(rounds int) [][]field.Element {
	xof := newSampler(fmt.Sprintf("Rescue-XLIX(%s,%d,%d,%d)", modulus, HashWidth, HashCapacity, hashSecurityLevel))

	constants := make([][]field.Element, 0, 2*rounds+1)
	constants = append(constants, make([]field.Element, HashWidth))
	for r := 0; r < 2*rounds; r++ {
		constants = append(constants, xof.vector(HashWidth))
	}
	return constants
}

// cipherConstants samples an invertible matrix M and vectors c0, b, and
// returns c0 followed by c[r+1] = M*c[r] + b.
func cipherConstants(rounds int) [][]field.Element {
	xof := newSampler(cipherSeed)

	m := make([][]field.Element, BlockSize)
	for i := range m {
		m[i] = xof.vector(BlockSize)
	}
	initial := xof.vector(BlockSize)
	affine := xof.vector(BlockSize)

	for !invertible(m) {
		for i := range m {
			m[i] = xof.vector(BlockSize)
		}
	}

	constants := make([][]field.Element, 2*rounds+1)
	constants[0] = initial
	for r := 0; r < 2*rounds; r++ {
		next := make([]field.Element, BlockSize)
		copy(next, constants[r])
		mix(m, next)
		addVector(next, affine)
		constants[r+1] = next
	}
	return constants
}

// sampler draws field elements from a SHAKE256 stream.
type sampler struct {
	xof sha3.ShakeHash
	buf []byte
}

func newSampler(seed string) *sampler {
	h := sha3.NewShake256()
	h.Write([]byte(seed))
	return &sampler{
		xof: h,
		buf: make([]byte, constantSampleSize),
	}
}

func (s *sampler) vector(width int) []field.Element {
	v := make([]field.Element, width)
	for i := range v {
		s.xof.Read(s.buf)
		v[i] = reduce(s.buf)
	}
	return v
}

// invertible reports whether m is nonsingular, by Gaussian elimination
// modulo p.
func invertible(m [][]field.Element) bool {
	n := len(m)
	rows := make([][]*big.Int, n)
	for i := range m {
		rows[i] = make([]*big.Int, n)
		for j := range m[i] {
			rows[i][j] = toBig(&m[i][j])
		}
	}

	for col := 0; col < n; col++ {
		pivot := -1
		for r := col; r < n; r++ {
			if rows[r][col].Sign() != 0 {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			return false
		}
		rows[col], rows[pivot] = rows[pivot], rows[col]

		inv := new(big.Int).ModInverse(rows[col][col], modulus)
		for r := col + 1; r < n; r++ {
			factor := new(big.Int).Mul(rows[r][col], inv)
			factor.Mod(factor, modulus)
			for c := col; c < n; c++ {
				t := new(big.Int).Mul(factor, rows[col][c])
				rows[r][c].Sub(rows[r][c], t)
				rows[r][c].Mod(rows[r][c], modulus)
			}
		}
	}
	return true
}
