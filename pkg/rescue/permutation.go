package rescue

import (
	"fmt"
	"math/big"

	"filippo.io/edwards25519/field"
)

func sbox(s []field.Element) {
	for i := range s {
		var sq field.Element
		sq.Square(&s[i])
		sq.Square(&sq)
		s[i].Multiply(&sq, &s[i])
	}
}

func invSbox(s []field.Element) {
	for i := range s {
		s[i] = pow(&s[i], alphaInv)
	}
}

func mix(mds [][]field.Element, s []field.Element) {
	out := make([]field.Element, len(s))
	for i := range mds {
		var acc, term field.Element
		for j := range s {
			term.Multiply(&mds[i][j], &s[j])
			acc.Add(&acc, &term)
		}
		out[i] = acc
	}
	copy(s, out)
}

func addVector(s, v []field.Element) {
	for i := range s {
		s[i].Add(&s[i], &v[i])
	}
}

// step runs step r of the permutation over s in place, adding key.
func (p *permutation) step(r int, s, key []field.Element) {
	if (r%2 == 0) == p.alphaFirst {
		sbox(s)
	} else {
		invSbox(s)
	}
	mix(p.mds, s)
	addVector(s, key)
}

// apply runs the permutation over s in place under 2*rounds+1 round keys.
func (p *permutation) apply(keys [][]field.Element, s []field.Element) {
	addVector(s, keys[0])
	for r := 0; r < 2*p.rounds; r++ {
		p.step(r, s, keys[r+1])
	}
}

// hashElements absorbs inputs into a zeroed sponge and squeezes DigestSize
// elements. Input is padded with a single one followed by zeros up to a
// multiple of the rate, so inputs of different lengths never collide on
// padding.
func hashElements(inputs []field.Element) []field.Element {
	loadParams()

	padded := make([]field.Element, len(inputs), len(inputs)+HashRate)
	copy(padded, inputs)
	var one field.Element
	padded = append(padded, *one.One())
	for len(padded)%HashRate != 0 {
		padded = append(padded, field.Element{})
	}

	state := make([]field.Element, HashWidth)
	for offset := 0; offset < len(padded); offset += HashRate {
		addVector(state[:HashRate], padded[offset:offset+HashRate])
		hashPerm.apply(hashPerm.constants, state)
	}

	digest := make([]field.Element, DigestSize)
	copy(digest, state[:DigestSize])
	return digest
}

// Hash returns the Rescue-Prime digest of inputs. Every input must be a
// canonical field element.
func Hash(inputs []*big.Int) ([]*big.Int, error) {
	elements := make([]field.Element, len(inputs))
	for i, v := range inputs {
		if err := checkRange(v, fmt.Sprintf("input[%d]", i)); err != nil {
			return nil, err
		}
		elements[i] = newElement(v)
	}

	digest := hashElements(elements)
	out := make([]*big.Int, len(digest))
	for i := range digest {
		out[i] = toBig(&digest[i])
	}
	return out, nil
}

// schedule expands a key into 2*rounds+1 round keys: the successive states
// of the permutation run over the key under the sampled constants.
func (p *permutation) schedule(key []field.Element) [][]field.Element {
	keys := make([][]field.Element, 2*p.rounds+1)

	k := make([]field.Element, p.width)
	copy(k, key)
	addVector(k, p.constants[0])
	keys[0] = k

	for r := 0; r < 2*p.rounds; r++ {
		next := make([]field.Element, p.width)
		copy(next, keys[r])
		p.step(r, next, p.constants[r+1])
		keys[r+1] = next
	}
	return keys
}
