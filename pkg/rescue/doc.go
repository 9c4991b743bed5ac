// Package rescue implements the Rescue-Prime permutation and the Rescue
// counter mode cipher over GF(2^255 - 19), the field encrypted computation
// inputs live in.
package rescue
