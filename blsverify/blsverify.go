// Package blsverify is the default BLS12-381 signature verifier spec.md
// §6 treats as an injected external collaborator. It is adapted from the
// pairing-based verification in this corpus's BLS12-381 implementation,
// narrowed to the single operation the certificate verifier needs:
// checking a signature over an already domain-separated message against a
// G2 public key.
package blsverify

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// PublicKeySize and SignatureSize are the compressed wire sizes this
// verifier expects: a 96-byte compressed G2 point (the DER-unwrapped
// public key payload from spec.md §6's wire constants) and a 48-byte
// compressed G1 point.
const (
	PublicKeySize = 96
	SignatureSize = 48
)

// Verifier is the function shape the certificate verifier calls. An
// implementation returns (false, nil) for a cryptographically invalid
// signature and a non-nil error only for a malformed input it cannot even
// attempt to verify.
type Verifier func(pubKey, sig, msg []byte) (bool, error)

// Default is the gnark-crypto-backed Verifier certificate.Create uses
// unless a caller injects its own through Options.BLSVerify (e.g. a
// hardware-backed one).
var Default Verifier = Verify

// Verify checks sig against msg under pubKey using the BLS12-381 pairing
// equation e(sig, g2) == e(H(msg), pubKey). msg is expected to already
// carry whatever domain separation the caller needs (the certificate
// verifier prefixes it with DS("ic-state-root") before calling in).
func Verify(pubKey, sig, msg []byte) (bool, error) {
	if len(pubKey) != PublicKeySize {
		return false, fmt.Errorf("blsverify: public key must be %d bytes, got %d", PublicKeySize, len(pubKey))
	}
	if len(sig) != SignatureSize {
		return false, fmt.Errorf("blsverify: signature must be %d bytes, got %d", SignatureSize, len(sig))
	}

	var pk bls12381.G2Affine
	if _, err := pk.SetBytes(pubKey); err != nil {
		return false, fmt.Errorf("blsverify: deserialize public key: %w", err)
	}
	var sigPoint bls12381.G1Affine
	if _, err := sigPoint.SetBytes(sig); err != nil {
		return false, fmt.Errorf("blsverify: deserialize signature: %w", err)
	}

	if !pk.IsInSubGroup() || !sigPoint.IsInSubGroup() {
		return false, nil
	}

	_, _, _, g2Gen := bls12381.Generators()
	h := hashToG1(msg)

	var negPk bls12381.G2Affine
	negPk.Neg(&pk)

	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{sigPoint, h},
		[]bls12381.G2Affine{g2Gen, negPk},
	)
	if err != nil {
		return false, nil
	}
	return ok, nil
}

// KeyPair is a minted BLS12-381 key pair: a G2 public key in the
// compressed wire encoding Verify expects, and the scalar private key.
// Nothing in the certificate verifier needs to mint keys — certificates
// arrive pre-signed — but an in-process sender (cmd/pollcert's loopback
// transport, or a test fixture that wants a real signature instead of a
// faked one) does, mirroring this corpus's GenerateKeyPair.
type KeyPair struct {
	PublicKey  []byte
	privateKey fr.Element
}

// GenerateKeyPair mints a fresh key pair from crypto/rand.
func GenerateKeyPair() (*KeyPair, error) {
	var sk fr.Element
	if _, err := sk.SetRandom(); err != nil {
		return nil, fmt.Errorf("blsverify: generate random scalar: %w", err)
	}

	var skBig big.Int
	sk.BigInt(&skBig)
	_, _, _, g2Gen := bls12381.Generators()
	var pk bls12381.G2Affine
	pk.ScalarMultiplication(&g2Gen, &skBig)
	pkBytes := pk.Bytes()

	return &KeyPair{PublicKey: pkBytes[:], privateKey: sk}, nil
}

// Sign produces a compressed G1 signature over msg (sig = sk * H(msg)),
// the inverse operation Verify checks.
func (kp *KeyPair) Sign(msg []byte) []byte {
	var skBig big.Int
	kp.privateKey.BigInt(&skBig)

	h := hashToG1(msg)
	var sigPoint bls12381.G1Affine
	sigPoint.ScalarMultiplication(&h, &skBig)
	sigBytes := sigPoint.Bytes()
	return sigBytes[:]
}

// hashToG1 deterministically maps msg onto a point in the G1 subgroup.
// Adapted from this corpus's "hash and pray" mapping: hash, attempt to
// decode as a point, and on failure fall back to scalar-multiplying the
// generator by a hash-derived scalar.
func hashToG1(msg []byte) bls12381.G1Affine {
	_, _, g1Gen, _ := bls12381.Generators()

	base := sha256.New()
	base.Write([]byte("ic-cert-core/blsverify/hash-to-g1"))
	base.Write(msg)
	baseSum := base.Sum(nil)

	for counter := uint64(0); counter < 1000; counter++ {
		h := sha256.New()
		h.Write(baseSum)
		_ = binary.Write(h, binary.BigEndian, counter)
		candidate := h.Sum(nil)

		var point bls12381.G1Affine
		if _, err := point.SetBytes(candidate); err == nil && !point.IsInfinity() && point.IsInSubGroup() {
			return point
		}

		var scalar fr.Element
		scalar.SetBytes(candidate)
		var scalarBig big.Int
		scalar.BigInt(&scalarBig)

		var result bls12381.G1Affine
		result.ScalarMultiplication(&g1Gen, &scalarBig)
		if !result.IsInfinity() {
			return result
		}
	}
	return g1Gen
}
