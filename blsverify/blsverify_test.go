package blsverify

import (
	"crypto/rand"
	"math/big"
	"testing"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// signForTest mints a key pair and signs msg the same way this corpus's
// BLS implementation does (sig = sk * H(msg), pk = sk * G2), so Verify can
// be exercised end to end without an external fixture.
func signForTest(t *testing.T, msg []byte) (pubKey, sig []byte) {
	t.Helper()

	var sk fr.Element
	if _, err := sk.SetRandom(); err != nil {
		t.Fatalf("SetRandom: %v", err)
	}
	var skBig big.Int
	sk.BigInt(&skBig)

	_, _, _, g2Gen := bls12381.Generators()
	var pk bls12381.G2Affine
	pk.ScalarMultiplication(&g2Gen, &skBig)

	h := hashToG1(msg)
	var sigPoint bls12381.G1Affine
	sigPoint.ScalarMultiplication(&h, &skBig)

	pkBytes := pk.Bytes()
	sigBytes := sigPoint.Bytes()
	return pkBytes[:], sigBytes[:]
}

func TestVerifyValidSignature(t *testing.T) {
	msg := []byte("ic-state-root-digest")
	pubKey, sig := signForTest(t, msg)

	ok, err := Verify(pubKey, sig, msg)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Error("expected signature to verify")
	}
}

func TestVerifyRejectsWrongMessage(t *testing.T) {
	pubKey, sig := signForTest(t, []byte("original"))

	ok, err := Verify(pubKey, sig, []byte("tampered"))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Error("expected signature over a different message to be rejected")
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	_, sig := signForTest(t, []byte("msg"))
	otherPubKey, _ := signForTest(t, []byte("msg"))

	ok, err := Verify(otherPubKey, sig, []byte("msg"))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Error("expected signature under a different key to be rejected")
	}
}

func TestVerifyRejectsWrongSizes(t *testing.T) {
	if _, err := Verify(make([]byte, 10), make([]byte, SignatureSize), []byte("m")); err == nil {
		t.Error("expected error for undersized public key")
	}
	if _, err := Verify(make([]byte, PublicKeySize), make([]byte, 10), []byte("m")); err == nil {
		t.Error("expected error for undersized signature")
	}
}

func TestGenerateKeyPairSignVerifyRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	msg := []byte("ic-state-root-digest")
	sig := kp.Sign(msg)

	ok, err := Verify(kp.PublicKey, sig, msg)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Error("expected a freshly minted key pair's signature to verify")
	}

	if ok, _ := Verify(kp.PublicKey, sig, []byte("tampered")); ok {
		t.Error("expected signature to be rejected over a different message")
	}
}

func TestVerifyRejectsGarbageEncoding(t *testing.T) {
	garbage := make([]byte, PublicKeySize)
	for i := range garbage {
		garbage[i] = 0xff
	}
	sig := make([]byte, SignatureSize)
	if _, err := rand.Read(sig); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	if _, err := Verify(garbage, sig, []byte("m")); err == nil {
		t.Error("expected a deserialization error for an invalid public key encoding")
	}
}
