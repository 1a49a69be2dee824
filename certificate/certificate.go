// Package certificate implements the certificate verifier (spec.md §4.4,
// C8): it decodes a raw certificate, reconstructs its root hash, resolves
// signing authority through at most one level of delegation, checks time
// freshness, and verifies the BLS signature. The only public constructor
// performs verification as part of construction; no partially verified
// instance is ever returned to a caller (spec.md §9).
package certificate

import (
	"time"

	"github.com/certen/ic-cert-core/blsverify"
	"github.com/certen/ic-cert-core/cborcodec"
	"github.com/certen/ic-cert-core/certerr"
	"github.com/certen/ic-cert-core/certlog"
	"github.com/certen/ic-cert-core/hashtree"
	"github.com/certen/ic-cert-core/internal/domainsep"
	"github.com/certen/ic-cert-core/leb128"
	"github.com/certen/ic-cert-core/principal"
)

// DefaultMaxAgeInMinutes is the freshness window applied unless Options
// overrides it.
const DefaultMaxAgeInMinutes = 5

// clockSkewAllowance bounds how far into the future a certificate's time
// may sit (spec.md §4.4 step 4: "now + 5 minutes").
const clockSkewAllowance = 5 * time.Minute

// Options configures Create. CertificateBytes, RootKey, and CanisterID are
// required; everything else has a documented default.
type Options struct {
	CertificateBytes []byte
	RootKey          []byte
	CanisterID       principal.Principal

	// BLSVerify defaults to blsverify.Default.
	BLSVerify blsverify.Verifier
	// Decoder defaults to cborcodec.Default.
	Decoder cborcodec.Decoder
	// Logger defaults to certlog.Discard.
	Logger certlog.Logger

	// MaxAgeInMinutes defaults to DefaultMaxAgeInMinutes when zero.
	MaxAgeInMinutes int
	// DisableTimeVerification skips the time-freshness check entirely.
	DisableTimeVerification bool

	// now is overridden in tests; defaults to time.Now.
	now func() time.Time
}

// Certificate is an immutable, already-verified certificate. The only
// operations it exposes are path lookups into its tree.
type Certificate struct {
	tree *hashtree.Tree
}

// Create decodes, verifies, and returns a Certificate. A failed
// verification returns a nil Certificate and a typed *certerr.Error; no
// partially verified Certificate is ever returned.
func Create(opts Options) (*Certificate, error) {
	cfg := resolveConfig(opts)
	tree, err := verify(opts.CertificateBytes, opts.RootKey, opts.CanisterID, cfg)
	if err != nil {
		return nil, err
	}
	return &Certificate{tree: tree}, nil
}

// Lookup resolves path against the certificate's tree (spec.md §4.3).
func (c *Certificate) Lookup(path [][]byte) hashtree.LookupResult {
	return hashtree.LookupPath(c.tree, path)
}

// LookupLabel is the single-segment convenience wrapper around Lookup.
func (c *Certificate) LookupLabel(label []byte) hashtree.LookupResult {
	return hashtree.LookupLabel(c.tree, label)
}

// verifyConfig carries the resolved, defaulted verification parameters
// through the (possibly recursive, for a delegation) verification pass.
type verifyConfig struct {
	decoder                 cborcodec.Decoder
	blsVerify               blsverify.Verifier
	logger                  certlog.Logger
	now                     func() time.Time
	maxAge                  time.Duration
	unboundedMaxAge         bool
	disableTimeVerification bool
}

func resolveConfig(opts Options) verifyConfig {
	cfg := verifyConfig{
		decoder:                 opts.Decoder,
		blsVerify:               opts.BLSVerify,
		logger:                  opts.Logger,
		now:                     opts.now,
		disableTimeVerification: opts.DisableTimeVerification,
	}
	if cfg.decoder == nil {
		cfg.decoder = cborcodec.Default
	}
	if cfg.blsVerify == nil {
		cfg.blsVerify = blsverify.Default
	}
	if cfg.logger == nil {
		cfg.logger = certlog.Discard
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}
	maxAgeMinutes := opts.MaxAgeInMinutes
	if maxAgeMinutes == 0 {
		maxAgeMinutes = DefaultMaxAgeInMinutes
	}
	cfg.maxAge = time.Duration(maxAgeMinutes) * time.Minute
	return cfg
}

// withUnboundedMaxAge returns a copy of cfg suitable for verifying a
// delegation's inner certificate: delegations outlive the normal freshness
// window (spec.md §4.4 step 2), so the lower time bound is dropped while
// the upper "too new" bound still applies.
func (cfg verifyConfig) withUnboundedMaxAge() verifyConfig {
	cfg.unboundedMaxAge = true
	return cfg
}

// verify runs the full pipeline of spec.md §4.4 over raw certificate bytes
// and returns the verified tree. It is called once for the outer
// certificate and, recursively, once for a delegation's inner certificate.
func verify(raw []byte, rootKey []byte, canisterID principal.Principal, cfg verifyConfig) (*hashtree.Tree, error) {
	decoded, err := cfg.decoder.Decode(raw)
	if err != nil {
		return nil, err
	}

	rootHash := hashtree.Reconstruct(decoded.Tree)

	pubKeyDER, err := resolveSigningKey(decoded, rootKey, canisterID, cfg)
	if err != nil {
		return nil, err
	}

	pubKey, err := extractDER(pubKeyDER)
	if err != nil {
		return nil, err
	}

	if !cfg.disableTimeVerification {
		if err := checkFreshness(decoded.Tree, cfg); err != nil {
			return nil, err
		}
	}

	msg := append(append([]byte{}, domainsep.Tag(domainsep.StateRoot)...), rootHash[:]...)
	ok, err := cfg.blsVerify(pubKey, decoded.Signature, msg)
	if err != nil || !ok {
		return nil, certerr.Wrap(certerr.KindSignatureInvalid, "BLS signature verification failed", err)
	}

	return decoded.Tree, nil
}

// resolveSigningKey determines the DER-wrapped public key to verify the
// outer signature against: rootKey directly, or a subnet key authorized
// by a one-level delegation (spec.md §4.4 step 2).
func resolveSigningKey(decoded *cborcodec.Certificate, rootKey []byte, canisterID principal.Principal, cfg verifyConfig) ([]byte, error) {
	if decoded.Delegation == nil {
		return rootKey, nil
	}

	innerCfg := cfg.withUnboundedMaxAge()
	innerDecoded, err := innerCfg.decoder.Decode(decoded.Delegation.Certificate)
	if err != nil {
		return nil, err
	}
	if innerDecoded.Delegation != nil {
		return nil, certerr.New(certerr.KindNestedDelegation, "a delegation certificate may not itself carry a delegation")
	}

	innerTree, err := verify(decoded.Delegation.Certificate, rootKey, canisterID, innerCfg)
	if err != nil {
		return nil, err
	}

	subnetID := decoded.Delegation.SubnetID

	if !canisterID.IsManagementCanister() {
		if err := checkCanisterRange(innerTree, subnetID, canisterID); err != nil {
			return nil, err
		}
	}

	pkPath := [][]byte{[]byte("subnet"), subnetID, []byte("public_key")}
	res := hashtree.LookupPath(innerTree, pkPath)
	pubKeyDER, ok := res.AsBytes()
	if !ok {
		return nil, certerr.New(certerr.KindMissingSubnetKey, "delegation's inner certificate does not carry a subnet public key").
			WithDetail("subnet_id", subnetID)
	}
	return pubKeyDER, nil
}

// checkCanisterRange confirms canisterID falls within one of the
// delegation's authorized canister ranges (spec.md §4.4 step 2).
func checkCanisterRange(innerTree *hashtree.Tree, subnetID []byte, canisterID principal.Principal) error {
	rangesPath := [][]byte{[]byte("subnet"), subnetID, []byte("canister_ranges")}
	res := hashtree.LookupPath(innerTree, rangesPath)
	raw, ok := res.AsBytes()
	if !ok {
		return certerr.New(certerr.KindCanisterOutOfRange, "delegation's inner certificate does not carry canister ranges for this subnet").
			WithDetail("subnet_id", subnetID)
	}

	ranges, err := cborcodec.DecodeCanisterRanges(raw)
	if err != nil {
		return err
	}

	for _, r := range ranges {
		low := principal.FromBytes(r[0])
		high := principal.FromBytes(r[1])
		if canisterID.InRange(low, high) {
			return nil
		}
	}
	return certerr.New(certerr.KindCanisterOutOfRange, "canister is not within any authorized range for this subnet").
		WithDetail("subnet_id", subnetID).
		WithDetail("canister_id", canisterID.Bytes())
}

// checkFreshness validates the `time` leaf against cfg's window (spec.md
// §4.4 step 4 and §8's boundary behaviors).
func checkFreshness(tree *hashtree.Tree, cfg verifyConfig) error {
	res := hashtree.LookupLabel(tree, []byte("time"))
	raw, ok := res.AsBytes()
	if !ok {
		return certerr.New(certerr.KindMissingTime, "certificate tree has no time leaf")
	}

	certTime, err := leb128.DecodeNanosTimestamp(raw)
	if err != nil {
		return certerr.Wrap(certerr.KindMissingTime, "could not decode certificate time", err)
	}

	now := cfg.now()
	if !cfg.unboundedMaxAge {
		oldestAllowed := now.Add(-cfg.maxAge)
		if certTime.Before(oldestAllowed) {
			return certerr.New(certerr.KindCertificateTooOld, "certificate time is older than the allowed freshness window").
				WithDetail("cert_time", certTime).
				WithDetail("oldest_allowed", oldestAllowed)
		}
	}

	newestAllowed := now.Add(clockSkewAllowance)
	if certTime.After(newestAllowed) {
		return certerr.New(certerr.KindCertificateTooNew, "certificate time is further in the future than the allowed clock skew").
			WithDetail("cert_time", certTime).
			WithDetail("newest_allowed", newestAllowed)
	}
	return nil
}
