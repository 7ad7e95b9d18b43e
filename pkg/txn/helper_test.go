package txn

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

// Three legacy transactions sharing one r value under one public key, the
// classic nonce-reuse constellation this module exists to exploit.
var rawNonceReuseTxs = []string{
	"01000000023c99cb033a0f5897d0587c0172a5456f036496fe585f01d9fb6009154e26627e000000008b483045022100cabc3692f1f7ba75a8572dc5d270b35bcc00650534f6e5ecd6338e55355454d502200437b68b1ea23546f6f712fd6a7e5370cfc2e658a8f0245628afd8b6999d9da60141044a87eb1c5255b7d224e15b046f88fd322af1168954f0cba020a4358641d008c13228b85e0a1fd313e032326aff1b27240ece99c90dc58b19bab804c705fcd2ecffffffff3c99cb033a0f5897d0587c0172a5456f036496fe585f01d9fb6009154e26627e010000008c493046022100cabc3692f1f7ba75a8572dc5d270b35bcc00650534f6e5ecd6338e55355454d5022100b584c5e2f26eaac9510307f466d13f8d4e8f57b1323cc4151ff6ffeb6747ca9b014104bb6c1de01f36618ae05f7c183c22dfa8797e779f39537752c27e2dc045b0e6942f8af53270bf045f2258834b6dad7481ad6fca009d80f5b54697b08d104fc7b3ffffffff0180969800000000001976a914aed8036193b2e7ebdd7596fb658894548c6eb5bf88ac00000000",
	"0100000001ff7f73f59ef98051052d7ab6ed319dd9acc50598dcc4ea4a5f822cd9abd3df07010000008c493046022100cabc3692f1f7ba75a8572dc5d270b35bcc00650534f6e5ecd6338e55355454d50221009cae782a191f3e742d9d4ff8f726d097a3a256af9fbc1faf16e7ec4d9fcf6feb014104bb6c1de01f36618ae05f7c183c22dfa8797e779f39537752c27e2dc045b0e6942f8af53270bf045f2258834b6dad7481ad6fca009d80f5b54697b08d104fc7b3ffffffff0240420f00000000001976a914031b45590c4ce1b4082ab1ec7e46c72666653c1e88ac40548900000000001976a914b54405702bad7fd74cdb0567db22d1f58a48494e88ac00000000",
	"01000000015acb328d14b27ecf45f029db0023631773ad2b8ed7ac67380d445b21b6af1f9a010000008c493046022100cabc3692f1f7ba75a8572dc5d270b35bcc00650534f6e5ecd6338e55355454d5022100f65bfc44435a91814c142a3b8ee288a9183e6a3f012b84545d1fe334ccfac25e014104bb6c1de01f36618ae05f7c183c22dfa8797e779f39537752c27e2dc045b0e6942f8af53270bf045f2258834b6dad7481ad6fca009d80f5b54697b08d104fc7b3ffffffff0180969800000000001976a914a8964e5b08170f5601f526813d80c9f825b8775588ac00000000",
}

// The shared r value and the public key signing all three of the colliding
// inputs.
const (
	reusedRHex      = "cabc3692f1f7ba75a8572dc5d270b35bcc00650534f6e5ecd6338e55355454d5"
	reusedPubKeyHex = "04bb6c1de01f36618ae05f7c183c22dfa8797e779f39537752c27e2dc045b0e6942f8af53270bf045f2258834b6dad7481ad6fca009d80f5b54697b08d104fc7b3"
)

// The BIP143 P2WPKH example transaction in its signed form, spending one
// P2PK output (legacy, input 0) and one P2WPKH output (input 1).
const rawBIP143Tx = "01000000000102fff7f7881a8099afa6940d42d1e7f6362bec38171ea3edf433541db4e4ad969f00000000494830450221008b9d1dc26ba6a9cb62127b02742fa9d754cd3bebf337f7a55d114c8e5cdd30be022040529b194ba3f9281a99f2b1c0a19c0489bc22ede944ccf4ecbab4cc618ef3ed01eeffffffef51e1b804cc89d182d279655c3aa89e815b1b309fe287d9b2b55d57b90ec68a0100000000ffffffff02202cb206000000001976a9148280b37df378db99f66f85c95a783a76ac7a6d5988ac9093510d000000001976a9143bde42dbee7e4dbe6a21b2d50ce2f0167faa815988ac000247304402203609e17b84f6a7d30c80bfa610b5b4542f32a8a0d5447a12fb1366d7f01cc44a0220573a954c4518331561406f90300e8f3358f51928d43c212a8caed02de67eebee0121025476c2e83188368da1ff3e292e7acafcdb3566bb0ad253f62fc70f07aeee635711000000"

// BIP143 facts about input 1 of the transaction above.
const (
	bip143SpentValue  = 600000000
	bip143SigHashHex  = "c37af31116d1b27caf68aae9e3ac82f1477929014d5b917657d0eb49478cb670"
	bip143PubKeyHex   = "025476c2e83188368da1ff3e292e7acafcdb3566bb0ad253f62fc70f07aeee6357"
	bip143ScriptCode  = "1d0f172a0ecb48aee1be1f2687d2963ae33f71a1"
	bip143HashPrevout = "96b827c8483d4e9b96712b6713a7b68d6e8003a781feba36c31143470b4efd37"
)

func unhex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func decodeTx(t *testing.T, rawHex string) *Transaction {
	tx, err := NewTransactionFromBytes(unhex(t, rawHex))
	require.NoError(t, err)
	return tx
}
