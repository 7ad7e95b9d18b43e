// Package chainparams holds the network parameters needed to render
// addresses and wallet keys: the base58 version bytes and the bech32
// human-readable part. A table of known alt-coin parameters allows lookup
// by name instead of mutating process-wide state.
package chainparams

import (
	"regexp"
	"sort"
)

// Params is the set of version parameters for one network.
type Params struct {
	// AddressVersion is the base58 P2PKH version byte.
	AddressVersion byte
	// WalletVersion is the base58 WIF version byte.
	WalletVersion byte
	// HRP is the bech32 human-readable part for segwit addresses, empty
	// when the network has none.
	HRP string
	// Names lists the coins sharing these parameters, comma separated.
	Names string
}

// Mainnet is the default Bitcoin parameter set.
var Mainnet = Params{AddressVersion: 0x00, WalletVersion: 0x80, HRP: "bc", Names: "Bitcoin"}

// Testnet is the Bitcoin testnet parameter set.
var Testnet = Params{AddressVersion: 0x6F, WalletVersion: 0xEF, HRP: "tb", Names: "TestnetBitcoin"}

// Litecoin and Dogecoin get dedicated values since the original tool grew
// shortcut flags for them.
var (
	Litecoin = Params{AddressVersion: 0x30, WalletVersion: 0xB0, HRP: "ltc", Names: "Litecoin"}
	Dogecoin = Params{AddressVersion: 0x1E, WalletVersion: 0x80, Names: "Dogecoin"}
)

// Coins is the known alt-coin parameter table. Entries whose wallet version
// does not follow the common rule wver == aver + 0x80 are kept as observed
// in the wild.
var Coins = []Params{
	{AddressVersion: 0x00, WalletVersion: 0x80, HRP: "bc", Names: "IncognitoCoin,HamRadioCoin,Bitcoin,Freicoin,Titcoin,WankCoin,Devcoin,MobiusCoin"},
	{AddressVersion: 0x03, WalletVersion: 0x83, Names: "MoonCoin"},
	{AddressVersion: 0x08, WalletVersion: 0x88, Names: "Novacoin,42coin"},
	{AddressVersion: 0x0B, WalletVersion: 0x8B, Names: "CryptoBullion"},
	{AddressVersion: 0x0E, WalletVersion: 0x8E, Names: "Feathercoin"},
	{AddressVersion: 0x0F, WalletVersion: 0x8F, Names: "MonetaryUnit"},
	{AddressVersion: 0x10, WalletVersion: 0x90, Names: "GabenCoin"},
	{AddressVersion: 0x14, WalletVersion: 0x94, Names: "Magicoin"},
	{AddressVersion: 0x15, WalletVersion: 0x95, Names: "Catcoin"},
	{AddressVersion: 0x17, WalletVersion: 0x80, Names: "Latium"},
	{AddressVersion: 0x17, WalletVersion: 0x97, Names: "Anoncoin,Primecoin,Animecoin,Apexcoin,Auroracoin"},
	{AddressVersion: 0x17, WalletVersion: 0xE6, Names: "Acoin"},
	{AddressVersion: 0x19, WalletVersion: 0x99, Names: "Blackcoin"},
	{AddressVersion: 0x19, WalletVersion: 0xBF, Names: "Nubits"},
	{AddressVersion: 0x1A, WalletVersion: 0x9A, Names: "BunnyCoin"},
	{AddressVersion: 0x1C, WalletVersion: 0x9C, Names: "Corgicoin,Capricoin,CannabisCoin,CanadaeCoin,Cryptoescudo"},
	{AddressVersion: 0x1E, WalletVersion: 0x9E, Names: "Dogecoin,Digitalcoin,CassubianDetk,DogecoinDark"},
	{AddressVersion: 0x21, WalletVersion: 0xA1, Names: "EmerCoin"},
	{AddressVersion: 0x23, WalletVersion: 0xA3, Names: "Fibre,FUDcoin,Fluttercoin,CryptoClub"},
	{AddressVersion: 0x24, WalletVersion: 0x80, Names: "Fuelcoin"},
	{AddressVersion: 0x24, WalletVersion: 0xA4, Names: "Fujicoin"},
	{AddressVersion: 0x26, WalletVersion: 0xA6, Names: "Guldencoin,Goodcoin,USDe,GlobalBoost"},
	{AddressVersion: 0x27, WalletVersion: 0xA7, Names: "Guncoin"},
	{AddressVersion: 0x28, WalletVersion: 0xA8, Names: "HTML5Coin"},
	{AddressVersion: 0x2B, WalletVersion: 0xAB, Names: "Jumbucks,Judgecoin"},
	{AddressVersion: 0x2D, WalletVersion: 0xAD, Names: "eKrona"},
	{AddressVersion: 0x2F, WalletVersion: 0xAF, Names: "Pesetacoin,Birdcoin"},
	{AddressVersion: 0x30, WalletVersion: 0xB0, HRP: "ltc", Names: "IridiumCoin,ImperiumCoin,DeafDollars,MagicInternetMoney,eGulden,Litecoin"},
	{AddressVersion: 0x32, WalletVersion: 0xB2, Names: "MarteXcoin,Marscoin,Monocle,TreasureHuntCoin,Megacoin,Myriadcoin"},
	{AddressVersion: 0x32, WalletVersion: 0xE0, Names: "Mazacoin"},
	{AddressVersion: 0x33, WalletVersion: 0x8B, Names: "MasterDoge"},
	{AddressVersion: 0x34, WalletVersion: 0x80, Names: "NameCoin"},
	{AddressVersion: 0x37, WalletVersion: 0xB7, Names: "PHCoin,Potcoin,Peercoin,Pandacoin,Paycoin"},
	{AddressVersion: 0x38, WalletVersion: 0xB8, Names: "PhoenixCoin"},
	{AddressVersion: 0x3A, WalletVersion: 0xBA, Names: "Quark"},
	{AddressVersion: 0x3C, WalletVersion: 0x80, Names: "Riecoin"},
	{AddressVersion: 0x3C, WalletVersion: 0xBC, Names: "Rimbit"},
	{AddressVersion: 0x3D, WalletVersion: 0xBD, Names: "Reddcoin"},
	{AddressVersion: 0x3E, WalletVersion: 0xBE, Names: "GridcoinResearch,StealthCoin,Sambacoin"},
	{AddressVersion: 0x3F, WalletVersion: 0x80, Names: "SibCoin"},
	{AddressVersion: 0x3F, WalletVersion: 0xBF, Names: "SongCoin,Syscoin"},
	{AddressVersion: 0x41, WalletVersion: 0xC1, Names: "TittieCoin"},
	{AddressVersion: 0x42, WalletVersion: 0xC2, Names: "Topcoin"},
	{AddressVersion: 0x46, WalletVersion: 0x56, Names: "VikingCoin"},
	{AddressVersion: 0x47, WalletVersion: 0xC7, Names: "Viacoin,Vertcoin"},
	{AddressVersion: 0x49, WalletVersion: 0xC9, Names: "WorldCoin,W2Coin"},
	{AddressVersion: 0x4C, WalletVersion: 0xCC, Names: "Dash"},
	{AddressVersion: 0x50, WalletVersion: 0xE0, Names: "Zetacoin"},
	{AddressVersion: 0x52, WalletVersion: 0xD2, Names: "Alphacoin"},
	{AddressVersion: 0x55, WalletVersion: 0xD5, Names: "BBQcoin"},
	{AddressVersion: 0x5A, WalletVersion: 0xAB, Names: "LiteDoge"},
	{AddressVersion: 0x5C, WalletVersion: 0xDC, Names: "EnergyCoin"},
	{AddressVersion: 0x60, WalletVersion: 0xE0, Names: "Fastcoin"},
	{AddressVersion: 0x6F, WalletVersion: 0xEF, HRP: "tb", Names: "TestnetBitcoin"},
	{AddressVersion: 0x73, WalletVersion: 0xF3, Names: "Omnicoin,Ocupy,Onyxcoin"},
	{AddressVersion: 0x82, WalletVersion: 0xE0, Names: "Unobtanium"},
	{AddressVersion: 0x87, WalletVersion: 0x97, Names: "WeAreSatoshiCoin"},
	{AddressVersion: 0x8A, WalletVersion: 0x80, Names: "iXcoin"},
}

// matchLevel ranks how well a name matches the entry: exact word, word with
// a Coin suffix, prefix, substring, then not at all.
func (p Params) matchLevel(name string) int {
	if regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`).MatchString(p.Names) {
		return 0
	}
	if regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `Coin\b`).MatchString(p.Names) {
		return 1
	}
	if regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name)).MatchString(p.Names) {
		return 2
	}
	if regexp.MustCompile(`(?i)` + regexp.QuoteMeta(name)).MatchString(p.Names) {
		return 3
	}
	return 4
}

// ByName returns all entries matching the given coin name, best match
// first.
func ByName(name string) []Params {
	var res []Params
	for _, c := range Coins {
		if c.matchLevel(name) < 4 {
			res = append(res, c)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].matchLevel(name) < res[j].matchLevel(name)
	})
	return res
}

// ByAddressVersion returns all entries using the given P2PKH version byte.
func ByAddressVersion(ver byte) []Params {
	var res []Params
	for _, c := range Coins {
		if c.AddressVersion == ver {
			res = append(res, c)
		}
	}
	return res
}

// ByWalletVersion returns all entries using the given WIF version byte.
func ByWalletVersion(ver byte) []Params {
	var res []Params
	for _, c := range Coins {
		if c.WalletVersion == ver {
			res = append(res, c)
		}
	}
	return res
}
