// Package addr implements the address conversion command: it takes keys,
// hashes and addresses in any common representation and prints every other
// representation of the same material.
package addr

import (
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli"

	"github.com/nspcc-dev/txcrack/pkg/chainparams"
	"github.com/nspcc-dev/txcrack/pkg/crypto/hash"
	"github.com/nspcc-dev/txcrack/pkg/crypto/keys"
	"github.com/nspcc-dev/txcrack/pkg/encoding/address"
	"github.com/nspcc-dev/txcrack/pkg/util"
)

// NewCommands returns the 'convert' command.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:      "convert",
		Usage:     "Convert between representations of keys and addresses",
		UsageText: "txcrack convert [options] <privkey|wif|pubkey|hash|address>...",
		Action:    convert,
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "alt",
				Usage: "Coin name selecting address and wallet version bytes",
			},
			cli.BoolFlag{
				Name:  "lite",
				Usage: "Handle litecoin addresses",
			},
			cli.BoolFlag{
				Name:  "doge",
				Usage: "Handle dogecoin addresses",
			},
			cli.BoolFlag{
				Name:  "privkey",
				Usage: "Treat arguments as hex private keys",
			},
			cli.BoolFlag{
				Name:  "wallet",
				Usage: "Treat arguments as WIF keys",
			},
			cli.BoolFlag{
				Name:  "pubkey",
				Usage: "Treat arguments as hex public keys",
			},
			cli.BoolFlag{
				Name:  "hash",
				Usage: "Treat arguments as hex HASH160 values",
			},
			cli.BoolFlag{
				Name:  "address",
				Usage: "Treat arguments as base58 addresses",
			},
		},
	}}
}

func pickParams(ctx *cli.Context) (chainparams.Params, error) {
	switch {
	case ctx.Bool("lite"):
		return chainparams.Litecoin, nil
	case ctx.Bool("doge"):
		return chainparams.Dogecoin, nil
	case ctx.String("alt") != "":
		found := chainparams.ByName(ctx.String("alt"))
		if len(found) == 0 {
			return chainparams.Params{}, fmt.Errorf("unknown coin %q", ctx.String("alt"))
		}
		fmt.Fprintf(ctx.App.Writer, "Using %s settings\n", found[0].Names)
		return found[0], nil
	default:
		return chainparams.Mainnet, nil
	}
}

func convert(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.NewExitError("nothing to convert", 1)
	}
	p, err := pickParams(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	for _, arg := range ctx.Args() {
		if err := dumpOne(ctx, p, arg); err != nil {
			fmt.Fprintf(ctx.App.Writer, "%s: %s\n", arg, err)
		}
	}
	return nil
}

// dumpOne detects what the argument is and prints everything derivable
// from it. Flags force a specific interpretation.
func dumpOne(ctx *cli.Context, p chainparams.Params, arg string) error {
	w := ctx.App.Writer
	switch {
	case ctx.Bool("privkey"):
		return dumpPrivHex(ctx, p, arg)
	case ctx.Bool("wallet"):
		return dumpWIF(ctx, p, arg)
	case ctx.Bool("pubkey"):
		return dumpPubHex(ctx, p, arg)
	case ctx.Bool("hash"):
		return dumpHash(ctx, p, arg)
	case ctx.Bool("address"):
		return dumpAddress(ctx, p, arg)
	}

	// Auto-detection by shape, most specific first.
	if b, err := hex.DecodeString(arg); err == nil {
		switch len(b) {
		case 32:
			return dumpPrivHex(ctx, p, arg)
		case 33, 65:
			return dumpPubHex(ctx, p, arg)
		case 20:
			return dumpHash(ctx, p, arg)
		}
	}
	if _, err := keys.WIFDecode(arg, 0); err == nil {
		return dumpWIF(ctx, p, arg)
	}
	if _, _, err := address.StringToUint160(arg); err == nil {
		return dumpAddress(ctx, p, arg)
	}
	if _, _, err := address.Bech32ToUint160(arg); err == nil {
		return dumpBech32(ctx, p, arg)
	}
	fmt.Fprintf(w, "%-20s: unrecognized\n", arg)
	return nil
}

func dumpKey(ctx *cli.Context, p chainparams.Params, key *keys.PrivateKey, compressed bool) {
	w := ctx.App.Writer
	fmt.Fprintf(w, "%-20s: %x\n", "privkey", key.Bytes())
	fmt.Fprintf(w, "%-20s: %s\n", "wif", keys.WIFEncode(key, p.WalletVersion, compressed))
	fmt.Fprintf(w, "%-20s: %s\n", "wif uncompressed", keys.WIFEncode(key, p.WalletVersion, false))
	dumpPub(ctx, p, key.PublicKey())
}

func dumpPub(ctx *cli.Context, p chainparams.Params, pub *keys.PublicKey) {
	w := ctx.App.Writer
	fmt.Fprintf(w, "%-20s: %x\n", "compressed", pub.Bytes())
	fmt.Fprintf(w, "%-20s: %x\n", "full", pub.UncompressedBytes())
	printHash160(ctx, p, hash.Hash160(pub.Bytes()), "address")
	printHash160(ctx, p, hash.Hash160(pub.UncompressedBytes()), "address (full key)")
}

func printHash160(ctx *cli.Context, p chainparams.Params, h util.Uint160, label string) {
	w := ctx.App.Writer
	fmt.Fprintf(w, "%-20s: %s\n", label, address.Uint160ToString(h, p))
	if p.HRP != "" {
		fmt.Fprintf(w, "%-20s: %s\n", label+" (segwit)", address.Uint160ToBech32(h, p))
	}
}

func dumpPrivHex(ctx *cli.Context, p chainparams.Params, arg string) error {
	b, err := hex.DecodeString(arg)
	if err != nil {
		return err
	}
	key, err := keys.NewPrivateKeyFromBytes(b)
	if err != nil {
		return err
	}
	dumpKey(ctx, p, key, true)
	return nil
}

func dumpWIF(ctx *cli.Context, p chainparams.Params, arg string) error {
	wif, err := keys.WIFDecode(arg, 0)
	if err != nil {
		return err
	}
	if wif.Version != p.WalletVersion {
		for _, c := range chainparams.ByWalletVersion(wif.Version) {
			fmt.Fprintf(ctx.App.Writer, "%-20s: %s\n", "coin", c.Names)
		}
	}
	dumpKey(ctx, p, wif.PrivateKey, wif.Compressed)
	return nil
}

func dumpPubHex(ctx *cli.Context, p chainparams.Params, arg string) error {
	pub, err := keys.NewPublicKeyFromString(arg)
	if err != nil {
		return err
	}
	dumpPub(ctx, p, pub)
	return nil
}

func dumpHash(ctx *cli.Context, p chainparams.Params, arg string) error {
	b, err := hex.DecodeString(arg)
	if err != nil {
		return err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return err
	}
	printHash160(ctx, p, u, "address")
	return nil
}

func dumpAddress(ctx *cli.Context, p chainparams.Params, arg string) error {
	ver, u, err := address.StringToUint160(arg)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "%-20s: %3d %s\n", u, ver, arg)
	if ver != p.AddressVersion {
		for _, c := range chainparams.ByAddressVersion(ver) {
			fmt.Fprintf(ctx.App.Writer, "%-20s: %s\n", "coin", c.Names)
		}
	}
	return nil
}

func dumpBech32(ctx *cli.Context, p chainparams.Params, arg string) error {
	hrp, u, err := address.Bech32ToUint160(arg)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "%-20s: %s %s\n", u, hrp, arg)
	return nil
}
