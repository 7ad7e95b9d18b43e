// Package crack implements the commands around the crack core: cracking a
// set of transactions, decoding one and fetching raw transactions from the
// remote API.
package crack

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/nspcc-dev/txcrack/pkg/chainparams"
	"github.com/nspcc-dev/txcrack/pkg/config"
	"github.com/nspcc-dev/txcrack/pkg/cracker"
	"github.com/nspcc-dev/txcrack/pkg/crypto/keys"
	"github.com/nspcc-dev/txcrack/pkg/database"
	"github.com/nspcc-dev/txcrack/pkg/encoding/address"
	"github.com/nspcc-dev/txcrack/pkg/services/blockchair"
	"github.com/nspcc-dev/txcrack/pkg/txn"
	"github.com/nspcc-dev/txcrack/pkg/util"
)

// txidHexLen distinguishes a txid argument from an inline raw transaction.
const txidHexLen = 64

var commonFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "config, c",
		Usage: "Path to the yaml configuration file",
	},
	cli.StringFlag{
		Name:  "endpoint, e",
		Usage: "Raw transaction API endpoint",
	},
	cli.StringFlag{
		Name:  "cache",
		Usage: "Path to the leveldb directory caching fetched transactions",
	},
	cli.BoolFlag{
		Name:  "debug, d",
		Usage: "Enable debug logging",
	},
}

// NewCommands returns the crack-related commands.
func NewCommands() []cli.Command {
	crackFlags := append([]cli.Flag{
		cli.BoolFlag{
			Name:  "resolve, r",
			Usage: "Fetch spent outputs from the API (needed for segwit inputs)",
		},
		cli.StringFlag{
			Name:  "network, n",
			Usage: "Coin name for address rendering in the report",
		},
	}, commonFlags...)
	return []cli.Command{
		{
			Name:      "crack",
			Usage:     "Check transactions for crackable signatures",
			UsageText: "txcrack crack [options] <txid-or-hex>... (use '-' to read from stdin)",
			Action:    crackTransactions,
			Flags:     crackFlags,
		},
		{
			Name:      "decode",
			Usage:     "Decode a raw transaction and print its structure",
			UsageText: "txcrack decode <txid-or-hex>",
			Action:    decodeTransaction,
			Flags:     commonFlags,
		},
		{
			Name:      "fetch",
			Usage:     "Fetch a raw transaction and print its hex",
			UsageText: "txcrack fetch [options] <txid>...",
			Action:    fetchTransactions,
			Flags:     commonFlags,
		},
	}
}

// env bundles what every command needs: configuration, a logger and the
// API client.
type env struct {
	cfg    config.Config
	log    *zap.Logger
	client *blockchair.Client
	cache  *database.LDB
}

func newEnv(ctx *cli.Context) (*env, error) {
	var (
		e   env
		err error
	)
	if path := ctx.String("config"); path != "" {
		e.cfg, err = config.Load(path)
		if err != nil {
			return nil, cli.NewExitError(err, 1)
		}
	}
	if ctx.Bool("debug") {
		e.cfg.Logger.LogLevel = "debug"
	}
	e.log, err = e.cfg.Logger.NewLogger()
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}

	opts := []blockchair.Option{blockchair.WithEndpoint(e.cfg.Fetcher.Endpoint)}
	if ep := ctx.String("endpoint"); ep != "" {
		opts = append(opts, blockchair.WithEndpoint(ep))
	}
	if e.cfg.Fetcher.TimeoutSeconds > 0 {
		opts = append(opts, blockchair.WithTimeout(time.Duration(e.cfg.Fetcher.TimeoutSeconds)*time.Second))
	}
	cachePath := e.cfg.Fetcher.CachePath
	if p := ctx.String("cache"); p != "" {
		cachePath = p
	}
	if cachePath != "" {
		e.cache, err = database.New(cachePath)
		if err != nil {
			return nil, cli.NewExitError(err, 1)
		}
		opts = append(opts, blockchair.WithCache(e.cache))
	}
	e.client = blockchair.New(e.log, opts...)
	return &e, nil
}

func (e *env) close() {
	if e.cache != nil {
		_ = e.cache.Close()
	}
	_ = e.log.Sync()
}

// params picks the address-rendering network from the flag or config.
func (e *env) params(ctx *cli.Context) chainparams.Params {
	name := ctx.String("network")
	if name == "" {
		name = e.cfg.Network
	}
	if name != "" {
		if found := chainparams.ByName(name); len(found) > 0 {
			return found[0]
		}
	}
	return chainparams.Mainnet
}

// gatherRaw turns command arguments into raw transactions: inline hex is
// decoded, 64-character arguments are treated as txids and fetched, "-"
// reads hex lines from stdin.
func (e *env) gatherRaw(args []string) ([][]byte, error) {
	var res [][]byte
	for _, a := range args {
		if a == "-" {
			sc := bufio.NewScanner(os.Stdin)
			sc.Buffer(make([]byte, 1024*1024), 1024*1024)
			for sc.Scan() {
				line := strings.TrimSpace(sc.Text())
				if line == "" {
					continue
				}
				raw, err := hex.DecodeString(line)
				if err != nil {
					return nil, err
				}
				res = append(res, raw)
			}
			if err := sc.Err(); err != nil {
				return nil, err
			}
			continue
		}
		a = strings.TrimSpace(a)
		if len(a) == txidHexLen {
			id, err := util.Uint256DecodeStringLE(a)
			if err != nil {
				return nil, err
			}
			raw, err := e.client.GetTransaction(id)
			if err != nil {
				return nil, err
			}
			res = append(res, raw)
			continue
		}
		raw, err := hex.DecodeString(a)
		if err != nil {
			return nil, err
		}
		res = append(res, raw)
	}
	return res, nil
}

func crackTransactions(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.NewExitError("at least one transaction required", 1)
	}
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	var resolver cracker.OutputResolver
	if ctx.Bool("resolve") {
		resolver = func(txid util.Uint256, index uint32) (txn.Output, bool) {
			raw, err := e.client.GetTransaction(txid)
			if err != nil {
				e.log.Warn("can't resolve spent output", zap.Stringer("txid", txid), zap.Error(err))
				return txn.Output{}, false
			}
			prev, err := txn.NewTransactionFromBytes(raw)
			if err != nil || int(index) >= len(prev.Outputs) {
				return txn.Output{}, false
			}
			return prev.Outputs[index], true
		}
	}

	c := cracker.New(e.log, resolver)
	raws, err := e.gatherRaw(ctx.Args())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	for _, raw := range raws {
		if err := c.Add(raw); err != nil {
			e.log.Warn("skipping undecodable transaction", zap.Error(err))
		}
	}

	p := e.params(ctx)
	secrets := c.Run()
	for _, s := range secrets {
		fmt.Fprintf(ctx.App.Writer, "txn %s input %d\n", s.TxHash, s.InputIndex)
		fmt.Fprintf(ctx.App.Writer, "  pubkey  %x\n", s.PubKey)
		fmt.Fprintf(ctx.App.Writer, "  address %s\n", address.FromPubKeyBytes(s.PubKey, p))
		fmt.Fprintf(ctx.App.Writer, "  r       %064x\n", s.R)
		fmt.Fprintf(ctx.App.Writer, "  k       %064x\n", s.K)
		fmt.Fprintf(ctx.App.Writer, "  privkey %064x\n", s.X)
		if key, err := keys.NewPrivateKeyFromInt(s.X); err == nil {
			compressed := len(s.PubKey) == 33
			fmt.Fprintf(ctx.App.Writer, "  wif     %s\n", keys.WIFEncode(key, p.WalletVersion, compressed))
		}
	}
	if len(secrets) == 0 {
		fmt.Fprintln(ctx.App.Writer, "nothing recovered")
	}
	return nil
}

func decodeTransaction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("exactly one transaction required", 1)
	}
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	raws, err := e.gatherRaw(ctx.Args())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	for _, raw := range raws {
		t, err := txn.NewTransactionFromBytes(raw)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		dumpTransaction(ctx, t)
	}
	return nil
}

func dumpTransaction(ctx *cli.Context, t *txn.Transaction) {
	w := ctx.App.Writer
	if id, err := t.Hash(); err == nil {
		fmt.Fprintf(w, "txid     %s\n", id)
	}
	fmt.Fprintf(w, "version  %d\n", t.Version)
	for i := range t.Inputs {
		in := &t.Inputs[i]
		fmt.Fprintf(w, "input %d: %s:%d seq=%08x\n", i, in.PrevHash, in.PrevIndex, in.Sequence)
		dumpScript(ctx, in.Script)
		if t.HasWitness() {
			for _, item := range t.Witnesses[i].Stack {
				fmt.Fprintf(w, "  witness %x\n", item)
			}
		}
	}
	for i := range t.Outputs {
		out := &t.Outputs[i]
		fmt.Fprintf(w, "output %d: %d\n", i, out.Value)
		dumpScript(ctx, out.Script)
	}
	fmt.Fprintf(w, "locktime %d\n", t.LockTime)
}

func dumpScript(ctx *cli.Context, s txn.Script) {
	w := ctx.App.Writer
	it := s.Iterate()
	for item, ok := it.Next(); ok; item, ok = it.Next() {
		switch item.Kind {
		case txn.KindData:
			fmt.Fprintf(w, "  data     %x\n", item.Data)
		case txn.KindConstant:
			fmt.Fprintf(w, "  constant %d\n", item.Value)
		default:
			fmt.Fprintf(w, "  opcode   0x%02x\n", item.Value)
		}
	}
}

func fetchTransactions(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.NewExitError("at least one txid required", 1)
	}
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	for _, a := range ctx.Args() {
		id, err := util.Uint256DecodeStringLE(strings.TrimSpace(a))
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		raw, err := e.client.GetTransaction(id)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		fmt.Fprintf(ctx.App.Writer, "%x\n", raw)
	}
	return nil
}
