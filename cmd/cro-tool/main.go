// cro-tool is a command-line client for the CRO transaction engine:
// wallet and address management, transaction building and signing, fee
// estimation, and node queries.
package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/cro-chain/cro-client/internal/hdwallet"
	"github.com/cro-chain/cro-client/internal/log"
	"github.com/cro-chain/cro-client/internal/rpcclient"
	"github.com/cro-chain/cro-client/pkg/address"
	"github.com/cro-chain/cro-client/pkg/tx"
	"github.com/cro-chain/cro-client/pkg/types"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	globals, args := parseGlobals(os.Args[1:])

	log.Init(globals.logLevel, false)
	network := parseNetwork(globals.network)

	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	client := rpcclient.New(globals.rpcURL)
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "wallet":
		cmdWallet(cmdArgs, network)
	case "address":
		cmdAddress(cmdArgs, network)
	case "transfer":
		cmdTransfer(cmdArgs, network)
	case "fee":
		cmdFee(cmdArgs)
	case "staking":
		cmdStaking(client, cmdArgs, network)
	case "broadcast":
		cmdBroadcast(client, cmdArgs)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

// globalFlags are the options accepted before the subcommand.
type globalFlags struct {
	rpcURL   string
	network  string
	logLevel string
}

// parseGlobals scans flags off the front of args, in both the
// space-separated and =-joined forms, and returns the remainder
// starting at the subcommand.
func parseGlobals(args []string) (globalFlags, []string) {
	globals := globalFlags{
		rpcURL:   "ws://127.0.0.1:26657/websocket",
		network:  "mainnet",
		logLevel: "info",
	}
	for len(args) > 0 {
		switch {
		case args[0] == "--rpc" && len(args) > 1:
			globals.rpcURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--rpc="):
			globals.rpcURL = args[0][len("--rpc="):]
			args = args[1:]
		case args[0] == "--network" && len(args) > 1:
			globals.network = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			globals.network = args[0][len("--network="):]
			args = args[1:]
		case args[0] == "--log-level" && len(args) > 1:
			globals.logLevel = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--log-level="):
			globals.logLevel = args[0][len("--log-level="):]
			args = args[1:]
		default:
			return globals, args
		}
	}
	return globals, args
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: cro-tool [global flags] <command> [flags]

Global flags:
  --rpc <url>         Node endpoint (default: ws://127.0.0.1:26657/websocket)
  --network <net>     mainnet (default), testnet, or devnet
  --log-level <lvl>   debug, info, warn, error (default: info)

Commands:
  wallet create                   Create a wallet; prints the mnemonic once
  wallet address --type <t> --index <i>
                                  Derive an address from a mnemonic
                                  (type: staking, transfer, viewkey)

  address create --type <t>       Generate a standalone keypair
  address restore --type <t>      Restore from a hex private key (prompted)

  transfer --utxo <txid:index:carson> --from-key <hex> --to <bech32> --amount <carson>
                                  Build and sign a 1-in transfer

  fee estimate --constant <d> --coefficient <d> --size <bytes> [--encrypted]
                                  Estimate a linear fee

  staking state <0x-address>      Show bonded/unbonded amounts and nonce
  staking unbond --key <hex> --to <0x-address> --amount <carson> --nonce <n>
                                  Build and sign an unbond transaction

  broadcast <hex-payload>         Submit a finished payload to the node
`)
}

func parseNetwork(name string) types.Network {
	switch name {
	case "mainnet":
		return types.Mainnet
	case "testnet":
		return types.Testnet
	case "devnet":
		return types.Devnet
	default:
		fatal("unknown network %q (mainnet, testnet, devnet)", name)
		return 0
	}
}

// ── wallet ──────────────────────────────────────────────────────────────

func cmdWallet(args []string, network types.Network) {
	if len(args) < 1 {
		fatal("Usage: cro-tool wallet <create|address>")
	}
	switch args[0] {
	case "create":
		_, mnemonic, err := hdwallet.Generate()
		if err != nil {
			fatal("create wallet: %v", err)
		}
		fmt.Println("Write this mnemonic down; it is shown exactly once:")
		fmt.Println()
		fmt.Println("  " + mnemonic)
	case "address":
		kind, index := parseDeriveFlags(args[1:])
		mnemonic := promptHidden("Mnemonic: ")
		wallet, err := hdwallet.Restore(strings.TrimSpace(string(mnemonic)))
		if err != nil {
			fatal("restore wallet: %v", err)
		}
		addr, err := deriveByKind(wallet, kind, network, index)
		if err != nil {
			fatal("derive: %v", err)
		}
		printed, err := addr.Printed(network)
		if err != nil {
			fatal("print address: %v", err)
		}
		fmt.Printf("%s[%d]: %s\n", kind, index, printed)
	default:
		fatal("Usage: cro-tool wallet <create|address>")
	}
}

func parseDeriveFlags(args []string) (address.Kind, uint32) {
	kind := address.Transfer
	index := uint32(0)
	for i := 0; i+1 < len(args); i += 2 {
		switch args[i] {
		case "--type":
			kind = parseKind(args[i+1])
		case "--index":
			v, err := strconv.ParseUint(args[i+1], 10, 32)
			if err != nil {
				fatal("invalid index %q", args[i+1])
			}
			index = uint32(v)
		}
	}
	return kind, index
}

func parseKind(s string) address.Kind {
	switch s {
	case "staking":
		return address.Staking
	case "transfer":
		return address.Transfer
	case "viewkey":
		return address.Viewkey
	default:
		fatal("unknown address type %q (staking, transfer, viewkey)", s)
		return 0
	}
}

func deriveByKind(w *hdwallet.Wallet, kind address.Kind, network types.Network, index uint32) (*address.Address, error) {
	switch kind {
	case address.Staking:
		return w.StakingAddress(network, index)
	case address.Viewkey:
		return w.Viewkey(network, index)
	default:
		return w.TransferAddress(network, index)
	}
}

// ── address ─────────────────────────────────────────────────────────────

func cmdAddress(args []string, network types.Network) {
	if len(args) < 1 {
		fatal("Usage: cro-tool address <create|restore> --type <t>")
	}

	kind := address.Transfer
	for i := 1; i+1 < len(args); i += 2 {
		if args[i] == "--type" {
			kind = parseKind(args[i+1])
		}
	}

	var addr *address.Address
	var err error
	switch args[0] {
	case "create":
		addr, err = address.New(kind)
		if err != nil {
			fatal("create address: %v", err)
		}
		fmt.Printf("private key: %s\n", hex.EncodeToString(addr.ExportPrivate()))
	case "restore":
		raw, decErr := hex.DecodeString(strings.TrimSpace(string(promptHidden("Private key (hex): "))))
		if decErr != nil {
			fatal("invalid private key hex: %v", decErr)
		}
		addr, err = address.Restore(kind, raw)
		if err != nil {
			fatal("restore address: %v", err)
		}
	default:
		fatal("Usage: cro-tool address <create|restore> --type <t>")
	}

	printed, err := addr.Printed(network)
	if err != nil {
		fatal("print address: %v", err)
	}
	fmt.Printf("%s address: %s\n", kind, printed)
}

// ── transfer ────────────────────────────────────────────────────────────

func cmdTransfer(args []string, network types.Network) {
	var utxo, fromKey, to string
	var amount uint64
	for i := 0; i+1 < len(args); i += 2 {
		switch args[i] {
		case "--utxo":
			utxo = args[i+1]
		case "--from-key":
			fromKey = args[i+1]
		case "--to":
			to = args[i+1]
		case "--amount":
			v, err := strconv.ParseUint(args[i+1], 10, 64)
			if err != nil {
				fatal("invalid amount %q", args[i+1])
			}
			amount = v
		}
	}
	if utxo == "" || fromKey == "" || to == "" || amount == 0 {
		fatal("Usage: cro-tool transfer --utxo <txid:index:carson> --from-key <hex> --to <bech32> --amount <carson>")
	}

	parts := strings.Split(utxo, ":")
	if len(parts) != 3 {
		fatal("utxo must be txid:index:carson")
	}
	index, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		fatal("invalid utxo index %q", parts[1])
	}
	value, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		fatal("invalid utxo value %q", parts[2])
	}

	raw, err := hex.DecodeString(fromKey)
	if err != nil {
		fatal("invalid from-key hex: %v", err)
	}
	signer, err := address.Restore(address.Transfer, raw)
	if err != nil {
		fatal("restore key: %v", err)
	}
	spendAddr, err := signer.Printed(network)
	if err != nil {
		fatal("derive spend address: %v", err)
	}

	t := tx.NewTransfer(network)
	if err := t.AddInput(parts[0], uint16(index), spendAddr, types.Coin(value)); err != nil {
		fatal("add input: %v", err)
	}
	if err := t.AddOutput(to, types.Coin(amount)); err != nil {
		fatal("add output: %v", err)
	}
	if err := t.SignInput(signer, 0); err != nil {
		fatal("sign: %v", err)
	}
	payload, err := t.Finalize()
	if err != nil {
		fatal("finalize: %v", err)
	}
	fmt.Println(hex.EncodeToString(payload))
}

// ── fee ─────────────────────────────────────────────────────────────────

func cmdFee(args []string) {
	if len(args) < 1 || args[0] != "estimate" {
		fatal("Usage: cro-tool fee estimate --constant <d> --coefficient <d> --size <bytes> [--encrypted]")
	}

	constant, coefficient := "0.0", "0.0"
	var size uint64
	encrypted := false
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "--constant":
			i++
			constant = rest[i]
		case "--coefficient":
			i++
			coefficient = rest[i]
		case "--size":
			i++
			v, err := strconv.ParseUint(rest[i], 10, 32)
			if err != nil {
				fatal("invalid size %q", rest[i])
			}
			size = v
		case "--encrypted":
			encrypted = true
		}
	}

	fee, err := tx.NewLinearFee(constant, coefficient)
	if err != nil {
		fatal("fee schedule: %v", err)
	}
	var estimate types.Coin
	if encrypted {
		estimate = fee.EstimateAfterEncrypt(uint32(size))
	} else {
		estimate = fee.Estimate(uint32(size))
	}
	fmt.Printf("%d carson (%s CRO)\n", uint64(estimate), estimate)
}

// ── staking ─────────────────────────────────────────────────────────────

func cmdStaking(client *rpcclient.Client, args []string, network types.Network) {
	if len(args) < 1 {
		fatal("Usage: cro-tool staking <state|unbond> ...")
	}
	switch args[0] {
	case "state":
		if len(args) < 2 {
			fatal("Usage: cro-tool staking state <0x-address>")
		}
		state, err := client.GetStakedState(args[1])
		if err != nil {
			fatal("staking state: %v", err)
		}
		fmt.Printf("Nonce:         %d\n", state.Nonce)
		fmt.Printf("Bonded:        %s CRO\n", state.Bonded)
		fmt.Printf("Unbonded:      %s CRO\n", state.Unbonded)
		fmt.Printf("Unbonded from: %d\n", state.UnbondedFrom)
	case "unbond":
		var key, to string
		var amount, nonce uint64
		rest := args[1:]
		for i := 0; i+1 < len(rest); i += 2 {
			switch rest[i] {
			case "--key":
				key = rest[i+1]
			case "--to":
				to = rest[i+1]
			case "--amount":
				v, err := strconv.ParseUint(rest[i+1], 10, 64)
				if err != nil {
					fatal("invalid amount %q", rest[i+1])
				}
				amount = v
			case "--nonce":
				v, err := strconv.ParseUint(rest[i+1], 10, 64)
				if err != nil {
					fatal("invalid nonce %q", rest[i+1])
				}
				nonce = v
			}
		}
		raw, err := hex.DecodeString(key)
		if err != nil {
			fatal("invalid key hex: %v", err)
		}
		from, err := address.Restore(address.Staking, raw)
		if err != nil {
			fatal("restore key: %v", err)
		}
		payload, err := tx.BuildUnbond(network, nonce, from, to, types.Coin(amount))
		if err != nil {
			fatal("build unbond: %v", err)
		}
		fmt.Println(hex.EncodeToString(payload))
	default:
		fatal("Usage: cro-tool staking <state|unbond> ...")
	}
}

// ── broadcast ───────────────────────────────────────────────────────────

func cmdBroadcast(client *rpcclient.Client, args []string) {
	if len(args) < 1 {
		fatal("Usage: cro-tool broadcast <hex-payload>")
	}
	payload, err := hex.DecodeString(args[0])
	if err != nil {
		// Accept base64 as a convenience for payloads out of other tools.
		payload, err = base64.StdEncoding.DecodeString(args[0])
		if err != nil {
			fatal("payload is neither hex nor base64")
		}
	}
	if err := client.Broadcast(payload); err != nil {
		fatal("broadcast: %v", err)
	}
	fmt.Println("accepted")
}

// ── input helpers ───────────────────────────────────────────────────────

func promptHidden(prompt string) []byte {
	fmt.Fprint(os.Stderr, prompt)
	value, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		fatal("read input: %v", err)
	}
	return value
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
