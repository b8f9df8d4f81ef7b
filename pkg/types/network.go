package types

// Network identifies a chain variant by its one-byte network id.
// The id is embedded in every transaction and selects the bech32
// human-readable part used for transfer addresses.
type Network byte

// Well-known network ids. Devnet deployments pick their own free byte
// (0xab in most tooling); anything that is not mainnet or testnet is
// treated as a devnet.
const (
	Mainnet Network = 0x2a
	Testnet Network = 0x42
	Devnet  Network = 0xab
)

// Transfer address HRP (human-readable part) constants for bech32 encoding.
const (
	MainnetHRP = "cro"
	TestnetHRP = "tcro"
	DevnetHRP  = "dcro"
)

// TransferHRP returns the bech32 HRP for transfer addresses on this network.
func (n Network) TransferHRP() string {
	switch n {
	case Mainnet:
		return MainnetHRP
	case Testnet:
		return TestnetHRP
	default:
		return DevnetHRP
	}
}

// FromTransferHRP returns the network a transfer-address HRP belongs to.
// Unknown HRPs report ok=false.
func FromTransferHRP(hrp string) (Network, bool) {
	switch hrp {
	case MainnetHRP:
		return Mainnet, true
	case TestnetHRP:
		return Testnet, true
	case DevnetHRP:
		// Devnet ids are deployment-specific; 0xab is the conventional one.
		return Devnet, true
	default:
		return 0, false
	}
}

// String returns a human-readable network name.
func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	default:
		return "devnet"
	}
}
