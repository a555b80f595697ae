// Package model defines the standardized chain objects shared by every block source and index.
package model

// Coin names the chain being indexed.
type Coin string

// Network names the network of a coin.
type Network string

var (
	BTC Coin = "BTC"
)

var (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Regtest Network = "regtest"
	Signet  Network = "signet"
)
