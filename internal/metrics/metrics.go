// Package metrics holds the prometheus collectors of the indexer.
package metrics

import "github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"

const namespace = "blockinsight7000"

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// labels holds the coin and network every collector is partitioned by.
type labels struct {
	coin    string
	network string
}

func newLabels(coin model.Coin, network model.Network) labels {
	l := labels{coin: string(coin), network: string(network)}
	if l.coin == "" {
		l.coin = "unknown"
	}
	if l.network == "" {
		l.network = "unknown"
	}
	return l
}
