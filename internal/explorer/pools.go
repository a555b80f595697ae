package explorer

import (
	"bytes"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/model"
)

// Pool identifies a mining pool by the tags it writes into coinbase scripts or by its payout addresses.
type Pool struct {
	Name      string
	URL       string
	Tags      []string
	Addresses []string
}

// DefaultPools lists coinbase tags of well-known pools.
var DefaultPools = []Pool{
	{Name: "Foundry USA", URL: "https://foundrydigital.com", Tags: []string{"Foundry USA Pool"}},
	{Name: "AntPool", URL: "https://www.antpool.com", Tags: []string{"/AntPool/", "Mined by AntPool"}},
	{Name: "F2Pool", URL: "https://www.f2pool.com", Tags: []string{"/F2Pool/"}},
	{Name: "ViaBTC", URL: "https://viabtc.com", Tags: []string{"/ViaBTC/", "viabtc.com deploy"}},
	{Name: "Binance Pool", URL: "https://pool.binance.com", Tags: []string{"/Binance/", "binance"}},
	{Name: "MARA Pool", URL: "https://mara.com", Tags: []string{"MARA Pool", "/mmpool/"}},
	{Name: "Luxor", URL: "https://mining.luxor.tech", Tags: []string{"/LUXOR/", "Luxor Tech"}},
	{Name: "SlushPool", URL: "https://braiins.com", Tags: []string{"/slush/"}},
}

// matchPool finds the pool that mined a block from its coinbase transaction.
func matchPool(pools []Pool, coinbase *model.Transaction) *Pool {
	if coinbase == nil || !coinbase.IsCoinbase() {
		return nil
	}
	script := coinbase.Inputs[0].ScriptSig
	for i := range pools {
		for _, tag := range pools[i].Tags {
			if tag != "" && bytes.Contains(script, []byte(tag)) {
				return &pools[i]
			}
		}
	}
	for i := range pools {
		for _, addr := range pools[i].Addresses {
			for j := range coinbase.Outputs {
				if coinbase.Outputs[j].Address() == addr {
					return &pools[i]
				}
			}
		}
	}
	return nil
}
