package main

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-indexer/internal/index/historic"
)

// blockFiles exposes the node's blk*.dat reader as a historic sync source.
type blockFiles struct {
	files *bitcoin.BlockFiles
}

func (f blockFiles) Open(ctx context.Context) (historic.BlockReader, error) {
	return f.files.Open(ctx)
}
