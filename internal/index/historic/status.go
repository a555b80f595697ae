package historic

import "time"

// State is the orchestrator lifecycle position.
type State string

const (
	StateStarting State = "starting"
	StateSyncing  State = "syncing"
	StateFinished State = "finished"
	StateError    State = "error"
)

// Source names where blocks are read from.
type Source string

const (
	SourceNone Source = ""
	SourceFile Source = "file"
	SourceRPC  Source = "rpc"
)

// Status is a snapshot of sync progress.
type Status struct {
	Status           State
	Height           int64
	BlockChainHeight int64
	SyncPercentage   float64
	Error            string
	Source           Source
	SyncedBlocks     int64
	StartedAt        time.Time
	UpdatedAt        time.Time
}

func percentage(height, nodeHeight int64) float64 {
	if height < 0 {
		return 0
	}
	if nodeHeight <= 0 || height >= nodeHeight {
		return 100
	}
	return float64(height) / float64(nodeHeight) * 100
}
