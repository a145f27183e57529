package app

import (
	"context"
	"time"

	"chronos/internal/core/model"
	"chronos/internal/core/timekeeper"
	"chronos/internal/storage"
)

const historyTimeout = 2 * time.Second

// sessionCounter records the keeper's current session in the history.
type sessionCounter struct {
	history *storage.History
	keeper  *timekeeper.Keeper
}

func (counter *sessionCounter) IncrementSessionCount() (model.SessionStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()

	config := counter.keeper.Config()
	return counter.history.Record(ctx, storage.SessionRecord{
		ID:          counter.keeper.SessionID(),
		WorkMinutes: config.WorkMinutes(),
		RestMinutes: config.RestMinutes(),
	})
}
