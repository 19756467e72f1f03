package availability

import (
	"time"

	"rently/internal/domain/property"
)

type BlockAdded struct {
	BlockID    BlockID
	PropertyID property.PropertyID
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
	At         time.Time
}

func (e BlockAdded) EventName() string     { return "availability.block_added" }
func (e BlockAdded) AggregateID() string   { return string(e.BlockID) }
func (e BlockAdded) OccurredAt() time.Time { return e.At }

type BlockRemoved struct {
	BlockID    BlockID
	PropertyID property.PropertyID
	At         time.Time
}

func (e BlockRemoved) EventName() string     { return "availability.block_removed" }
func (e BlockRemoved) AggregateID() string   { return string(e.BlockID) }
func (e BlockRemoved) OccurredAt() time.Time { return e.At }
