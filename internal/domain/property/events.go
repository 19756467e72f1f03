package property

import "time"

type StatusChanged struct {
	PropertyID PropertyID
	From       Status
	To         Status
	At         time.Time
}

func (e StatusChanged) EventName() string     { return "property.status_changed" }
func (e StatusChanged) AggregateID() string   { return string(e.PropertyID) }
func (e StatusChanged) OccurredAt() time.Time { return e.At }
