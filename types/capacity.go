package types

// ConsumedCapacity is additive across continuation calls.
type ConsumedCapacity struct {
	ReadUnits int
	ReadKB int
	WriteUnits int
	WriteKB int
}

// Add accumulates o into the receiver and returns the result, used by the
// query runtime to sum capacity across paginated batches.
func (c ConsumedCapacity) Add(o ConsumedCapacity) ConsumedCapacity {
	return ConsumedCapacity{
		ReadUnits: c.ReadUnits + o.ReadUnits,
		ReadKB: c.ReadKB + o.ReadKB,
		WriteUnits: c.WriteUnits + o.WriteUnits,
		WriteKB: c.WriteKB + o.WriteKB,
	}
}
