package types

// LimitsMode distinguishes provisioned vs on-demand table throughput.
type LimitsMode int

const (
	Provisioned LimitsMode = iota
	OnDemand
)

// TableLimits describes a table's configured throughput/storage capacity
//. Child/descendant tables inherit limits from their ancestor;
// that inheritance is resolved by the server and reflected back in
// TableResult, not computed client-side.
type TableLimits struct {
	Mode LimitsMode
	ReadUnits int // meaningful only when Mode == Provisioned
	WriteUnits int // meaningful only when Mode == Provisioned
	StorageGB int
}

// NewProvisionedLimits builds a Provisioned{read_units,write_units,storage_gb} limit set.
func NewProvisionedLimits(readUnits, writeUnits, storageGB int) TableLimits {
	return TableLimits{Mode: Provisioned, ReadUnits: readUnits, WriteUnits: writeUnits, StorageGB: storageGB}
}

// NewOnDemandLimits builds an OnDemand{storage_gb} limit set.
func NewOnDemandLimits(storageGB int) TableLimits {
	return TableLimits{Mode: OnDemand, StorageGB: storageGB}
}
