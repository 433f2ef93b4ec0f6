package types

// SyncPolicy controls how a write is made durable on a single replica.
type SyncPolicy int

const (
	SyncWriteNoSync SyncPolicy = iota
	SyncNoSync
	SyncSync
)

// ReplicaAckPolicy controls how many replicas must acknowledge a write.
type ReplicaAckPolicy int

const (
	AckAll ReplicaAckPolicy = iota
	AckNone
	AckSimpleMajority
)

// Durability is the {master_sync, replica_sync, replica_ack} tuple
// describing how aggressively a write is flushed and acknowledged.
type Durability struct {
	MasterSync SyncPolicy
	ReplicaSync SyncPolicy
	ReplicaAck ReplicaAckPolicy
}

// CommitSync: both master and replicas sync to disk before ack, majority ack.
var CommitSync = Durability{MasterSync: SyncSync, ReplicaSync: SyncSync, ReplicaAck: AckSimpleMajority}

// CommitNoSync: neither master nor replicas force a disk sync, majority ack.
var CommitNoSync = Durability{MasterSync: SyncNoSync, ReplicaSync: SyncNoSync, ReplicaAck: AckSimpleMajority}

// CommitWriteNoSync: master writes but does not sync, replicas write-no-sync, majority ack.
var CommitWriteNoSync = Durability{MasterSync: SyncWriteNoSync, ReplicaSync: SyncWriteNoSync, ReplicaAck: AckSimpleMajority}
