package wire

import "testing"

func TestOpcodeStringCoversEveryConstant(t *testing.T) {
	opcodes := []Opcode{
		OpDelete, OpDeleteIfVersion, OpGet, OpPut, OpPutIfAbsent, OpPutIfPresent,
		OpPutIfVersion, OpQuery, OpPrepare, OpWriteMultiple, OpMultiDelete,
		OpGetTable, OpGetIndexes, OpGetTableUsage, OpListTables, OpTableRequest,
		OpScan, OpIndexScan, OpCreateTable, OpSystemRequest, OpSystemStatusRequest,
		OpAddReplica, OpDropReplica, OpGetReplicaStats,
	}
	for _, op := range opcodes {
		if op.String() == "Unknown" {
			t.Errorf("opcode %d has no String() case", op)
		}
	}
}

func TestOpcodeStringUnknownForOutOfRange(t *testing.T) {
	if Opcode(999).String() != "Unknown" {
		t.Fatalf("expected Unknown for an out-of-range opcode, got %q", Opcode(999).String())
	}
}

func TestOpcodeIsReadClassification(t *testing.T) {
	reads := []Opcode{OpGet, OpQuery, OpGetTable, OpGetIndexes, OpGetTableUsage,
		OpListTables, OpSystemStatusRequest, OpGetReplicaStats, OpScan, OpIndexScan}
	for _, op := range reads {
		if !op.IsRead() {
			t.Errorf("expected %v to be a read-class opcode", op)
		}
	}

	writes := []Opcode{OpPut, OpDelete, OpDeleteIfVersion, OpPutIfAbsent, OpPutIfPresent,
		OpPutIfVersion, OpWriteMultiple, OpMultiDelete, OpTableRequest, OpCreateTable,
		OpSystemRequest, OpAddReplica, OpDropReplica, OpPrepare}
	for _, op := range writes {
		if op.IsRead() {
			t.Errorf("expected %v to be a write-class opcode", op)
		}
	}
}
