package wire

import (
	"github.com/redbco/nosqldb/binary"
	"github.com/redbco/nosqldb/types"
)

// WriteDurability encodes {master_sync, replica_sync, replica_ack} as a
// nested map under the current field name.
func WriteDurability(w *binary.Writer, d types.Durability) {
	w.StartMap()
	w.WriteFieldName("ms")
	w.WriteInt(int32(d.MasterSync))
	w.WriteFieldName("rs")
	w.WriteInt(int32(d.ReplicaSync))
	w.WriteFieldName("ra")
	w.WriteInt(int32(d.ReplicaAck))
	w.EndMap()
}

// ReadDurability decodes a Durability map whose tag has already been read.
func ReadDurability(r *binary.Reader, tag types.Tag) (types.Durability, error) {
	var d types.Durability
	mr, err := ReadMap(r, tag)
	if err != nil {
		return d, err
	}
	err = ForEachField(mr, "", 0, false, func(name string, fieldTag types.Tag) error {
		switch name {
		case "ms":
			v, err := mr.Reader().ReadPackedInt()
			d.MasterSync = types.SyncPolicy(v)
			return err
		case "rs":
			v, err := mr.Reader().ReadPackedInt()
			d.ReplicaSync = types.SyncPolicy(v)
			return err
		case "ra":
			v, err := mr.Reader().ReadPackedInt()
			d.ReplicaAck = types.ReplicaAckPolicy(v)
			return err
		default:
			return mr.Skip(fieldTag)
		}
	})
	return d, err
}

// WriteTableLimits encodes TableLimits under FLimits.
func WriteTableLimits(w *binary.Writer, l types.TableLimits) {
	w.StartMap()
	w.WriteFieldName(FLimitsMode)
	w.WriteInt(int32(l.Mode))
	if l.Mode == types.Provisioned {
		w.WriteFieldName(FReadUnits)
		w.WriteInt(int32(l.ReadUnits))
		w.WriteFieldName(FWriteUnits)
		w.WriteInt(int32(l.WriteUnits))
	}
	w.WriteFieldName(FStorageGB)
	w.WriteInt(int32(l.StorageGB))
	w.EndMap()
}

// ReadTableLimits decodes a TableLimits map whose tag has already been read.
func ReadTableLimits(r *binary.Reader, tag types.Tag) (types.TableLimits, error) {
	var l types.TableLimits
	mr, err := ReadMap(r, tag)
	if err != nil {
		return l, err
	}
	err = ForEachField(mr, "", 0, false, func(name string, fieldTag types.Tag) error {
		switch name {
		case FLimitsMode:
			v, err := mr.Reader().ReadPackedInt()
			l.Mode = types.LimitsMode(v)
			return err
		case FReadUnits:
			v, err := mr.Reader().ReadPackedInt()
			l.ReadUnits = int(v)
			return err
		case FWriteUnits:
			v, err := mr.Reader().ReadPackedInt()
			l.WriteUnits = int(v)
			return err
		case FStorageGB:
			v, err := mr.Reader().ReadPackedInt()
			l.StorageGB = int(v)
			return err
		default:
			return mr.Skip(fieldTag)
		}
	})
	return l, err
}

// ReadTopologyInfo decodes a TopologyInfo map ({sequence_number, shard_ids}),
// used wherever "tp" appears embedded in a response.
func ReadTopologyInfo(r *binary.Reader, tag types.Tag) (types.TopologyInfo, error) {
	var t types.TopologyInfo
	mr, err := ReadMap(r, tag)
	if err != nil {
		return t, err
	}
	err = ForEachField(mr, "", 0, false, func(name string, fieldTag types.Tag) error {
		switch name {
		case "sq":
			v, err := mr.Reader().ReadPackedInt()
			t.SequenceNumber = v
			return err
		case FShardIDs:
			_, count, err := mr.Reader().ComplexHeader()
			if err != nil {
				return err
			}
			ids := make([]int32, 0, count)
			for i := int32(0); i < count; i++ {
				v, err := mr.Reader().ReadPackedInt()
				if err != nil {
					return err
				}
				ids = append(ids, v)
			}
			t.ShardIDs = ids
			return nil
		default:
			return mr.Skip(fieldTag)
		}
	})
	return t, err
}

// ReadConsumedCapacity decodes a Consumed map ({read_units, read_kb,
// write_units, write_kb}).
func ReadConsumedCapacity(r *binary.Reader, tag types.Tag) (types.ConsumedCapacity, error) {
	var c types.ConsumedCapacity
	mr, err := ReadMap(r, tag)
	if err != nil {
		return c, err
	}
	err = ForEachField(mr, "", 0, false, func(name string, fieldTag types.Tag) error {
		switch name {
		case FReadUnits:
			v, err := mr.Reader().ReadPackedInt()
			c.ReadUnits = int(v)
			return err
		case FReadKB:
			v, err := mr.Reader().ReadPackedInt()
			c.ReadKB = int(v)
			return err
		case FWriteUnits:
			v, err := mr.Reader().ReadPackedInt()
			c.WriteUnits = int(v)
			return err
		case FWriteKB:
			v, err := mr.Reader().ReadPackedInt()
			c.WriteKB = int(v)
			return err
		default:
			return mr.Skip(fieldTag)
		}
	})
	return c, err
}

// WriteFieldValueMap writes v's fields directly into the currently-open
// enclosing map (no extra nesting) — used for Key/Value payload fields
// that are themselves a Map/Record encoded in place under a single field
// name, via EncodeFieldValue.
func WriteFieldValueMap(w *binary.Writer, v types.FieldValue) error {
	return EncodeFieldValue(w, v)
}
