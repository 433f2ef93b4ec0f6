package wire

import (
	"encoding/binary"
	"fmt"

	nbinary "github.com/redbco/nosqldb/binary"
	"github.com/redbco/nosqldb/nosqlerr"
	"github.com/redbco/nosqldb/types"
)

// SerialVersion identifies a wire-protocol generation. V4 is
// the newest supported version; V3 is the sole downgrade target.
type SerialVersion int16

const (
	V3 SerialVersion = 3
	V4 SerialVersion = 4
)

// DecrementSerialVersion returns the next-lower supported serial version.
// ok is false once there is nowhere lower to go, meaning the downgrade
// path is exhausted.
func DecrementSerialVersion(v SerialVersion) (SerialVersion, bool) {
	if v == V4 {
		return V3, true
	}
	return v, false
}

// Pre-V4 servers that receive a request newer than they understand respond
// with a bare status byte instead of a tagged-binary map — these are the
// two recognized sentinels for that fallback. Values are this protocol
// family's own; they do not collide with any FieldValue tag byte (0-13).
const (
	sentinelUnsupportedProtocol byte = 24
	sentinelUnsupportedQueryVersion byte = 25
)

// IsUnsupportedProtocolResponse peeks the first byte of a raw response
// buffer and reports whether it is one of the pre-V4 sentinels that signal
// "this server cannot parse your request version".
func IsUnsupportedProtocolResponse(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	return buf[0] == sentinelUnsupportedProtocol || buf[0] == sentinelUnsupportedQueryVersion
}

// Header is the {version, table_name?, opcode, timeout_ms, topo_seq_num}
// map written as every request's "h" entry.
type Header struct {
	Version SerialVersion
	TableName string
	Opcode Opcode
	TimeoutMs int32
	TopoSeqNum int32
}

// EncodeRequest writes the full request: the 2-byte big-endian serial
// version prefix, then the top-level {h,p} map, with
// payload written by encodePayload.
func EncodeRequest(version SerialVersion, h Header, encodePayload func(w *nbinary.Writer) error) ([]byte, error) {
	w := nbinary.NewWriter()
	w.StartComplex(types.TagMap)
	w.WriteFieldName(FHeader)
	writeHeader(w, h)
	w.WriteFieldName(FPayload)
	w.StartComplex(types.TagMap)
	if err := encodePayload(w); err != nil {
		return nil, err
	}
	w.EndComplex()
	w.EndComplex()

	var prefix [2]byte
	binary.BigEndian.PutUint16(prefix[:], uint16(version))
	out := make([]byte, 0, 2+w.Len())
	out = append(out, prefix[:]...)
	out = append(out, w.Bytes()...)
	return out, nil
}

func writeHeader(w *nbinary.Writer, h Header) {
	w.StartComplex(types.TagMap)
	w.WriteFieldName(FVersion)
	w.WriteInt(int32(h.Version))
	if h.TableName != "" {
		w.WriteFieldName(FTableName)
		w.WriteString(h.TableName)
	}
	w.WriteFieldName(FOpcode)
	w.WriteInt(int32(h.Opcode))
	w.WriteFieldName(FTimeout)
	w.WriteInt(h.TimeoutMs)
	w.WriteFieldName(FTopoSeqNum)
	w.WriteInt(h.TopoSeqNum)
	w.EndComplex()
}

// ErrorFields carries the response map's "always parsed first" error
// entries.
type ErrorFields struct {
	ErrorCode int32
	Exception string
}

// HasError reports whether the response signalled a non-zero error code.
func (e ErrorFields) HasError() bool { return e.ErrorCode != 0 }

// DecodeResponseEnvelope parses a raw response buffer into its top-level
// map, skipping the serial-version echo for pre-V4 connections. The returned
// MapReader is positioned at the start of the top-level map's entries;
// the map is flat, so callers read the error fields and the opcode's
// result fields from this same MapReader.
func DecodeResponseEnvelope(buf []byte, version SerialVersion) (*MapReader, *nbinary.Reader, error) {
	body := buf
	if version < V4 {
		if len(body) < 2 {
			return nil, nil, fmt.Errorf("nosqldb/wire: response too short for serial-version echo")
		}
		body = body[2:]
	}
	r := nbinary.NewReader(body)
	tag, err := r.ReadTag()
	if err != nil {
		return nil, nil, err
	}
	if tag != types.TagMap {
		return nil, nil, fmt.Errorf("nosqldb/wire: expected top-level response map, got tag %v", tag)
	}
	mr, err := ReadMap(r, tag)
	if err != nil {
		return nil, nil, err
	}
	return mr, r, nil
}

// ReadErrorFields scans mr for "e"/"x" entries: error fields in the
// response map are always parsed first if present. Any other entries
// encountered are returned unread so the caller's own field
// switch can still see them; ReadErrorFields is meant to be called before
// any opcode-specific field is consumed, so in practice it is the first
// pass over a freshly-opened MapReader and stops at the first field that is
// neither e nor x.
func ReadErrorFields(mr *MapReader) (ErrorFields, string, types.Tag, bool, error) {
	var ef ErrorFields
	for {
		name, tag, done, err := mr.Next()
		if err != nil {
			return ef, "", 0, false, err
		}
		if done {
			return ef, "", 0, false, nil
		}
		switch name {
		case FErrorCode:
			v, err := mr.Reader().ReadPackedInt()
			if err != nil {
				return ef, "", 0, false, err
			}
			ef.ErrorCode = v
		case FException:
			s, _, err := mr.Reader().ReadRawString()
			if err != nil {
				return ef, "", 0, false, err
			}
			ef.Exception = s
		default:
			return ef, name, tag, true, nil
		}
	}
}

// TranslateError maps a non-zero ErrorCode/Exception pair to the driver's
// error-kind taxonomy. The exact code->Kind table is server-defined; this
// is the driver's closed mapping of the codes this protocol family emits.
func TranslateError(op string, ef ErrorFields) error {
	if !ef.HasError() {
		return nil
	}
	kind := classifyErrorCode(ef.ErrorCode)
	return &nosqlerr.Error{Kind: kind, Operation: op, Message: ef.Exception}
}

func classifyErrorCode(code int32) nosqlerr.Kind {
	switch {
	case code == 0:
		return nosqlerr.KindUnknown
	case code >= 1 && code <= 9:
		return nosqlerr.KindIllegalArgument
	case code >= 10 && code <= 19:
		return nosqlerr.KindThrottling
	case code == 20:
		return nosqlerr.KindTableNotFound
	case code == 21:
		return nosqlerr.KindIndexNotFound
	case code == 22:
		return nosqlerr.KindTableExists
	case code == 23:
		return nosqlerr.KindIndexExists
	case code == 24:
		return nosqlerr.KindUnsupportedProtocol
	case code == 26:
		return nosqlerr.KindPreparedStatementInvalid
	case code == 27:
		return nosqlerr.KindRequestSizeLimit
	case code == 28:
		return nosqlerr.KindBatchNumberLimit
	case code >= 30 && code <= 39:
		return nosqlerr.KindInvalidState
	case code >= 40 && code <= 49:
		return nosqlerr.KindAuthInvalid
	default:
		return nosqlerr.KindProtocol
	}
}
