package wire

import (
	"github.com/redbco/nosqldb/binary"
	"github.com/redbco/nosqldb/types"
)

// PrepareRequest is the payload for opcode Prepare.
type PrepareRequest struct {
	Statement string
	QueryVersion int32
	GetQueryPlan bool // request the human-readable plan string, for diagnostics
}

func (req *PrepareRequest) EncodePayload(w *binary.Writer) error {
	w.WriteFieldName(FStatement)
	w.WriteString(req.Statement)
	w.WriteFieldName(FQueryVersion)
	w.WriteInt(req.QueryVersion)
	if req.GetQueryPlan {
		w.WriteFieldName(FQueryPlanString)
		w.WriteBoolean(true)
	}
	return nil
}

// PrepareResult is the decoded response to Prepare.
type PrepareResult struct {
	Statement *types.PreparedStatement
	QueryPlanString string
	Consumed types.ConsumedCapacity
}

func DecodePrepareResponse(mr *MapReader, firstName string, firstTag types.Tag, hasFirst bool) (*PrepareResult, error) {
	res := &PrepareResult{}
	var proxyBytes []byte
	var driverPlan []byte
	var regCount int32
	var varNames []string

	err := ForEachField(mr, firstName, firstTag, hasFirst, func(name string, tag types.Tag) error {
		switch name {
		case FPreparedStmt:
			b, _, err := mr.Reader().ReadRawBinary()
			proxyBytes = b
			return err
		case FDriverQueryPlan:
			b, _, err := mr.Reader().ReadRawBinary()
			driverPlan = b
			return err
		case FQueryPlanString:
			s, _, err := mr.Reader().ReadRawString()
			res.QueryPlanString = s
			return err
		case "nv": // register count, a.k.a NumVariables in this registry's compact naming
			v, err := mr.Reader().ReadPackedInt()
			regCount = v
			return err
		case "vn": // positional variable names array
			_, count, err := mr.Reader().ComplexHeader()
			if err != nil {
				return err
			}
			varNames = make([]string, 0, count)
			for i := int32(0); i < count; i++ {
				s, _, err := mr.Reader().ReadRawString()
				if err != nil {
					return err
				}
				varNames = append(varNames, s)
			}
			return nil
		case FConsumed:
			c, err := ReadConsumedCapacity(mr.Reader(), tag)
			res.Consumed = c
			return err
		default:
			return mr.Skip(tag)
		}
	})
	if err != nil {
		return nil, err
	}

	ps := types.NewPreparedStatement("", proxyBytes)
	ps.DriverQueryPlan = driverPlan
	ps.RegisterCount = int(regCount)
	ps.VariableNames = varNames
	if ns, tbl, op, _, perr := ParseProxyHeader(proxyBytes); perr == nil {
		ps.Namespace = ns
		ps.TableName = tbl
		ps.OperationCode = op
	}
	res.Statement = ps
	return res, nil
}

// ParseProxyHeader extracts {namespace, table_name, operation_code} from
// the leading sub-header of an opaque ProxyStatement blob — the remainder
// of the blob stays opaque and is returned unparsed as rest.
func ParseProxyHeader(proxy []byte) (namespace, tableName string, opCode int32, rest []byte, err error) {
	r := binary.NewReader(proxy)
	tag, err := r.ReadTag()
	if err != nil {
		return "", "", 0, nil, err
	}
	mr, err := ReadMap(r, tag)
	if err != nil {
		return "", "", 0, nil, err
	}
	err = ForEachField(mr, "", 0, false, func(name string, fieldTag types.Tag) error {
		switch name {
		case FNamespace:
			s, _, e := mr.Reader().ReadRawString()
			namespace = s
			return e
		case FTableName:
			s, _, e := mr.Reader().ReadRawString()
			tableName = s
			return e
		case FQueryOperation:
			v, e := mr.Reader().ReadPackedInt()
			opCode = v
			return e
		default:
			return mr.Skip(fieldTag)
		}
	})
	if err != nil {
		return "", "", 0, nil, err
	}
	rest = proxy[r.Offset():]
	return namespace, tableName, opCode, rest, nil
}

// BuildProxyStatementBytes assembles an opaque ProxyStatement blob with the
// documented sub-header plus an arbitrary opaque payload, used by
// internal/testserver to hand back a realistic Prepare response.
func BuildProxyStatementBytes(namespace, tableName string, opCode int32, opaque []byte) []byte {
	w := binary.NewWriter()
	w.StartMap()
	w.WriteFieldName(FNamespace)
	w.WriteString(namespace)
	w.WriteFieldName(FTableName)
	w.WriteString(tableName)
	w.WriteFieldName(FQueryOperation)
	w.WriteInt(opCode)
	w.EndMap()
	out := w.Bytes()
	return append(out, opaque...)
}
