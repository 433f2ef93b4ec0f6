// Package testserver is an in-process fake speaking the same tagged-binary
// wire protocol as the real service, for driving the dispatcher end to end
// in tests without a real server. Built on net/http/httptest, the
// idiomatic Go way to stand up an in-process fake around a set of
// HTTP handlers for service tests.
//
// The fake models just enough server behavior to exercise the dispatcher's
// own contract: primary-key storage keyed by a row's "id" field (a
// deliberate simplification — production servers derive shard/primary keys
// from the table's declared schema, which this fixture does not model),
// conditional put/delete, a two-step table-creation/drop lifecycle to
// exercise WaitForTableState's poll loop, one-shot throttle and
// unsupported-protocol injection for retry/downgrade tests, and a small
// ORDER-BY-aware paginated query path.
package testserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/redbco/nosqldb/binary"
	"github.com/redbco/nosqldb/types"
	"github.com/redbco/nosqldb/wire"
)

// RecordedRequest is one request the fake observed, kept for assertions
// about retry counts and table routing.
type RecordedRequest struct {
	Opcode wire.Opcode
	TableName string
	Version wire.SerialVersion
}

type storedRow struct {
	value types.FieldValue
	version uint64
	modTime int64
}

type tableEntry struct {
	rows map[string]*storedRow
	state types.TableState
	limits types.TableLimits
	ddl string
}

// Server is a fake data-service endpoint. The zero value is not usable;
// build one with New.
type Server struct {
	mu sync.Mutex
	tables map[string]*tableEntry

	versionSeq atomic.Uint64
	opSeq atomic.Uint64

	forceUnsupportedOnce bool
	throttleRemaining int
	queryPageSize int

	requests []RecordedRequest

	httpServer *httptest.Server
}

// New starts a fake server listening on an in-process loopback address.
// Callers must Close it when done.
func New() *Server {
	s := &Server{
		tables: make(map[string]*tableEntry),
		queryPageSize: 2,
	}
	s.httpServer = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// URL is the base endpoint to pass as config.New's endpoint argument.
func (s *Server) URL() string { return s.httpServer.URL }

// Close shuts down the underlying httptest.Server.
func (s *Server) Close() { s.httpServer.Close() }

// ForceUnsupportedProtocolOnce makes the next request receive the pre-V4
// "unsupported protocol" sentinel byte regardless of opcode, for exercising
// the dispatcher's version-downgrade path.
func (s *Server) ForceUnsupportedProtocolOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forceUnsupportedOnce = true
}

// InjectThrottle makes the next n requests fail with a throttling error
// code, for exercising the dispatcher's retry-with-backoff path.
func (s *Server) InjectThrottle(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.throttleRemaining = n
}

// SetQueryPageSize overrides the number of rows returned per Query batch
// (default 2), for exercising continuation-key paging.
func (s *Server) SetQueryPageSize(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryPageSize = n
}

// Requests returns every request observed so far, in arrival order.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// SetTableState forces a table's lifecycle state directly, bypassing the
// normal create/drop stepping, for tests that only care about a specific
// steady state.
func (s *Server) SetTableState(tableName string, state types.TableState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.tableLocked(tableName)
	e.state = state
}

func (s *Server) tableLocked(tableName string) *tableEntry {
	e, ok := s.tables[tableName]
	if !ok {
		e = &tableEntry{rows: make(map[string]*storedRow)}
		s.tables[tableName] = e
	}
	return e
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	header, payload, err := decodeRequest(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{Opcode: header.Opcode, TableName: header.TableName, Version: header.Version})
	forceUnsupported := s.forceUnsupportedOnce
	s.forceUnsupportedOnce = false
	throttle := !forceUnsupported && s.throttleRemaining > 0
	if throttle {
		s.throttleRemaining--
	}
	s.mu.Unlock()

	if forceUnsupported {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte{24})
		return
	}

	out := binary.NewWriter()
	out.StartComplex(types.TagMap)
	if throttle {
		writeErrorFields(out, 10, "throughput limit exceeded")
	} else {
		s.dispatch(out, header, payload)
	}
	out.EndComplex()

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(withVersionEcho(header.Version, out.Bytes()))
}

func withVersionEcho(v wire.SerialVersion, body []byte) []byte {
	if v >= wire.V4 {
		return body
	}
	prefix := []byte{byte(v >> 8), byte(v)}
	return append(prefix, body...)
}

func writeErrorFields(w *binary.Writer, code int32, exception string) {
	w.WriteFieldName(wire.FErrorCode)
	w.WriteInt(code)
	w.WriteFieldName(wire.FException)
	w.WriteString(exception)
}

type requestHeader struct {
	Version wire.SerialVersion
	TableName string
	Opcode wire.Opcode
	TimeoutMs int32
	TopoSeqNum int32
}

// decodeRequest parses the 2-byte version prefix and the top-level {h,p}
// map, returning the header and a MapReader positioned over the payload
// map's entries (the mirror image of wire.EncodeRequest).
func decodeRequest(body []byte) (requestHeader, *wire.MapReader, error) {
	var h requestHeader
	if len(body) < 2 {
		return h, nil, errShortRequest
	}
	h.Version = wire.SerialVersion(int16(body[0])<<8 | int16(body[1]))
	r := binary.NewReader(body[2:])
	tag, err := r.ReadTag()
	if err != nil {
		return h, nil, err
	}
	top, err := wire.ReadMap(r, tag)
	if err != nil {
		return h, nil, err
	}
	var payload *wire.MapReader
	err = wire.ForEachField(top, "", 0, false, func(name string, tag types.Tag) error {
		switch name {
		case wire.FHeader:
			hmr, err := wire.ReadMap(top.Reader(), tag)
			if err != nil {
				return err
			}
			return wire.ForEachField(hmr, "", 0, false, func(n string, t types.Tag) error {
				switch n {
				case wire.FVersion:
					v, err := hmr.Reader().ReadPackedInt()
					h.Version = wire.SerialVersion(v)
					return err
				case wire.FTableName:
					s, _, err := hmr.Reader().ReadRawString()
					h.TableName = s
					return err
				case wire.FOpcode:
					v, err := hmr.Reader().ReadPackedInt()
					h.Opcode = wire.Opcode(v)
					return err
				case wire.FTimeout:
					v, err := hmr.Reader().ReadPackedInt()
					h.TimeoutMs = v
					return err
				case wire.FTopoSeqNum:
					v, err := hmr.Reader().ReadPackedInt()
					h.TopoSeqNum = v
					return err
				default:
					return hmr.Skip(t)
				}
			})
		case wire.FPayload:
			pmr, err := wire.ReadMap(top.Reader(), tag)
			payload = pmr
			return err
		default:
			return top.Skip(tag)
		}
	})
	return h, payload, err
}

type errString string

func (e errString) Error() string { return string(e) }

const errShortRequest = errString("nosqldb/testserver: request too short for version prefix")

func (s *Server) dispatch(w *binary.Writer, h requestHeader, payload *wire.MapReader) {
	switch h.Opcode {
	case wire.OpGet:
		s.handleGet(w, h.TableName, payload)
	case wire.OpPut, wire.OpPutIfAbsent, wire.OpPutIfPresent, wire.OpPutIfVersion:
		s.handlePut(w, h.Opcode, h.TableName, payload)
	case wire.OpDelete, wire.OpDeleteIfVersion:
		s.handleDelete(w, h.Opcode, h.TableName, payload)
	case wire.OpWriteMultiple:
		s.handleWriteMultiple(w, h.TableName, payload)
	case wire.OpTableRequest:
		s.handleTableRequest(w, h.TableName, payload)
	case wire.OpGetTable:
		s.handleGetTable(w, h.TableName)
	case wire.OpListTables:
		s.handleListTables(w, payload)
	case wire.OpQuery:
		s.handleQuery(w, payload)
	default:
		writeErrorFields(w, 1, "testserver: opcode "+h.Opcode.String()+" not implemented")
	}
}

func rowKey(value types.FieldValue) string {
	if id, ok := value.Get("id"); ok {
		b, err := id.MarshalJSON()
		if err == nil {
			return string(b)
		}
	}
	b, _ := value.MarshalJSON()
	return string(b)
}

func rowVersionToUint64(v types.RowVersion) uint64 {
	var n uint64
	for _, b := range v {
		n = n<<8 | uint64(b)
	}
	return n
}

func writeConsumed(w *binary.Writer, readUnits, writeUnits int32) {
	w.WriteFieldName(wire.FConsumed)
	w.StartMap()
	w.WriteFieldName(wire.FReadUnits)
	w.WriteInt(readUnits)
	w.WriteFieldName(wire.FWriteUnits)
	w.WriteInt(writeUnits)
	w.EndMap()
}

func (s *Server) handleGet(w *binary.Writer, tableName string, payload *wire.MapReader) {
	var key types.FieldValue
	_ = wire.ForEachField(payload, "", 0, false, func(name string, tag types.Tag) error {
		switch name {
		case wire.FKey:
			v, err := payload.DecodeValue(tag)
			key = v
			return err
		default:
			return payload.Skip(tag)
		}
	})

	s.mu.Lock()
	e := s.tableLocked(tableName)
	row, found := e.rows[rowKey(key)]
	s.mu.Unlock()

	if found {
		w.WriteFieldName(wire.FRow)
		_ = wire.EncodeFieldValue(w, row.value)
		w.WriteFieldName(wire.FRowVersion)
		w.WriteBinary(uint64ToRowVersion(row.version))
		w.WriteFieldName(wire.FModificationTime)
		w.WriteLong(row.modTime)
	}
	writeConsumed(w, 1, 0)
}

func uint64ToRowVersion(n uint64) types.RowVersion {
	return types.RowVersion{byte(n >> 56), byte(n >> 48), byte(n >> 40), byte(n >> 32), byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
}

func (s *Server) handlePut(w *binary.Writer, opcode wire.Opcode, tableName string, payload *wire.MapReader) {
	var value types.FieldValue
	var returnRow bool
	var matchVersion types.RowVersion
	_ = wire.ForEachField(payload, "", 0, false, func(name string, tag types.Tag) error {
		switch name {
		case wire.FValue:
			v, err := payload.DecodeValue(tag)
			value = v
			return err
		case wire.FReturnRow:
			v, err := payload.Reader().ReadBoolean()
			returnRow = v
			return err
		case wire.FRowVersion:
			b, _, err := payload.Reader().ReadRawBinary()
			matchVersion = types.RowVersion(b)
			return err
		default:
			return payload.Skip(tag)
		}
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.tableLocked(tableName)
	key := rowKey(value)
	existing, exists := e.rows[key]

	ok := true
	switch opcode {
	case wire.OpPutIfAbsent:
		ok = !exists
	case wire.OpPutIfPresent:
		ok = exists
	case wire.OpPutIfVersion:
		ok = exists && rowVersionToUint64(matchVersion) == existing.version
	}

	w.WriteFieldName(wire.FSuccess)
	w.WriteBoolean(ok)
	if ok {
		n := s.versionSeq.Add(1)
		e.rows[key] = &storedRow{value: value, version: n, modTime: int64(s.opSeq.Add(1))}
		w.WriteFieldName(wire.FRowVersion)
		w.WriteBinary(uint64ToRowVersion(n))
	} else if exists && returnRow {
		w.WriteFieldName(wire.FExistingValue)
		_ = wire.EncodeFieldValue(w, existing.value)
		w.WriteFieldName(wire.FExistingVersion)
		w.WriteBinary(uint64ToRowVersion(existing.version))
	}
	writeConsumed(w, 1, 1)
}

func (s *Server) handleDelete(w *binary.Writer, opcode wire.Opcode, tableName string, payload *wire.MapReader) {
	var key types.FieldValue
	var returnRow bool
	var matchVersion types.RowVersion
	_ = wire.ForEachField(payload, "", 0, false, func(name string, tag types.Tag) error {
		switch name {
		case wire.FKey:
			v, err := payload.DecodeValue(tag)
			key = v
			return err
		case wire.FReturnRow:
			v, err := payload.Reader().ReadBoolean()
			returnRow = v
			return err
		case wire.FRowVersion:
			b, _, err := payload.Reader().ReadRawBinary()
			matchVersion = types.RowVersion(b)
			return err
		default:
			return payload.Skip(tag)
		}
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.tableLocked(tableName)
	k := rowKey(key)
	existing, exists := e.rows[k]

	ok := exists
	if opcode == wire.OpDeleteIfVersion {
		ok = exists && rowVersionToUint64(matchVersion) == existing.version
	}

	w.WriteFieldName(wire.FSuccess)
	w.WriteBoolean(ok)
	if ok {
		delete(e.rows, k)
	} else if exists && returnRow {
		w.WriteFieldName(wire.FExistingValue)
		_ = wire.EncodeFieldValue(w, existing.value)
		w.WriteFieldName(wire.FExistingVersion)
		w.WriteBinary(uint64ToRowVersion(existing.version))
	}
	writeConsumed(w, 1, 1)
}

func (s *Server) handleWriteMultiple(w *binary.Writer, tableName string, payload *wire.MapReader) {
	type subOp struct {
		opcode wire.Opcode
		abort bool
		payload *wire.MapReader
	}
	var ops []subOp

	_ = wire.ForEachField(payload, "", 0, false, func(name string, tag types.Tag) error {
		switch name {
		case wire.FOperations:
			_, count, err := payload.Reader().ComplexHeader()
			if err != nil {
				return err
			}
			for i := int32(0); i < count; i++ {
				subTag, err := payload.Reader().ReadTag()
				if err != nil {
					return err
				}
				submr, err := wire.ReadMap(payload.Reader(), subTag)
				if err != nil {
					return err
				}
				var op subOp
				err = wire.ForEachField(submr, "", 0, false, func(n string, t types.Tag) error {
					switch n {
					case wire.FOpcode:
						v, err := submr.Reader().ReadPackedInt()
						op.opcode = wire.Opcode(v)
						return err
					case wire.FAbortOnFail:
						v, err := submr.Reader().ReadBoolean()
						op.abort = v
						return err
					default:
						return submr.Skip(t)
					}
				})
				if err != nil {
					return err
				}
				op.payload = submr
				ops = append(ops, op)
			}
			return nil
		default:
			return payload.Skip(tag)
		}
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.tableLocked(tableName)

	type applied struct {
		key string
		old *storedRow
		ok bool
	}
	var trail []applied

	abortIdx := -1
	for i, op := range ops {
		var value types.FieldValue
		_ = wire.ForEachField(op.payload, "", 0, false, func(n string, t types.Tag) error {
			switch n {
			case wire.FValue, wire.FKey:
				v, err := op.payload.DecodeValue(t)
				value = v
				return err
			default:
				return op.payload.Skip(t)
			}
		})
		key := rowKey(value)
		existing, exists := e.rows[key]

		ok := true
		switch op.opcode {
		case wire.OpPutIfAbsent:
			ok = !exists
		case wire.OpPutIfPresent:
			ok = exists
		case wire.OpDeleteIfVersion:
			ok = exists
		}

		if !ok && op.abort {
			abortIdx = i
			trail = append(trail, applied{key: key, old: existing, ok: false})
			break
		}

		if op.opcode == wire.OpDelete || op.opcode == wire.OpDeleteIfVersion {
			if ok {
				delete(e.rows, key)
			}
		} else if ok {
			n := s.versionSeq.Add(1)
			e.rows[key] = &storedRow{value: value, version: n}
		}
		trail = append(trail, applied{key: key, old: existing, ok: ok})
	}

	if abortIdx >= 0 {
		for _, a := range trail[:len(trail)-1] {
			if a.old != nil {
				e.rows[a.key] = a.old
			} else {
				delete(e.rows, a.key)
			}
		}
		w.WriteFieldName(wire.FWmFailure)
		w.StartMap()
		w.WriteFieldName(wire.FWmFailIndex)
		w.WriteInt(int32(abortIdx))
		w.WriteFieldName(wire.FWmFailResult)
		w.StartMap()
		w.WriteFieldName(wire.FSuccess)
		w.WriteBoolean(false)
		w.EndMap()
		w.EndMap()
		writeConsumed(w, 0, 0)
		return
	}

	w.WriteFieldName(wire.FWmSuccess)
	w.StartArray()
	for _, a := range trail {
		w.StartMap()
		w.WriteFieldName(wire.FSuccess)
		w.WriteBoolean(a.ok)
		w.EndMap()
	}
	w.EndArray()
	writeConsumed(w, 0, int32(len(trail)))
}

func (s *Server) handleTableRequest(w *binary.Writer, tableName string, payload *wire.MapReader) {
	var statement string
	var limits *types.TableLimits
	_ = wire.ForEachField(payload, "", 0, false, func(name string, tag types.Tag) error {
		switch name {
		case wire.FTableDDL:
			v, _, err := payload.Reader().ReadRawString()
			statement = v
			return err
		case wire.FLimits:
			l, err := wire.ReadTableLimits(payload.Reader(), tag)
			limits = &l
			return err
		default:
			return payload.Skip(tag)
		}
	})

	s.mu.Lock()
	e := s.tableLocked(tableName)
	e.ddl = statement
	if limits != nil {
		e.limits = *limits
	}
	upper := strings.ToUpper(strings.TrimSpace(statement))
	var state types.TableState
	switch {
	case strings.HasPrefix(upper, "DROP"):
		state = types.Dropping
	default:
		state = types.Creating
	}
	e.state = state
	s.mu.Unlock()

	s.writeTableResult(w, tableName, state, limits)
}

// handleGetTable advances a table one lifecycle step per call: Creating ->
// Active, Dropping -> actually removed (reported as TableNotFound), so the
// transitional state reported by the DDL call itself is replaced by the
// final state on the first GetTable.
func (s *Server) handleGetTable(w *binary.Writer, tableName string) {
	s.mu.Lock()
	e, ok := s.tables[tableName]
	if !ok {
		s.mu.Unlock()
		writeErrorFields(w, 20, "table not found: "+tableName)
		return
	}
	switch e.state {
	case types.Creating:
		e.state = types.Active
	case types.Dropping:
		delete(s.tables, tableName)
		s.mu.Unlock()
		writeErrorFields(w, 20, "table not found: "+tableName)
		return
	}
	state := e.state
	limits := e.limits
	s.mu.Unlock()

	s.writeTableResult(w, tableName, state, &limits)
}

func (s *Server) writeTableResult(w *binary.Writer, tableName string, state types.TableState, limits *types.TableLimits) {
	w.WriteFieldName(wire.FTableName)
	w.WriteString(tableName)
	w.WriteFieldName(wire.FTableState)
	w.WriteInt(int32(state))
	if limits != nil {
		w.WriteFieldName(wire.FLimits)
		wire.WriteTableLimits(w, *limits)
	}
}

func (s *Server) handleListTables(w *binary.Writer, payload *wire.MapReader) {
	var start, maxToRead int32
	_ = wire.ForEachField(payload, "", 0, false, func(name string, tag types.Tag) error {
		switch name {
		case wire.FListStartIndex:
			v, err := payload.Reader().ReadPackedInt()
			start = v
			return err
		case wire.FListMaxToRead:
			v, err := payload.Reader().ReadPackedInt()
			maxToRead = v
			return err
		default:
			return payload.Skip(tag)
		}
	})

	s.mu.Lock()
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	s.mu.Unlock()
	sort.Strings(names)

	lo := int(start)
	if lo > len(names) {
		lo = len(names)
	}
	hi := len(names)
	if maxToRead > 0 && lo+int(maxToRead) < hi {
		hi = lo + int(maxToRead)
	}
	page := names[lo:hi]

	w.WriteFieldName(wire.FTables)
	w.StartArray()
	for _, n := range page {
		w.WriteString(n)
	}
	w.EndArray()
	w.WriteFieldName(wire.FLastIndex)
	w.WriteInt(int32(lo + len(page)))
}

// handleQuery implements just enough of "SELECT <fields> FROM <table>
// [ORDER BY <field>]" to drive the paging invariant:
// it sorts the whole table once per request and slices out the next page
// by continuation-key offset, rather than truly executing a query plan.
func (s *Server) handleQuery(w *binary.Writer, payload *wire.MapReader) {
	var statement string
	var contKey []byte
	_ = wire.ForEachField(payload, "", 0, false, func(name string, tag types.Tag) error {
		switch name {
		case wire.FStatement:
			v, _, err := payload.Reader().ReadRawString()
			statement = v
			return err
		case wire.FContinuationKey:
			b, _, err := payload.Reader().ReadRawBinary()
			contKey = b
			return err
		default:
			return payload.Skip(tag)
		}
	})

	tableName, orderBy := parseSimpleSelect(statement)

	s.mu.Lock()
	e := s.tableLocked(tableName)
	rows := make([]types.FieldValue, 0, len(e.rows))
	for _, row := range e.rows {
		rows = append(rows, row.value)
	}
	pageSize := s.queryPageSize
	s.mu.Unlock()

	if orderBy != "" {
		sort.Slice(rows, func(i, j int) bool {
			return fieldLess(rows[i], rows[j], orderBy)
		})
	}

	offset := 0
	if len(contKey) > 0 {
		if v, err := strconv.Atoi(string(contKey)); err == nil {
			offset = v
		}
	}

	end := offset + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	var page []types.FieldValue
	if offset < len(rows) {
		page = rows[offset:end]
	}

	w.WriteFieldName(wire.FQueryResults)
	w.StartArray()
	for _, row := range page {
		_ = wire.EncodeFieldValue(w, row)
	}
	w.EndArray()
	if end < len(rows) {
		w.WriteFieldName(wire.FContinuationKey)
		w.WriteBinary([]byte(strconv.Itoa(end)))
	}
	writeConsumed(w, int32(len(page)), 0)
}

func fieldLess(a, b types.FieldValue, field string) bool {
	av, aok := a.Get(field)
	bv, bok := b.Get(field)
	if !aok || !bok {
		return false
	}
	switch av.Tag() {
	case types.TagString:
		return av.AsString() < bv.AsString()
	case types.TagInteger:
		return av.AsInt() < bv.AsInt()
	case types.TagLong:
		return av.AsLong() < bv.AsLong()
	case types.TagDouble:
		return av.AsDouble() < bv.AsDouble()
	default:
		return false
	}
}

// parseSimpleSelect extracts the table name and optional ORDER BY column
// from a statement shaped like "SELECT... FROM t [ORDER BY f]"; anything
// more elaborate than that is out of scope for this fixture.
func parseSimpleSelect(statement string) (tableName, orderBy string) {
	upper := strings.ToUpper(statement)
	fromIdx := strings.Index(upper, "FROM")
	if fromIdx < 0 {
		return "", ""
	}
	rest := strings.TrimSpace(statement[fromIdx+4:])
	orderIdx := strings.Index(strings.ToUpper(rest), "ORDER BY")
	tablePart := rest
	if orderIdx >= 0 {
		tablePart = rest[:orderIdx]
		orderBy = strings.TrimSpace(rest[orderIdx+len("ORDER BY"):])
		orderBy = strings.Fields(orderBy)[0]
	}
	fields := strings.Fields(tablePart)
	if len(fields) > 0 {
		tableName = fields[0]
	}
	return tableName, orderBy
}
