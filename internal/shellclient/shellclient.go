// Package shellclient holds the business logic behind nosql-shell's
// subcommands: building a driver client from the resolved connection
// flags, turning CLI-supplied JSON literals into row/key FieldValues,
// and printing results in an aligned tabular form. Keeps the usual
// cmd/internal separation — cmd/ parses flags and wires a call,
// internal/<resource> holds the actual request/response handling and
// output formatting.
package shellclient

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/redbco/nosqldb"
	"github.com/redbco/nosqldb/config"
	"github.com/redbco/nosqldb/types"
)

// ConnectOptions are the resolved persistent flags shared by every
// subcommand.
type ConnectOptions struct {
	Endpoint    string
	Timeout     time.Duration
	Compartment string
}

// NewClient builds a driver Client from opts.
func NewClient(opts ConnectOptions) (*nosqldb.Client, error) {
	cfg := config.New(opts.Endpoint, config.WithDefaultTimeout(opts.Timeout))
	return nosqldb.New(cfg, nosqldb.WithCompartment(opts.Compartment))
}

// ParseFieldValue parses a JSON literal (object, string, number, etc.)
// typed on the command line into a FieldValue, e.g. the argument to
// --key. A JSON object decodes as a Map, matching the PrimaryKey shape.
func ParseFieldValue(jsonLiteral string) (types.FieldValue, error) {
	v, err := types.FromJSON([]byte(jsonLiteral))
	if err != nil {
		return types.FieldValue{}, fmt.Errorf("nosql-shell: %w", err)
	}
	return v, nil
}

// ParseRecordValue parses a JSON object typed on the command line as the
// argument to --value into a Row: the wire protocol requires row values
// to be Records, not Maps, so the top-level object is re-tagged via
// ToRecord after parsing.
func ParseRecordValue(jsonLiteral string) (types.FieldValue, error) {
	v, err := ParseFieldValue(jsonLiteral)
	if err != nil {
		return types.FieldValue{}, err
	}
	return v.ToRecord(), nil
}

// PrintRow writes a single row's JSON form to stdout, or "not found" if
// found is false.
func PrintRow(row types.FieldValue, found bool) error {
	if !found {
		fmt.Println("not found")
		return nil
	}
	return printJSON(row)
}

// PrintRows writes each row of a query result as indented JSON.
func PrintRows(rows []types.FieldValue) error {
	for _, r := range rows {
		if err := printJSON(r); err != nil {
			return err
		}
	}
	return nil
}

func printJSON(v types.FieldValue) error {
	b, err := v.MarshalJSON()
	if err != nil {
		return err
	}
	var buf []byte
	buf, err = json.MarshalIndent(json.RawMessage(b), "", "  ")
	if err != nil {
		_, werr := fmt.Println(string(b))
		return werr
	}
	_, err = fmt.Println(string(buf))
	return err
}

// PrintTableNames writes a page of table names in a simple aligned list.
func PrintTableNames(names []string, lastIndex int32) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, n := range names {
		fmt.Fprintf(w, "%s\n", n)
	}
	w.Flush()
	fmt.Printf("last_index: %d\n", lastIndex)
}

// PrintTableStatus writes a TableRequest/GetTable result as an aligned
// field list.
func PrintTableStatus(tableName string, state types.TableState, limits types.TableLimits) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "table:\t%s\n", tableName)
	fmt.Fprintf(w, "state:\t%s\n", state)
	fmt.Fprintf(w, "limits_mode:\t%v\n", limits.Mode)
	if limits.Mode == types.Provisioned {
		fmt.Fprintf(w, "read_units:\t%d\n", limits.ReadUnits)
		fmt.Fprintf(w, "write_units:\t%d\n", limits.WriteUnits)
	}
	fmt.Fprintf(w, "storage_gb:\t%d\n", limits.StorageGB)
	w.Flush()
}
