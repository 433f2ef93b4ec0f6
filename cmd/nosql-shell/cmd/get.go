package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/redbco/nosqldb"
	"github.com/redbco/nosqldb/internal/shellclient"
)

var getTable string
var getKeyJSON string
var getAbsolute bool

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Fetch one row by primary key",
	Long:  `Fetch a single row from a table given its primary key, supplied as a JSON object.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := shellclient.ParseFieldValue(getKeyJSON)
		if err != nil {
			return err
		}
		c, err := shellclient.NewClient(connectOpts)
		if err != nil {
			return err
		}
		defer c.Close()

		opts := nosqldb.GetOptions{}
		if getAbsolute {
			opts.Consistency = nosqldb.ConsistencyAbsolute
		}
		res, err := c.Get(context.Background(), getTable, key, opts)
		if err != nil {
			return err
		}
		return shellclient.PrintRow(res.Row, res.Found)
	},
}

func init() {
	getCmd.Flags().StringVar(&getTable, "table", "", "table name (required)")
	getCmd.Flags().StringVar(&getKeyJSON, "key", "", `primary key as JSON, e.g. '{"id":"k1"}' (required)`)
	getCmd.Flags().BoolVar(&getAbsolute, "absolute", false, "require absolute (not eventual) read consistency")
	_ = getCmd.MarkFlagRequired("table")
	_ = getCmd.MarkFlagRequired("key")
}
