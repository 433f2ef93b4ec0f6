package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/redbco/nosqldb"
	"github.com/redbco/nosqldb/internal/shellclient"
)

var queryStatement string
var queryLimit int32

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a query statement and print every matching row",
	Long:  `Run a statement and drive its RowIterator to completion, printing each row as indented JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := shellclient.NewClient(connectOpts)
		if err != nil {
			return err
		}
		defer c.Close()

		ctx := context.Background()
		it, err := c.Query(ctx, queryStatement, nosqldb.QueryOptions{Limit: queryLimit})
		if err != nil {
			return err
		}
		for it.Next(ctx) {
			if err := shellclient.PrintRow(it.Row(), true); err != nil {
				return err
			}
		}
		return it.Err()
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryStatement, "statement", "", "query statement (required)")
	queryCmd.Flags().Int32Var(&queryLimit, "limit", 0, "maximum rows per page (0 = server default)")
	_ = queryCmd.MarkFlagRequired("statement")
}
