package main

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redbco/nosqldb"
	"github.com/redbco/nosqldb/internal/shellclient"
)

var (
	deleteTable      string
	deleteKeyJSON    string
	deleteMatchHex   string
	deleteReturnRow  bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete one row by primary key",
	Long:  `Delete a row, unconditionally or only if its version matches --if-version.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := shellclient.ParseFieldValue(deleteKeyJSON)
		if err != nil {
			return err
		}
		c, err := shellclient.NewClient(connectOpts)
		if err != nil {
			return err
		}
		defer c.Close()

		opts := nosqldb.DeleteOptions{ReturnRow: deleteReturnRow}
		ctx := context.Background()

		var success bool
		if deleteMatchHex != "" {
			v, err := hex.DecodeString(deleteMatchHex)
			if err != nil {
				return fmt.Errorf("nosql-shell: --if-version must be hex-encoded: %w", err)
			}
			opts.MatchVersion = v
			r, err := c.DeleteIfVersion(ctx, deleteTable, key, opts)
			if err != nil {
				return err
			}
			success = r.Success
		} else {
			r, err := c.Delete(ctx, deleteTable, key, opts)
			if err != nil {
				return err
			}
			success = r.Success
		}
		fmt.Printf("success: %v\n", success)
		return nil
	},
}

func init() {
	deleteCmd.Flags().StringVar(&deleteTable, "table", "", "table name (required)")
	deleteCmd.Flags().StringVar(&deleteKeyJSON, "key", "", "primary key as JSON (required)")
	deleteCmd.Flags().StringVar(&deleteMatchHex, "if-version", "", "only delete if the existing row's version matches (hex-encoded)")
	deleteCmd.Flags().BoolVar(&deleteReturnRow, "return-row", false, "return the existing row on a failed conditional delete")
	_ = deleteCmd.MarkFlagRequired("table")
	_ = deleteCmd.MarkFlagRequired("key")
}
