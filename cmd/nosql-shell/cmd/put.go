package main

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redbco/nosqldb"
	"github.com/redbco/nosqldb/internal/shellclient"
	"github.com/redbco/nosqldb/wire"
)

var (
	putTable     string
	putValueJSON string
	putIfAbsent  bool
	putIfPresent bool
	putMatchHex  string
	putReturnRow bool
)

var putCmd = &cobra.Command{
	Use:   "put",
	Short: "Insert or overwrite a row",
	Long:  `Write a row, supplied as a JSON object, unconditionally or under one of the conditional-put modes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := shellclient.ParseRecordValue(putValueJSON)
		if err != nil {
			return err
		}
		c, err := shellclient.NewClient(connectOpts)
		if err != nil {
			return err
		}
		defer c.Close()

		opts := nosqldb.PutOptions{ReturnRow: putReturnRow}
		ctx := context.Background()

		switch {
		case putIfAbsent:
			r, err := c.PutIfAbsent(ctx, putTable, value, opts)
			if err != nil {
				return err
			}
			return printPutResult(r)
		case putIfPresent:
			r, err := c.PutIfPresent(ctx, putTable, value, opts)
			if err != nil {
				return err
			}
			return printPutResult(r)
		case putMatchHex != "":
			v, err := hex.DecodeString(putMatchHex)
			if err != nil {
				return fmt.Errorf("nosql-shell: --if-version must be hex-encoded: %w", err)
			}
			opts.MatchVersion = v
			r, err := c.PutIfVersion(ctx, putTable, value, opts)
			if err != nil {
				return err
			}
			return printPutResult(r)
		default:
			r, err := c.Put(ctx, putTable, value, opts)
			if err != nil {
				return err
			}
			return printPutResult(r)
		}
	},
}

func printPutResult(r *wire.PutResult) error {
	fmt.Printf("success: %v\n", r.Success)
	if r.Success {
		fmt.Printf("row_version: %s\n", hex.EncodeToString(r.RowVersion))
	} else if r.HasExistingValue {
		fmt.Printf("existing_version: %s\n", hex.EncodeToString(r.ExistingVersion))
	}
	return nil
}

func init() {
	putCmd.Flags().StringVar(&putTable, "table", "", "table name (required)")
	putCmd.Flags().StringVar(&putValueJSON, "value", "", "row value as JSON (required)")
	putCmd.Flags().BoolVar(&putIfAbsent, "if-absent", false, "only insert if the key does not already exist")
	putCmd.Flags().BoolVar(&putIfPresent, "if-present", false, "only overwrite if the key already exists")
	putCmd.Flags().StringVar(&putMatchHex, "if-version", "", "only overwrite if the existing row's version matches (hex-encoded)")
	putCmd.Flags().BoolVar(&putReturnRow, "return-row", false, "return the existing row on a failed conditional put")
	_ = putCmd.MarkFlagRequired("table")
	_ = putCmd.MarkFlagRequired("value")
}
