package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/redbco/nosqldb"
	"github.com/redbco/nosqldb/internal/shellclient"
	"github.com/redbco/nosqldb/types"
)

// tableCmd groups the table DDL/admin subcommands.
var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Manage tables",
	Long:  `Commands for creating, dropping, inspecting and listing tables.`,
}

var tableCreateReadUnits, tableCreateWriteUnits, tableCreateStorageGB int

var tableCreateCmd = &cobra.Command{
	Use:   "create [statement]",
	Short: "Submit a CREATE TABLE (or other DDL) statement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := shellclient.NewClient(connectOpts)
		if err != nil {
			return err
		}
		defer c.Close()

		opts := nosqldb.TableDDLOptions{}
		if tableCreateReadUnits > 0 || tableCreateWriteUnits > 0 {
			limits := types.NewProvisionedLimits(tableCreateReadUnits, tableCreateWriteUnits, tableCreateStorageGB)
			opts.Limits = &limits
		}
		res, err := c.TableRequest(context.Background(), "", args[0], opts)
		if err != nil {
			return err
		}
		shellclient.PrintTableStatus(res.TableName, res.State, res.Limits)
		return nil
	},
}

var dropTableName string

var tableDropCmd = &cobra.Command{
	Use:   "drop [table]",
	Short: "Drop a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := shellclient.NewClient(connectOpts)
		if err != nil {
			return err
		}
		defer c.Close()

		res, err := c.TableRequest(context.Background(), args[0], "DROP TABLE "+args[0], nosqldb.TableDDLOptions{})
		if err != nil {
			return err
		}
		shellclient.PrintTableStatus(res.TableName, res.State, res.Limits)
		return nil
	},
}

var tableShowCmd = &cobra.Command{
	Use:   "show [table]",
	Short: "Show a table's current metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := shellclient.NewClient(connectOpts)
		if err != nil {
			return err
		}
		defer c.Close()

		res, err := c.GetTable(context.Background(), args[0], "", 0)
		if err != nil {
			return err
		}
		shellclient.PrintTableStatus(res.TableName, res.State, res.Limits)
		return nil
	},
}

var tableListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every table name",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := shellclient.NewClient(connectOpts)
		if err != nil {
			return err
		}
		defer c.Close()

		names, err := c.ListAllTables(context.Background(), 0)
		if err != nil {
			return err
		}
		shellclient.PrintTableNames(names, int32(len(names)))
		return nil
	},
}

var waitTarget string
var waitTimeout time.Duration
var waitPollDelay time.Duration

var tableWaitCmd = &cobra.Command{
	Use:   "wait [table]",
	Short: "Poll a table until it reaches a target lifecycle state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := shellclient.NewClient(connectOpts)
		if err != nil {
			return err
		}
		defer c.Close()

		target, err := parseTableState(waitTarget)
		if err != nil {
			return err
		}
		res, err := c.WaitForTableState(context.Background(), args[0], target, waitTimeout, waitPollDelay)
		if err != nil {
			return err
		}
		shellclient.PrintTableStatus(res.TableName, res.State, res.Limits)
		return nil
	},
}

func parseTableState(s string) (types.TableState, error) {
	switch s {
	case "active":
		return types.Active, nil
	case "dropped":
		return types.Dropped, nil
	default:
		return 0, &unknownTableStateError{s}
	}
}

type unknownTableStateError struct{ value string }

func (e *unknownTableStateError) Error() string {
	return "nosql-shell: unknown --target table state " + e.value + " (want active or dropped)"
}

func init() {
	tableCreateCmd.Flags().IntVar(&tableCreateReadUnits, "read-units", 0, "provisioned read units")
	tableCreateCmd.Flags().IntVar(&tableCreateWriteUnits, "write-units", 0, "provisioned write units")
	tableCreateCmd.Flags().IntVar(&tableCreateStorageGB, "storage-gb", 0, "provisioned storage, in GB")

	tableWaitCmd.Flags().StringVar(&waitTarget, "target", "active", "target state to wait for: active or dropped")
	tableWaitCmd.Flags().DurationVar(&waitTimeout, "timeout", 60*time.Second, "give up after this long")
	tableWaitCmd.Flags().DurationVar(&waitPollDelay, "poll-delay", 500*time.Millisecond, "delay between polls")

	tableCmd.AddCommand(tableCreateCmd)
	tableCmd.AddCommand(tableDropCmd)
	tableCmd.AddCommand(tableShowCmd)
	tableCmd.AddCommand(tableListCmd)
	tableCmd.AddCommand(tableWaitCmd)
}
