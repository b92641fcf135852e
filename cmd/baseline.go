package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"schema-sentinel/core/database"
	"schema-sentinel/core/snapshot"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	listJSON   bool
	yesConfirm bool
)

// baselineCmd is the parent command for baseline maintenance.
var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Inspect or reset the stored baseline",
}

var baselineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the entries of the baseline",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup()
		if err != nil {
			return err
		}
		defer rt.Close()

		entries, err := rt.store.FindAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read baseline: %w", err)
		}
		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}
		return printEntries(os.Stdout, entries)
	},
}

var baselineClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the baseline so the next reconcile rebuilds",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup()
		if err != nil {
			return err
		}
		defer rt.Close()

		if !confirmDestructiveAction(os.Stdin, os.Stdout) {
			rt.logger.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
		if err := rt.store.ClearAll(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear baseline: %w", err)
		}
		rt.logger.Info("Baseline cleared", zap.String("backend", rt.cfg.Snapshot.Backend))
		return nil
	},
}

var baselineDescribeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Show the columns of the baseline table (sql backend)",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup()
		if err != nil {
			return err
		}
		defer rt.Close()

		if rt.db == nil {
			return fmt.Errorf("describe requires the sql backend, got %q", rt.cfg.Snapshot.Backend)
		}

		// Reading creates the table when it does not exist yet
		if _, err := rt.store.FindAll(cmd.Context()); err != nil {
			return fmt.Errorf("failed to read baseline: %w", err)
		}

		columns, err := database.GetTableColumns(rt.db, rt.cfg.Snapshot.Table)
		if err != nil {
			return err
		}
		return printColumns(os.Stdout, columns)
	},
}

func init() {
	baselineListCmd.Flags().BoolVar(&listJSON, "json", false, "Print entries as JSON")
	baselineClearCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm (non-interactive)")

	baselineCmd.AddCommand(baselineListCmd, baselineClearCmd, baselineDescribeCmd)
	RootCmd.AddCommand(baselineCmd)
}

func printEntries(w io.Writer, entries []snapshot.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "IDENTITY\tLAST MODIFIED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\n", e.Identity, e.LastModified.Format(time.RFC3339Nano))
	}
	fmt.Fprintf(tw, "\n%d entries\n", len(entries))
	return tw.Flush()
}

func printColumns(w io.Writer, columns []database.ColumnInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tTYPE\tKEY")
	for _, c := range columns {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Field, c.Type, c.Key)
	}
	return tw.Flush()
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction(in io.Reader, out io.Writer) bool {
	if yesConfirm {
		fmt.Fprintln(out, "Auto-confirmed via --yes flag")
		return true
	}

	fmt.Fprint(out, "Type 'yes' to clear the baseline: ")
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
