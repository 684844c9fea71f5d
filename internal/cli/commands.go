package cli

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/sequelocity-go/sequelocity"
)

const nullText = "NULL"

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

func newScalarCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "scalar SQL",
		Short: "Print the first column of the first row",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command, release, err := newDatabaseCommand(cmd, flags, args)
			defer release()
			if err != nil {
				return err
			}

			value, err := command.ExecuteScalar(cmd.Context())
			if err != nil {
				return err
			}

			if flags.asJSON {
				return writeJSON(cmd.OutOrStdout(), value)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), formatValue(value))

			return err
		},
	}
}

func newQueryCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "query SQL",
		Short: "Print all rows of the last result set",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command, release, err := newDatabaseCommand(cmd, flags, args)
			defer release()
			if err != nil {
				return err
			}

			rows, err := command.ExecuteToDynamicList(cmd.Context())
			if err != nil {
				return err
			}

			if flags.asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}

			return writeTable(cmd.OutOrStdout(), rows)
		},
	}
}

func newExecCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "exec SQL",
		Short: "Execute a statement and print the number of affected rows",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command, release, err := newDatabaseCommand(cmd, flags, args)
			defer release()
			if err != nil {
				return err
			}

			rowsAffected, err := command.ExecuteNonQuery(cmd.Context())
			if err != nil {
				return err
			}

			if flags.asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]int64{"rows_affected": rowsAffected})
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d row(s) affected\n", rowsAffected)

			return err
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := jsonAPI.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

func writeTable(w io.Writer, rows []sequelocity.Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}

	data := pterm.TableData{rows[0].Columns()}
	for _, row := range rows {
		cells := make([]string, 0, row.Len())
		for _, value := range row.Values() {
			cells = append(cells, formatValue(value))
		}

		data = append(data, cells)
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "%s\n(%d rows)\n", table, len(rows))

	return err
}

func formatValue(value any) string {
	if value == nil {
		return nullText
	}

	return fmt.Sprint(value)
}
