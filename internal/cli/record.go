package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRecordCmd() *cobra.Command {
	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Manage credential records",
	}

	recordCmd.AddCommand(newRecordGetCmd())
	recordCmd.AddCommand(newRecordSetPasswordCmd())
	recordCmd.AddCommand(newRecordClearPasswordCmd())
	recordCmd.AddCommand(newRecordDisableTotpCmd())

	return recordCmd
}

func newRecordGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Show a credential record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Record

			if err := client.Get(recordPath(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRecordSetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-password <name> <password>",
		Short: "Force a new password for a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"password": args[1]}

			if err := client.Put(recordPath(args[0])+"/password", body); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Password updated")
			return nil
		},
	}
}

func newRecordClearPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-password <name>",
		Short: "Clear a record's password (force-unregister)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"password": ""}

			if err := client.Put(recordPath(args[0])+"/password", body); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Password cleared")
			return nil
		},
	}
}

func newRecordDisableTotpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable-totp <name>",
		Short: "Disable two-factor authentication for a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(recordPath(args[0]) + "/totp"); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("TOTP disabled")
			return nil
		},
	}
}

func recordPath(name string) string {
	return fmt.Sprintf("/api/v1/records/%s", name)
}
