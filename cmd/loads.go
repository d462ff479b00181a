package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var loadsCmd = &cobra.Command{
	Use:   "loads",
	Short: "Show index load history",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		runs, err := st.ListLoads(ctx)
		if err != nil {
			return eris.Wrap(err, "loads: list")
		}

		if len(runs) == 0 {
			fmt.Println("No index loads yet")
			return nil
		}

		fmt.Printf("%-36s %10s %-20s %s\n", "ID", "Blocks", "Loaded At", "Source")
		for _, r := range runs {
			fmt.Printf("%-36s %10d %-20s %s\n",
				r.ID, r.Blocks, r.LoadedAt.Format("2006-01-02 15:04"), r.Source)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadsCmd)
}
