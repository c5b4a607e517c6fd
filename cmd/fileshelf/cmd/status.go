package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the placement state of every mapping entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		set, err := loadMapping(cfg)
		if err != nil {
			return err
		}

		statuses, err := newDispatcher(cfg).Status(cmd.Context(), set)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(statuses))
		for _, s := range statuses {
			file := s.Entry.Filename
			if s.Entry.Malformed() {
				file = fmt.Sprintf("(line %d)", s.Entry.Line)
			}
			rows = append(rows, []string{file, s.Entry.Destination, string(s.State)})
		}
		fmt.Println(renderTable([]string{"FILE", "DESTINATION", "STATE"}, rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
