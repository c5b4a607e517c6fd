package cmd

import (
	"github.com/dstielow/fileshelf/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Creates a fileshelf.yaml with the default layout: the working root is the
config file's directory, the mapping set lives in fileshelf.csv, and run
state (journal, lock) under .fileshelf/. Refuses to overwrite an existing
config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(configPath, config.Default()); err != nil {
			return err
		}
		info("Wrote %s.", configPath)
		info("Edit the rules section or author %s by hand, then run 'fileshelf plan'.", config.DefaultMappingFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
