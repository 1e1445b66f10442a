package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vrsandeep/koma-go/internal/util"
)

var minVersion string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), "version:", version)
		if minVersion == "" {
			return nil
		}
		ok, err := util.SatisfiesMinimum(version, minVersion)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("version %s is older than the required %s", version, minVersion)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().StringVar(&minVersion, "check", "", "fail unless the version is at least this one")
	rootCmd.AddCommand(versionCmd)
}
