package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Actual version can be specified in build command.
var version = "unknown"

type buildInfo struct {
	App       string `json:"app"`
	Version   string `json:"version"`
	GoVersion string `json:"go"`
	Platform  string `json:"platform"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := buildInfo{
			App:       app,
			Version:   version,
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		}

		if viper.GetBool("json") {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(info)
		}

		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s (%s %s)\n", info.App, info.Version, info.GoVersion, info.Platform)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
