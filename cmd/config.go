package cmd

import (
	"fmt"
	"os"

	"mp3-batch/infrastructure/config"
	"mp3-batch/infrastructure/terminal"

	"github.com/spf13/cobra"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput OutputWriter = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration values",
	Long: `Show or change individual settings in the configuration file.

Examples:
  mp3-batch config list
  mp3-batch config get ffmpeg.path
  mp3-batch config set paths.workspace_directory /srv/mp3`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetConfig()
		if err != nil {
			return err
		}
		return RunConfigListWithDependencies(c, cfgFile, DefaultOutput)
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),

	ValidArgsFunction: completeConfigKey,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetConfig()
		if err != nil {
			return err
		}
		return RunConfigGetWithDependencies(c, cfgFile, args[0], DefaultOutput)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting and save the config file",
	Args:  cobra.ExactArgs(2),

	ValidArgsFunction: completeConfigKey,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetConfig()
		if err != nil {
			return err
		}
		return RunConfigSetWithDependencies(c, cfgFile, args[0], args[1], DefaultOutput)
	},
}

// RunConfigListWithDependencies runs the list command with injected dependencies
func RunConfigListWithDependencies(c *config.Config, configPath string, out OutputWriter) error {
	mgr := config.NewConfigManager(c, configPath)

	rows := [][]string{}
	for _, s := range mgr.List() {
		rows = append(rows, []string{s.Key, s.Value})
	}
	fmt.Fprintln(out, terminal.RenderTable([]string{"KEY", "VALUE"}, rows, nil))
	return nil
}

// RunConfigGetWithDependencies runs the get command with injected dependencies
func RunConfigGetWithDependencies(c *config.Config, configPath, key string, out OutputWriter) error {
	s, err := config.NewConfigManager(c, configPath).Get(key)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, s.Value)
	return nil
}

// RunConfigSetWithDependencies runs the set command with injected dependencies
func RunConfigSetWithDependencies(c *config.Config, configPath, key, value string, out OutputWriter) error {
	mgr := config.NewConfigManager(c, configPath)
	if err := mgr.Set(key, value); err != nil {
		return err
	}
	s, _ := mgr.Get(key)
	fmt.Fprintf(out, "Set %s = %q in %s\n", s.Key, s.Value, configPath)
	return nil
}

// completeConfigKey offers setting names for the first argument
func completeConfigKey(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return config.Keys(), cobra.ShellCompDirectiveNoFileComp
}
