package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// newConfigCommand exposes the global configuration file, distinct from
// the per-instance overlay exposed under "instance config".
func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit the global configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the whole configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "dataDir = %s\n", app.Config.DataDir)
			fmt.Fprintf(cmd.OutOrStdout(), "instancesDir = %s\n", app.Config.InstancesDir)
			fmt.Fprintf(cmd.OutOrStdout(), "assetsDir = %s\n", app.Config.AssetsDir)
			fmt.Fprintf(cmd.OutOrStdout(), "librariesDir = %s\n", app.Config.LibrariesDir)
			fmt.Fprintf(cmd.OutOrStdout(), "java.path = %s\n", app.Config.JavaPath)
			fmt.Fprintf(cmd.OutOrStdout(), "java.memory.min = %s\n", app.Config.JavaMemoryMin)
			fmt.Fprintf(cmd.OutOrStdout(), "java.memory.max = %s\n", app.Config.JavaMemoryMax)
			fmt.Fprintf(cmd.OutOrStdout(), "java.jvmargs = %s\n", strings.Join(app.Config.JVMArgs, " "))
			fmt.Fprintf(cmd.OutOrStdout(), "theme = %s\n", app.Config.Theme)
			fmt.Fprintf(cmd.OutOrStdout(), "showSnapshots = %v\n", app.Config.ShowSnapshots)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:  "get <key>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := getConfigKey(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:  "set <key> <value>",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setConfigKey(args[0], args[1]); err != nil {
				return err
			}
			return app.Config.Save()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:  "delete <key>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setConfigKey(args[0], ""); err != nil {
				return err
			}
			return app.Config.Save()
		},
	})

	return cmd
}

func getConfigKey(key string) (string, error) {
	switch key {
	case "java.path":
		return app.Config.JavaPath, nil
	case "java.memory.min":
		return app.Config.JavaMemoryMin, nil
	case "java.memory.max":
		return app.Config.JavaMemoryMax, nil
	case "java.jvmargs":
		return strings.Join(app.Config.JVMArgs, " "), nil
	case "theme":
		return app.Config.Theme, nil
	case "showSnapshots":
		return strconv.FormatBool(app.Config.ShowSnapshots), nil
	case "msaClientID":
		return app.Config.MSAClientID, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

func setConfigKey(key, value string) error {
	switch key {
	case "java.path":
		app.Config.JavaPath = value
	case "java.memory.min":
		app.Config.JavaMemoryMin = value
	case "java.memory.max":
		app.Config.JavaMemoryMax = value
	case "java.jvmargs":
		if value == "" {
			app.Config.JVMArgs = nil
		} else {
			app.Config.JVMArgs = strings.Fields(value)
		}
	case "theme":
		app.Config.Theme = value
	case "showSnapshots":
		if value == "" {
			app.Config.ShowSnapshots = false
			return nil
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("showSnapshots expects a boolean: %w", err)
		}
		app.Config.ShowSnapshots = b
	case "msaClientID":
		app.Config.MSAClientID = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
