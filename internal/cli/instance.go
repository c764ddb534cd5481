package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quasar/mccore/internal/config"
	"github.com/quasar/mccore/internal/core"
	"github.com/quasar/mccore/internal/launch"
	"github.com/quasar/mccore/internal/vspec"
)

func newInstanceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instance",
		Short: "Manage game instances",
	}

	var version, loader string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := core.SanitizeName(args[0])
			if name == "" {
				return &core.InvalidNameError{Name: args[0]}
			}
			if version == "" {
				version = "latest"
			}
			resolved, err := app.Versions.ResolveVersionName(cmd.Context(), version)
			if err != nil {
				return err
			}
			inst := &core.Instance{Version: resolved, Loader: loader}
			if err := app.Instance.Create(name, inst); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created instance %q (%s)\n", name, resolved)
			return nil
		},
	}
	create.Flags().StringVar(&version, "version", "latest", "Minecraft version id, or latest/snapshot")
	create.Flags().StringVar(&loader, "loader", "vanilla", "mod loader")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List instances",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, inst := range app.Instance.List() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", inst.Name, inst.Version)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete an instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Instance.Delete(args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <name> <new-name>",
		Short: "Rename an instance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Instance.Rename(args[0], core.SanitizeName(args[1]))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "dir <name>",
		Short: "Print an instance's directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, ok := app.Instance.Get(args[0])
			if !ok {
				return &core.NotFoundError{Kind: "instance", Name: args[0]}
			}
			fmt.Fprintln(cmd.OutOrStdout(), inst.Path)
			return nil
		},
	})

	cmd.AddCommand(newInstanceConfigCommand())
	cmd.AddCommand(newInstanceNativesCommand())
	cmd.AddCommand(newInstanceLaunchCommand())

	return cmd
}

func instanceOverlay(name string) (*config.Overlay, error) {
	return config.NewOverlay(app.Config, app.Instance.OverlayPath(name))
}

func newInstanceConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit an instance's configuration overlay",
	}

	cmd.AddCommand(&cobra.Command{
		Use:  "show <name>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overlay, err := instanceOverlay(args[0])
			if err != nil {
				return err
			}
			for _, key := range []string{"java.path", "java.memory.min", "java.memory.max", "java.jvmargs", "theme"} {
				if v, ok := overlay.Get(key); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", key, v)
				}
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:  "get <name> <key>",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			overlay, err := instanceOverlay(args[0])
			if err != nil {
				return err
			}
			v, ok := overlay.Get(args[1])
			if !ok {
				return &core.NotFoundError{Kind: "config key", Name: args[1]}
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:  "set <name> <key> <value>",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			overlay, err := instanceOverlay(args[0])
			if err != nil {
				return err
			}
			overlay.Set(args[1], args[2])
			return overlay.SaveIfDirty()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:  "delete <name> <key>",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			overlay, err := instanceOverlay(args[0])
			if err != nil {
				return err
			}
			overlay.Delete(args[1])
			return overlay.SaveIfDirty()
		},
	})

	return cmd
}

func newInstanceNativesCommand() *cobra.Command {
	var keep bool
	cmd := &cobra.Command{
		Use:   "natives <name>",
		Short: "Extract an instance's natives for inspection, without launching",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, ok := app.Instance.Get(args[0])
			if !ok {
				return &core.NotFoundError{Kind: "instance", Name: args[0]}
			}

			resolvedID, err := app.Versions.ResolveVersionName(cmd.Context(), inst.Version)
			if err != nil {
				return err
			}
			chain, err := vspec.BuildChain(resolvedID, func(id string) (*core.RawVspec, error) {
				return app.Versions.LoadRawVspec(cmd.Context(), id)
			})
			if err != nil {
				return err
			}
			resolved, err := vspec.Resolve(chain)
			if err != nil {
				return err
			}

			composer := launch.NewComposer(&launch.Options{
				Instance: inst,
				Vspec:    resolved,
				Config:   app.Config,
			}, nil, app.Log)

			cleanup, dir, err := composer.ExtractNatives()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "extracted natives to %s\n", dir)
			if !keep {
				cleanup()
				fmt.Fprintln(cmd.OutOrStdout(), "removed (pass --keep to leave it on disk)")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&keep, "keep", false, "leave the extracted directory on disk instead of cleaning it up")
	return cmd
}
