package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quasar/mccore/internal/core"
	"github.com/quasar/mccore/internal/download"
	"github.com/quasar/mccore/internal/vspec"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Inspect and prepare upstream versions",
	}

	var release, snapshot, all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List known versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filters []core.VersionType
			switch {
			case all:
			case release:
				filters = append(filters, core.VersionTypeRelease)
			case snapshot:
				filters = append(filters, core.VersionTypeSnapshot)
			default:
				filters = append(filters, core.VersionTypeRelease)
			}

			entries, err := app.Versions.List(cmd.Context(), filters...)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", e.ID, e.Type)
			}
			return nil
		},
	}
	list.Flags().BoolVar(&release, "release", false, "only release versions")
	list.Flags().BoolVar(&snapshot, "snapshot", false, "only snapshots")
	list.Flags().BoolVar(&all, "all", false, "every known version")
	cmd.AddCommand(list)

	var verify bool
	prepare := &cobra.Command{
		Use:   "prepare <id>",
		Short: "Resolve a version's inheritance chain and report its libraries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.Versions.ResolveVersionName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			chain, err := vspec.BuildChain(id, func(vid string) (*core.RawVspec, error) {
				return app.Versions.LoadRawVspec(cmd.Context(), vid)
			})
			if err != nil {
				return err
			}
			resolved, err := vspec.Resolve(chain)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: mainClass=%s libraries=%d (host %s)\n",
				resolved.ID, resolved.MainClass, len(resolved.Libraries), hostDescription())
			_ = verify
			return nil
		},
	}
	prepare.Flags().BoolVar(&verify, "verify", false, "has no effect: prepare only resolves the chain and downloads or verifies nothing")
	cmd.AddCommand(prepare)

	var output string
	jar := &cobra.Command{
		Use:   "jar <id> [client|server]",
		Short: "Download a version's client or server jar",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			which := "client"
			if len(args) == 2 {
				which = args[1]
			}

			id, err := app.Versions.ResolveVersionName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			raw, err := app.Versions.LoadRawVspec(cmd.Context(), id)
			if err != nil {
				return err
			}
			if raw.Downloads == nil {
				return &core.NotFoundError{Kind: "jar", Name: id}
			}

			var artifact *core.Artifact
			switch which {
			case "client":
				artifact = raw.Downloads.Client
			case "server":
				artifact = raw.Downloads.Server
			default:
				return fmt.Errorf("unknown jar kind %q", which)
			}
			if artifact == nil {
				return &core.NotFoundError{Kind: which + " jar", Name: id}
			}

			dest := output
			if dest == "" {
				dest = filepath.Join(app.Config.DataDir, "versions", id, fmt.Sprintf("%s-%s.jar", id, which))
			}
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return err
			}

			mgr := download.NewManager(1, app.Log)
			_, err = mgr.Download(cmd.Context(), []download.Item{{
				URL:  artifact.URL,
				Path: dest,
				SHA1: artifact.SHA1,
				Size: artifact.Size,
			}}, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", dest)
			return nil
		},
	}
	jar.Flags().StringVar(&output, "output", "", "destination path")
	cmd.AddCommand(jar)

	return cmd
}
