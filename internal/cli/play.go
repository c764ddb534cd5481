package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quasar/mccore/internal/core"
	"github.com/quasar/mccore/internal/launch"
	"github.com/quasar/mccore/internal/rules"
	"github.com/quasar/mccore/internal/vspec"
)

func newPlayCommand() *cobra.Command {
	var accountName string
	var verify bool

	cmd := &cobra.Command{
		Use:   "play [version]",
		Short: "Launch a version directly in the persisted \"default\" instance",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version := "latest"
			if len(args) == 1 {
				version = args[0]
			}

			resolvedID, err := app.Versions.ResolveVersionName(cmd.Context(), version)
			if err != nil {
				return err
			}

			inst, err := defaultInstance(resolvedID)
			if err != nil {
				return err
			}
			return runLaunch(cmd.Context(), inst, resolvedID, accountName, verify)
		},
	}

	cmd.Flags().StringVarP(&accountName, "account", "a", "", "account to launch with (defaults to the active account)")
	cmd.Flags().BoolVar(&verify, "verify", false, "re-verify every file's hash before launch")
	return cmd
}

// defaultInstanceName is the instance "play" launches into when no saved
// instance is named explicitly.
const defaultInstanceName = "default"

// defaultInstance gets or creates the single persisted "default" instance
// that "play" launches into, updating its version when it differs from the
// resolved one requested.
func defaultInstance(resolvedID string) (*core.Instance, error) {
	inst, ok := app.Instance.Get(defaultInstanceName)
	if !ok {
		inst = &core.Instance{Version: resolvedID}
		if err := app.Instance.Create(defaultInstanceName, inst); err != nil {
			return nil, err
		}
		return inst, nil
	}

	if inst.Version != resolvedID {
		inst.Version = resolvedID
		if err := app.Instance.Update(inst); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func newInstanceLaunchCommand() *cobra.Command {
	var accountName string
	var versionOverride string
	var verify bool

	cmd := &cobra.Command{
		Use:   "launch <name>",
		Short: "Launch an instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, ok := app.Instance.Get(args[0])
			if !ok {
				return &core.NotFoundError{Kind: "instance", Name: args[0]}
			}

			versionID := inst.Version
			if versionOverride != "" {
				versionID = versionOverride
			}
			resolvedID, err := app.Versions.ResolveVersionName(cmd.Context(), versionID)
			if err != nil {
				return err
			}

			return runLaunch(cmd.Context(), inst, resolvedID, accountName, verify)
		},
	}

	cmd.Flags().StringVarP(&accountName, "account", "a", "", "account to launch with (defaults to the active account)")
	cmd.Flags().StringVar(&versionOverride, "version-override", "", "launch a different version than the instance's own")
	cmd.Flags().BoolVar(&verify, "verify", false, "re-verify every file's hash before launch")
	return cmd
}

func runLaunch(ctx context.Context, inst *core.Instance, versionID, accountName string, verify bool) error {
	chain, err := vspec.BuildChain(versionID, func(id string) (*core.RawVspec, error) {
		return app.Versions.LoadRawVspec(ctx, id)
	})
	if err != nil {
		return err
	}
	resolved, err := vspec.Resolve(chain)
	if err != nil {
		return err
	}

	acc := resolveAccount(accountName)
	if acc != nil && acc.Type != core.AccountTypeOffline && acc.IsExpired() {
		app.Log.Warn("active account's token appears expired; proceeding, launch may fail to authenticate", "account", acc.Name)
	}

	overlay, err := instanceOverlay(inst.Name)
	if err != nil {
		return err
	}

	statusChan := make(chan launch.Status, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for s := range statusChan {
			if s.LogLine != nil {
				fmt.Println(s.LogLine.Text)
				continue
			}
			fmt.Printf("[%s] %s\n", s.Step, s.Message)
		}
	}()

	composer := launch.NewComposer(&launch.Options{
		Instance: inst,
		Vspec:    resolved,
		Account:  acc,
		Verify:   verify,
		Config:   app.Config,
		Overlay:  overlay,
		UpdateLastPlayed: func(name string) error {
			return app.Instance.UpdateLastPlayed(name)
		},
		UpdateInstance: func(i *core.Instance) error {
			return app.Instance.Update(i)
		},
	}, statusChan, app.Log)

	err = composer.Launch(ctx)
	close(statusChan)
	<-done
	return err
}

func resolveAccount(name string) *core.Account {
	if name != "" {
		for _, a := range app.Accounts.Accounts {
			if a.Name == name {
				return a
			}
		}
		return nil
	}
	return app.Accounts.GetActive()
}

// hostDescription is used by the version prepare command to report which
// host platform a library set was resolved for.
func hostDescription() string {
	h := rules.DetectHost()
	return fmt.Sprintf("%s/%s", h.OS, h.Arch)
}
