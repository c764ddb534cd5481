package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quasar/mccore/internal/api"
	"github.com/quasar/mccore/internal/core"
)

func newAccountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage stored accounts",
	}

	var useMicrosoft bool
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := core.SanitizeName(args[0])
			if name == "" {
				return &core.InvalidNameError{Name: args[0]}
			}

			var acc *core.Account
			if useMicrosoft {
				authenticated, err := authenticateMicrosoft(cmd.Context())
				if err != nil {
					return err
				}
				authenticated.Name = name
				acc = authenticated
			} else {
				acc = core.NewOfflineAccount(name)
			}

			app.Accounts.Add(acc)
			if err := app.Accounts.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created account %q (%s)\n", acc.Name, acc.Type)
			return nil
		},
	}
	create.Flags().BoolVar(&useMicrosoft, "microsoft", false, "authenticate via Microsoft device-code flow")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range app.Accounts.Accounts {
				marker := " "
				if a.ID == app.Accounts.ActiveID {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", marker, a.Name, a.Type)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a stored account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var found []*core.Account
			var removedID string
			for _, a := range app.Accounts.Accounts {
				if a.Name == args[0] {
					removedID = a.ID
					continue
				}
				found = append(found, a)
			}
			if removedID == "" {
				return &core.NotFoundError{Kind: "account", Name: args[0]}
			}
			app.Accounts.Accounts = found
			if app.Accounts.ActiveID == removedID {
				app.Accounts.ActiveID = ""
			}
			return app.Accounts.Save()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "setdefault <name>",
		Short: "Set the active account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range app.Accounts.Accounts {
				if a.Name == args[0] {
					if err := app.Accounts.SetActive(a.ID); err != nil {
						return err
					}
					return app.Accounts.Save()
				}
			}
			return &core.NotFoundError{Kind: "account", Name: args[0]}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "refresh <name>",
		Short: "Check whether an account's token can be refreshed (offline: nothing to do; online: re-authentication required)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range app.Accounts.Accounts {
				if a.Name != args[0] {
					continue
				}
				if a.Type == core.AccountTypeOffline {
					return nil
				}
				return &core.RefreshError{Reason: "token refresh requires an interactive re-authentication"}
			}
			return &core.NotFoundError{Kind: "account", Name: args[0]}
		},
	})

	return cmd
}

// authenticateMicrosoft drives the device-code flow end to end and returns
// a populated MSA account. Credential entry itself (the user visiting the
// verification URL) is an external collaborator; this wires the exchange.
func authenticateMicrosoft(ctx context.Context) (*core.Account, error) {
	client := api.NewAuthClient(app.Config.MSAClientID)

	deviceCode, err := client.RequestDeviceCode(ctx)
	if err != nil {
		return nil, &core.AuthenticationError{Reason: err.Error()}
	}
	fmt.Println(deviceCode.Message)

	msaToken, err := client.PollForToken(ctx, deviceCode)
	if err != nil {
		return nil, &core.AuthenticationError{Reason: err.Error()}
	}

	xbox, err := client.AuthenticateXbox(ctx, msaToken.AccessToken)
	if err != nil {
		return nil, &core.AuthenticationError{Reason: err.Error()}
	}
	if len(xbox.DisplayClaims.XUI) == 0 {
		return nil, &core.AuthenticationError{Reason: "xbox live response missing user hash"}
	}
	uhs := xbox.DisplayClaims.XUI[0].UHS

	xsts, err := client.AuthenticateXSTS(ctx, xbox.Token)
	if err != nil {
		return nil, &core.AuthenticationError{Reason: err.Error()}
	}

	mcToken, err := client.LoginWithXbox(ctx, uhs, xsts.Token)
	if err != nil {
		return nil, &core.AuthenticationError{Reason: err.Error()}
	}

	profile, err := client.FetchProfile(ctx, mcToken.AccessToken)
	if err != nil {
		return nil, &core.AuthenticationError{Reason: err.Error()}
	}

	return &core.Account{
		ID:              profile.ID,
		Name:            profile.Name,
		Type:            core.AccountTypeMSA,
		UUID:            profile.ID,
		AccessToken:     mcToken.AccessToken,
		ExpiresAt:       time.Now().Add(time.Duration(mcToken.ExpiresIn) * time.Second),
		MSARefreshToken: msaToken.RefreshToken,
		IsAuthenticated: true,
	}, nil
}
