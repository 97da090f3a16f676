package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (a *App) newGoogleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "google",
		Short: "Manage the Google Drive connection",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "url",
			Short: "Print the consent URL to open in a browser",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				api, err := a.client(cmd.Context())
				if err != nil {
					return err
				}
				ctx, cancel := a.callCtx(cmd.Context())
				defer cancel()

				url, _, err := api.GoogleAuthURL(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			},
		},
		&cobra.Command{
			Use:   "connect <code>",
			Short: "Exchange the authorization code from the consent page",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				api, err := a.client(cmd.Context())
				if err != nil {
					return err
				}
				ctx, cancel := a.callCtx(cmd.Context())
				defer cancel()

				if err := api.GoogleConnect(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "google drive connected")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show whether Google Drive is connected",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				api, err := a.client(cmd.Context())
				if err != nil {
					return err
				}
				ctx, cancel := a.callCtx(cmd.Context())
				defer cancel()

				st, err := api.GoogleStatus(ctx)
				if err != nil {
					return err
				}
				if !st.Connected {
					fmt.Fprintln(cmd.OutOrStdout(), "not connected")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "connected (token expires %s)\n", st.Expiry.Local().Format(time.DateTime))
				return nil
			},
		},
		&cobra.Command{
			Use:   "disconnect",
			Short: "Forget the stored Google tokens",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				api, err := a.client(cmd.Context())
				if err != nil {
					return err
				}
				ctx, cancel := a.callCtx(cmd.Context())
				defer cancel()

				if err := api.GoogleDisconnect(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "google drive disconnected")
				return nil
			},
		},
	)
	return cmd
}
