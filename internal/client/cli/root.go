package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree bound to a. Connection settings
// (-a, -t, -s, -c) are owned by the config package and must be stripped
// from the arguments before they reach cobra.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "gophvault",
		Short:         "GophVault - encrypted personal file storage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		a.newPingCmd(),
		a.newLoginCmd(),
		a.newLogoutCmd(),
		a.newInitCmd(),
		a.newDeleteAccountCmd(),
		a.newVerifyCmd(),
		a.newPasswdCmd(),
		a.newStatusCmd(),
		a.newJobsCmd(),
		a.newUploadCmd(),
		a.newDownloadCmd(),
		a.newLsCmd(),
		a.newRmCmd(),
		a.newGoogleCmd(),
	)
	return root
}
