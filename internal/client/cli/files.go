package cli

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/client/client"
	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/filex"
	"github.com/dmitrijs2005/gophvault/internal/rpc"
	"github.com/spf13/cobra"
)

const defaultMimeType = "application/octet-stream"

func mimeTypeOf(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return defaultMimeType
}

// sealForUpload encrypts data locally and builds the upload request.
func sealForUpload(name string, data []byte, password string) (*rpc.UploadEncryptedRequest, error) {
	env, err := cryptox.Seal(data, password)
	if err != nil {
		return nil, err
	}
	return &rpc.UploadEncryptedRequest{
		FileName:   filepath.Base(name),
		MimeType:   mimeTypeOf(name),
		Ciphertext: env.Ciphertext,
		Nonce:      cryptox.EncodeB64(env.Nonce),
		Salt:       cryptox.EncodeB64(env.Salt),
		AuthTag:    cryptox.EncodeB64(env.AuthTag),
	}, nil
}

func (a *App) newUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path>",
		Short: "Encrypt a file locally and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(data)

			api, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			pw, err := promptPassword(cmd.ErrOrStderr(), "Password: ")
			if err != nil {
				return err
			}

			ctx, cancel := a.callCtx(cmd.Context())
			defer cancel()

			ok, err := api.VerifyPassword(ctx, pw)
			if err != nil {
				return err
			}
			if !ok {
				return client.ErrWrongPassword
			}

			req, err := sealForUpload(path, data, pw)
			if err != nil {
				return err
			}
			f, err := api.UploadEncrypted(ctx, req)
			if err != nil {
				return err
			}

			a.logger.Debug(cmd.Context(), "file uploaded", "file_id", f.ID, "size", f.FileSize)
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s (%s, %d bytes)\n", f.ID, f.FileName, f.FileSize)
			return nil
		},
	}
}

func (a *App) newDownloadCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "download <file-id> [path]",
		Short: "Fetch a file and decrypt it locally",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			pw, err := promptPassword(cmd.ErrOrStderr(), "Password: ")
			if err != nil {
				return err
			}

			ctx, cancel := a.callCtx(cmd.Context())
			defer cancel()

			meta, ciphertext, err := api.Download(ctx, args[0])
			if err != nil {
				return err
			}

			plain, err := cryptox.OpenEncoded(ciphertext, pw, meta.Nonce, meta.Salt)
			if errors.Is(err, common.ErrAuthenticationFailure) {
				return fmt.Errorf("cannot decrypt %s: wrong password or corrupted file", meta.ID)
			}
			if err != nil {
				return err
			}
			defer common.WipeByteArray(plain)

			var target string
			if len(args) == 2 {
				target = args[1]
			} else {
				name, ok := filex.BaseName(meta.FileName)
				if !ok {
					return fmt.Errorf("server sent an unusable file name %q; pass a target path", meta.FileName)
				}
				target = name
			}
			if err := filex.WriteFileAtomic(target, plain, 0o600, force); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d bytes)\n", target, len(plain))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func (a *App) newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List stored files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := a.callCtx(cmd.Context())
			defer cancel()

			files, err := api.ListFiles(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSIZE\tTYPE\tUPDATED")
			for _, f := range files {
				name := f.FileName
				if !f.Stored {
					name += " (not stored)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", f.ID, name, f.FileSize, f.MimeType, f.UpdatedAt.Local().Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
}

func (a *App) newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <file-id>",
		Short: "Delete a stored file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := a.callCtx(cmd.Context())
			defer cancel()

			if err := api.DeleteFile(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
