package cmd

import (
	"context"
	"errors"
	"fmt"

	"rules-service/core/dataset"
	"rules-service/core/signing"

	"github.com/spf13/cobra"
)

// signedListCmd prints the stored signed list of a dataset type.
var signedListCmd = &cobra.Command{
	Use:   "signedlist <type>",
	Short: "Print the stored signed list of a dataset type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := dataset.ParseKind(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := a.Snapshots.Get(ctx, kind)
		if errors.Is(err, dataset.ErrNotFound) {
			return fmt.Errorf("no signed list stored for %s", kind)
		}
		if err != nil {
			return err
		}
		return printJSON(map[string]string{
			"type":      string(list.ListType),
			"hash":      list.Hash,
			"signature": list.Signature,
			"raw_data":  list.RawData,
		})
	},
}

// publicKeyCmd prints the signer's public key.
var publicKeyCmd = &cobra.Command{
	Use:   "publickey",
	Short: "Print the base64 DER public key of the configured signer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.Signer == nil {
			return signing.ErrNoSigner
		}
		key, err := a.Signer.PublicKey(ctx)
		if err != nil {
			return err
		}
		fmt.Println(key)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(signedListCmd)
	RootCmd.AddCommand(publicKeyCmd)
}
