package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/taigrr/bear-mcp/internal/config"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the Bear API token stored in the OS keychain",
		Long: `The Bear API token is found in Bear under Help → Advanced → API Token.
A token stored here is used when neither --token nor ` + config.TokenEnv + ` is set.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <token>",
			Short: "Store the API token in the keychain",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.StoreToken(args[0]); err != nil {
					return err
				}
				cmd.Println("token stored in keychain")
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Remove the API token from the keychain",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := config.DeleteToken(); err != nil {
					return err
				}
				cmd.Println("token removed from keychain")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Report whether a token is stored",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, err := config.LookupToken()
				switch {
				case errors.Is(err, config.ErrMissingToken):
					cmd.Println("no token stored")
					return nil
				case err != nil:
					return err
				}
				cmd.Println("token stored in keychain")
				return nil
			},
		},
	)
	return cmd
}
