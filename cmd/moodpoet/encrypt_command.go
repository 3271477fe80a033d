package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"moodpoet/internal/infra/config"
)

func newEncryptCommand() *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:         "encrypt",
		Short:       "Encrypt a credential for the config file",
		Long:        "Encrypts --value with the passphrase in MOODPOET_CONFIG_KEY and prints an enc: value for the config file.",
		Annotations: map[string]string{"skip-config": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			passphrase := os.Getenv("MOODPOET_CONFIG_KEY")
			if passphrase == "" {
				return errors.New("MOODPOET_CONFIG_KEY is not set")
			}
			if value == "" {
				return errors.New("--value is required")
			}
			encrypted, err := config.EncryptValue(value, passphrase)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "enc:"+encrypted)
			return nil
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "Plaintext credential")
	return cmd
}
