package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nahan-app/nahan/internal/config"
	"github.com/nahan-app/nahan/nahan/identity"
)

var configForce bool

func configFile() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFile()
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Save(path, config.Default()); err != nil {
			return err
		}
		fmt.Println(success("configuration written to " + path))
		return nil
	},
}

var configTrustCmd = &cobra.Command{
	Use:   "trust <public key or ID card>",
	Short: "Add a contact to the trusted list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseRecipient(args[0])
		if err != nil {
			return err
		}
		path := configFile()
		c, err := config.Read(path)
		if err != nil {
			return err
		}
		fp := identity.FingerprintOf(key).String()
		if !c.AddContact(identity.EncodeKey(key)) {
			fmt.Println(success(fp + " is already trusted"))
			return nil
		}
		if err := config.Save(path, c); err != nil {
			return err
		}
		fmt.Println(success("trusted " + fp))
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configTrustCmd)
}
