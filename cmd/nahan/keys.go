package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nahan-app/nahan/nahan/identity"
	"github.com/nahan-app/nahan/nahan/keystore"
)

var (
	keygenForce    bool
	keygenMnemonic bool
	keygenRestore  bool

	idName  string
	idCover string
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Create (or restore) your key pair and store it under a passphrase",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfg.KeyFile); err == nil && !keygenForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfg.KeyFile)
		}

		var kp identity.KeyPair
		var err error
		if keygenRestore {
			words, rerr := readInput("-")
			if rerr != nil {
				return rerr
			}
			kp, err = identity.FromMnemonic(strings.TrimSpace(string(words)))
		} else {
			kp, err = identity.GenerateKeyPair()
		}
		if err != nil {
			return err
		}

		passphrase, err := readPassphrase("New passphrase: ")
		if err != nil {
			return err
		}
		if os.Getenv(passphraseEnv) == "" {
			again, err := readPassphrase("Repeat passphrase: ")
			if err != nil {
				return err
			}
			if !bytes.Equal(passphrase, again) {
				return errors.New("passphrases do not match")
			}
		}

		spinner, cleanup := startSpinner("Sealing key...")
		defer cleanup()
		if err := (keystore.Store{}).SaveFile(cfg.KeyFile, kp.PrivateKey, passphrase); err != nil {
			spinner.FinalMSG = failure("Failed to save key: " + err.Error())
			return err
		}
		logger.Info("key stored", slog.String("path", cfg.KeyFile))
		spinner.FinalMSG = success("Key saved to "+color.YellowString(cfg.KeyFile)) +
			"\nFingerprint: " + kp.Fingerprint().String()

		if keygenMnemonic {
			words, err := kp.Mnemonic()
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, words)
		}
		return nil
	},
}

var idCmd = &cobra.Command{
	Use:   "id",
	Short: "Show your public key, fingerprint and shareable ID card",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMessenger()
		if err != nil {
			return err
		}
		if idCover != "" {
			coverText, err := readInput(idCover)
			if err != nil {
				return err
			}
			text, err := m.ShareIdentity(idName, string(coverText))
			if err != nil {
				return err
			}
			fmt.Fprint(os.Stdout, text)
			return nil
		}
		fmt.Fprintf(os.Stdout, "Public key:  %s\nFingerprint: %s\nCard:        %s\n",
			identity.EncodeKey(m.Keys.PublicKey), m.Keys.Fingerprint(), identity.NewCard(idName, m.Keys))
		return nil
	},
}

func init() {
	keygenCmd.Flags().BoolVarP(&keygenForce, "force", "f", false, "overwrite an existing key file")
	keygenCmd.Flags().BoolVar(&keygenMnemonic, "mnemonic", false, "print a 24 word recovery phrase")
	keygenCmd.Flags().BoolVar(&keygenRestore, "restore", false, "restore from a recovery phrase read on stdin")

	idCmd.Flags().StringVarP(&idName, "name", "n", "", "display name on the ID card")
	idCmd.Flags().StringVar(&idCover, "hide-in", "", "hide the ID card in this cover text file")
}
