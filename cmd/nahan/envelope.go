package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nahan-app/nahan/nahan"
	"github.com/nahan-app/nahan/nahan/crypto"
)

var (
	envTo     string
	envPeer   string
	envInput  string
	envOutput string
	envRaw    bool
)

func writeEnvelope(envelope []byte) error {
	if envRaw {
		return writeOutput(envOutput, envelope)
	}
	return writeOutput(envOutput, armor(envelope))
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Seal a message for one contact",
	RunE: func(cmd *cobra.Command, args []string) error {
		recipient, err := parseRecipient(envTo)
		if err != nil {
			return err
		}
		m, err := newMessenger()
		if err != nil {
			return err
		}
		plaintext, err := readInput(envInput)
		if err != nil {
			return err
		}
		envelope, err := m.Seal(plaintext, recipient)
		if err != nil {
			return err
		}
		logger.Info("message sealed", slog.Int("envelope_bytes", len(envelope)))
		return writeEnvelope(envelope)
	},
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Open an envelope addressed to you (or re-read your own with --peer)",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMessenger()
		if err != nil {
			return err
		}
		envelope, err := readEnvelope(envInput)
		if err != nil {
			return err
		}
		var opts []crypto.DecryptOption
		if envPeer != "" {
			peer, err := parseRecipient(envPeer)
			if err != nil {
				return err
			}
			opts = append(opts, crypto.WithPeerKey(peer))
		}
		msg, err := m.Open(envelope, opts...)
		if err != nil {
			return err
		}
		printMessage(msg)
		return nil
	},
}

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a broadcast message anyone can read",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMessenger()
		if err != nil {
			return err
		}
		message, err := readInput(envInput)
		if err != nil {
			return err
		}
		envelope, err := m.Broadcast(message)
		if err != nil {
			return err
		}
		return writeEnvelope(envelope)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a broadcast against your contacts (no key file needed)",
	RunE: func(cmd *cobra.Command, args []string) error {
		trusted, err := cfg.TrustedKeys()
		if err != nil {
			return err
		}
		envelope, err := readEnvelope(envInput)
		if err != nil {
			return err
		}
		msg, err := nahan.VerifyBroadcast(envelope, trusted)
		if err != nil {
			return err
		}
		printMessage(msg)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{encryptCmd, decryptCmd, signCmd, verifyCmd} {
		c.Flags().StringVarP(&envInput, "in", "i", "-", "input file")
	}
	for _, c := range []*cobra.Command{encryptCmd, signCmd} {
		c.Flags().StringVarP(&envOutput, "out", "o", "-", "output file")
		c.Flags().BoolVar(&envRaw, "raw", false, "write binary envelopes instead of base64")
	}
	encryptCmd.Flags().StringVarP(&envTo, "to", "t", "", "recipient public key or ID card")
	decryptCmd.Flags().StringVar(&envPeer, "peer", "", "open against this peer key instead of the embedded sender")
}
