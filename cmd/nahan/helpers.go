package main

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/nahan-app/nahan/nahan"
	"github.com/nahan-app/nahan/nahan/identity"
	"github.com/nahan-app/nahan/nahan/keystore"
	"github.com/nahan-app/nahan/nahan/stego/cover"
)

const passphraseEnv = "NAHAN_PASSPHRASE"

// readPassphrase takes NAHAN_PASSPHRASE when set, otherwise prompts on the
// terminal without echo.
func readPassphrase(prompt string) ([]byte, error) {
	if p := os.Getenv(passphraseEnv); p != "" {
		return []byte(p), nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("cannot read passphrase: stdin is not a terminal (set %s)", passphraseEnv)
	}
	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}
	return passphrase, nil
}

func loadKeyPair() (identity.KeyPair, error) {
	passphrase, err := readPassphrase("Passphrase: ")
	if err != nil {
		return identity.KeyPair{}, err
	}
	priv, err := keystore.Store{}.LoadFile(cfg.KeyFile, passphrase)
	if err != nil {
		return identity.KeyPair{}, err
	}
	return identity.FromPrivateKey(priv)
}

func loadCorpus() (*cover.Corpus, error) {
	if cfg.CorpusFile == "" {
		return cover.DefaultCorpus(), nil
	}
	return cover.LoadCorpusFile(cfg.CorpusFile)
}

func newMessenger() (*nahan.Messenger, error) {
	kp, err := loadKeyPair()
	if err != nil {
		return nil, err
	}
	trusted, err := cfg.TrustedKeys()
	if err != nil {
		return nil, err
	}
	corpus, err := loadCorpus()
	if err != nil {
		return nil, err
	}
	m := nahan.NewMessenger(kp, trusted)
	m.Corpus = corpus
	m.Logger = logger
	m.Mode = cfg.Mode()
	m.Workers = cfg.Workers
	m.CompressImages = cfg.CompressImages
	return m, nil
}

// readInput reads path, or stdin for "" and "-".
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// readEnvelope accepts raw envelope bytes or their base64 text form.
func readEnvelope(path string) ([]byte, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if decoded, err := base64.StdEncoding.DecodeString(string(trimmed)); err == nil && len(decoded) > 0 {
		return decoded, nil
	}
	if len(data) == 0 {
		return nil, errors.New("empty envelope input")
	}
	return data, nil
}

func armor(envelope []byte) []byte {
	return []byte(base64.StdEncoding.EncodeToString(envelope) + "\n")
}

func parseRecipient(s string) ([identity.KeySize]byte, error) {
	if s == "" {
		return [identity.KeySize]byte{}, errors.New("a recipient public key is required (--to)")
	}
	if card, err := identity.ParseCard(s); err == nil {
		return card.PublicKey, nil
	}
	return identity.ParsePublicKey(strings.TrimSpace(s))
}

func startSpinner(message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	s.Writer = os.Stderr
	_ = s.Color("cyan")

	if !verbose && !debug {
		s.Start()
	}
	cleanup := func() {
		finalMsg := s.FinalMSG
		s.FinalMSG = ""
		if !verbose && !debug {
			s.Stop()
		}
		if finalMsg != "" {
			if !strings.HasSuffix(finalMsg, "\n") {
				finalMsg += "\n"
			}
			fmt.Fprint(os.Stderr, finalMsg)
		}
	}
	return s, cleanup
}

func success(msg string) string { return color.GreenString("✓") + " " + msg }
func failure(msg string) string { return color.RedString("✗") + " " + msg }

func printMessage(msg *nahan.Message) {
	status := color.YellowString("unverified sender")
	if msg.Verified {
		status = color.GreenString("verified")
	}
	fmt.Fprintf(os.Stderr, "%s %s, %s", color.CyanString("→"), msg.Kind, status)
	if msg.Fingerprint != "" {
		fmt.Fprintf(os.Stderr, " (%s)", msg.Fingerprint)
	}
	fmt.Fprintln(os.Stderr)
	if !msg.IntegrityOK {
		fmt.Fprintln(os.Stderr, color.RedString("!")+" checksum failed: content recovered in lenient mode, do not trust it")
	}
	if msg.Identity != nil {
		fmt.Fprintln(os.Stdout, msg.Identity.String())
		return
	}
	os.Stdout.Write(msg.Plaintext)
	if len(msg.Plaintext) > 0 && msg.Plaintext[len(msg.Plaintext)-1] != '\n' {
		fmt.Fprintln(os.Stdout)
	}
}
