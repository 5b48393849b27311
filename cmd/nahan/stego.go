package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nahan-app/nahan/nahan"
	"github.com/nahan-app/nahan/nahan/stego/cover"
	"github.com/nahan-app/nahan/nahan/stego/pixel"
	"github.com/nahan-app/nahan/nahan/stego/tag"
	"github.com/nahan-app/nahan/nahan/workpool"
)

var (
	stegoTo        string
	stegoBroadcast bool
	stegoInput     string
	stegoOutput    string
	stegoCover     string
	stegoLang      string
	stegoParity    int
	coverSize      int
)

// sealInput seals stdin (or --in) for --to, or signs it with --broadcast.
func sealInput(m *nahan.Messenger) ([]byte, error) {
	plaintext, err := readInput(stegoInput)
	if err != nil {
		return nil, err
	}
	if stegoBroadcast {
		return m.Broadcast(plaintext)
	}
	recipient, err := parseRecipient(stegoTo)
	if err != nil {
		return nil, err
	}
	return m.Seal(plaintext, recipient)
}

func language() string {
	if stegoLang != "" {
		return stegoLang
	}
	return cfg.Language
}

var hideCmd = &cobra.Command{
	Use:   "hide",
	Short: "Seal a message and hide it in a poem",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMessenger()
		if err != nil {
			return err
		}
		envelope, err := sealInput(m)
		if err != nil {
			return err
		}

		var text string
		if stegoCover != "" {
			coverText, err := readInput(stegoCover)
			if err != nil {
				return err
			}
			tags, err := m.StreamTags(envelope)
			if err != nil {
				return err
			}
			if visible := cover.VisibleLength(string(coverText)); visible < tag.CharsFor(tags) {
				logger.Warn("cover text is short, tags will spill past its end",
					slog.Int("visible", visible), slog.Int("needed", tag.CharsFor(tags)))
			}
			text, err = m.HideText(envelope, string(coverText))
			if err != nil {
				return err
			}
		} else {
			var ratio int
			text, ratio, err = m.HideTextAuto(envelope, language())
			if err != nil {
				return err
			}
			logger.Info("cover chosen", slog.String("lang", language()), slog.Int("ratio", ratio))
		}
		return writeOutput(stegoOutput, []byte(text))
	},
}

var revealCmd = &cobra.Command{
	Use:   "reveal [file...]",
	Short: "Reveal and open messages hidden in text",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMessenger()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			args = []string{"-"}
		}

		type result struct {
			msg *nahan.Message
			err error
		}
		results, err := workpool.Map(cmd.Context(), cfg.Workers, args, func(_ context.Context, _ int, path string) (result, error) {
			text, err := readInput(path)
			if err != nil {
				return result{}, err
			}
			msg, err := m.Reveal(string(text))
			return result{msg: msg, err: err}, nil
		})
		if err != nil {
			return err
		}

		failed := 0
		for i, r := range results {
			if len(args) > 1 {
				fmt.Fprintln(os.Stderr, color.YellowString(args[i]))
			}
			if r.err != nil {
				failed++
				fmt.Fprintln(os.Stderr, failure(r.err.Error()))
				continue
			}
			printMessage(r.msg)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d inputs could not be revealed", failed, len(results))
		}
		return nil
	},
}

var embedCmd = &cobra.Command{
	Use:   "embed carrier.png [carrier.png...]",
	Short: "Seal a message and hide it in one or more images",
	Long: `Seal a message and hide it in the low bits of carrier images. With several
carriers the message is spread across all of them with Reed-Solomon parity,
so any set missing at most --parity images still reveals it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMessenger()
		if err != nil {
			return err
		}
		envelope, err := sealInput(m)
		if err != nil {
			return err
		}
		carriers, err := loadImages(args)
		if err != nil {
			return err
		}

		spinner, cleanup := startSpinner("Embedding...")
		defer cleanup()

		var outs []*image.NRGBA
		if len(carriers) == 1 {
			out, err := m.HideImage(carriers[0], envelope)
			if err != nil {
				spinner.FinalMSG = failure(err.Error())
				return err
			}
			outs = append(outs, out)
		} else {
			parity := stegoParity
			if !cmd.Flags().Changed("parity") {
				parity = cfg.ParityShards
			}
			outs, err = m.HideImageSet(cmd.Context(), carriers, envelope, parity)
			if err != nil {
				spinner.FinalMSG = failure(err.Error())
				return err
			}
		}

		var written []string
		for i, out := range outs {
			path := outputPath(args[i], len(outs))
			var buf bytes.Buffer
			if err := pixel.EncodePNG(&buf, out); err != nil {
				return err
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return err
			}
			written = append(written, path)
		}
		spinner.FinalMSG = success("Message embedded in " + color.YellowString(strings.Join(written, ", ")))
		return nil
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract image.png [image.png...]",
	Short: "Reveal a message hidden in one image or a carrier set",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMessenger()
		if err != nil {
			return err
		}
		imgs, err := loadImages(args)
		if err != nil {
			return err
		}

		spinner, cleanup := startSpinner("Extracting...")
		var msg *nahan.Message
		if len(imgs) == 1 {
			msg, err = m.RevealImage(imgs[0])
		} else {
			msg, err = m.RevealImageSet(cmd.Context(), imgs)
		}
		if err != nil {
			spinner.FinalMSG = failure(err.Error())
			cleanup()
			return err
		}
		cleanup()
		printMessage(msg)
		return nil
	},
}

var coverCmd = &cobra.Command{
	Use:   "cover",
	Short: "Suggest a cover poem for a payload size and show its stealth ratio",
	RunE: func(cmd *cobra.Command, args []string) error {
		corpus, err := loadCorpus()
		if err != nil {
			return err
		}
		text, err := cover.Selector{Corpus: corpus}.Recommend(coverSize, language())
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, text)
		fmt.Fprintf(os.Stderr, "%s %d visible characters, %d required, stealth ratio %d\n",
			color.CyanString("→"), cover.VisibleLength(text), cover.RequiredVisibleChars(coverSize), cover.Ratio(text, coverSize))
		return nil
	},
}

func loadImages(paths []string) ([]image.Image, error) {
	imgs := make([]image.Image, len(paths))
	for i, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		img, format, err := pixel.DecodeImage(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		logger.Debug("carrier loaded", slog.String("path", p), slog.String("format", format),
			slog.Int("capacity", pixel.Capacity(img.Bounds())))
		imgs[i] = img
	}
	return imgs, nil
}

// outputPath names the embedded copy of carrier: --out for a single image,
// otherwise <name>.nahan.png next to each carrier.
func outputPath(carrier string, n int) string {
	if n == 1 && stegoOutput != "" && stegoOutput != "-" {
		return stegoOutput
	}
	base := strings.TrimSuffix(carrier, filepath.Ext(carrier))
	return base + ".nahan.png"
}

func init() {
	for _, c := range []*cobra.Command{hideCmd, embedCmd} {
		c.Flags().StringVarP(&stegoTo, "to", "t", "", "recipient public key or ID card")
		c.Flags().BoolVarP(&stegoBroadcast, "broadcast", "b", false, "sign for everyone instead of sealing for one contact")
		c.Flags().StringVarP(&stegoInput, "in", "i", "-", "message file")
		c.Flags().StringVarP(&stegoOutput, "out", "o", "", "output file")
	}
	hideCmd.Flags().StringVar(&stegoCover, "cover", "", "cover text file (default: pick a poem)")
	for _, c := range []*cobra.Command{hideCmd, coverCmd} {
		c.Flags().StringVarP(&stegoLang, "lang", "l", "", "cover language (default from config)")
	}
	embedCmd.Flags().IntVarP(&stegoParity, "parity", "p", 1, "carriers that may be lost (carrier sets only)")
	coverCmd.Flags().IntVarP(&coverSize, "size", "s", 64, "payload size in bytes")
}
