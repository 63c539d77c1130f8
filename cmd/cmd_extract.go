// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mapchat/mapchat/config"
	"github.com/mapchat/mapchat/locate"
	"github.com/mapchat/mapchat/utils/htmlutils"
	"github.com/spf13/cobra"
)

var extractOptions struct {
	URL        string
	PlacesOnly bool
}

var extractCmd = &cobra.Command{
	Use:   "extract [text...]",
	Short: "Extract and geocode the places of a text",
	Long: `
Runs the pipeline once and prints the result as JSON. The text is taken from
the arguments, from --url (the visible text of the page) or from stdin.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkExtractKeys(appConfig, extractOptions.PlacesOnly); err != nil {
			return err
		}

		if extractOptions.URL != "" && len(args) > 0 {
			return errors.New("--url and text arguments are mutually exclusive")
		}

		var (
			text string
			err  error
		)

		if extractOptions.URL != "" {
			text, err = htmlutils.FetchText(cmd.Context(), newFetchClient(), extractOptions.URL)
		} else {
			text, err = readInput(args, cmd.InOrStdin())
		}

		if err != nil {
			return err
		}

		if strings.TrimSpace(text) == "" {
			return locate.ErrEmptyInput
		}

		out := cmd.OutOrStdout()

		// names only, the geocoder is never built
		if extractOptions.PlacesOnly {
			extractor, err := newExtractor(appConfig, logger)
			if err != nil {
				return err
			}

			places, err := extractor.Extract(cmd.Context(), text)
			if err != nil {
				return err
			}

			return writeJSON(out, places)
		}

		a, err := newApp(cmd.Context(), appConfig, logger)
		if err != nil {
			return err
		}

		res, err := a.service.Locate(cmd.Context(), text)
		if err != nil {
			return err
		}

		return writeJSON(out, res)
	},
}

// checkExtractKeys validates the credentials an extract run uses. Without
// geocoding only the language model needs a key.
func checkExtractKeys(cfg *config.Config, placesOnly bool) error {
	if !placesOnly {
		return cfg.Validate()
	}

	if slices.Contains(cfg.MissingKeys(), "OPENAI_API_KEY") {
		return fmt.Errorf("%w: OPENAI_API_KEY", config.ErrMissingKeys)
	}

	return nil
}

// readInput joins args, or reads stdin when there are none.
func readInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}

	return string(b), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVar(&extractOptions.URL, "url", "", "Read the text from a web page")
	extractCmd.Flags().BoolVar(
		&extractOptions.PlacesOnly,
		"places-only",
		false,
		"Print the extracted names without geocoding them",
	)
}
