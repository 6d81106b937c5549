package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"wardrobeapi/config"
	"wardrobeapi/logger"
	"wardrobeapi/models"
	"wardrobeapi/services"
	"wardrobeapi/storage"
)

type app struct {
	configPath string
	cfg        *config.Config
	store      storage.Store
	wardrobe   *services.WardrobeService
}

// setup loads config and opens the configured store.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.LogLevel)
	logger.Logger.SetOutput(cmd.ErrOrStderr())

	store, err := storage.NewStore(cfg.Storage)
	if err != nil {
		return err
	}
	if err := store.Initialize(); err != nil {
		return err
	}
	stylist := services.NewGeminiStylist(cfg.Gemini.APIKey, services.ParseModelName(cfg.Gemini.Model), cfg.Gemini.Timeout())

	a.cfg, a.store = cfg, store
	a.wardrobe = services.NewWardrobeService(store, stylist)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "wardrobectl",
		Short:             "Manage the wardrobe store from the command line",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath(), "path to config.yaml")

	root.AddCommand(
		newInitCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newSuggestCmd(a),
	)
	return root
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create empty wardrobe documents if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "wardrobe store ready (%s)\n", a.cfg.Storage.Driver)
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print wardrobe statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.wardrobe.ComputeStatistics()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), stats)
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export clothes and personal info as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := a.wardrobe.ExportWardrobe()
			if err != nil {
				return err
			}
			if out == "" {
				return writeJSON(cmd.OutOrStdout(), snapshot)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := writeJSON(f, snapshot); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d items to %s\n", len(snapshot.Clothes), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the wardrobe with the contents of an export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var in models.WardrobeImportIn
			if err := json.Unmarshal(data, &in); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			result, err := a.wardrobe.ImportWardrobe(in)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
}

func newSuggestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest",
		Short: "Suggest clothes that fill gaps in the wardrobe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.wardrobe.SuggestNewClothes(cmd.Context(), nil)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
}
