package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/georgemunganga/shoestore/internal/app"
	"github.com/georgemunganga/shoestore/internal/config"
	"github.com/georgemunganga/shoestore/internal/logging"
)

type options struct {
	envFile string
	driver  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "storectl",
		Short:         "Administer the shoe store data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Optional .env file to read")
	root.PersistentFlags().StringVar(&opts.driver, "driver", "", "Override STORAGE_DRIVER (sqlite, memory, postgres)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		exportCmd(opts),
		importCmd(opts),
		sampleCmd(opts),
		deleteAllCmd(opts),
		resetCmd(opts),
		settingsCmd(opts),
	)
	return root
}

// withApp opens the configured storage, runs fn and closes it again.
func (o *options) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return err
	}
	if o.driver != "" {
		cfg.StorageDriver = o.driver
	}
	level := cfg.LogLevel
	if o.verbose {
		level = "debug"
	} else if level == "info" {
		level = "warn"
	}
	logger, err := logging.New(level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func exportCmd(opts *options) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as a JSON array",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				snapshot, err := a.Catalog.ExportSnapshot()
				if err != nil {
					return err
				}
				if outPath == "" || outPath == "-" {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), snapshot)
					return err
				}
				return os.WriteFile(outPath, []byte(snapshot+"\n"), 0o644)
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "File to write (default stdout)")
	return cmd
}

func importCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the catalog with a JSON array of products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload []byte
			var err error
			if args[0] == "-" {
				payload, err = io.ReadAll(cmd.InOrStdin())
			} else {
				payload, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				result, err := a.Catalog.Import(ctx, payload)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d products\n", result.Imported)
				return nil
			})
		},
	}
}

func sampleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Replace the catalog with the sample products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				result, err := a.Catalog.LoadSample(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "loaded %d sample products\n", result.Imported)
				return nil
			})
		},
	}
}

func deleteAllCmd(opts *options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Remove every product from the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete all products without --yes")
			}
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Catalog.DeleteAll(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "catalog emptied")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")
	return cmd
}

func resetCmd(opts *options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear products, settings and cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear all data without --yes")
			}
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Reset(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "all data cleared")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	return cmd
}

var settingsFlags = []struct{ name, usage string }{
	{"title", "Site title"},
	{"tag", "Tagline"},
	{"primary", "Primary colour"},
	{"bg", "Background colour"},
	{"text", "Text colour"},
	{"logo", "Logo URL or data URI"},
}

func settingsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the site settings, or save them when any field flag is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				current := a.Settings.Current()
				next := current
				fields := map[string]*string{
					"title": &next.Title, "tag": &next.Tag, "primary": &next.Primary,
					"bg": &next.BG, "text": &next.Text, "logo": &next.Logo,
				}
				changed := false
				for _, f := range settingsFlags {
					if !cmd.Flags().Changed(f.name) {
						continue
					}
					*fields[f.name], _ = cmd.Flags().GetString(f.name)
					changed = true
				}
				if changed {
					saved, err := a.Settings.Save(ctx, next)
					if err != nil {
						return err
					}
					current = saved
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(current)
			})
		},
	}
	for _, f := range settingsFlags {
		cmd.Flags().String(f.name, "", f.usage)
	}
	return cmd
}
