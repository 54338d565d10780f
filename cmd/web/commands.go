package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dobosdev.hu/web/internal/content"
	"dobosdev.hu/web/internal/i18n"
	"dobosdev.hu/web/internal/nav"
)

func serveCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Starts the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(e.cfg, e.logger, appOptions{})
			if err != nil {
				e.logger.Error("could not build app", zap.Error(err))
				return err
			}
			stopWebserver := a.start()

			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), e.cfg.HTTP.ShutdownTimeout)
			defer cancel()
			stopWebserver(shutdownCtx)
			return nil
		},
	}
}

// routesCommand prints the localized route table.
func routesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Prints the localized section routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TARGET\tHU\tEN")
			for _, t := range nav.Targets {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t, nav.Path(t, nav.Hungarian), nav.Path(t, nav.English))
			}
			fmt.Fprintf(tw, "reference\t%s\t%s\n", nav.ReferencePathFor("{id}", nav.Hungarian), nav.ReferencePathFor("{id}", nav.English))
			return tw.Flush()
		},
	}
}

func contentCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Content maintenance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validates the embedded content and translations across languages",
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := i18n.LoadDefault()
			if err != nil {
				return err
			}
			langs := bundle.Supported()
			if err := content.NewDefaultStore().Validate(langs); err != nil {
				return err
			}
			for _, lang := range langs {
				for _, t := range nav.Targets {
					if !bundle.Has(lang, nav.LabelKey(t)) {
						return fmt.Errorf("content check: %s has no label for %s", lang, t)
					}
				}
			}
			base := bundle.Keys(bundle.Fallback())
			for _, lang := range langs {
				have := map[string]bool{}
				for _, key := range bundle.Keys(lang) {
					have[key] = true
				}
				for _, key := range base {
					if !have[key] {
						e.logger.Warn("translation missing", zap.String("lang", lang), zap.String("key", key))
					}
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "content ok: %d languages, %d keys\n", len(langs), len(base))
			return nil
		},
	})
	return cmd
}
