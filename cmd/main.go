package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

var (
	configFile string
	openOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "labelmap",
	Short: "World map label placement and rendering",
	Long: `Renders a world map with one text label per country, resolving label
overlaps and drawing connector lines from displaced labels to their anchors.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if configFile != "" {
			return os.Setenv("LABELMAP_CONFIG", configFile)
		}
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Lay out labels and export the map",
	Long:  `Resolve the worklist, place the labels, decide connectors and write the configured output formats.`,
	RunE:  runRender,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the worklist against the centroid store",
	Long:  `Report worklist entries without a centroid and centroids never referenced by the worklist.`,
	RunE:  runValidate,
}

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Backfill missing centroids with a geocoder",
	Long:  `Look up every worklist entry missing from the centroid store and store the result as a base record.`,
	RunE:  runGeocode,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")

	renderCmd.Flags().BoolVar(&openOutput, "open", false, "Open the rendered SVG when done")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(geocodeCmd)
}

// main is the entry point of the application.
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelWarn,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelError,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
