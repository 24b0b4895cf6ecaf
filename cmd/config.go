package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/derickschaefer/streamify/internal/config"
	"github.com/derickschaefer/streamify/internal/render"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage streamify configuration",
	Long:  `Read and write streamify configuration stored in streamify.json.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a template streamify.json in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigFile
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (delete it first to re-initialise)", path)
		}
		if err := config.WriteFile(path, config.Template()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", path)
		fmt.Fprintln(cmd.OutOrStdout(), "  Edit it or use 'streamify config set <key> <value>'.")
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(globalFlags.DB)
		if err != nil {
			return err
		}

		src := "(not found)"
		if cfg.ConfigPath != "" {
			src = cfg.ConfigPath
		}

		format := cfg.Format
		if globalFlags.Format != "" {
			format = globalFlags.Format
		}

		switch format {
		case render.FormatJSON:
			type configOut struct {
				Format     string  `json:"default_format"`
				Range      string  `json:"default_range"`
				PageSize   int     `json:"page_size"`
				Delay      string  `json:"fetch_delay"`
				Rate       float64 `json:"rate"`
				Source     string  `json:"source"`
				DBPath     string  `json:"db_path"`
				ConfigFile string  `json:"config_file"`
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(configOut{
				Format:     cfg.Format,
				Range:      string(cfg.Range),
				PageSize:   cfg.PageSize,
				Delay:      cfg.Delay.String(),
				Rate:       cfg.Rate,
				Source:     cfg.Source,
				DBPath:     cfg.DBPath,
				ConfigFile: src,
			})
		default:
			rows := [][]string{
				{"default_format", cfg.Format},
				{"default_range", fmt.Sprintf("%s (%s)", cfg.Range, cfg.Range.Label())},
				{"page_size", fmt.Sprintf("%d", cfg.PageSize)},
				{"fetch_delay", cfg.Delay.String()},
				{"rate", fmt.Sprintf("%.1f fetch/s", cfg.Rate)},
				{"source", cfg.Source},
				{"db_path", cfg.DBPath},
				{"config_file", src},
			}
			printKVTable(cmd.OutOrStdout(), rows)
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "\n⚠  %v\n", err)
			}
			return nil
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value in streamify.json",
	Long: `Set one key in streamify.json, creating the file from the template when
it does not exist.

Keys: default_format, default_range, page_size, fetch_delay, rate, db_path, source`,
	Example: `  streamify config set default_range 90d
  streamify config set fetch_delay 0s
  streamify config set source store`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToLower(args[0])

		// Load existing file or start from template
		var f config.File
		existing, path, err := loadConfigFile()
		if err != nil {
			path = config.DefaultConfigFile
			f = config.Template()
		} else {
			f = *existing
		}

		if err := f.Set(key, args[1]); err != nil {
			return err
		}
		if err := config.WriteFile(path, f); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s in %s\n", key, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

// loadConfigFile reads streamify.json from cwd; used by configSetCmd.
func loadConfigFile() (*config.File, string, error) {
	path := config.DefaultConfigFile
	f, err := config.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return f, path, nil
}

// printKVTable renders a two-column key/value table using aligned columns.
func printKVTable(w io.Writer, rows [][]string) {
	maxKey := 0
	for _, r := range rows {
		if len(r[0]) > maxKey {
			maxKey = len(r[0])
		}
	}
	for _, r := range rows {
		padding := strings.Repeat(" ", maxKey-len(r[0]))
		fmt.Fprintf(w, "  %s%s  %s\n", r[0], padding, r[1])
	}
}
