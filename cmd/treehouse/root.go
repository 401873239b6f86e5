package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/zoobzio/treehouse/tree"
	"gopkg.in/yaml.v3"
)

var configPath string

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.Flags().StringP("state", "s", "", "Path to a JSON or YAML state file")
	rootCmd.Flags().StringP("format", "f", "", "State file format: json or yaml (default: from extension)")
	rootCmd.Flags().Duration("debounce", tree.DefaultDebounce, "Delay before applying state file changes")
	rootCmd.Flags().String("title", "", "Title written to a new state file")
}

var rootCmd = &cobra.Command{
	Use:   "treehouse",
	Short: "Terminal demo of components bound to a live state file",
	Long: `treehouse renders a small component tree bound to a state document.

Edit the state file while the demo runs and the affected components
re-render. Keys dispatch actions that write back into the tree.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(configPath, cmd.Flags())
		if err != nil {
			return err
		}
		if err := ensureState(cfg); err != nil {
			return err
		}
		return run(cmd.Context(), cfg)
	},
}

// ensureState writes a starter document when the state file is missing.
func ensureState(cfg Config) error {
	if _, err := os.Stat(cfg.State); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", cfg.State, err)
	}

	doc := defaultState(cfg.Title)
	var (
		data []byte
		err  error
	)
	if _, ok := cfg.codec().(tree.YAMLCodec); ok {
		data, err = yaml.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode starter state: %w", err)
	}
	if err := os.WriteFile(cfg.State, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", cfg.State, err)
	}
	return nil
}

func run(ctx context.Context, cfg Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	status := newStatusLog(4)
	status.hook()

	p := tea.NewProgram(newModel(ctx, cfg, status), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
