package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbar/pkg/config"
	"github.com/goliatone/go-formbar/pkg/orchestrator"
	"github.com/goliatone/go-formbar/pkg/render"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	verbose    bool
	logger     *slog.Logger
}

// themeFlags select and load themes.
type themeFlags struct {
	files   []string
	name    string
	variant string
}

func (f *themeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.files, "theme-file", nil, "YAML theme manifest (repeatable)")
	cmd.Flags().StringVar(&f.name, "theme", "", "Theme name (defaults to the first theme file)")
	cmd.Flags().StringVar(&f.variant, "variant", "", "Theme variant")
}

// options loads the manifests and returns the orchestrator options selecting
// them. No theme files means no theme.
func (f *themeFlags) options() ([]orchestrator.Option, error) {
	if len(f.files) == 0 {
		return nil, nil
	}
	selector, err := render.NewManifestSelector()
	if err != nil {
		return nil, err
	}
	name := f.name
	for _, path := range f.files {
		manifest, err := render.LoadManifest(os.DirFS(filepath.Dir(path)), filepath.Base(path))
		if err != nil {
			return nil, err
		}
		if err := selector.Register(manifest); err != nil {
			return nil, err
		}
		if name == "" {
			name = manifest.Name
		}
	}
	return []orchestrator.Option{
		orchestrator.WithThemeSelector(selector),
		orchestrator.WithDefaultTheme(name, f.variant),
	}, nil
}

// valueFlags collect the current form values.
type valueFlags struct {
	file string
	set  []string
}

func (f *valueFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "values", "", "YAML or JSON file with form values")
	cmd.Flags().StringArrayVar(&f.set, "set", nil, "Form value as name=value (repeatable; repeated names build a list)")
}

func (f *valueFlags) load() (map[string]any, error) {
	values := map[string]any{}
	if f.file != "" {
		data, err := os.ReadFile(f.file)
		if err != nil {
			return nil, fmt.Errorf("read values: %w", err)
		}
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("parse values %s: %w", f.file, err)
		}
		if values == nil {
			values = map[string]any{}
		}
	}

	seen := map[string]bool{}
	for _, pair := range f.set {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q, expected name=value", pair)
		}
		switch current := values[name].(type) {
		case []any:
			if seen[name] {
				values[name] = append(current, value)
				continue
			}
		case string:
			if seen[name] {
				values[name] = []any{current, value}
				continue
			}
		}
		values[name] = value
		seen[name] = true
	}
	return values, nil
}

// NewRootCommand builds the formbar command tree.
func NewRootCommand() *cobra.Command {
	globals := &globalFlags{}

	root := &cobra.Command{
		Use:           "formbar",
		Short:         "Render forms described by XML configuration",
		Long:          "Render, preview and fill in forms defined in a formbar XML configuration document.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if globals.verbose {
				level = slog.LevelDebug
			}
			globals.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}
	root.PersistentFlags().StringVarP(&globals.configPath, "config", "c", "forms.xml", "Path to the form configuration")
	root.PersistentFlags().BoolVarP(&globals.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newFormsCmd(globals),
		newRenderCmd(globals),
		newServeCmd(globals),
		newPromptCmd(globals),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	root := NewRootCommand()
	err := root.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

func loadConfig(globals *globalFlags) (*config.Config, error) {
	if globals.configPath == "" {
		return nil, errors.New("--config is required")
	}
	return config.LoadFile(globals.configPath, config.WithLogger(globals.logger))
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Form written to %s\n", path)
	return nil
}
