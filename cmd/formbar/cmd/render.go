package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbar/pkg/orchestrator"
	"github.com/goliatone/go-formbar/pkg/render"
	"github.com/goliatone/go-formbar/pkg/renderers/html"
)

type renderFlags struct {
	values      valueFlags
	theme       themeFlags
	fields      string
	preset      string
	stylesheets []string
	templates   string
	output      string
}

func newRenderCmd(globals *globalFlags) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render <form-id>",
		Short: "Render a form as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, globals, flags, args[0])
		},
	}
	flags.values.register(cmd)
	flags.theme.register(cmd)
	cmd.Flags().StringVar(&flags.fields, "fields", "", "Comma separated fields to render; prefix with - to exclude")
	cmd.Flags().StringVar(&flags.preset, "preset", "", "JSON or YAML preset applied to the built form")
	cmd.Flags().StringSliceVar(&flags.stylesheets, "stylesheet", nil, "Stylesheet href emitted before the form (repeatable)")
	cmd.Flags().StringVar(&flags.templates, "templates", "", "Directory overriding the embedded templates")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (stdout if empty)")
	return cmd
}

func runRender(cmd *cobra.Command, globals *globalFlags, flags *renderFlags, formID string) error {
	cfg, err := loadConfig(globals)
	if err != nil {
		return err
	}
	values, err := flags.values.load()
	if err != nil {
		return err
	}

	htmlOptions := []html.Option{
		html.WithLogger(globals.logger),
		html.WithStylesheets(flags.stylesheets...),
	}
	if flags.templates != "" {
		htmlOptions = append(htmlOptions, html.WithTemplatesDir(flags.templates))
	}
	renderer, err := html.New(htmlOptions...)
	if err != nil {
		return err
	}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	options := []orchestrator.Option{
		orchestrator.WithRegistry(registry),
		orchestrator.WithLogger(globals.logger),
	}
	themeOptions, err := flags.theme.options()
	if err != nil {
		return err
	}
	options = append(options, themeOptions...)

	if flags.preset != "" {
		preset, err := orchestrator.NewPresetTransformerFromFS(os.DirFS(filepath.Dir(flags.preset)), filepath.Base(flags.preset))
		if err != nil {
			return err
		}
		options = append(options, orchestrator.WithTransformer(preset))
	}

	output, err := orchestrator.New(options...).Generate(cmd.Context(), orchestrator.Request{
		Config: cfg,
		FormID: formID,
		Values: values,
		RenderOptions: render.RenderOptions{
			Subset: render.ParseSubset(flags.fields),
		},
	})
	if err != nil {
		return err
	}
	return writeOutput(cmd, flags.output, output)
}
