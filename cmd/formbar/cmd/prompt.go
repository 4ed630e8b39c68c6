package cmd

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbar/pkg/orchestrator"
	"github.com/goliatone/go-formbar/pkg/render"
	"github.com/goliatone/go-formbar/pkg/renderers/tui"
)

type promptFlags struct {
	values valueFlags
	format string
	fields string
	output string
}

// promptDriver overrides the terminal driver; nil uses the survey driver.
var promptDriver tui.PromptDriver

func newPromptCmd(globals *globalFlags) *cobra.Command {
	flags := &promptFlags{}

	cmd := &cobra.Command{
		Use:   "prompt <form-id>",
		Short: "Fill in a form interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrompt(cmd, globals, flags, args[0])
		},
	}
	flags.values.register(cmd)
	cmd.Flags().StringVar(&flags.format, "format", string(tui.OutputFormatJSON), "Output format: json, form or pretty")
	cmd.Flags().StringVar(&flags.fields, "fields", "", "Comma separated fields to ask; prefix with - to exclude")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (stdout if empty)")
	return cmd
}

func runPrompt(cmd *cobra.Command, globals *globalFlags, flags *promptFlags, formID string) error {
	cfg, err := loadConfig(globals)
	if err != nil {
		return err
	}
	values, err := flags.values.load()
	if err != nil {
		return err
	}

	renderer, err := tui.New(
		tui.WithPromptDriver(promptDriver),
		tui.WithOutput(cmd.ErrOrStderr()),
		tui.WithOutputFormat(tui.OutputFormat(flags.format)),
		tui.WithLogger(globals.logger),
	)
	if err != nil {
		return err
	}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	output, err := orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithLogger(globals.logger),
	).Generate(cmd.Context(), orchestrator.Request{
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
	if flags.output == "" {
		output = append(output, '\n')
	}
	return writeOutput(cmd, flags.output, output)
}
