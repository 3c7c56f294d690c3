package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-stepform"
	"github.com/goliatone/go-stepform/pkg/render"
)

var (
	renderName    string
	renderStep    int
	renderTheme   string
	renderVariant string
	renderOutput  string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a survey step with the persisted answers",
	RunE:  runRender,
}

func init() {
	flags := renderCmd.Flags()
	flags.StringVar(&renderName, "renderer", "vanilla", "renderer to use (vanilla, text)")
	flags.IntVar(&renderStep, "step", -1, "step index to render; the current step when negative")
	flags.StringVar(&renderTheme, "theme", "", "theme name for themed renderers")
	flags.StringVar(&renderVariant, "variant", "", "theme variant for themed renderers")
	flags.StringVar(&renderOutput, "output", "", "output file (stdout if empty)")
}

func runRender(cmd *cobra.Command, _ []string) error {
	registry, err := stepform.NewRegistry()
	if err != nil {
		return err
	}
	renderer, err := registry.Get(renderName)
	if err != nil {
		return err
	}

	cat, ctrl, _, err := openSession(nil)
	if err != nil {
		return err
	}
	view := render.NewView(ctrl)
	if renderStep >= 0 {
		if renderStep >= cat.Len() {
			return fmt.Errorf("step %d out of range (catalog has %d steps)", renderStep, cat.Len())
		}
		view = render.NewStepView(cat, ctrl.Answers(), ctrl.Errors(), renderStep)
	}

	out, err := renderer.Render(commandContext(cmd), view, render.RenderOptions{
		Theme:   renderTheme,
		Variant: renderVariant,
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if renderOutput == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(renderOutput, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Step written to %s\n", renderOutput)
	return nil
}
