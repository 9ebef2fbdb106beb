package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/korjavin/mealclock/pkg/course"
	"github.com/korjavin/mealclock/pkg/duration"
	"github.com/korjavin/mealclock/pkg/models"
	"github.com/korjavin/mealclock/pkg/plan"
	"github.com/korjavin/mealclock/pkg/scheduler"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	stepStyle  = lipgloss.NewStyle().PaddingLeft(2)
	mutedStyle = lipgloss.NewStyle().Faint(true)
)

func newPlanCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the countdown for a course described in a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := plan.LoadFile(file)
			if err != nil {
				return err
			}
			printCountdown(cmd.OutOrStdout(), c.Name(), c.LeadTime(), c.Schedule())
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "course YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newChainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chain <step>=<duration>...",
		Short: "Convert dependent steps, first to last, into lead-times before serving",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			links := make([]models.Stage, len(args))
			for i, arg := range args {
				links[i] = models.ParseStage(arg)
			}

			out := cmd.OutOrStdout()
			for _, s := range course.Chain(links) {
				fmt.Fprintln(out, stepStyle.Render(models.FormatStage(s)))
			}
			return nil
		},
	}
}

func printCountdown(w io.Writer, name string, lead time.Duration, countdown []models.Stage) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Countdown for %s", name)))
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("start %s before serving", duration.Format(lead))))
	if len(countdown) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("nothing to wait for"))
		return
	}
	for _, line := range scheduler.Lines(countdown) {
		fmt.Fprintln(w, stepStyle.Render(line))
	}
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("serve after %s", duration.Format(scheduler.Total(countdown)))))
}
