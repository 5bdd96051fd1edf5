package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lernpfad/lernpfad/internal/domain"
)

func init() {
	curriculumCmd.AddCommand(curriculumBeginCmd)
	curriculumCmd.AddCommand(curriculumLoadCmd)
	curriculumCmd.AddCommand(curriculumShowCmd)
	curriculumCmd.AddCommand(curriculumCompleteCmd)
	curriculumCmd.AddCommand(curriculumSuggestCmd)
	curriculumCmd.AddCommand(curriculumResetCmd)
	rootCmd.AddCommand(curriculumCmd)
}

var curriculumCmd = &cobra.Command{
	Use:     "curriculum",
	Aliases: []string{"vuca"},
	Short:   "Manage a learner's VUCA curriculum",
}

var curriculumBeginCmd = &cobra.Command{
	Use:   "begin USER GOAL",
	Short: "Record the learner's goal and wait for a curriculum",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		state, err := d.Curriculum.Begin(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Goal %q recorded, view: %s\n", state.Goal, state.View)
		return nil
	},
}

var curriculumLoadCmd = &cobra.Command{
	Use:   "load USER FILE",
	Short: "Load a curriculum from a JSON file (- for stdin)",
	Args:  cobra.ExactArgs(2),
	RunE:  runCurriculumLoad,
}

var curriculumShowCmd = &cobra.Command{
	Use:   "show USER",
	Short: "List the modules of a learner's curriculum",
	Args:  cobra.ExactArgs(1),
	RunE:  runCurriculumShow,
}

var curriculumCompleteCmd = &cobra.Command{
	Use:   "complete USER MODULE",
	Short: "Mark a module completed and suggest its Gegensatz",
	Args:  cobra.ExactArgs(2),
	RunE:  runCurriculumComplete,
}

var curriculumSuggestCmd = &cobra.Command{
	Use:   "suggest USER [AFTER]",
	Short: "Suggest a module from the opposite VUCA dimension",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCurriculumSuggest,
}

var curriculumResetCmd = &cobra.Command{
	Use:   "reset USER",
	Short: "Discard the learner's curriculum and return to onboarding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.Curriculum.Reset(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Curriculum reset")
		return nil
	},
}

func runCurriculumLoad(cmd *cobra.Command, args []string) error {
	user, path := args[0], args[1]

	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	var c domain.Curriculum
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return fmt.Errorf("parse curriculum %s: %w", path, err)
	}

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	state, err := d.Curriculum.Load(cmd.Context(), user, c)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded curriculum %s with %d modules, view: %s\n",
		state.Curriculum.ID, len(state.Curriculum.Modules), state.View)
	printProgress(state.Progress)
	return nil
}

func runCurriculumShow(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	state, err := d.Curriculum.State(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if state.Curriculum == nil {
		fmt.Printf("No curriculum loaded (view: %s)\n", state.View)
		return nil
	}

	fmt.Printf("Goal: %s\n", state.Curriculum.Goal)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDIM\tDONE\tTITLE")
	for _, m := range state.Curriculum.Modules {
		done := ""
		if m.Completed {
			done = "✓"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Dimension, done, m.Title)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	printProgress(state.Progress)
	return nil
}

func runCurriculumComplete(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	res, err := d.Curriculum.Complete(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Printf("Module %s completed, view: %s\n", args[1], res.State.View)
	printProgress(res.State.Progress)
	if res.Award != nil {
		printAward(os.Stdout, *res.Award)
	}
	printSuggestion(res.Suggestion)
	return nil
}

func runCurriculumSuggest(cmd *cobra.Command, args []string) error {
	after := ""
	if len(args) == 2 {
		after = args[1]
	}

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	sug, err := d.Curriculum.Suggestion(cmd.Context(), args[0], after)
	if err != nil {
		return err
	}
	printSuggestion(sug)
	return nil
}

func printProgress(p domain.DimensionProgress) {
	fmt.Printf("VUCA: V %d%%  U %d%%  C %d%%  A %d%%\n", p.V, p.U, p.C, p.A)
}

func printSuggestion(m *domain.Module) {
	if m == nil {
		fmt.Println("No Gegensatz suggestion")
		return
	}
	fmt.Printf("Gegensatz: %s (%s) %s\n", m.ID, m.Dimension, m.Title)
}
