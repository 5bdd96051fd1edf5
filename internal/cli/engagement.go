package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lernpfad/lernpfad/internal/app/engagement"
	"github.com/lernpfad/lernpfad/internal/domain"
)

func init() {
	rootCmd.AddCommand(awardCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(levelsCmd)
}

var awardCmd = &cobra.Command{
	Use:   "award USER ACTION",
	Short: "Award XP to a learner for an action",
	Long: "Award XP to a learner for an action. Actions: " +
		strings.Join(actionNames(), ", "),
	Args: cobra.ExactArgs(2),
	RunE: runAward,
}

var statusCmd = &cobra.Command{
	Use:   "status USER",
	Short: "Show a learner's XP, level, streak and curriculum progress",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the level table",
	Args:  cobra.NoArgs,
	RunE:  runLevels,
}

func runAward(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	res, err := d.Engagement.Record(cmd.Context(), args[0], domain.XPAction(args[1]))
	if err != nil {
		return err
	}
	printAward(os.Stdout, res)
	return nil
}

func printAward(w io.Writer, res engagement.Result) {
	fmt.Fprintf(w, "+%d XP", res.Gained)
	if res.DailyBonus {
		fmt.Fprint(w, " (incl. daily bonus)")
	}
	fmt.Fprintf(w, " → %d XP total, %d this week\n", res.State.TotalXP, res.State.WeeklyXP)

	if res.LeveledUp {
		fmt.Fprintf(w, "Level up! Now level %d: %s\n", res.State.Level, res.State.LevelTitle)
	}
	switch {
	case res.FreezeUsed():
		fmt.Fprintf(w, "Streak freeze used, streak kept at %d days\n", res.State.CurrentStreak)
	case res.Streak == engagement.StreakHalved:
		fmt.Fprintf(w, "Streak broken, restarted at %d days\n", res.State.CurrentStreak)
	case res.Streak != engagement.StreakUnchanged:
		fmt.Fprintf(w, "Streak: %d days\n", res.State.CurrentStreak)
	}
	if res.FreezeEarned {
		fmt.Fprintln(w, "Streak freeze earned")
	}
	for _, a := range res.Unlocked {
		fmt.Fprintf(w, "Achievement unlocked: %s %s\n", a.Icon, a.Name)
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	user := args[0]

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	state, err := d.Engagement.State(ctx, user)
	if err != nil {
		return err
	}
	progress := d.Engagement.Tracker().XPForNextLevel(state.TotalXP)
	unlocked, err := d.Engagement.Achievements().ListUnlocked(ctx, user)
	if err != nil {
		return err
	}
	cur, err := d.Curriculum.State(ctx, user)
	if err != nil {
		return err
	}

	freeze := "no"
	if state.StreakFreezeAvailable {
		freeze = "yes"
	}

	fmt.Printf("Level:        %d %s\n", state.Level, state.LevelTitle)
	fmt.Printf("XP:           %d total, %d this week (since %s)\n", state.TotalXP, state.WeeklyXP, orDash(state.WeekStartDate))
	fmt.Printf("Next level:   %d XP (%.0f%%)\n", progress.Next, progress.Progress*100)
	fmt.Printf("Streak:       %d days (longest %d)\n", state.CurrentStreak, state.LongestStreak)
	fmt.Printf("Freeze:       %s\n", freeze)
	fmt.Printf("Last active:  %s\n", orDash(state.LastActiveDate))
	fmt.Printf("Achievements: %d / %d\n", len(unlocked), d.Engagement.Achievements().TotalCount())
	fmt.Printf("Curriculum:   %s\n", cur.View)
	if cur.Curriculum != nil {
		fmt.Printf("VUCA:         V %d%%  U %d%%  C %d%%  A %d%%  (%d / %d modules)\n",
			cur.Progress.V, cur.Progress.U, cur.Progress.C, cur.Progress.A,
			cur.Curriculum.CompletedCount(), len(cur.Curriculum.Modules))
	}
	return nil
}

func runLevels(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tTITLE\tXP")
	for _, l := range d.Engagement.Tracker().Levels() {
		fmt.Fprintf(w, "%d\t%s\t%d\n", l.Level, l.Title, l.XPThreshold)
	}
	return w.Flush()
}

func actionNames() []string {
	actions := domain.AllActions()
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return names
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
