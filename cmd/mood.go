package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/daylog/internal/model"
)

var moodCmd = &cobra.Command{
	Use:   "mood [key]",
	Short: "Set or print the day's mood",
	Long: `Set or print the day's mood. Valid keys:
  happy, smile, neutral, sad, angry, sleepy, think`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMood,
}

func runMood(cmd *cobra.Command, args []string) error {
	rec := loadDay()
	if len(args) == 0 {
		if rec.Mood == "" {
			fmt.Printf("No mood for %s.\n", day)
			return nil
		}
		fmt.Printf("%s (%s)\n", rec.Mood, moodLabel(rec.Mood))
		return nil
	}

	key := args[0]
	if !model.ValidMood(key) {
		fmt.Fprintf(os.Stderr, "Unknown mood %q. Valid moods:\n", key)
		for _, m := range model.Moods {
			fmt.Fprintf(os.Stderr, "  %-8s %s\n", m.Key, m.Label)
		}
		os.Exit(1)
	}
	rec.Mood = key
	commitDay(rec)
	fmt.Printf("Mood set to %s (%s).\n", key, moodLabel(key))
	return nil
}

func moodLabel(key string) string {
	for _, m := range model.Moods {
		if m.Key == key {
			return m.Label
		}
	}
	return key
}
