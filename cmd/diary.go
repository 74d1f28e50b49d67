package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var diaryCmd = &cobra.Command{
	Use:   "diary [text]...",
	Short: "Set or print the day's diary",
	RunE:  runDiary,
}

func runDiary(cmd *cobra.Command, args []string) error {
	rec := loadDay()
	if len(args) == 0 {
		if rec.Diary == "" {
			fmt.Printf("No diary for %s.\n", day)
			return nil
		}
		fmt.Println(rec.Diary)
		return nil
	}

	rec.Diary = strings.Join(args, " ")
	commitDay(rec)
	fmt.Printf("Diary saved for %s.\n", day)
	return nil
}
