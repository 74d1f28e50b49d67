package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/daylog/internal/model"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage the day's task checklist",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <text>...",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskAdd,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <n>",
	Short: "Mark task n as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskDone(args[0], true)
	},
}

var taskUndoCmd = &cobra.Command{
	Use:   "undo <n>",
	Short: "Mark task n as not done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskDone(args[0], false)
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the day's tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printTasks(os.Stdout, loadDay().Tasks)
		return nil
	},
}

func init() {
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskUndoCmd)
	taskCmd.AddCommand(taskListCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("task text must not be empty")
	}
	rec := loadDay()
	rec.Tasks = append(rec.Tasks, model.Task{Text: text})
	commitDay(rec)
	fmt.Printf("Added task %d: %s\n", len(rec.Tasks), text)
	return nil
}

func setTaskDone(arg string, done bool) error {
	rec := loadDay()
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(rec.Tasks) {
		return fmt.Errorf("no task %q (the day has %d task(s))", arg, len(rec.Tasks))
	}
	rec.Tasks[n-1].Done = done
	commitDay(rec)
	printTasks(os.Stdout, rec.Tasks)
	return nil
}

// printTasks writes the checklist as numbered markdown items.
func printTasks(w io.Writer, tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	for i, t := range tasks {
		fmt.Fprintf(w, "%d. %s\n", i+1, taskLine(t))
	}
}

func taskLine(t model.Task) string {
	mark := " "
	if t.Done {
		mark = "x"
	}
	return fmt.Sprintf("- [%s] %s", mark, t.Text)
}
