// worklogctl inspects worklog session directories: the replayed state, the
// checkpoint artifacts, and the audit stream. Read-only; it never writes to
// a session directory.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AltairaLabs/tandem-mcp/internal/worklog"
)

var (
	sessionDir string
	sessionID  string

	heading = color.New(color.FgCyan, color.Bold)
	label   = color.New(color.FgYellow)
	good    = color.New(color.FgGreen)
	bad     = color.New(color.FgRed)
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "worklogctl",
		Short: "Inspect tandem-mcp worklog session directories",
		Long:  "worklogctl replays a session's append-only log and lists its checkpoint artifacts and audit events.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if sessionDir == "" {
				return fmt.Errorf("--dir is required")
			}
			if sessionID == "" {
				// Session directories are named {timestamp}_{session_id}.
				base := filepath.Base(filepath.Clean(sessionDir))
				if idx := strings.LastIndex(base, "_"); idx >= 0 && idx < len(base)-1 {
					sessionID = base[idx+1:]
				}
			}
			if sessionID == "" {
				return fmt.Errorf("could not infer session id from %q, pass --session", sessionDir)
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&sessionDir, "dir", "", "Session directory to inspect")
	rootCmd.PersistentFlags().StringVar(&sessionID, "session", "", "Session identifier (defaults to the directory name suffix)")

	rootCmd.AddCommand(stateCmd(), checkpointsCmd(), auditCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func stateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the session's replayed latest state",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := worklog.OpenDir(sessionDir, sessionID)
			state, err := store.ReplayLatestState()
			if err != nil {
				return err
			}

			heading.Printf("Session %s\n\n", sessionID)
			label.Print("Writer:      ")
			printID(state.WriterID, state.WriterReady)
			label.Print("Validator:   ")
			printID(state.ValidatorID, state.ValidatorReady)
			label.Print("Task:        ")
			if state.Task != nil {
				good.Println("defined")
				for _, req := range state.Task.Requirements {
					fmt.Printf("  - %s\n", req)
				}
			} else {
				fmt.Println("none")
			}
			label.Print("Plan:        ")
			switch {
			case state.ImplementationPlan == "":
				fmt.Println("none")
			case state.PlanApproval == "approved":
				good.Println("approved")
			case state.PlanApproval == "rejected":
				bad.Println("rejected")
			default:
				fmt.Println("awaiting review")
			}
			label.Print("Checkpoints: ")
			fmt.Println(len(state.Checkpoints))
			label.Print("Code:        ")
			if state.CurrentCode != "" {
				status := "submitted"
				if state.ValidatorWaiting {
					status = "awaiting review"
				}
				fmt.Println(status)
			} else {
				fmt.Println("none")
			}
			return nil
		},
	}
}

func checkpointsCmd() *cobra.Command {
	var showCode bool
	cmd := &cobra.Command{
		Use:   "checkpoints",
		Short: "List checkpoint artifacts in sequential order",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := worklog.OpenDir(sessionDir, sessionID)
			checkpoints, err := store.ReadSequential()
			if err != nil {
				return err
			}
			if len(checkpoints) == 0 {
				fmt.Println("No checkpoints recorded.")
				return nil
			}

			for _, cp := range checkpoints {
				heading.Printf("Checkpoint %d/%d", cp.Number, cp.Total)
				fmt.Printf("  (%s)\n", cp.Timestamp)
				fmt.Printf("  %s\n", cp.Description)
				if showCode {
					fmt.Println(cp.Code)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showCode, "code", false, "Print each checkpoint's code")
	return cmd
}

func auditCmd() *cobra.Command {
	var tail int
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the session's audit event stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := worklog.OpenDir(sessionDir, sessionID)
			events, err := store.ReadEvents()
			if err != nil {
				return err
			}
			if tail > 0 && len(events) > tail {
				events = events[len(events)-tail:]
			}

			for _, ev := range events {
				label.Printf("%-20s", ev.Event)
				fmt.Printf("  %s\n", ev.Timestamp)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&tail, "tail", 0, "Show only the last N events")
	return cmd
}

func printID(id string, ready bool) {
	if id == "" {
		fmt.Println("unregistered")
		return
	}
	good.Printf("%s", id)
	if ready {
		fmt.Println(" (ready)")
	} else {
		fmt.Println()
	}
}
