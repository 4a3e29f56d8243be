package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	sayAuthor  string
	sayLocale  string
	listAuthor string
	listStatus string
)

var sayCmd = &cobra.Command{
	Use:   "say <message...>",
	Short: "Send one message to the running daemon",
	Long:  `Sends a single chat message through the daemon's interpreter, e.g. nudge say "hey nudge remind me to call mom in 2 hours".`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSay,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders via the running daemon",
	RunE:  runList,
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <reminder-id>",
	Short: "Cancel a pending reminder",
	Args:  cobra.ExactArgs(1),
	RunE:  runCancel,
}

func init() {
	sayCmd.Flags().StringVar(&sayAuthor, "as", "cli", "Author ID to speak as")
	sayCmd.Flags().StringVar(&sayLocale, "locale", "", "Message locale")
	listCmd.Flags().StringVar(&listAuthor, "as", "", "Filter by author ID")
	listCmd.Flags().StringVar(&listStatus, "status", "pending", "Filter by status (pending|fired|cancelled, empty for all)")
}

func runSay(cmd *cobra.Command, args []string) error {
	reply, err := sendMessage(strings.Join(args, " "), sayAuthor, sayLocale)
	if err != nil {
		return err
	}

	if !reply.Addressed {
		fmt.Println("(message was not addressed to the agent)")
		return nil
	}
	fmt.Println(reply.Reply)
	fmt.Printf("  intent=%s confidence=%.2f\n", reply.Intent, reply.Confidence)
	if reply.ReminderID != "" {
		fmt.Printf("  reminder id: %s\n", reply.ReminderID)
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	rems, err := fetchReminders(listAuthor, listStatus)
	if err != nil {
		return err
	}

	if len(rems) == 0 {
		fmt.Println("No reminders.")
		return nil
	}

	for _, rem := range rems {
		when := "no due time"
		if rem.DueAt != nil {
			when = rem.DueAt.Local().Format("Mon Jan 2 15:04")
		}
		if rem.Recurrence != nil {
			when += " (recurring)"
		}
		fmt.Printf("%-36s  %-8s  %-20s  %s\n", rem.ID, rem.Status, when, rem.Task)
	}
	return nil
}

func runCancel(cmd *cobra.Command, args []string) error {
	if err := cancelReminder(args[0]); err != nil {
		return err
	}
	fmt.Println("Cancelled.")
	return nil
}
