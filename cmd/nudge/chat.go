package main

import (
	"os"
	"os/user"

	"github.com/fentz26/nudge/internal/audit"
	"github.com/fentz26/nudge/internal/gateway"
	"github.com/fentz26/nudge/internal/store"
	"github.com/fentz26/nudge/internal/tui"
	"github.com/spf13/cobra"
)

var (
	chatAuthor string
	chatLocale string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open an interactive chat with the agent",
	Long:  `Opens a chat TUI that runs the interpreter in-process against the local database. Reminders created here are picked up by a running daemon sharing the same database.`,
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatAuthor, "as", "", "Author ID to chat as (default: OS username)")
	chatCmd.Flags().StringVar(&chatLocale, "locale", "", "Message locale (overrides config default)")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadAgentConfig()
	if err != nil {
		return err
	}

	author := chatAuthor
	if author == "" {
		if u, err := user.Current(); err == nil {
			author = u.Username
		} else {
			author = "local"
		}
	}
	locale := chatLocale
	if locale == "" {
		locale = cfg.DefaultLocale
	}

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	service := gateway.NewService(s, buildInterpreter(cfg), audit.NewRecorder(s), cfg.DefaultLocale, cfg.MaxRemindersPerUser)

	app := tui.New(service, cfg.AgentName, author, locale)
	if err := app.Run(); err != nil {
		os.Exit(1)
	}
	return nil
}
