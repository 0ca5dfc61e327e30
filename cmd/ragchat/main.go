// Command ragchat is a terminal chat client for a running ragchat server.
package main

import (
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"ragchat/internal/client"
	"ragchat/internal/tui"
)

func main() {
	_ = godotenv.Load()

	serverURL := flag.String("server", "http://localhost:5000", "ragchat server base URL")
	sessionID := flag.String("session", "", "Existing session id (a new session is created when empty)")
	flag.Parse()

	api := client.New(*serverURL)

	sid := *sessionID
	if sid == "" {
		var err error
		sid, err = api.CreateSession()
		if err != nil {
			log.Fatalf("failed to create session: %v", err)
		}
	}

	m := tui.New(api, sid)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
