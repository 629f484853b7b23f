// Command taskflow runs the terminal client against a taskflowd server.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskflow/internal/app"
	"github.com/nhle/taskflow/internal/client"
	"github.com/nhle/taskflow/internal/model"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "taskflow: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to config file")
	serverURL := flag.String("server", "", "server URL (overrides config)")
	owner := flag.String("owner", "", "task owner identity (overrides config)")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	url := cfg.Client.ServerURL
	if *serverURL != "" {
		url = *serverURL
	}
	identity := cfg.Client.Owner
	if *owner != "" {
		identity = *owner
	}

	api := client.New(url)
	program := tea.NewProgram(app.New(api, identity), tea.WithAltScreen())

	_, err = program.Run()
	return err
}
