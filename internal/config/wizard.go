package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .shopchat.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to shopchat! Let's configure your assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p <= 0 || p > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 2. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory (SQLite catalog and conversation store)",
		Default: cfg.DataDir,
	}
	if cfg.DataDir, err = dataPrompt.Run(); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 3. Catalog seed file.
	catalogPrompt := promptui.Prompt{
		Label:   "Catalog JSON file to import on startup (leave blank to skip)",
		Default: "",
	}
	if cfg.CatalogFile, err = catalogPrompt.Run(); err != nil {
		return nil, fmt.Errorf("catalog file: %w", err)
	}

	// 4. Typing simulation.
	typingPrompt := promptui.Select{
		Label: "Typing simulation",
		Items: []string{
			"on (replies arrive after a short human-like pause)",
			"off (replies arrive immediately)",
		},
	}
	typingIdx, _, err := typingPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("typing selection: %w", err)
	}
	if typingIdx == 1 {
		cfg.Typing.PerCharMs = 0
	}

	if cfg.CatalogFile != "" {
		if _, err := os.Stat(cfg.CatalogFile); err != nil {
			fmt.Printf("\nNote: %s does not exist yet. Run `shopchat import %s` once it does.\n",
				cfg.CatalogFile, cfg.CatalogFile)
		}
	}

	configPath := ".shopchat.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}
