package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const exampleConfig = `# gamehub configuration
source: rawg          # rawg or igdb
page_size: 20
db_path: gamehub.db
request_timeout: 15s
reference_ttl: 24h

rawg:
  base_url: https://api.rawg.io/api
  api_key: ""         # or GAMEHUB_RAWG_API_KEY

igdb:
  client_id: ""       # or GAMEHUB_IGDB_CLIENT_ID
  client_secret: ""   # or GAMEHUB_IGDB_CLIENT_SECRET

web:
  addr: ":8080"
  view_ttl: 30m

logging:
  level: info   # debug, info, warn, error
  format: text  # text or json

tracing:
  enabled: false
  endpoint: localhost:4317
  insecure: true
  sample_ratio: 1.0
`

func handleConfigCommand(args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: gamehub config <command>")
		fmt.Println("Commands: show, init")
		return errors.New("missing config command")
	}

	switch args[0] {
	case "show":
		return showConfig()
	case "init":
		return initConfig()
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func showConfig() error {
	if outputCfg.JSON {
		PrintResult(cfg)
		return nil
	}

	// Pretty print as YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fmt.Println("# Active Configuration")
	fmt.Println(string(data))
	return nil
}

func initConfig() error {
	configPath := ".gamehub.yaml"

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if outputCfg.JSON {
		PrintResult(map[string]string{"path": configPath, "status": "created"})
	} else {
		PrintInfo("Created config file: %s\n", configPath)
	}
	return nil
}
