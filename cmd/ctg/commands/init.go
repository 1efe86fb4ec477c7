package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/l3aro/contract-graph/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize ctg configuration interactively",
	Long: `Guides you through setting up ctg configuration step by step.
Creates a config file with source extensions, artifact pattern, and
concurrency settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit()
	},
}

func runInit() error {
	defaults := config.DefaultConfig()

	extensions := strings.Join(defaults.Extensions, ",")
	pattern := defaults.CFGPattern
	jobsStr := strconv.Itoa(defaults.Jobs)
	verbose := defaults.Verbose

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Source extensions").
				Description("Comma-separated extensions the ast stage parses").
				Placeholder(".rs,.ts,.js").
				Value(&extensions),
			huh.NewInput().
				Title("AST artifact pattern").
				Description("File name suffix the cfg stage picks up").
				Placeholder(".rs.ast.json").
				Value(&pattern),
			huh.NewInput().
				Title("Concurrent jobs").
				Description("How many files to process in parallel").
				Placeholder("1").
				Value(&jobsStr),
			huh.NewConfirm().
				Title("Verbose logging").
				Affirmative("Yes").
				Negative("No").
				Value(&verbose),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	var saveLocationChoice string
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Save Configuration").
				Description("Where to save the configuration file?").
				Options(
					huh.NewOption("Global (~/.ctg/config.yaml)", "global"),
					huh.NewOption("Project (./.ctg/config.yaml)", "project"),
				).
				Value(&saveLocationChoice),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	var configPath string
	if saveLocationChoice == "global" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		configPath = filepath.Join(home, ".ctg", "config.yaml")
	} else {
		configPath = ".ctg/config.yaml"
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Config file exists").
					Description(fmt.Sprintf("Overwrite existing config at %s?", configPath)).
					Affirmative("Overwrite").
					Negative("Cancel").
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	cfg.Extensions = splitExtensions(extensions)
	cfg.CFGPattern = pattern
	cfg.Verbose = verbose
	if jobs, err := strconv.Atoi(strings.TrimSpace(jobsStr)); err == nil {
		cfg.Jobs = jobs
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	fmt.Println("\n=== Configuration Preview ===")
	fmt.Printf("Config path: %s\n", configPath)
	fmt.Printf("Extensions: %s\n", strings.Join(cfg.Extensions, ", "))
	fmt.Printf("Artifact pattern: %s\n", cfg.CFGPattern)
	fmt.Printf("Jobs: %d\n", cfg.Jobs)
	fmt.Printf("Verbose: %v\n", cfg.Verbose)
	fmt.Println("=============================")

	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("Configuration saved to: %s\n", configPath)

	return nil
}

// splitExtensions splits the comma-separated answer into trimmed entries.
func splitExtensions(v string) []string {
	var out []string
	for _, entry := range strings.Split(v, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

func init() {
	RootCmd.AddCommand(initCmd)
}
