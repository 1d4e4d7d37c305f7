package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var initYes bool

const initConfigTemplate = `# Sailfin project configuration
output_path: ""
color: true
workers: 4
cache:
  backend: sqlite
`

const initMainTemplate = `fn main() -> void {
    print.info("hello from %s!");
}
`

// NewInitCommand creates the init command: an interactive project
// scaffold.
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a new Sailfin project",
		Long: `Create a sailfin.yaml and an entry source file. Prompts for the
project name and entry file; --yes accepts the defaults without
prompting.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
	cmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Accept defaults without prompting")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	projectName := filepath.Base(mustAbsDir(dir))
	entryFile := "main.sfn"

	if !initYes {
		questions := []*survey.Question{
			{
				Name:     "name",
				Prompt:   &survey.Input{Message: "Project name:", Default: projectName},
				Validate: survey.Required,
			},
			{
				Name:   "entry",
				Prompt: &survey.Input{Message: "Entry file:", Default: entryFile},
			},
		}
		answers := struct {
			Name  string
			Entry string
		}{}
		if err := survey.Ask(questions, &answers); err != nil {
			return err
		}
		projectName = answers.Name
		if answers.Entry != "" {
			entryFile = answers.Entry
		}
	}

	configPath := filepath.Join(dir, "sailfin.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}
	if err := os.WriteFile(configPath, []byte(initConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write sailfin.yaml: %w", err)
	}

	entryPath := filepath.Join(dir, entryFile)
	if _, err := os.Stat(entryPath); os.IsNotExist(err) {
		source := fmt.Sprintf(initMainTemplate, projectName)
		if err := os.WriteFile(entryPath, []byte(source), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", entryFile, err)
		}
	}

	color.New(color.FgGreen, color.Bold).Fprintf(cmd.OutOrStdout(), "Initialized %s\n", projectName)
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n  %s\n\nNext: sailfin run %s\n", configPath, entryPath, entryPath)
	return nil
}

func mustAbsDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}
