package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
)

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell over the other subcommands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveShell(prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "primare> ", "shell prompt")
	return cmd
}

func runInteractiveShell(prompt string) error {
	historyFile := filepath.Join(os.TempDir(), "primarectl-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("Interactive shell. 'help' lists commands, 'exit' leaves.")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Println()
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "exit", "quit":
			return nil
		case "help":
			printShellHelp()
			continue
		}

		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Printf("parse error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		if tokens[0] == "shell" {
			fmt.Println("already in a shell; type other commands or 'exit'")
			continue
		}
		if err := executeLine(tokens); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}

// executeLine runs one shell line through a fresh command tree so flag
// state never leaks between lines.
func executeLine(tokens []string) error {
	root := newRootCmd()
	root.SetArgs(tokens)
	return root.Execute()
}

func printShellHelp() {
	fmt.Print(`Commands:
  volume get | set <0-100> | up | down
  mute   get | on | off | toggle
  source get | set <01-07>
  power  on | off | toggle
  status
  apply [--degrade]
  exit
`)
}
