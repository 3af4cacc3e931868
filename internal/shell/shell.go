// Package shell provides the interactive analysis REPL: one session from
// file load through one or more analysis triggers.
package shell

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/rkatmsl/smaianalysis/internal/config"
	"github.com/rkatmsl/smaianalysis/internal/docx"
	"github.com/rkatmsl/smaianalysis/internal/prompt"
	"github.com/rkatmsl/smaianalysis/internal/session"
)

// Shell manages an interactive analysis session.
type Shell struct {
	Session     *session.Session
	HistoryFile string
	StartTime   time.Time
	analyses    int
}

// New creates a shell around the given session.
func New(sess *session.Session) *Shell {
	histFile := filepath.Join(config.Dir(), "shell_history")
	os.MkdirAll(filepath.Dir(histFile), 0755)

	return &Shell{
		Session:     sess,
		HistoryFile: histFile,
		StartTime:   time.Now(),
	}
}

// Run starts the REPL loop. Blocks until 'exit' or Ctrl+D.
func (sh *Shell) Run(ctx context.Context) error {
	completer := readline.NewPrefixCompleter(
		readline.PcItem("load"),
		readline.PcItem("preview"),
		readline.PcItem("question"),
		readline.PcItem("provider",
			readline.PcItem("gemini"),
			readline.PcItem("openai"),
		),
		readline.PcItem("key"),
		readline.PcItem("analyze"),
		readline.PcItem("export"),
		readline.PcItem("state"),
		readline.PcItem("reset"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sma> ",
		HistoryFile:     sh.HistoryFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("Social Media Analyzer — Interactive Session")
	fmt.Println("Type 'help' for commands, 'exit' to quit.")
	fmt.Println()

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == "exit" || line == "quit" {
			break
		}

		if err := sh.Eval(ctx, line); err != nil {
			color.Red("Error: %s", err)
		}
	}

	elapsed := time.Since(sh.StartTime).Round(time.Second)
	fmt.Printf("\nSession ended. %d analyses run in %s.\n", sh.analyses, elapsed)
	return nil
}

// Eval executes one shell command line.
func (sh *Shell) Eval(ctx context.Context, line string) error {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "help":
		sh.printHelp()
	case "load":
		if rest == "" {
			return fmt.Errorf("usage: load <file.xlsx>")
		}
		if err := sh.Session.LoadFile(rest); err != nil {
			return err
		}
		t := sh.Session.Table()
		fmt.Printf("Loaded %s — %s\n", rest, t.Summary())
	case "preview":
		sh.preview()
	case "question":
		if rest == "" {
			fmt.Println(sh.Session.Question())
			return nil
		}
		sh.Session.SetQuestion(rest)
		fmt.Println("Question set.")
	case "provider":
		if rest == "" {
			fmt.Println(sh.Session.Provider())
			return nil
		}
		if err := sh.Session.SelectProvider(rest); err != nil {
			return err
		}
		fmt.Printf("Provider set to %s. Previous credential cleared.\n", rest)
	case "key":
		if rest == "" {
			return fmt.Errorf("usage: key <api-key>")
		}
		sh.Session.SetCredential(rest)
		fmt.Println("Credential set for this session.")
	case "analyze":
		return sh.analyze(ctx)
	case "export":
		return sh.export(rest)
	case "state":
		sh.printState()
	case "reset":
		sh.Session.Reset()
		fmt.Println("Session reset.")
	default:
		return fmt.Errorf("unknown command %q — type 'help' for commands", cmd)
	}
	return nil
}

func (sh *Shell) analyze(ctx context.Context) error {
	fmt.Println("Analyzing your social media data...")
	result, err := sh.Session.Analyze(ctx)
	if err != nil {
		return err
	}
	sh.analyses++

	color.Cyan("\nAnalysis Results")
	fmt.Println(result.Content)
	fmt.Println()
	return nil
}

func (sh *Shell) export(path string) error {
	result := sh.Session.Result()
	if result == nil {
		return fmt.Errorf("no analysis result to export — run 'analyze' first")
	}
	if path == "" {
		path = docx.FileName
	}

	data, err := docx.WriteReport(result.Content)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	fmt.Printf("Report written to %s\n", path)
	return nil
}

func (sh *Shell) preview() {
	t := sh.Session.Table()
	if t == nil {
		fmt.Println("No spreadsheet loaded. Use 'load <file.xlsx>'.")
		return
	}
	fmt.Printf("%s (%s)\n", sh.Session.FileName(), t.Summary())
	fmt.Println(strings.Join(t.Columns, " | "))
	for _, row := range t.Preview(5) {
		fmt.Println(strings.Join(row, " | "))
	}
	if t.RowCount() > 5 {
		fmt.Printf("... %d more rows\n", t.RowCount()-5)
	}
}

func (sh *Shell) printState() {
	fmt.Printf("State:    %s\n", sh.Session.State())
	fmt.Printf("Provider: %s\n", sh.Session.Provider())
	if sh.Session.HasCredential() {
		fmt.Println("Key:      set")
	} else {
		fmt.Println("Key:      not set")
	}
	if t := sh.Session.Table(); t != nil {
		fmt.Printf("Table:    %s (%s)\n", sh.Session.FileName(), t.Summary())
	} else {
		fmt.Println("Table:    none")
	}
	q := sh.Session.Question()
	if q == prompt.DefaultQuestion {
		fmt.Println("Question: (default analytical template)")
	} else if len(q) > 60 {
		fmt.Printf("Question: %.60s...\n", q)
	} else {
		fmt.Printf("Question: %s\n", q)
	}
}

func (sh *Shell) printHelp() {
	fmt.Println(`Commands:
  load <file>        Load a spreadsheet (.xlsx/.xlsm)
  preview            Show the loaded table's header and first rows
  question [text]    Show or set the analytical question
  provider [name]    Show or switch provider (gemini | openai)
  key <api-key>      Set the API key for the selected provider
  analyze            Run the analysis
  export [file]      Write the last result as a .docx
  state              Show session state
  reset              Discard table, question, and result
  exit               Quit`)
}
