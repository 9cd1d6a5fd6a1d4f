package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/AgentShepherd/safetynet/internal/config"
	"github.com/AgentShepherd/safetynet/internal/hook"
	"github.com/AgentShepherd/safetynet/internal/logger"
	"github.com/AgentShepherd/safetynet/internal/rules"
)

// Version is set at build time via ldflags: -X main.Version=x.y.z
var Version = "1.0.0"

var log = logger.New("main")

func main() {
	os.Exit(run())
}

// run always returns 0. A non-zero exit would make the host treat the hook
// itself as broken and could block every command; allow is the only safe
// failure mode for internal errors, deny only ever comes from analysis.
func run() int {
	configPath := flag.String("config", config.DefaultConfigPath(), "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("safetynet %s\n", Version)
		return 0
	}

	cfg := config.Load(*configPath)
	setupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		log.Warn("%v", err)
	}

	analyzer, err := rules.NewAnalyzer(rules.Options{
		ExtraSensitiveDirs:      cfg.Rules.SensitiveDirs,
		ExtraSensitiveFiles:     cfg.Rules.SensitiveFiles,
		ExtraSafeDeletePrefixes: cfg.Rules.SafeDeletePrefixes,
	})
	if err != nil {
		log.Error("policy compilation failed: %v", err)
		return 0
	}

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Error("reading stdin: %v", err)
		return 0
	}

	resp := hook.Decide(input, analyzer, cfg.Strict)
	if resp == nil {
		return 0
	}

	out, err := json.Marshal(resp)
	if err != nil {
		log.Error("encoding response: %v", err)
		return 0
	}
	fmt.Println(string(out))
	return 0
}

func setupLogger(cfg *config.Config) {
	if level, err := logger.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetGlobalLevel(level)
	}
	// Logs go to stderr; only color them for a human at a terminal.
	colored := !cfg.NoColor && term.IsTerminal(int(os.Stderr.Fd()))
	logger.SetColored(colored)
}
