package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"staffdesk/internal/capabilities"
	"staffdesk/internal/config"
	agentmodels "staffdesk/internal/domain/models/agent"
	"staffdesk/internal/domain/services"
	"staffdesk/internal/repository"
	"staffdesk/internal/service"
	"staffdesk/internal/service/agent"

	"github.com/joho/godotenv"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

const cliSessionID = "cli"

type CLI struct {
	ctx         context.Context
	agentSvc    services.AgentService
	employeeSvc services.EmployeeService
	scanner     *bufio.Scanner
	logger      *slog.Logger
}

// setupLogger creates a logger that writes warnings to the console and everything to a file
func setupLogger(cfg *config.Config) (*slog.Logger, string, error) {
	logsDir := cfg.LogDir
	if logsDir == "" {
		logsDir = "logs"
	}
	logFile, err := config.SetupLogFile(logsDir, cfg.LogMaxFiles)
	if err != nil {
		return nil, "", err
	}

	// Console: WARN level so replies stay readable
	consoleHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})

	// File: DEBUG level, formatted text for readability
	fileHandler := slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					return slog.String(slog.TimeKey, t.Format("2006-01-02 15:04:05"))
				}
			}
			if a.Key == slog.SourceKey {
				if src, ok := a.Value.Any().(*slog.Source); ok {
					return slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return a
		},
	})

	logger := slog.New(&multiHandler{
		handlers: []slog.Handler{consoleHandler, fileHandler},
	})
	return logger, logFile.Name(), nil
}

// multiHandler writes to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Printf("%s❌ Invalid configuration: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}

	logger, logFile, err := setupLogger(cfg)
	if err != nil {
		fmt.Printf("Failed to setup logger: %v\n", err)
		os.Exit(1)
	}
	logger.Info("session started", "log_file", logFile)

	ctx := context.Background()
	store, closeStore, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		fmt.Printf("%s❌ Failed to open database: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
	defer closeStore()

	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		fmt.Printf("%s❌ Failed to load capabilities: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}

	agentServices, err := agent.Setup(cfg, store, capabilityRegistry, logger)
	if err != nil {
		fmt.Printf("%s❌ Failed to setup agent: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}

	cli := &CLI{
		ctx:         ctx,
		agentSvc:    agentServices.Agent,
		employeeSvc: service.NewEmployeeService(store, agentServices.Agent, logger),
		scanner:     bufio.NewScanner(os.Stdin),
		logger:      logger,
	}

	cli.run(cfg)
}

func (cli *CLI) run(cfg *config.Config) {
	fmt.Printf("\n%s╔══════════════════════════════════════╗%s\n", colorCyan, colorReset)
	fmt.Printf("%s║    Staffdesk Agent CLI               ║%s\n", colorCyan, colorReset)
	fmt.Printf("%s╚══════════════════════════════════════╝%s\n", colorCyan, colorReset)
	fmt.Printf("%sModel: %s/%s | Database: %s%s\n", colorBlue, cfg.AIProvider, cfg.AIModel, cfg.DatabaseDriver, colorReset)
	cli.printHelp()

	for {
		fmt.Print("\nyou> ")
		if !cli.scanner.Scan() {
			fmt.Printf("\n%s✓ Goodbye!%s\n", colorGreen, colorReset)
			return
		}
		line := strings.TrimSpace(cli.scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "/quit", "/exit":
			fmt.Printf("%s✓ Goodbye!%s\n", colorGreen, colorReset)
			return
		case "/help":
			cli.printHelp()
		case "/history":
			cli.showHistory()
		case "/reset":
			cli.resetMemory()
		case "/list":
			cli.listEmployees()
		default:
			if strings.HasPrefix(line, "/") {
				fmt.Printf("%s⚠ Unknown command %s%s\n", colorYellow, line, colorReset)
				continue
			}
			cli.chat(line)
		}
	}
}

func (cli *CLI) printHelp() {
	fmt.Println("\nType a request, or one of:")
	fmt.Println("  /list      show all employees")
	fmt.Println("  /history   show the conversation the agent remembers")
	fmt.Println("  /reset     forget the conversation")
	fmt.Println("  /quit      exit")
}

func (cli *CLI) chat(message string) {
	start := time.Now()
	result, err := cli.agentSvc.Chat(cli.ctx, &services.ChatRequest{
		SessionID: cliSessionID,
		Message:   message,
	})
	if err != nil {
		fmt.Printf("%s❌ %v%s\n", colorRed, err, colorReset)
		return
	}

	color := colorGreen
	if !result.Success {
		color = colorRed
	}
	fmt.Printf("%sagent>%s %s\n", color, colorReset, result.Reply)
	fmt.Printf("%s(%s, %d round(s), %s)%s\n", colorBlue, result.State, result.Rounds, time.Since(start).Round(time.Millisecond), colorReset)
	if result.Mutated {
		fmt.Printf("%s• data changed%s\n", colorYellow, colorReset)
	}
}

func (cli *CLI) listEmployees() {
	employees, err := cli.employeeSvc.ListEmployees(cli.ctx)
	if err != nil {
		fmt.Printf("%s❌ %v%s\n", colorRed, err, colorReset)
		return
	}
	if len(employees) == 0 {
		fmt.Println("No employees.")
		return
	}
	for _, e := range employees {
		fmt.Printf("  %s\n", e.Describe())
	}
}

func (cli *CLI) showHistory() {
	turns, err := cli.agentSvc.History(cli.ctx, cliSessionID)
	if err != nil {
		fmt.Printf("%s❌ %v%s\n", colorRed, err, colorReset)
		return
	}
	if len(turns) == 0 {
		fmt.Println("Nothing remembered yet.")
		return
	}
	for i, turn := range turns {
		cli.displayTurn(i, turn)
	}
}

func (cli *CLI) displayTurn(index int, turn agentmodels.Turn) {
	content := turn.Content
	switch {
	case turn.Role == agentmodels.RoleInstruction:
		content = fmt.Sprintf("(%d characters)", len(content))
	case turn.Event != nil:
		content = turn.Event.Render()
	}
	fmt.Printf("%s[%d] %s%s %s\n", colorCyan, index, turn.Role, colorReset, content)
	for _, req := range turn.ToolRequests {
		fmt.Printf("      → %s %s\n", req.Name, req.Arguments)
	}
}

func (cli *CLI) resetMemory() {
	if err := cli.agentSvc.ResetMemory(cli.ctx, cliSessionID); err != nil {
		fmt.Printf("%s❌ %v%s\n", colorRed, err, colorReset)
		return
	}
	fmt.Printf("%s✓ Conversation cleared%s\n", colorGreen, colorReset)
}
