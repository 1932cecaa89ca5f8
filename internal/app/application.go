package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/hcengineering/huly-coder/internal/config"
	"github.com/hcengineering/huly-coder/internal/core"
	"github.com/hcengineering/huly-coder/internal/eventbus"
	"github.com/hcengineering/huly-coder/internal/logging"
	"github.com/hcengineering/huly-coder/internal/models"
	"github.com/hcengineering/huly-coder/internal/process"
	"github.com/hcengineering/huly-coder/internal/provider"
	"github.com/hcengineering/huly-coder/internal/tools"
)

// Options adjust application startup.
type Options struct {
	// SkipLoadMessages starts with an empty conversation instead of the
	// persisted history.
	SkipLoadMessages bool
	// Workspace overrides the configured workspace directory.
	Workspace string
}

// Application wires the config, event bus, process registry, tool registry,
// provider, and orchestrator together and owns their lifecycle.
type Application struct {
	config    *config.Config
	logger    *zap.Logger
	eventBus  *eventbus.EventBus
	processes *process.Registry
	agent     *core.Agent
	history   []models.Message
	cancel    context.CancelFunc
}

func NewApplication(opts Options) (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Workspace != "" {
		if err := cfg.SetWorkspace(opts.Workspace); err != nil {
			return nil, err
		}
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogDir())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if !cfg.IsValid() {
		logger.Warn("no API key configured; add one with the profile command")
	}

	eb := eventbus.NewEventBus()
	processes := process.NewRegistry(logger)

	registry := tools.NewRegistry()
	tools.RegisterBuiltinTools(registry, cfg.Workspace, processes, eb)

	prov := provider.NewOpenAI(
		cfg.GetAPIKey(),
		cfg.GetBaseURL(),
		cfg.GetModel(),
		core.SystemPrompt(cfg.Workspace, cfg.UserInstructions),
		registry.GetToolsSpec(),
	)

	var history []models.Message
	if !opts.SkipLoadMessages {
		history, err = core.LoadHistory(cfg.HistoryPath())
		if err != nil {
			logger.Warn("failed to load history, starting empty", zap.Error(err))
			history = nil
		}
	}

	agent := core.NewAgent(cfg, eb, registry, processes, prov, logger, history)

	return &Application{
		config:    cfg,
		logger:    logger,
		eventBus:  eb,
		processes: processes,
		agent:     agent,
		history:   history,
	}, nil
}

// Start runs the orchestrator in the background and blocks on the UI.
func (app *Application) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	go app.agent.Run(ctx)

	p := tea.NewProgram(NewModel(app.eventBus, app.history), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (app *Application) Stop() {
	if app.cancel != nil {
		app.cancel()
	}
	app.processes.StopAll()
	app.eventBus.Close()
	app.logger.Sync()
}
