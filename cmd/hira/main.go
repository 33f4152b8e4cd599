// Command hira is the recruiting pipeline CLI. It wires the sqlite
// storage, file-based configuration, the directory identity resolver,
// and the core services into the cobra command tree.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/hira-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/hira-cli/internal/adapters/driven/identity"
	"github.com/custodia-labs/hira-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/hira-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/hira-cli/internal/core/domain"
	"github.com/custodia-labs/hira-cli/internal/core/ports/driving"
	"github.com/custodia-labs/hira-cli/internal/core/services"
	"github.com/custodia-labs/hira-cli/internal/logger"
)

// version is overridden at build time via ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hira: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	boardSource, err := file.NewBoardConfigSource("")
	if err != nil {
		return fmt.Errorf("opening board config: %w", err)
	}
	boardCfg, err := boardSource.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading board config: %w", err)
	}
	registry, err := services.NewStageRegistry(boardCfg)
	if err != nil {
		return fmt.Errorf("building stage registry: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	audit := services.NewAuditRecorder(store.AuditStore())
	go func() {
		if err := audit.Start(ctx); err != nil {
			logger.Warn("audit retry loop stopped: %v", err)
		}
	}()
	defer audit.Stop()

	board := services.NewBoardService(store.PipelineStore(), registry, audit)
	proposals := services.NewProposalService(store.ProposalStore(), audit)

	// Disclosure needs the directory API; without credentials the
	// disclose and undo commands report it as unconfigured.
	var disclosure driving.DisclosureService
	directoryURL := configStore.GetString("directory.url")
	directoryToken := configStore.GetString("directory.token")
	if directoryURL != "" && directoryToken != "" {
		resolver, err := identity.NewResolver(identity.Config{
			BaseURL: directoryURL,
			Token:   directoryToken,
		})
		if err != nil {
			return fmt.Errorf("configuring identity resolver: %w", err)
		}
		disclosure = services.NewDisclosureService(proposals, board, board, resolver)
	}

	// Pick up board.toml edits without a restart. A bad edit keeps the
	// last valid registry.
	stopWatch, err := boardSource.Watch(ctx, func(cfg domain.BoardConfig) {
		reg, regErr := services.NewStageRegistry(cfg)
		if regErr != nil {
			logger.Warn("ignoring board config change: %v", regErr)
			return
		}
		board.SetRegistry(reg)
		logger.Debug("board config reloaded from %s", boardSource.Path())
	})
	if err != nil {
		logger.Warn("board config watch unavailable: %v", err)
	} else {
		defer stopWatch()
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Board:       board,
		Proposals:   proposals,
		Disclosure:  disclosure,
		Audit:       audit,
		ConfigStore: configStore,
	})

	return cli.ExecuteContext(ctx)
}
