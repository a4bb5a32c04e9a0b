// Package main provides an operator CLI that drives the door game engines
// against the configured database.
//
// Usage:
//
//	doorctl [-config path] create <handle> <M|F>
//	doorctl [-config path] look <id>
//	doorctl [-config path] move <id> <n|s|e|w>
//	doorctl [-config path] attack <attacker-id> <defender-id>
//	doorctl [-config path] reset <id>
//	doorctl [-config path] inbox <id>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/doorgame/internal/clock"
	"github.com/cory-johannsen/doorgame/internal/config"
	"github.com/cory-johannsen/doorgame/internal/game/catalog"
	"github.com/cory-johannsen/doorgame/internal/game/character"
	"github.com/cory-johannsen/doorgame/internal/game/dice"
	"github.com/cory-johannsen/doorgame/internal/game/gameerr"
	"github.com/cory-johannsen/doorgame/internal/game/world"
	"github.com/cory-johannsen/doorgame/internal/gameserver"
	"github.com/cory-johannsen/doorgame/internal/observability"
	"github.com/cory-johannsen/doorgame/internal/storage/postgres"
)

// errUsage marks a malformed command line.
var errUsage = errors.New("usage")

func main() {
	start := time.Now()
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config path] <create|look|move|attack|reset|inbox> args...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "doorctl")
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	reg, err := catalog.LoadFromDir(cfg.Content.CatalogDir)
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}
	grids, err := world.LoadGridsFromDir(cfg.Content.MapsDir)
	if err != nil {
		logger.Fatal("loading maps", zap.Error(err))
	}
	wm, err := world.NewManager(grids, reg)
	if err != nil {
		logger.Fatal("building world", zap.Error(err))
	}
	weapons, armor, terrain, monsters := reg.Counts()
	logger.Debug("content loaded",
		zap.Int("grids", wm.GridCount()),
		zap.Int("cells", wm.CellCount()),
		zap.Int("weapons", weapons),
		zap.Int("armor", armor),
		zap.Int("terrain", terrain),
		zap.Int("monsters", monsters),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("creating database pool", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Health(ctx, 5*time.Second); err != nil {
		logger.Fatal("database unreachable",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Name),
			zap.Error(err),
		)
	}

	rng := dice.CryptoFactory()
	if cfg.Game.Seed != 0 {
		rng = dice.SeededFactory(cfg.Game.Seed)
	}

	svc := gameserver.NewService(wm, reg, postgres.NewStore(pool.DB(), cfg.Game.LockTimeout), cfg.Game, rng, clock.System{}, logger)

	err = run(ctx, svc, wm, flag.Args(), os.Stdout)
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	case gameerr.IsRuleViolation(err):
		// Rule violations are player-facing outcomes, not failures.
		fmt.Fprintln(os.Stdout, err)
		os.Exit(1)
	case err != nil:
		logger.Fatal("command failed", zap.String("command", flag.Arg(0)), zap.Error(err))
	}
	fmt.Fprintf(os.Stdout, "[%s]\n", time.Since(start))
}

// run executes one subcommand against svc and writes the result to out.
//
// Precondition: args[0] names the subcommand.
// Postcondition: Returns an error wrapping errUsage for malformed arguments.
func run(ctx context.Context, svc *gameserver.Service, wm *world.Manager, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "create":
		if len(rest) != 2 {
			return fmt.Errorf("%w: create <handle> <M|F>", errUsage)
		}
		gender := character.Gender(strings.ToUpper(rest[1]))
		c, err := svc.Create(ctx, rest[0], gender)
		if err != nil {
			return err
		}
		renderCharacter(out, c)
		return nil

	case "look":
		id, err := parseIDs(cmd, rest, 1)
		if err != nil {
			return err
		}
		v, err := svc.Look(ctx, id[0])
		if err != nil {
			return err
		}
		renderView(out, wm, v)
		return nil

	case "move":
		if len(rest) != 2 {
			return fmt.Errorf("%w: move <id> <n|s|e|w>", errUsage)
		}
		id, err := parseIDs(cmd, rest[:1], 1)
		if err != nil {
			return err
		}
		dir, ok := world.ParseDirection(rest[1])
		if !ok {
			return fmt.Errorf("%w: unknown direction %q", errUsage, rest[1])
		}
		res, err := svc.Move(ctx, id[0], dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "You travel %s to %s.\n", dir.Name(), res.To)
		return nil

	case "attack":
		ids, err := parseIDs(cmd, rest, 2)
		if err != nil {
			return err
		}
		res, err := svc.Attack(ctx, ids[0], ids[1])
		if err != nil {
			return err
		}
		fmt.Fprint(out, res.Attacker)
		return nil

	case "reset":
		id, err := parseIDs(cmd, rest, 1)
		if err != nil {
			return err
		}
		c, err := svc.Reset(ctx, id[0])
		if err != nil {
			return err
		}
		renderCharacter(out, c)
		return nil

	case "inbox":
		id, err := parseIDs(cmd, rest, 1)
		if err != nil {
			return err
		}
		entries, err := svc.Inbox(ctx, id[0])
		if err != nil {
			return err
		}
		renderInbox(out, entries)
		return nil

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func parseIDs(cmd string, args []string, n int) ([]int64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%w: %s takes %d character id(s)", errUsage, cmd, n)
	}
	ids := make([]int64, n)
	for i, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: invalid character id %q", errUsage, a)
		}
		ids[i] = id
	}
	return ids, nil
}
