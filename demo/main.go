// Command demo runs the scripted simulations locally and prints every
// message they report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/manifoldco/promptui"

	"github.com/wfunc/turnsim/config"
	"github.com/wfunc/turnsim/logger"
	"github.com/wfunc/turnsim/rng"
	"github.com/wfunc/turnsim/scenario"
	"github.com/wfunc/turnsim/state"
)

const runAll = "all"

func main() {
	configDir := flag.String("config", ".", "directory holding config.yaml")
	name := flag.String("scenario", "", "scenario to run, or \"all\"; empty opens a menu")
	list := flag.Bool("list", false, "list scenarios and exit")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		logger.Init("info")
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Init(cfg.Log.Level)
	defer logger.Sync()

	if *list {
		for _, s := range scenario.All() {
			fmt.Printf("%-12s %s\n", s.Name, s.Description)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := scenario.Env{
		Out:    state.WriterReporter{W: os.Stdout},
		Source: rng.New(cfg.Sim.Seed),
		Config: cfg,
	}

	if *name != "" {
		if err := run(ctx, *name, env); err != nil {
			logger.Log.Errorf("Scenario %s failed: %v", *name, err)
			os.Exit(1)
		}
		return
	}

	items := append(scenario.Names(), runAll)
	for {
		sel := promptui.Select{Label: "Scenario", Items: items, Size: len(items)}
		_, choice, err := sel.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return
		}
		if err != nil {
			logger.Log.Errorf("Prompt failed: %v", err)
			return
		}
		if err := run(ctx, choice, env); err != nil {
			logger.Log.Errorf("Scenario %s failed: %v", choice, err)
		}
		fmt.Println()
	}
}

func run(ctx context.Context, name string, env scenario.Env) error {
	if name != runAll {
		return scenario.Run(ctx, name, env)
	}
	for _, n := range scenario.Names() {
		if err := scenario.Run(ctx, n, env); err != nil {
			return fmt.Errorf("%s: %w", n, err)
		}
		env.Out.Report("")
	}
	return nil
}
