// Command extract runs the keyword extraction pipeline against a single
// invention disclosure from the terminal, serving the validation gate
// interactively. Useful for prompt tuning without a running service.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ng-vanquang/priorart-p-dev/internal/config"
	"github.com/ng-vanquang/priorart-p-dev/internal/extraction"
)

func main() {
	var (
		mock = flag.Bool("mock", false, "Use canned adapters instead of live services")
		file = flag.String("file", "", "Read the invention disclosure from a file")
	)
	flag.Parse()

	input, err := readInput(*file, flag.Args())
	if err != nil {
		log.Fatal("read input failed: ", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	machine, err := extraction.NewMachine(buildAdapters(cfg, *mock), extraction.Options{
		StageTimeout: cfg.Pipeline.StageTimeoutDuration(),
		SearchLimit:  cfg.Pipeline.SearchLimit,
		ScoreWorkers: cfg.Pipeline.ScoreWorkers,
		Logger:       logger,
	})
	if err != nil {
		log.Fatal("build pipeline failed: ", err)
	}

	ctx := context.Background()
	run := extraction.Start(ctx, machine, input)
	console := bufio.NewReader(os.Stdin)

	for {
		snap, terminal := awaitGate(run)
		if terminal {
			break
		}

		printKeywords(snap)

		decision := promptDecision(console)
		if err := run.Submit(decision); err != nil {
			fmt.Fprintf(os.Stderr, "decision rejected: %v\n", err)
		}
	}

	state, err := run.Wait(ctx)
	if err != nil {
		log.Fatal("run failed: ", err)
	}

	output, err := json.MarshalIndent(state.RankedResults, "", "  ")
	if err != nil {
		log.Fatal("encode results failed: ", err)
	}
	fmt.Println(string(output))
}

func readInput(file string, args []string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// awaitGate blocks until the run suspends at the validation gate or
// terminates. Returns terminal=true when no more decisions are needed.
func awaitGate(run *extraction.Run) (extraction.Snapshot, bool) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-run.Done():
			return run.Snapshot(), true
		case <-ticker.C:
			snap := run.Snapshot()
			if snap.Status == extraction.StatusAwaitingValidation {
				return snap, false
			}
		}
	}
}

func printKeywords(snap extraction.Snapshot) {
	kw := snap.State.SeedKeywords
	if kw == nil {
		return
	}

	fmt.Println("\nProposed seed keywords:")
	fmt.Printf("  problem/purpose:   %s\n", strings.Join(kw.ProblemPurpose, ", "))
	fmt.Printf("  object/system:     %s\n", strings.Join(kw.ObjectSystem, ", "))
	fmt.Printf("  environment/field: %s\n", strings.Join(kw.EnvironmentField, ", "))
}
