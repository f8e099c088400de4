// Command baduk runs a single bounded search from an empty board and prints
// the chosen move plus the root's per-child policy/visit table, the same
// shape main2.go's flag-driven entry point gave the teacher's MCTS, pointed
// at this package's board/eval/search stack instead of risk-agent's
// gamemaster/engine.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"baduk/board"
	"baduk/config"
	"baduk/eval"
	"baduk/metrics"
	"baduk/search"
	"baduk/tree"
)

func main() {
	boardSize := flag.Int("size", 9, "board side length")
	komi := flag.Float64("komi", 7.5, "komi added to black's area score")
	goroutines := flag.Int("goroutines", 4, "number of goroutines for parallel playouts")
	episodes := flag.Int("episodes", 0, "number of playouts to run (0 to use -duration instead)")
	duration := flag.Duration("duration", 5*time.Second, "wall-clock budget for the search, ignored if -episodes is set")
	dumbPass := flag.Bool("dumb-pass", false, "always offer pass as a legal move during expansion")
	verbose := flag.Bool("verbose", false, "log at debug level")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg := config.New(config.WithBoardSize(*boardSize), config.WithDumbPass(*dumbPass))
	state := board.NewState(*boardSize, *komi)
	evaluator := eval.NewHeuristic()

	options := []search.Option{
		search.WithGoroutines(*goroutines),
		search.WithMetrics(metrics.NewCollector()),
	}
	if *episodes > 0 {
		options = append(options, search.WithEpisodes(*episodes))
	} else {
		options = append(options, search.WithDuration(*duration))
	}

	s := search.New(cfg, evaluator, options...)

	log.Info().
		Int("board_size", *boardSize).
		Float64("komi", *komi).
		Int("goroutines", *goroutines).
		Msg("starting search")

	move := s.Run(state)

	printResult(state, move)
	printPolicyTable(s.Root(), state.ToMove())
}

// printResult reports the chosen move in board coordinates where possible,
// falling back to the raw vertex id for a GameState this command doesn't
// know the shape of.
func printResult(state tree.GameState, move tree.Vertex) {
	if move == tree.PassVertex {
		fmt.Println("chosen move: pass")
		return
	}

	s, ok := state.(*board.State)
	if !ok {
		fmt.Printf("chosen move: vertex %d\n", move)
		return
	}
	x, y := int(move)%s.BoardSize(), int(move)/s.BoardSize()
	fmt.Printf("chosen move: (%d, %d)\n", x, y)
}

// printPolicyTable lists the root's children ranked by visit count, the
// closest stand-in for Leela Zero's own per-move verbose dump this
// reference evaluator's policy output supports.
func printPolicyTable(root *tree.Node, color tree.Color) {
	root.SortChildren(color)
	fmt.Println("move  visits  prior")
	for _, child := range root.Children() {
		move := "pass"
		if child.Move() != tree.PassVertex {
			move = fmt.Sprintf("%d", child.Move())
		}
		fmt.Printf("%-5s %6d  %.4f\n", move, child.Visits(), child.Policy())
	}
}
