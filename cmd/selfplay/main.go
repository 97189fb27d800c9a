// Command selfplay runs a bot-versus-bot match on the engine with no server
// and prints the match history.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/FCamaggi/aLittleWordy/wordy"
	"github.com/FCamaggi/aLittleWordy/wordy/npc"
)

const roomCode = "SELF"

type options struct {
	Seed     uint64
	First    string
	Second   string
	MaxMoves int
}

func main() {
	var opts options
	flag.Uint64Var(&opts.Seed, "seed", 0, "random seed (0 => time-based)")
	flag.StringVar(&opts.First, "a", "cautious", "persona of the first bot")
	flag.StringVar(&opts.Second, "b", "reckless", "persona of the second bot")
	flag.IntVar(&opts.MaxMoves, "max", 2000, "give up after this many moves")
	verbose := flag.Bool("v", false, "log every bot decision")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if opts.Seed == 0 {
		opts.Seed = uint64(time.Now().UnixNano())
	}
	snap, err := run(os.Stdout, opts)
	if err != nil {
		log.Fatal().Err(err).Uint64("seed", opts.Seed).Msg("self-play failed")
	}
	log.Info().Uint64("seed", opts.Seed).Str("phase", string(snap.Phase)).Msg("self-play finished")
}

// run plays one match and writes its history, oldest line first, to w.
func run(w io.Writer, opts options) (wordy.Snapshot, error) {
	rules := wordy.DefaultConfig()
	rules.Seed = opts.Seed
	rules.PendingTimeout = 0

	match, err := wordy.NewMatch(roomCode, rules)
	if err != nil {
		return wordy.Snapshot{}, err
	}

	// The manager keeps one bot per room, so each side gets its own.
	registry := npc.DefaultRegistry()
	sides := []*npc.Manager{
		npc.NewManager(registry, opts.Seed+1, 0, 0),
		npc.NewManager(registry, opts.Seed+2, 0, 0),
	}
	bots := make([]*npc.Bot, len(sides))
	for i, persona := range []string{opts.First, opts.Second} {
		if bots[i], err = sides[i].Spawn(match, persona); err != nil {
			return match.Snapshot(), err
		}
	}
	for _, m := range sides {
		if _, err := m.Prepare(match); err != nil {
			return match.Snapshot(), err
		}
	}
	if match.Phase() != wordy.PhaseGameLoop {
		return match.Snapshot(), fmt.Errorf("match did not start, phase %s", match.Phase())
	}

	rejected := 0
	for moves := 0; moves < opts.MaxMoves && match.Phase() == wordy.PhaseGameLoop; moves++ {
		snap := match.Snapshot()
		for i, m := range sides {
			d, ok := m.Decide(roomCode, snap)
			if !ok {
				continue
			}
			if err := npc.Apply(match, bots[i].Seat, d); err != nil {
				rejected++
				log.Debug().Err(err).Str("bot", bots[i].Persona.Name).Msg("move rejected")
			}
			break
		}
	}

	snap := match.Snapshot()
	for i := len(snap.History) - 1; i >= 0; i-- {
		fmt.Fprintln(w, snap.History[i])
	}
	if snap.Phase != wordy.PhaseGameOver {
		return snap, fmt.Errorf("no winner after %d moves", opts.MaxMoves)
	}
	fmt.Fprintf(w, "\nWinner: %s (%s), %d rejected moves\n",
		snap.Players[snap.Winner].Name, snap.WinReason, rejected)
	return snap, nil
}
