package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fortio.org/cli"
	"fortio.org/log"
	"github.com/lguibr/brickduel/audio"
	"github.com/lguibr/brickduel/bollywood"
	"github.com/lguibr/brickduel/game"
	"github.com/lguibr/brickduel/server"
	"github.com/lguibr/brickduel/utils"
)

func main() {
	os.Exit(Main())
}

func Main() int {
	addr := flag.String("addr", ":3001", "HTTP listen `address`")
	configPath := flag.String("config", "", "JSON config `file` overlaid on the defaults")
	soundsDir := flag.String("sounds", "sounds", "`Directory` holding <cue>.wav clips, empty to serve synthesized tones only")
	sampleRate := flag.Int("samplerate", 22050, "Sample rate of the synthesized fallback tones")
	tick := flag.Duration("tick", 0, "Game tick `period`, overrides the config when set")
	seed := flag.Uint64("seed", 0, "Random number generator `seed`, default (0) picks one per room")
	cli.Main()

	cfg, err := utils.LoadConfig(*configPath)
	if err != nil {
		return log.FErrf("Error loading config: %v", err)
	}
	if *tick > 0 {
		cfg.GameTickPeriod = *tick
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if err := cfg.Validate(); err != nil {
		return log.FErrf("Invalid config: %v", err)
	}

	bank, err := audio.NewBank(*sampleRate)
	if err != nil {
		return log.FErrf("Error building sound bank: %v", err)
	}
	if *soundsDir != "" {
		bank.LoadAsync(*soundsDir)
	}

	engine := bollywood.NewEngine()
	roomManagerPID := engine.Spawn(bollywood.NewProps(game.NewRoomManagerProducer(engine, cfg)))
	if roomManagerPID == nil {
		return log.FErrf("Failed to spawn the room manager")
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           server.New(engine, roomManagerPID, bank).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Infof("brickduel listening on %s (tick %v)", *addr, cfg.GameTickPeriod)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return log.FErrf("HTTP server failed: %v", err)
		}
	case <-ctx.Done():
		log.Infof("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnf("HTTP shutdown: %v", err)
	}
	engine.Shutdown(2 * time.Second)
	return 0
}
