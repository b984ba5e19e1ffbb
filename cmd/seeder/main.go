package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/classpulse/seeder/internal/classpulse"
	"github.com/classpulse/seeder/internal/config"
	"github.com/classpulse/seeder/internal/seed"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	seederCfg := cfg.Seeder
	flag.StringVar(&seederCfg.BaseURL, "base-url", seederCfg.BaseURL, "backend API base URL")
	flag.StringVar(&seederCfg.FrontendURL, "frontend-url", seederCfg.FrontendURL, "frontend URL for the admin link (default: same as base URL)")
	flag.StringVar(&seederCfg.SessionID, "session-id", seederCfg.SessionID, "existing session ID; omit to create a new session")
	flag.StringVar(&seederCfg.Question, "question", seederCfg.Question, "question for a new session (ignored with -session-id)")
	flag.IntVar(&seederCfg.Count, "count", seederCfg.Count, "number of fake responses to submit")
	flag.DurationVar(&seederCfg.Delay, "delay", seederCfg.Delay, "pause between submissions")
	flag.BoolVar(&seederCfg.NoDelay, "no-delay", seederCfg.NoDelay, "submit all at once with no delay")
	randSeed := flag.Uint64("seed", 0, "random seed, 0 derives one from the clock")
	flag.Parse()

	seederCfg.Normalize()
	if err := seederCfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := *randSeed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(s, uint64(os.Getpid())))

	runner := &seed.Runner{
		Client:  classpulse.NewClient(seederCfg.BaseURL),
		Names:   seed.NewNameDeck(rng),
		Answers: seed.NewSynthesizer(rng),
		Out:     os.Stdout,
	}

	opts := seed.Options{
		FrontendURL: seederCfg.FrontendURL,
		SessionID:   seederCfg.SessionID,
		Question:    seederCfg.Question,
		Count:       seederCfg.Count,
		Delay:       seederCfg.Delay,
		NoDelay:     seederCfg.NoDelay,
	}

	if _, err := runner.Run(ctx, opts); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Fatal("run interrupted, already-submitted responses are kept")
		}
		log.Fatalf("Error: %v", err)
	}
}
