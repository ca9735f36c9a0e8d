package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/chessplay/luna/internal/engine"
	"github.com/chessplay/luna/internal/storage"
	"github.com/chessplay/luna/internal/uci"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	// Create engine with default hash table size; "setoption name Hash"
	// resizes it once the GUI sends its preference.
	eng := engine.NewEngine(16)

	store, err := storage.NewStorage()
	if err != nil {
		log.Printf("Warning: option persistence unavailable: %v", err)
		store = nil
	}

	protocol := uci.New(eng)
	if store != nil {
		protocol.SetStorage(store)
	}
	protocol.Run()
}
