package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/ahrav/go-ballot/internal/testutils"
)

func main() {
	var (
		candidates = flag.Int("candidates", 6, "Number of candidates to generate")
		voters     = flag.Int("voters", 100, "Number of voters to generate")
		culture    = flag.String("culture", testutils.CultureImpartial, "Preference culture: impartial or single-peaked")
		seed       = flag.Uint64("seed", 0, "Random seed (0 uses the current time)")
		outputPath = flag.String("output", "testdata/generated_election.yaml", "Output file path")
	)
	flag.Parse()

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	dataset, err := testutils.GenerateElectionDataset(*candidates, *voters, *culture, *seed)
	if err != nil {
		log.Fatalf("Failed to generate election: %v", err)
	}

	if err := testutils.SaveElectionDataset(dataset, *outputPath); err != nil {
		log.Fatalf("Failed to save election: %v", err)
	}

	stats := testutils.ComputeDatasetStatistics(dataset)

	fmt.Printf("Generated election:\n")
	fmt.Printf("- Path: %s\n", *outputPath)
	fmt.Printf("- Culture: %s (seed %d)\n", *culture, *seed)
	fmt.Printf("- Candidates: %d\n", stats.Candidates)
	fmt.Printf("- Voters: %d\n", stats.Voters)
	fmt.Printf("- First preferences: %v\n", stats.FirstPreferences)
	if stats.CondorcetWinner != "" {
		fmt.Printf("- Condorcet winner: %s\n", stats.CondorcetWinner)
	} else {
		fmt.Printf("- Condorcet winner: none\n")
	}
}
