package main

import (
	"fmt"
	"os"

	"github.com/quizkeeper/backend/internal/simulation"
)

func main() {
	if err := simulation.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "simulation failed:", err)
		os.Exit(1)
	}
}
