package main

import (
	"errors"
	"fmt"
	"os"

	"trailscore/internal/service"
)

// Exit codes for different failure modes
const (
	ExitSuccess      = 0 // Scored, or the command finished
	ExitInsufficient = 1 // A requested day lacked the data to score
	ExitError        = 2 // Configuration or runtime error
)

func main() {
	os.Exit(exitCode(execute()))
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintln(os.Stderr, "Error:", err)

	if errors.Is(err, service.ErrInsufficientData) {
		return ExitInsufficient
	}
	return ExitError
}
