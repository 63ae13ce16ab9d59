package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitlens/internal/logger"
)

var (
	// ErrHabitNotFound is returned by storage lookups for a missing habit
	ErrHabitNotFound = errors.New("habit not found")
	// ErrChallengeNotFound is returned by storage lookups for a missing challenge
	ErrChallengeNotFound = errors.New("challenge not found")
	// ErrNotInitialized is returned when the store has not been initialized
	ErrNotInitialized = errors.New("storage not initialized, run 'habitlens init' first")
	// ErrInvalid wraps struct validation failures
	ErrInvalid = errors.New("validation failed")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
