package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Errors accumulates multiple errors so that config loading can report
// every missing variable at once instead of failing one at a time.
type Errors []error

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Add appends an error to the accumulator.
func (e *Errors) Add(err error) {
	*e = append(*e, err)
}

// RequireEnv retrieves an environment variable, adding an error to
// varErrs if it's not set.
func RequireEnv(varName string, varErrs *Errors) string {
	envVar := os.Getenv(varName)
	if len(envVar) == 0 {
		varErrs.Add(fmt.Errorf("environment variable %s must be set", varName))
	}
	return envVar
}

// ValidPort transforms a port string into the ":<port>" form expected
// by net/http, or errors if the string isn't a valid port number.
func ValidPort(port string) (string, error) {
	if _, err := strconv.Atoi(port); err != nil {
		return "", fmt.Errorf("given portstring %s is invalid", port)
	}
	return fmt.Sprintf(":%s", port), nil
}
