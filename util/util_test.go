package util

import (
	"os"
	"strings"
	"testing"
)

func TestInvalidPort(t *testing.T) {
	portString, err := ValidPort("8000")
	if err != nil {
		t.Fatalf("Should not have errored on valid string: %v", err)
	}
	if portString != ":8000" {
		t.Fatalf("Expected portstring be :8000 instead of %s", portString)
	}
	portString, err = ValidPort("80a")
	if err == nil {
		t.Fatalf("Expected error on invalid port")
	}
}

func TestRequireEnv(t *testing.T) {
	os.Setenv("UTIL_TEST_SET_VAR", "value")
	os.Unsetenv("UTIL_TEST_UNSET_VAR")
	defer os.Unsetenv("UTIL_TEST_SET_VAR")

	varErrs := Errors{}
	if got := RequireEnv("UTIL_TEST_SET_VAR", &varErrs); got != "value" {
		t.Errorf("Expected value for set variable, got %s", got)
	}
	if len(varErrs) != 0 {
		t.Errorf("Expected no errors for set variable, got %v", varErrs)
	}
	RequireEnv("UTIL_TEST_UNSET_VAR", &varErrs)
	if len(varErrs) != 1 {
		t.Errorf("Expected one error for unset variable, got %v", varErrs)
	}
	if !strings.Contains(varErrs.Error(), "UTIL_TEST_UNSET_VAR") {
		t.Errorf("Error should name the missing variable: %s", varErrs.Error())
	}
}
