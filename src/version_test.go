package malamute

import (
	"testing"
)

func Test_PrintVersion(t *testing.T) {
	AssertOutputContains(t, func() { PrintVersion(false) }, "Malamute - Version")
}

func Test_PrintVersion_Verbose(t *testing.T) {
	AssertOutputContains(t, func() { PrintVersion(true) }, "BuildInfo")
}
