package main

import (
	"os"

	"github.com/PolarWolf314/secman/cmd"
	kerrors "github.com/PolarWolf314/secman/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(kerrors.ExitCode(err))
	}
}
