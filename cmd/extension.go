package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
)

// Environment passed to extensions. BAGS_STORE_DIR and BAGS_VERBOSE override
// the store_dir and verbose keys, so an extension calling
// LoadConfig(v, os.Getenv(EnvConfigFile)) sees the same portfolio.
const (
	EnvConfigFile = "BAGS_CONFIG"
	EnvStoreDir   = "BAGS_STORE_DIR"
	EnvVerbose    = "BAGS_VERBOSE"
)

// extensionEnv returns the environment of an extension.
func extensionEnv(base []string) []string {
	env := append([]string(nil), base...)
	if *configFile != "" {
		env = append(env, EnvConfigFile+"="+*configFile)
	}
	if *storeDir != "" {
		env = append(env, EnvStoreDir+"="+*storeDir)
	}
	if *Verbose {
		// otherwise BAGS_VERBOSE from the environment is kept.
		env = append(env, EnvVerbose+"="+strconv.FormatBool(*Verbose))
	}
	return env
}

// RunExtension attempts to find and execute an external yb-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "yb-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		logrus.WithError(err).WithField("extension", externalCmdName).Debug("extension not found in PATH")
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr
	cmd.Env = extensionEnv(os.Environ())

	if err := cmd.Run(); err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
				return true, status.ExitStatus()
			}
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}
