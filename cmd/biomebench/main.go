// Command biomebench exercises the smoothing engine against a synthetic
// world, either benchmarking raw query throughput or inspecting a single
// column's decision.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"go.uber.org/zap"
)

func main() {
	os.Exit(runApplication())
}

func runApplication() int {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		return 1
	}
	defer logger.Sync()

	printBuildInfo(logger)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: biomebench <bench|inspect> [flags]")
		return 2
	}

	switch os.Args[1] {
	case "bench":
		return runBench(logger, os.Args[2:])
	case "inspect":
		return runInspect(logger, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q (want bench or inspect)\n", os.Args[1])
		return 2
	}
}

func printBuildInfo(logger *zap.Logger) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	logger.Info("biomebench build info", zap.String("go_version", info.GoVersion), zap.String("path", info.Path))
}
