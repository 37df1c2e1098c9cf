package main

import (
	"context"
	"fmt"
	"os"

	"parcelgraph/cmd/parcelgraph-cli/cmd"
	"parcelgraph/lib/telemetry"
)

func main() {
	ctx := context.Background()

	telemetry.InitSlog(os.Getenv("PARCELGRAPH_VERBOSE") != "")
	tel, err := telemetry.SetupFromEnv(ctx, "parcelgraph-cli")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer tel.Shutdown(ctx)
	telemetry.InstrumentPerfStats(ctx)

	cmd.Execute(ctx)
}
