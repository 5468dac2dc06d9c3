package main

import (
	"squadscraper/cmd/squadscraper/commands"
	"squadscraper/lib/osutil"
)

func main() {
	ctx, cancel := osutil.SignalContext()
	defer cancel()
	commands.ExecuteContext(ctx)
}
