package commands

import (
	"context"
	"squadscraper/lib/browser"
	"squadscraper/lib/osutil"
	"squadscraper/lib/restyutil"
	"squadscraper/services/squadscraper"
	"time"
)

func openDriver(ctx context.Context, cfg squadscraper.Config) browser.Driver {
	switch cfg.Driver {
	case squadscraper.DriverStatic:
		driver, err := browser.LoadFixtureDir(cfg.Fixtures)
		if err != nil {
			fatal("failed to load fixtures", err)
		}
		return driver
	case squadscraper.DriverHttp:
		opts := browser.HttpOptions{
			UserAgent:      cfg.UserAgent,
			RequestTimeout: cfg.WaitTimeout(),
		}
		if cfg.RestyDumpDir != "" && *verbose {
			output, err := restyutil.NewFilesystemOutput(cfg.RestyDumpDir)
			if err != nil {
				fatal("failed to create http dump directory", err)
			}
			opts.DumpOutput = output
		}
		driver, err := browser.NewHttpDriver(opts)
		if err != nil {
			fatal("failed to create http client", err)
		}
		return driver
	default:
		driver, err := browser.NewRodDriver(ctx, browser.RodOptions{
			Headless:  !cfg.ShowBrowser,
			UserAgent: cfg.UserAgent,
			Bin:       cfg.BrowserBin,
		})
		if err != nil {
			fatal("failed to launch browser", err)
		}
		return driver
	}
}

// fatal flushes telemetry before exiting, deferred calls do not run past
// os.Exit.
func fatal(message string, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	tel.Shutdown(ctx)
	osutil.Fatal(message, err)
}
