package squadscraper

import (
	"errors"
	"fmt"
	"os"
	"squadscraper/lib/clubs"
	"squadscraper/lib/configutil"
	"squadscraper/lib/squad"
	"squadscraper/lib/tablewriter"
	"time"
)

// ConfigName is the optional configuration file read from the working
// directory (merged with squadscraper.local.json5).
const ConfigName = "squadscraper.json5"

type Selectors struct {
	// path of the clubs index, relative to the origin
	ClubsPath string `json:"clubs_path"`
	// present once the clubs index has rendered
	ClubBadge string `json:"club_badge"`
	// links to each club's page
	ClubLink string `json:"club_link"`
	// one per player: "<number> <name...> <position>"
	PlayerInfo string `json:"player_info"`
	// one per player: "<label> <nationality...> Appearances <n> ..."
	PlayerStats string `json:"player_stats"`
	// optional, one per player, its alt attribute or text is compared with
	// the parsed name
	PlayerName string `json:"player_name"`
}

type Config struct {
	Origin string `json:"origin"`
	// seconds to wait for dynamic content
	Timeout int `json:"timeout"`
	OutDir  string `json:"out_dir"`
	Format  string `json:"format"`
	// rod, http or static
	Driver string `json:"driver"`
	// fixture directory for the static driver
	Fixtures string `json:"fixtures"`
	Workers  int    `json:"workers"`
	// extra attempts for a club whose page did not render in time
	Retries int `json:"retries"`
	// sqlite path or libsql url, archiving is off when empty
	Db           string    `json:"db"`
	StatSentinel string    `json:"stat_sentinel"`
	ShowBrowser  bool      `json:"show_browser"`
	BrowserBin   string    `json:"browser_bin"`
	UserAgent    string    `json:"user_agent"`
	RestyDumpDir string    `json:"resty_dump_dir"`
	Selectors    Selectors `json:"selectors"`
}

const (
	DriverRod    = "rod"
	DriverHttp   = "http"
	DriverStatic = "static"
)

func DefaultConfig() Config {
	return Config{
		Origin:       clubs.DefaultOrigin,
		Timeout:      10,
		OutDir:       "Squads_Players",
		Format:       string(tablewriter.FormatCsv),
		Driver:       DriverRod,
		Workers:      1,
		StatSentinel: squad.Sentinel,
		RestyDumpDir: ".dev/resty",
		Selectors: Selectors{
			ClubsPath:   "/clubs",
			ClubBadge:   ".indexBadge",
			ClubLink:    "a.indexItem[href]",
			PlayerInfo:  ".playerCardInfo",
			PlayerStats: ".squadPlayerStats",
		},
	}
}

// LoadConfig layers defaults, the config file at path (when it exists) and
// overrides, in that order.
func LoadConfig(path string, overrides Config) (Config, error) {
	fromFile, err := configutil.ReadConfig[Config](path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	cfg, err := configutil.Layer(DefaultConfig(), fromFile, overrides)
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Origin == "" {
		return fmt.Errorf("origin must be set")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", c.Timeout)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries cannot be negative, got %d", c.Retries)
	}
	_, err := tablewriter.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	switch c.Driver {
	case DriverRod, DriverHttp:
	case DriverStatic:
		if c.Fixtures == "" {
			return fmt.Errorf("the static driver needs a fixture directory")
		}
	default:
		return fmt.Errorf("unknown driver %q (expected rod, http or static)", c.Driver)
	}
	if c.Selectors.PlayerInfo == "" || c.Selectors.PlayerStats == "" {
		return fmt.Errorf("player card selectors must be set")
	}
	return nil
}

func (c Config) WaitTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}
