package autoghost

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration that decodes from strings such as "15s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config controls a Scheduler.
type Config struct {
	// Enabled turns minting on. A disabled scheduler returns from Run at once.
	Enabled bool `toml:"enabled"`

	// Blacklist lists addresses whose outputs are never minted.
	Blacklist []string `toml:"blacklist"`

	ImportWait  Duration `toml:"import_wait"`
	SyncWait    Duration `toml:"sync_wait"`
	LockedWait  Duration `toml:"locked_wait"`
	MinSleep    Duration `toml:"min_sleep"`
	SleepJitter Duration `toml:"sleep_jitter"`
}

var DefaultConfig = Config{
	ImportWait:  Duration(15 * time.Second),
	SyncWait:    Duration(15 * time.Second),
	LockedWait:  Duration(10 * time.Second),
	MinSleep:    Duration(60 * time.Second),
	SleepJitter: Duration(300 * time.Second),
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("autoghost config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("autoghost config %s: unknown keys %v", path, undecoded)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	for name, d := range map[string]Duration{
		"import_wait":  c.ImportWait,
		"sync_wait":    c.SyncWait,
		"locked_wait":  c.LockedWait,
		"min_sleep":    c.MinSleep,
		"sleep_jitter": c.SleepJitter,
	} {
		if d < 0 {
			return fmt.Errorf("autoghost config: %s is negative", name)
		}
	}
	return nil
}
