package scheduler

import "time"

// JobConfig holds the schedule of one synchronization job.
type JobConfig struct {
	// Enabled turns the job on.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Interval is the delay between the end of one run and the start of
	// the next.
	Interval time.Duration `mapstructure:"interval" default:"5m"`
	// LockMin is the minimum time the job lock stays held.
	LockMin time.Duration `mapstructure:"lock_min" default:"0s"`
	// LockMax is the lease TTL of the job lock.
	LockMax time.Duration `mapstructure:"lock_max" default:"30m"`
}

// Config holds the schedules of all synchronization jobs.
type Config struct {
	// AllowEmpty applies an empty upstream result instead of skipping the
	// cycle.
	AllowEmpty bool `mapstructure:"allow_empty" default:"false"`
	// Rules schedules the business rule download.
	Rules JobConfig `mapstructure:"rules"`
	// ValueSets schedules the value set download.
	ValueSets JobConfig `mapstructure:"valuesets"`
	// CountryList schedules the country list download.
	CountryList JobConfig `mapstructure:"countrylist"`
	// DomesticRules schedules the domestic rule download.
	DomesticRules JobConfig `mapstructure:"domesticrules"`
}
