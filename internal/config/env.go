package config

import (
	"os"
	"strconv"
)

// applyEnv layers environment overrides on top of file values so a bare
// container deployment needs no config file at all.
func (c *Config) applyEnv() {
	if v := os.Getenv("WILT_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("WILT_DATA_DIR"); v != "" {
		c.DataDir = v
	}

	// zero is a legal hour, so presence decides, not the value
	if v, ok := envInt("WILT_DAY_START_HOUR"); ok {
		c.Schedule.DayStartHour = v
	}
	if v, ok := envInt("WILT_DAY_END_HOUR"); ok {
		c.Schedule.DayEndHour = v
	}
	if v, ok := envInt("WILT_BREAK_MINUTES"); ok {
		c.Schedule.BreakMinutes = v
	}
	if v, ok := envInt("WILT_BUFFER_MINUTES"); ok {
		c.Schedule.BufferMinutes = v
	}
	if v, ok := envInt("WILT_LONG_TASK_MINUTES"); ok {
		c.Schedule.LongTaskMinutes = v
	}
	if v, ok := envInt("WILT_MAX_SLOTS"); ok {
		c.Schedule.MaxSlots = v
	}

	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.AI.BaseURL = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		c.AI.Model = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
}

// envInt reports whether the variable is set to a parseable integer;
// malformed values are ignored rather than guessed at.
func envInt(key string) (int, bool) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return 0, false
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return num, true
}
