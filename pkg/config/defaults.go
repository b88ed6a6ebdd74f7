package config

import "math"

// Analysis defaults.
const (
	DefaultMinIntervalDays = 7
	DefaultMaxCommits      = math.MaxInt
	DefaultFirstCommit     = "HEAD"
	DefaultAllParents      = false
	DefaultRelative        = false
	DefaultNoCache         = false
	DefaultCacheSize       = 0
)

// Output defaults. An empty path means <cwd-basename>-language-trends.html.
const (
	DefaultOutputPath = ""
	DefaultStyle      = StyleDark
	DefaultSize       = "1200x800"
	DefaultProgress   = true
	DefaultBenchmark  = false
)

// Logging defaults.
const (
	DefaultLogLevel = "warn"
	DefaultLogJSON  = false
)

// Chart styles.
const (
	StyleDark  = "dark"
	StyleLight = "light"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "LANGTRENDS"

// envGitDir selects the repository when neither --repo nor LANGTRENDS_REPO is set.
const envGitDir = "GIT_DIR"

// configName is the file name, without extension, searched for when no
// explicit --config is given.
const configName = ".langtrends"
