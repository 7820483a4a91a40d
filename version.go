package desi

// Version information, overridable at build time:
//
//	go build -ldflags "-X github.com/desitranslate/desi.GitCommit=$(git rev-parse HEAD)"
const (
	Name        = "desi"
	Description = "Rule-based English to Indian language translation with word-level explanations"

	// Version is the semantic version of the module.
	Version = "0.3.0"

	Repository = "https://github.com/desitranslate/desi"
	License    = "MIT"
)

// Build metadata set via ldflags.
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns the version with a short commit suffix when known.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns the User-Agent sent by the HTTP rule source.
func UserAgent() string {
	return Name + "/" + Version
}
