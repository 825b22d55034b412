package config

const (
	DefaultEnvVar  = "DATABASE_URL"
	DefaultEnvFile = ".env"
)

// Postgres describes where the probe gets its connection string from. URL may
// hold a literal connection string or an "ENV:NAME" reference.
type Postgres struct {
	URL string `hcl:"url"`
}

type File struct {
	Postgres *Postgres `hcl:"postgres"`
}
