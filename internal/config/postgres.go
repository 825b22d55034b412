package config

import (
	"os"

	"github.com/hashicorp/hcl"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// NewPostgres returns a configuration that reads the connection string from
// the environment variable envVar.
func NewPostgres(envVar string) *Postgres {
	return &Postgres{
		URL: "ENV:" + envVar,
	}
}

// LoadEnvFile loads variables from a dotenv file without overriding variables
// that are already set. If path is empty, DefaultEnvFile is loaded when it
// exists in the working directory.
func LoadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(DefaultEnvFile); err != nil {
			return nil
		}
		path = DefaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "could not load env file %s", path)
	}

	log.Debugf("loaded env file: %s", path)
	return nil
}

// LoadFromFile overrides the connection string with the one found in the
// postgres block of an HCL configuration file.
func (pg *Postgres) LoadFromFile(path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "could not read configuration file %s", path)
	}

	file := File{}
	if err := hcl.Unmarshal(contents, &file); err != nil {
		return errors.Wrapf(err, "could not parse configuration file %s", path)
	}

	if file.Postgres == nil || file.Postgres.URL == "" {
		return errors.Errorf("configuration file %s has no postgres url", path)
	}

	log.Infof("found config file: %s", path)
	pg.URL = file.Postgres.URL
	return nil
}
