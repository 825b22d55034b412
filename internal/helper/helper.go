package helper

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

const envPrefix = "ENV:"

// ResolveEnv returns the value of the referenced environment variable if in
// has the form "ENV:NAME", and in itself otherwise.
func ResolveEnv(in string) string {
	if name, ok := EnvReference(in); ok {
		return os.Getenv(name)
	}
	return in
}

// EnvReference reports the variable name of an "ENV:NAME" reference.
func EnvReference(in string) (string, bool) {
	if !strings.HasPrefix(in, envPrefix) {
		return "", false
	}
	return in[len(envPrefix):], true
}

func SetDefaultStringIfEmpty(value, defaultValue string, hints ...string) string {
	if len(value) > 0 {
		return value
	}

	fields := log.Fields{"default": defaultValue}
	if len(hints) > 0 {
		fields["field"] = hints[0]
	}
	if len(hints) > 1 {
		fields["kind"] = hints[1]
	}
	log.WithFields(fields).Debug("no value specified, assuming default")

	return defaultValue
}
