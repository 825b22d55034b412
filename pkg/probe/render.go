package probe

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/pretty"
)

const (
	OutputText = "text"
	OutputJSON = "json"
)

// ValidateOutput rejects formats Write does not know.
func ValidateOutput(format string) error {
	switch format {
	case OutputText, OutputJSON, "":
		return nil
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}

// FormatServerTime renders the single-column result row as a one-element
// tuple, e.g. "(2024-01-01T00:00:00Z,)".
func FormatServerTime(t time.Time) string {
	return fmt.Sprintf("(%s,)", t.Format(time.RFC3339Nano))
}

func WriteText(w io.Writer, r *Result) error {
	_, err := fmt.Fprintf(w, "Connected! Server time is: %s\n", FormatServerTime(r.ServerTime))
	return err
}

func WriteJSON(w io.Writer, r *Result, colorize bool) error {
	out, err := json.Marshal(StatusFromResult(r))
	if err != nil {
		return errors.Wrap(err, "failed to marshal result as JSON")
	}

	out = pretty.Pretty(out)
	if colorize {
		out = pretty.Color(out, nil)
	}

	_, err = w.Write(out)
	return err
}

func Write(w io.Writer, r *Result, format string, colorize bool) error {
	if err := ValidateOutput(format); err != nil {
		return err
	}

	if format == OutputJSON {
		return WriteJSON(w, r, colorize)
	}
	return WriteText(w, r)
}
