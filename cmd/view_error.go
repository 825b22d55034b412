package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mittwald/pgprobe/pkg/probe"
)

var styleErrorWrapper = lipgloss.NewStyle().Padding(0, 0).BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#E1244C"))
var styleErrorHeadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E1244C")).Bold(true)
var styleErrorBodyStyle = lipgloss.NewStyle().PaddingLeft(3).Foreground(lipgloss.Color("#E1244C")).Width(80).MaxWidth(80)

func errorHeading(err error) string {
	kind, ok := probe.KindOf(err)
	if !ok {
		return "💥 AN ERROR OCCURRED WHILE HANDLING YOUR COMMAND"
	}

	heading := "💥 PROBE FAILED WITH A " + strings.ToUpper(kind.String()) + " ERROR"
	if code := probe.SQLState(err); code != "" {
		heading += " (SQLSTATE " + code + ")"
	}
	return heading
}

func renderError(err error) string {
	return styleErrorWrapper.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			styleErrorHeadingStyle.Render(errorHeading(err)),
			styleErrorBodyStyle.Render(err.Error()),
		),
	)
}
