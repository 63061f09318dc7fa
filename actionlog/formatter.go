// Package actionlog adapts logrus output to GitHub Actions workflow commands:
// annotations for warnings and errors, collapsible log groups and step
// outputs.
package actionlog

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// InActions reports whether the process runs as a GitHub Actions step.
func InActions() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// NewFormatter returns a Formatter when running in Actions and a plain text
// formatter otherwise.
func NewFormatter(inActions bool) logrus.Formatter {
	text := &logrus.TextFormatter{DisableTimestamp: inActions}
	if !inActions {
		return text
	}
	return &Formatter{Fallback: text}
}

// Formatter renders warnings and errors as workflow command annotations
// (::warning:: and ::error::) and debug entries as ::debug::. Other levels go
// through Fallback.
type Formatter struct {
	Fallback logrus.Formatter
}

func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var command string
	switch entry.Level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		command = "error"
	case logrus.WarnLevel:
		command = "warning"
	case logrus.DebugLevel, logrus.TraceLevel:
		command = "debug"
	default:
		return f.Fallback.Format(entry)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "::%s::%s\n", command, escapeData(entry.Message+formatFields(entry.Data)))
	return buf.Bytes(), nil
}

func formatFields(fields logrus.Fields) string {
	if len(fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}

var dataEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

func escapeData(s string) string {
	return dataEscaper.Replace(s)
}
