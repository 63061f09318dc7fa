package actionlog

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const multilineDelimiter = "ghadelimiter_netweaver"

// OutputFile publishes step outputs by appending to the file GitHub Actions
// exposes as $GITHUB_OUTPUT. With no path the outputs are only logged.
type OutputFile struct {
	path string
}

func NewOutputFile(path string) *OutputFile {
	return &OutputFile{path: path}
}

func (o *OutputFile) SetOutput(name, value string) error {
	logrus.WithFields(logrus.Fields{
		"output": name,
		"value":  value,
	}).Info("Setting output")

	if o.path == "" {
		return nil
	}

	f, err := os.OpenFile(o.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "open output file %s", o.path)
	}

	if strings.ContainsAny(value, "\r\n") {
		_, err = fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, multilineDelimiter, value, multilineDelimiter)
	} else {
		_, err = fmt.Fprintf(f, "%s=%s\n", name, value)
	}
	if err != nil {
		f.Close()
		return errors.Wrapf(err, "write output %s", name)
	}
	return f.Close()
}
