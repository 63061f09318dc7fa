package tfm

import (
	"regexp"

	"github.com/pkg/errors"
)

const (
	netStandardPattern  = `^netstandard(?P<version>[12]\.\d)$`
	netCorePattern      = `^net(?P<version>[5-8]\.0)$`
	netFrameworkPattern = `^net(?P<version>\d{2,3})$`
)

type pattern struct {
	framework Framework
	regex     *regexp.Regexp
}

var patterns []pattern

func init() {
	patterns = []pattern{
		{FrameworkNetStandard, regexp.MustCompile(netStandardPattern)},
		{FrameworkNetCore, regexp.MustCompile(netCorePattern)},
		{FrameworkNetFramework, regexp.MustCompile(netFrameworkPattern)},
	}
}

// Parse converts a moniker such as "netstandard2.1", "net8.0" or "net472"
// into its typed Moniker. It fails with ErrUnrecognizedMoniker when no
// framework pattern matches. ErrMissingVersionCapture signals a broken
// pattern rather than bad input.
func Parse(raw string) (Moniker, error) {
	for _, p := range patterns {
		m, matched, err := p.parse(raw)
		if matched {
			return m, err
		}
	}
	return nil, errors.Wrapf(ErrUnrecognizedMoniker, "%q", raw)
}

func (p pattern) parse(raw string) (Moniker, bool, error) {
	matches := p.regex.FindStringSubmatch(raw)
	if matches == nil {
		return nil, false, nil
	}

	idx := p.regex.SubexpIndex("version")
	if idx < 0 || matches[idx] == "" {
		return nil, true, errors.Wrapf(ErrMissingVersionCapture, "%s pattern %s", p.framework, p.regex)
	}

	m, err := New(p.framework, raw, matches[idx])
	return m, true, err
}

// ParseAll parses every name, silently discarding the ones that are not
// monikers. Any other failure is returned.
func ParseAll(raws []string) ([]Moniker, error) {
	monikers := make([]Moniker, 0, len(raws))
	for _, raw := range raws {
		m, err := Parse(raw)
		if errors.Is(err, ErrUnrecognizedMoniker) {
			continue
		} else if err != nil {
			return nil, err
		}
		monikers = append(monikers, m)
	}
	return monikers, nil
}

func MustParse(raw string) Moniker {
	m, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return m
}
