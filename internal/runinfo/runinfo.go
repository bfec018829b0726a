// Package runinfo handles observation night and run identifiers: file name
// parsing, the dated directory layout of processed data, and run lists.
package runinfo

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"
)

// ErrBadFileName is returned for names that do not start with night_run.
var ErrBadFileName = errors.New("not a night_run file name")

// nightLayout is the YYYYMMDD form of a night.
const nightLayout = "20060102"

// Night is an observation night as the integer YYYYMMDD. The night is named
// after the date on which it starts.
type Night int

// ParseNight parses a YYYYMMDD string.
func ParseNight(s string) (Night, error) {
	if len(s) != len(nightLayout) {
		return 0, fmt.Errorf("night %q: want YYYYMMDD", s)
	}
	if _, err := time.Parse(nightLayout, s); err != nil {
		return 0, fmt.Errorf("night %q: %w", s, err)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("night %q: %w", s, err)
	}
	return Night(n), nil
}

// Date returns the calendar date of the night in UTC.
func (n Night) Date() (time.Time, error) {
	return time.Parse(nightLayout, n.String())
}

func (n Night) String() string {
	return fmt.Sprintf("%08d", int(n))
}

// FileInfo is what a data file name says about its content.
type FileInfo struct {
	Night Night
	Run1  int
	// Run2 equals Run1 for single run files.
	Run2 int
	// Suffix is the trailing non-numeric name part, e.g. "C" or "summary".
	Suffix string
}

// ParseFileName parses names like
//
//	20130930_244_244.root
//	20171022_215_C.root
//	20171022_215-summary.root
//
// The directory part and every extension are ignored.
func ParseFileName(name string) (FileInfo, error) {
	stem := SplitExtAll(path.Base(name))[0]

	var info FileInfo
	if i := strings.IndexByte(stem, '-'); i >= 0 {
		info.Suffix = stem[i+1:]
		stem = stem[:i]
	}

	parts := strings.Split(stem, "_")
	if len(parts) < 2 {
		return FileInfo{}, fmt.Errorf("%s: %w", name, ErrBadFileName)
	}
	night, err := ParseNight(parts[0])
	if err != nil {
		return FileInfo{}, fmt.Errorf("%s: %w: %v", name, ErrBadFileName, err)
	}
	info.Night = night

	if info.Run1, err = strconv.Atoi(parts[1]); err != nil {
		return FileInfo{}, fmt.Errorf("%s: run id %q: %w", name, parts[1], ErrBadFileName)
	}
	info.Run2 = info.Run1

	rest := parts[2:]
	if len(rest) > 0 {
		if run2, err := strconv.Atoi(rest[0]); err == nil {
			info.Run2 = run2
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		if info.Suffix != "" {
			return FileInfo{}, fmt.Errorf("%s: %w", name, ErrBadFileName)
		}
		info.Suffix = strings.Join(rest, "_")
	}
	return info, nil
}

// SplitExtAll splits off every extension of name. The stem comes first, then
// the extensions in order, each with its leading dot:
//
//	SplitExtAll("20170102_345.drs.fits.gz") // ["20170102_345", ".drs", ".fits", ".gz"]
func SplitExtAll(name string) []string {
	var exts []string
	for {
		ext := path.Ext(name)
		if ext == "" || ext == name {
			break
		}
		name = strings.TrimSuffix(name, ext)
		exts = append(exts, ext)
	}
	out := make([]string, 0, len(exts)+1)
	out = append(out, name)
	for i := len(exts) - 1; i >= 0; i-- {
		out = append(out, exts[i])
	}
	return out
}

// DatePath returns base/YYYY/MM/DD for the night. base may be a URL.
func DatePath(base string, night Night) string {
	s := night.String()
	return strings.TrimRight(base, "/") + "/" + path.Join(s[:4], s[4:6], s[6:8])
}

// GanymedSummaryPath returns the location of the summary file of one run
// below the dated directory tree rooted at base.
func GanymedSummaryPath(base string, night Night, run int) string {
	return DatePath(base, night) + "/" + fmt.Sprintf("%s_%03d-summary.root", night, run)
}
