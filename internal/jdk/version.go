// Package jdk resolves Java toolchain versions and installation directories.
package jdk

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

// requestedVersionPattern is the accepted shape for a version requirement:
// a number optionally followed by a plus sign ("or later").
var requestedVersionPattern = regexp.MustCompile(`^\d+\+?$`)

// CheckRequestedVersion reports whether rv is a well-formed version
// requirement.
func CheckRequestedVersion(rv string) bool {
	return requestedVersionPattern.MatchString(rv)
}

// IsOpenEnded reports whether rv carries the trailing "or later" marker.
func IsOpenEnded(rv string) bool {
	return strings.HasSuffix(rv, "+")
}

// MinRequestedVersion returns the numeric floor of a version requirement or
// a recorded build version. Legacy "1.x" encodings map to x.
func MinRequestedVersion(v string) int {
	v = strings.TrimSuffix(v, "+")
	if strings.HasPrefix(v, "1.") {
		v = v[2:]
		if i := strings.IndexByte(v, '.'); i >= 0 {
			v = v[:i]
		}
	} else if i := strings.IndexByte(v, '.'); i >= 0 {
		v = v[:i]
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// JavaVersion returns the effective numeric version for a requirement
// string, falling back to the detected current JDK when the requirement is
// empty.
func JavaVersion(requested string) int {
	if requested == "" {
		return DetermineJavaVersion()
	}
	return MinRequestedVersion(requested)
}

// CompareRequested orders two version requirements. Higher numeric parts
// win; on a tie the concrete requirement outranks the open-ended one since
// it constrains the build more.
func CompareRequested(a, b string) int {
	av, bv := MinRequestedVersion(a), MinRequestedVersion(b)
	switch {
	case av != bv:
		return av - bv
	case IsOpenEnded(a) == IsOpenEnded(b):
		return 0
	case IsOpenEnded(a):
		return -1
	default:
		return 1
	}
}

// Satisfies reports whether an installation of concrete version v satisfies
// the requirement rv. An open-ended requirement accepts any version at or
// above its numeric part; a concrete requirement accepts an exact match.
func Satisfies(v int, rv string) bool {
	if IsOpenEnded(rv) {
		return v >= MinRequestedVersion(rv)
	}
	return v == MinRequestedVersion(rv)
}

// DetermineJavaVersion inspects the JAVA_HOME release file for the current
// JDK's feature version. Returns 0 when it cannot be determined.
func DetermineJavaVersion() int {
	home := os.Getenv("JAVA_HOME")
	if home == "" {
		return 0
	}
	return readReleaseVersion(home)
}

// readReleaseVersion parses JAVA_VERSION="17.0.1" out of a JDK release file.
func readReleaseVersion(home string) int {
	f, err := os.Open(filepath.Join(home, "release"))
	if err != nil {
		return 0
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "JAVA_VERSION=") {
			continue
		}
		v := strings.Trim(strings.TrimPrefix(line, "JAVA_VERSION="), `"`)
		return MinRequestedVersion(v)
	}
	return 0
}

// binaryName appends the executable suffix on Windows.
func binaryName(cmd string) string {
	if runtime.GOOS == "windows" {
		return cmd + ".exe"
	}
	return cmd
}
