// Package version parses and compares mod and game version strings.
//
// Versions in the wild are rarely clean semver: mods ship "1.8", "v2.0.1",
// "1.0.0rc1", or four-segment builds. Parsing is tolerant: canonical semver
// is preferred, a loose numeric extraction is the fallback, and only strings
// with no numeric content at all are rejected.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/bruneval/modup/pkg/errors"
)

var (
	defaultVersionRegex = regexp.MustCompile(`(?i)(?P<major>\d+)(?:[._-]?(?P<minor>\d+))?(?:[._-]?(?P<patch>\d+))?`)
	prereleaseSuffix    = regexp.MustCompile(`(?i)(pre|rc|alpha|beta|dev|snapshot|unstable)[-._]?\d*$`)
)

// Version represents a parsed and normalized version string.
//
// Fields:
//   - Raw: The original raw version string as provided
type Version struct {
	// Raw is the version string as it appeared at the source.
	Raw string

	canonical  string
	major      int
	minor      int
	patch      int
	prerelease string
	normalized string
	hasNumbers bool
}

// Parse parses a version string into a Version.
//
// It performs the following operations:
//   - Cleans and validates the input version string
//   - Attempts canonical semver parsing, padding missing segments with zeros
//   - Falls back to regex-based extraction of major/minor/patch
//   - Detects pre-release markers from semver identifiers or loose suffixes
//
// Parameters:
//   - raw: The version string to parse (may include prefixes like "v")
//
// Returns:
//   - Version: The parsed version; the zero Version when parsing fails
//   - error: An UnparsableVersionError when no numeric content was found
func Parse(raw string) (Version, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" || cleaned == "#N/A" {
		return Version{}, &errors.UnparsableVersionError{Raw: raw}
	}

	v := Version{Raw: cleaned}

	if canonical := canonicalSemver(cleaned); canonical != "" {
		v.canonical = canonical
		v.prerelease = strings.TrimPrefix(semver.Prerelease(canonical), "-")
		core := canonical
		if i := strings.IndexAny(core, "-+"); i >= 0 {
			core = core[:i]
		}
		v.major, v.minor, v.patch = semverParts(core)
		v.hasNumbers = true
		v.normalized = fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
		return v, nil
	}

	major, minor, patch, ok := extractParts(cleaned)
	if !ok {
		return Version{}, &errors.UnparsableVersionError{Raw: raw}
	}

	v.major = major
	v.minor = minor
	v.patch = patch
	v.hasNumbers = true
	v.normalized = fmt.Sprintf("%d.%d.%d", major, minor, patch)
	if m := prereleaseSuffix.FindStringSubmatch(cleaned); m != nil {
		v.prerelease = strings.ToLower(m[1])
	}
	return v, nil
}

// MustParse parses a version string and panics on failure.
//
// Intended for fixed version literals in tests and defaults.
//
// Parameters:
//   - raw: The version string to parse
//
// Returns:
//   - Version: The parsed version
func MustParse(raw string) Version {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare compares two versions and returns their ordering.
//
// It performs the following operations:
//   - Prefers semver comparison when both have canonical forms
//   - Falls back to numeric comparison (major, minor, patch) when available
//   - Orders a pre-release below its release when the numbers tie
//   - Uses string comparison of normalized forms as final fallback
//
// The zero Version orders below every parsed version, so a missing installed
// version counts as older than any available release.
//
// Parameters:
//   - a: The first version to compare
//   - b: The second version to compare
//
// Returns:
//   - int: Negative if a < b, zero if a == b, positive if a > b
func Compare(a, b Version) int {
	if a.canonical != "" && b.canonical != "" {
		return semver.Compare(a.canonical, b.canonical)
	}

	if a.hasNumbers && b.hasNumbers {
		if a.major != b.major {
			return compareInts(a.major, b.major)
		}
		if a.minor != b.minor {
			return compareInts(a.minor, b.minor)
		}
		if a.patch != b.patch {
			return compareInts(a.patch, b.patch)
		}
		if a.prerelease != "" && b.prerelease == "" {
			return -1
		}
		if a.prerelease == "" && b.prerelease != "" {
			return 1
		}
	}

	return strings.Compare(a.normalized, b.normalized)
}

// IsPreRelease reports whether the version carries a pre-release marker.
//
// Returns:
//   - bool: true for versions like "1.2.3-rc.1" or "2.0.0pre2"
func (v Version) IsPreRelease() bool {
	return v.prerelease != ""
}

// IsZero reports whether the version is the unparsed zero value.
//
// Returns:
//   - bool: true when no version information is present
func (v Version) IsZero() bool {
	return v.Raw == "" && !v.hasNumbers
}

// String returns the raw version string.
//
// Returns:
//   - string: The version as it appeared at the source
func (v Version) String() string {
	return v.Raw
}

// Newest returns the highest version from a list.
//
// It performs the following operations:
//   - Optionally filters out pre-release versions
//   - Compares the remaining versions and keeps the maximum
//
// Parameters:
//   - versions: Candidate versions, may be empty
//   - includePrerelease: Whether pre-release versions may win
//
// Returns:
//   - Version: The highest version found
//   - bool: false when no eligible version exists
func Newest(versions []Version, includePrerelease bool) (Version, bool) {
	var best Version
	found := false

	for _, v := range versions {
		if v.IsZero() {
			continue
		}
		if !includePrerelease && v.IsPreRelease() {
			continue
		}
		if !found || Compare(v, best) > 0 {
			best = v
			found = true
		}
	}

	return best, found
}

// extractParts extracts major, minor, and patch version components using regex.
//
// It performs the following operations:
//   - Applies the default version regex to find version components
//   - Selects the best match (most complete) from multiple matches
//   - Parses the named groups as integers
//
// Parameters:
//   - version: The version string to extract components from
//
// Returns:
//   - int: Major version number (0 if not found)
//   - int: Minor version number (0 if not found)
//   - int: Patch version number (0 if not found)
//   - bool: True if at least a major version was found, false otherwise
func extractParts(version string) (int, int, int, bool) {
	matches := defaultVersionRegex.FindAllStringSubmatch(version, -1)
	if len(matches) == 0 {
		return 0, 0, 0, false
	}

	// Select the best match: prefer matches with more captured groups.
	// This handles cases like "1.0.0.0" where the regex matches both
	// "1.0.0" and the trailing "0".
	var bestMatch []string
	bestScore := -1
	for _, match := range matches {
		score := 0
		for i := 1; i < len(match); i++ {
			if match[i] != "" {
				score++
			}
		}
		if score > bestScore || (score == bestScore && len(match[0]) > len(bestMatch[0])) {
			bestMatch = match
			bestScore = score
		}
	}

	if bestMatch == nil {
		return 0, 0, 0, false
	}

	major, majorOK := parseNumericGroup(bestMatch, defaultVersionRegex, "major", 1)
	if !majorOK {
		return 0, 0, 0, false
	}

	minor, _ := parseNumericGroup(bestMatch, defaultVersionRegex, "minor", 2)
	patch, _ := parseNumericGroup(bestMatch, defaultVersionRegex, "patch", 3)

	return major, minor, patch, true
}

// parseNumericGroup extracts and parses a numeric group from a regex match.
//
// Parameters:
//   - match: The regex match result array
//   - re: The compiled regex with potential named groups
//   - name: The name of the group to extract (e.g., "major", "minor", "patch")
//   - index: The fallback positional index if named group not found
//
// Returns:
//   - int: The parsed integer value (0 if parsing fails)
//   - bool: True if the value was found and parsed successfully, false otherwise
func parseNumericGroup(match []string, re *regexp.Regexp, name string, index int) (int, bool) {
	value := ""

	if idx := re.SubexpIndex(name); idx >= 0 && idx < len(match) {
		value = match[idx]
	} else if index < len(match) {
		value = match[index]
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}

	return parsed, true
}

// semverParts extracts major, minor, and patch components from a semver core.
//
// Parameters:
//   - version: A semver version string without pre-release or build suffix
//
// Returns:
//   - int: Major version number (0 if not present or invalid)
//   - int: Minor version number (0 if not present or invalid)
//   - int: Patch version number (0 if not present or invalid)
func semverParts(version string) (int, int, int) {
	trimmed := strings.TrimPrefix(version, "v")
	parts := strings.SplitN(trimmed, ".", 3)

	major := parsePart(parts, 0)
	minor := parsePart(parts, 1)
	patch := parsePart(parts, 2)

	return major, minor, patch
}

// parsePart parses a single version part from a split version string.
//
// Parameters:
//   - parts: Array of version parts split by delimiter
//   - index: The index of the part to parse
//
// Returns:
//   - int: The parsed integer value, or 0 if index out of bounds or parsing fails
func parsePart(parts []string, index int) int {
	if index >= len(parts) {
		return 0
	}

	value, err := strconv.Atoi(parts[index])
	if err != nil {
		return 0
	}

	return value
}

// compareInts compares two integers and returns their ordering.
//
// Parameters:
//   - a: The first integer to compare
//   - b: The second integer to compare
//
// Returns:
//   - int: 1 if a > b, -1 if a < b, 0 if a == b
func compareInts(a, b int) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// canonicalSemver converts a version string to canonical semver format.
//
// It performs the following operations:
//   - Cleans and validates the input
//   - Adds "v" prefix if missing
//   - Pads missing minor/patch with zeros until valid semver is found
//   - Returns canonical form using semver.Canonical
//
// Parameters:
//   - version: The version string to canonicalize (e.g., "1.2", "v1.2.3")
//
// Returns:
//   - string: Canonical semver string (e.g., "v1.2.0"); empty string if not valid semver
func canonicalSemver(version string) string {
	cleaned := strings.TrimSpace(version)
	if cleaned == "" || cleaned == "#N/A" {
		return ""
	}

	if !strings.HasPrefix(cleaned, "v") {
		cleaned = "v" + cleaned
	}

	trimmed := strings.TrimPrefix(cleaned, "v")
	parts := strings.Split(trimmed, ".")
	for len(parts) > 0 && len(parts) < 3 {
		candidate := "v" + strings.Join(parts, ".")
		if semver.IsValid(candidate) {
			return semver.Canonical(candidate)
		}
		parts = append(parts, "0")
	}

	if semver.IsValid(cleaned) {
		return semver.Canonical(cleaned)
	}

	return ""
}
