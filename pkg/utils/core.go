package utils

import (
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// regexCache stores compiled regex patterns to avoid recompilation.
// This improves performance when the same pattern is used multiple times.
var regexCache sync.Map

// getOrCompileRegex retrieves a compiled regex from cache or compiles and caches it.
//
// It performs the following operations:
//   - Step 1: Checks if pattern exists in cache with type-safe assertion
//   - Step 2: Returns cached regex if found and valid
//   - Step 3: Compiles new regex if not cached or cache entry is invalid
//   - Step 4: Stores compiled regex in cache for future use
//
// Parameters:
//   - pattern: The regex pattern string to compile
//
// Returns:
//   - *regexp.Regexp: The compiled regular expression
//   - error: Returns nil on success; returns compilation error if pattern is invalid
func getOrCompileRegex(pattern string) (*regexp.Regexp, error) {
	if cached, ok := regexCache.Load(pattern); ok {
		// Use safe type assertion to prevent panic on unexpected types
		if re, typeOK := cached.(*regexp.Regexp); typeOK {
			return re, nil
		}
		// Cache contained unexpected type - fall through to recompile
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	regexCache.Store(pattern, re)
	return re, nil
}

// ExtractNamedGroups extracts named capture groups from a regex match.
//
// It performs the following operations:
//   - Step 1: Compiles or retrieves cached regex
//   - Step 2: Finds first match in text
//   - Step 3: Extracts all named groups into a map
//
// Parameters:
//   - pattern: The regex pattern with named groups (e.g., "(?P<name>\\w+)")
//   - text: The text to match against
//
// Returns:
//   - map[string]string: Map of group names to matched values; nil if no match found
//   - error: Returns nil on success; returns compilation error if pattern is invalid
func ExtractNamedGroups(pattern, text string) (map[string]string, error) {
	re, err := getOrCompileRegex(pattern)
	if err != nil {
		return nil, err
	}

	matches := re.FindStringSubmatch(text)
	if matches == nil {
		return nil, nil
	}

	result := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if i != 0 && name != "" && i < len(matches) {
			result[name] = matches[i]
		}
	}

	return result, nil
}

// TrimAndSplit splits a string by separator and trims whitespace from each part.
//
// It performs the following operations:
//   - Step 1: Returns empty slice if input is empty
//   - Step 2: Splits string by separator
//   - Step 3: Trims whitespace from each part
//   - Step 4: Filters out empty strings after trimming
//
// Parameters:
//   - s: The string to split and trim
//   - sep: The separator to split on
//
// Returns:
//   - []string: Slice of trimmed non-empty strings; empty slice for empty input
func TrimAndSplit(s string, sep string) []string {
	if s == "" {
		return []string{}
	}

	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Contains checks if a string slice contains an item.
//
// Performs case-sensitive exact match comparison.
//
// Parameters:
//   - slice: The slice of strings to search
//   - item: The string to search for
//
// Returns:
//   - bool: true if item is found in slice, false otherwise
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// ContainsIgnoreCase checks if a string slice contains an item (case-insensitive).
//
// Performs case-insensitive comparison using strings.EqualFold.
//
// Parameters:
//   - slice: The slice of strings to search
//   - item: The string to search for (case-insensitive)
//
// Returns:
//   - bool: true if item is found in slice (case-insensitive), false otherwise
func ContainsIgnoreCase(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}

// MatchGlob matches a path against a glob pattern.
//
// It performs the following operations:
//   - Step 1: Checks for ! prefix to determine negation
//   - Step 2: Normalizes path and pattern to use forward slashes
//   - Step 3: Uses regex matching for ** patterns, filepath.Match for simple patterns
//   - Step 4: Negates result if ! prefix was present
//
// Supported patterns:
//   - * matches any sequence of characters within a path segment
//   - ** matches zero or more path segments recursively
//   - ? matches a single character
//   - ! prefix negates the match
//
// Parameters:
//   - path: The file path to match against
//   - pattern: The glob pattern (supports **, *, ?, and ! prefix)
//
// Returns:
//   - bool: true if path matches pattern (or doesn't match if negated), false otherwise
func MatchGlob(path, pattern string) bool {
	negate := false
	if strings.HasPrefix(pattern, "!") {
		negate = true
		pattern = pattern[1:]
	}

	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	var matched bool

	if strings.Contains(pattern, "**") {
		regexPattern := globToRegex(pattern)
		matched, _ = regexp.MatchString(regexPattern, path)
	} else {
		var err error
		matched, err = filepath.Match(pattern, path)
		if err != nil {
			regexPattern := globToRegex(pattern)
			matched, _ = regexp.MatchString(regexPattern, path)
		}
	}

	if negate {
		return !matched
	}
	return matched
}

// globToRegex converts a glob pattern to a regular expression pattern.
//
// It performs the following conversions:
//   - **/ becomes (?:.*/)?  (optional path segments)
//   - ** becomes .*         (any characters including /)
//   - * becomes [^/]*       (any characters except /)
//   - ? becomes .           (single character)
//   - Other characters are escaped with regexp.QuoteMeta
//
// Parameters:
//   - pattern: The glob pattern to convert
//
// Returns:
//   - string: The equivalent regular expression pattern
func globToRegex(pattern string) string {
	pattern = filepath.ToSlash(pattern)
	var builder strings.Builder
	builder.WriteString("^")

	for i := 0; i < len(pattern); {
		if strings.HasPrefix(pattern[i:], "**/") {
			builder.WriteString("(?:.*/)?")
			i += 3
			continue
		}
		if strings.HasPrefix(pattern[i:], "**") {
			builder.WriteString(".*")
			i += 2
			continue
		}
		switch pattern[i] {
		case '*':
			builder.WriteString("[^/]*")
		case '?':
			builder.WriteString(".")
		default:
			builder.WriteString(regexp.QuoteMeta(string(pattern[i])))
		}
		i++
	}

	builder.WriteString("$")
	return builder.String()
}

// unsafeNameChars matches runes that cannot appear in backup archive names.
var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeName converts an arbitrary mod identifier into a safe file name fragment.
//
// It performs the following operations:
//   - Step 1: Replaces runs of unsafe characters with a single underscore
//   - Step 2: Trims leading and trailing dots and underscores
//   - Step 3: Falls back to "mod" when nothing printable remains
//
// Parameters:
//   - name: The identifier to sanitize
//
// Returns:
//   - string: A fragment safe to embed in file names
func SanitizeName(name string) string {
	s := unsafeNameChars.ReplaceAllString(name, "_")
	s = strings.Trim(s, "._")
	if s == "" {
		return "mod"
	}
	return s
}

// NormalizePath normalizes a file path.
//
// It cleans the path by removing redundant separators, resolving . and .. elements,
// and converting to the shortest equivalent path.
//
// Parameters:
//   - path: The file path to normalize
//
// Returns:
//   - string: The normalized file path
func NormalizePath(path string) string {
	return filepath.Clean(path)
}
