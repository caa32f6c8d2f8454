package kdenlive

import (
	"strconv"
	"strings"
)

// The scripting surface prints everything as text: ID lists one per line,
// record lists as tab-separated key=value fields, and status replies as
// "key: value" lines. The helpers here absorb that, including numbers
// arriving with stray whitespace and booleans arriving as "true"/"false".

func parseInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// parseIDList splits line-separated IDs, dropping blanks.
func parseIDList(out string) []string {
	var ids []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			ids = append(ids, line)
		}
	}
	return ids
}

// parseIntList is parseIDList for numeric IDs; non-numeric lines are
// skipped rather than failing the whole reply.
func parseIntList(out string) []int {
	var ids []int
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if n, err := strconv.Atoi(line); err == nil {
			ids = append(ids, n)
		}
	}
	return ids
}

// parseKVLines reads "key: value" reply lines into a map.
func parseKVLines(out string) map[string]string {
	m := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		m[k] = strings.TrimSpace(v)
	}
	return m
}

// parseRecord reads one tab-separated line of key=value fields.
func parseRecord(line string) map[string]string {
	m := make(map[string]string)
	for _, field := range strings.Split(line, "\t") {
		k, v, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		m[k] = strings.TrimSpace(v)
	}
	return m
}

// intField tries keys in order; engine replies are inconsistent about
// naming ("id" vs "track_id" vs "clip_id").
func intField(m map[string]string, def int, keys ...string) int {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return parseInt(v, def)
		}
	}
	return def
}
