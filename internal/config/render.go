package config

import (
	"fmt"
	"strconv"
	"strings"
)

// section groups options sharing the first key segment; the empty name holds top-level keys.
type section struct {
	name string
	opts []ConfigOption
}

// groupOptions splits dotted keys into TOML tables, preserving declaration order.
func groupOptions(opts []ConfigOption) []section {
	out := []section{{name: ""}}
	index := map[string]int{"": 0}
	for _, o := range opts {
		name, key := "", o.Key
		if i := strings.Index(o.Key, "."); i >= 0 {
			name, key = o.Key[:i], o.Key[i+1:]
		}
		pos, ok := index[name]
		if !ok {
			pos = len(out)
			index[name] = pos
			out = append(out, section{name: name})
		}
		out[pos].opts = append(out[pos].opts, ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return out
}

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	lines := []string{"# Scholia configuration (TOML)"}
	for _, s := range groupOptions(GetConfigOptions()) {
		if len(s.opts) == 0 {
			continue
		}
		if s.name != "" {
			lines = append(lines, "["+s.name+"]")
		}
		for _, o := range s.opts {
			lines = append(lines, optionLines(o)...)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// UpdateTOML merges defaults into an existing TOML string and comments out unknown keys.
func UpdateTOML(existing string) (string, bool) {
	known := make(map[string]bool)
	for _, o := range GetConfigOptions() {
		known[o.Key] = true
	}

	seen := make(map[string]bool)
	table := ""
	lines := strings.Split(existing, "\n")
	out := make([]string, 0, len(lines))
	changed := false

	for _, line := range lines {
		trim := strings.TrimSpace(line)
		switch {
		case trim == "", strings.HasPrefix(trim, "#"), strings.HasPrefix(trim, ";"):
			out = append(out, line)
			continue
		case strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]"):
			table = strings.TrimSpace(trim[1 : len(trim)-1])
			out = append(out, line)
			continue
		}
		key, ok := parseTOMLKey(line)
		if !ok {
			out = append(out, line)
			continue
		}
		if table != "" {
			key = table + "." + key
		}
		seen[key] = true
		if !known[key] {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out,
				indent+"# OUTDATED: option removed from config schema",
				indent+"# "+strings.TrimLeft(line, " \t"))
			changed = true
			continue
		}
		out = append(out, line)
	}

	var missing []ConfigOption
	for _, o := range GetConfigOptions() {
		if !seen[o.Key] {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return strings.Join(out, "\n"), changed
	}

	out = append(out, "", "# Added by config update")
	for _, s := range groupOptions(missing) {
		if len(s.opts) == 0 {
			continue
		}
		if s.name != "" {
			out = append(out, "["+s.name+"]")
		}
		for _, o := range s.opts {
			out = append(out, optionLines(o)...)
		}
	}
	return strings.Join(out, "\n"), true
}

func parseTOMLKey(line string) (string, bool) {
	idx := strings.Index(line, "=")
	if idx == -1 {
		return "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.HasPrefix(key, "[") || strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}

// optionLines renders one option as comment, assignment and a blank separator.
func optionLines(o ConfigOption) []string {
	var lines []string
	if o.Comment != "" {
		lines = append(lines, "# "+o.Comment)
	}
	return append(lines, fmt.Sprintf("%s = %s", o.Key, tomlValue(o.Default)), "")
}

func tomlValue(value any) string {
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case []string:
		quoted := make([]string, len(v))
		for i, s := range v {
			quoted[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return fmt.Sprint(v)
	}
}
