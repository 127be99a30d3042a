package editor

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mithrel/scholia/pkg/api"
)

const (
	TitlePrefix       = "Title: "
	AuthorPrefix      = "Author: "
	InstitutionPrefix = "Institution: "
	AbstractPrefix    = "Abstract: "
	TagsPrefix        = "Tags: "

	// DraftSuffix marks files the tag completion server answers for.
	DraftSuffix = ".scholia.md"
)

// ComposeDraft creates the text presented to the editor.
func ComposeDraft(d api.Draft) string {
	var b bytes.Buffer
	b.WriteString("# Scholia draft\n")
	b.WriteString("# Lines starting with '#' are ignored until the '---' separator.\n")
	b.WriteString("# Fill in the header fields (Tags are comma-separated), then write the Markdown body.\n")
	writeHeader(&b, TitlePrefix, d.Title)
	writeHeader(&b, AuthorPrefix, d.Author)
	writeHeader(&b, InstitutionPrefix, d.Institution)
	writeHeader(&b, AbstractPrefix, d.Abstract)
	writeHeader(&b, TagsPrefix, strings.Join(d.Tags, ", "))
	b.WriteString("---\n")
	if d.Content != "" {
		body := d.Content
		if !strings.HasSuffix(body, "\n") {
			body += "\n"
		}
		b.WriteString(body)
	}
	return b.String()
}

func writeHeader(b *bytes.Buffer, prefix, value string) {
	b.WriteString(prefix)
	b.WriteString(strings.ReplaceAll(value, "\n", " "))
	b.WriteString("\n")
}

// ParseDraft extracts the header fields and body from the editor output.
// Tags go through TagList.Commit so blanks are dropped and values trimmed.
func ParseDraft(s string) api.Draft {
	var d api.Draft
	tags := NewTagList()
	lines := strings.Split(s, "\n")
	inBody := false
	var bodyLines []string
	for _, line := range lines {
		if inBody {
			bodyLines = append(bodyLines, line)
			continue
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if trimmed == "---" {
			inBody = true
			continue
		}
		if v, ok := headerValue(line, TitlePrefix); ok {
			d.Title = v
		} else if v, ok := headerValue(line, AuthorPrefix); ok {
			d.Author = v
		} else if v, ok := headerValue(line, InstitutionPrefix); ok {
			d.Institution = v
		} else if v, ok := headerValue(line, AbstractPrefix); ok {
			d.Abstract = v
		} else if v, ok := headerValue(line, TagsPrefix); ok {
			for _, t := range strings.Split(v, ",") {
				tags.Commit(t)
			}
		}
		// ignore other header lines
	}
	d.Tags = tags.Items()
	d.Content = trimBlankLines(strings.Join(bodyLines, "\n"))
	return d
}

// trimBlankLines drops blank lines around the body but keeps the indentation
// of its first and last lines, so a leading indented code block survives.
func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

func headerValue(line, prefix string) (string, bool) {
	key := strings.TrimSpace(prefix)
	if !strings.HasPrefix(line, key) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(line, key)), true
}

// PreferredEditor finds a suitable editor from env or common defaults.
func PreferredEditor() (string, error) {
	if v := os.Getenv("VISUAL"); v != "" {
		return v, nil
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e, nil
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR or $VISUAL")
}

// PathForDraft returns a temp file path for a draft name.
func PathForDraft(name string) (string, error) {
	file := sanitizeName(name) + DraftSuffix
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "scholia", file), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "scholia", "drafts", file), nil
}

func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "draft"
	}
	return b.String()
}

func writeFile0600(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, fs.FileMode(0o600))
}

// OpenAt opens the editor at path with initial content and returns final bytes and whether it changed.
func OpenAt(path string, initial []byte) (final []byte, changed bool, err error) {
	if err := writeFile0600(path, initial); err != nil {
		return nil, false, err
	}
	// Honor VISUAL/EDITOR including flags by running via a shell wrapper.
	ed := os.Getenv("VISUAL")
	if ed == "" {
		ed = os.Getenv("EDITOR")
	}
	var cmd *exec.Cmd
	if strings.TrimSpace(ed) != "" {
		cmd = exec.Command("sh", "-c", "$EDITORCMD \"$FILEPATH\"")
		cmd.Env = append(os.Environ(), "EDITORCMD="+ed, "FILEPATH="+path)
	} else {
		prog, err := PreferredEditor()
		if err != nil {
			return nil, false, err
		}
		cmd = exec.Command(prog, path)
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, false, err
	}
	out, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return out, !bytes.Equal(out, initial), nil
}

// FirstLine returns the first trimmed line, squashed and truncated.
func FirstLine(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimLeft(s, "# ")
	if r := []rune(s); len(r) > 120 {
		s = string(r[:120])
	}
	return s
}
