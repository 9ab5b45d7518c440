package nav

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/morozRed/actionref/internal/fileutil"
	"github.com/morozRed/actionref/internal/index"
	"github.com/morozRed/actionref/internal/source"
	"github.com/morozRed/actionref/internal/workspace"
)

type session struct {
	ws       *workspace.FS
	snapshot *Snapshot
	idx      *index.Index
}

func openSession() (*session, error) {
	rootPath, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	snapshot, err := LoadSnapshot(rootPath)
	if err != nil {
		return nil, err
	}
	ws, err := workspace.New(rootPath)
	if err != nil {
		return nil, err
	}
	return &session{ws: ws, snapshot: snapshot, idx: snapshot.Index()}, nil
}

func RunLookup(cmd *cobra.Command, args []string) error {
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	fuzzy, err := OptionalBoolFlag(cmd, "fuzzy", false)
	if err != nil {
		return err
	}
	limit, err := OptionalIntFlag(cmd, "limit", 5)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	name := strings.TrimSpace(args[0])

	entry, ok := s.idx.Lookup(name)
	if !ok {
		var suggestions []string
		if fuzzy {
			suggestions = Suggest(s.idx.Names(), name, limit)
		}
		if asJSON {
			return fileutil.FprintJSON(out, map[string]any{
				"query":       name,
				"found":       false,
				"suggestions": suggestions,
			})
		}
		fmt.Fprintf(out, "no usages found for %q\n", name)
		if len(suggestions) > 0 {
			fmt.Fprintf(out, "did you mean: %s\n", strings.Join(suggestions, ", "))
		}
		return nil
	}

	links := Links(entry, s.ws)
	if asJSON {
		return fileutil.FprintJSON(out, map[string]any{
			"query": name,
			"found": true,
			"entry": entry,
			"links": links,
		})
	}

	fmt.Fprintf(out, "%s (%s) defined at %s:%d\n", entry.Name, entry.ActionType, entry.Definition.File, entry.Definition.Line+1)
	fmt.Fprintf(out, "usages (%d)\n", len(entry.Usages))
	for _, usage := range entry.Usages {
		fmt.Fprintf(out, "- %s:%d:%d\n", s.ws.DisplayPath(usage.File), usage.Line+1, usage.Column+1)
	}
	return nil
}

// ListRecord is one row of the list output.
type ListRecord struct {
	Name       string         `json:"name"`
	ActionType string         `json:"action_type"`
	Definition index.Location `json:"definition"`
	Usages     int            `json:"usages"`
}

func ListRecords(idx *index.Index) []ListRecord {
	entries := idx.Entries()
	records := make([]ListRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, ListRecord{
			Name:       entry.Name,
			ActionType: entry.ActionType,
			Definition: entry.Definition,
			Usages:     len(entry.Usages),
		})
	}
	return records
}

func RunList(cmd *cobra.Command, args []string) error {
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	s, err := openSession()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	records := ListRecords(s.idx)
	if asJSON {
		return fileutil.FprintJSON(out, map[string]any{
			"fingerprint": s.snapshot.Fingerprint,
			"count":       len(records),
			"creators":    records,
		})
	}

	fmt.Fprintf(out, "action creators (%d)\n", len(records))
	for _, record := range records {
		fmt.Fprintf(out, "- %s [%s] %d usages\n", record.Name, record.ActionType, record.Usages)
	}
	return nil
}

func RunHover(cmd *cobra.Command, args []string) error {
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	file, line, column, ok := ParseLocationQuery(args[0])
	if !ok {
		return fmt.Errorf("invalid location %q (expected file:line[:column])", args[0])
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	id, inside := s.ws.ID(file)
	if !inside {
		return fmt.Errorf("%s is outside the workspace", file)
	}
	text, err := s.ws.ReadFile(id)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", id, err)
	}

	doc := source.NewDocument(id, text)
	word, markdown, found := Hover(doc, source.Position{Line: line - 1, Column: column - 1}, s.idx, s.ws)
	out := cmd.OutOrStdout()

	if asJSON {
		payload := map[string]any{
			"query": args[0],
			"word":  word,
			"found": found,
		}
		if found {
			entry, _ := s.idx.Lookup(word)
			payload["links"] = Links(entry, s.ws)
			payload["markdown"] = markdown
		}
		return fileutil.FprintJSON(out, payload)
	}

	if !found {
		fmt.Fprintf(out, "no action creator at %s:%d:%d\n", id, line, column)
		return nil
	}
	fmt.Fprint(out, markdown)
	return nil
}

// ParseLocationQuery parses "file:line" or "file:line:column" with one-based
// line and column. A missing column defaults to 1.
func ParseLocationQuery(query string) (file string, line int, column int, ok bool) {
	query = strings.TrimSpace(query)
	idx := strings.LastIndex(query, ":")
	if idx <= 0 || idx >= len(query)-1 {
		return "", 0, 0, false
	}
	last, err := strconv.Atoi(strings.TrimSpace(query[idx+1:]))
	if err != nil || last <= 0 {
		return "", 0, 0, false
	}

	head := query[:idx]
	if j := strings.LastIndex(head, ":"); j > 0 && j < len(head)-1 {
		if parsedLine, err := strconv.Atoi(strings.TrimSpace(head[j+1:])); err == nil {
			if parsedLine <= 0 {
				return "", 0, 0, false
			}
			file = strings.TrimSpace(head[:j])
			if file == "" {
				return "", 0, 0, false
			}
			return file, parsedLine, last, true
		}
	}

	file = strings.TrimSpace(head)
	if file == "" {
		return "", 0, 0, false
	}
	return file, last, 1, true
}

func OptionalBoolFlag(cmd *cobra.Command, name string, defaultValue bool) (bool, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return defaultValue, nil
	}
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

func OptionalIntFlag(cmd *cobra.Command, name string, defaultValue int) (int, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return defaultValue, nil
	}
	value, err := cmd.Flags().GetInt(name)
	if err != nil {
		return 0, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}
