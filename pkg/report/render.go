package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	md "github.com/nao1215/markdown"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"

	"github.com/agentstation/arcade/pkg/errors"
)

// Format is a report rendering.
type Format string

// Supported formats.
const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatTable, nil
	default:
		return "", &errors.ValidationError{Field: "format", Value: s, Message: "must be one of: table, json, yaml, markdown"}
	}
}

// Snapshot is the serializable view of a report.
type Snapshot struct {
	RunID    string    `json:"run_id" yaml:"run_id"`
	Database string    `json:"database,omitempty" yaml:"database,omitempty"`
	Language string    `json:"language,omitempty" yaml:"language,omitempty"`
	AppID    string    `json:"app_id,omitempty" yaml:"app_id,omitempty"`
	Started  time.Time `json:"started" yaml:"started"`
	Finished time.Time `json:"finished,omitempty" yaml:"finished,omitempty"`
	Duration string    `json:"duration" yaml:"duration"`
	Entries  []Entry   `json:"entries" yaml:"entries"`
}

// Entry is one non-zero category of a snapshot.
type Entry struct {
	Category Category `json:"category" yaml:"category"`
	Title    string   `json:"title" yaml:"title"`
	Count    int      `json:"count" yaml:"count"`
	Games    []string `json:"games,omitempty" yaml:"games,omitempty"`
}

// Snapshot returns the non-zero categories in summary order.
func (r *Report) Snapshot() Snapshot {
	s := Snapshot{
		RunID:    r.RunID,
		Database: r.Database,
		Language: r.Language,
		AppID:    r.AppID,
		Started:  r.Started,
		Finished: r.Finished,
		Duration: r.Duration().Round(time.Millisecond).String(),
		Entries:  []Entry{},
	}
	for _, c := range Categories {
		if r.counts[c] == 0 {
			continue
		}
		s.Entries = append(s.Entries, Entry{
			Category: c,
			Title:    c.Title(),
			Count:    r.counts[c],
			Games:    r.Games(c),
		})
	}
	return s
}

// Write renders the report to w in format f.
func (r *Report) Write(w io.Writer, f Format) error {
	return r.Snapshot().Write(w, f)
}

// Write renders the snapshot to w in format f.
func (s Snapshot) Write(w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatYAML:
		data, err := yaml.MarshalWithOptions(s, yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatMarkdown:
		return writeMarkdown(w, s)
	default:
		return writeTable(w, s)
	}
}

func writeTable(w io.Writer, snap Snapshot) error {
	table := tablewriter.NewTable(w)
	table.Header("Category", "Count", "Games")
	for _, e := range snap.Entries {
		if err := table.Append(e.Title, strconv.Itoa(e.Count), summarizeGames(e.Games, 5)); err != nil {
			return err
		}
	}
	return table.Render()
}

func writeMarkdown(w io.Writer, snap Snapshot) error {
	doc := md.NewMarkdown(w)
	doc.H1("Build Report")
	doc.BulletList(
		"Run: "+md.Code(snap.RunID),
		"Database: "+snap.Database,
		"Language: "+snap.Language,
		"App ID: "+md.Code(snap.AppID),
		"Duration: "+snap.Duration,
	)

	rows := make([][]string, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		rows = append(rows, []string{e.Title, strconv.Itoa(e.Count)})
	}
	doc.H2("Summary")
	doc.Table(md.TableSet{Header: []string{"Category", "Count"}, Rows: rows})

	for _, e := range snap.Entries {
		if len(e.Games) == 0 || e.Category == Published {
			continue
		}
		doc.H3(e.Title)
		doc.BulletList(e.Games...)
	}
	return doc.Build()
}

// summarizeGames joins up to limit games and notes how many were left out.
func summarizeGames(games []string, limit int) string {
	if len(games) <= limit {
		return strings.Join(games, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(games[:limit], ", "), len(games)-limit)
}

// Log writes one line per non-zero category to logger.
func (r *Report) Log(logger *zerolog.Logger) {
	for _, c := range Categories {
		n := r.counts[c]
		if n == 0 {
			continue
		}
		ev := logger.Info()
		if c.Warning() {
			ev = logger.Warn()
		}
		if games := r.games[c]; len(games) > 0 && c != Published {
			ev = ev.Strs("games", games)
		}
		ev.Int("count", n).Msg(c.Title())
	}
	logger.Info().
		Str("run_id", r.RunID).
		Dur("duration", r.Duration()).
		Msg("Finished build")
}
