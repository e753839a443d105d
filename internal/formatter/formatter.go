// package formatter renders query results and rejection sets as text tables, CSV, JSON or Markdown
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/catalogdb/internal/models"
	"github.com/desertthunder/catalogdb/internal/shared"
	"github.com/desertthunder/catalogdb/internal/ui"
)

// Format names an output encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatCSV, FormatJSON, FormatMarkdown}

// ParseFormat resolves a format name. "md" is accepted for Markdown.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatText, FormatCSV, FormatJSON, FormatMarkdown:
		return f, nil
	case "", "txt":
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, name)
	}
}

// Table is a titled grid of cells. Data holds the typed value the table was
// built from and is what the JSON encoding emits.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Data    any
}

// GenreCounts tabulates [models.GenreCount] results.
func GenreCounts(title string, counts []models.GenreCount) *Table {
	t := &Table{Title: title, Headers: []string{"Genre", "Songs"}, Data: counts}
	for _, c := range counts {
		t.Rows = append(t.Rows, []string{c.Genre, strconv.Itoa(c.Count)})
	}
	return t
}

// ArtistCounts tabulates [models.ArtistCount] results.
func ArtistCounts(title string, counts []models.ArtistCount) *Table {
	t := &Table{Title: title, Headers: []string{"Artist", "Songs"}, Data: counts}
	for _, c := range counts {
		t.Rows = append(t.Rows, []string{c.Artist, strconv.Itoa(c.Count)})
	}
	return t
}

// SongRatingCounts tabulates [models.SongRatingCount] results.
func SongRatingCounts(title string, counts []models.SongRatingCount) *Table {
	t := &Table{Title: title, Headers: []string{"Title", "Artist", "Ratings"}, Data: counts}
	for _, c := range counts {
		t.Rows = append(t.Rows, []string{c.Title, c.Artist, strconv.Itoa(c.Count)})
	}
	return t
}

// UserRatingCounts tabulates [models.UserRatingCount] results.
func UserRatingCounts(title string, counts []models.UserRatingCount) *Table {
	t := &Table{Title: title, Headers: []string{"Username", "Ratings"}, Data: counts}
	for _, c := range counts {
		t.Rows = append(t.Rows, []string{c.Username, strconv.Itoa(c.Count)})
	}
	return t
}

// Names tabulates a single column of names.
func Names(title, header string, names []string) *Table {
	t := &Table{Title: title, Headers: []string{header}, Data: names}
	for _, n := range names {
		t.Rows = append(t.Rows, []string{n})
	}
	return t
}

// Rejections tabulates a rejection set in key order. headers name the key fields.
func Rejections[K models.Key[K]](title string, set models.Set[K], headers ...string) *Table {
	t := &Table{Title: title, Headers: headers, Data: set}
	for _, k := range set.Sorted() {
		t.Rows = append(t.Rows, k.Fields())
	}
	return t
}

// Column headers for each rejection key type.
var (
	SongKeyHeaders   = []string{"Artist", "Title"}
	AlbumKeyHeaders  = []string{"Artist", "Album"}
	UsernameHeaders  = []string{"Username"}
	RatingKeyHeaders = []string{"Username", "Title", "Artist"}
)

// ToCSV encodes the header row followed by every row.
func ToCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(t.Headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToMarkdown renders a level-two heading and a pipe table.
func ToMarkdown(t *Table) ([]byte, error) {
	var buf bytes.Buffer

	if t.Title != "" {
		buf.WriteString(fmt.Sprintf("## %s\n\n", t.Title))
	}

	if len(t.Rows) == 0 {
		buf.WriteString("_No results._\n")
		return buf.Bytes(), nil
	}

	writeMarkdownRow(&buf, t.Headers)
	divider := make([]string, len(t.Headers))
	for i := range divider {
		divider[i] = "---"
	}
	writeMarkdownRow(&buf, divider)
	for _, row := range t.Rows {
		writeMarkdownRow(&buf, row)
	}

	return buf.Bytes(), nil
}

func writeMarkdownRow(buf *bytes.Buffer, cells []string) {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	buf.WriteString("| " + strings.Join(escaped, " | ") + " |\n")
}

// ToText renders the title and a bordered table styled with the [ui] palette.
func ToText(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	palette := ui.Default()

	if t.Title != "" {
		buf.WriteString(palette.Title(t.Title))
		buf.WriteString("\n")
	}

	if len(t.Rows) == 0 {
		buf.WriteString(palette.Help("(none)"))
		buf.WriteString("\n")
		return buf.Bytes(), nil
	}

	grid := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Headers...).
		Rows(t.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return palette.Header()
			}
			return palette.Cell()
		})

	buf.WriteString(grid.Render())
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// ToJSON encodes the table's Data, falling back to one object per row keyed by header.
func ToJSON(t *Table) ([]byte, error) {
	var v any = t.Data
	if v == nil {
		records := make([]map[string]string, 0, len(t.Rows))
		for _, row := range t.Rows {
			record := make(map[string]string, len(row))
			for i, cell := range row {
				if i < len(t.Headers) {
					record[t.Headers[i]] = cell
				}
			}
			records = append(records, record)
		}
		v = records
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Encode renders t in format f.
func Encode(t *Table, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ToCSV(t)
	case FormatJSON:
		return ToJSON(t)
	case FormatMarkdown:
		return ToMarkdown(t)
	case FormatText, "":
		return ToText(t)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// Write encodes t in format f and writes it to w.
func Write(w io.Writer, t *Table, f Format) error {
	data, err := Encode(t, f)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
