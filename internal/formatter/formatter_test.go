package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/catalogdb/internal/models"
	"github.com/desertthunder/catalogdb/internal/shared"
	th "github.com/desertthunder/catalogdb/internal/testing"
)

func sampleSongs() *Table {
	return SongRatingCounts("Most rated songs", []models.SongRatingCount{
		{Title: "Dual Genre", Artist: "Artist C", Count: 3},
		{Title: "Rock | Roll", Artist: "Artist A", Count: 2},
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"text", FormatText},
		{"", FormatText},
		{"CSV", FormatCSV},
		{" json ", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	if _, err := ParseFormat("yaml"); !errors.Is(err, shared.ErrInvalidFlag) {
		t.Errorf("expected ErrInvalidFlag, got %v", err)
	}
}

func TestExporters(t *testing.T) {
	t.Run("ToCSV", func(t *testing.T) {
		data, err := ToCSV(sampleSongs())
		if err != nil {
			t.Fatalf("ToCSV failed: %v", err)
		}

		want := "Title,Artist,Ratings\nDual Genre,Artist C,3\nRock | Roll,Artist A,2\n"
		if string(data) != want {
			t.Errorf("expected:\n%s\ngot:\n%s", want, data)
		}
	})

	t.Run("ToMarkdown", func(t *testing.T) {
		data, err := ToMarkdown(sampleSongs())
		if err != nil {
			t.Fatalf("ToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"## Most rated songs",
			"| Title | Artist | Ratings |",
			"| --- | --- | --- |",
			"| Dual Genre | Artist C | 3 |",
			`| Rock \| Roll | Artist A | 2 |`,
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ToMarkdownEmpty", func(t *testing.T) {
		data, err := ToMarkdown(Names("Artists", "Artist", nil))
		if err != nil {
			t.Fatalf("ToMarkdown failed: %v", err)
		}
		if !strings.Contains(string(data), "_No results._") {
			t.Errorf("expected empty marker, got:\n%s", data)
		}
	})

	t.Run("ToText", func(t *testing.T) {
		data, err := ToText(sampleSongs())
		if err != nil {
			t.Fatalf("ToText failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{"Most rated songs", "Title", "Dual Genre", "Artist C", "3"} {
			if !strings.Contains(output, want) {
				t.Errorf("text missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ToTextEmpty", func(t *testing.T) {
		data, err := ToText(GenreCounts("Top genres", []models.GenreCount{}))
		if err != nil {
			t.Fatalf("ToText failed: %v", err)
		}
		if !strings.Contains(string(data), "(none)") {
			t.Errorf("expected empty marker, got:\n%s", data)
		}
	})

	t.Run("ToJSON", func(t *testing.T) {
		data, err := ToJSON(sampleSongs())
		if err != nil {
			t.Fatalf("ToJSON failed: %v", err)
		}

		var decoded []models.SongRatingCount
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != 2 || decoded[0].Title != "Dual Genre" || decoded[0].Count != 3 {
			t.Errorf("unexpected JSON payload %s", data)
		}
	})

	t.Run("ToJSONWithoutData", func(t *testing.T) {
		tbl := &Table{Headers: []string{"Name"}, Rows: [][]string{{"alice"}}}
		data, err := ToJSON(tbl)
		if err != nil {
			t.Fatalf("ToJSON failed: %v", err)
		}

		var decoded []map[string]string
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != 1 || decoded[0]["Name"] != "alice" {
			t.Errorf("unexpected JSON payload %s", data)
		}
	})
}

func TestTables(t *testing.T) {
	t.Run("Rejections", func(t *testing.T) {
		set := models.SetOf(
			models.RatingKey{Username: "charlie", Title: "Single X", Artist: "Artist A"},
			models.RatingKey{Username: "alice", Title: "Single X", Artist: "Artist A"},
		)
		tbl := Rejections("Rejected ratings", set, RatingKeyHeaders...)

		if len(tbl.Rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(tbl.Rows))
		}
		if tbl.Rows[0][0] != "alice" || tbl.Rows[1][0] != "charlie" {
			t.Errorf("expected rows in key order, got %v", tbl.Rows)
		}

		data, err := ToJSON(tbl)
		if err != nil {
			t.Fatalf("ToJSON failed: %v", err)
		}
		if !strings.Contains(string(data), `"username": "alice"`) {
			t.Errorf("expected keyed JSON, got %s", data)
		}
	})

	t.Run("Counts", func(t *testing.T) {
		tests := []struct {
			name string
			tbl  *Table
			want []string
		}{
			{"Genres", GenreCounts("", []models.GenreCount{{Genre: "Rock", Count: 4}}), []string{"Rock", "4"}},
			{"Artists", ArtistCounts("", []models.ArtistCount{{Artist: "Artist A", Count: 3}}), []string{"Artist A", "3"}},
			{"Users", UserRatingCounts("", []models.UserRatingCount{{Username: "alice", Count: 3}}), []string{"alice", "3"}},
			{"Names", Names("", "Artist", []string{"Artist C"}), []string{"Artist C"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if len(tt.tbl.Rows) != 1 {
					t.Fatalf("expected 1 row, got %d", len(tt.tbl.Rows))
				}
				for i, want := range tt.want {
					if tt.tbl.Rows[0][i] != want {
						t.Errorf("cell %d = %q, want %q", i, tt.tbl.Rows[0][i], want)
					}
				}
			})
		}
	})
}

func TestWrite(t *testing.T) {
	t.Run("Formats", func(t *testing.T) {
		for _, f := range Formats {
			var buf bytes.Buffer
			if err := Write(&buf, sampleSongs(), f); err != nil {
				t.Errorf("Write(%s) failed: %v", f, err)
			}
			if !strings.Contains(buf.String(), "Dual Genre") {
				t.Errorf("Write(%s) missing row data: %s", f, buf.String())
			}
		}
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, sampleSongs(), Format("xml")); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("WriterFailure", func(t *testing.T) {
		if err := Write(&th.FWriter{}, sampleSongs(), FormatCSV); err == nil {
			t.Error("expected write error")
		}
	})
}
