package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/okian/songsim/internal/domain/types"
)

// Format selects how results are printed.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat maps an --output value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatText, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// NoResults is printed in text mode when nothing survives filtering.
const NoResults = "no recommendations found"

// Render writes resp to w in format f.
func Render(w io.Writer, f Format, resp types.RecommendResponse) error {
	switch f {
	case FormatText:
		return renderText(w, resp)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			return err
		}
		return enc.Close()
	default:
		panic(fmt.Sprintf("unhandled output format %d", int(f)))
	}
}

func renderText(w io.Writer, resp types.RecommendResponse) error {
	cyan := color.New(color.FgCyan, color.Bold)
	gray := color.New(color.FgHiBlack)
	yellow := color.New(color.FgYellow)

	q := resp.Query
	if _, err := cyan.Fprintf(w, "Songs like %s — %s [%s]\n", q.TrackName, q.ArtistName, q.Genre); err != nil {
		return err
	}

	if len(resp.Results) == 0 {
		_, err := yellow.Fprintln(w, NoResults)
		return err
	}

	for _, r := range resp.Results {
		if _, err := fmt.Fprintf(w, "%d. %s — %s [%s] (pop=%d) ", r.Rank, r.TrackName, r.ArtistName, r.Genre, r.Popularity); err != nil {
			return err
		}
		if _, err := gray.Fprintf(w, "d=%.4f\n", r.Distance); err != nil {
			return err
		}
	}
	return nil
}

// clipboardWriter is replaced in tests.
var clipboardWriter = clipboard.WriteAll //nolint:gochecknoglobals // swapped in tests

// CopyTrackIDs puts the recommended track ids on the clipboard, one per line.
func CopyTrackIDs(recs []types.Recommendation) error {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.TrackID
	}
	if err := clipboardWriter(strings.Join(ids, "\n")); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// ShowSuccess prints a success message to w.
func ShowSuccess(w io.Writer, message string) {
	_, _ = color.New(color.FgGreen, color.Bold).Fprintf(w, "✓ %s\n", message)
}

// ShowError prints an error message to w.
func ShowError(w io.Writer, message string) {
	_, _ = color.New(color.FgRed, color.Bold).Fprintf(w, "✗ %s\n", message)
}
