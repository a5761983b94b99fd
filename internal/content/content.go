package content

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"future-workshop/internal/logging"
)

// FutureSignal is one entry of the future-signal catalog shown in the first
// workshop step.
type FutureSignal struct {
	ID         int    `json:"id"`
	Sign       string `json:"sign"`
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	Intro      string `json:"intro"`
	IntroQuote string `json:"introQuote"`
	Detail     string `json:"detail"`
	Thumbnail  string `json:"thumbnail"`
}

// LocalChallenge is one entry of the local-challenge catalog.
type LocalChallenge struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

const (
	signalsFile    = "future-signals.csv"
	challengesFile = "local-challenges.csv"
)

// Library holds the CSV-backed content catalogs, loaded once at startup and
// read-only afterwards.
type Library struct {
	signals    []FutureSignal
	challenges []LocalChallenge
}

// LoadLibrary reads the catalogs from dir. A missing file yields an empty
// catalog rather than a startup failure; malformed files are errors.
func LoadLibrary(dir string, logger logging.Logger) (*Library, error) {
	lib := &Library{}

	signals, err := loadSignals(filepath.Join(dir, signalsFile))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		logger.With(logging.Field{Key: "file", Value: signalsFile}).Info("future-signal catalog not found, serving empty list")
	}
	lib.signals = signals

	challenges, err := loadChallenges(filepath.Join(dir, challengesFile))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		logger.With(logging.Field{Key: "file", Value: challengesFile}).Info("local-challenge catalog not found, serving empty list")
	}
	lib.challenges = challenges

	return lib, nil
}

// FutureSignals returns a copy of the future-signal catalog.
func (l *Library) FutureSignals() []FutureSignal {
	return append([]FutureSignal{}, l.signals...)
}

// LocalChallenges returns a copy of the local-challenge catalog.
func (l *Library) LocalChallenges() []LocalChallenge {
	return append([]LocalChallenge{}, l.challenges...)
}

func loadSignals(path string) ([]FutureSignal, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	signals := make([]FutureSignal, 0, len(rows))
	for idx, row := range rows {
		get := func(col string) string { return cleanValue(field(row, header, col)) }

		signal := FutureSignal{
			Sign:       get("sign"),
			Title:      get("title"),
			Summary:    get("summary"),
			Intro:      get("intro"),
			IntroQuote: get("introQuote"),
			Detail:     get("detail"),
			Thumbnail:  thumbnailPath(get("thumbnail")),
		}
		signal.ID = parseID(get("id"), idx+1)
		signals = append(signals, signal)
	}
	return signals, nil
}

func loadChallenges(path string) ([]LocalChallenge, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	challenges := make([]LocalChallenge, 0, len(rows))
	for idx, row := range rows {
		get := func(col string) string { return cleanValue(field(row, header, col)) }

		challenge := LocalChallenge{
			Title:       get("title"),
			Description: get("description"),
		}
		challenge.ID = parseID(get("id"), idx+1)
		challenges = append(challenges, challenge)
	}
	return challenges, nil
}

// readCSV returns the data rows and a column-name index built from the header row.
func readCSV(path string) ([][]string, map[string]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headerRow, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	header := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		header[strings.TrimSpace(name)] = i
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		if isBlank(row) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

func field(row []string, header map[string]int, col string) string {
	idx, ok := header[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// cleanValue normalizes curly quotes to ASCII and flattens embedded newlines.
func cleanValue(value string) string {
	replacer := strings.NewReplacer(
		"‘", "'", "’", "'",
		"“", `"`, "”", `"`,
		"\r\n", " ", "\n", " ", "\r", " ",
	)
	return strings.TrimSpace(replacer.Replace(value))
}

func parseID(value string, fallback int) int {
	id, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return id
}

// thumbnailPath keeps only the base image name, dropping anything after the
// first space, and anchors it under the static image directory.
func thumbnailPath(value string) string {
	if value == "" {
		return ""
	}
	name := path.Base(value)
	if cut := strings.IndexByte(name, ' '); cut >= 0 {
		name = name[:cut]
	}
	return "/images/future-signals/" + name
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
