package logging

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"craftevo/internal/ga"
)

// Logger handles all training output
type Logger struct {
	csvPath     string
	jsonPath    string
	csvFile     *os.File
	csvWriter   *csv.Writer
	jsonFile    *os.File
	initialized bool
	console     bool

	runID   string
	history []GenerationSummary
}

// NewLogger creates a new logger
func NewLogger(csvPath, jsonPath string) (*Logger, error) {
	l := &Logger{
		csvPath:  csvPath,
		jsonPath: jsonPath,
		runID:    uuid.NewString(),
		console:  true,
	}

	// Ensure directories exist
	if err := os.MkdirAll(filepath.Dir(csvPath), 0755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(jsonPath), 0755); err != nil {
		return nil, err
	}

	return l, nil
}

// RunID returns the identifier stamped on every JSON line of this run
func (l *Logger) RunID() string {
	return l.runID
}

// SetConsole turns the per-generation console line on or off. Files and
// history are written either way.
func (l *Logger) SetConsole(on bool) {
	l.console = on
}

// Init initializes the log files
func (l *Logger) Init() error {
	var err error

	// Open CSV file
	l.csvFile, err = os.Create(l.csvPath)
	if err != nil {
		return err
	}
	l.csvWriter = csv.NewWriter(l.csvFile)

	// Write CSV header
	header := []string{
		"generation", "steps", "spread", "best_score", "mean_score", "std_score",
		"top_mean_score", "dead", "rollout_ms",
	}
	if err := l.csvWriter.Write(header); err != nil {
		return err
	}

	// Open JSON file
	l.jsonFile, err = os.OpenFile(l.jsonPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	l.initialized = true
	return nil
}

// Close closes all log files
func (l *Logger) Close() {
	if l.csvWriter != nil {
		l.csvWriter.Flush()
	}
	if l.csvFile != nil {
		l.csvFile.Close()
	}
	if l.jsonFile != nil {
		l.jsonFile.Close()
	}
}

// GenerationSummary holds per-generation statistics
type GenerationSummary struct {
	RunID        string    `json:"run_id"`
	Generation   int       `json:"generation"`
	Steps        int       `json:"steps"`
	Spread       float64   `json:"spread"`
	BestScore    float64   `json:"best_score"`
	MeanScore    float64   `json:"mean_score"`
	StdScore     float64   `json:"std_score"`
	TopMeanScore float64   `json:"top_mean_score"`
	TopScores    []float64 `json:"top_scores"`
	Dead         int       `json:"dead"`
	Population   int       `json:"population"`
	RolloutMS    int64     `json:"rollout_ms"`
}

// NewGenerationSummary builds a summary row from population statistics
func NewGenerationSummary(gen, steps int, spread float64, s ga.Summary, elapsed time.Duration) GenerationSummary {
	return GenerationSummary{
		Generation:   gen,
		Steps:        steps,
		Spread:       spread,
		BestScore:    s.Best,
		MeanScore:    s.Mean,
		StdScore:     s.Std,
		TopMeanScore: s.TopMean,
		TopScores:    s.TopScores,
		Dead:         s.Dead,
		Population:   s.Size,
		RolloutMS:    elapsed.Milliseconds(),
	}
}

// LogGeneration records a generation summary to CSV, JSONL and the console
func (l *Logger) LogGeneration(summary GenerationSummary) {
	summary.RunID = l.runID
	l.history = append(l.history, summary)

	if !l.initialized {
		return
	}

	// Write CSV row
	row := []string{
		strconv.Itoa(summary.Generation),
		strconv.Itoa(summary.Steps),
		fmt.Sprintf("%.2f", summary.Spread),
		fmt.Sprintf("%.4f", summary.BestScore),
		fmt.Sprintf("%.4f", summary.MeanScore),
		fmt.Sprintf("%.4f", summary.StdScore),
		fmt.Sprintf("%.4f", summary.TopMeanScore),
		strconv.Itoa(summary.Dead),
		strconv.FormatInt(summary.RolloutMS, 10),
	}
	l.csvWriter.Write(row)
	l.csvWriter.Flush()

	// Write JSON line
	jsonLine, _ := json.Marshal(summary)
	l.jsonFile.WriteString(string(jsonLine) + "\n")

	if !l.console {
		return
	}

	// Print to console
	simulated := int64(summary.Steps) * int64(summary.Population)
	fmt.Printf("Gen %4d | Steps: %4d | Best: %9.3f | Top10%%: %9.3f | Mean: %9.3f | Dead: %d | %s agent-steps in %v\n",
		summary.Generation, summary.Steps, summary.BestScore, summary.TopMeanScore, summary.MeanScore,
		summary.Dead, humanize.Comma(simulated), time.Duration(summary.RolloutMS)*time.Millisecond)
}

// History returns every summary logged so far
func (l *Logger) History() []GenerationSummary {
	return l.history
}

// LogTopK logs debug info for the first k agents of a sorted slice
func (l *Logger) LogTopK(agents []*ga.Agent, k int) {
	if k > len(agents) {
		k = len(agents)
	}
	fmt.Printf("  Top %d agents:\n", k)
	for i := 0; i < k; i++ {
		a := agents[i]
		fmt.Printf("    #%d: Score=%.3f, BestDist=%.3f, Dead=%v\n",
			i+1, a.Score(), a.Craft.Regret.Best, a.Craft.Dead)
	}
}

// FormatScores renders scores the way the console summary prints them
func FormatScores(scores []float64) string {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = strconv.FormatFloat(s, 'f', 3, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
