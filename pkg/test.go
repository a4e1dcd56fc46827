package pkg

import (
	"fmt"
	gio "io"
	"os"
	"sort"

	"github.com/nlpodyssey/spago/pkg/ml/stats"
	"github.com/rs/zerolog/log"

	"id3/pkg/model"
	"id3/pkg/tree"
)

type NoopWriter struct{}

func (x NoopWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

// Test scores the tree on rows and writes one "actual,predicted" line per row to
// outputFileName when it is not empty.
func Test(t *tree.Tree, rows []model.Row, outputFileName string) (evaluation *Evaluation, err error) {
	var outputWriter gio.Writer
	if outputFileName != "" {
		outputFile, createErr := os.Create(outputFileName)
		if createErr != nil {
			return nil, fmt.Errorf("error opening output file %s: %w", outputFileName, createErr)
		}
		defer func() {
			if closeErr := outputFile.Close(); closeErr != nil && err == nil {
				evaluation, err = nil, fmt.Errorf("error closing output file %s: %w", outputFileName, closeErr)
			}
		}()
		outputWriter = outputFile
	} else {
		outputWriter = NoopWriter{}
	}

	evaluation = Evaluate(t, rows, outputWriter)
	evaluation.LogMetrics()
	if evaluation.Err() != nil {
		return nil, fmt.Errorf("error writing output file %s: %w", outputFileName, evaluation.Err())
	}
	return evaluation, nil
}

// Evaluation accumulates classification results over a test set.
type Evaluation struct {
	Total   int
	Correct int
	// Failed counts rows the tree had no branch for; they are scored as incorrect
	Failed  int
	Metrics map[string]*stats.ClassMetrics

	tree         *tree.Tree
	target       *model.Attribute
	outputWriter gio.Writer
	writeErr     error
}

func Evaluate(t *tree.Tree, rows []model.Row, outputWriter gio.Writer) *Evaluation {
	e := &Evaluation{
		Metrics:      map[string]*stats.ClassMetrics{},
		tree:         t,
		target:       t.Schema.TargetAttribute(),
		outputWriter: outputWriter,
	}
	for _, r := range rows {
		e.EvaluatePrediction(r)
	}
	return e
}

func (e *Evaluation) metricsFor(class string) *stats.ClassMetrics {
	m, ok := e.Metrics[class]
	if !ok {
		m = stats.NewMetricCounter()
		e.Metrics[class] = m
	}
	return m
}

// Err returns the first error met while writing predictions.
func (e *Evaluation) Err() error {
	return e.writeErr
}

func (e *Evaluation) writePrediction(label, predictedClass string) {
	if e.writeErr != nil {
		return
	}
	_, e.writeErr = fmt.Fprintf(e.outputWriter, "%s,%s\n", label, predictedClass)
}

func (e *Evaluation) EvaluatePrediction(row model.Row) {
	e.Total++
	label := e.target.Label(row.Value(e.target.ID))
	labelClassMetrics := e.metricsFor(label)

	predicted, err := e.tree.Classify(row)
	if err != nil {
		log.Debug().Err(err).Str("label", label).Msg("Could not classify row")
		e.Failed++
		labelClassMetrics.IncFalseNeg()
		e.writePrediction(label, "")
		return
	}

	predictedClass := e.target.Label(float64(predicted))
	e.writePrediction(label, predictedClass)

	if predicted == row.Label(e.target.ID) {
		e.Correct++
		labelClassMetrics.IncTruePos()
		return
	}
	labelClassMetrics.IncFalseNeg()
	e.metricsFor(predictedClass).IncFalsePos()
}

// Accuracy returns the percentage of correctly classified rows.
func (e *Evaluation) Accuracy() float64 {
	if e.Total == 0 {
		return 0
	}
	return float64(e.Correct) / float64(e.Total) * 100
}

func (e *Evaluation) LogMetrics() {
	// Sort class names for deterministic output
	sortedClasses := sortClasses(e.Metrics)
	for _, class := range sortedClasses {
		result := e.Metrics[class]
		log.Info().Str("Class", class).
			Int("TP", result.TruePos).
			Int("FP", result.FalsePos).
			Int("FN", result.FalseNeg).
			Float64("Precision", result.Precision()).
			Float64("Recall", result.Recall()).
			Float64("F1", result.F1Score()).
			Msg("")
	}

	macroF1, microF1 := computeOverallF1(e.Metrics)
	log.Info().Float64("MacroF1", macroF1).Float64("MicroF1", microF1).Msg("")

	if e.Failed > 0 {
		log.Warn().Int("rows", e.Failed).Msg("Rows without a matching branch were scored as incorrect")
	}
	log.Info().Int("correct", e.Correct).Int("total", e.Total).Float64("accuracy", e.Accuracy()).
		Msgf("%06.3f%%: %d out of %d", e.Accuracy(), e.Correct, e.Total)
}

func computeOverallF1(metrics map[string]*stats.ClassMetrics) (float64, float64) {
	if len(metrics) == 0 {
		return 0, 0
	}
	macroF1 := 0.0
	for _, metric := range metrics {
		macroF1 += metric.F1Score()
	}
	macroF1 /= float64(len(metrics))

	micro := stats.NewMetricCounter()
	for _, result := range metrics {
		micro.TruePos += result.TruePos
		micro.FalsePos += result.FalsePos
		micro.FalseNeg += result.FalseNeg
		micro.TrueNeg += result.TrueNeg
	}
	return macroF1, micro.F1Score()
}

func sortClasses(metrics map[string]*stats.ClassMetrics) []string {
	result := make([]string, 0, len(metrics))
	for class := range metrics {
		result = append(result, class)
	}
	sort.Strings(result)
	return result
}
