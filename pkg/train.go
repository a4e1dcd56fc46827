package pkg

import (
	"fmt"
	gio "io"
	"time"

	"github.com/rs/zerolog/log"

	"id3/pkg/config"
	"id3/pkg/io"
	"id3/pkg/model"
	"id3/pkg/tree"
)

type Result struct {
	Schema    *model.Schema
	Tree      *tree.Tree
	TrainRows int
	BuildTime time.Duration
	// Evaluation is nil when there was nothing to score
	Evaluation *Evaluation
}

func printDataErrors(report *io.DataReport) {
	for _, err := range report.Errors {
		log.Error().Msgf("Error parsing data at line %d: %s", err.Line, err.Error)
	}
}

// Train builds a tree from the configured training data and scores it on the test file
// or, without one, on a random holdout of the training rows. The rendered tree is written
// to out when requested.
func Train(conf config.Config, out gio.Writer) (*Result, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	schema, err := io.LoadSchema(conf.Dataset.SetupFile)
	if err != nil {
		return nil, fmt.Errorf("error reading setup file %s: %w", conf.Dataset.SetupFile, err)
	}

	params := io.DataParameters{
		DataFile:     conf.Dataset.TrainFile,
		Separator:    conf.Dataset.SeparatorRune(),
		UnknownToken: conf.Dataset.UnknownToken,
	}
	train, report, err := io.LoadData(params, schema)
	if err != nil {
		return nil, fmt.Errorf("error reading training data %s: %w", conf.Dataset.TrainFile, err)
	}
	printDataErrors(report)

	trainRows := train.Rows
	var testRows []model.Row
	if conf.Dataset.TestFile == "" && conf.Dataset.HoldoutFraction > 0 {
		trainSplit, testSplit, err := io.NewDataSet(train.Rows, conf.Dataset.Seed).Holdout(conf.Dataset.HoldoutFraction)
		if err != nil {
			return nil, err
		}
		trainRows, testRows = trainSplit.Rows(), testSplit.Rows()
		log.Info().Int("train", len(trainRows)).Int("test", len(testRows)).Msg("Holding out rows for testing")
	}
	if len(trainRows) == 0 {
		return nil, fmt.Errorf("no data to train: %w", tree.ErrEmptyTrainingSet)
	}

	log.Info().Int("rows", len(trainRows)).Int("attributes", len(schema.Features)).Msg("Building tree")
	start := time.Now()
	t, err := tree.Build(schema, trainRows, tree.MaxContinuousUses(conf.Tree.MaxContinuousUses))
	if err != nil {
		return nil, err
	}
	result := &Result{Schema: schema, Tree: t, TrainRows: len(trainRows), BuildTime: time.Since(start)}
	log.Info().Int("nodes", t.Size()).Int("leaves", t.Leaves()).Int("depth", t.Depth()).
		Dur("elapsed", result.BuildTime).Msg("Built tree")

	if conf.Output.PrintTree {
		if err := t.Render(out); err != nil {
			return nil, fmt.Errorf("error writing tree: %w", err)
		}
	}

	if conf.Dataset.TestFile != "" {
		params.DataFile = conf.Dataset.TestFile
		params.DiscardUnknown = true
		test, report, err := io.LoadData(params, schema)
		if err != nil {
			return nil, fmt.Errorf("error reading test data %s: %w", conf.Dataset.TestFile, err)
		}
		printDataErrors(report)
		if report.Discarded > 0 {
			log.Info().Int("rows", report.Discarded).Msg("Discarded test rows with unknown values")
		}
		testRows = test.Rows
	}

	if len(testRows) == 0 {
		log.Warn().Msg("No data to test")
		return result, nil
	}

	result.Evaluation, err = Test(t, testRows, conf.Output.PredictionsFile)
	if err != nil {
		return nil, err
	}
	return result, nil
}
