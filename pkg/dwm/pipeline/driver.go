// Package pipeline wires every stage — tokenizing, correction, blocking,
// scoring, clustering, and metrics — into the iteration driver described
// in §4.9: widen mu and epsilon each pass until convergence or one of
// the pipeline's intermediate containers comes back empty.
package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/oysterer/dwm/internal/capture"
	"github.com/oysterer/dwm/pkg/dwm/block"
	"github.com/oysterer/dwm/pkg/dwm/cluster"
	"github.com/oysterer/dwm/pkg/dwm/config"
	"github.com/oysterer/dwm/pkg/dwm/correct"
	"github.com/oysterer/dwm/pkg/dwm/editdist"
	"github.com/oysterer/dwm/pkg/dwm/freq"
	"github.com/oysterer/dwm/pkg/dwm/metrics"
	"github.com/oysterer/dwm/pkg/dwm/reftoken"
	"github.com/oysterer/dwm/pkg/dwm/score"
	"github.com/oysterer/dwm/pkg/dwm/store"
)

// IterationReport captures one pass through the loop: the thresholds it
// ran at, the size of every intermediate container, and whatever
// quality measures the run asked for.
type IterationReport struct {
	Iteration        int
	Mu               float64
	Epsilon          float64
	CandidatePairs   int
	BlockCorrections int
	LinkedPairs      int
	Clusters         int
	Blocking         *metrics.BlockingQuality
	Quality          *metrics.Quality
	Profile          metrics.Profile
}

// Result is everything a caller (cmd/dwm, tests) needs after a run
// completes: the final state of every container the loop maintained,
// plus a report per iteration for auditing convergence behavior.
type Result struct {
	RefDict      reftoken.RefDict
	FreqDict     freq.Dict
	LinkIndex    cluster.LinkIndex
	Iterations   []IterationReport
	FinalProfile metrics.Profile
	FinalQuality *metrics.Quality
}

// Driver owns the collaborators a run needs beyond its Config: where to
// log, and where to persist the learned-variant map and per-iteration
// statistics across runs.
type Driver struct {
	Config       *config.Config
	Logger       *log.Logger
	VariantStore store.VariantStore
	StatsStore   store.RunStatsStore
	RunID        string
}

// NewDriver builds a Driver. VariantStore and StatsStore may both be
// nil — a run with neither simply doesn't persist variants or
// iteration history beyond the variant-map file named in Config.
func NewDriver(cfg *config.Config, logger *log.Logger, variantStore store.VariantStore, statsStore store.RunStatsStore, runID string) *Driver {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Driver{Config: cfg, Logger: logger, VariantStore: variantStore, StatsStore: statsStore, RunID: runID}
}

// Run executes one washing-machine pass end to end: tokenize, optionally
// correct globally, then iterate block/correct/score/cluster while
// widening mu and epsilon, until convergence or an empty intermediate
// container ends the run early (§4.9, §6 "Exit conditions").
// captureFolder may be nil, in which case no intermediate snapshots are
// written; otherwise Run dumps a RefDict/FreqDict CSV snapshot after
// tokenizing and again after global correction, plus one subfolder per
// iteration holding that iteration's block-pair, linked-pair, and
// cluster lists (§7, mirroring the source driver's save_* calls after
// nearly every stage).
func (d *Driver) Run(ctx context.Context, captureFolder *capture.Folder) (*Result, error) {
	cfg := d.Config
	logger := d.Logger
	if captureFolder == nil {
		captureFolder = &capture.Folder{}
	}

	tok, err := reftoken.New(reftoken.Type(cfg.TokenizerType), cfg.Delimiter, cfg.RemoveDuplicateTokens)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	refDict, err := reftoken.BuildRefDict(cfg.InputFileName, cfg.HasHeader, cfg.Delimiter, tok, logger)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if err := writeRefDictCapture(captureFolder, "refdict_tokenized.csv", refDict); err != nil {
		logger.Printf("pipeline: capture tokenized refdict: %v", err)
	}

	var linkIndex cluster.LinkIndex
	if cfg.AddRefsToLinkIndex {
		linkIndex = cluster.BuildLinkIndex(refDict.RefIDs())
	} else {
		linkIndex = make(cluster.LinkIndex)
	}

	freqDict := freq.Build(refDict)
	if err := writeFreqDictCapture(captureFolder, "freqdict_tokenized.csv", freqDict); err != nil {
		logger.Printf("pipeline: capture tokenized freqdict: %v", err)
	}
	cache := editdist.NewCache()

	var truth metrics.TruthDict
	if cfg.TruthFileName != "" {
		truth, err = metrics.LoadTruthDict(cfg.TruthFileName)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
	}

	if cfg.RunGlobalCorrection {
		refDict, freqDict, err = d.runGlobalCorrection(ctx, refDict, freqDict, cache)
		if err != nil {
			return nil, err
		}
		if err := writeRefDictCapture(captureFolder, "refdict_corrected.csv", refDict); err != nil {
			logger.Printf("pipeline: capture corrected refdict: %v", err)
		}
		if err := writeFreqDictCapture(captureFolder, "freqdict_corrected.csv", freqDict); err != nil {
			logger.Printf("pipeline: capture corrected freqdict: %v", err)
		}
	}

	comparator, err := buildComparator(cfg, cache)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	mu := cfg.Mu
	epsilon := cfg.Epsilon
	iterationNum := 0
	firstIteration := true
	var reports []IterationReport

	for {
		iterationNum++

		blockParams := block.Params{
			Sigma:                   cfg.Sigma,
			MinBlkTokenLen:          cfg.MinBlkTokenLen,
			ExcludeNumericBlocks:    cfg.ExcludeNumericBlocks,
			RemoveExcludedBlkTokens: cfg.RemoveExcludedBlkTokens,
			BlockByPairs:            cfg.BlockByPairs,
		}
		pairs, idx := block.Build(refDict, freqDict, blockParams)
		if len(pairs) == 0 {
			logger.Printf("pipeline: iteration %d: empty block-pair list, stopping", iterationNum)
			break
		}

		var blocking *metrics.BlockingQuality
		if truth != nil {
			bq := metrics.EvaluateBlocking(pairs, refDict, truth)
			blocking = &bq
		}

		blockCorrections := 0
		if cfg.BlockCorrection && firstIteration {
			bc := correct.BlockCorrect(refDict, idx.PostingLists(), cache, correct.BlockParams{
				MinLenStdToken: cfg.MinLenStdToken,
				DetailLog:      cfg.BlockCorrectionDetail,
			}, logger)
			blockCorrections = bc.TokensCorrected
			if bc.TokensCorrected > 0 {
				refDict = bc.RefDict
				freqDict = freq.Build(refDict)
				pairs, idx = block.Build(refDict, freqDict, blockParams)
				if len(pairs) == 0 {
					logger.Printf("pipeline: iteration %d: empty block-pair list after block correction, stopping", iterationNum)
					break
				}
				if truth != nil {
					bq := metrics.EvaluateBlocking(pairs, refDict, truth)
					blocking = &bq
				}
			}
		}
		firstIteration = false

		scoreParams := score.Params{Comparator: comparator, Mu: mu, FreqDict: freqDict, Sigma: cfg.Sigma}
		linked := score.Score(pairs, refDict, scoreParams)
		if len(linked) == 0 {
			logger.Printf("pipeline: iteration %d: empty linked-pair list, stopping", iterationNum)
			break
		}

		clusters := cluster.TransitiveClosure(linked)
		if len(clusters) == 0 {
			logger.Printf("pipeline: iteration %d: empty cluster list, stopping", iterationNum)
			break
		}

		linkIndex = cluster.Update(linkIndex, clusters)

		iterCap, err := captureFolder.Subfolder(fmt.Sprintf("iteration_%d", iterationNum))
		if err != nil {
			logger.Printf("pipeline: create iteration capture folder: %v", err)
			iterCap = &capture.Folder{}
		}
		if err := writePairsCapture(iterCap, "blockpairs.csv", pairs); err != nil {
			logger.Printf("pipeline: capture block pairs: %v", err)
		}
		if err := writeLinkedPairsCapture(iterCap, "linkedpairs.csv", linked); err != nil {
			logger.Printf("pipeline: capture linked pairs: %v", err)
		}
		if err := writeClustersCapture(iterCap, "clusters.csv", clusters); err != nil {
			logger.Printf("pipeline: capture clusters: %v", err)
		}

		var profile metrics.Profile
		var quality *metrics.Quality
		if cfg.RunIterationProfile {
			profile = metrics.BuildProfile(refDict)
			if truth != nil {
				q := metrics.EvaluateLinkIndex(linkIndex, truth)
				quality = &q
			}
		}

		report := IterationReport{
			Iteration:        iterationNum,
			Mu:               mu,
			Epsilon:          epsilon,
			CandidatePairs:   len(pairs),
			BlockCorrections: blockCorrections,
			LinkedPairs:      len(linked),
			Clusters:         len(clusters),
			Blocking:         blocking,
			Quality:          quality,
			Profile:          profile,
		}
		reports = append(reports, report)

		logger.Printf("pipeline: iteration %d: mu=%.2f epsilon=%.2f candidates=%d linked=%d clusters=%d",
			iterationNum, mu, epsilon, len(pairs), len(linked), len(clusters))

		if d.StatsStore != nil {
			stat := store.IterationStat{
				RunID:          d.RunID,
				Iteration:      iterationNum,
				Mu:             mu,
				Epsilon:        epsilon,
				CandidatePairs: int64(len(pairs)),
				LinkedPairs:    int64(len(linked)),
				Clusters:       int64(len(clusters)),
			}
			if quality != nil {
				stat.Precision = quality.Precision
				stat.Recall = quality.Recall
				stat.FMeasure = quality.FMeasure
			}
			if err := d.StatsStore.RecordIteration(ctx, stat); err != nil {
				logger.Printf("pipeline: record iteration stats: %v", err)
			}
		}

		mu = round2(mu + cfg.MuIterate)
		epsilon = round2(epsilon + cfg.EpsilonIterate)

		if mu > 1.0 {
			logger.Printf("pipeline: mu %.2f exceeds 1.0, converged after %d iterations", mu, iterationNum)
			break
		}
	}

	finalProfile := metrics.BuildProfile(refDict)
	var finalQuality *metrics.Quality
	if truth != nil {
		q := metrics.EvaluateLinkIndex(linkIndex, truth)
		finalQuality = &q
	}

	if cfg.LinkIndexOutput != "" {
		if err := writeLinkIndex(cfg.LinkIndexOutput, linkIndex); err != nil {
			logger.Printf("pipeline: write link index: %v", err)
		}
	}

	return &Result{
		RefDict:      refDict,
		FreqDict:     freqDict,
		LinkIndex:    linkIndex,
		Iterations:   reports,
		FinalProfile: finalProfile,
		FinalQuality: finalQuality,
	}, nil
}

// runGlobalCorrection loads the word list and the persistent learned-
// variant map (merging in anything the configured VariantStore already
// knows), runs GlobalCorrect, and — if the run is allowed to learn —
// saves whatever new variants were discovered back to both the file and
// the store.
func (d *Driver) runGlobalCorrection(ctx context.Context, refDict reftoken.RefDict, freqDict freq.Dict, cache *editdist.Cache) (reftoken.RefDict, freq.Dict, error) {
	cfg := d.Config
	logger := d.Logger

	wordList, err := correct.LoadWordList(cfg.WordListPath)
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline: %w", err)
	}

	variantMap, err := correct.LoadVariantMap(cfg.VariantMapPath)
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline: %w", err)
	}

	if d.VariantStore != nil {
		stored, err := d.VariantStore.LoadVariants(ctx)
		if err != nil {
			logger.Printf("pipeline: load variants from store: %v", err)
		} else if len(stored) > 0 {
			corrections := make(map[string]string)
			for std, variants := range stored {
				for _, v := range variants {
					corrections[v] = std
				}
			}
			variantMap.Learn(corrections)
		}
	}

	result := correct.GlobalCorrect(refDict, freqDict, wordList, variantMap, cache, correct.GlobalParams{
		MinFreqStdToken: cfg.MinFreqStdToken,
		MinLenStdToken:  cfg.MinLenStdToken,
		MaxFreqErrToken: cfg.MaxFreqErrToken,
		LearnVariants:   cfg.LearnTokenVariants,
		DetailLog:       cfg.GlobalCorrectionDetail,
	}, logger)

	if cfg.LearnTokenVariants {
		if cfg.VariantMapPath != "" {
			if err := variantMap.Save(cfg.VariantMapPath); err != nil {
				logger.Printf("pipeline: save variant map: %v", err)
			}
		}
		if d.VariantStore != nil {
			if err := d.VariantStore.SaveVariants(ctx, map[string][]string(variantMap)); err != nil {
				logger.Printf("pipeline: save variants to store: %v", err)
			}
		}
	}

	return result.RefDict, freq.Build(result.RefDict), nil
}

// buildComparator picks the configured Comparator, threading the two
// matrix cell-rule toggles (matrixNumTokenRule, matrixInitialRule) into
// the scoring-matrix variants — the only comparators that consult them.
func buildComparator(cfg *config.Config, cache *editdist.Cache) (score.Comparator, error) {
	switch cfg.Comparator {
	case "cosine":
		return score.Cosine{}, nil
	case "monge_elkan":
		return score.MongeElkan{Cache: cache}, nil
	case "scoring_matrix_std":
		return score.ScoringMatrixStd{Cache: cache, NumTokenRule: cfg.MatrixNumTokenRule, InitialRule: cfg.MatrixInitialRule}, nil
	case "scoring_matrix_kris":
		return score.ScoringMatrixKris{Cache: cache, NumTokenRule: cfg.MatrixNumTokenRule, InitialRule: cfg.MatrixInitialRule}, nil
	default:
		return nil, fmt.Errorf("unknown comparator %q", cfg.Comparator)
	}
}

func round2(f float64) float64 {
	const scale = 100
	if f >= 0 {
		return float64(int64(f*scale+0.5)) / scale
	}
	return float64(int64(f*scale-0.5)) / scale
}

// writeRefDictCapture dumps a RefDict snapshot to the capture folder.
func writeRefDictCapture(captureFolder *capture.Folder, name string, refDict reftoken.RefDict) error {
	refIDs := make([]string, 0, len(refDict))
	for ref := range refDict {
		refIDs = append(refIDs, string(ref))
	}
	sort.Strings(refIDs)
	return captureFolder.WriteRefDict(name, refIDs, func(refID string) []string {
		return refDict[reftoken.RefID(refID)]
	})
}

// writeFreqDictCapture dumps a token -> document-frequency snapshot.
func writeFreqDictCapture(captureFolder *capture.Folder, name string, freqDict freq.Dict) error {
	tokens := make([]string, 0, len(freqDict))
	for tok := range freqDict {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	rows := make([][]string, len(tokens))
	for i, tok := range tokens {
		rows[i] = []string{tok, fmt.Sprintf("%d", freqDict[tok])}
	}
	return captureFolder.WriteCSV(name, []string{"token", "frequency"}, rows)
}

// writePairsCapture dumps a block-pair list snapshot.
func writePairsCapture(captureFolder *capture.Folder, name string, pairs []block.Pair) error {
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{string(p.A), string(p.B)}
	}
	return captureFolder.WriteCSV(name, []string{"ref_a", "ref_b"}, rows)
}

// writeLinkedPairsCapture dumps a scored linked-pair list snapshot.
func writeLinkedPairsCapture(captureFolder *capture.Folder, name string, linked []score.LinkedPair) error {
	rows := make([][]string, len(linked))
	for i, p := range linked {
		rows[i] = []string{string(p.A), string(p.B), fmt.Sprintf("%f", p.Score)}
	}
	return captureFolder.WriteCSV(name, []string{"ref_a", "ref_b", "score"}, rows)
}

// writeClustersCapture dumps a cluster-list snapshot, one row per member
// with its cluster representative.
func writeClustersCapture(captureFolder *capture.Folder, name string, clusters []cluster.Cluster) error {
	var rows [][]string
	for _, c := range clusters {
		for _, m := range c.Members {
			rows = append(rows, []string{string(c.Rep), string(m)})
		}
	}
	return captureFolder.WriteCSV(name, []string{"cluster_rep", "ref_id"}, rows)
}

// writeLinkIndex writes the final RefID -> cluster-representative
// mapping as sorted "refID,clusterID" lines, one per reference.
func writeLinkIndex(path string, idx cluster.LinkIndex) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	refs := make([]string, 0, len(idx))
	for ref := range idx {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	w := bufio.NewWriter(f)
	for _, ref := range refs {
		fmt.Fprintf(w, "%s,%s\n", ref, idx[ref])
	}
	return w.Flush()
}
