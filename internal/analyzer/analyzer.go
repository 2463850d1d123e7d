// Package analyzer runs the report pipeline: one validated image in, one
// assembled diagnostic report out. The model call is the hard dependency;
// evidence search is best-effort and only ever degrades the output.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/radlens/radlens/apimodels"
	"github.com/radlens/radlens/internal/config"
	"github.com/radlens/radlens/internal/intake"
	"github.com/radlens/radlens/internal/llm"
	"github.com/radlens/radlens/internal/prompt"
	"github.com/radlens/radlens/internal/search"
)

const degradedNote = "No live references could be retrieved for this report."

// Augmentation is the outcome of the evidence step. Degraded is not an
// error: the pipeline branches on it without aborting.
type Augmentation struct {
	References []search.Reference
	Degraded   bool
	Reason     string
}

type Analyzer struct {
	provider  llm.Provider
	searcher  search.Searcher
	strategy  search.QueryStrategy
	modelCfg  config.ModelConfig
	searchCfg config.SearchConfig
}

func New(provider llm.Provider, searcher search.Searcher, strategy search.QueryStrategy, cfg *config.Config) *Analyzer {
	return &Analyzer{
		provider:  provider,
		searcher:  searcher,
		strategy:  strategy,
		modelCfg:  cfg.Model,
		searchCfg: cfg.Search,
	}
}

// Analyze runs the full pipeline for one upload. Errors carry the llm
// taxonomy sentinels so the HTTP layer can map them to specific statuses.
func (a *Analyzer) Analyze(ctx context.Context, payload *intake.Payload) (*apimodels.AnalysisResponse, error) {
	slog.Info("starting analysis", "format", payload.Format, "width", payload.Width, "height", payload.Height)
	startTime := time.Now()

	req := llm.Request{
		ImageData: payload.Data,
		ImageMIME: payload.MIME,
		Prompt:    prompt.Template,
	}

	result, attempts, err := a.invokeWithRetry(ctx, req)
	if err != nil {
		return nil, err
	}

	aug := a.augment(ctx, result.Text)

	resp := &apimodels.AnalysisResponse{
		Report:   result.Text,
		Sections: orderedSections(result.Text),
		Metadata: apimodels.AnalysisMetadata{
			Duration:      time.Since(startTime).String(),
			Provider:      a.provider.Name(),
			Model:         result.Model,
			TokensUsed:    result.Usage.TotalTokens,
			Attempts:      attempts,
			PromptVersion: prompt.Version,
		},
	}

	if aug.Degraded {
		resp.Degraded = true
		resp.DegradedReason = fmt.Sprintf("%s (%s)", degradedNote, aug.Reason)
	} else {
		resp.References = make([]apimodels.Reference, 0, len(aug.References))
		for _, ref := range aug.References {
			resp.References = append(resp.References, apimodels.Reference{
				Title:   ref.Title,
				URL:     ref.URL,
				Snippet: ref.Snippet,
			})
		}
	}

	slog.Info("analysis complete",
		"duration", resp.Metadata.Duration,
		"attempts", attempts,
		"references", len(resp.References),
		"degraded", resp.Degraded,
	)
	return resp, nil
}

// invokeWithRetry calls the model up to MaxRetries+1 times, backing off
// exponentially from RetryBaseInterval. Only transient errors are retried;
// authentication and invalid-response failures surface immediately.
func (a *Analyzer) invokeWithRetry(ctx context.Context, req llm.Request) (*llm.Result, int, error) {
	var lastErr error
	attempts := 0

	for attempt := 0; attempt <= a.modelCfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := a.modelCfg.RetryBaseInterval * time.Duration(1<<(attempt-1))
			slog.Warn("retrying model call", "attempt", attempt+1, "backoff", backoff)
			select {
			case <-ctx.Done():
				return nil, attempts, fmt.Errorf("%w: %v", llm.ErrTransient, ctx.Err())
			case <-time.After(backoff):
			}
		}

		attempts++
		callCtx, cancel := context.WithTimeout(ctx, a.modelCfg.Timeout)
		result, err := a.provider.Analyze(callCtx, req)
		cancel()
		if err == nil {
			return result, attempts, nil
		}

		lastErr = err
		if !errors.Is(err, llm.ErrTransient) {
			return nil, attempts, err
		}
		slog.Warn("model call failed", "attempt", attempts, "error", err)
	}

	return nil, attempts, lastErr
}

// augment derives queries from the report and collects references. Every
// failure path returns a Degraded result with a reason; nothing aborts.
func (a *Analyzer) augment(ctx context.Context, report string) Augmentation {
	if !a.searchCfg.Enabled || a.searcher == nil {
		return Augmentation{Degraded: true, Reason: "search disabled"}
	}

	queries := a.strategy.Queries(report)
	if len(queries) == 0 {
		return Augmentation{Degraded: true, Reason: "no searchable terms in report"}
	}

	var refs []search.Reference
	var lastErr error
	for _, query := range queries {
		queryCtx, cancel := context.WithTimeout(ctx, a.searchCfg.Timeout)
		found, err := a.searcher.Search(queryCtx, query)
		cancel()
		if err != nil {
			lastErr = err
			slog.Warn("reference search failed", "query", query, "error", err)
			continue
		}
		refs = append(refs, found...)
		if len(refs) >= a.searchCfg.MaxResults {
			refs = refs[:a.searchCfg.MaxResults]
			break
		}
	}

	if len(refs) == 0 {
		reason := "no results"
		if lastErr != nil {
			reason = lastErr.Error()
		}
		return Augmentation{Degraded: true, Reason: reason}
	}
	return Augmentation{References: refs}
}

func orderedSections(report string) []apimodels.Section {
	extracted := prompt.ExtractSections(report)
	sections := make([]apimodels.Section, 0, len(extracted))
	for _, name := range prompt.Sections {
		body, ok := extracted[name]
		if !ok {
			continue
		}
		sections = append(sections, apimodels.Section{Name: name, Body: body})
	}
	return sections
}
