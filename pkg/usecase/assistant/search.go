package assistant

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/butler/pkg/model"
	"github.com/m-mizutani/butler/pkg/utils/logging"
)

// searchAndAnswer runs the web lookup on a one-shot worker goroutine so
// the acknowledgment is spoken immediately. The worker always delivers
// exactly one result over a single-slot channel, even on panic, and is
// joined before the turn completes.
func (a *Assistant) searchAndAnswer(ctx context.Context, plan *model.ActionPlan, utterance string) {
	logger := logging.From(ctx)

	query := plan.Entity("query")
	if query == "" {
		query = utterance
	}

	if a.search == nil {
		a.respond(ctx, "I'm sorry, web search is unavailable on this system.")
		return
	}

	history := a.session.Snapshot()
	knowledge := a.knowledge(ctx)

	result := make(chan string, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("search worker panicked", "panic", r)
				result <- "I'm sorry, something went wrong while I was searching the web."
			}
		}()

		digest, err := a.search.Search(ctx, query)
		if err != nil {
			logger.Warn("web search failed", "query", query, "error", err)
			result <- "I'm sorry, I ran into trouble while searching the web."
			return
		}

		answer, err := a.planner.DirectAnswer(ctx, utterance, history, knowledge, digest)
		if err != nil {
			logger.Warn("answer synthesis failed", "error", err)
			result <- "I found some results, but I couldn't put an answer together."
			return
		}
		result <- answer
	}()

	a.say(ctx, fmt.Sprintf("Consulting the web for %q. One moment.", query))

	var sp *spinner.Spinner
	if a.config.ShowProgress {
		sp = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		sp.Suffix = " searching..."
		sp.Start()
	}

	answer := <-result
	wg.Wait()

	if sp != nil {
		sp.Stop()
	}

	a.respond(ctx, answer)
}
