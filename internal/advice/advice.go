// Package advice turns simulation headlines into plain-language coaching
// text through Gemini. It only ever sees scalar results, never paths.
package advice

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/futurebank/fbsim/internal/cli"
)

const systemPrompt = "You are a calm, practical personal finance coach. " +
	"You never give strict instructions, only pros and cons and questions to reflect on. " +
	"You speak in very simple language, assume the user is new to investing, " +
	"and you clearly label this as educational only, not real financial advice."

const disabledText = "AI advisor is disabled because no Gemini API key was found.\n\n" +
	"To enable it, set `GEMINI_API_KEY` or add `api_key` under `[advisor]` in the config file. " +
	"For now, interpret the results as a guide: look at how much risk (spread between p10 and p90) " +
	"you are comfortable taking and how strongly the car affects your long-term net worth."

// Input carries the headline numbers of a comparison run.
type Input struct {
	Years           int
	Sims            int
	Currency        string
	WithCar         bool
	CarPurchaseYear int

	BaselineMedian   float64
	BaselineProbLoss float64
	CarMedian        float64
	CarProbLoss      float64
	MedianDelta      float64
}

// Generator produces text from a system instruction and a user prompt.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Advisor produces advice text. It never returns an error: failures are
// folded into fallback text.
type Advisor struct {
	gen Generator
	log logrus.FieldLogger
}

// New returns an advisor backed by gen. A nil gen yields the disabled text.
func New(gen Generator, log logrus.FieldLogger) *Advisor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Advisor{gen: gen, log: log}
}

// Enabled reports whether a generator is configured.
func (a *Advisor) Enabled() bool {
	return a.gen != nil
}

// Advise returns coaching text for in.
func (a *Advisor) Advise(ctx context.Context, in Input) string {
	if a.gen == nil {
		return disabledText
	}

	text, err := a.gen.Generate(ctx, systemPrompt, UserPrompt(in))
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("empty response")
	}
	if err != nil {
		a.log.WithError(err).Warn("advisor request failed")
		return "The AI advisor had an error and could not generate custom text right now.\n" +
			fmt.Sprintf("(Technical detail: %v)\n\n", err) +
			"You can still use the tables above: compare the median outcomes and how wide the p10-p90 band is " +
			"to understand the risk and the effect of buying the car."
	}
	return strings.TrimSpace(text)
}

// UserPrompt wraps SummaryText with the questions the coach should answer.
func UserPrompt(in Input) string {
	return "Here is a summary of a Monte Carlo wealth simulation comparing scenarios.\n\n" +
		SummaryText(in) + "\n\n" +
		"Based on this summary, explain in simple terms how the user can think about: " +
		"1) whether buying the car is financially heavy or manageable, " +
		"2) how much risk they are taking with their investments, and " +
		"3) 2-3 possible next steps they could explore (like changing savings rate or delaying the car). " +
		"Keep it under 250 words."
}

// SummaryText describes the run in a few plain sentences.
func SummaryText(in Input) string {
	lines := []string{
		fmt.Sprintf("We ran %d Monte Carlo simulations over %d years for two scenarios:", in.Sims, in.Years),
	}
	if in.WithCar {
		lines = append(lines, fmt.Sprintf("1) Baseline (no car) and 2) Car scenario (buying a car in year %d)", in.CarPurchaseYear))
	} else {
		lines = append(lines, "1) Baseline (no car only, car scenario disabled).")
	}

	lines = append(lines, fmt.Sprintf(
		"In the baseline, the median final net worth was %s with a probability of ending negative of %.1f%%.",
		cli.FormatMoney(in.BaselineMedian, in.Currency), in.BaselineProbLoss*100,
	))

	if in.WithCar {
		direction := "the same as"
		switch {
		case in.MedianDelta > 0:
			direction = "higher than"
		case in.MedianDelta < 0:
			direction = "lower than"
		}
		lines = append(lines, fmt.Sprintf(
			"In the car scenario, the median final net worth was %s, which is %s %s the baseline.",
			cli.FormatMoney(in.CarMedian, in.Currency),
			cli.FormatMoney(math.Abs(in.MedianDelta), in.Currency),
			direction,
		))
	}

	return strings.Join(lines, "\n")
}
