package engine

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/punsta/internal/gamedata"
	"github.com/stwalsh4118/punsta/internal/logger"
	"github.com/stwalsh4118/punsta/internal/models"
	"github.com/stwalsh4118/punsta/internal/notify"
	"github.com/stwalsh4118/punsta/internal/store"
)

// AdResult is the outcome of a successful ad campaign
type AdResult struct {
	Budget         int64 `json:"budget"`
	NewSubscribers int64 `json:"newSubscribers"`
	Money          int64 `json:"money"`
}

// SkillResult is the outcome of a skill training attempt
type SkillResult struct {
	Maxed bool  `json:"maxed"`
	Level int   `json:"level"`
	Cost  int64 `json:"cost"`
	Money int64 `json:"money"`
}

// Economy applies the money-consuming actions
type Economy struct {
	store    *store.Store
	notifier notify.Notifier
}

// NewEconomy creates an economy controller
func NewEconomy(st *store.Store, notifier notify.Notifier) *Economy {
	return &Economy{store: st, notifier: notifier}
}

// RunAdCampaign spends budget on the one-time ad campaign, converting it to subscribers
func (e *Economy) RunAdCampaign(ctx context.Context, budget int64) (*AdResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result AdResult
	err := e.store.Update(func(state *models.GameState) error {
		player := &state.Channel
		switch {
		case !state.IsGameStarted:
			return newValidationError("game", ErrGameNotStarted, "")
		case player.HasAdvertised:
			return newValidationError("budget", ErrAlreadyAdvertised, "")
		case budget <= 0:
			return newValidationError("budget", ErrInvalidBudget, "must be positive")
		case budget > gamedata.MaxAdBudget:
			return newValidationError("budget", ErrInvalidBudget, fmt.Sprintf("must not exceed %d", gamedata.MaxAdBudget))
		case budget > player.Money:
			return newValidationError("budget", ErrInsufficientFunds, "")
		}

		result = AdResult{Budget: budget, NewSubscribers: budget / gamedata.AdSubscriberRatio}
		player.Money -= budget
		player.Subscribers += result.NewSubscribers
		player.HasAdvertised = true
		result.Money = player.Money
		return nil
	})
	if err != nil {
		e.notifier.Notify("Ad Campaign Failed",
			fmt.Sprintf("Budget must be positive, within your money, and not exceed $%d.", gamedata.MaxAdBudget),
			notify.VariantDestructive)
		return nil, err
	}

	logger.Log.Info().
		Int64("budget", budget).
		Int64("new_subscribers", result.NewSubscribers).
		Msg("Ad campaign launched")
	e.notifier.Notify("Ad Campaign Launched!",
		fmt.Sprintf("You gained %d new subscribers.", result.NewSubscribers),
		notify.VariantDefault)

	return &result, nil
}

// TrainSkill buys the next skill level. At the top level it reports Maxed and changes nothing.
func (e *Economy) TrainSkill(ctx context.Context) (SkillResult, error) {
	if err := ctx.Err(); err != nil {
		return SkillResult{}, err
	}

	var result SkillResult
	err := e.store.Update(func(state *models.GameState) error {
		if !state.IsGameStarted {
			return newValidationError("game", ErrGameNotStarted, "")
		}
		player := &state.Channel

		next, ok := gamedata.NextSkillLevel(player.SkillLevel)
		if !ok {
			result = SkillResult{Maxed: true, Level: player.SkillLevel, Money: player.Money}
			return store.ErrNoChange
		}
		if player.Money < next.Cost {
			result = SkillResult{Level: player.SkillLevel, Cost: next.Cost, Money: player.Money}
			return newValidationError("money", ErrInsufficientFunds, fmt.Sprintf("need %d", next.Cost))
		}

		player.Money -= next.Cost
		player.SkillLevel = next.Level
		result = SkillResult{Level: next.Level, Cost: next.Cost, Money: player.Money}
		return nil
	})
	switch {
	case IsInsufficientFunds(err):
		e.notifier.Notify("Insufficient Funds",
			fmt.Sprintf("You need $%d to train this skill.", result.Cost),
			notify.VariantDestructive)
		return result, err
	case err != nil:
		return SkillResult{}, err
	case result.Maxed:
		e.notifier.Notify("Skill Maxed Out",
			"Your Pun Editing Skill is already at its maximum level!",
			notify.VariantDefault)
		return result, nil
	}

	logger.Log.Info().
		Int("level", result.Level).
		Int64("cost", result.Cost).
		Msg("Skill trained")
	e.notifier.Notify("Pun Editing Skill Leveled Up!",
		fmt.Sprintf("You spent $%d and reached Level %d. Your future puns will perform better!", result.Cost, result.Level),
		notify.VariantDefault)

	return result, nil
}
