package main

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/kevanoullio/portfolio-manager-sub000/internal/model"
)

// assetPrompt asks the operator to pick one of several cross-listed
// asset rows. It blocks until a selection is made; the import pipeline
// is allowed to wait on operator input here and nowhere else.
type assetPrompt struct{}

func (assetPrompt) SelectAsset(
	symbol string, candidates []model.Asset,
) (model.Asset, error) {
	options := make([]huh.Option[int], 0, len(candidates))
	for i, a := range candidates {
		label := fmt.Sprintf("%d. %s %s (%s, %s)", i+1, a.Symbol, a.Name, a.Exchange, a.CurrencyCode)
		options = append(options, huh.NewOption(label, i))
	}

	var choice int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(fmt.Sprintf("Multiple listings found for %q, pick one", symbol)).
				Options(options...).
				Value(&choice),
		),
	)

	if err := form.Run(); err != nil {
		return model.Asset{}, fmt.Errorf("selecting listing for %q: %w", symbol, err)
	}

	return candidates[choice], nil
}
