package bot

import (
	"strconv"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
	"github.com/Giftartbot/gift-art-bot/internal/platform/telegram"
)

// allBandsLabel is the keyboard button that scans without a price band.
const allBandsLabel = "All"

// BandLabel renders a price band as a keyboard button caption, for example
// "1-10 TON" or "20+ TON".
func BandLabel(band domain.PriceBand) string {
	min := strconv.FormatFloat(band.Min, 'f', -1, 64)
	if !band.Bounded() {
		return min + "+ TON"
	}
	max := strconv.FormatFloat(band.Max, 'f', -1, 64)
	return min + "-" + max + " TON"
}

// BandKeyboard builds the reply keyboard offering one button per configured
// band plus an unrestricted "All" button.
func BandKeyboard(bands []domain.PriceBand) *telegram.ReplyKeyboardMarkup {
	row := make([]telegram.KeyboardButton, 0, len(bands))
	for _, b := range bands {
		row = append(row, telegram.KeyboardButton{Text: BandLabel(b)})
	}
	return &telegram.ReplyKeyboardMarkup{
		Keyboard: [][]telegram.KeyboardButton{
			row,
			{{Text: allBandsLabel}},
		},
		ResizeKeyboard: true,
	}
}

// BandFromLabel maps a pressed keyboard button back to its band. The "All"
// button maps to the zero band, which matches every price.
func BandFromLabel(label string, bands []domain.PriceBand) (domain.PriceBand, bool) {
	if label == allBandsLabel {
		return domain.PriceBand{}, true
	}
	for _, b := range bands {
		if BandLabel(b) == label {
			return b, true
		}
	}
	return domain.PriceBand{}, false
}
