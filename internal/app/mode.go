// Package app implements the three-region finnterm TUI: a mode strip,
// a search input, and a results pane. The root model is the single
// owner of the mode, search text, result text, and company directory;
// network fetches run on the feed worker and come back as messages.
package app

// Mode selects which query the user intends to run.
type Mode int

const (
	ModeSymbolSearch Mode = iota // local substring search over the directory
	ModeProfile                  // company profile by symbol
	ModeListing                  // exchange symbol listing reload
	ModeMarketNews               // general market news
	ModeCompanyNews              // company news by symbol
	ModeMarketSelect             // switch the active market
	modeCount
)

// Label returns the fixed display name for a mode.
func (m Mode) Label() string {
	switch m {
	case ModeSymbolSearch:
		return "Company symbol"
	case ModeProfile:
		return "Company info"
	case ModeListing:
		return "Stock symbol"
	case ModeMarketNews:
		return "Market news"
	case ModeCompanyNews:
		return "Company news"
	case ModeMarketSelect:
		return "Select market"
	default:
		return "Unknown"
	}
}

// Next returns the following mode, wrapping past the last one.
func (m Mode) Next() Mode {
	return (m + 1) % modeCount
}

// Prev returns the preceding mode, wrapping before the first one.
func (m Mode) Prev() Mode {
	return (m + modeCount - 1) % modeCount
}

// Modes returns all modes in strip order.
func Modes() []Mode {
	modes := make([]Mode, modeCount)
	for i := range modes {
		modes[i] = Mode(i)
	}
	return modes
}
