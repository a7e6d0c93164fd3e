package testdata

import (
	_ "embed"
	"encoding/json"

	"git.lost.host/meutraa/hitcore/internal/game"
)

//go:embed chart.json
var data []byte

// GetChart returns a fresh copy of the 4k fixture chart, 12 taps and
// 4 holds over six seconds.
func GetChart() (*game.Chart, error) {
	var chart game.Chart
	if err := json.Unmarshal(data, &chart); nil != err {
		return nil, err
	}
	return &chart, nil
}
