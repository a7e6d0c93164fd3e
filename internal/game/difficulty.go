package game

// NKeyMap names the supported lane layouts.
var NKeyMap = map[string]int{
	"4k":           4,
	"5k":           5,
	"6k":           6,
	"7k":           7,
	"8k":           8,
	"dance-single": 4,
	"dance-solo":   6,
	"dance-double": 8,
}
