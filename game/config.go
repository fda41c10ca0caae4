package game

// Window title and the key legend shown at the bottom of the screen.
const (
	Title    = "Dye"
	Controls = "Drag: stir | V: view | G: grid size | C: clear | Shift+R: reset settings | E: emitters | Space: pause | Wheel: zoom | P: perf"
)

// Options configures a Game.
type Options struct {
	LogStats       bool
	StatsWindowSec float64
	SnapshotDir    string // save a snapshot on every bookmark
	OutputDir      string // CSV logs, config and run summary
	Headless       bool
	StepsPerUpdate int
	Snapshot       string // restore this snapshot at start
	Emitters       bool   // drive scripted strokes; always on when headless
}

// swatchSamples is the number of ramp colors shown in the settings panel.
const swatchSamples = 64
