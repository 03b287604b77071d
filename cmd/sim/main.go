// Command sim plays shots against the stock rack without a window and
// prints what each shot destroyed. It is used to tune prefabs/combat.yaml.
package main

import (
	"flag"
	"fmt"
	"log"
)

func main() {
	seed := flag.Uint64("seed", 1, "rng seed for terrain and shot selection")
	shots := flag.Int("shots", 30, "maximum number of shots")
	frames := flag.Int("frames", 900, "frame cap per shot")
	speed := flag.Float64("speed", 800, "peak shot speed")
	scripts := flag.Bool("scripts", true, "attach rack scripts")
	tui := flag.Bool("tui", false, "draw the table live in the terminal")
	speedup := flag.Float64("speedup", 2, "playback speed for -tui")
	flag.Parse()

	opts := options{
		Seed:      *seed,
		Shots:     *shots,
		MaxFrames: *frames,
		Speed:     *speed,
		Scripts:   *scripts,
	}
	var (
		report Report
		err    error
	)
	if *tui {
		report, err = watch(opts, *speedup)
	} else {
		report, err = run(opts)
	}
	if err != nil {
		log.Fatal(err)
	}

	for _, s := range report.Shots {
		fmt.Println(s)
	}
	fmt.Printf("racked %d, cleared=%v after %d shots\n", report.Racked, report.Cleared, len(report.Shots))
}
