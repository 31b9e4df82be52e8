package main

import "flag"

// Command-line flags that control optional rendering, simulation, and runtime
// behavior.
var (
	// showWallsFlag toggles rendering of wall geometry overlays.
	showWallsFlag = flag.Bool("show-walls", true, "render wall geometry overlays")

	// showRaysFlag toggles rendering of the individual ray cascade on top of
	// the echo field.
	showRaysFlag = flag.Bool("show-rays", true, "render individual sonar rays as they expand")

	// fovDegreesFlag adjusts the angular width of the sonar beam.
	fovDegreesFlag = flag.Float64("fov-deg", 90.0, "sonar field of view (degrees)")

	// scatterFlag enables secondary scatter rays at each reflection point.
	scatterFlag = flag.Bool("scatter", false, "spawn secondary scatter rays at reflection points")

	// wallAbsorptionFlag sets the base energy fraction absorbed on each bounce.
	wallAbsorptionFlag = flag.Float64("wall-absorption", defaultWallAbsorption, "base fraction of energy absorbed per bounce (0-1)")

	// occludeFOVFlag hides regions outside of the sonar's field of view while
	// rendering.
	occludeFOVFlag = flag.Bool("occlude-fov", false, "hide regions outside the sonar's field of view when rendering")

	// enableAudioFlag toggles audible echo pings driven by returning rays.
	enableAudioFlag = flag.Bool("enable-audio", false, "enable audible echo pings from returning rays")

	// pingWavFlag selects an optional WAV sample played for each echo instead
	// of the synthesized tone.
	pingWavFlag = flag.String("ping-wav", "", "path to a WAV sample used for echo pings")

	// preferFP16Flag enables 16-bit field buffers on devices that support half
	// precision storage.
	preferFP16Flag = flag.Bool("prefer-fp16", true, "use 16-bit floats for the OpenCL field buffers when supported")

	// seedFlag fixes the wall layout and ray sampling for reproducible runs.
	// Zero selects a time-based seed.
	seedFlag = flag.Int64("seed", 0, "random seed for walls and ray sampling (0 = time-based)")

	// recordDefaultPGO triggers a scripted walk to produce default.pgo.
	recordDefaultPGO = flag.Bool("record-default-pgo", false, "walk randomly for 15s while capturing default.pgo")

	// debugFlag enables the FPS and cascade statistics overlay.
	debugFlag = flag.Bool("debug", false, "show FPS and cascade statistics overlay")
)
