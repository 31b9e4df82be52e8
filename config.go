package main

import "time"

// Simulation and rendering configuration constants used throughout the
// application. These values define the grid size, sonar tuning defaults, ping
// timing, and audio behavior for the echo visualization.
const (
	w, h        = 512, 512
	windowScale = 2

	fieldDamp   = 0.962
	fieldDamp32 = float32(fieldDamp)
	splatGain   = 0.011

	sonarRad   = 3
	moveSpeed  = 2
	pingDelay  = 60 / 4
	defaultTPS = 60.0

	frontSpeed          = 6.0
	frontMultiplierStep = 1
	minFrontMultiplier  = 1
	maxFrontMultiplier  = 10

	maxBounces  = 4
	maxRayRange = 700.0

	defaultRayEnergy             = 100.0
	defaultSecondaryRayCount     = 8
	defaultSpotlightRayCount     = 12
	defaultSpotlightEnergyFactor = 0.35
	defaultSpotlightDegreesRange = 30.0
	defaultAngleLossRate         = 0.3
	defaultDistanceLossRate      = 0.05

	scatterArcDegrees = 45.0

	wallSegmentCount      = 25
	wallMinLen            = 40.0
	wallMaxLen            = 160.0
	wallExclusionRadius   = 24.0
	defaultWallAbsorption = 0.20
	wallAbsorptionJitter  = 0.15

	pgoRecordDuration = 15 * time.Second

	audioSampleRate          = 48000
	audioChannels            = 2
	audioBytesPerSample      = 2
	audioFrameBytes          = audioChannels * audioBytesPerSample
	audioPlayerBufferLatency = 80 * time.Millisecond
	echoPingHz               = 880.0
	echoPingSeconds          = 0.25
	echoMaxPending           = 256
)
