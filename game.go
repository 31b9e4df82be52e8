package main

import (
	"log"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// activePing tracks one emitted cascade while its front expands across the
// field. prevFront marks the distance already splatted so each tick only
// deposits the newly revealed portion of every path.
type activePing struct {
	cascade   *cascade
	front     float64
	prevFront float64
}

// Game encapsulates the sonar state, the ray cascade pipeline, rendering
// buffers, and the audio pipeline.
type Game struct {
	gen       *rayGenerator
	scheduler *rayScheduler
	field     *echoField

	sx float64
	sy float64

	headingX float64
	headingY float64

	stepTimer       int
	frontMultiplier int
	lastSimDuration time.Duration
	lastRayCount    int

	walls    []wallSegment
	wallGrid []bool

	levelRand *rand.Rand
	pingRand  *rand.Rand

	pings []*activePing

	autoWalk           bool
	autoWalkDeadline   time.Time
	autoWalkRand       *rand.Rand
	autoWalkDirX       float64
	autoWalkDirY       float64
	autoWalkFrameCount int

	visibleStamp   []uint32
	visibleGen     uint32
	lastVisCX      int
	lastVisCY      int
	lastVisHeading float64

	workerMu       sync.Mutex
	workerCond     *sync.Cond
	workerStep     int
	workerPending  int
	workerCount    int
	workerMasks    []workerMask
	workersStarted bool
	maskDirty      bool
	wallsDirty     bool

	gpuSolver *openCLFieldSolver
	pixelBuf  []byte

	audioCtx    *audio.Context
	audioStream *echoAudioStream
	audioPlayer *audio.Player
}

// newGame constructs a fully initialized Game instance.
func newGame() *Game {
	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	tuning := defaultSonarTuning()
	g := &Game{
		gen:             newRayGenerator(tuning),
		field:           newEchoField(w, h),
		sx:              float64(w / 2),
		sy:              float64(h / 2),
		headingX:        0,
		headingY:        -1,
		frontMultiplier: minFrontMultiplier,
		levelRand:       rand.New(rand.NewSource(seed + 1)),
		pingRand:        rand.New(rand.NewSource(seed + 2)),
		autoWalkRand:    rand.New(rand.NewSource(seed + 3)),
		workerCount:     runtime.NumCPU(),
	}
	g.generateWalls()
	g.scheduler = newRayScheduler(g.gen, g.walls, *scatterFlag)

	if solver, err := newOpenCLFieldSolver(w, h, *preferFP16Flag); err != nil {
		log.Printf("OpenCL unavailable, using CPU decay workers: %v", err)
		g.startWorkers()
	} else {
		log.Printf("OpenCL field solver enabled (device: %s)", solver.DeviceName())
		g.gpuSolver = solver
	}

	if *enableAudioFlag {
		g.audioCtx = audio.NewContext(audioSampleRate)
		stream := newEchoAudioStream()
		if *pingWavFlag != "" {
			if samples, err := loadPingSample(audioSampleRate, *pingWavFlag); err != nil {
				log.Printf("Ping sample load failed, using synthesized tone: %v", err)
			} else {
				stream.setPingSample(samples)
			}
		}
		g.audioStream = stream
		if player, err := g.audioCtx.NewPlayer(stream); err != nil {
			log.Printf("Audio player creation failed: %v", err)
		} else {
			g.audioPlayer = player
			g.audioPlayer.SetBufferSize(audioPlayerBufferLatency)
			g.audioPlayer.Play()
		}
	}

	g.lastVisCX, g.lastVisCY = -1, -1
	return g
}

// Update advances the sonar, emits pings, expands cascade fronts into the echo
// field, and applies field decay.
func (g *Game) Update() error {
	dx, dy := g.movementVector()
	moving := g.moveSonar(dx, dy)

	g.handleDebugControls()

	if moving {
		g.stepTimer++
		if g.stepTimer >= pingDelay {
			g.stepTimer = 0
			g.emitPing()
		}
	} else {
		g.stepTimer = pingDelay
	}

	if *occludeFOVFlag {
		g.refreshVisibleMask()
	}

	simStart := time.Now()
	g.advancePings()
	if g.gpuSolver != nil {
		pixels, err := g.gpuSolver.Step(g.field, g.wallGrid, g.wallsDirty, *showWallsFlag)
		if err != nil {
			return err
		}
		g.pixelBuf = pixels
		g.wallsDirty = false
	} else {
		if g.maskDirty {
			g.rebuildInteriorMask()
		}
		g.stepFieldCPU()
	}
	g.lastSimDuration = time.Since(simStart)

	return nil
}

// emitPing resolves a full cascade from the sonar's current position and
// heading and queues its echoes on the audio stream.
func (g *Game) emitPing() {
	heading := math.Atan2(g.headingY, g.headingX)
	c := g.scheduler.ping(point{x: g.sx, y: g.sy}, heading, *fovDegreesFlag, g.pingRand)
	g.pings = append(g.pings, &activePing{cascade: c})
	g.lastRayCount = len(c.paths)

	if g.audioStream != nil {
		ticksPerPixel := 1.0 / (frontSpeed * float64(g.frontMultiplier))
		for _, e := range c.echoes {
			delay := int(e.distance * ticksPerPixel / defaultTPS * audioSampleRate)
			amp := float32(e.energy / g.gen.tuning.initialEnergy)
			g.audioStream.schedule(delay, amp)
		}
	}
}

// advancePings expands each active front and splats the newly covered path
// portions into the echo field. Exhausted pings are dropped.
func (g *Game) advancePings() {
	step := frontSpeed * float64(g.frontMultiplier)
	live := g.pings[:0]
	for _, p := range g.pings {
		p.prevFront = p.front
		p.front += step
		g.splatPing(p)
		if p.front < p.cascade.maxDist {
			live = append(live, p)
		}
	}
	g.pings = live
}

// splatPing deposits the energy of every path portion the front passed over
// during this tick.
func (g *Game) splatPing(p *activePing) {
	for i := range p.cascade.paths {
		path := &p.cascade.paths[i]
		if path.startDist >= p.front || path.endDist <= p.prevFront {
			continue
		}
		a := math.Max(path.startDist, p.prevFront)
		b := math.Min(path.endDist, p.front)
		from := path.source.vector.pointAt(a - path.startDist)
		to := path.source.vector.pointAt(b - path.startDist)
		arrival := g.gen.energyWithDistanceLoss(path.source.energy, (a+b)/2)
		if arrival <= 0 {
			continue
		}
		value := float32(arrival/g.gen.tuning.initialEnergy) * splatGain
		plotGridLine(int(from.x), int(from.y), int(to.x), int(to.y), func(x, y int) {
			if g.isWall(x, y) {
				return
			}
			g.field.deposit(x, y, value)
		})
	}
}
