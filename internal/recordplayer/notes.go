package recordplayer

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"

	"hall-of-fame/internal/frame"
	"hall-of-fame/scene"
)

// CycleMs is the lifetime of one note, and the period over which Play
// staggers the first start of every note.
const CycleMs = 3215

// riseAxis is the direction, in note space, notes drift while alive.
var riseAxis = mgl32.Vec3{0, 0.5, 0}

type noteMode int

const (
	notePaused noteMode = iota
	notePlaying
)

// note is one particle. It grows along a damped curve, shrinks linearly
// once the curve is done and, when its scale reaches zero, restarts or
// stops depending on the mode queued for it.
type note struct {
	node    *scene.Node
	scale   float32
	elapsed float32
	growing bool
	current noteMode
	next    noteMode
}

func newNote(node *scene.Node) *note {
	n := &note{node: node}
	n.reset()
	node.SetUniformScale(0)
	return n
}

func (n *note) start() {
	n.current = notePlaying
	n.next = notePlaying
}

func (n *note) stopNext() { n.next = notePaused }

func (n *note) reset() {
	n.elapsed = 0
	n.growing = true
	n.node.SetPosition(mgl32.Vec3{})
}

func (n *note) update(dt float32) {
	if n.scale <= 0 {
		n.reset()
		n.current = n.next
	}
	if n.current != notePlaying {
		return
	}
	n.updateScale(dt)
	n.node.SetUniformScale(max(n.scale, 0))
	n.node.TranslateOnAxis(riseAxis, dt/800)
}

func (n *note) updateScale(dt float32) {
	if n.growing {
		n.elapsed += dt
		x := 0.21 + float64(n.elapsed)/1000
		n.scale = float32(0.1 * (0.5 - math.Cos(5*x)/(7*x)))
		if x >= 2.9 {
			n.growing = false
		}
	}
	if !n.growing {
		n.scale -= dt / 10000
	}
}

type pendingStart struct {
	note *note
	at   float32
}

// Notes is the music-note loop floating above the record player.
type Notes struct {
	Root *scene.Node

	notes   []*note
	pending []pendingStart
	clock   float32
	rng     *rand.Rand
	plays   int
}

// NewNotes places n clones of model in a row along X, 0.3 apart.
func NewNotes(model *scene.Node, n int, rng *rand.Rand) *Notes {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	ns := &Notes{Root: scene.NewNode("notes"), rng: rng}
	mid := float32(n-1) / 2
	for i := 0; i < n; i++ {
		holder := scene.NewNode("note")
		holder.SetPosition(mgl32.Vec3{0.3 * (float32(i) - mid), 0, 0})
		// The particle animates body; the clone keeps the model's own scale.
		body := scene.NewNode("note:body")
		body.AddChild(model.Clone())
		holder.AddChild(body)
		ns.Root.AddChild(holder)
		ns.notes = append(ns.notes, newNote(body))
	}
	return ns
}

// Play starts every note once, in shuffled order, spread over one cycle.
func (ns *Notes) Play() {
	ns.plays++
	ns.pending = ns.pending[:0]
	step := float32(CycleMs) / float32(len(ns.notes))
	for k, idx := range ns.rng.Perm(len(ns.notes)) {
		ns.pending = append(ns.pending, pendingStart{note: ns.notes[idx], at: ns.clock + float32(k)*step})
	}
}

// Pause drops unstarted notes and lets live ones finish their cycle.
func (ns *Notes) Pause() {
	ns.pending = ns.pending[:0]
	for _, n := range ns.notes {
		n.stopNext()
	}
}

func (ns *Notes) Update(fc frame.Context) {
	ns.clock += fc.DeltaMs
	kept := ns.pending[:0]
	for _, p := range ns.pending {
		if p.at <= ns.clock {
			p.note.start()
			continue
		}
		kept = append(kept, p)
	}
	ns.pending = kept
	for _, n := range ns.notes {
		n.update(fc.DeltaMs)
	}
}

// Active counts notes currently visible.
func (ns *Notes) Active() int {
	count := 0
	for _, n := range ns.notes {
		if n.current == notePlaying && n.scale > 0 {
			count++
		}
	}
	return count
}
