package combat

import (
	"time"

	"github.com/milk9111/breakshot/ecs"
	"github.com/milk9111/breakshot/ecs/component"
)

// ContactResult classifies what HandleContact did with a contact report.
type ContactResult uint8

const (
	// ContactIgnored: one side is unknown or already destroyed.
	ContactIgnored ContactResult = iota
	// ContactSuppressed: rejected by cooldown or immunity.
	ContactSuppressed
	// ContactNoDamage: admitted but below the minimum impulse.
	ContactNoDamage
	// ContactDamaged: admitted and resolved into damage.
	ContactDamaged
)

func (r ContactResult) String() string {
	switch r {
	case ContactSuppressed:
		return "suppressed"
	case ContactNoDamage:
		return "no_damage"
	case ContactDamaged:
		return "damaged"
	default:
		return "ignored"
	}
}

// Options wires the Manager to its collaborators. Every field but Config is
// optional.
type Options struct {
	Config   Config
	Clock    Clock
	Physics  Physics
	Terrain  Terrain
	Listener Listener
	// InTransition reports a level transition owned by the caller; respawn
	// signals are held back while it returns true.
	InTransition func() bool
}

// Manager owns health, damage application and the destroyed lifecycle.
type Manager struct {
	world    *ecs.World
	registry *Registry
	cfg      Config
	gate     *Gate
	resolver *Resolver
	area     *AreaEngine

	physics      Physics
	terrain      Terrain
	listener     Listener
	inTransition func() bool

	objectiveArmed bool
}

// NewManager validates opts.Config and builds the combat core on w.
func NewManager(w *ecs.World, opts Options) (*Manager, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if w == nil {
		w = ecs.NewWorld()
	}
	m := &Manager{
		world:        w,
		registry:     NewRegistry(w),
		cfg:          opts.Config,
		gate:         NewGate(opts.Config.CooldownWindow, opts.Clock),
		resolver:     NewResolver(opts.Config),
		physics:      opts.Physics,
		terrain:      opts.Terrain,
		listener:     opts.Listener,
		inTransition: opts.InTransition,
	}
	if m.listener == nil {
		m.listener = nopListener{}
	}
	m.area = newAreaEngine(m)
	return m, nil
}

func (m *Manager) World() *ecs.World    { return m.world }
func (m *Manager) Registry() *Registry  { return m.registry }
func (m *Manager) Gate() *Gate          { return m.gate }
func (m *Manager) Resolver() *Resolver  { return m.resolver }
func (m *Manager) Area() *AreaEngine    { return m.area }
func (m *Manager) Config() Config       { return m.cfg }
func (m *Manager) SetTerrain(t Terrain) { m.terrain = t }

// SetConfig swaps the tuning. Existing health records keep their values.
func (m *Manager) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.cfg = cfg
	m.resolver = NewResolver(cfg)
	m.gate.SetWindow(cfg.CooldownWindow)
	return nil
}

// Register creates the health record for e and attaches behaviors.
func (m *Manager) Register(e ecs.Entity, kind Kind, behaviors ...Behavior) error {
	if err := m.registry.add(e, kind, m.cfg.StartingHP); err != nil {
		return err
	}
	if !kind.Primary() {
		m.objectiveArmed = true
	}
	for _, b := range behaviors {
		m.AttachBehavior(e, b)
	}
	return nil
}

// Unregister removes e without any destruction signalling, as used by level
// teardown. Unknown entities are ignored.
func (m *Manager) Unregister(e ecs.Entity) {
	if !m.registry.Registered(e) {
		return
	}
	m.release(e)
}

// AttachBehavior adds b to e and calls its Attach hook.
func (m *Manager) AttachBehavior(e ecs.Entity, b Behavior) bool {
	set := m.registry.behaviors(e)
	if set == nil || !set.Add(b) {
		return false
	}
	b.Attach(m, e)
	return true
}

// DetachBehavior removes the named behavior and calls its Detach hook.
func (m *Manager) DetachBehavior(e ecs.Entity, name string) bool {
	b := m.registry.behaviors(e).Remove(name)
	if b == nil {
		return false
	}
	b.Detach(m, e)
	return true
}

// Behavior returns the named behavior attached to e.
func (m *Manager) Behavior(e ecs.Entity, name string) Behavior {
	return m.registry.behaviors(e).Get(name)
}

// SetTemporaryImmunity protects the pair from contact damage for d, or for
// the configured immunity duration when d <= 0.
func (m *Manager) SetTemporaryImmunity(a, b ecs.Entity, d time.Duration) {
	if d <= 0 {
		d = m.cfg.ImmunityDuration
	}
	m.gate.SetTemporaryImmunity(a, b, d)
}

// Tick is the per-frame cleanup, run after the physics step's contacts.
func (m *Manager) Tick() {
	m.gate.Sweep()
}

// HandleContact is the physics contact entry point.
func (m *Manager) HandleContact(a, b ecs.Entity, impulse float64) ContactResult {
	if a == b {
		return ContactIgnored
	}
	_, ka, okA := m.registry.live(a)
	_, kb, okB := m.registry.live(b)
	if !okA || !okB {
		return ContactIgnored
	}

	out := m.resolver.ResolveContact(ka, kb)
	if out.StopA {
		m.stop(a)
	}
	if out.StopB {
		m.stop(b)
	}

	if !m.gate.Admit(PairKey(a, b)) {
		return ContactSuppressed
	}
	if impulse < m.cfg.MinImpulse {
		return ContactNoDamage
	}

	m.ApplyDamage(a, out.ToA, b)
	m.ApplyDamage(b, out.ToB, a)
	return ContactDamaged
}

// ApplyDamage is the single damage path shared by contacts, area effects and
// external callers. Unknown or destroyed entities are ignored.
func (m *Manager) ApplyDamage(e ecs.Entity, amount float64, source ecs.Entity) {
	h, kind, ok := m.registry.live(e)
	if !ok || amount <= 0 {
		return
	}
	traits := m.cfg.TraitsOf(kind)
	if traits.FragileMultiplier > 0 {
		amount *= traits.FragileMultiplier
	}
	if traits.Armor > 0 {
		amount *= 1 - traits.Armor
	}
	h.Subtract(amount)

	if traits.Pulse {
		if traits.LimitedPulse() {
			h.TriggerCount++
			if h.TriggerCount >= traits.MaxTriggers {
				h.Current = 0
			}
		}
		// The pulse fires before any destruction so the origin is still
		// registered while the effect resolves.
		m.area.Pulse(e)
		if !h.IsAlive() {
			return
		}
	}

	for _, b := range m.registry.behaviors(e).Snapshot() {
		b.OnDamage(m, e, amount, source)
		if !h.IsAlive() {
			return
		}
	}

	if h.Current <= 0 {
		m.destroy(e, source)
	}
}

// Kill sets e's health to zero and runs destruction.
func (m *Manager) Kill(e ecs.Entity, source ecs.Entity) {
	h, _, ok := m.registry.live(e)
	if !ok {
		return
	}
	h.Current = 0
	m.destroy(e, source)
}

// Sink removes a ball that fell through a pocket or hole. It skips the
// destruction effect but signals like a destruction.
func (m *Manager) Sink(e ecs.Entity) {
	h, kind, ok := m.registry.live(e)
	if !ok {
		return
	}
	h.State = component.Destroyed
	x, y, _ := m.Position(e)
	m.freeze(e)
	m.listener.EntityDestroyed(DestroyedEvent{
		Entity:  e,
		Kind:    kind,
		Primary: kind.Primary(),
		Sunk:    true,
		X:       x,
		Y:       y,
		Visual:  h.Visual,
	})
	m.release(e)
	m.afterRemoval(kind)
}

func (m *Manager) destroy(e ecs.Entity, source ecs.Entity) {
	h, kind, ok := m.registry.live(e)
	if !ok {
		return
	}
	// Marked first so nested area effects never see e as a candidate.
	h.State = component.Destroyed
	h.Current = 0

	traits := m.cfg.TraitsOf(kind)
	x, y, _ := m.Position(e)
	m.freeze(e)
	m.listener.EntityDestroyed(DestroyedEvent{
		Entity:  e,
		Kind:    kind,
		Primary: kind.Primary(),
		Effect:  traits.Effect,
		Source:  source,
		X:       x,
		Y:       y,
		Visual:  h.Visual,
	})

	for _, b := range m.registry.behaviors(e).Snapshot() {
		b.OnDestroy(m, e)
	}
	if traits.Explosive {
		m.area.Explode(e, x, y)
	}

	m.release(e)
	m.afterRemoval(kind)
}

func (m *Manager) afterRemoval(kind Kind) {
	if kind.Primary() && m.PrimaryRemaining() == 0 && !m.transitioning() {
		m.listener.RespawnNeeded()
	}
	m.checkObjective()
}

func (m *Manager) checkObjective() {
	if !m.objectiveArmed || m.TargetsRemaining() > 0 {
		return
	}
	m.objectiveArmed = false
	for _, e := range m.registry.Live() {
		if k, ok := m.registry.Kind(e); ok && k.Primary() {
			m.freeze(e)
		}
	}
	m.listener.ObjectiveCleared()
}

func (m *Manager) release(e ecs.Entity) {
	set := m.registry.behaviors(e)
	for _, b := range set.Snapshot() {
		set.Remove(b.Name())
		b.Detach(m, e)
	}
	m.gate.Forget(e)
	if m.physics != nil {
		m.physics.Release(e)
	}
	m.registry.remove(e)
}

func (m *Manager) transitioning() bool {
	return m.inTransition != nil && m.inTransition()
}

func (m *Manager) stop(e ecs.Entity) {
	if m.physics != nil {
		m.physics.Stop(e)
	}
}

func (m *Manager) freeze(e ecs.Entity) {
	if m.physics != nil {
		m.physics.Freeze(e)
	}
}

// Position returns e's centre from the physics collaborator, falling back to
// the last synced transform.
func (m *Manager) Position(e ecs.Entity) (float64, float64, bool) {
	if m.physics != nil {
		if x, y, ok := m.physics.Position(e); ok {
			return x, y, true
		}
	}
	if t, ok := ecs.Get(m.world, e, component.TransformComponent.Kind()); ok {
		return t.X, t.Y, true
	}
	return 0, 0, false
}

// CurrentHP returns e's current health.
func (m *Manager) CurrentHP(e ecs.Entity) (float64, bool) {
	h, ok := m.registry.Record(e)
	if !ok {
		return 0, false
	}
	return h.Current, true
}

// MaxHP returns e's maximum health.
func (m *Manager) MaxHP(e ecs.Entity) (float64, bool) {
	h, ok := m.registry.Record(e)
	if !ok {
		return 0, false
	}
	return h.Max, true
}

// TriggerCount returns how many pulses e's limited ability has used.
func (m *Manager) TriggerCount(e ecs.Entity) int {
	h, ok := m.registry.Record(e)
	if !ok {
		return 0
	}
	return h.TriggerCount
}

// IsAlive reports whether e is registered and not destroyed.
func (m *Manager) IsAlive(e ecs.Entity) bool {
	_, _, ok := m.registry.live(e)
	return ok
}

// KindOf returns e's kind tag.
func (m *Manager) KindOf(e ecs.Entity) (Kind, bool) {
	return m.registry.Kind(e)
}

// SetVisual stores the renderer's handle on e's record.
func (m *Manager) SetVisual(e ecs.Entity, v any) {
	if h, ok := m.registry.Record(e); ok {
		h.Visual = v
	}
}

// Live returns a snapshot of all live balls.
func (m *Manager) Live() []ecs.Entity {
	return m.registry.Live()
}

// TargetsRemaining counts live non-primary balls.
func (m *Manager) TargetsRemaining() int {
	return m.registry.Count(func(k Kind) bool { return !k.Primary() })
}

// PrimaryRemaining counts live primary balls.
func (m *Manager) PrimaryRemaining() int {
	return m.registry.Count(Kind.Primary)
}
