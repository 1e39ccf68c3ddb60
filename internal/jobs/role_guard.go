package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hitsquad/panela/internal/model"
)

// ConfigLister lists every guild configuration the guard should inspect.
type ConfigLister interface {
	List(ctx context.Context) ([]*model.GuildConfig, error)
}

// RoleSanitizer normalizes a role on the platform. Implementations strip
// permission bits and mentionability from the role when they drift.
type RoleSanitizer interface {
	EnsureRoleSafe(ctx context.Context, guildID, roleID string) error
}

// RoleGuard periodically sweeps the roles bound to protected slots and
// re-applies their safe shape. Guild admins can edit roles behind the bot's
// back; the guard undoes permission escalation on those roles.
type RoleGuard struct {
	repo      ConfigLister
	sanitizer RoleSanitizer
	interval  time.Duration
	protected map[model.Slot]bool
	stopCh    chan struct{}
	wg        sync.WaitGroup
	running   bool
	mu        sync.Mutex
}

// NewRoleGuard creates a new role guard job. With no protected slots given,
// only the capacity slot is guarded.
func NewRoleGuard(repo ConfigLister, sanitizer RoleSanitizer, interval time.Duration, protectedSlots []model.Slot) *RoleGuard {
	if interval == 0 {
		interval = 1 * time.Minute
	}
	if len(protectedSlots) == 0 {
		protectedSlots = []model.Slot{model.SlotCapacity}
	}
	protected := make(map[model.Slot]bool, len(protectedSlots))
	for _, slot := range protectedSlots {
		protected[slot] = true
	}
	return &RoleGuard{
		repo:      repo,
		sanitizer: sanitizer,
		interval:  interval,
		protected: protected,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the role guard job
func (g *RoleGuard) Start() {
	g.mu.Lock()
	if g.running {
		g.mu.Unlock()
		return
	}
	g.running = true
	g.mu.Unlock()

	g.wg.Add(1)
	go g.run()
	log.Printf("Role guard started (interval: %v)", g.interval)
}

// Stop gracefully stops the role guard job
func (g *RoleGuard) Stop() {
	g.mu.Lock()
	if !g.running {
		g.mu.Unlock()
		return
	}
	g.running = false
	g.mu.Unlock()

	close(g.stopCh)
	g.wg.Wait()
	log.Println("Role guard stopped")
}

// run is the main loop
func (g *RoleGuard) run() {
	defer g.wg.Done()

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.sweep()
		case <-g.stopCh:
			return
		}
	}
}

// sweep runs one guard pass with a bounded deadline
func (g *RoleGuard) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := g.RunOnce(ctx); err != nil {
		log.Printf("Error sweeping protected roles: %v", err)
	}
}

// RunOnce sweeps all configured guilds once (for testing or manual trigger).
// Roles are sanitized concurrently; the first error is returned after the
// whole pass finishes.
func (g *RoleGuard) RunOnce(ctx context.Context) error {
	configs, err := g.repo.List(ctx)
	if err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(4)

	for _, cfg := range configs {
		for _, slot := range model.Slots() {
			if !g.protected[slot] {
				continue
			}
			roleID, ok := cfg.RoleForSlot(slot)
			if !ok {
				continue
			}
			guildID := cfg.GuildID
			eg.Go(func() error {
				if err := g.sanitizer.EnsureRoleSafe(ctx, guildID, roleID); err != nil {
					log.Printf("Error sanitizing role %s in guild %s: %v", roleID, guildID, err)
					return err
				}
				return nil
			})
		}
	}

	return eg.Wait()
}

// IsRunning returns whether the guard is running
func (g *RoleGuard) IsRunning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}
