package httpx

import (
	"context"
	"log/slog"
	"sync"

	"github.com/target/mmk-backoffice/internal/ports"
)

// navigationKey is an unexported context key type to avoid collisions across packages.
type navigationKey struct{}

// navigationSlot holds the forced navigation requested while serving one request.
// Backend calls may run concurrently (dashboard), so access is locked.
type navigationSlot struct {
	mu     sync.Mutex
	target string
}

// WithNavigationSlot returns a child context carrying an empty navigation slot.
func WithNavigationSlot(ctx context.Context) context.Context {
	return context.WithValue(ctx, navigationKey{}, &navigationSlot{})
}

func slotFrom(ctx context.Context) (*navigationSlot, bool) {
	slot, ok := ctx.Value(navigationKey{}).(*navigationSlot)
	return slot, ok && slot != nil
}

// NavigationTarget returns the forced navigation recorded for the request, or "".
func NavigationTarget(ctx context.Context) string {
	slot, ok := slotFrom(ctx)
	if !ok {
		return ""
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.target
}

// clearNavigation discards a recorded navigation.
func clearNavigation(ctx context.Context) {
	if slot, ok := slotFrom(ctx); ok {
		slot.mu.Lock()
		slot.target = ""
		slot.mu.Unlock()
	}
}

// SlotNavigator records forced navigations in the request's navigation slot.
// The first target recorded for a request wins.
type SlotNavigator struct {
	Logger *slog.Logger
}

var _ ports.Navigator = SlotNavigator{}

// Navigate implements ports.Navigator.
func (n SlotNavigator) Navigate(ctx context.Context, target string) {
	slot, ok := slotFrom(ctx)
	if !ok {
		if n.Logger != nil {
			n.Logger.DebugContext(ctx, "forced navigation outside a request", "target", target)
		}
		return
	}
	slot.mu.Lock()
	if slot.target == "" {
		slot.target = target
	}
	slot.mu.Unlock()
}
