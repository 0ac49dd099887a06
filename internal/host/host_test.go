package host

import (
	"context"
	"errors"
	"testing"

	"github.com/fenwick-labs/camlink-core/internal/bridge"
	"github.com/fenwick-labs/camlink-core/internal/eventbus"
	"github.com/fenwick-labs/camlink-core/internal/sdk"
)

func newTestHost(t *testing.T) (*Host, *sdk.Simulator, *eventbus.Bus) {
	t.Helper()
	sim := sdk.NewSimulator()
	b, err := bridge.New(sim)
	if err != nil {
		t.Fatalf("bridge.New: %v", err)
	}
	bus := eventbus.New()
	return New(b, bus), sim, bus
}

func countCalls(calls []string, method string) int {
	n := 0
	for _, c := range calls {
		if c == method {
			n++
		}
	}
	return n
}

func TestInitFlipsToReadyAndMounts(t *testing.T) {
	h, sim, bus := newTestHost(t)

	var readyPayload any
	bus.Subscribe(EventReady, func(p any) { readyPayload = p })

	if err := h.Init(context.Background(), InitConfig{ContainerID: "player"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if h.State() != StateReady {
		t.Fatalf("state = %v, want ready", h.State())
	}
	if h.ActiveWindow() != 0 {
		t.Fatalf("active window = %d, want 0", h.ActiveWindow())
	}
	if sim.Mounted() != "player" {
		t.Fatalf("mounted container = %q, want player", sim.Mounted())
	}
	if readyPayload != "player" {
		t.Fatalf("ready event payload = %v, want player", readyPayload)
	}
}

func TestInitGeneratesContainerID(t *testing.T) {
	h, sim, _ := newTestHost(t)

	if err := h.Init(context.Background(), InitConfig{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if h.ContainerID() == "" {
		t.Fatalf("no container id generated")
	}
	if sim.Mounted() != h.ContainerID() {
		t.Fatalf("mounted %q, resolved %q", sim.Mounted(), h.ContainerID())
	}
}

func TestInitTwiceFailsFastWithSingleVendorCall(t *testing.T) {
	h, sim, _ := newTestHost(t)

	if err := h.Init(context.Background(), InitConfig{}); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	err := h.Init(context.Background(), InitConfig{})
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("second Init error = %v, want ErrAlreadyInitialized", err)
	}
	if n := countCalls(sim.Calls(), sdk.MethodInit); n != 1 {
		t.Fatalf("vendor init invoked %d times, want 1", n)
	}
}

func TestOperationsBeforeInit(t *testing.T) {
	h, _, _ := newTestHost(t)

	if err := h.ChangeLayout(4); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ChangeLayout error = %v, want ErrNotInitialized", err)
	}
	if _, err := h.WindowStatus(0); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("WindowStatus error = %v, want ErrNotInitialized", err)
	}
	if _, err := h.WindowSet(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("WindowSet error = %v, want ErrNotInitialized", err)
	}
}

func TestWindowSelectHookUpdatesActiveWindow(t *testing.T) {
	h, sim, bus := newTestHost(t)

	var busSaw, callbackSaw []int
	bus.Subscribe(EventWindowSelect, func(p any) {
		busSaw = append(busSaw, p.(int))
	})

	cfg := InitConfig{
		OnWindowSelect: func(index int) {
			callbackSaw = append(callbackSaw, index)
			// Bus emission must precede the direct callback.
			if len(busSaw) != len(callbackSaw) {
				t.Errorf("caller callback ran before bus publication")
			}
		},
	}
	if err := h.Init(context.Background(), cfg); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := h.ChangeLayout(4); err != nil {
		t.Fatalf("ChangeLayout: %v", err)
	}

	sim.FireWindowSelect(2)

	if h.ActiveWindow() != 2 {
		t.Fatalf("active window = %d, want 2", h.ActiveWindow())
	}
	if len(busSaw) != 1 || busSaw[0] != 2 {
		t.Fatalf("bus saw %v, want [2]", busSaw)
	}
	if len(callbackSaw) != 1 || callbackSaw[0] != 2 {
		t.Fatalf("callback saw %v, want [2]", callbackSaw)
	}
}

func TestResolveWindowOverrideMutatesActive(t *testing.T) {
	h, _, _ := newTestHost(t)
	if err := h.Init(context.Background(), InitConfig{}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if got := h.ResolveWindow(3); got != 3 {
		t.Fatalf("ResolveWindow(3) = %d", got)
	}
	if got := h.ResolveWindow(-1); got != 3 {
		t.Fatalf("ResolveWindow(-1) = %d, want sticky 3", got)
	}
}

func TestWindowSetNormalizesUnexpectedShape(t *testing.T) {
	// A plugin build that returns something other than a window slice must
	// yield an empty set, not a type error.
	stub := &stubCaller{
		sync: func(method string, args ...any) (any, error) {
			if method == sdk.MethodGetWindowSet {
				return "not a slice", nil
			}
			return sdk.StatusOK, nil
		},
	}
	h := New(stub, eventbus.New())
	h.state = StateReady

	windows, err := h.WindowSet()
	if err != nil {
		t.Fatalf("WindowSet: %v", err)
	}
	if len(windows) != 0 {
		t.Fatalf("windows = %v, want empty", windows)
	}
}

func TestInitWithoutCompletionSignalFails(t *testing.T) {
	// A plugin that acknowledges init but never raises its completion hook
	// mounted nothing. The host must report that, not claim success over an
	// Uninitialized lifecycle.
	h := New(&stubCaller{}, eventbus.New())

	err := h.Init(context.Background(), InitConfig{ContainerID: "player"})
	if !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("error = %v, want ErrOperationFailed", err)
	}
	if h.State() != StateUninitialized {
		t.Fatalf("state = %v, want uninitialized", h.State())
	}

	// The failed attempt must release the single-flight guard.
	if err := h.Init(context.Background(), InitConfig{ContainerID: "player"}); !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("retry error = %v, want ErrOperationFailed again", err)
	}
}

func TestChangeLayoutTranslatesStatusCode(t *testing.T) {
	h, _, _ := newTestHost(t)
	if err := h.Init(context.Background(), InitConfig{}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	err := h.ChangeLayout(0) // simulator rejects non-positive layouts
	if !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("error = %v, want ErrOperationFailed", err)
	}
}

func TestSizeString(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "100%"},
		{-5, "100%"},
		{720, "720px"},
	}
	for _, tt := range tests {
		if got := sizeString(tt.in); got != tt.want {
			t.Errorf("sizeString(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// stubCaller lets tests script exact bridge responses.
type stubCaller struct {
	sync  func(method string, args ...any) (any, error)
	async func(ctx context.Context, method string, args ...any) (any, error)
}

func (s *stubCaller) CallSync(method string, args ...any) (any, error) {
	if s.sync == nil {
		return nil, nil
	}
	return s.sync(method, args...)
}

func (s *stubCaller) CallAsync(ctx context.Context, method string, args ...any) (any, error) {
	if s.async == nil {
		return nil, nil
	}
	return s.async(ctx, method, args...)
}
