package session

import (
	"context"
	"errors"
	"testing"

	"github.com/fenwick-labs/camlink-core/internal/bridge"
	"github.com/fenwick-labs/camlink-core/internal/eventbus"
	"github.com/fenwick-labs/camlink-core/internal/host"
	"github.com/fenwick-labs/camlink-core/internal/sdk"
)

// testRig wires a registry to a simulator through the real bridge and host.
type testRig struct {
	sim      *sdk.Simulator
	bus      *eventbus.Bus
	host     *host.Host
	registry *Registry
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	sim := sdk.NewSimulator()
	b, err := bridge.New(sim)
	if err != nil {
		t.Fatalf("bridge.New: %v", err)
	}
	bus := eventbus.New()
	h := host.New(b, bus)
	if err := h.Init(context.Background(), host.InitConfig{ContainerID: "test"}); err != nil {
		t.Fatalf("host.Init: %v", err)
	}
	return &testRig{
		sim:      sim,
		bus:      bus,
		host:     h,
		registry: NewRegistry(b, h, bus),
	}
}

func defaultDevice() sdk.SimDevice {
	return sdk.SimDevice{
		Host:     "10.0.0.5",
		Port:     80,
		Username: "admin",
		Password: "x",
	}
}

func TestConnectScenario(t *testing.T) {
	rig := newTestRig(t)
	rig.sim.AddDevice(defaultDevice())

	var eventPayload any
	rig.bus.Subscribe(EventConnected, func(p any) { eventPayload = p })

	sess, err := rig.registry.Connect(context.Background(), Credentials{
		Host: "10.0.0.5", Port: 80, Username: "admin", Password: "x",
	})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	want := Session{ID: "10.0.0.5_80", Host: "10.0.0.5", Port: 80,
		Protocol: "http", Username: "admin"}
	if sess != want {
		t.Fatalf("session = %+v, want %+v", sess, want)
	}
	if eventPayload != any(want) {
		t.Fatalf("event payload = %+v, want %+v", eventPayload, want)
	}
	if !rig.registry.Has("10.0.0.5_80") {
		t.Fatalf("session not registered")
	}
}

func TestConnectValidationBeforePluginCall(t *testing.T) {
	rig := newTestRig(t)
	before := len(rig.sim.Calls())

	tests := []Credentials{
		{Host: "", Username: "admin"},
		{Host: "localhost", Username: "admin"},
		{Host: "10.0.0.5", Port: 70000, Username: "admin"},
		{Host: "10.0.0.5", Protocol: "rtsp", Username: "admin"},
	}
	for _, creds := range tests {
		if _, err := rig.registry.Connect(context.Background(), creds); !errors.Is(err, ErrValidation) {
			t.Errorf("Connect(%+v) error = %v, want ErrValidation", creds, err)
		}
	}
	if got := len(rig.sim.Calls()); got != before {
		t.Fatalf("validation failures reached the plugin: %v", rig.sim.Calls()[before:])
	}
}

func TestConnectDefaultsHTTPSPort(t *testing.T) {
	rig := newTestRig(t)
	rig.sim.AddDevice(sdk.SimDevice{Host: "cam.example.com", Port: 443,
		Username: "admin", Password: "x"})

	sess, err := rig.registry.Connect(context.Background(), Credentials{
		Host: "cam.example.com", Protocol: "https", Username: "admin", Password: "x",
	})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if sess.Port != 443 || sess.ID != "cam.example.com_443" {
		t.Fatalf("session = %+v, want https default port 443", sess)
	}
}

func TestConnectRejectedCredentials(t *testing.T) {
	rig := newTestRig(t)
	rig.sim.AddDevice(defaultDevice())

	_, err := rig.registry.Connect(context.Background(), Credentials{
		Host: "10.0.0.5", Port: 80, Username: "admin", Password: "wrong",
	})
	if !errors.Is(err, bridge.ErrCallFailed) {
		t.Fatalf("error = %v, want ErrCallFailed", err)
	}
	if rig.registry.Count() != 0 {
		t.Fatalf("failed login left a session behind")
	}
}

func TestConnectThenDisconnectLeavesNothingBehind(t *testing.T) {
	rig := newTestRig(t)
	rig.sim.AddDevice(defaultDevice())
	ctx := context.Background()

	var disconnected any
	rig.bus.Subscribe(EventDisconnected, func(p any) { disconnected = p })

	sess, err := rig.registry.Connect(ctx, Credentials{
		Host: "10.0.0.5", Port: 80, Username: "admin", Password: "x",
	})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	// Put the device on a window so disconnect has something to reconcile.
	if err := rig.host.ChangeLayout(4); err != nil {
		t.Fatalf("ChangeLayout: %v", err)
	}
	b, _ := bridge.New(rig.sim)
	if _, err := b.CallAsync(ctx, sdk.MethodStartPreview, sess.ID, 1, 2); err != nil {
		t.Fatalf("startPreview: %v", err)
	}

	if err := rig.registry.Disconnect(ctx, sess.ID); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}

	if rig.registry.Count() != 0 {
		t.Fatalf("registry not empty after disconnect")
	}
	if disconnected != any(sess) {
		t.Fatalf("disconnected payload = %+v, want %+v", disconnected, sess)
	}

	// The plugin must no longer report any window bound to the device.
	windows, err := rig.host.WindowSet()
	if err != nil {
		t.Fatalf("WindowSet: %v", err)
	}
	for _, w := range windows {
		if w.DeviceID == sess.ID {
			t.Fatalf("window %d still bound to %s after disconnect", w.Index, sess.ID)
		}
	}
}

func TestDisconnectUnknownDeviceNoPluginCall(t *testing.T) {
	rig := newTestRig(t)
	before := len(rig.sim.Calls())

	err := rig.registry.Disconnect(context.Background(), "10.9.9.9_80")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("error = %v, want ErrDeviceNotFound", err)
	}
	if got := len(rig.sim.Calls()); got != before {
		t.Fatalf("unknown device reached the plugin")
	}
}

func TestDisconnectFailedLogoutKeepsEntry(t *testing.T) {
	stub := &stubCaller{responses: map[string]asyncResponse{
		sdk.MethodLogin:  {data: "10.0.0.5_80"},
		sdk.MethodLogout: {data: 3}, // non-success status
	}}
	bus := eventbus.New()
	reg := NewRegistry(stub, stubWindows{}, bus)

	sess, err := reg.Connect(context.Background(), Credentials{
		Host: "10.0.0.5", Port: 80, Username: "admin", Password: "x",
	})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	err = reg.Disconnect(context.Background(), sess.ID)
	if !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("error = %v, want ErrOperationFailed", err)
	}
	if !reg.Has(sess.ID) {
		t.Fatalf("failed logout removed the session; retry impossible")
	}
}

func TestDisconnectCleanupFailuresAreSuppressed(t *testing.T) {
	stub := &stubCaller{responses: map[string]asyncResponse{
		sdk.MethodLogin:          {data: "10.0.0.5_80"},
		sdk.MethodLogout:         {data: sdk.StatusOK},
		sdk.MethodStopPreview:    {err: errors.New("window busy")},
		sdk.MethodClearSecretKey: {err: errors.New("no key")},
	}}
	tracer := &recordingTracer{}
	bus := eventbus.New()
	reg := NewRegistry(stub, stubWindows{windows: []sdk.WindowStatus{
		{Index: 0, DeviceID: "10.0.0.5_80", Playing: true},
	}}, bus)
	reg.SetTracer(tracer)

	sess, err := reg.Connect(context.Background(), Credentials{
		Host: "10.0.0.5", Port: 80, Username: "admin", Password: "x",
	})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := reg.Disconnect(context.Background(), sess.ID); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if reg.Count() != 0 {
		t.Fatalf("cleanup failures blocked session removal")
	}
	if len(tracer.ops) != 2 {
		t.Fatalf("suppressed ops = %v, want stop_preview and clear_secret_key", tracer.ops)
	}
}

func TestChannelsScenario(t *testing.T) {
	// Digital query returns two entries, one unnamed and online, one named
	// and offline: the result is exactly one generated-name online entry.
	rig := newTestRig(t)
	dev := defaultDevice()
	dev.Digital = []sdk.ChannelInfo{
		{ID: 1, Name: "", Online: true},
		{ID: 2, Name: "Back Door", Online: false},
	}
	rig.sim.AddDevice(dev)

	sess, err := rig.registry.Connect(context.Background(), Credentials{
		Host: "10.0.0.5", Port: 80, Username: "admin", Password: "x",
	})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	channels, err := rig.registry.Channels(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("Channels: %v", err)
	}
	want := Channel{ID: 1, Name: "IPCamera 01", Type: ChannelDigital, Online: true, Zero: false}
	if len(channels) != 1 || channels[0] != want {
		t.Fatalf("channels = %+v, want [%+v]", channels, want)
	}
}

func TestChannelsAnalogAlwaysPresent(t *testing.T) {
	rig := newTestRig(t)
	dev := defaultDevice()
	dev.Analog = []sdk.ChannelInfo{
		{ID: 1, Name: "Lobby"},
		{ID: 2}, // unnamed, no online flag
	}
	rig.sim.AddDevice(dev)

	sess, _ := rig.registry.Connect(context.Background(), Credentials{
		Host: "10.0.0.5", Port: 80, Username: "admin", Password: "x",
	})
	channels, err := rig.registry.Channels(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("Channels: %v", err)
	}
	if len(channels) != 2 {
		t.Fatalf("channels = %+v, want both analog entries", channels)
	}
	if channels[0].Name != "Lobby" || channels[1].Name != "Camera 02" {
		t.Fatalf("names = %q, %q", channels[0].Name, channels[1].Name)
	}
	for _, c := range channels {
		if !c.Online {
			t.Errorf("analog channel %d reported offline", c.ID)
		}
	}
}

func TestChannelsPartialDiscoveryFailure(t *testing.T) {
	stub := &stubCaller{responses: map[string]asyncResponse{
		sdk.MethodLogin:              {data: "10.0.0.5_80"},
		sdk.MethodGetAnalogChannels:  {err: errors.New("unsupported")},
		sdk.MethodGetDigitalChannels: {data: []sdk.ChannelInfo{{ID: 1, Online: true}}},
		sdk.MethodGetZeroChannels:    {err: errors.New("unsupported")},
	}}
	tracer := &recordingTracer{}
	reg := NewRegistry(stub, stubWindows{}, eventbus.New())
	reg.SetTracer(tracer)

	sess, _ := reg.Connect(context.Background(), Credentials{
		Host: "10.0.0.5", Port: 80, Username: "admin", Password: "x",
	})
	channels, err := reg.Channels(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("Channels: %v", err)
	}
	if len(channels) != 1 || channels[0].Type != ChannelDigital {
		t.Fatalf("channels = %+v, want the one digital entry", channels)
	}
	if len(tracer.ops) != 2 {
		t.Fatalf("suppressed ops = %v, want two failed classes traced", tracer.ops)
	}
}

func TestSessionDependentOpsRequireRegistration(t *testing.T) {
	rig := newTestRig(t)
	before := len(rig.sim.Calls())

	if _, err := rig.registry.Channels(context.Background(), "10.9.9.9_80"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Channels error = %v, want ErrDeviceNotFound", err)
	}
	if _, err := rig.registry.Info(context.Background(), "10.9.9.9_80"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Info error = %v, want ErrDeviceNotFound", err)
	}
	if got := len(rig.sim.Calls()); got != before {
		t.Fatalf("unregistered device id reached the plugin")
	}
}

// Test doubles.

type asyncResponse struct {
	data any
	err  error
}

type stubCaller struct {
	responses map[string]asyncResponse
	calls     []string
}

func (s *stubCaller) CallAsync(_ context.Context, method string, _ ...any) (any, error) {
	s.calls = append(s.calls, method)
	resp := s.responses[method]
	return resp.data, resp.err
}

type stubWindows struct {
	windows []sdk.WindowStatus
	err     error
}

func (s stubWindows) WindowSet() ([]sdk.WindowStatus, error) {
	return s.windows, s.err
}

type recordingTracer struct {
	ops []string
}

func (r *recordingTracer) RecordSuppressed(op, _ string, _ error) {
	r.ops = append(r.ops, op)
}
