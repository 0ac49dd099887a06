package control

import (
	"context"
	"fmt"

	"github.com/fenwick-labs/camlink-core/internal/sdk"
	"github.com/fenwick-labs/camlink-core/internal/session"
)

// Volume and PTZ speed bounds.
const (
	minVolume = 0
	maxVolume = 100

	minPTZSpeed = 1
	maxPTZSpeed = 7
)

// PTZCommand identifies a pan/tilt/zoom movement.
type PTZCommand int

// PTZ commands, numbered as the vendor plugin expects them.
const (
	PTZUp PTZCommand = iota + 1
	PTZDown
	PTZLeft
	PTZRight
	PTZZoomIn
	PTZZoomOut
	PTZFocusNear
	PTZFocusFar
	PTZIrisOpen
	PTZIrisClose
)

// Event names published by the façades on the event bus.
const (
	// EventPreviewStarted fires after a preview starts. Payload: StreamEvent.
	EventPreviewStarted = "preview.started"

	// EventPreviewStopped fires after a preview stops. Payload: StreamEvent.
	EventPreviewStopped = "preview.stopped"

	// EventRecordStarted fires after recording starts. Payload: StreamEvent.
	EventRecordStarted = "record.started"

	// EventRecordStopped fires after recording stops. Payload: StreamEvent.
	EventRecordStopped = "record.stopped"

	// EventSnapshot fires after a picture capture. Payload: StreamEvent.
	EventSnapshot = "snapshot.captured"
)

// StreamEvent is the payload of the façade events.
type StreamEvent struct {
	DeviceID string `json:"device_id,omitempty"`
	Channel  int    `json:"channel,omitempty"`
	Window   int    `json:"window"`
}

// Caller is the bridge surface the façades need.
type Caller interface {
	CallAsync(ctx context.Context, method string, args ...any) (any, error)
}

// WindowHost is the plugin host surface the façades need: override
// resolution and live window state.
type WindowHost interface {
	ResolveWindow(override int) int
	WindowStatus(index int) (sdk.WindowStatus, error)
}

// Sessions answers whether a device id is registered.
type Sessions interface {
	Has(deviceID string) bool
}

// Publisher is the event bus surface the façades need.
type Publisher interface {
	Publish(event string, payload any)
}

// Controller exposes the feature façades over one bridge, host and registry.
//
// Window arguments follow one convention throughout: a negative index means
// "the active window"; a non-negative index is an explicit override and
// becomes the active window.
type Controller struct {
	caller   Caller
	host     WindowHost
	sessions Sessions
	bus      Publisher
}

// NewController creates a Controller.
func NewController(caller Caller, host WindowHost, sessions Sessions, bus Publisher) *Controller {
	return &Controller{caller: caller, host: host, sessions: sessions, bus: bus}
}

// StartPreview starts live preview of a device channel in a window.
func (c *Controller) StartPreview(ctx context.Context, deviceID string, channel, window int) error {
	if !c.sessions.Has(deviceID) {
		return fmt.Errorf("%w: %s", session.ErrDeviceNotFound, deviceID)
	}
	wnd := c.host.ResolveWindow(window)
	if _, err := c.caller.CallAsync(ctx, sdk.MethodStartPreview, deviceID, channel, wnd); err != nil {
		return err
	}
	c.bus.Publish(EventPreviewStarted, StreamEvent{DeviceID: deviceID, Channel: channel, Window: wnd})
	return nil
}

// StopPreview stops the stream in a window. Fails with ErrWindowState when
// the plugin reports the window idle.
func (c *Controller) StopPreview(ctx context.Context, window int) error {
	wnd, err := c.activeStream(window)
	if err != nil {
		return err
	}
	if _, err := c.caller.CallAsync(ctx, sdk.MethodStopPreview, wnd.Index); err != nil {
		return err
	}
	c.bus.Publish(EventPreviewStopped, StreamEvent{DeviceID: wnd.DeviceID, Channel: wnd.Channel, Window: wnd.Index})
	return nil
}

// PTZ moves the camera playing in a window. Speed must be within [1,7].
func (c *Controller) PTZ(ctx context.Context, window int, command PTZCommand, speed int) error {
	if speed < minPTZSpeed || speed > maxPTZSpeed {
		return fmt.Errorf("%w: ptz speed %d out of range [%d,%d]",
			session.ErrValidation, speed, minPTZSpeed, maxPTZSpeed)
	}
	wnd := c.host.ResolveWindow(window)
	_, err := c.caller.CallAsync(ctx, sdk.MethodPTZControl, wnd, int(command), speed)
	return err
}

// SetVolume sets playback volume for a window. Volume must be within
// [0,100]; out-of-range values fail before any plugin call.
func (c *Controller) SetVolume(ctx context.Context, window, volume int) error {
	if volume < minVolume || volume > maxVolume {
		return fmt.Errorf("%w: volume %d out of range [%d,%d]",
			session.ErrValidation, volume, minVolume, maxVolume)
	}
	wnd := c.host.ResolveWindow(window)
	_, err := c.caller.CallAsync(ctx, sdk.MethodSetVolume, wnd, volume)
	return err
}

// Capture grabs a still picture from a window. Fails with ErrWindowState
// when the plugin reports the window idle; a still needs a live stream.
func (c *Controller) Capture(ctx context.Context, window int, fileName string) error {
	wnd, err := c.activeStream(window)
	if err != nil {
		return err
	}
	if _, err := c.caller.CallAsync(ctx, sdk.MethodCapturePicture, wnd.Index, fileName); err != nil {
		return err
	}
	c.bus.Publish(EventSnapshot, StreamEvent{DeviceID: wnd.DeviceID, Channel: wnd.Channel, Window: wnd.Index})
	return nil
}

// StartRecord starts clip recording for a window.
func (c *Controller) StartRecord(ctx context.Context, window int) error {
	wnd, err := c.activeStream(window)
	if err != nil {
		return err
	}
	if _, err := c.caller.CallAsync(ctx, sdk.MethodStartRecord, wnd.Index); err != nil {
		return err
	}
	c.bus.Publish(EventRecordStarted, StreamEvent{DeviceID: wnd.DeviceID, Channel: wnd.Channel, Window: wnd.Index})
	return nil
}

// StopRecord stops clip recording for a window.
func (c *Controller) StopRecord(ctx context.Context, window int) error {
	wnd, err := c.activeStream(window)
	if err != nil {
		return err
	}
	if _, err := c.caller.CallAsync(ctx, sdk.MethodStopRecord, wnd.Index); err != nil {
		return err
	}
	c.bus.Publish(EventRecordStopped, StreamEvent{DeviceID: wnd.DeviceID, Channel: wnd.Channel, Window: wnd.Index})
	return nil
}

// activeStream resolves the target window and checks the plugin reports it
// playing.
func (c *Controller) activeStream(window int) (sdk.WindowStatus, error) {
	wnd := c.host.ResolveWindow(window)
	status, err := c.host.WindowStatus(wnd)
	if err != nil {
		return sdk.WindowStatus{}, err
	}
	if !status.Playing {
		return sdk.WindowStatus{}, fmt.Errorf("%w: window %d", ErrWindowState, wnd)
	}
	return status, nil
}
