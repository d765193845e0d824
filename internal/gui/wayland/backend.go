// backend.go adapts the wl_data_device_manager / wl_data_source /
// wl_data_offer protocol exchange (spec §4.7.2) to gui.Backend.
package wayland

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/berrythewa/clipman-daemon/internal/clip"
	"github.com/berrythewa/clipman-daemon/internal/mimereg"
)

func bytesReader(data []byte) io.Reader { return bytes.NewReader(data) }

func fdFile(fd int) *os.File { return os.NewFile(uintptr(fd), "wayland-data-fd") }

const eventTimeout = 5 * time.Second

// Backend adapts a Wayland compositor connection to gui.Backend.
type Backend struct{}

// New always succeeds; connection failures surface per-call from Get/Set so
// a missing compositor socket doesn't wedge backend selection (mirrors the
// x11 backend's New).
func New() *Backend { return &Backend{} }

func (b *Backend) Name() string      { return "wayland" }
func (b *Backend) SupportsCut() bool { return false } // no GNOME-style cut marker on Wayland
func (b *Backend) Close() error      { return nil }

// Get waits for the compositor's current selection offer, negotiates a MIME
// via the registry's priority order, and reads the payload back through a
// receive() pipe.
func (b *Backend) Get(preferredMime string) (clip.Content, error) {
	c, err := dial()
	if err != nil {
		return clip.Empty(), err
	}
	defer c.close()

	ddm, err := c.bind(ifaceDataDeviceManager, 3)
	if err != nil {
		return clip.Empty(), err
	}
	seat, err := c.bind(ifaceSeat, 7)
	if err != nil {
		return clip.Empty(), err
	}

	device := c.allocID()
	ab := &argBuilder{}
	ab.putObject(device)
	ab.putObject(seat)
	if err := c.send(message{object: ddm, opcode: opDataDeviceManagerGetDataDevice, args: ab.bytes()}); err != nil {
		return clip.Empty(), err
	}

	offerID, offeredMimes, err := c.waitForSelection(device, eventTimeout)
	if err != nil {
		return clip.Empty(), err
	}
	if offerID == 0 {
		return clip.Empty(), nil // compositor has no current selection
	}

	best := mimereg.FindBest(offeredMimes, preferredMime)
	if best == "" && len(offeredMimes) > 0 {
		best = offeredMimes[0]
	}
	if best == "" {
		return clip.Empty(), nil
	}

	r, w, err := pipePair()
	if err != nil {
		return clip.Empty(), err
	}
	defer r.Close()

	recvArgs := &argBuilder{}
	recvArgs.putString(best)
	if err := c.sendWithFD(message{object: offerID, opcode: opDataOfferReceive, args: recvArgs.bytes()}, int(w.Fd())); err != nil {
		w.Close()
		return clip.Empty(), err
	}
	w.Close() // our copy of the write end; the compositor/source holds its own

	if err := c.send(message{object: 1, opcode: opDisplaySync, args: (&argBuilder{}).encodeObjectArg(c.allocID())}); err != nil {
		return clip.Empty(), err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return clip.Empty(), err
	}

	entry, ok := mimereg.Lookup(best)
	if !ok {
		return clip.Content{Kind: clip.KindText, Text: data, Mime: best}, nil
	}
	return mimereg.Decode(entry, bytesReader(data))
}

// Set creates a data source advertising every registry MIME, waits for
// keyboard focus to obtain a serial (spec §4.7.2's "1x1 window" substitute:
// a protocol-level focus wait rather than an actual mapped surface, since
// this backend has no surface/compositor-drawing dependency), calls
// set_selection, then serves send()/cancelled() events until cancelled.
func (b *Backend) Set(content clip.Content) (bool, error) {
	if content.Kind == clip.KindEmpty {
		return false, nil
	}

	c, err := dial()
	if err != nil {
		return false, err
	}

	ddm, err := c.bind(ifaceDataDeviceManager, 3)
	if err != nil {
		c.close()
		return false, err
	}
	seat, err := c.bind(ifaceSeat, 7)
	if err != nil {
		c.close()
		return false, err
	}

	source := c.allocID()
	if err := c.send(message{object: ddm, opcode: opDataDeviceManagerCreateDataSource, args: (&argBuilder{}).encodeObjectArg(source)}); err != nil {
		c.close()
		return false, err
	}

	var mimes []string
	for _, entry := range mimereg.Table() {
		if mimereg.Supports(entry, content) {
			mimes = append(mimes, entry.Name)
			ab := &argBuilder{}
			ab.putString(entry.Name)
			if err := c.send(message{object: source, opcode: opDataSourceOffer, args: ab.bytes()}); err != nil {
				c.close()
				return false, err
			}
		}
	}
	if len(mimes) == 0 {
		c.close()
		return false, nil
	}

	device := c.allocID()
	ab := &argBuilder{}
	ab.putObject(device)
	ab.putObject(seat)
	if err := c.send(message{object: ddm, opcode: opDataDeviceManagerGetDataDevice, args: ab.bytes()}); err != nil {
		c.close()
		return false, err
	}

	serial, err := c.waitForKeyboardSerial(seat, eventTimeout)
	if err != nil {
		c.close()
		return false, err
	}

	setArgs := &argBuilder{}
	setArgs.putObject(source)
	setArgs.putUint(serial)
	if err := c.send(message{object: device, opcode: opDataDeviceSetSelection, args: setArgs.bytes()}); err != nil {
		c.close()
		return false, err
	}

	go serveDataSource(c, source, content)
	return true, nil
}

// serveDataSource answers send() events on the given data source with the
// requested MIME's encoding until cancelled(), then closes the connection —
// the paste-daemon lifetime described in spec §4.7/§5 for this backend.
func serveDataSource(c *conn, source objectID, content clip.Content) {
	defer c.close()
	for {
		m, fd, err := c.recvWithFD()
		if err != nil {
			return
		}
		if m.object != source {
			continue
		}
		switch m.opcode {
		case evDataSourceSend:
			r := newArgReader(m.args)
			mime, _ := r.string()
			if fd >= 0 {
				writeMimeToFD(mime, content, fd)
			}
		case evDataSourceCancelled:
			return
		}
	}
}

func writeMimeToFD(mime string, content clip.Content, fd int) {
	f := fdFile(fd)
	defer f.Close()
	entry, ok := mimereg.Lookup(mime)
	if !ok {
		return
	}
	_, _ = mimereg.Encode(entry, content, f)
}

// waitForSelection drains wl_data_device events until a selection() names
// an offer, collecting that offer's advertised MIME types along the way.
func (c *conn) waitForSelection(device objectID, timeout time.Duration) (objectID, []string, error) {
	deadline := time.Now().Add(timeout)
	var pendingOffer objectID
	var mimes []string
	for time.Now().Before(deadline) {
		m, err := c.recv()
		if err != nil {
			return 0, nil, err
		}
		switch {
		case m.object == device && m.opcode == evDataDeviceDataOffer:
			r := newArgReader(m.args)
			id, _ := r.object()
			pendingOffer = id
			mimes = nil
		case pendingOffer != 0 && m.object == pendingOffer && m.opcode == evDataOfferOffer:
			r := newArgReader(m.args)
			mime, _ := r.string()
			mimes = append(mimes, mime)
		case m.object == device && m.opcode == evDataDeviceSelection:
			r := newArgReader(m.args)
			id, _ := r.object()
			if id == 0 {
				return 0, nil, nil
			}
			return id, mimes, nil
		}
	}
	return 0, nil, fmt.Errorf("timed out waiting for wayland selection")
}

// waitForKeyboardSerial binds wl_keyboard off seat and returns the serial
// of the first enter event, the spec's substitute for obtaining a valid
// input serial to call set_selection with.
func (c *conn) waitForKeyboardSerial(seat objectID, timeout time.Duration) (uint32, error) {
	kb := c.allocID()
	if err := c.send(message{object: seat, opcode: opSeatGetKeyboard, args: (&argBuilder{}).encodeObjectArg(kb)}); err != nil {
		return 0, err
	}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		m, err := c.recv()
		if err != nil {
			return 0, err
		}
		if m.object == kb && m.opcode == evKeyboardEnter {
			r := newArgReader(m.args)
			serial, _ := r.uint()
			return serial, nil
		}
	}
	return 0, fmt.Errorf("timed out waiting for keyboard focus")
}
