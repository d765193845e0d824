package wayland

import (
	"encoding/binary"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
)

// conn is one Wayland display connection: the raw socket, an id allocator,
// and a table of pending object->name bindings discovered via wl_registry.
type conn struct {
	sock net.Conn

	mu      sync.Mutex
	nextID  objectID
	globals map[string]global // interface name -> (name, version)

	registryID objectID
}

type global struct {
	name    uint32
	version uint32
}

// socketPath resolves $XDG_RUNTIME_DIR/$WAYLAND_DISPLAY, defaulting the
// display name to "wayland-0" as the reference client libraries do.
func socketPath() (string, error) {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		return "", fmt.Errorf("XDG_RUNTIME_DIR not set")
	}
	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		display = "wayland-0"
	}
	if filepath.IsAbs(display) {
		return display, nil
	}
	return filepath.Join(runtimeDir, display), nil
}

// dial connects to the compositor's Unix socket and performs the initial
// wl_registry round trip, recording every advertised global by interface
// name.
func dial() (*conn, error) {
	path, err := socketPath()
	if err != nil {
		return nil, err
	}
	sock, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("connecting to wayland compositor: %w", err)
	}

	c := &conn{sock: sock, nextID: 2, globals: map[string]global{}}

	c.registryID = c.allocID()
	if err := c.send(message{object: 1, opcode: opDisplayGetRegistry, args: (&argBuilder{}).encodeObjectArg(c.registryID)}); err != nil {
		sock.Close()
		return nil, err
	}

	if err := c.roundTripGlobals(); err != nil {
		sock.Close()
		return nil, err
	}
	return c, nil
}

func (a *argBuilder) encodeObjectArg(id objectID) []byte {
	a.putObject(id)
	return a.bytes()
}

func (c *conn) allocID() objectID {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	return id
}

func (c *conn) close() { c.sock.Close() }

func (c *conn) send(m message) error {
	_, err := c.sock.Write(m.encode())
	return err
}

// recv reads exactly one wire message (header + args), with no
// out-of-band fd handling — callers needing a passed fd use recvWithFD.
func (c *conn) recv() (message, error) {
	var hdr [8]byte
	if _, err := fullRead(c.sock, hdr[:]); err != nil {
		return message{}, err
	}
	obj := objectID(binary.LittleEndian.Uint32(hdr[0:4]))
	opAndLen := binary.LittleEndian.Uint32(hdr[4:8])
	opcode := uint16(opAndLen & 0xffff)
	size := uint16(opAndLen >> 16)
	if size < 8 {
		return message{}, fmt.Errorf("malformed wayland message")
	}
	args := make([]byte, size-8)
	if len(args) > 0 {
		if _, err := fullRead(c.sock, args); err != nil {
			return message{}, err
		}
	}
	return message{object: obj, opcode: opcode, args: args}, nil
}

func fullRead(r interface{ Read([]byte) (int, error) }, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// roundTripGlobals drains wl_registry.global events until wl_display.sync
// completes, populating c.globals.
func (c *conn) roundTripGlobals() error {
	syncCallback := c.allocID()
	if err := c.send(message{object: 1, opcode: opDisplaySync, args: (&argBuilder{}).encodeObjectArg(syncCallback)}); err != nil {
		return err
	}

	for {
		m, err := c.recv()
		if err != nil {
			return err
		}
		switch {
		case m.object == c.registryID && m.opcode == evRegistryGlobal:
			r := newArgReader(m.args)
			name, _ := r.uint()
			iface, _ := r.string()
			version, _ := r.uint()
			c.globals[iface] = global{name: name, version: version}
		case m.object == syncCallback:
			return nil
		}
	}
}

// bind requests a global by interface name at the given client-side
// interface version, returning the new object id.
func (c *conn) bind(iface string, version uint32) (objectID, error) {
	g, ok := c.globals[iface]
	if !ok {
		return 0, fmt.Errorf("compositor does not advertise %s", iface)
	}
	if version > g.version {
		version = g.version
	}
	id := c.allocID()
	b := &argBuilder{}
	b.putUint(g.name)
	b.putString(iface)
	b.putUint(version)
	b.putObject(id)
	if err := c.send(message{object: c.registryID, opcode: opRegistryBind, args: b.bytes()}); err != nil {
		return 0, err
	}
	return id, nil
}
