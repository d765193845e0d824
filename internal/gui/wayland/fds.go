package wayland

import (
	"encoding/binary"
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// decodeMessage parses one wire message out of a raw buffer already read
// off the socket (used by recvWithFD, which must read via Recvmsg rather
// than conn.recv's plain Read to also capture ancillary fd data).
func decodeMessage(buf []byte) (message, error) {
	if len(buf) < 8 {
		return message{}, fmt.Errorf("malformed wayland message")
	}
	obj := objectID(binary.LittleEndian.Uint32(buf[0:4]))
	opAndLen := binary.LittleEndian.Uint32(buf[4:8])
	opcode := uint16(opAndLen & 0xffff)
	size := uint16(opAndLen >> 16)
	if int(size) > len(buf) {
		return message{}, fmt.Errorf("truncated wayland message")
	}
	return message{object: obj, opcode: opcode, args: buf[8:size]}, nil
}

// sendWithFD writes m's wire bytes on conn's socket with fd attached as
// SCM_RIGHTS ancillary data — the mechanism wl_data_source.send and
// wl_data_offer.receive use to hand over the pipe endpoint the payload
// actually flows through (the wire message itself carries no inline bytes
// for the transfer).
func (c *conn) sendWithFD(m message, fd int) error {
	uc, ok := c.sock.(*net.UnixConn)
	if !ok {
		return fmt.Errorf("wayland connection is not a unix socket")
	}
	raw, err := uc.SyscallConn()
	if err != nil {
		return err
	}
	rights := unix.UnixRights(fd)
	wire := m.encode()
	var sendErr error
	err = raw.Write(func(s uintptr) bool {
		sendErr = unix.Sendmsg(int(s), wire, rights, nil, 0)
		return sendErr != unix.EAGAIN
	})
	if err != nil {
		return err
	}
	return sendErr
}

// recvWithFD reads one message and any SCM_RIGHTS fd attached to it,
// returning -1 if none was present.
func (c *conn) recvWithFD() (message, int, error) {
	uc, ok := c.sock.(*net.UnixConn)
	if !ok {
		return message{}, -1, fmt.Errorf("wayland connection is not a unix socket")
	}
	raw, err := uc.SyscallConn()
	if err != nil {
		return message{}, -1, err
	}

	buf := make([]byte, 4096)
	oob := make([]byte, unix.CmsgSpace(4))
	var n, oobn int
	var recvErr error
	err = raw.Read(func(s uintptr) bool {
		n, oobn, _, _, recvErr = unix.Recvmsg(int(s), buf, oob, 0)
		return recvErr != unix.EAGAIN
	})
	if err != nil {
		return message{}, -1, err
	}
	if recvErr != nil {
		return message{}, -1, recvErr
	}
	if n < 8 {
		return message{}, -1, fmt.Errorf("short wayland message")
	}

	fd := -1
	if oobn > 0 {
		scms, err := unix.ParseSocketControlMessage(oob[:oobn])
		if err == nil && len(scms) > 0 {
			if fds, err := unix.ParseUnixRights(&scms[0]); err == nil && len(fds) > 0 {
				fd = fds[0]
			}
		}
	}

	m, err := decodeMessage(buf[:n])
	return m, fd, err
}

// pipePair allocates an OS pipe, returning the read and write ends as
// *os.File so callers can use ordinary io.Reader/io.Writer on them.
func pipePair() (r, w *os.File, err error) {
	return os.Pipe()
}
