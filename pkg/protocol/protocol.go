// Package protocol implements crabdb's wire protocol: framed requests
// and responses over a connection, dispatched against a store and link
// resolver.
package protocol

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/valyala/bytebufferpool"

	"crabdb/pkg/metrics"
	"crabdb/pkg/object"
	"crabdb/pkg/resolver"
	"crabdb/pkg/store"
)

// Op codes carried in a request frame's one-byte discriminator.
const (
	OpGet    byte = 0
	OpSet    byte = 1
	OpDelete byte = 2
	OpClose  byte = 255
)

// errSentinel is the single payload byte written for a protocol or
// storage error in place of a response object.
const errSentinel = 0xFF

// paramLinkResolution is the only defined GET parameter type: its value
// is the one-byte max resolution depth.
const paramLinkResolution byte = 1

const lengthFieldBytes = 8

// Dispatcher parses requests off a connection and dispatches them
// against a store and resolver. One Dispatcher is shared by every
// connection a worker pool hands off.
type Dispatcher struct {
	store    store.Store
	resolver *resolver.Resolver
	metrics  *metrics.Metrics
}

// New returns a Dispatcher backed by s, resolving GET links via r. m may
// be nil.
func New(s store.Store, r *resolver.Resolver, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{store: s, resolver: r, metrics: m}
}

// HandleConn owns conn's full lifetime: it loops reading a framed
// request, dispatching it, and writing the framed response, until CLOSE
// is received or an I/O error occurs. It returns nil on a clean CLOSE,
// and the I/O error (possibly io.EOF) otherwise — callers treat any
// return as "the connection is done".
func (d *Dispatcher) HandleConn(conn io.ReadWriter) error {
	for {
		frame, err := readFrame(conn)
		if err != nil {
			return err
		}
		if len(frame) < 1 {
			if err := writeError(conn); err != nil {
				return err
			}
			continue
		}

		op := frame[0]
		body := frame[1:]

		done, err := d.dispatch(conn, op, body)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// dispatch handles one already-framed request. done is true once CLOSE
// has been processed. A returned error is always an I/O error (writing
// the response failed); protocol and storage errors are reported to the
// client via the sentinel and never returned here.
func (d *Dispatcher) dispatch(w io.Writer, op byte, body []byte) (done bool, err error) {
	switch op {
	case OpClose:
		d.metrics.ObserveRequest("close")
		return true, nil
	case OpGet:
		return false, d.handleGet(w, body)
	case OpSet:
		return false, d.handleSet(w, body)
	case OpDelete:
		return false, d.handleDelete(w, body)
	default:
		d.metrics.ObserveError("unknown", "protocol")
		return false, writeError(w)
	}
}

func (d *Dispatcher) handleGet(w io.Writer, body []byte) error {
	const op = "get"

	key, rest, err := object.DecodeKey(body)
	if err != nil {
		d.metrics.ObserveError(op, "protocol")
		return writeError(w)
	}

	maxDepth, err := parseGetParams(rest)
	if err != nil {
		d.metrics.ObserveError(op, "protocol")
		return writeError(w)
	}

	obj, err := d.store.Retrieve(key)
	if err != nil {
		d.metrics.ObserveError(op, "storage")
		return writeError(w)
	}

	resolved, err := d.resolver.Resolve(obj, maxDepth)
	if err != nil {
		d.metrics.ObserveError(op, "storage")
		return writeError(w)
	}

	d.metrics.ObserveRequest(op)
	return writeResponse(w, resolved.Encode())
}

// parseGetParams reads the optional parameter block following a GET
// request's key: a one-byte count, then that many (type, value) pairs.
// The only defined parameter, LinkResolution, carries the one-byte max
// resolution depth. Absent a parameter block, resolution depth is 0 —
// "do not resolve any link".
func parseGetParams(rest []byte) (maxDepth uint8, err error) {
	if len(rest) == 0 {
		return 0, nil
	}
	count := rest[0]
	rest = rest[1:]
	for i := byte(0); i < count; i++ {
		if len(rest) < 1 {
			return 0, object.ErrIncomplete
		}
		paramType := rest[0]
		rest = rest[1:]
		switch paramType {
		case paramLinkResolution:
			if len(rest) < 1 {
				return 0, object.ErrIncomplete
			}
			maxDepth = rest[0]
			rest = rest[1:]
		default:
			return 0, object.ErrMalformedData
		}
	}
	return maxDepth, nil
}

func (d *Dispatcher) handleSet(w io.Writer, body []byte) error {
	const op = "set"

	key, rest, err := object.DecodeKey(body)
	if err != nil {
		d.metrics.ObserveError(op, "protocol")
		return writeError(w)
	}
	obj, rest, err := object.Decode(rest)
	if err != nil {
		d.metrics.ObserveError(op, "protocol")
		return writeError(w)
	}
	if len(rest) != 0 {
		d.metrics.ObserveError(op, "protocol")
		return writeError(w)
	}

	prior, err := d.store.Store(key, obj)
	if err != nil {
		d.metrics.ObserveError(op, "storage")
		return writeError(w)
	}

	d.metrics.ObserveRequest(op)
	return writeResponse(w, prior.Encode())
}

func (d *Dispatcher) handleDelete(w io.Writer, body []byte) error {
	const op = "delete"

	key, rest, err := object.DecodeKey(body)
	if err != nil || len(rest) != 0 {
		d.metrics.ObserveError(op, "protocol")
		return writeError(w)
	}

	prior, err := d.store.Remove(key)
	if err != nil {
		d.metrics.ObserveError(op, "storage")
		return writeError(w)
	}

	d.metrics.ObserveRequest(op)
	return writeResponse(w, prior.Encode())
}

// readFrame reads one request frame: the 8-byte BE payload length
// (excluding these 8 bytes), then exactly that many bytes. A short read
// anywhere is an I/O error that ends the connection.
func readFrame(r io.Reader) ([]byte, error) {
	var lenBuf [lengthFieldBytes]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint64(lenBuf[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errors.Join(io.ErrUnexpectedEOF, err)
	}
	return buf, nil
}

// writeResponse writes a successful response frame: an 8-byte BE length
// followed by payload. The frame is built in a pooled buffer: it is
// written out and returned to the pool before this call returns, so
// nothing downstream ever observes it after reuse.
func writeResponse(w io.Writer, payload []byte) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	var lenField [lengthFieldBytes]byte
	binary.BigEndian.PutUint64(lenField[:], uint64(len(payload)))
	buf.Write(lenField[:])
	buf.Write(payload)

	_, err := w.Write(buf.B)
	return err
}

// writeError writes the one-byte error sentinel as a response frame.
func writeError(w io.Writer) error {
	return writeResponse(w, []byte{errSentinel})
}
