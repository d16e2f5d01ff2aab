package multiwii

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// DefaultTimeout is used by Request when Options.Timeout is zero
	DefaultTimeout = 1 * time.Second

	responseQueueSize = 16

	stickRepeatInterval = 50 * time.Millisecond
	stickRepeatDuration = 500 * time.Millisecond
)

var (
	// roll, pitch, yaw, throttle
	armSticks    = []int16{1500, 1500, 2000, 1000}
	disarmSticks = []int16{1500, 1500, 1000, 1000}
)

// Sink receives every message decoded from the flight controller
type Sink interface {
	Update(msg Message)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(msg Message)

// Update implements Sink
func (f SinkFunc) Update(msg Message) { f(msg) }

// Sinks forwards each message to all the sinks in order
type Sinks []Sink

// Update implements Sink
func (s Sinks) Update(msg Message) {
	for _, v := range s {
		v.Update(msg)
	}
}

// Options configures a connection to a flight controller.
// The zero value is valid.
type Options struct {
	// BaudRate for serial ports, DefaultBaudRate if zero
	BaudRate int
	// Timeout for Request, DefaultTimeout if zero
	Timeout time.Duration
	// Sink receives all decoded messages, may be nil
	Sink Sink
}

type response struct {
	cmd Command
	msg Message
	err error
}

// FC represents an active connection to a flight controller
// speaking MSPv1. Use New to start a new connection.
type FC struct {
	conn       connection
	connCh     chan byte
	responseCh chan *response
	timeout    time.Duration
	sink       Sink

	writeMu   sync.Mutex
	requestMu sync.Mutex

	// command Request is waiting for, responses for anything
	// else are not queued
	pendingMu  sync.Mutex
	pending    Command
	hasPending bool
}

func (f *FC) readConn() {
	buf := make([]byte, 256)
	for {
		n, err := f.conn.Read(buf)
		for _, c := range buf[:n] {
			if log.IsLevelEnabled(log.TraceLevel) {
				log.Trace(f.dumpByte("R <<", c))
			}
			f.connCh <- c
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("error reading from port: %v", err)
			}
			break
		}
	}
	close(f.connCh)
}

func (f *FC) decodeResponses() {
	parser := NewParser()
	for c := range f.connCh {
		msg, err := parser.Feed(c)
		switch {
		case err != nil:
			log.Warn(err)
			f.respond(&response{cmd: errorCommand(err), err: err})
		case msg != nil:
			log.Debugf("MSP: %s <= %+v", msg.Command(), msg)
			if f.sink != nil {
				f.sink.Update(msg)
			}
			f.respond(&response{cmd: msg.Command(), msg: msg})
		}
	}
	close(f.responseCh)
}

func (f *FC) setPending(cmd Command, pending bool) {
	f.pendingMu.Lock()
	f.pending = cmd
	f.hasPending = pending
	f.pendingMu.Unlock()
}

func (f *FC) isPending(cmd Command) bool {
	f.pendingMu.Lock()
	defer f.pendingMu.Unlock()
	return f.hasPending && f.pending == cmd
}

// respond queues a response for a pending Request. Replies
// nobody is waiting for, such as late replies to a request that
// timed out, are dropped here so they can't be mistaken for the
// reply to a later request.
func (f *FC) respond(resp *response) {
	if !f.isPending(resp.cmd) {
		return
	}
	select {
	case f.responseCh <- resp:
	default:
		log.Debugf("MSP: dropping response for %s, queue full", resp.cmd)
	}
}

func errorCommand(err error) Command {
	var ce *ChecksumError
	var de *DeviceRejectedError
	var dec *DecodeError
	switch {
	case errors.As(err, &ce):
		return ce.Cmd
	case errors.As(err, &de):
		return de.Cmd
	case errors.As(err, &dec):
		return dec.Cmd
	}
	return 0
}

func (f *FC) write(data []byte) error {
	if log.IsLevelEnabled(log.TraceLevel) {
		for _, b := range data {
			log.Trace(f.dumpByte("W >>", b))
		}
	}
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	_, err := f.conn.Write(data)
	return err
}

func (f *FC) send(req *Request) error {
	data, err := req.Encode()
	if err != nil {
		return err
	}
	log.Debugf("MSP: %s=> %s", req.Cmd, hex.EncodeToString(data))
	return f.write(data)
}

// Send sends a request with 16 bit payload elements without
// waiting for its response. The response, if any, is delivered
// to the Sink.
func (f *FC) Send(cmd Command, payload ...int16) error {
	return f.send(&Request{Cmd: cmd, Payload: payload})
}

// SendBytes sends a request with single byte payload elements
// without waiting for its response.
func (f *FC) SendBytes(cmd Command, payload ...int16) error {
	return f.send(&Request{Cmd: cmd, Payload: payload, ByteWidth: true})
}

// drainResponses discards queued responses without blocking
func (f *FC) drainResponses() {
	for {
		select {
		case resp, ok := <-f.responseCh:
			if !ok {
				return
			}
			log.Debugf("MSP: discarding stale response for %s", resp.cmd)
		default:
			return
		}
	}
}

func (f *FC) awaitResponse(cmd Command) (Message, error) {
	timeout := time.NewTimer(f.timeout)
	defer timeout.Stop()
	for {
		select {
		case resp, ok := <-f.responseCh:
			if !ok {
				return nil, ErrClosed
			}
			if resp.cmd != cmd {
				log.Debugf("MSP: skipping %s while waiting for %s", resp.cmd, cmd)
				continue
			}
			if resp.err != nil {
				return nil, resp.err
			}
			return resp.msg, nil
		case <-timeout.C:
			return nil, ErrTimeout
		}
	}
}

// Request sends a request without payload and waits for its response.
// It returns ErrTimeout if no response arrives in time and a
// *DeviceRejectedError if the flight controller doesn't support
// the command. Concurrent calls are serialized.
func (f *FC) Request(cmd Command) (Message, error) {
	f.requestMu.Lock()
	defer f.requestMu.Unlock()
	f.setPending(cmd, true)
	defer f.setPending(0, false)
	f.drainResponses()
	if err := f.Send(cmd); err != nil {
		return nil, err
	}
	return f.awaitResponse(cmd)
}

// Identify requests MSP_IDENT and returns the decoded message. A
// warning is logged for firmware versions older than MinFirmwareVersion.
func (f *FC) Identify() (*IdentMessage, error) {
	msg, err := f.Request(CmdIdent)
	if err != nil {
		return nil, err
	}
	ident, ok := msg.(*IdentMessage)
	if !ok {
		return nil, &unexpectedMessageError{Expected: CmdIdent, Message: msg}
	}
	supported, err := ident.IsSupported()
	if err != nil {
		return nil, err
	}
	if !supported {
		log.Warnf("firmware version %s is older than %s, some messages might not decode",
			ident.VersionString(), MinFirmwareVersion)
	}
	return ident, nil
}

func (f *FC) sendRepeated(cmd Command, payload []int16) error {
	ticker := time.NewTicker(stickRepeatInterval)
	defer ticker.Stop()
	deadline := time.Now().Add(stickRepeatDuration)
	for {
		if err := f.Send(cmd, payload...); err != nil {
			return err
		}
		if !time.Now().Before(deadline) {
			return nil
		}
		<-ticker.C
	}
}

// Arm arms the craft by holding the sticks in the arming
// position for half a second.
func (f *FC) Arm() error {
	return f.sendRepeated(CmdSetRawRC, armSticks)
}

// Disarm disarms the craft by holding the sticks in the
// disarming position for half a second.
func (f *FC) Disarm() error {
	return f.sendRepeated(CmdSetRawRC, disarmSticks)
}

// CalibrateAcc starts the accelerometer calibration
func (f *FC) CalibrateAcc() error {
	return f.Send(CmdAccCalibration)
}

// SetPID writes the given PID gains. Use Request(CmdPID) to
// retrieve the current ones.
func (f *FC) SetPID(terms [PIDItems]PIDTerm) error {
	return f.SendBytes(CmdSetPID, EncodePIDTerms(terms)...)
}

// Close closes the connection to the flight controller
func (f *FC) Close() error {
	return f.conn.Close()
}

func (f *FC) dumpByte(prefix string, b byte) string {
	s := string([]byte{b})
	return fmt.Sprintf("%s %03d = 0x%02x = %q", prefix, b, b, s)
}

// NewWithConn returns an FC communicating over the given
// connection, which is closed by FC.Close.
func NewWithConn(conn io.ReadWriteCloser, opts *Options) *FC {
	if opts == nil {
		opts = &Options{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	fc := &FC{
		conn:       conn,
		connCh:     make(chan byte, 512),
		responseCh: make(chan *response, responseQueueSize),
		timeout:    timeout,
		sink:       opts.Sink,
	}
	go fc.readConn()
	go fc.decodeResponses()
	return fc
}

// New returns an initialized FC given its port name. Names
// starting with "tcp:" are dialed as TCP addresses.
func New(port string, opts *Options) (*FC, error) {
	baudRate := 0
	if opts != nil {
		baudRate = opts.BaudRate
	}
	c, err := openConnection(port, baudRate)
	if err != nil {
		return nil, err
	}
	return NewWithConn(c, opts), nil
}
