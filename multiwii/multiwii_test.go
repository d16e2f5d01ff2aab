package multiwii

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type request struct {
	cmd     Command
	payload []byte
}

// fakeDevice answers requests on the other end of a pipe
type fakeDevice struct {
	conn   net.Conn
	handle func(req *request) []byte

	mu       sync.Mutex
	requests []*request
}

func (d *fakeDevice) readRequest() (*request, error) {
	hdr := make([]byte, 5)
	if _, err := io.ReadFull(d.conn, hdr); err != nil {
		return nil, err
	}
	if hdr[0] != '$' || hdr[1] != 'M' || hdr[2] != '<' {
		return nil, errors.New("invalid request header")
	}
	rest := make([]byte, int(hdr[3])+1)
	if _, err := io.ReadFull(d.conn, rest); err != nil {
		return nil, err
	}
	return &request{cmd: Command(hdr[4]), payload: rest[:len(rest)-1]}, nil
}

func (d *fakeDevice) run() {
	for {
		req, err := d.readRequest()
		if err != nil {
			return
		}
		d.mu.Lock()
		d.requests = append(d.requests, req)
		d.mu.Unlock()
		if d.handle == nil {
			continue
		}
		if reply := d.handle(req); reply != nil {
			if _, err := d.conn.Write(reply); err != nil {
				return
			}
		}
	}
}

func (d *fakeDevice) received() []*request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*request(nil), d.requests...)
}

func newTestFC(opts *Options, handle func(req *request) []byte) (*FC, *fakeDevice) {
	client, server := net.Pipe()
	dev := &fakeDevice{conn: server, handle: handle}
	go dev.run()
	return NewWithConn(client, opts), dev
}

func TestRequest(t *testing.T) {
	var mu sync.Mutex
	var received []Message
	sink := SinkFunc(func(msg Message) {
		mu.Lock()
		received = append(received, msg)
		mu.Unlock()
	})
	fc, _ := newTestFC(&Options{Sink: sink}, func(req *request) []byte {
		if req.cmd != CmdAttitude {
			return nil
		}
		// unsolicited reply first, skipped by Request
		reply := encodeFrame(DirectionReply, CmdName, []byte("quad"))
		return append(reply, encodeFrame(DirectionReply, CmdAttitude, []byte{100, 0, 200, 0, 50, 0})...)
	})
	defer fc.Close()

	msg, err := fc.Request(CmdAttitude)
	require.NoError(t, err)
	assert.Equal(t, &AttitudeMessage{Roll: 10, Pitch: 20, Yaw: 50, Raw: [3]uint16{100, 200, 50}}, msg)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 2)
	assert.Equal(t, CmdName, received[0].Command())
	assert.Equal(t, msg, received[1])
}

func TestRequestRejected(t *testing.T) {
	fc, _ := newTestFC(nil, func(req *request) []byte {
		return encodeFrame(DirectionError, req.cmd, nil)
	})
	defer fc.Close()

	_, err := fc.Request(CmdServoConf)
	var de *DeviceRejectedError
	require.True(t, errors.As(err, &de), "%v", err)
	assert.Equal(t, CmdServoConf, de.Cmd)
}

func TestRequestChecksumError(t *testing.T) {
	fc, _ := newTestFC(nil, func(req *request) []byte {
		reply := encodeFrame(DirectionReply, req.cmd, []byte{1, 2, 3})
		reply[len(reply)-1]++
		return reply
	})
	defer fc.Close()

	_, err := fc.Request(CmdBox)
	var ce *ChecksumError
	assert.True(t, errors.As(err, &ce), "%v", err)
}

func TestRequestDecodeError(t *testing.T) {
	fc, _ := newTestFC(nil, func(req *request) []byte {
		return encodeFrame(DirectionReply, req.cmd, []byte{1})
	})
	defer fc.Close()

	_, err := fc.Request(CmdAltitude)
	assert.True(t, errors.Is(err, ErrDecodeTruncated), "%v", err)
}

func TestRequestTimeout(t *testing.T) {
	fc, dev := newTestFC(&Options{Timeout: 50 * time.Millisecond}, nil)
	defer fc.Close()

	start := time.Now()
	_, err := fc.Request(CmdStatus)
	assert.Equal(t, ErrTimeout, err)
	assert.True(t, time.Since(start) >= 50*time.Millisecond)
	assert.Eventually(t, func() bool { return len(dev.received()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, CmdStatus, dev.received()[0].cmd)
}

func TestRequestIgnoresLateReply(t *testing.T) {
	var mu sync.Mutex
	var names []string
	sink := SinkFunc(func(msg Message) {
		if m, ok := msg.(*NameMessage); ok {
			mu.Lock()
			names = append(names, m.Name)
			mu.Unlock()
		}
	})
	count := 0
	fc, _ := newTestFC(&Options{Timeout: 50 * time.Millisecond, Sink: sink}, func(req *request) []byte {
		count++
		if count == 1 {
			time.Sleep(100 * time.Millisecond)
		}
		return encodeFrame(DirectionReply, CmdName, []byte(fmt.Sprint(count)))
	})
	defer fc.Close()

	_, err := fc.Request(CmdName)
	assert.Equal(t, ErrTimeout, err)
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(names) == 1
	}, time.Second, 10*time.Millisecond)

	msg, err := fc.Request(CmdName)
	require.NoError(t, err)
	assert.Equal(t, "2", msg.(*NameMessage).Name)

	msg, err = fc.Request(CmdName)
	require.NoError(t, err)
	assert.Equal(t, "3", msg.(*NameMessage).Name)
}

func TestRequestIgnoresRepliesToSend(t *testing.T) {
	count := 0
	fc, _ := newTestFC(nil, func(req *request) []byte {
		count++
		return encodeFrame(DirectionReply, req.cmd, []byte(fmt.Sprint(count)))
	})
	defer fc.Close()

	require.NoError(t, fc.Send(CmdName))
	time.Sleep(50 * time.Millisecond)
	msg, err := fc.Request(CmdName)
	require.NoError(t, err)
	assert.Equal(t, "2", msg.(*NameMessage).Name)
}

func TestRequestClosed(t *testing.T) {
	client, server := net.Pipe()
	fc := NewWithConn(client, &Options{Timeout: time.Second})
	defer fc.Close()
	go func() {
		// read the request, then hang up
		buf := make([]byte, 6)
		io.ReadFull(server, buf)
		server.Close()
	}()
	_, err := fc.Request(CmdIdent)
	assert.Equal(t, ErrClosed, err)
}

func TestIdentify(t *testing.T) {
	fc, _ := newTestFC(nil, func(req *request) []byte {
		return encodeFrame(DirectionReply, CmdIdent, le(uint8(231), uint8(3), uint8(0), uint32(0)))
	})
	defer fc.Close()

	ident, err := fc.Identify()
	require.NoError(t, err)
	assert.Equal(t, "2.3.1", ident.VersionString())
}

func TestSend(t *testing.T) {
	fc, dev := newTestFC(nil, nil)
	defer fc.Close()

	require.NoError(t, fc.Send(CmdSetRawRC, 1500, 1000))
	require.NoError(t, fc.Send(CmdAccCalibration))
	assert.Eventually(t, func() bool { return len(dev.received()) == 2 }, time.Second, 10*time.Millisecond)
	reqs := dev.received()
	assert.Equal(t, &request{cmd: CmdSetRawRC, payload: []byte{0xdc, 0x05, 0xe8, 0x03}}, reqs[0])
	assert.Equal(t, CmdAccCalibration, reqs[1].cmd)
	assert.Empty(t, reqs[1].payload)
}

func TestSendBytes(t *testing.T) {
	client, server := net.Pipe()
	fc := NewWithConn(client, nil)
	defer fc.Close()

	expected, err := EncodeRequest(CmdSetPID, []int16{1, 2}, true)
	require.NoError(t, err)
	got := make([]byte, len(expected))
	done := make(chan error, 1)
	go func() {
		_, err := io.ReadFull(server, got)
		done <- err
	}()
	require.NoError(t, fc.SendBytes(CmdSetPID, 1, 2))
	require.NoError(t, <-done)
	assert.Equal(t, expected, got)
}

func TestArm(t *testing.T) {
	fc, dev := newTestFC(nil, nil)
	defer fc.Close()

	require.NoError(t, fc.Arm())
	assert.Eventually(t, func() bool { return len(dev.received()) >= 10 }, time.Second, 10*time.Millisecond)
	for _, req := range dev.received() {
		assert.Equal(t, CmdSetRawRC, req.cmd)
		assert.Equal(t, []byte{0xdc, 0x05, 0xdc, 0x05, 0xd0, 0x07, 0xe8, 0x03}, req.payload)
	}
}

func TestTracePercentByte(t *testing.T) {
	hook := logtest.NewGlobal()
	level := log.GetLevel()
	log.SetLevel(log.TraceLevel)
	defer func() {
		log.SetLevel(level)
		log.StandardLogger().ReplaceHooks(make(log.LevelHooks))
	}()

	fc, dev := newTestFC(nil, nil)
	defer fc.Close()
	require.NoError(t, fc.Send(CmdSetHead, '%'))
	assert.Eventually(t, func() bool { return len(dev.received()) == 1 }, time.Second, 10*time.Millisecond)

	found := false
	for _, e := range hook.AllEntries() {
		assert.NotContains(t, e.Message, "%!")
		if e.Message == `W >> 037 = 0x25 = "%"` {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSinks(t *testing.T) {
	var a, b int
	sinks := Sinks{
		SinkFunc(func(Message) { a++ }),
		SinkFunc(func(Message) { b++ }),
	}
	sinks.Update(&NameMessage{})
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}
