package multiwii

import (
	"io"
	"net"
	"strings"
	"time"

	"go.bug.st/serial"
)

const (
	tcpPrefix = "tcp:"

	// DefaultBaudRate is the MSP baud rate used by most flight controllers
	DefaultBaudRate = 115200

	dialTimeout = 5 * time.Second
)

type connection interface {
	io.Reader
	io.Writer
	io.Closer
}

func openTCPConnection(addr string) (connection, error) {
	return net.DialTimeout("tcp", addr, dialTimeout)
}

func openSerialConnection(port string, baudRate int) (connection, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	return serial.Open(portName(port), mode)
}

// openConnection opens "tcp:host:port" as a TCP socket (e.g. a SITL
// simulator) and anything else as a serial port.
func openConnection(name string, baudRate int) (connection, error) {
	if strings.HasPrefix(name, tcpPrefix) {
		return openTCPConnection(name[len(tcpPrefix):])
	}
	return openSerialConnection(name, baudRate)
}

// AvailablePorts returns the list of serial ports in the system
// followed by the given TCP addresses, which are returned with
// the "tcp:" prefix.
func AvailablePorts(tcpAddrs ...string) ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		if pe, ok := err.(*serial.PortError); ok {
			if pe.Code() == serial.ErrorEnumeratingPorts {
				// This happens on Windows when there are
				// no serial ports
				ports = nil
				err = nil
			}
		}
		if err != nil {
			return nil, err
		}
	}
	filtered := filterPorts(ports)
	for _, v := range tcpAddrs {
		if v = strings.TrimSpace(v); v != "" {
			filtered = append(filtered, tcpPrefix+v)
		}
	}
	return filtered, nil
}
