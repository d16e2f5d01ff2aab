// Package shell provides an interactive console for a connected
// flight controller.
package shell

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/abiosoft/ishell"

	"mwosd/multiwii"
	"mwosd/telemetry"
)

// Controller is the subset of *multiwii.FC used by the shell
type Controller interface {
	Request(cmd multiwii.Command) (multiwii.Message, error)
	Arm() error
	Disarm() error
	CalibrateAcc() error
}

// Shell wraps an ishell.Shell with commands for a Controller
type Shell struct {
	Shell    *ishell.Shell
	fc       Controller
	store    *telemetry.Store
	tcpPorts []string
}

const shellKey = "$shell"

var errUsage = errors.New("usage")

// New returns a Shell. Replies to every request are also stored
// in store by the FC sink, so show can print them later.
func New(fc Controller, store *telemetry.Store, tcpPorts []string) *Shell {
	s := &Shell{
		Shell:    ishell.New(),
		fc:       fc,
		store:    store,
		tcpPorts: tcpPorts,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt("mwosd > ")
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

func shellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Run processes args as a single command if given, otherwise
// it starts the interactive loop.
func (s *Shell) Run(args ...string) error {
	if len(args) > 0 {
		return s.Shell.Process(args...)
	}
	s.Shell.Run()
	return nil
}

// FormatMessage returns a one line representation of msg
func FormatMessage(msg multiwii.Message) string {
	var w bytes.Buffer
	fmt.Fprintf(&w, "%-14s", msg.Command())
	v := reflect.Indirect(reflect.ValueOf(msg))
	fmt.Fprintf(&w, "%s %+v", v.Type().Name(), v.Interface())
	return w.String()
}

func (s *Shell) ports() (string, error) {
	ports, err := multiwii.AvailablePorts(s.tcpPorts...)
	if err != nil {
		return "", err
	}
	if len(ports) == 0 {
		return "No ports found", nil
	}
	var w bytes.Buffer
	for ii, p := range ports {
		if ii > 0 {
			w.WriteByte('\n')
		}
		w.WriteString(p)
	}
	return w.String(), nil
}

func (s *Shell) request(args []string) (string, error) {
	if len(args) != 1 {
		return "", errUsage
	}
	cmd, err := multiwii.ParseCommand(args[0])
	if err != nil {
		return "", err
	}
	msg, err := s.fc.Request(cmd)
	if err != nil {
		return "", err
	}
	return FormatMessage(msg), nil
}

func (s *Shell) show(args []string) (string, error) {
	snap := s.store.Snapshot()
	if len(args) > 0 {
		cmd, err := multiwii.ParseCommand(args[0])
		if err != nil {
			return "", err
		}
		e, ok := snap[cmd]
		if !ok {
			return "", fmt.Errorf("no %s received yet", cmd)
		}
		return FormatMessage(e.Message), nil
	}
	if len(snap) == 0 {
		return "No messages received yet", nil
	}
	cmds := make([]int, 0, len(snap))
	for k := range snap {
		cmds = append(cmds, int(k))
	}
	sort.Ints(cmds)
	var w bytes.Buffer
	for ii, v := range cmds {
		if ii > 0 {
			w.WriteByte('\n')
		}
		w.WriteString(FormatMessage(snap[multiwii.Command(v)].Message))
	}
	return w.String(), nil
}

func (s *Shell) osd(args []string) (string, error) {
	if len(args) != 1 {
		return "", errUsage
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return "", err
	}
	if _, ok := s.store.OSDConfig(); !ok {
		return "", fmt.Errorf("no %s received yet", multiwii.CmdOSDConfig)
	}
	pos, ok := s.store.ItemPosition(multiwii.OSDItem(n))
	if !ok {
		return fmt.Sprintf("item %d is hidden", n), nil
	}
	return fmt.Sprintf("item %d at %s", n, pos), nil
}

func run(fn func(s *Shell, args []string) (string, error)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		out, err := fn(shellFrom(c), c.Args)
		if err == errUsage {
			c.Println(c.Cmd.HelpText())
			return
		}
		if err != nil {
			c.Err(err)
			return
		}
		if out != "" {
			c.Println(out)
		}
	}
}

func action(fn func(s *Shell) error) func(c *ishell.Context) {
	return run(func(s *Shell, _ []string) (string, error) {
		if err := fn(s); err != nil {
			return "", err
		}
		return "OK", nil
	})
}

var commands = []*ishell.Cmd{
	{
		Name:    "ports",
		Aliases: []string{"p"},
		Help:    "list serial ports",
		Func: run(func(s *Shell, _ []string) (string, error) {
			return s.ports()
		}),
	},
	{
		Name:    "request",
		Aliases: []string{"r"},
		Help:    "request COMMAND",
		Completer: func([]string) []string {
			return multiwii.Commands()
		},
		Func: run((*Shell).request),
	},
	{
		Name: "show",
		Help: "show [COMMAND]",
		Func: run((*Shell).show),
	},
	{
		Name: "osd",
		Help: "osd ITEM",
		Func: run((*Shell).osd),
	},
	{
		Name: "arm",
		Help: "arm the craft",
		Func: action(func(s *Shell) error { return s.fc.Arm() }),
	},
	{
		Name: "disarm",
		Help: "disarm the craft",
		Func: action(func(s *Shell) error { return s.fc.Disarm() }),
	},
	{
		Name: "calibrate",
		Help: "calibrate the accelerometer",
		Func: action(func(s *Shell) error { return s.fc.CalibrateAcc() }),
	},
}
