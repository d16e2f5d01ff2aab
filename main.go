package main // import "mwosd"

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"mwosd/internal/config"
	"mwosd/internal/mqttpub"
	"mwosd/internal/shell"
	"mwosd/multiwii"
	"mwosd/telemetry"
)

const (
	appVersion = "0.1.0"

	summaryInterval = 5 * time.Second
)

// App is an opaque type that contains the whole application state
type App struct {
	cfg       *config.Config
	store     *telemetry.Store
	publisher *mqttpub.Publisher
	fc        *multiwii.FC
	poll      []multiwii.Command
	done      chan struct{}
}

func newApp(cfg *config.Config) (*App, error) {
	poll, err := cfg.PollCommands()
	if err != nil {
		return nil, err
	}
	a := &App{
		cfg:   cfg,
		store: telemetry.NewStore(),
		poll:  poll,
		done:  make(chan struct{}),
	}
	return a, nil
}

func (a *App) connectPublisher() error {
	if a.cfg.MQTT == "" {
		return nil
	}
	p, err := mqttpub.New(a.cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT broker: %w", err)
	}
	a.publisher = p
	return nil
}

func (a *App) sink() multiwii.Sink {
	sinks := multiwii.Sinks{a.store}
	if a.publisher != nil {
		sinks = append(sinks, a.publisher)
	}
	return sinks
}

func (a *App) availablePorts() []string {
	ports, err := multiwii.AvailablePorts(a.cfg.TCPPorts...)
	if err != nil {
		log.Errorln(err)
		return nil
	}
	return ports
}

func (a *App) selectPort() (string, error) {
	if a.cfg.Port != "" {
		return a.cfg.Port, nil
	}
	ports := a.availablePorts()
	if len(ports) == 0 {
		return "", errors.New("no ports found, use -port")
	}
	if len(ports) > 1 {
		log.Infof("found %d ports (%s), using %s", len(ports), strings.Join(ports, ", "), ports[0])
	}
	return ports[0], nil
}

func (a *App) connect() error {
	port, err := a.selectPort()
	if err != nil {
		return err
	}
	fc, err := multiwii.New(port, &multiwii.Options{
		BaudRate: a.cfg.BaudRate,
		Timeout:  a.cfg.Timeout,
		Sink:     a.sink(),
	})
	if err != nil {
		return err
	}
	ident, err := fc.Identify()
	if err != nil {
		fc.Close()
		return fmt.Errorf("identifying flight controller on %s: %w", port, err)
	}
	log.Infof("connected to %s: firmware %s, type %d, MSP version %d",
		port, ident.VersionString(), ident.MultiType, ident.MSPVersion)
	a.fc = fc
	return nil
}

func (a *App) dropPolled(cmd multiwii.Command) {
	for ii, v := range a.poll {
		if v == cmd {
			a.poll = append(a.poll[:ii], a.poll[ii+1:]...)
			return
		}
	}
}

func (a *App) pollOnce(next int) int {
	if len(a.poll) == 0 {
		return 0
	}
	next %= len(a.poll)
	cmd := a.poll[next]
	_, err := a.fc.Request(cmd)
	var rejected *multiwii.DeviceRejectedError
	switch {
	case err == nil:
	case errors.As(err, &rejected):
		log.Warnf("flight controller doesn't support %s, not polling it anymore", cmd)
		a.dropPolled(cmd)
		return next
	case errors.Is(err, multiwii.ErrTimeout):
		log.Debugf("timeout waiting for %s", cmd)
	default:
		log.Warnf("error requesting %s: %v", cmd, err)
	}
	return next + 1
}

func (a *App) pollLoop() {
	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()
	next := 0
	for {
		select {
		case <-ticker.C:
			next = a.pollOnce(next)
		case <-a.done:
			return
		}
	}
}

func (a *App) logSummary() {
	fields := log.Fields{}
	if name, ok := a.store.Name(); ok && name.Name != "" {
		fields["name"] = name.Name
	}
	if att, ok := a.store.Attitude(); ok {
		roll, pitch, yaw := att.Signed()
		fields["roll"] = roll
		fields["pitch"] = pitch
		fields["heading"] = yaw
	}
	if alt, ok := a.store.Altitude(); ok {
		fields["alt_cm"] = alt.Altitude
		fields["vario"] = alt.Vario
	}
	if gps, ok := a.store.RawGPS(); ok {
		fields["sats"] = gps.NumSat
		fields["lat"] = gps.LatitudeDegrees()
		fields["lon"] = gps.LongitudeDegrees()
	}
	if bat, ok := a.store.BatteryState(); ok {
		fields["voltage"] = float64(bat.Voltage) / 10
		fields["mah"] = bat.MAhDrawn
	}
	if pos, ok := a.store.ItemPosition(multiwii.OSDMainBattVoltage); ok {
		fields["osd_batt"] = pos.String()
	}
	if len(fields) == 0 {
		return
	}
	log.WithFields(fields).Info("telemetry")
}

func (a *App) summaryLoop() {
	ticker := time.NewTicker(summaryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			a.logSummary()
		case <-a.done:
			return
		}
	}
}

// Close stops polling and closes all connections
func (a *App) Close() {
	close(a.done)
	if a.fc != nil {
		a.fc.Close()
	}
	if a.publisher != nil {
		a.publisher.Close()
	}
}

// Run connects to the flight controller and polls it until
// interrupted. With interactive set it runs the shell instead,
// processing args as a single command if given.
func (a *App) Run(interactive bool, args []string) error {
	if err := a.connectPublisher(); err != nil {
		return err
	}
	if err := a.connect(); err != nil {
		return err
	}
	if interactive {
		return shell.New(a.fc, a.store, a.cfg.TCPPorts).Run(args...)
	}
	go a.pollLoop()
	go a.summaryLoop()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Info("exiting")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	flag.StringVar(&cfg.Port, "port", cfg.Port, "Serial port or tcp:host:port to connect to")
	flag.IntVar(&cfg.BaudRate, "baud", cfg.BaudRate, "Serial port baud rate")
	flag.StringVar(&cfg.MQTT, "mqtt", cfg.MQTT, "Publish messages to the given MQTT broker URL")
	poll := flag.String("poll", strings.Join(cfg.Poll, ","), "Comma separated list of commands to poll")
	debug := flag.Bool("debug", cfg.Debug, "Set logging level to debug")
	trace := flag.Bool("trace", cfg.Trace, "Set logging level to trace. Implies debug.")
	list := flag.Bool("list", false, "List available ports and exit")
	interactive := flag.Bool("shell", false, "Run an interactive shell")
	version := flag.Bool("version", false, "Print version and exit")
	flag.Parse()
	if *trace {
		log.SetLevel(log.TraceLevel)
	} else if *debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	cfg.Poll = strings.Split(*poll, ",")

	if *version {
		fmt.Println(appVersion)
		return
	}
	app, err := newApp(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if *list {
		for _, p := range app.availablePorts() {
			fmt.Println(p)
		}
		return
	}
	defer app.Close()
	if err := app.Run(*interactive, flag.Args()); err != nil {
		log.Error(err)
		app.Close()
		os.Exit(1)
	}
}
