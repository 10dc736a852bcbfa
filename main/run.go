package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adammck/dynamixel/network"
	"github.com/jacobsa/go-serial/serial"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/unitycoder/walker-tank-experiment"
	"github.com/unitycoder/walker-tank-experiment/components/controller"
	"github.com/unitycoder/walker-tank-experiment/components/legs"
	"github.com/unitycoder/walker-tank-experiment/components/overlay"
	"github.com/unitycoder/walker-tank-experiment/components/turret"
	"github.com/unitycoder/walker-tank-experiment/components/voltage"
	"github.com/unitycoder/walker-tank-experiment/config"
	"github.com/unitycoder/walker-tank-experiment/debugview"
	"github.com/unitycoder/walker-tank-experiment/scene"
	"github.com/unitycoder/walker-tank-experiment/servos"
	"golang.org/x/sync/errgroup"
)

const (

	// How long to keep ticking after a shutdown is requested, to give
	// everything time to settle.
	shutdownGrace = 3 * time.Second
)

var (
	portName  string
	padPath   string
	debugAddr string
	fps       int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the walker until interrupted",
	RunE:  runWalker,
}

func init() {
	runCmd.Flags().StringVar(&portName, "port", "", "the serial port path of the Dynamixel bus; empty runs without servos")
	runCmd.Flags().StringVar(&padPath, "pad", "", "the input device of the sixaxis gamepad, e.g. /dev/input/event0")
	runCmd.Flags().StringVar(&debugAddr, "debug-addr", "", "override debug.addr")
	runCmd.Flags().IntVar(&fps, "fps", 60, "frames per second")
}

func runWalker(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if debugAddr != "" {
		cfg.Debug.Addr = debugAddr
	}

	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}

	m, err := loadScene()
	if err != nil {
		return err
	}

	w := walker.New()
	l := legs.New(w, m, cfg)

	var n *network.Network
	if portName != "" {
		port, err := openPort(portName)
		if err != nil {
			return err
		}
		defer port.Close()

		n = network.New(port)
		defer servos.Shutdown()

		if err := attachServos(w, n, m, cfg.Servos); err != nil {
			return err
		}
	}

	// Components tick in this order: input, then aim, then the legs (which
	// actuate everything), then the overlay.
	if padPath != "" {
		f, err := os.Open(padPath)
		if err != nil {
			return fmt.Errorf("%w (while opening gamepad)", err)
		}
		defer f.Close()

		w.Add(controller.New(w, l, f))
	}

	w.Add(turret.New(w, m, cfg.Turret))
	w.Add(l)

	var hub *debugview.Hub
	if cfg.Debug.Addr != "" {
		hub = debugview.NewHub()
		interval := time.Duration(cfg.Debug.IntervalMS) * time.Millisecond
		w.Add(overlay.New(l, hub, interval).WithState(func() string { return string(l.State()) }))
	}

	logrus.Info("booting components")
	if err := w.Boot(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if hub != nil {
		g.Go(func() error {
			hub.Run(ctx)
			return nil
		})

		g.Go(func() error {
			return debugview.Serve(ctx, cfg.Debug.Addr, hub)
		})
	}

	g.Go(func() error {
		defer stop()
		return loop(ctx, w, n, time.Second/time.Duration(fps))
	})

	return g.Wait()
}

// loop ticks the walker until the context is canceled or a shutdown is
// requested, then keeps ticking for a little while to let it settle.
func loop(ctx context.Context, w *walker.Walker, n *network.Network, period time.Duration) error {
	t := time.NewTicker(period)
	defer t.Stop()

	var deadline time.Time

	logrus.Info("starting loop")
	for {
		select {
		case <-ctx.Done():
			logrus.Info("caught signal, shutting down")
			return nil

		case now := <-t.C:
			if err := tick(w, n, now); err != nil {
				return err
			}

			if w.Shutdown && deadline.IsZero() {
				logrus.Infof("shutdown requested, waiting %v", shutdownGrace)
				deadline = now.Add(shutdownGrace)
			}

			if !deadline.IsZero() && now.After(deadline) {
				return nil
			}
		}
	}
}

// tick runs one frame. With servos, every command of the frame is buffered and
// then released at once.
func tick(w *walker.Walker, n *network.Network, now time.Time) error {
	if n == nil {
		return w.Tick(now)
	}

	var err error
	syncErr := servos.Sync(n, func() {
		err = w.Tick(now)
	})

	if err != nil {
		return err
	}

	return syncErr
}

func openPort(name string) (io.ReadWriteCloser, error) {
	opts := serial.OpenOptions{
		PortName:              name,
		BaudRate:              1000000,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       0,
		InterCharacterTimeout: 100,
	}

	logrus.Infof("opening serial port %s", name)
	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w (while opening serial port)", err)
	}

	return port, nil
}

// attachServos sets up every configured servo, and mirrors the commands of
// its joint onto it. The first servo also reports the battery voltage.
func attachServos(w *walker.Walker, n *network.Network, m *scene.Memory, scs []config.ServoConfig) error {
	for i, sc := range scs {
		s, err := servos.New(n, sc.ID)
		if err != nil {
			return fmt.Errorf("%w (while setting up servo %s)", err, sc.Joint)
		}

		a := &servos.Actuator{
			Name:   sc.Joint,
			Servo:  s,
			Offset: sc.Offset,
			Invert: sc.Invert,
		}

		if err := m.Attach(sc.Joint, a); err != nil {
			return err
		}

		if i == 0 {
			w.Add(voltage.New(w, s))
		}
	}

	logrus.Infof("attached %d servos", len(scs))
	return nil
}
